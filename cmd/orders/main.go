package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kih-api/automation/internal/bootstrap"
	"github.com/kih-api/automation/internal/config"
	"github.com/kih-api/automation/internal/ibkr/api"
	"github.com/kih-api/automation/internal/ibkr/instrument"
	"github.com/kih-api/automation/internal/ibkr/order"
	"github.com/kih-api/automation/internal/ibkr/portfolio"
	"github.com/kih-api/automation/internal/job"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/model"
	"github.com/kih-api/automation/internal/tools"
	"github.com/shopspring/decimal"
)

type flags struct {
	action      string
	symbol      string
	orderType   string
	side        string
	quantity    string
	price       string
	account     string
	exchange    string
	timeInForce string
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.action, "action", "positions", "place, cancel-all, unfilled-value, positions or history")
	flag.StringVar(&f.symbol, "symbol", "", "symbol to trade")
	flag.StringVar(&f.orderType, "type", string(model.Limit), "order type")
	flag.StringVar(&f.side, "side", string(model.Buy), "BUY or SELL")
	flag.StringVar(&f.quantity, "qty", "", "quantity")
	flag.StringVar(&f.price, "price", "", "limit or stop price")
	flag.StringVar(&f.account, "account", "", "account id, defaults to the configured one")
	flag.StringVar(&f.exchange, "exchange", "", "exchange, defaults to the configured one")
	flag.StringVar(&f.timeInForce, "tif", string(model.GoodTillCancel), "time in force")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	if err := godotenv.Load(); err != nil {
		log.Printf("can't detect .env file")
	}

	cfg, secrets, err := bootstrap.Load(false)
	if err != nil {
		log.Fatalf("%s: can't load config", err)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	notifications, err := bootstrap.NewNotifications(ctx, cfg, secrets, zapLogger)
	if err != nil {
		zapLogger.Fatalf("%s: can't init notifications", err)
	}
	defer func() {
		if err := notifications.Close(); err != nil {
			zapLogger.Errorf("%s: can't close notifications", err)
		}
	}()

	client := api.NewClient(cfg.IBKR, zapLogger)
	instruments := instrument.NewInstrumentService(client, zapLogger)
	orders := order.NewOrderService(client, instruments, notifications.Dispatcher, zapLogger)
	portfolios := portfolio.NewPortfolioService(client, zapLogger)
	runner := job.NewRunner(notifications.Dispatcher, zapLogger)

	if f.account == "" {
		f.account = cfg.IBKR.AccountID
	}

	err = runner.Run(ctx, "orders "+f.action, func(ctx context.Context) error {
		switch f.action {
		case "place":
			return place(ctx, cfg.IBKR, orders, f, zapLogger)
		case "cancel-all":
			responses, err := orders.CancelAll(ctx)
			if err != nil {
				return err
			}
			zapLogger.Infof("sent %d cancellations", len(responses))
			return nil
		case "unfilled-value":
			return unfilledValue(ctx, cfg.IBKR, orders, f, zapLogger)
		case "positions":
			return positions(ctx, portfolios, f.account, zapLogger)
		case "history":
			return history(ctx, cfg.IBKR, instruments, f, zapLogger)
		default:
			return fmt.Errorf("unknown action %q", f.action)
		}
	})
	if err != nil {
		zapLogger.Fatalf("%s: orders failed", err)
	}
}

func exchange(cfg config.IBKRConfig, raw string) (model.Exchange, error) {
	if raw == "" {
		return cfg.DefaultExchange, nil
	}
	return model.ParseExchange(raw)
}

func place(ctx context.Context, cfg config.IBKRConfig, orders *order.OrderService, f flags, logger logger.Logger) error {
	orderType, err := model.ParseOrderType(f.orderType)
	if err != nil {
		return err
	}
	side, err := model.ParseOrderSide(f.side)
	if err != nil {
		return err
	}
	tif, err := model.ParseTimeInForce(f.timeInForce)
	if err != nil {
		return err
	}
	ex, err := exchange(cfg, f.exchange)
	if err != nil {
		return err
	}
	quantity, err := decimal.NewFromString(f.quantity)
	if err != nil {
		return fmt.Errorf("%w: invalid quantity", err)
	}
	var price decimal.NullDecimal
	if f.price != "" {
		p, err := decimal.NewFromString(f.price)
		if err != nil {
			return fmt.Errorf("%w: invalid price", err)
		}
		price = decimal.NewNullDecimal(p)
	}

	o, err := model.NewPlaceOrder(f.symbol, orderType, side, quantity, price, f.account,
		model.WithTimeInForce(tif),
		model.WithExchange(ex),
	)
	if err != nil {
		return err
	}

	resp, err := orders.Place(ctx, o)
	if err != nil {
		return err
	}
	if !resp.Placed {
		return fmt.Errorf("order for %s has not been placed: %s", o.Symbol, tools.StripMarkup(resp.ResponseText))
	}
	logger.Infof("order %s placed with status %s", resp.OrderID, resp.Status)
	return nil
}

func unfilledValue(ctx context.Context, cfg config.IBKRConfig, orders *order.OrderService, f flags, logger logger.Logger) error {
	ex, err := exchange(cfg, f.exchange)
	if err != nil {
		return err
	}
	value, err := orders.UnfilledValue(ctx, ex)
	if err != nil {
		return err
	}
	logger.Infof("unfilled orders value: %s", tools.FormatDecimal(value, 2))
	return nil
}

func positions(ctx context.Context, portfolios *portfolio.PortfolioService, accountID string, logger logger.Logger) error {
	if accountID == "" {
		accounts, err := portfolios.Accounts(ctx)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			return fmt.Errorf("no brokerage accounts")
		}
		accountID = accounts[0].ID
		logger.Infof("using account %s %s", accountID, accounts[0].Alias)
	}

	info, err := portfolios.AccountInformation(ctx, accountID)
	if err != nil {
		return err
	}
	logger.Infof("available funds: %s", model.Money{Currency: info.Currency, Amount: info.AvailableFunds})

	list, err := portfolios.Positions(ctx, accountID)
	if err != nil {
		return err
	}
	for _, p := range list {
		logger.Infof("%s: %s x %s = %s %s", p.Description, p.Size, p.MarketPrice, p.Currency, tools.FormatDecimal(p.MarketValue, 2))
	}
	return nil
}

func history(ctx context.Context, cfg config.IBKRConfig, instruments *instrument.InstrumentService, f flags, logger logger.Logger) error {
	ex, err := exchange(cfg, f.exchange)
	if err != nil {
		return err
	}
	bars, err := instruments.History(ctx, f.symbol, model.Stock, ex, "", "")
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		logger.Infof("no history for %s", f.symbol)
		return nil
	}
	first, last := bars[0], bars[len(bars)-1]
	logger.Infof("%s: %d bars, %s close %s, %s close %s", f.symbol, len(bars),
		first.Timestamp.Format(time.DateOnly), first.Close, last.Timestamp.Format(time.DateOnly), last.Close)
	return nil
}
