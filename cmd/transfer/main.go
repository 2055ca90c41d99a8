package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kih-api/automation/internal/bootstrap"
	"github.com/kih-api/automation/internal/job"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/model"
	"github.com/kih-api/automation/internal/wise/account"
	"github.com/kih-api/automation/internal/wise/api"
	"github.com/kih-api/automation/internal/wise/transfer"
	"github.com/shopspring/decimal"
)

func main() {
	var (
		amount    = flag.String("amount", "", "amount the recipient receives")
		from      = flag.String("from", string(model.USD), "source currency")
		to        = flag.String("to", "", "target currency, defaults to the source currency")
		recipient = flag.String("recipient", "", "recipient account number or IBAN")
		reference = flag.String("reference", "", "transfer reference")
		profile   = flag.String("profile", string(model.Personal), "personal or business")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("can't detect .env file")
	}

	cfg, secrets, err := bootstrap.Load(true)
	if err != nil {
		log.Fatalf("%s: can't load config", err)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	req, err := newRequest(*amount, *from, *to, *recipient, *reference, *profile)
	if err != nil {
		zapLogger.Fatalf("%s: invalid transfer", err)
	}

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

	client := api.NewClient(cfg.Wise, secrets.WiseAPIToken, zapLogger)
	accounts := account.NewAccountService(client, zapLogger)
	transfers := transfer.NewTransferService(client, accounts, notifications.Dispatcher, zapLogger)

	err = job.NewRunner(notifications.Dispatcher, zapLogger).Run(ctx, "transfer", func(ctx context.Context) error {
		if req.FromCurrency != req.ToCurrency {
			rate, err := accounts.ExchangeRate(ctx, req.FromCurrency, req.ToCurrency)
			if err != nil {
				return err
			}
			zapLogger.Infof("%s/%s rate: %s", rate.FromCurrency, rate.ToCurrency, rate.Rate)
		}

		t, err := transfers.Execute(ctx, req)
		if err != nil {
			return err
		}
		zapLogger.Infof("transfer %d completed, paid %s %s", t.ID, t.FromCurrency, t.FromAmount)
		return nil
	})
	if err != nil {
		zapLogger.Fatalf("%s: transfer failed", err)
	}
}

func newRequest(amount, from, to, recipient, reference, profile string) (model.TransferRequest, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return model.TransferRequest{}, fmt.Errorf("%w: invalid amount", err)
	}
	if !value.IsPositive() {
		return model.TransferRequest{}, fmt.Errorf("amount must be positive")
	}
	if recipient == "" {
		return model.TransferRequest{}, fmt.Errorf("recipient is required")
	}
	fromCurrency, err := model.ParseCurrency(from)
	if err != nil {
		return model.TransferRequest{}, err
	}
	toCurrency := fromCurrency
	if to != "" {
		if toCurrency, err = model.ParseCurrency(to); err != nil {
			return model.TransferRequest{}, err
		}
	}
	profileType, err := model.ParseProfileType(profile)
	if err != nil {
		return model.TransferRequest{}, err
	}

	return model.TransferRequest{
		Amount:                 value,
		FromCurrency:           fromCurrency,
		ToCurrency:             toCurrency,
		RecipientAccountNumber: recipient,
		Reference:              reference,
		ProfileType:            profileType,
	}, nil
}
