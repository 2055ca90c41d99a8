package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kih-api/automation/internal/bootstrap"
	"github.com/kih-api/automation/internal/job"
	"github.com/kih-api/automation/internal/journal"
	"github.com/kih-api/automation/internal/ledger"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/tools"
	"github.com/kih-api/automation/internal/wise/account"
	"github.com/kih-api/automation/internal/wise/api"
	"github.com/kih-api/automation/internal/wise/transfer"
)

func main() {
	var (
		month   = flag.String("month", "", "month to load as \"January, 2006\", defaults to next month")
		report  = flag.Bool("email", false, "email the monthly report")
		execute = flag.Bool("transfer", false, "execute the month's transfers")
		recent  = flag.Int("recent", 0, "log this many of the latest journal records")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("can't detect .env file")
	}

	cfg, secrets, err := bootstrap.Load(*execute)
	if err != nil {
		log.Fatalf("%s: can't load config", err)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	var at time.Time
	if *month != "" {
		if at, err = time.Parse("January, 2006", *month); err != nil {
			zapLogger.Fatalf("%s: invalid month", err)
		}
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
	runner := job.NewRunner(notifications.Dispatcher, zapLogger)

	if *recent > 0 {
		logRecent(ctx, notifications.Journal, *recent, zapLogger)
	}

	db, err := ledger.Open(cfg.Ledger, at, zapLogger)
	if err != nil {
		zapLogger.Fatalf("%s: can't open ledger", err)
	}
	income, _ := db.Summary.Get("Income")
	zapLogger.Infof("%s: income %s, budget %s, spent %s, reserve %s, %d transfers",
		ledger.MonthSheet(db.Month),
		tools.FormatDecimal(income, 2),
		tools.FormatDecimal(db.MonthlyExpenses.TotalBudget(), 2),
		tools.FormatDecimal(db.MonthlyExpenses.TotalActual(), 2),
		tools.FormatDecimal(db.Reserve.Total(), 2),
		len(db.Transfers),
	)
	for _, l := range db.MonthlyExpenses.OverBudget() {
		zapLogger.Warnf("%s over budget by %s", l.Category, tools.FormatDecimal(l.Remaining().Neg(), 2))
	}
	if p := db.Projection; p != nil {
		zapLogger.Infof("reserve grows to %s by %s, profit %s",
			tools.FormatDecimal(p.Capital, 2), ledger.MonthSheet(p.Date), tools.FormatDecimal(p.Profit, 2))
	}

	if *report {
		err := runner.Run(ctx, "ledger report", func(ctx context.Context) error {
			if notifications.Email == nil {
				return errors.New("email notifications are disabled")
			}
			r := db.Report()
			body, err := r.HTML()
			if err != nil {
				return err
			}
			return notifications.Email.SendReport(ctx, r.Title, body)
		})
		if err != nil {
			zapLogger.Errorf("%s: can't send ledger report", err)
		}
	}

	if !*execute {
		return
	}

	client := api.NewClient(cfg.Wise, secrets.WiseAPIToken, zapLogger)
	transfers := transfer.NewTransferService(client,
		account.NewAccountService(client, zapLogger), notifications.Dispatcher, zapLogger)

	err = runner.Run(ctx, "ledger transfers", func(ctx context.Context) error {
		var errs []error
		for _, t := range db.Transfers {
			if _, err := transfers.Execute(ctx, t.Request()); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
	if err != nil {
		zapLogger.Fatalf("%s: ledger transfers failed", err)
	}
}

func logRecent(ctx context.Context, store *journal.Store, limit int, logger logger.Logger) {
	if store == nil {
		logger.Warnf("journal is disabled, no records to show")
		return
	}
	records, err := store.Recent(ctx, limit)
	if err != nil {
		logger.Errorf("%s: can't read journal", err)
		return
	}
	for _, r := range records {
		logger.Infof("%s [%s] %s: %s", r.OccurredAt.Format(time.DateTime), r.Channel, r.Kind, r.Message)
	}
}
