package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/kih-api/automation/internal/ibkr/api"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/model"
)

type PortfolioAPI interface {
	Positions(ctx context.Context, accountID string) ([]api.Position, error)
	Accounts(ctx context.Context) ([]api.Account, error)
	AccountSummary(ctx context.Context, accountID string) (api.AccountSummary, error)
}

type PortfolioService struct {
	api PortfolioAPI

	logger logger.Logger
}

func NewPortfolioService(api PortfolioAPI, logger logger.Logger) *PortfolioService {
	return &PortfolioService{
		api:    api,
		logger: logger,
	}
}

func (s *PortfolioService) Positions(ctx context.Context, accountID string) ([]model.Position, error) {
	raw, err := s.api.Positions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: can't get positions of %s", err, accountID)
	}

	positions := make([]model.Position, 0, len(raw))
	for _, p := range raw {
		t, err := model.ParseInstrumentType(p.AssetClass)
		if err != nil {
			return nil, fmt.Errorf("%w: position %s", err, p.Description)
		}
		currency, err := model.ParseCurrency(p.Currency)
		if err != nil {
			return nil, fmt.Errorf("%w: position %s", err, p.Description)
		}

		positions = append(positions, model.Position{
			Description:    p.Description,
			Size:           p.Position,
			MarketPrice:    p.MarketPrice,
			MarketValue:    p.MarketValue,
			InstrumentType: t,
			Currency:       currency,
			AccountID:      accountID,
		})
	}
	return positions, nil
}

func (s *PortfolioService) Accounts(ctx context.Context) ([]model.Account, error) {
	raw, err := s.api.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: can't get accounts", err)
	}

	accounts := make([]model.Account, 0, len(raw))
	for _, a := range raw {
		accounts = append(accounts, model.Account{ID: a.ID, Alias: a.Alias})
	}
	return accounts, nil
}

// AccountInformation reports the funds available for trading.
func (s *PortfolioService) AccountInformation(ctx context.Context, accountID string) (model.AccountInformation, error) {
	summary, err := s.api.AccountSummary(ctx, accountID)
	if err != nil {
		return model.AccountInformation{}, fmt.Errorf("%w: can't get account summary of %s", err, accountID)
	}

	funds := summary.FullAvailableFunds
	currency, err := model.ParseCurrency(funds.Currency)
	if err != nil {
		return model.AccountInformation{}, fmt.Errorf("%w: available funds of %s", err, accountID)
	}

	return model.AccountInformation{
		AvailableFunds: funds.Amount,
		Currency:       currency,
		UpdatedAt:      time.UnixMilli(funds.Timestamp).UTC(),
	}, nil
}
