// Package transfer moves money between the user's own Wise recipients.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/model"
	"github.com/kih-api/automation/internal/notify"
	"github.com/kih-api/automation/internal/wise/api"
)

type TransferAPI interface {
	CreateQuote(ctx context.Context, req api.QuoteRequest) (api.Quote, error)
	CreateTransfer(ctx context.Context, targetAccount int64, quoteID, reference string) (api.Transfer, error)
	FundTransfer(ctx context.Context, profileID, transferID int64) (api.Funding, error)
}

type AccountResolver interface {
	Profile(ctx context.Context, t model.ProfileType) (model.UserProfile, error)
	Recipient(ctx context.Context, profile model.UserProfile, accountNumber string) (model.Recipient, error)
	Balance(ctx context.Context, profile model.UserProfile, currency model.Currency) (model.AccountBalance, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, events ...notify.Event)
}

type TransferService struct {
	api      TransferAPI
	accounts AccountResolver
	notifier Notifier

	logger logger.Logger
}

func NewTransferService(api TransferAPI, accounts AccountResolver, notifier Notifier, logger logger.Logger) *TransferService {
	return &TransferService{
		api:      api,
		accounts: accounts,
		notifier: notifier,
		logger:   logger,
	}
}

// Execute performs one transfer and sends exactly one notification about its
// outcome. A transfer is successful only when funding completed, every other
// outcome is returned as an error. Nothing is rolled back: a transfer created
// upstream but not funded stays there.
func (s *TransferService) Execute(ctx context.Context, req model.TransferRequest) (model.Transfer, error) {
	t, err := s.execute(ctx, req)
	if err != nil {
		s.logger.Errorf("%s: transfer of %s %s to %s failed", err, req.ToCurrency, req.Amount, req.RecipientAccountNumber)
		s.notifier.Dispatch(ctx, notify.TransferFailed{Request: req, Recipient: t.Recipient.Name, Reason: err.Error()})
		return t, err
	}

	s.logger.Infof("transferred %s %s to %s, transfer %d", req.ToCurrency, req.Amount, t.Recipient.Name, t.ID)
	s.notifier.Dispatch(ctx, notify.TransferSucceeded{Request: req, Recipient: t.Recipient.Name})
	return t, nil
}

func (s *TransferService) execute(ctx context.Context, req model.TransferRequest) (model.Transfer, error) {
	t := model.Transfer{
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		ToAmount:     req.Amount,
		Reference:    req.Reference,
	}

	profile, err := s.accounts.Profile(ctx, req.ProfileType)
	if err != nil {
		return t, fmt.Errorf("%w: can't resolve %s profile", err, req.ProfileType)
	}
	t.ProfileID = profile.ID

	recipient, err := s.accounts.Recipient(ctx, profile, req.RecipientAccountNumber)
	if err != nil {
		return t, fmt.Errorf("%w: can't resolve recipient", err)
	}
	t.Recipient = recipient

	if !recipient.SelfOwned {
		return t, fmt.Errorf("%w: %s", model.ErrNonSelfOwnedTransfer, recipient.Name)
	}

	if req.FromCurrency == req.ToCurrency {
		balance, err := s.accounts.Balance(ctx, profile, req.FromCurrency)
		if err != nil {
			return t, fmt.Errorf("%w: can't check balance", err)
		}
		if balance.Balance.LessThan(req.Amount) {
			return t, &model.InsufficientFundsError{
				Currency:  req.FromCurrency,
				Required:  req.Amount,
				Available: balance.Balance,
			}
		}
	}

	quote, err := s.api.CreateQuote(ctx, api.QuoteRequest{
		ProfileID:      profile.ID,
		SourceCurrency: string(req.FromCurrency),
		TargetCurrency: string(req.ToCurrency),
		TargetAmount:   json.Number(req.Amount.String()),
		TargetAccount:  recipient.AccountID,
	})
	if err != nil {
		return t, fmt.Errorf("%w: can't create quote", err)
	}
	if !quote.Rate.IsPositive() {
		return t, fmt.Errorf("%w: quote %s rate %s", model.ErrNonPositiveRate, quote.ID, quote.Rate)
	}
	t.FromAmount = quote.SourceAmount
	t.Rate = model.ExchangeRate{Rate: quote.Rate, FromCurrency: req.FromCurrency, ToCurrency: req.ToCurrency}

	created, err := s.api.CreateTransfer(ctx, recipient.AccountID, quote.ID, req.Reference)
	if err != nil {
		return t, fmt.Errorf("%w: can't create transfer", err)
	}
	t.ID = created.ID

	funding, err := s.api.FundTransfer(ctx, profile.ID, created.ID)
	if err != nil {
		return t, fmt.Errorf("%w: can't fund transfer %d", err, created.ID)
	}
	t.FundStatus = funding.Status
	t.ErrorCode = funding.ErrorCode
	t.ErrorMessage = funding.ErrorMessage
	t.Successful = funding.Status == api.FundCompleted

	if !t.Successful {
		return t, &model.TransferFailedError{Transfer: t, Code: funding.ErrorCode, Message: funding.ErrorMessage}
	}
	return t, nil
}
