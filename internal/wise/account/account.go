// Package account resolves Wise profiles, balances and recipients into domain values.
package account

import (
	"context"
	"fmt"

	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/model"
	"github.com/kih-api/automation/internal/wise/api"
)

type AccountAPI interface {
	Profiles(ctx context.Context) ([]api.Profile, error)
	Accounts(ctx context.Context, profileID int64) ([]api.BorderlessAccount, error)
	Rate(ctx context.Context, from, to string) (api.Rate, error)
	Recipients(ctx context.Context, profileID int64) ([]api.Recipient, error)
}

type AccountService struct {
	api AccountAPI

	logger logger.Logger
}

func NewAccountService(api AccountAPI, logger logger.Logger) *AccountService {
	return &AccountService{
		api:    api,
		logger: logger,
	}
}

func (s *AccountService) Profiles(ctx context.Context) ([]model.UserProfile, error) {
	raw, err := s.api.Profiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: can't get user profiles", err)
	}

	profiles := make([]model.UserProfile, 0, len(raw))
	for _, p := range raw {
		t, err := model.ParseProfileType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: profile %d", err, p.ID)
		}

		firstName := p.Details.FirstName
		if firstName == "" {
			firstName = p.Details.Name
		}
		profiles = append(profiles, model.UserProfile{
			ID:          p.ID,
			Type:        t,
			FirstName:   firstName,
			LastName:    p.Details.LastName,
			DateOfBirth: p.Details.DateOfBirth,
		})
	}
	return profiles, nil
}

// Profile returns the single profile of the given type.
func (s *AccountService) Profile(ctx context.Context, t model.ProfileType) (model.UserProfile, error) {
	profiles, err := s.Profiles(ctx)
	if err != nil {
		return model.UserProfile{}, err
	}

	var (
		found model.UserProfile
		count int
	)
	for _, p := range profiles {
		if p.Type == t {
			found = p
			count++
		}
	}

	switch count {
	case 0:
		return model.UserProfile{}, fmt.Errorf("%w: %s", model.ErrUserProfileNotFound, t)
	case 1:
		return found, nil
	default:
		return model.UserProfile{}, fmt.Errorf("%w: %d %s profiles", model.ErrMultipleUserProfiles, count, t)
	}
}

func (s *AccountService) rawAccount(ctx context.Context, profile model.UserProfile) (api.BorderlessAccount, error) {
	raw, err := s.api.Accounts(ctx, profile.ID)
	if err != nil {
		return api.BorderlessAccount{}, fmt.Errorf("%w: can't get accounts of profile %d", err, profile.ID)
	}
	if len(raw) == 0 {
		return api.BorderlessAccount{}, fmt.Errorf("%w: %d", model.ErrTransferAccountUnavailable, profile.ID)
	}
	return raw[0], nil
}

func toBalance(accountID int64, b api.Balance) (model.AccountBalance, error) {
	currency, err := model.ParseCurrency(b.Currency)
	if err != nil {
		return model.AccountBalance{}, fmt.Errorf("%w: balance of account %d", err, accountID)
	}
	return model.AccountBalance{
		Currency:       currency,
		Balance:        b.Amount.Value,
		ReservedAmount: b.ReservedAmount.Value,
	}, nil
}

// Account returns the multi-currency account of a profile. Wise keeps one per
// profile so the first one is used.
func (s *AccountService) Account(ctx context.Context, profile model.UserProfile) (model.BalanceAccount, error) {
	a, err := s.rawAccount(ctx, profile)
	if err != nil {
		return model.BalanceAccount{}, err
	}

	account := model.BalanceAccount{
		ID:          a.ID,
		ProfileID:   a.ProfileID,
		RecipientID: a.RecipientID,
		Active:      a.Active,
		Balances:    make([]model.AccountBalance, 0, len(a.Balances)),
	}
	for _, b := range a.Balances {
		balance, err := toBalance(a.ID, b)
		if err != nil {
			return model.BalanceAccount{}, err
		}
		account.Balances = append(account.Balances, balance)
	}
	return account, nil
}

// Balance returns the balance held in currency. Only that balance is mapped,
// so holdings in other currencies don't get in the way.
func (s *AccountService) Balance(ctx context.Context, profile model.UserProfile, currency model.Currency) (model.AccountBalance, error) {
	a, err := s.rawAccount(ctx, profile)
	if err != nil {
		return model.AccountBalance{}, err
	}

	for _, b := range a.Balances {
		if b.Currency == string(currency) {
			return toBalance(a.ID, b)
		}
	}
	return model.AccountBalance{}, &model.BalanceNotFoundError{Currency: currency, ProfileType: profile.Type}
}

func (s *AccountService) ExchangeRate(ctx context.Context, from, to model.Currency) (model.ExchangeRate, error) {
	raw, err := s.api.Rate(ctx, string(from), string(to))
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("%w: can't get exchange rate", err)
	}
	if !raw.Rate.IsPositive() {
		return model.ExchangeRate{}, fmt.Errorf("%w: %s/%s %s", model.ErrNonPositiveRate, from, to, raw.Rate)
	}
	return model.ExchangeRate{
		Rate:         raw.Rate,
		FromCurrency: from,
		ToCurrency:   to,
	}, nil
}

func toRecipient(r api.Recipient) (model.Recipient, error) {
	currency, err := model.ParseCurrency(r.Currency)
	if err != nil {
		return model.Recipient{}, fmt.Errorf("%w: recipient %d", err, r.ID)
	}
	return model.Recipient{
		AccountID:     r.ID,
		ProfileID:     r.ProfileID,
		Name:          r.AccountHolderName,
		Currency:      currency,
		Active:        r.Active,
		SelfOwned:     r.OwnedByCustomer,
		AccountNumber: r.Details.AccountNumber,
		SwiftCode:     r.Details.SwiftCode,
		BankName:      r.Details.BankName,
		BranchName:    r.Details.BranchName,
		IBAN:          r.Details.IBAN,
		BIC:           r.Details.BIC,
	}, nil
}

func (s *AccountService) Recipients(ctx context.Context, profile model.UserProfile) ([]model.Recipient, error) {
	raw, err := s.api.Recipients(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: can't get recipients of profile %d", err, profile.ID)
	}

	recipients := make([]model.Recipient, 0, len(raw))
	for _, r := range raw {
		recipient, err := toRecipient(r)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, recipient)
	}
	return recipients, nil
}

// Recipient finds the recipient holding accountNumber. Account numbers must be
// unique among all of the profile's recipients, whatever their currency.
func (s *AccountService) Recipient(ctx context.Context, profile model.UserProfile, accountNumber string) (model.Recipient, error) {
	raw, err := s.api.Recipients(ctx, profile.ID)
	if err != nil {
		return model.Recipient{}, fmt.Errorf("%w: can't get recipients of profile %d", err, profile.ID)
	}

	var matches []api.Recipient
	for _, r := range raw {
		if r.Details.AccountNumber == accountNumber || (r.Details.IBAN != "" && r.Details.IBAN == accountNumber) {
			matches = append(matches, r)
		}
	}

	switch len(matches) {
	case 0:
		return model.Recipient{}, &model.RecipientNotFoundError{AccountNumber: accountNumber, ProfileType: profile.Type}
	case 1:
		s.logger.Debugf("account %s resolved to recipient %d of %d", accountNumber, matches[0].ID, len(raw))
		return toRecipient(matches[0])
	default:
		return model.Recipient{}, fmt.Errorf("%w: %s", model.ErrMultipleRecipients, accountNumber)
	}
}
