package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrPriceRequired              = errors.New("price is required for non market orders")
	ErrMultipleUserProfiles       = errors.New("multiple user profiles with the same type")
	ErrMultipleRecipients         = errors.New("multiple recipients with the same account number")
	ErrNonSelfOwnedTransfer       = errors.New("transferring money to non self owned accounts is not allowed")
	ErrUserProfileNotFound        = errors.New("user profile not found")
	ErrTransferAccountUnavailable = errors.New("no multi-currency account for profile")
	ErrNonPositiveRate            = errors.New("exchange rate must be positive")
)

type EnumMappingError struct {
	RawValue string
	EnumName string
}

func (e *EnumMappingError) Error() string {
	return fmt.Sprintf("can't map %q to %s", e.RawValue, e.EnumName)
}

// DataUnavailableError lists every required field absent from one upstream payload.
type DataUnavailableError struct {
	Source  string
	Missing []string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s: required data unavailable: %s", e.Source, strings.Join(e.Missing, ", "))
}

type StockNotFoundError struct {
	Symbol   string
	Exchange Exchange
	Reason   string
}

func (e *StockNotFoundError) Error() string {
	return fmt.Sprintf("stock %s on %s not found: %s", e.Symbol, e.Exchange, e.Reason)
}

type RecipientNotFoundError struct {
	AccountNumber string
	ProfileType   ProfileType
}

func (e *RecipientNotFoundError) Error() string {
	return fmt.Sprintf("recipient with account number %s not found for %s profile", e.AccountNumber, e.ProfileType)
}

type BalanceNotFoundError struct {
	Currency    Currency
	ProfileType ProfileType
}

func (e *BalanceNotFoundError) Error() string {
	return fmt.Sprintf("balance for %s not found for %s profile", e.Currency, e.ProfileType)
}

type InsufficientFundsError struct {
	Currency  Currency
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf(
		"insufficient funds: required %s %s, balance %s %s, short of %s %s",
		e.Currency, e.Required.StringFixed(2),
		e.Currency, e.Available.StringFixed(2),
		e.Currency, e.Shortfall().StringFixed(2),
	)
}

// TransferFailedError is returned when funding did not complete. Transfer holds
// the outcome as reported upstream.
type TransferFailedError struct {
	Transfer Transfer
	Code     string
	Message  string
}

func (e *TransferFailedError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "fund status " + e.Transfer.FundStatus
	}
	if e.Code != "" {
		return fmt.Sprintf("transfer %d failed: %s (%s)", e.Transfer.ID, msg, e.Code)
	}
	return fmt.Sprintf("transfer %d failed: %s", e.Transfer.ID, msg)
}
