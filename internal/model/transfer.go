package model

import "github.com/shopspring/decimal"

type ProfileType string

const (
	Personal ProfileType = "personal"
	Business ProfileType = "business"
)

func ParseProfileType(raw string) (ProfileType, error) {
	return ParseEnum("ProfileType", raw, Personal, Business)
}

type UserProfile struct {
	ID          int64
	Type        ProfileType
	FirstName   string
	LastName    string
	DateOfBirth string
}

func (p UserProfile) Name() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type AccountBalance struct {
	Currency       Currency
	Balance        decimal.Decimal
	ReservedAmount decimal.Decimal
}

// BalanceAccount is a multi-currency account holding one balance per currency.
type BalanceAccount struct {
	ID          int64
	ProfileID   int64
	RecipientID int64
	Active      bool
	Balances    []AccountBalance
}

func (a BalanceAccount) Balance(currency Currency) (AccountBalance, bool) {
	for _, b := range a.Balances {
		if b.Currency == currency {
			return b, true
		}
	}
	return AccountBalance{}, false
}

type Recipient struct {
	AccountID     int64
	ProfileID     int64
	Name          string
	Currency      Currency
	Active        bool
	SelfOwned     bool
	AccountNumber string
	SwiftCode     string
	BankName      string
	BranchName    string
	IBAN          string
	BIC           string
}

type ExchangeRate struct {
	Rate         decimal.Decimal
	FromCurrency Currency
	ToCurrency   Currency
}

type Transfer struct {
	ID           int64
	ProfileID    int64
	FromCurrency Currency
	ToCurrency   Currency
	FromAmount   decimal.Decimal
	ToAmount     decimal.Decimal
	Recipient    Recipient
	Rate         ExchangeRate
	Reference    string
	FundStatus   string
	Successful   bool
	ErrorCode    string
	ErrorMessage string
}

// TransferRequest describes a transfer where the recipient receives Amount in ToCurrency.
type TransferRequest struct {
	Amount                 decimal.Decimal
	FromCurrency           Currency
	ToCurrency             Currency
	RecipientAccountNumber string
	Reference              string
	ProfileType            ProfileType
}
