package model

import "github.com/shopspring/decimal"

type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	AUD Currency = "AUD"
	NZD Currency = "NZD"
	SGD Currency = "SGD"
	LKR Currency = "LKR"
)

func ParseCurrency(raw string) (Currency, error) {
	return ParseEnum("Currency", raw, USD, EUR, GBP, AUD, NZD, SGD, LKR)
}

type Money struct {
	Currency Currency        `json:"currency" db:"currency"`
	Amount   decimal.Decimal `json:"amount" db:"amount"`
}

func (m Money) String() string {
	return string(m.Currency) + " " + m.Amount.StringFixed(2)
}
