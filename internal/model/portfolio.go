package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Position struct {
	Description    string
	Size           decimal.Decimal
	MarketPrice    decimal.Decimal
	MarketValue    decimal.Decimal
	InstrumentType InstrumentType
	Currency       Currency
	AccountID      string
}

type Account struct {
	ID    string
	Alias string
}

type AccountInformation struct {
	AvailableFunds decimal.Decimal
	Currency       Currency
	UpdatedAt      time.Time
}
