package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument is a snapshot of contract metadata and market data at lookup time.
// Market data fields are optional since the gateway omits them outside trading
// hours or without a market data subscription.
type Instrument struct {
	Symbol       string
	ContractID   int64
	Type         InstrumentType
	Exchanges    []string
	MainExchange string
	Name         string

	OpenPrice          decimal.NullDecimal
	ClosePrice         decimal.NullDecimal
	HighPrice          decimal.NullDecimal
	LowPrice           decimal.NullDecimal
	LastPrice          decimal.NullDecimal
	ChangeInCurrency   decimal.NullDecimal
	ChangeInPercentage decimal.NullDecimal
	BidPrice           decimal.NullDecimal
	AskPrice           decimal.NullDecimal
	BidSize            decimal.NullDecimal
	AskSize            decimal.NullDecimal
	Volume             decimal.NullDecimal
	OptionVolume       decimal.NullDecimal
	DividendAmount     decimal.NullDecimal
	DividendYield      decimal.NullDecimal
	MarketCap          decimal.NullDecimal
	PriceToEarnings    decimal.NullDecimal
	EarningsPerShare   decimal.NullDecimal
}

type HistoryBar struct {
	Symbol    string
	Open      decimal.Decimal
	Close     decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Timestamp time.Time
}
