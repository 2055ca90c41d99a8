package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type SearchResult struct {
	ContractID  int64
	Symbol      string
	CompanyName string
	Description string // exchange the result is listed on
}

type HistoryBar struct {
	Open      decimal.Decimal `json:"o"`
	Close     decimal.Decimal `json:"c"`
	High      decimal.Decimal `json:"h"`
	Low       decimal.Decimal `json:"l"`
	Volume    decimal.Decimal `json:"v"`
	Timestamp int64           `json:"t"` // unix millis
}

type historyResponse struct {
	Symbol string       `json:"symbol"`
	Data   []HistoryBar `json:"data"`
}

type Position struct {
	AccountID     string          `json:"acctId"`
	ContractID    int64           `json:"conid"`
	Description   string          `json:"contractDesc"`
	Position      decimal.Decimal `json:"position"`
	MarketPrice   decimal.Decimal `json:"mktPrice"`
	MarketValue   decimal.Decimal `json:"mktValue"`
	Currency      string          `json:"currency"`
	AssetClass    string          `json:"assetClass"`
	AverageCost   decimal.Decimal `json:"avgCost"`
	UnrealizedPnL decimal.Decimal `json:"unrealizedPnl"`
	RealizedPnL   decimal.Decimal `json:"realizedPnl"`
}

type Account struct {
	ID       string `json:"accountId"`
	Alias    string `json:"accountAlias"`
	Currency string `json:"currency"`
	Type     string `json:"type"`
}

type SummaryValue struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Timestamp int64           `json:"timestamp"` // unix millis
}

type AccountSummary struct {
	FullAvailableFunds SummaryValue `json:"fullavailablefunds"`
	NetLiquidation     SummaryValue `json:"netliquidation"`
	TotalCashValue     SummaryValue `json:"totalcashvalue"`
}

// OrderRequest mirrors one element of the gateway's orders payload. Numbers are
// sent as JSON numbers without going through floating point.
type OrderRequest struct {
	AccountID     string      `json:"acctId"`
	ContractID    int64       `json:"conid"`
	OrderType     string      `json:"orderType"`
	OutsideRTH    bool        `json:"outsideRTH"`
	Side          string      `json:"side"`
	TimeInForce   string      `json:"tif"`
	Quantity      json.Number `json:"quantity"`
	CustomOrderID string      `json:"cOID"`
	Price         json.Number `json:"price,omitempty"`
}

type ordersRequest struct {
	Orders []OrderRequest `json:"orders"`
}

type replyRequest struct {
	Confirmed bool `json:"confirmed"`
}

// OrderAck is the gateway's verdict on a placement. Text holds the raw response.
type OrderAck struct {
	Successful bool
	OrderID    string
	Status     string
	Text       string
}

type CancelAck struct {
	Successful bool
	OrderID    string
	ContractID int64
	AccountID  string
	Message    string
}

type LiveOrder struct {
	AccountID         string              `json:"acct"`
	Exchange          string              `json:"exchange"`
	ContractID        int64               `json:"conid"`
	OrderID           int64               `json:"orderId"`
	CashCurrency      string              `json:"cashCcy"`
	RemainingQuantity decimal.Decimal     `json:"remainingQuantity"`
	FilledQuantity    decimal.Decimal     `json:"filledQuantity"`
	Description       string              `json:"orderDesc"`
	Ticker            string              `json:"ticker"`
	SecurityType      string              `json:"secType"`
	Status            string              `json:"status"`
	OrderType         string              `json:"orderType"`
	LastExecutionTime int64               `json:"lastExecutionTime_r"` // unix millis
	OrderRef          string              `json:"order_ref"`
	TimeInForce       string              `json:"timeInForce"`
	Side              string              `json:"side"`
	Price             decimal.NullDecimal `json:"price"`
}

type liveOrdersResponse struct {
	Orders []LiveOrder `json:"orders"`
}
