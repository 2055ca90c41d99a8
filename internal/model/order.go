package model

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	_orderIdPrefix = "kih-"

	_autoCancelMarker = "will be automatically canceled at "
	_autoCancelLayout = "20060102 15:04:05"
	_autoCancelZone   = "Asia/Hong_Kong"
)

type PlaceOrder struct {
	Symbol        string
	Type          OrderType
	Side          OrderSide
	Quantity      decimal.Decimal
	Price         decimal.NullDecimal
	AccountID     string
	CustomOrderID string
	TimeInForce   TimeInForce
	OutsideRTH    bool

	InstrumentType InstrumentType
	Exchange       Exchange
}

type PlaceOrderOption func(*PlaceOrder)

func WithTimeInForce(tif TimeInForce) PlaceOrderOption {
	return func(o *PlaceOrder) {
		o.TimeInForce = tif
	}
}

func WithExchange(exchange Exchange) PlaceOrderOption {
	return func(o *PlaceOrder) {
		o.Exchange = exchange
	}
}

func WithInstrumentType(t InstrumentType) PlaceOrderOption {
	return func(o *PlaceOrder) {
		o.InstrumentType = t
	}
}

// NewPlaceOrder builds an order request with a fresh idempotency token.
// Market orders drop the price and never trade outside regular hours.
func NewPlaceOrder(
	symbol string, orderType OrderType, side OrderSide,
	quantity decimal.Decimal, price decimal.NullDecimal, accountID string,
	opts ...PlaceOrderOption,
) (PlaceOrder, error) {
	o := PlaceOrder{
		Symbol:         symbol,
		Type:           orderType,
		Side:           side,
		Quantity:       quantity,
		Price:          price,
		AccountID:      accountID,
		CustomOrderID:  _orderIdPrefix + uuid.NewString(),
		TimeInForce:    GoodTillCancel,
		OutsideRTH:     true,
		InstrumentType: Stock,
		Exchange:       Nasdaq,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if orderType == Market {
		o.Price = decimal.NullDecimal{}
		o.OutsideRTH = false
	} else if !price.Valid {
		return PlaceOrder{}, fmt.Errorf("%w: %s %s order for %s", ErrPriceRequired, side, orderType, symbol)
	}

	return o, nil
}

type PlaceOrderResponse struct {
	Placed          bool
	OrderID         string
	Status          string
	ResponseText    string
	AutoCancelledAt *time.Time
}

// NewPlaceOrderResponse derives the outcome of one placement call. An order is
// placed only if the gateway acknowledged it and reported it as Submitted.
func NewPlaceOrderResponse(successful bool, orderID, status, text string) PlaceOrderResponse {
	return PlaceOrderResponse{
		Placed:          successful && status == string(Submitted),
		OrderID:         orderID,
		Status:          status,
		ResponseText:    text,
		AutoCancelledAt: parseAutoCancelTime(text),
	}
}

func parseAutoCancelTime(text string) *time.Time {
	idx := strings.LastIndex(text, _autoCancelMarker)
	if idx < 0 {
		return nil
	}
	raw := strings.TrimSpace(text[idx+len(_autoCancelMarker):])
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "HKT"))

	loc, err := time.LoadLocation(_autoCancelZone)
	if err != nil {
		return nil
	}
	t, err := time.ParseInLocation(_autoCancelLayout, raw, loc)
	if err != nil {
		return nil
	}
	return &t
}

type UnfilledOrder struct {
	AccountID         string
	Exchange          Exchange
	ContractID        int64
	OrderID           string
	Currency          Currency
	UnfilledQuantity  decimal.Decimal
	FilledQuantity    decimal.Decimal
	Description       string
	Symbol            string
	SecurityType      InstrumentType
	Status            OrderStatus
	Type              OrderType
	LastExecutionTime time.Time
	CustomOrderID     string
	Price             decimal.NullDecimal
	TimeInForce       TimeInForce
	Side              OrderSide
}

type CancelOrderResponse struct {
	Cancelled  bool
	OrderID    string
	ContractID int64
	AccountID  string
	Message    string
}
