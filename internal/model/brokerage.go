package model

type InstrumentType string

const (
	Stock  InstrumentType = "STK"
	Cash   InstrumentType = "CASH"
	Option InstrumentType = "OPT"
	Index  InstrumentType = "IND"
)

func ParseInstrumentType(raw string) (InstrumentType, error) {
	return ParseEnum("InstrumentType", raw, Stock, Cash, Option, Index)
}

type OrderType string

const (
	Market    OrderType = "MKT"
	Limit     OrderType = "LMT"
	Stop      OrderType = "STP"
	StopLimit OrderType = "STOP_LIMIT"
	MidPrice  OrderType = "MIDPRICE"
)

func ParseOrderType(raw string) (OrderType, error) {
	return ParseEnum("OrderType", raw, Market, Limit, Stop, StopLimit, MidPrice)
}

// ParseLiveOrderType maps the human readable labels the live orders endpoint
// reports ("Limit", "Market", ...) onto OrderType.
func ParseLiveOrderType(raw string) (OrderType, error) {
	switch raw {
	case "Limit":
		return Limit, nil
	case "Market":
		return Market, nil
	case "Stop":
		return Stop, nil
	case "Stop Limit":
		return StopLimit, nil
	case "MidPrice":
		return MidPrice, nil
	}
	return "", &EnumMappingError{RawValue: raw, EnumName: "OrderType"}
}

type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

func ParseOrderSide(raw string) (OrderSide, error) {
	return ParseEnum("OrderSide", raw, Buy, Sell)
}

type TimeInForce string

const (
	GoodTillCancel TimeInForce = "GTC"
	Day            TimeInForce = "DAY"
)

func ParseTimeInForce(raw string) (TimeInForce, error) {
	return ParseEnum("TimeInForce", raw, GoodTillCancel, Day)
}

type Exchange string

const (
	Smart  Exchange = "SMART"
	Nasdaq Exchange = "NASDAQ"
	Amex   Exchange = "AMEX"
	NYSE   Exchange = "NYSE"
	CBOE   Exchange = "CBOE"
)

func ParseExchange(raw string) (Exchange, error) {
	return ParseEnum("Exchange", raw, Smart, Nasdaq, Amex, NYSE, CBOE)
}

type OrderStatus string

const (
	Submitted     OrderStatus = "Submitted"
	Inactive      OrderStatus = "Inactive"
	Cancelled     OrderStatus = "Cancelled"
	PendingSubmit OrderStatus = "PendingSubmit"
)

// IsOpen reports whether an order in this status still rests on the book.
func (s OrderStatus) IsOpen() bool {
	return s != Inactive && s != Cancelled
}
