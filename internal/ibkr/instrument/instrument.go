package instrument

import (
	"cmp"
	"context"
	"fmt"
	"time"

	"github.com/kih-api/automation/internal/ibkr/api"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/model"
	"github.com/kih-api/automation/internal/payload"
	"github.com/tidwall/gjson"
)

const (
	DefaultHistoryPeriod = "10y"
	DefaultHistoryBar    = "1d"
)

type MarketAPI interface {
	SearchSymbol(ctx context.Context, symbol string) ([]api.SearchResult, error)
	Contract(ctx context.Context, contractID int64) (gjson.Result, error)
	MarketSnapshot(ctx context.Context, contractID int64) (gjson.Result, error)
	MarketHistory(ctx context.Context, contractID int64, period, bar string) ([]api.HistoryBar, error)
}

var (
	_contractSchema = []payload.Field{
		payload.Required("contract id", "con_id"),
		payload.Optional("symbol", "symbol"),
		payload.Required("instrument type", "instrument_type"),
		payload.Optional("valid exchanges", "valid_exchanges"),
		payload.Optional("exchange", "exchange"),
		payload.Optional("company name", "company_name"),
	}

	_snapshotSchema = []payload.Field{
		payload.Optional("open", api.FieldOpen),
		payload.Optional("close", api.FieldClose),
		payload.Optional("high", api.FieldHigh),
		payload.Optional("low", api.FieldLow),
		payload.Optional("last", api.FieldLastPrice),
		payload.Optional("change", api.FieldChange),
		payload.Optional("change percent", api.FieldChangePercent),
		payload.Optional("bid", api.FieldBidPrice),
		payload.Optional("ask", api.FieldAskPrice),
		payload.Optional("bid size", api.FieldBidSize),
		payload.Optional("ask size", api.FieldAskSize),
		payload.Optional("volume", api.FieldVolume),
		payload.Optional("option volume", api.FieldOptionVolume),
		payload.Optional("dividend amount", api.FieldDividendAmount),
		payload.Optional("dividend yield", api.FieldDividendYield),
		payload.Optional("market cap", api.FieldMarketCap),
		payload.Optional("pe", api.FieldPriceToEarnings),
		payload.Optional("eps", api.FieldEarningsPerShare),
	}

	// last price is prefixed with C (previous close) or H (halted)
	_lastPriceCleaner = payload.TrimPrefixes("C", "H")
	_percentCleaner   = payload.TrimSuffix("%")
)

type InstrumentService struct {
	api MarketAPI

	logger logger.Logger
}

func NewInstrumentService(api MarketAPI, logger logger.Logger) *InstrumentService {
	return &InstrumentService{
		api:    api,
		logger: logger,
	}
}

// Get resolves symbol on exchange and returns its current snapshot. Every call
// hits the gateway, nothing is cached.
func (s *InstrumentService) Get(ctx context.Context, symbol string, t model.InstrumentType, exchange model.Exchange) (model.Instrument, error) {
	results, err := s.api.SearchSymbol(ctx, symbol)
	if err != nil {
		return model.Instrument{}, fmt.Errorf("%w: can't search %s", err, symbol)
	}
	if len(results) == 0 {
		return model.Instrument{}, &model.StockNotFoundError{Symbol: symbol, Exchange: exchange, Reason: "no search results"}
	}

	var contractID int64
	for _, r := range results {
		if r.Description == string(exchange) {
			contractID = r.ContractID
			break
		}
	}
	if contractID == 0 {
		return model.Instrument{}, &model.StockNotFoundError{Symbol: symbol, Exchange: exchange, Reason: "not listed on exchange"}
	}

	contractDoc, err := s.api.Contract(ctx, contractID)
	if err != nil {
		return model.Instrument{}, fmt.Errorf("%w: can't get contract %d", err, contractID)
	}
	snapshotDoc, err := s.api.MarketSnapshot(ctx, contractID)
	if err != nil {
		return model.Instrument{}, fmt.Errorf("%w: can't get snapshot %d", err, contractID)
	}

	contract, err := payload.Extract("contract "+symbol, contractDoc, _contractSchema...)
	if err != nil {
		return model.Instrument{}, err
	}
	if contract.String("instrument type") != string(t) {
		return model.Instrument{}, &model.StockNotFoundError{
			Symbol:   symbol,
			Exchange: exchange,
			Reason:   fmt.Sprintf("instrument type %q, want %q", contract.String("instrument type"), t),
		}
	}

	snapshot, err := payload.Extract("snapshot "+symbol, snapshotDoc, _snapshotSchema...)
	if err != nil {
		return model.Instrument{}, err
	}

	return model.Instrument{
		Symbol:             cmp.Or(contract.String("symbol"), symbol),
		ContractID:         contract.Int("contract id"),
		Type:               t,
		Exchanges:          contract.Strings("valid exchanges", ","),
		MainExchange:       contract.String("exchange"),
		Name:               contract.String("company name"),
		OpenPrice:          snapshot.Decimal("open"),
		ClosePrice:         snapshot.Decimal("close"),
		HighPrice:          snapshot.Decimal("high"),
		LowPrice:           snapshot.Decimal("low"),
		LastPrice:          snapshot.Decimal("last", _lastPriceCleaner),
		ChangeInCurrency:   snapshot.Decimal("change"),
		ChangeInPercentage: snapshot.Decimal("change percent", _percentCleaner),
		BidPrice:           snapshot.Decimal("bid"),
		AskPrice:           snapshot.Decimal("ask"),
		BidSize:            snapshot.SuffixedDecimal("bid size"),
		AskSize:            snapshot.SuffixedDecimal("ask size"),
		Volume:             snapshot.SuffixedDecimal("volume"),
		OptionVolume:       snapshot.SuffixedDecimal("option volume"),
		DividendAmount:     snapshot.Decimal("dividend amount"),
		DividendYield:      snapshot.Decimal("dividend yield", _percentCleaner),
		MarketCap:          snapshot.SuffixedDecimal("market cap"),
		PriceToEarnings:    snapshot.Decimal("pe"),
		EarningsPerShare:   snapshot.Decimal("eps"),
	}, nil
}

// History returns price bars of symbol. Empty period and bar default to ten
// years of daily bars.
func (s *InstrumentService) History(
	ctx context.Context, symbol string, t model.InstrumentType, exchange model.Exchange, period, bar string,
) ([]model.HistoryBar, error) {
	if period == "" {
		period = DefaultHistoryPeriod
	}
	if bar == "" {
		bar = DefaultHistoryBar
	}

	instrument, err := s.Get(ctx, symbol, t, exchange)
	if err != nil {
		return nil, err
	}

	bars, err := s.api.MarketHistory(ctx, instrument.ContractID, period, bar)
	if err != nil {
		return nil, fmt.Errorf("%w: can't get history of %s", err, symbol)
	}

	history := make([]model.HistoryBar, 0, len(bars))
	for _, b := range bars {
		history = append(history, model.HistoryBar{
			Symbol:    symbol,
			Open:      b.Open,
			Close:     b.Close,
			High:      b.High,
			Low:       b.Low,
			Timestamp: time.UnixMilli(b.Timestamp).UTC(),
		})
	}
	return history, nil
}
