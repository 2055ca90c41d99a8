package order

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kih-api/automation/internal/ibkr/api"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/model"
	"github.com/kih-api/automation/internal/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrdersAPI struct {
	mock.Mock
}

func (m *mockOrdersAPI) PlaceOrder(ctx context.Context, accountID string, order api.OrderRequest) (api.OrderAck, error) {
	args := m.Called(ctx, accountID, order)
	return args.Get(0).(api.OrderAck), args.Error(1)
}

func (m *mockOrdersAPI) CancelOrder(ctx context.Context, accountID, orderID string) (api.CancelAck, error) {
	args := m.Called(ctx, accountID, orderID)
	return args.Get(0).(api.CancelAck), args.Error(1)
}

func (m *mockOrdersAPI) LiveOrders(ctx context.Context) ([]api.LiveOrder, error) {
	args := m.Called(ctx)
	return args.Get(0).([]api.LiveOrder), args.Error(1)
}

type mockInstruments struct {
	mock.Mock
}

func (m *mockInstruments) Get(ctx context.Context, symbol string, t model.InstrumentType, exchange model.Exchange) (model.Instrument, error) {
	args := m.Called(ctx, symbol, t, exchange)
	return args.Get(0).(model.Instrument), args.Error(1)
}

func newLimitOrder(t *testing.T) model.PlaceOrder {
	t.Helper()
	o, err := model.NewPlaceOrder("AAPL", model.Limit, model.Buy, decimal.NewFromInt(10),
		decimal.NewNullDecimal(decimal.RequireFromString("101.25")), "U1")
	require.NoError(t, err)
	return o
}

func TestPlace(t *testing.T) {
	ctx := context.Background()
	o := newLimitOrder(t)

	instruments := &mockInstruments{}
	instruments.On("Get", ctx, "AAPL", model.Stock, model.Nasdaq).Return(model.Instrument{ContractID: 265598}, nil)

	ordersAPI := &mockOrdersAPI{}
	ordersAPI.On("PlaceOrder", ctx, "U1", api.OrderRequest{
		AccountID:     "U1",
		ContractID:    265598,
		OrderType:     "LMT",
		OutsideRTH:    true,
		Side:          "BUY",
		TimeInForce:   "GTC",
		Quantity:      json.Number("10"),
		CustomOrderID: o.CustomOrderID,
		Price:         json.Number("101.25"),
	}).Return(api.OrderAck{Successful: true, OrderID: "42", Status: "Submitted"}, nil)

	recorder := &notify.Recorder{}
	s := NewOrderService(ordersAPI, instruments, recorder, logger.NewNop())

	resp, err := s.Place(ctx, o)
	require.NoError(t, err)
	assert.True(t, resp.Placed)
	assert.Equal(t, "42", resp.OrderID)

	require.Len(t, recorder.Events, 2)
	assert.IsType(t, notify.OrderPlacing{}, recorder.Events[0])
	assert.IsType(t, notify.OrderPlaced{}, recorder.Events[1])
	ordersAPI.AssertExpectations(t)
}

func TestPlaceRejected(t *testing.T) {
	ctx := context.Background()
	o := newLimitOrder(t)

	instruments := &mockInstruments{}
	instruments.On("Get", ctx, "AAPL", model.Stock, model.Nasdaq).Return(model.Instrument{ContractID: 265598}, nil)
	ordersAPI := &mockOrdersAPI{}
	ordersAPI.On("PlaceOrder", ctx, "U1", mock.Anything).
		Return(api.OrderAck{Successful: true, OrderID: "42", Status: "PreSubmitted", Text: `<warning>`}, nil)

	s := NewOrderService(ordersAPI, instruments, &notify.Recorder{}, logger.NewNop())
	resp, events, err := s.place(ctx, o)
	require.NoError(t, err)
	assert.False(t, resp.Placed)

	require.Len(t, events, 2)
	failed, ok := events[1].(notify.OrderFailed)
	require.True(t, ok)
	assert.Equal(t, `<warning>`, failed.Reason)
	assert.Contains(t, failed.Render(), "&lt;warning&gt;")
}

func TestPlaceUnknownSymbolNeverSubmits(t *testing.T) {
	ctx := context.Background()
	o := newLimitOrder(t)
	notFound := &model.StockNotFoundError{Symbol: "AAPL", Exchange: model.Nasdaq, Reason: "no search results"}

	instruments := &mockInstruments{}
	instruments.On("Get", ctx, "AAPL", model.Stock, model.Nasdaq).Return(model.Instrument{}, notFound)
	ordersAPI := &mockOrdersAPI{}

	recorder := &notify.Recorder{}
	_, err := NewOrderService(ordersAPI, instruments, recorder, logger.NewNop()).Place(ctx, o)

	var target *model.StockNotFoundError
	require.True(t, errors.As(err, &target))
	ordersAPI.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	require.Len(t, recorder.Events, 2)
	assert.IsType(t, notify.OrderFailed{}, recorder.Events[1])
}

func TestPlaceMarketOrderOmitsPrice(t *testing.T) {
	ctx := context.Background()
	o, err := model.NewPlaceOrder("AAPL", model.Market, model.Sell, decimal.NewFromInt(3),
		decimal.NewNullDecimal(decimal.NewFromInt(999)), "U1")
	require.NoError(t, err)

	instruments := &mockInstruments{}
	instruments.On("Get", ctx, "AAPL", model.Stock, model.Nasdaq).Return(model.Instrument{ContractID: 1}, nil)
	ordersAPI := &mockOrdersAPI{}
	ordersAPI.On("PlaceOrder", ctx, "U1", mock.MatchedBy(func(r api.OrderRequest) bool {
		return r.Price == "" && !r.OutsideRTH && r.OrderType == "MKT"
	})).Return(api.OrderAck{Successful: true, OrderID: "1", Status: "Submitted"}, nil)

	resp, err := NewOrderService(ordersAPI, instruments, &notify.Recorder{}, logger.NewNop()).Place(ctx, o)
	require.NoError(t, err)
	assert.True(t, resp.Placed)
	ordersAPI.AssertExpectations(t)
}

func liveOrders() []api.LiveOrder {
	base := api.LiveOrder{
		AccountID:         "U1",
		Exchange:          "NASDAQ",
		ContractID:        265598,
		CashCurrency:      "USD",
		RemainingQuantity: decimal.NewFromInt(2),
		Ticker:            "AAPL",
		SecurityType:      "STK",
		TimeInForce:       "GTC",
		Side:              "BUY",
		LastExecutionTime: 1700000000000,
	}

	limit := base
	limit.OrderID, limit.Status, limit.OrderType = 1, "Submitted", "Limit"
	limit.Price = decimal.NewNullDecimal(decimal.NewFromInt(100))

	market := base
	market.OrderID, market.Status, market.OrderType = 2, "PreSubmitted", "Market"
	market.Price = decimal.NewNullDecimal(decimal.NewFromInt(1))

	inactive := limit
	inactive.OrderID, inactive.Status = 3, "Inactive"

	cancelled := limit
	cancelled.OrderID, cancelled.Status = 4, "Cancelled"

	pending := limit
	pending.OrderID, pending.Status = 5, "PendingSubmit"
	pending.RemainingQuantity = decimal.NewFromInt(1)

	return []api.LiveOrder{limit, market, inactive, cancelled, pending}
}

func TestUnfilled(t *testing.T) {
	ctx := context.Background()
	ordersAPI := &mockOrdersAPI{}
	ordersAPI.On("LiveOrders", ctx).Return(liveOrders(), nil)

	orders, err := NewOrderService(ordersAPI, &mockInstruments{}, &notify.Recorder{}, logger.NewNop()).Unfilled(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, model.Limit, orders[0].Type)
	assert.True(t, orders[0].Price.Decimal.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "1", orders[0].OrderID)
	assert.Equal(t, model.Market, orders[1].Type)
	assert.False(t, orders[1].Price.Valid)
	assert.Equal(t, int64(1700000000), orders[0].LastExecutionTime.Unix())
}

func TestUnfilledUnknownEnum(t *testing.T) {
	ctx := context.Background()
	lo := liveOrders()[0]
	lo.CashCurrency = "JPY"

	ordersAPI := &mockOrdersAPI{}
	ordersAPI.On("LiveOrders", ctx).Return([]api.LiveOrder{lo}, nil)

	_, err := NewOrderService(ordersAPI, &mockInstruments{}, &notify.Recorder{}, logger.NewNop()).Unfilled(ctx)
	var mappingErr *model.EnumMappingError
	require.True(t, errors.As(err, &mappingErr))
	assert.Equal(t, "JPY", mappingErr.RawValue)
}

func TestUnfilledValue(t *testing.T) {
	ctx := context.Background()
	ordersAPI := &mockOrdersAPI{}
	ordersAPI.On("LiveOrders", ctx).Return(liveOrders(), nil)

	instruments := &mockInstruments{}
	instruments.On("Get", ctx, "AAPL", model.Stock, model.Nasdaq).
		Return(model.Instrument{LastPrice: decimal.NewNullDecimal(decimal.RequireFromString("150.5"))}, nil)

	value, err := NewOrderService(ordersAPI, instruments, &notify.Recorder{}, logger.NewNop()).UnfilledValue(ctx, model.Nasdaq)
	require.NoError(t, err)

	// 100*2 + 150.5*2 + 100*1
	assert.True(t, value.Equal(decimal.RequireFromString("601")), value.String())
	instruments.AssertNumberOfCalls(t, "Get", 1)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	o, err := ToUnfilledOrder(liveOrders()[0])
	require.NoError(t, err)

	t.Run("cancelled", func(t *testing.T) {
		ordersAPI := &mockOrdersAPI{}
		ordersAPI.On("CancelOrder", ctx, "U1", "1").
			Return(api.CancelAck{Successful: true, OrderID: "1", AccountID: "U1", Message: "Request was submitted"}, nil)

		recorder := &notify.Recorder{}
		resp, err := NewOrderService(ordersAPI, &mockInstruments{}, recorder, logger.NewNop()).Cancel(ctx, o)
		require.NoError(t, err)
		assert.True(t, resp.Cancelled)
		require.Len(t, recorder.Events, 1)
		assert.IsType(t, notify.OrderCancelling{}, recorder.Events[0])
	})

	t.Run("refused", func(t *testing.T) {
		ordersAPI := &mockOrdersAPI{}
		ordersAPI.On("CancelOrder", ctx, "U1", "1").
			Return(api.CancelAck{OrderID: "1", Message: "already filled"}, nil)

		recorder := &notify.Recorder{}
		resp, err := NewOrderService(ordersAPI, &mockInstruments{}, recorder, logger.NewNop()).Cancel(ctx, o)
		require.NoError(t, err)
		assert.False(t, resp.Cancelled)
		require.Len(t, recorder.Events, 2)
		assert.IsType(t, notify.OrderCancelFailed{}, recorder.Events[1])
	})

	t.Run("transport error", func(t *testing.T) {
		upstream := errors.New("connection reset")
		ordersAPI := &mockOrdersAPI{}
		ordersAPI.On("CancelOrder", ctx, "U1", "1").Return(api.CancelAck{}, upstream)

		recorder := &notify.Recorder{}
		_, err := NewOrderService(ordersAPI, &mockInstruments{}, recorder, logger.NewNop()).Cancel(ctx, o)
		assert.ErrorIs(t, err, upstream)
		assert.Len(t, recorder.Events, 2)
	})
}

func TestCancelAll(t *testing.T) {
	ctx := context.Background()
	ordersAPI := &mockOrdersAPI{}
	ordersAPI.On("LiveOrders", ctx).Return(liveOrders(), nil)
	ordersAPI.On("CancelOrder", ctx, "U1", mock.Anything).Return(api.CancelAck{Successful: true}, nil)

	responses, err := NewOrderService(ordersAPI, &mockInstruments{}, &notify.Recorder{}, logger.NewNop()).CancelAll(ctx)
	require.NoError(t, err)
	assert.Len(t, responses, 3)
	ordersAPI.AssertNumberOfCalls(t, "CancelOrder", 3)
}
