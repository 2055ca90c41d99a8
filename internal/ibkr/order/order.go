package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kih-api/automation/internal/ibkr/api"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/model"
	"github.com/kih-api/automation/internal/notify"
	"github.com/shopspring/decimal"
)

type OrdersAPI interface {
	PlaceOrder(ctx context.Context, accountID string, order api.OrderRequest) (api.OrderAck, error)
	CancelOrder(ctx context.Context, accountID, orderID string) (api.CancelAck, error)
	LiveOrders(ctx context.Context) ([]api.LiveOrder, error)
}

type InstrumentResolver interface {
	Get(ctx context.Context, symbol string, t model.InstrumentType, exchange model.Exchange) (model.Instrument, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, events ...notify.Event)
}

type OrderService struct {
	api         OrdersAPI
	instruments InstrumentResolver
	notifier    Notifier

	logger logger.Logger
}

func NewOrderService(api OrdersAPI, instruments InstrumentResolver, notifier Notifier, logger logger.Logger) *OrderService {
	return &OrderService{
		api:         api,
		instruments: instruments,
		notifier:    notifier,
		logger:      logger,
	}
}

// Place submits o and notifies about the outcome. A broker side rejection is
// reported through the response, only failures to talk to the broker are errors.
func (s *OrderService) Place(ctx context.Context, o model.PlaceOrder) (model.PlaceOrderResponse, error) {
	resp, events, err := s.place(ctx, o)
	s.notifier.Dispatch(ctx, events...)
	return resp, err
}

func (s *OrderService) place(ctx context.Context, o model.PlaceOrder) (model.PlaceOrderResponse, []notify.Event, error) {
	events := []notify.Event{notify.OrderPlacing{Order: o}}

	instrument, err := s.instruments.Get(ctx, o.Symbol, o.InstrumentType, o.Exchange)
	if err != nil {
		s.logger.Errorf("%s: can't resolve %s for order %s", err, o.Symbol, o.CustomOrderID)
		events = append(events, notify.OrderFailed{Order: o, Reason: err.Error()})
		return model.PlaceOrderResponse{}, events, fmt.Errorf("%w: can't resolve instrument", err)
	}

	req := api.OrderRequest{
		AccountID:     o.AccountID,
		ContractID:    instrument.ContractID,
		OrderType:     string(o.Type),
		OutsideRTH:    o.OutsideRTH,
		Side:          string(o.Side),
		TimeInForce:   string(o.TimeInForce),
		Quantity:      json.Number(o.Quantity.Truncate(0).String()),
		CustomOrderID: o.CustomOrderID,
	}
	if o.Price.Valid {
		req.Price = json.Number(o.Price.Decimal.String())
	}

	ack, err := s.api.PlaceOrder(ctx, o.AccountID, req)
	if err != nil {
		s.logger.Errorf("%s: can't place order %s", err, o.CustomOrderID)
		events = append(events, notify.OrderFailed{Order: o, Reason: err.Error()})
		return model.PlaceOrderResponse{}, events, fmt.Errorf("%w: can't place order", err)
	}

	resp := model.NewPlaceOrderResponse(ack.Successful, ack.OrderID, ack.Status, ack.Text)
	if resp.Placed {
		s.logger.Infof("placed order %s for %s %s %s", resp.OrderID, o.Side, o.Quantity, o.Symbol)
		events = append(events, notify.OrderPlaced{Order: o, Response: resp})
	} else {
		s.logger.Errorf("order %s for %s has not been placed: %s", o.CustomOrderID, o.Symbol, resp.ResponseText)
		events = append(events, notify.OrderFailed{Order: o, Reason: resp.ResponseText})
	}

	return resp, events, nil
}

// Cancel cancels one unfilled order. Like Place, a refused cancellation is
// reported through the response.
func (s *OrderService) Cancel(ctx context.Context, o model.UnfilledOrder) (model.CancelOrderResponse, error) {
	resp, events, err := s.cancel(ctx, o)
	s.notifier.Dispatch(ctx, events...)
	return resp, err
}

func (s *OrderService) cancel(ctx context.Context, o model.UnfilledOrder) (model.CancelOrderResponse, []notify.Event, error) {
	events := []notify.Event{notify.OrderCancelling{Order: o}}

	ack, err := s.api.CancelOrder(ctx, o.AccountID, o.OrderID)
	if err != nil {
		s.logger.Errorf("%s: can't cancel order %s", err, o.OrderID)
		events = append(events, notify.OrderCancelFailed{Order: o, Reason: err.Error()})
		return model.CancelOrderResponse{}, events, fmt.Errorf("%w: can't cancel order", err)
	}

	resp := model.CancelOrderResponse{
		Cancelled:  ack.Successful,
		OrderID:    ack.OrderID,
		ContractID: ack.ContractID,
		AccountID:  ack.AccountID,
		Message:    ack.Message,
	}
	if !resp.Cancelled {
		s.logger.Errorf("order %s has not been cancelled: %s", o.OrderID, resp.Message)
		events = append(events, notify.OrderCancelFailed{Order: o, Reason: resp.Message})
	}

	return resp, events, nil
}

// CancelAll cancels every unfilled order and returns the responses in book order.
func (s *OrderService) CancelAll(ctx context.Context) ([]model.CancelOrderResponse, error) {
	orders, err := s.Unfilled(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]model.CancelOrderResponse, 0, len(orders))
	for _, o := range orders {
		resp, err := s.Cancel(ctx, o)
		if err != nil {
			return responses, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// Unfilled returns the open orders, skipping inactive and cancelled ones.
func (s *OrderService) Unfilled(ctx context.Context) ([]model.UnfilledOrder, error) {
	live, err := s.api.LiveOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: can't get live orders", err)
	}

	orders := make([]model.UnfilledOrder, 0, len(live))
	for _, lo := range live {
		if !model.OrderStatus(lo.Status).IsOpen() {
			continue
		}
		o, err := ToUnfilledOrder(lo)
		if err != nil {
			return nil, fmt.Errorf("%w: can't map live order %d", err, lo.OrderID)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// UnfilledValue sums price times unfilled quantity over the open orders.
// Orders without a price are valued at the instrument's last price.
func (s *OrderService) UnfilledValue(ctx context.Context, exchange model.Exchange) (decimal.Decimal, error) {
	orders, err := s.Unfilled(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, o := range orders {
		price := o.Price
		if !price.Valid {
			instrument, err := s.instruments.Get(ctx, o.Symbol, o.SecurityType, exchange)
			if err != nil {
				return decimal.Zero, fmt.Errorf("%w: can't value order %s", err, o.OrderID)
			}
			if !instrument.LastPrice.Valid {
				return decimal.Zero, &model.DataUnavailableError{Source: "snapshot " + o.Symbol, Missing: []string{"last"}}
			}
			price = instrument.LastPrice
		}
		total = total.Add(price.Decimal.Mul(o.UnfilledQuantity))
	}
	return total, nil
}

func ToUnfilledOrder(lo api.LiveOrder) (model.UnfilledOrder, error) {
	exchange, err := model.ParseExchange(lo.Exchange)
	if err != nil {
		return model.UnfilledOrder{}, err
	}
	currency, err := model.ParseCurrency(lo.CashCurrency)
	if err != nil {
		return model.UnfilledOrder{}, err
	}
	secType, err := model.ParseInstrumentType(lo.SecurityType)
	if err != nil {
		return model.UnfilledOrder{}, err
	}
	orderType, err := model.ParseLiveOrderType(lo.OrderType)
	if err != nil {
		return model.UnfilledOrder{}, err
	}
	tif, err := model.ParseTimeInForce(lo.TimeInForce)
	if err != nil {
		return model.UnfilledOrder{}, err
	}
	side, err := model.ParseOrderSide(lo.Side)
	if err != nil {
		return model.UnfilledOrder{}, err
	}

	price := lo.Price
	if orderType == model.Market {
		price = decimal.NullDecimal{}
	}

	return model.UnfilledOrder{
		AccountID:         lo.AccountID,
		Exchange:          exchange,
		ContractID:        lo.ContractID,
		OrderID:           api.FormatOrderID(lo.OrderID),
		Currency:          currency,
		UnfilledQuantity:  lo.RemainingQuantity,
		FilledQuantity:    lo.FilledQuantity,
		Description:       lo.Description,
		Symbol:            lo.Ticker,
		SecurityType:      secType,
		Status:            model.OrderStatus(lo.Status),
		Type:              orderType,
		LastExecutionTime: time.UnixMilli(lo.LastExecutionTime).UTC(),
		CustomOrderID:     lo.OrderRef,
		Price:             price,
		TimeInForce:       tif,
		Side:              side,
	}, nil
}
