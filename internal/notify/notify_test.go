package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Send(ctx context.Context, channel Channel, message string, formatted bool) error {
	return m.Called(ctx, channel, message, formatted).Error(0)
}

type mockJournal struct {
	mock.Mock
}

func (m *mockJournal) Save(ctx context.Context, r Record) error {
	return m.Called(ctx, r).Error(0)
}

func TestDispatcherIsBestEffort(t *testing.T) {
	ctx := context.Background()
	e := JobStarted{Name: "monthly transfers"}

	failing, working := &mockSink{}, &mockSink{}
	failing.On("Send", ctx, Development, e.Render(), true).Return(errors.New("telegram down"))
	working.On("Send", ctx, Development, e.Render(), true).Return(nil)

	journal := &mockJournal{}
	journal.On("Save", ctx, mock.MatchedBy(func(r Record) bool {
		return r.Kind == "job_started" && r.Channel == Development && r.Message == e.Render()
	})).Return(errors.New("db down"))

	d := NewDispatcher(logger.NewNop(), failing, working).WithJournal(journal)
	d.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	assert.NotPanics(t, func() { d.Dispatch(ctx, e) })
	failing.AssertExpectations(t)
	working.AssertExpectations(t)
	journal.AssertExpectations(t)
}

func TestRenderEscapesValues(t *testing.T) {
	o, err := model.NewPlaceOrder("AAPL", model.Limit, model.Buy, decimal.NewFromInt(5),
		decimal.NewNullDecimal(decimal.RequireFromString("10.5")), "U1")
	require.NoError(t, err)

	msg := OrderFailed{Order: o, Reason: `{"error":"<b>rejected</b>"}`}.Render()
	assert.Contains(t, msg, "<u><b>ERROR: Order has not been placed</b></u>")
	assert.Contains(t, msg, "Price: <i>10.5</i>")
	assert.Contains(t, msg, "&lt;b&gt;rejected&lt;/b&gt;")
	assert.NotContains(t, msg, "<b>rejected")

	msg = OrderPlacing{Order: o}.Render()
	assert.Equal(t, "<u><b>Placing a new order</b></u>\n\n"+
		"Symbol: <i>AAPL</i>\nSide: <i>BUY</i>\nOrder Type: <i>LMT</i>\nQuantity: <i>5</i>\n"+
		"Price: <i>10.5</i>\nAccount ID: <i>U1</i>", msg)
}

func TestTransferEvents(t *testing.T) {
	req := model.TransferRequest{
		Amount:                 decimal.RequireFromString("1234.5"),
		FromCurrency:           model.USD,
		ToCurrency:             model.NZD,
		RecipientAccountNumber: "123",
		Reference:              "rent",
	}

	msg := TransferSucceeded{Request: req, Recipient: "Jane Doe"}.Render()
	assert.Contains(t, msg, "Amount: <i>NZD 1,234.50</i>")
	assert.Contains(t, msg, "To: <i>Jane Doe</i>")
	assert.Equal(t, Main, TransferSucceeded{}.Channel())

	msg = TransferFailed{Request: req, Reason: "insufficient funds"}.Render()
	assert.Contains(t, msg, "To: <i>123</i>")
	assert.Contains(t, msg, "Reason: <i>insufficient funds</i>")
}

func TestJobFailedStripsMarkup(t *testing.T) {
	msg := JobFailed{Name: "orders", ErrorType: "*errors.errorString", Message: "<nil> pointer"}.Render()
	assert.Contains(t, msg, "Error Message: <i>nil pointer</i>")
	assert.Equal(t, Main, JobFailed{}.Channel())

	msg = JobFailed{Name: "orders", ErrorType: "x"}.Render()
	assert.NotContains(t, msg, "Error Message")
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Dispatch(context.Background(), JobStarted{Name: "a"}, JobEnded{Name: "a"})
	assert.Len(t, r.Events, 2)
}
