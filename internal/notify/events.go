package notify

import (
	"time"

	"github.com/kih-api/automation/internal/model"
	"github.com/kih-api/automation/internal/tools"
	"github.com/shopspring/decimal"
)

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return "None"
	}
	return d.Decimal.String()
}

func orderFields(o model.PlaceOrder) []field {
	return []field{
		{"Symbol", o.Symbol},
		{"Side", string(o.Side)},
		{"Order Type", string(o.Type)},
		{"Quantity", o.Quantity.String()},
		{"Price", nullString(o.Price)},
		{"Account ID", o.AccountID},
	}
}

type OrderPlacing struct {
	Order model.PlaceOrder
}

func (OrderPlacing) Kind() string     { return "order_placing" }
func (OrderPlacing) Channel() Channel { return Development }
func (e OrderPlacing) Render() string {
	return render("Placing a new order", orderFields(e.Order)...)
}

type OrderPlaced struct {
	Order    model.PlaceOrder
	Response model.PlaceOrderResponse
}

func (OrderPlaced) Kind() string     { return "order_placed" }
func (OrderPlaced) Channel() Channel { return Development }
func (e OrderPlaced) Render() string {
	fields := append(orderFields(e.Order), field{"Order ID", e.Response.OrderID})
	if e.Response.AutoCancelledAt != nil {
		fields = append(fields, field{"Auto Cancel At", e.Response.AutoCancelledAt.UTC().Format(time.RFC3339)})
	}
	return render("Order has been placed successfully", fields...)
}

// OrderFailed covers both a rejected placement and a failure before the order reached the broker.
type OrderFailed struct {
	Order  model.PlaceOrder
	Reason string
}

func (OrderFailed) Kind() string     { return "order_failed" }
func (OrderFailed) Channel() Channel { return Development }
func (e OrderFailed) Render() string {
	return render("ERROR: Order has not been placed", append(orderFields(e.Order), field{"Response Message", e.Reason})...)
}

func unfilledFields(o model.UnfilledOrder) []field {
	return []field{
		{"Symbol", o.Symbol},
		{"Unfilled Quantity", o.UnfilledQuantity.String()},
		{"Order Type", string(o.Type)},
		{"Price", nullString(o.Price)},
		{"Account ID", o.AccountID},
	}
}

type OrderCancelling struct {
	Order model.UnfilledOrder
}

func (OrderCancelling) Kind() string     { return "order_cancelling" }
func (OrderCancelling) Channel() Channel { return Development }
func (e OrderCancelling) Render() string {
	return render("Cancelling an unfilled order", unfilledFields(e.Order)...)
}

type OrderCancelFailed struct {
	Order  model.UnfilledOrder
	Reason string
}

func (OrderCancelFailed) Kind() string     { return "order_cancel_failed" }
func (OrderCancelFailed) Channel() Channel { return Development }
func (e OrderCancelFailed) Render() string {
	return render("ERROR: Order has not been cancelled", append(unfilledFields(e.Order), field{"Reason", e.Reason})...)
}

type TransferSucceeded struct {
	Request   model.TransferRequest
	Recipient string
}

func (TransferSucceeded) Kind() string     { return "transfer_succeeded" }
func (TransferSucceeded) Channel() Channel { return Main }
func (e TransferSucceeded) Render() string {
	return render("Money transferred",
		field{"Amount", string(e.Request.ToCurrency) + " " + tools.FormatDecimal(e.Request.Amount, 2)},
		field{"To", e.Recipient},
		field{"Reference", e.Request.Reference},
	)
}

type TransferFailed struct {
	Request   model.TransferRequest
	Recipient string
	Reason    string
}

func (TransferFailed) Kind() string     { return "transfer_failed" }
func (TransferFailed) Channel() Channel { return Main }
func (e TransferFailed) Render() string {
	recipient := e.Recipient
	if recipient == "" {
		recipient = e.Request.RecipientAccountNumber
	}
	return render("ERROR: Money transfer failed",
		field{"Amount", string(e.Request.ToCurrency) + " " + tools.FormatDecimal(e.Request.Amount, 2)},
		field{"To", recipient},
		field{"Reference", e.Request.Reference},
		field{"Reason", e.Reason},
	)
}

type JobStarted struct {
	Name string
}

func (JobStarted) Kind() string     { return "job_started" }
func (JobStarted) Channel() Channel { return Development }
func (e JobStarted) Render() string {
	return "Running job: <i>" + tools.EscapeHTML(e.Name) + "</i>"
}

type JobEnded struct {
	Name     string
	Duration time.Duration
}

func (JobEnded) Kind() string     { return "job_ended" }
func (JobEnded) Channel() Channel { return Development }
func (e JobEnded) Render() string {
	return "Job ended: <i>" + tools.EscapeHTML(e.Name) + "</i> in <i>" + e.Duration.Round(time.Millisecond).String() + "</i>"
}

type JobFailed struct {
	Name      string
	ErrorType string
	Message   string
}

func (JobFailed) Kind() string     { return "job_failed" }
func (JobFailed) Channel() Channel { return Main }
func (e JobFailed) Render() string {
	fields := []field{{"Job Name", e.Name}, {"Error Type", e.ErrorType}}
	if e.Message != "" {
		fields = append(fields, field{"Error Message", tools.StripMarkup(e.Message)})
	}
	return render("ERROR", fields...)
}
