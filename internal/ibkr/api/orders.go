package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kih-api/automation/internal/restclient"
	"github.com/tidwall/gjson"
	"resty.dev/v3"
)

// PlaceOrder submits one order. Confirmation prompts the gateway raises are
// answered positively a bounded number of times. A rejected order is not an
// error: it is reported through OrderAck with the raw response text.
func (c *Client) PlaceOrder(ctx context.Context, accountID string, order OrderRequest) (OrderAck, error) {
	resp, err := c.c.R().
		SetContext(ctx).
		SetPathParam("accountId", accountID).
		SetBody(ordersRequest{Orders: []OrderRequest{order}}).
		Post(_placeOrderURL)

	for confirmations := 0; ; confirmations++ {
		if err := checkBusinessResponse(c, resp, err, "place order"); err != nil {
			return OrderAck{}, err
		}

		body := resp.Bytes()
		replyID := gjson.GetBytes(body, "0.id").String()
		if replyID == "" || !gjson.GetBytes(body, "0.message").Exists() {
			return newOrderAck(resp.IsSuccess(), body), nil
		}
		if confirmations >= c.replyConfirmations {
			c.logger.Warnf("order %s still asks for confirmation after %d replies", order.CustomOrderID, confirmations)
			return newOrderAck(false, body), nil
		}

		c.logger.Infof("confirming order %s prompt: %s", order.CustomOrderID, gjson.GetBytes(body, "0.message").String())
		resp, err = c.c.R().
			SetContext(ctx).
			SetPathParam("replyId", replyID).
			SetBody(replyRequest{Confirmed: true}).
			Post(_replyURL)
	}
}

func newOrderAck(ok bool, body []byte) OrderAck {
	doc := gjson.ParseBytes(body)
	if doc.IsArray() {
		doc = doc.Get("0")
	}

	ack := OrderAck{
		OrderID: doc.Get("order_id").String(),
		Status:  doc.Get("order_status").String(),
		Text:    string(body),
	}
	ack.Successful = ok && ack.OrderID != "" && !doc.Get("error").Exists()
	return ack
}

func (c *Client) CancelOrder(ctx context.Context, accountID, orderID string) (CancelAck, error) {
	resp, err := c.c.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"accountId": accountID,
			"orderId":   orderID,
		}).
		Delete(_cancelOrderURL)
	if err := checkBusinessResponse(c, resp, err, "cancel order "+orderID); err != nil {
		return CancelAck{}, err
	}

	doc := gjson.ParseBytes(resp.Bytes())
	ack := CancelAck{
		OrderID:    doc.Get("order_id").String(),
		ContractID: doc.Get("conid").Int(),
		AccountID:  doc.Get("account").String(),
		Message:    doc.Get("msg").String(),
	}
	if e := doc.Get("error"); e.Exists() {
		ack.Message = e.String()
	}
	if ack.Message == "" {
		ack.Message = resp.String()
	}
	ack.Successful = resp.IsSuccess() && !doc.Get("error").Exists() && doc.Get("msg").String() != ""
	if ack.OrderID == "" {
		ack.OrderID = orderID
	}
	if ack.AccountID == "" {
		ack.AccountID = accountID
	}
	return ack, nil
}

// checkBusinessResponse lets 4xx answers through since the gateway reports
// order rejections that way. Transport failures and 5xx are errors.
func checkBusinessResponse(c *Client, resp *resty.Response, err error, action string) error {
	if err != nil {
		return fmt.Errorf("%w: can't %s", err, action)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return restclient.Check(c.logger, resp, nil, action)
	}
	c.logger.Debugf("got response %s %s status: %s, %s", resp.Request.Method, resp.Request.URL, resp.Status(), resp.Duration())
	return nil
}

func FormatOrderID(id int64) string {
	return strconv.FormatInt(id, 10)
}
