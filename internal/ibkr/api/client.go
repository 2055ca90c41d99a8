// Package api is a client for the Interactive Brokers Client Portal Web API
// served by a locally running gateway.
package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kih-api/automation/internal/config"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/restclient"
	"github.com/tidwall/gjson"
	"resty.dev/v3"
)

const (
	_searchURL         = "/iserver/secdef/search"
	_contractInfoURL   = "/iserver/contract/{conid}/info"
	_snapshotURL       = "/iserver/marketdata/snapshot"
	_historyURL        = "/iserver/marketdata/history"
	_accountsURL       = "/portfolio/accounts"
	_positionsURL      = "/portfolio/{accountId}/positions/{pageId}"
	_summaryURL        = "/portfolio/{accountId}/summary"
	_placeOrderURL     = "/iserver/account/{accountId}/orders"
	_replyURL          = "/iserver/reply/{replyId}"
	_cancelOrderURL    = "/iserver/account/{accountId}/order/{orderId}"
	_liveOrdersURL     = "/iserver/account/orders"
	_positionsPageSize = 100
)

// Snapshot field ids.
const (
	FieldLastPrice        = "31"
	FieldHigh             = "70"
	FieldLow              = "71"
	FieldChange           = "82"
	FieldChangePercent    = "83"
	FieldBidPrice         = "84"
	FieldAskSize          = "85"
	FieldAskPrice         = "86"
	FieldVolume           = "87"
	FieldBidSize          = "88"
	FieldOptionVolume     = "7089"
	FieldDividendAmount   = "7286"
	FieldDividendYield    = "7287"
	FieldMarketCap        = "7289"
	FieldPriceToEarnings  = "7290"
	FieldEarningsPerShare = "7291"
	FieldOpen             = "7295"
	FieldClose            = "7296"
)

var _snapshotFields = FieldLastPrice + "," + FieldHigh + "," + FieldLow + "," + FieldChange + "," +
	FieldChangePercent + "," + FieldBidPrice + "," + FieldAskSize + "," + FieldAskPrice + "," +
	FieldVolume + "," + FieldBidSize + "," + FieldOptionVolume + "," + FieldDividendAmount + "," +
	FieldDividendYield + "," + FieldMarketCap + "," + FieldPriceToEarnings + "," +
	FieldEarningsPerShare + "," + FieldOpen + "," + FieldClose

type Client struct {
	c                  *resty.Client
	replyConfirmations int

	logger logger.Logger
}

func NewClient(cfg config.IBKRConfig, logger logger.Logger) *Client {
	return &Client{
		c: restclient.New(restclient.Config{
			Address:            cfg.Address,
			Timeout:            cfg.Timeout,
			RateLimit:          cfg.RequestsPerSecond,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}, logger),
		replyConfirmations: cfg.ReplyConfirmations,
		logger:             logger,
	}
}

func (c *Client) SearchSymbol(ctx context.Context, symbol string) ([]SearchResult, error) {
	resp, err := c.c.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		Get(_searchURL)
	if err := restclient.Check(c.logger, resp, err, "search symbol "+symbol); err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(resp.Bytes())
	if !doc.IsArray() {
		return nil, nil
	}

	var results []SearchResult
	for _, r := range doc.Array() {
		results = append(results, SearchResult{
			ContractID:  r.Get("conid").Int(),
			Symbol:      r.Get("symbol").String(),
			CompanyName: r.Get("companyName").String(),
			Description: r.Get("description").String(),
		})
	}
	return results, nil
}

// Contract returns the raw contract info document.
func (c *Client) Contract(ctx context.Context, contractID int64) (gjson.Result, error) {
	resp, err := c.c.R().
		SetContext(ctx).
		SetPathParam("conid", strconv.FormatInt(contractID, 10)).
		Get(_contractInfoURL)
	if err := restclient.Check(c.logger, resp, err, "get contract info"); err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(resp.Bytes()), nil
}

// MarketSnapshot returns the raw snapshot document of one contract keyed by field ids.
func (c *Client) MarketSnapshot(ctx context.Context, contractID int64) (gjson.Result, error) {
	resp, err := c.c.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"conids": strconv.FormatInt(contractID, 10),
			"fields": _snapshotFields,
		}).
		Get(_snapshotURL)
	if err := restclient.Check(c.logger, resp, err, "get market snapshot"); err != nil {
		return gjson.Result{}, err
	}

	doc := gjson.ParseBytes(resp.Bytes())
	if doc.IsArray() {
		return doc.Get("0"), nil
	}
	return doc, nil
}

func (c *Client) MarketHistory(ctx context.Context, contractID int64, period, bar string) ([]HistoryBar, error) {
	var result historyResponse
	resp, err := c.c.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"conid":  strconv.FormatInt(contractID, 10),
			"period": period,
			"bar":    bar,
		}).
		SetResult(&result).
		Get(_historyURL)
	if err := restclient.Check(c.logger, resp, err, "get market history"); err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var result []Account
	resp, err := c.c.R().
		SetContext(ctx).
		SetResult(&result).
		Get(_accountsURL)
	if err := restclient.Check(c.logger, resp, err, "get accounts"); err != nil {
		return nil, err
	}
	return result, nil
}

// Positions walks every page of the account's positions.
func (c *Client) Positions(ctx context.Context, accountID string) ([]Position, error) {
	var positions []Position
	for page := 0; ; page++ {
		var result []Position
		resp, err := c.c.R().
			SetContext(ctx).
			SetPathParams(map[string]string{
				"accountId": accountID,
				"pageId":    strconv.Itoa(page),
			}).
			SetResult(&result).
			Get(_positionsURL)
		if err := restclient.Check(c.logger, resp, err, fmt.Sprintf("get positions page %d", page)); err != nil {
			return nil, err
		}

		positions = append(positions, result...)
		if len(result) < _positionsPageSize {
			return positions, nil
		}
	}
}

func (c *Client) AccountSummary(ctx context.Context, accountID string) (AccountSummary, error) {
	var result AccountSummary
	resp, err := c.c.R().
		SetContext(ctx).
		SetPathParam("accountId", accountID).
		SetResult(&result).
		Get(_summaryURL)
	if err := restclient.Check(c.logger, resp, err, "get account summary"); err != nil {
		return AccountSummary{}, err
	}
	return result, nil
}

func (c *Client) LiveOrders(ctx context.Context) ([]LiveOrder, error) {
	var result liveOrdersResponse
	resp, err := c.c.R().
		SetContext(ctx).
		SetResult(&result).
		Get(_liveOrdersURL)
	if err := restclient.Check(c.logger, resp, err, "get live orders"); err != nil {
		return nil, err
	}
	return result.Orders, nil
}
