// Package api is a client for the Wise platform API.
package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/kih-api/automation/internal/config"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/restclient"
	"resty.dev/v3"
)

const (
	_profilesURL   = "/v1/profiles"
	_accountsURL   = "/v1/borderless-accounts"
	_ratesURL      = "/v1/rates"
	_recipientsURL = "/v1/accounts"
	_quotesURL     = "/v2/quotes"
	_transfersURL  = "/v1/transfers"
	_fundURL       = "/v3/profiles/{profileId}/transfers/{transferId}/payments"

	_fundTypeBalance = "BALANCE"
	FundCompleted    = "COMPLETED"
)

type Client struct {
	c *resty.Client

	logger logger.Logger
}

func NewClient(cfg config.WiseConfig, token string, logger logger.Logger) *Client {
	return &Client{
		c: restclient.New(restclient.Config{
			Address:   cfg.Address,
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RequestsPerMinute,
			RatePer:   time.Minute,
			AuthToken: token,
		}, logger),
		logger: logger,
	}
}

func (c *Client) Profiles(ctx context.Context) ([]Profile, error) {
	var result []Profile
	resp, err := c.c.R().
		SetContext(ctx).
		SetResult(&result).
		Get(_profilesURL)
	if err := restclient.Check(c.logger, resp, err, "get profiles"); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Accounts(ctx context.Context, profileID int64) ([]BorderlessAccount, error) {
	var result []BorderlessAccount
	resp, err := c.c.R().
		SetContext(ctx).
		SetQueryParam("profileId", strconv.FormatInt(profileID, 10)).
		SetResult(&result).
		Get(_accountsURL)
	if err := restclient.Check(c.logger, resp, err, "get accounts"); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Rate(ctx context.Context, from, to string) (Rate, error) {
	var result []Rate
	resp, err := c.c.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"source": from,
			"target": to,
		}).
		SetResult(&result).
		Get(_ratesURL)
	if err := restclient.Check(c.logger, resp, err, fmt.Sprintf("get %s/%s rate", from, to)); err != nil {
		return Rate{}, err
	}
	if len(result) == 0 {
		return Rate{}, fmt.Errorf("no %s/%s rate returned", from, to)
	}
	return result[0], nil
}

func (c *Client) Recipients(ctx context.Context, profileID int64) ([]Recipient, error) {
	var result []Recipient
	resp, err := c.c.R().
		SetContext(ctx).
		SetQueryParam("profile", strconv.FormatInt(profileID, 10)).
		SetResult(&result).
		Get(_recipientsURL)
	if err := restclient.Check(c.logger, resp, err, "get recipients"); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) CreateQuote(ctx context.Context, req QuoteRequest) (Quote, error) {
	var result Quote
	resp, err := c.c.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post(_quotesURL)
	if err := restclient.Check(c.logger, resp, err, "create quote"); err != nil {
		return Quote{}, err
	}
	return result, nil
}

// CreateTransfer creates a transfer from a quote. Every call carries a new
// customer transaction id.
func (c *Client) CreateTransfer(ctx context.Context, targetAccount int64, quoteID, reference string) (Transfer, error) {
	var result Transfer
	resp, err := c.c.R().
		SetContext(ctx).
		SetBody(TransferRequest{
			TargetAccount:         targetAccount,
			QuoteID:               quoteID,
			CustomerTransactionID: uuid.NewString(),
			Details:               TransferDetails{Reference: reference},
		}).
		SetResult(&result).
		Post(_transfersURL)
	if err := restclient.Check(c.logger, resp, err, "create transfer"); err != nil {
		return Transfer{}, err
	}
	return result, nil
}

// FundTransfer pays a transfer from the profile's balance.
func (c *Client) FundTransfer(ctx context.Context, profileID, transferID int64) (Funding, error) {
	var result Funding
	resp, err := c.c.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"profileId":  strconv.FormatInt(profileID, 10),
			"transferId": strconv.FormatInt(transferID, 10),
		}).
		SetBody(fundRequest{Type: _fundTypeBalance}).
		SetResult(&result).
		Post(_fundURL)
	if err := restclient.Check(c.logger, resp, err, fmt.Sprintf("fund transfer %d", transferID)); err != nil {
		return Funding{}, err
	}
	return result, nil
}
