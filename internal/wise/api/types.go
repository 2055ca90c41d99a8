package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Profile struct {
	ID      int64          `json:"id"`
	Type    string         `json:"type"`
	Details ProfileDetails `json:"details"`
}

type ProfileDetails struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Name        string `json:"name"` // business profiles
}

type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

type Balance struct {
	Currency       string `json:"currency"`
	Amount         Amount `json:"amount"`
	ReservedAmount Amount `json:"reservedAmount"`
}

type BorderlessAccount struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profileId"`
	RecipientID int64     `json:"recipientId"`
	Active      bool      `json:"active"`
	Balances    []Balance `json:"balances"`
}

type Rate struct {
	Rate   decimal.Decimal `json:"rate"`
	Source string          `json:"source"`
	Target string          `json:"target"`
}

type Recipient struct {
	ID                int64            `json:"id"`
	ProfileID         int64            `json:"profile"`
	AccountHolderName string           `json:"accountHolderName"`
	Currency          string           `json:"currency"`
	Active            bool             `json:"active"`
	OwnedByCustomer   bool             `json:"ownedByCustomer"`
	Details           RecipientDetails `json:"details"`
}

type RecipientDetails struct {
	AccountNumber string `json:"accountNumber"`
	SwiftCode     string `json:"swiftCode"`
	BankName      string `json:"bankName"`
	BranchName    string `json:"branchName"`
	IBAN          string `json:"iban"`
	BIC           string `json:"bic"`
}

type QuoteRequest struct {
	ProfileID      int64       `json:"profile"`
	SourceCurrency string      `json:"sourceCurrency"`
	TargetCurrency string      `json:"targetCurrency"`
	TargetAmount   json.Number `json:"targetAmount"`
	TargetAccount  int64       `json:"targetAccount"`
}

type Quote struct {
	ID             string          `json:"id"`
	SourceCurrency string          `json:"sourceCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	SourceAmount   decimal.Decimal `json:"sourceAmount"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	Rate           decimal.Decimal `json:"rate"`
}

type TransferRequest struct {
	TargetAccount         int64           `json:"targetAccount"`
	QuoteID               string          `json:"quoteUuid"`
	CustomerTransactionID string          `json:"customerTransactionId"`
	Details               TransferDetails `json:"details"`
}

type TransferDetails struct {
	Reference string `json:"reference"`
}

type Transfer struct {
	ID             int64           `json:"id"`
	TargetAccount  int64           `json:"targetAccount"`
	QuoteID        string          `json:"quoteUuid"`
	Status         string          `json:"status"`
	Reference      string          `json:"reference"`
	Rate           decimal.Decimal `json:"rate"`
	SourceCurrency string          `json:"sourceCurrency"`
	SourceValue    decimal.Decimal `json:"sourceValue"`
	TargetCurrency string          `json:"targetCurrency"`
	TargetValue    decimal.Decimal `json:"targetValue"`
}

type fundRequest struct {
	Type string `json:"type"`
}

type Funding struct {
	Type         string `json:"type"`
	Status       string `json:"status"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}
