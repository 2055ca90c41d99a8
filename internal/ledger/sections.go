package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kih-api/automation/internal/model"
	"github.com/shopspring/decimal"
)

const (
	_settingsSection        = "Settings"
	_accountsSection        = "Accounts"
	_summarySection         = "Summary"
	_monthlyExpensesSection = "Monthly Expenses"
	_fixedExpensesSection   = "Fixed Expenses"
	_transfersSection       = "Transfers"
	_reserveSection         = "Reserve"
)

var ErrUnknownAccount = errors.New("account not listed in settings")

type Account struct {
	Name          string
	AccountNumber string
	Currency      model.Currency
	ProfileType   model.ProfileType
}

type Settings struct {
	values   map[string]string
	accounts map[string]Account
}

func (s Settings) Get(key string) (string, bool) {
	v, ok := s.values[strings.ToLower(key)]
	return v, ok
}

func (s Settings) Account(name string) (Account, error) {
	a, ok := s.accounts[strings.ToLower(name)]
	if !ok {
		return Account{}, fmt.Errorf("%w: %s", ErrUnknownAccount, name)
	}
	return a, nil
}

func parseSettings(sheet string, rows [][]string) (Settings, error) {
	sections := splitSections(rows, _settingsSection, _accountsSection)
	s := Settings{
		values:   make(map[string]string),
		accounts: make(map[string]Account),
	}

	for _, row := range sections[_settingsSection].rows {
		s.values[strings.ToLower(cell(row, 0))] = cell(row, 1)
	}

	for _, row := range sections[_accountsSection].rows {
		currency, err := model.ParseCurrency(cell(row, 2))
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %s account %q", err, sheet, cell(row, 0))
		}
		profileType := model.Personal
		if raw := cell(row, 3); raw != "" {
			if profileType, err = model.ParseProfileType(strings.ToLower(raw)); err != nil {
				return Settings{}, fmt.Errorf("%w: %s account %q", err, sheet, cell(row, 0))
			}
		}
		s.accounts[strings.ToLower(cell(row, 0))] = Account{
			Name:          cell(row, 0),
			AccountNumber: cell(row, 1),
			Currency:      currency,
			ProfileType:   profileType,
		}
	}
	return s, nil
}

// Line is a named amount in the ledger's base currency.
type Line struct {
	Name   string
	Amount decimal.Decimal
}

func sumLines(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

func parseLines(sheet string, s section) ([]Line, error) {
	lines := make([]Line, 0, len(s.rows))
	for _, row := range s.rows {
		amount, err := decimalCell(sheet, row, 1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, Line{Name: cell(row, 0), Amount: amount})
	}
	return lines, nil
}

type Summary struct {
	Lines []Line
}

func (s Summary) Get(name string) (decimal.Decimal, bool) {
	for _, l := range s.Lines {
		if strings.EqualFold(l.Name, name) {
			return l.Amount, true
		}
	}
	return decimal.Zero, false
}

type ExpenseLine struct {
	Category string
	Budget   decimal.Decimal
	Actual   decimal.Decimal
}

func (e ExpenseLine) Remaining() decimal.Decimal {
	return e.Budget.Sub(e.Actual)
}

type MonthlyExpenseReport struct {
	Lines []ExpenseLine
}

func (r MonthlyExpenseReport) TotalBudget() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Budget)
	}
	return total
}

func (r MonthlyExpenseReport) TotalActual() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Actual)
	}
	return total
}

// OverBudget returns the categories whose spending exceeded the budget.
func (r MonthlyExpenseReport) OverBudget() []ExpenseLine {
	var over []ExpenseLine
	for _, l := range r.Lines {
		if l.Remaining().IsNegative() {
			over = append(over, l)
		}
	}
	return over
}

func parseMonthlyExpenses(sheet string, s section) (MonthlyExpenseReport, error) {
	var r MonthlyExpenseReport
	for _, row := range s.rows {
		budget, err := decimalCell(sheet, row, 1)
		if err != nil {
			return MonthlyExpenseReport{}, err
		}
		actual, err := decimalCell(sheet, row, 2)
		if err != nil {
			return MonthlyExpenseReport{}, err
		}
		r.Lines = append(r.Lines, ExpenseLine{Category: cell(row, 0), Budget: budget, Actual: actual})
	}
	return r, nil
}

type FixedExpense struct {
	Name     string
	Amount   decimal.Decimal
	Currency model.Currency
}

type FixedExpenses struct {
	Items []FixedExpense
}

func (f FixedExpenses) Total(currency model.Currency) decimal.Decimal {
	total := decimal.Zero
	for _, e := range f.Items {
		if e.Currency == currency {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func parseFixedExpenses(sheet string, s section) (FixedExpenses, error) {
	var f FixedExpenses
	for _, row := range s.rows {
		amount, err := decimalCell(sheet, row, 1)
		if err != nil {
			return FixedExpenses{}, err
		}
		currency, err := model.ParseCurrency(cell(row, 2))
		if err != nil {
			return FixedExpenses{}, fmt.Errorf("%w: %s fixed expense %q", err, sheet, cell(row, 0))
		}
		f.Items = append(f.Items, FixedExpense{Name: cell(row, 0), Amount: amount, Currency: currency})
	}
	return f, nil
}

// Transfer moves Amount, in the destination account's currency, between two
// accounts listed in the settings.
type Transfer struct {
	From      Account
	To        Account
	Amount    decimal.Decimal
	Reference string
}

func (t Transfer) Request() model.TransferRequest {
	return model.TransferRequest{
		Amount:                 t.Amount,
		FromCurrency:           t.From.Currency,
		ToCurrency:             t.To.Currency,
		RecipientAccountNumber: t.To.AccountNumber,
		Reference:              t.Reference,
		ProfileType:            t.From.ProfileType,
	}
}

type Transfers []Transfer

func parseTransfers(sheet string, s section, settings Settings) (Transfers, error) {
	transfers := make(Transfers, 0, len(s.rows))
	for _, row := range s.rows {
		from, err := settings.Account(cell(row, 0))
		if err != nil {
			return nil, fmt.Errorf("%w: %s transfer source", err, sheet)
		}
		to, err := settings.Account(cell(row, 1))
		if err != nil {
			return nil, fmt.Errorf("%w: %s transfer destination", err, sheet)
		}
		amount, err := decimalCell(sheet, row, 2)
		if err != nil {
			return nil, err
		}
		if !amount.IsPositive() {
			continue
		}
		transfers = append(transfers, Transfer{From: from, To: to, Amount: amount, Reference: cell(row, 3)})
	}
	return transfers, nil
}

type Reserve struct {
	Lines []Line
}

func (r Reserve) Total() decimal.Decimal {
	return sumLines(r.Lines)
}
