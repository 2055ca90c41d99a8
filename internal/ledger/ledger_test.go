package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kih-api/automation/internal/config"
	"github.com/kih-api/automation/internal/investment"
	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var _march = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func writeSheet(t *testing.T, f *excelize.File, sheet string, rows [][]any) {
	t.Helper()
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
}

func newWorkbook(t *testing.T) config.LedgerConfig {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	writeSheet(t, f, "Settings", [][]any{
		{"Settings"},
		{"Key", "Value"},
		{"Base Currency", "USD"},
		{"Annual Rate Of Return", "12%"},
		{"Investment Years", 1},
		{},
		{"Accounts"},
		{"Name", "Account Number", "Currency", "Profile"},
		{"Wise USD", "111", "USD", "personal"},
		{"Savings", "222", "USD", "Personal"},
		{"Home", "333", "LKR"},
	})
	writeSheet(t, f, "March, 2026", [][]any{
		{"Summary"},
		{"Name", "Amount"},
		{"Income", 5000},
		{"Expenses", "3,250.50"},
		{},
		{"Monthly Expenses"},
		{"Category", "Budget", "Actual"},
		{"Groceries", 400, 450.25},
		{"Transport", 150, 90},
		{},
		{"Fixed Expenses"},
		{"Name", "Amount", "Currency"},
		{"Rent", 1500, "USD"},
		{"Phone", 3000, "LKR"},
		{},
		{"Transfers"},
		{"From", "To", "Amount", "Reference"},
		{"Wise USD", "Savings", 500, "savings <march>"},
		{"Wise USD", "Home", 30000, "family"},
		{"Wise USD", "Savings", 0, "skipped"},
		{},
		{"Reserve"},
		{"Name", "Amount"},
		{"Emergency", 2000},
		{"Travel", 750.5},
	})
	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "finance.xlsx")
	require.NoError(t, f.SaveAs(path))

	cfg := config.LedgerConfig{Path: path}
	cfg.Setup()
	return cfg
}

func TestOpen(t *testing.T) {
	db, err := Open(newWorkbook(t), _march, logger.NewNop())
	require.NoError(t, err)

	base, ok := db.Settings.Get("base currency")
	require.True(t, ok)
	assert.Equal(t, "USD", base)

	expenses, ok := db.Summary.Get("Expenses")
	require.True(t, ok)
	assert.True(t, expenses.Equal(decimal.RequireFromString("3250.5")))

	require.Len(t, db.MonthlyExpenses.Lines, 2)
	assert.True(t, db.MonthlyExpenses.TotalBudget().Equal(decimal.NewFromInt(550)))
	over := db.MonthlyExpenses.OverBudget()
	require.Len(t, over, 1)
	assert.Equal(t, "Groceries", over[0].Category)

	assert.True(t, db.FixedExpenses.Total(model.USD).Equal(decimal.NewFromInt(1500)))
	assert.True(t, db.FixedExpenses.Total(model.LKR).Equal(decimal.NewFromInt(3000)))

	require.Len(t, db.Transfers, 2)
	req := db.Transfers[1].Request()
	assert.True(t, req.Amount.Equal(decimal.NewFromInt(30000)))
	assert.Equal(t, model.USD, req.FromCurrency)
	assert.Equal(t, model.LKR, req.ToCurrency)
	assert.Equal(t, "333", req.RecipientAccountNumber)
	assert.Equal(t, "family", req.Reference)
	assert.Equal(t, model.Personal, req.ProfileType)

	assert.True(t, db.Reserve.Total().Equal(decimal.RequireFromString("2750.5")))

	require.NotNil(t, db.Projection)
	assert.Equal(t, "3080.56", db.Projection.Capital.StringFixed(2))
	assert.Equal(t, "330.06", db.Projection.Profit.StringFixed(2))
	assert.Equal(t, time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC), db.Projection.Date)
}

func TestSettingsDecimal(t *testing.T) {
	settings := Settings{values: map[string]string{
		"rate":    "0.07",
		"percent": "7.5%",
		"broken":  "seven",
		"blank":   "",
	}}

	tests := []struct {
		key     string
		want    string
		found   bool
		wantErr bool
	}{
		{key: "Rate", want: "0.07", found: true},
		{key: "percent", want: "0.075", found: true},
		{key: "broken", wantErr: true},
		{key: "blank"},
		{key: "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			d, ok, err := settings.Decimal(tt.key)
			if tt.wantErr {
				assert.ErrorContains(t, err, tt.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, d.String())
			}
		})
	}
}

func TestReserveProjection(t *testing.T) {
	reserve := decimal.NewFromInt(1000)

	tests := []struct {
		name    string
		values  map[string]string
		want    string
		wantErr error
	}{
		{
			name:   "configured",
			values: map[string]string{"annual rate of return": "0.12", "investment years": "0.5"},
			want:   "1058.30",
		},
		{
			name:   "no rate",
			values: map[string]string{"investment years": "2"},
		},
		{
			name:   "no years",
			values: map[string]string{"annual rate of return": "12%"},
		},
		{
			name:    "rate out of range",
			values:  map[string]string{"annual rate of return": "-150%", "investment years": "1"},
			wantErr: investment.ErrRateOutOfRange,
		},
		{
			name:    "under a month",
			values:  map[string]string{"annual rate of return": "12%", "investment years": "0.05"},
			wantErr: investment.ErrNoPeriods,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projection, err := reserveProjection(_march, Settings{values: tt.values}, reserve)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, projection)
				return
			}
			require.NotNil(t, projection)
			assert.Equal(t, tt.want, projection.Capital.StringFixed(2))
		})
	}
}

func TestOpenMissingMonth(t *testing.T) {
	_, err := Open(newWorkbook(t), time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), logger.NewNop())
	assert.ErrorContains(t, err, "April, 2026")
}

func TestParseTransfersUnknownAccount(t *testing.T) {
	settings := Settings{values: map[string]string{}, accounts: map[string]Account{}}
	s := section{title: _transfersSection, rows: [][]string{{"Wise USD", "Nowhere", "10"}}}

	_, err := parseTransfers("March, 2026", s, settings)
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestNextMonth(t *testing.T) {
	now := time.Date(2026, time.January, 31, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "February, 2026", MonthSheet(NextMonth(now)))

	now = time.Date(2026, time.December, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "January, 2027", MonthSheet(NextMonth(now)))
}

func TestReportHTML(t *testing.T) {
	db, err := Open(newWorkbook(t), _march, logger.NewNop())
	require.NoError(t, err)

	html, err := db.Report().HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "Finances for March, 2026")
	assert.Contains(t, html, "<td>USD 1,500.00</td>")
	assert.Contains(t, html, "savings &lt;march&gt;")
	assert.Contains(t, html, "<td>2,750.50</td>")
	assert.Contains(t, html, "<h3>Over Budget</h3>")
	assert.Contains(t, html, "<tr><td>Groceries</td><td>50.25</td></tr>")
	assert.NotContains(t, html, "<tr><td>Transport</td><td>-60.00</td></tr>")
	assert.Contains(t, html, "<tr><td>By March, 2027</td><td>3,080.56</td></tr>")
	assert.Contains(t, html, "<tr><td>Profit</td><td>330.06</td></tr>")
}

func TestReportHTMLWithinBudget(t *testing.T) {
	db := &FinanceDatabase{
		Month: _march,
		MonthlyExpenses: MonthlyExpenseReport{Lines: []ExpenseLine{
			{Category: "Transport", Budget: decimal.NewFromInt(150), Actual: decimal.NewFromInt(90)},
		}},
	}

	html, err := db.Report().HTML()
	require.NoError(t, err)
	assert.NotContains(t, html, "Over Budget")
	assert.NotContains(t, html, "Reserve Projection")
}
