package ledger

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/kih-api/automation/internal/tools"
	"github.com/shopspring/decimal"
)

var _reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return tools.FormatDecimal(d, 2) },
}).Parse(`<h2>{{.Title}}</h2>
<h3>Summary</h3>
<table>
{{- range .Summary.Lines}}
<tr><td>{{.Name}}</td><td>{{money .Amount}}</td></tr>
{{- end}}
</table>
<h3>Monthly Expenses</h3>
<table>
<tr><th>Category</th><th>Budget</th><th>Actual</th><th>Remaining</th></tr>
{{- range .MonthlyExpenses.Lines}}
<tr><td>{{.Category}}</td><td>{{money .Budget}}</td><td>{{money .Actual}}</td><td>{{money .Remaining}}</td></tr>
{{- end}}
<tr><td><b>Total</b></td><td>{{money .MonthlyExpenses.TotalBudget}}</td><td>{{money .MonthlyExpenses.TotalActual}}</td><td></td></tr>
</table>
{{- with .MonthlyExpenses.OverBudget}}
<h3>Over Budget</h3>
<table>
<tr><th>Category</th><th>Overspent</th></tr>
{{- range .}}
<tr><td>{{.Category}}</td><td>{{money .Remaining.Neg}}</td></tr>
{{- end}}
</table>
{{- end}}
<h3>Fixed Expenses</h3>
<table>
{{- range .FixedExpenses.Items}}
<tr><td>{{.Name}}</td><td>{{.Currency}} {{money .Amount}}</td></tr>
{{- end}}
</table>
<h3>Transfers</h3>
<table>
<tr><th>From</th><th>To</th><th>Amount</th><th>Reference</th></tr>
{{- range .Transfers}}
<tr><td>{{.From.Name}}</td><td>{{.To.Name}}</td><td>{{.To.Currency}} {{money .Amount}}</td><td>{{.Reference}}</td></tr>
{{- end}}
</table>
<h3>Reserve</h3>
<table>
{{- range .Reserve.Lines}}
<tr><td>{{.Name}}</td><td>{{money .Amount}}</td></tr>
{{- end}}
<tr><td><b>Total</b></td><td>{{money .Reserve.Total}}</td></tr>
</table>
{{- with .Projection}}
<h3>Reserve Projection</h3>
<table>
<tr><td>By {{.Date.Format "January, 2006"}}</td><td>{{money .Capital}}</td></tr>
<tr><td>Profit</td><td>{{money .Profit}}</td></tr>
</table>
{{- end}}
`))

// Report is the monthly summary mailed to the user.
type Report struct {
	*FinanceDatabase
	Title string
}

func (db *FinanceDatabase) Report() Report {
	return Report{
		FinanceDatabase: db,
		Title:           "Finances for " + MonthSheet(db.Month),
	}
}

func (r Report) HTML() (string, error) {
	var buf bytes.Buffer
	if err := _reportTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("%w: can't render report", err)
	}
	return buf.String(), nil
}
