// Package ledger reads the monthly personal finance workbook.
package ledger

import (
	"fmt"
	"time"

	"github.com/kih-api/automation/internal/config"
	"github.com/kih-api/automation/internal/investment"
	"github.com/kih-api/automation/internal/logger"
	"github.com/xuri/excelize/v2"
)

const _monthSheetLayout = "January, 2006"

// FinanceDatabase is a read-only snapshot of one month of the ledger.
type FinanceDatabase struct {
	Month           time.Time
	Settings        Settings
	Summary         Summary
	MonthlyExpenses MonthlyExpenseReport
	FixedExpenses   FixedExpenses
	Transfers       Transfers
	Reserve         Reserve

	// Projection is the reserve grown at the configured rate of return, nil
	// when the settings don't configure one.
	Projection *investment.Return
}

func MonthSheet(month time.Time) string {
	return month.Format(_monthSheetLayout)
}

// NextMonth returns the first day of the month after now.
func NextMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
}

// Open loads month from the workbook, a zero month means the next one.
func Open(cfg config.LedgerConfig, month time.Time, logger logger.Logger) (*FinanceDatabase, error) {
	if month.IsZero() {
		month = NextMonth(time.Now())
	}

	f, err := excelize.OpenFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: can't open ledger %s", err, cfg.Path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Errorf("%s: can't close ledger", err)
		}
	}()

	settingsRows, err := f.GetRows(cfg.SettingsSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: can't read %s sheet", err, cfg.SettingsSheet)
	}
	settings, err := parseSettings(cfg.SettingsSheet, settingsRows)
	if err != nil {
		return nil, err
	}

	sheet := MonthSheet(month)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: can't read %s sheet", err, sheet)
	}
	logger.Debugf("read %d rows from ledger sheet %s", len(rows), sheet)

	return parseMonth(month, sheet, rows, settings)
}

func parseMonth(month time.Time, sheet string, rows [][]string, settings Settings) (*FinanceDatabase, error) {
	sections := splitSections(rows,
		_summarySection, _monthlyExpensesSection, _fixedExpensesSection, _transfersSection, _reserveSection)

	db := &FinanceDatabase{Month: month, Settings: settings}

	summary, err := parseLines(sheet, sections[_summarySection])
	if err != nil {
		return nil, fmt.Errorf("%w: can't read summary", err)
	}
	db.Summary = Summary{Lines: summary}

	if db.MonthlyExpenses, err = parseMonthlyExpenses(sheet, sections[_monthlyExpensesSection]); err != nil {
		return nil, fmt.Errorf("%w: can't read monthly expenses", err)
	}
	if db.FixedExpenses, err = parseFixedExpenses(sheet, sections[_fixedExpensesSection]); err != nil {
		return nil, fmt.Errorf("%w: can't read fixed expenses", err)
	}
	if db.Transfers, err = parseTransfers(sheet, sections[_transfersSection], settings); err != nil {
		return nil, fmt.Errorf("%w: can't read transfers", err)
	}

	reserve, err := parseLines(sheet, sections[_reserveSection])
	if err != nil {
		return nil, fmt.Errorf("%w: can't read reserve", err)
	}
	db.Reserve = Reserve{Lines: reserve}

	if db.Projection, err = reserveProjection(month, settings, db.Reserve.Total()); err != nil {
		return nil, err
	}
	return db, nil
}
