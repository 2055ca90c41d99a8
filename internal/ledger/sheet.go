package ledger

import (
	"fmt"
	"strings"

	"github.com/kih-api/automation/internal/tools"
	"github.com/shopspring/decimal"
)

// section is the block of rows following a title row, without the header row.
type section struct {
	title  string
	header []string
	rows   [][]string
}

// splitSections cuts a sheet into titled blocks. A block starts with a row
// holding only a known title, its next row is the header and it ends at the
// first blank row.
func splitSections(rows [][]string, titles ...string) map[string]section {
	known := make(map[string]string, len(titles))
	for _, t := range titles {
		known[strings.ToLower(t)] = t
	}

	sections := make(map[string]section)
	var current *section
	for _, row := range rows {
		if isBlank(row) {
			if current != nil {
				sections[current.title] = *current
				current = nil
			}
			continue
		}

		if title, ok := known[strings.ToLower(cell(row, 0))]; ok && isBlank(row[1:]) {
			if current != nil {
				sections[current.title] = *current
			}
			current = &section{title: title}
			continue
		}

		if current == nil {
			continue
		}
		if current.header == nil {
			current.header = row
			continue
		}
		current.rows = append(current.rows, row)
	}
	if current != nil {
		sections[current.title] = *current
	}
	return sections
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func decimalCell(sheet string, row []string, i int) (decimal.Decimal, error) {
	raw := cell(row, i)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := tools.ParseSuffixedNumber(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s row %q", err, sheet, cell(row, 0))
	}
	return d, nil
}
