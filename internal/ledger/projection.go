package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/kih-api/automation/internal/investment"
	"github.com/kih-api/automation/internal/tools"
	"github.com/shopspring/decimal"
)

const (
	_annualRateSetting      = "Annual Rate Of Return"
	_investmentYearsSetting = "Investment Years"
)

var _hundred = decimal.NewFromInt(100)

// Decimal reads a numeric setting. A trailing % divides the value by 100.
func (s Settings) Decimal(key string) (decimal.Decimal, bool, error) {
	raw, ok := s.Get(key)
	if !ok || raw == "" {
		return decimal.Zero, false, nil
	}

	percent := strings.HasSuffix(raw, "%")
	d, err := tools.ParseSuffixedNumber(strings.TrimSuffix(raw, "%"))
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: setting %q", err, key)
	}
	if percent {
		d = d.Div(_hundred)
	}
	return d, true, nil
}

// reserveProjection grows the reserve total from month at the configured
// annual rate. It is nil unless both settings are present.
func reserveProjection(month time.Time, settings Settings, reserve decimal.Decimal) (*investment.Return, error) {
	rate, ok, err := settings.Decimal(_annualRateSetting)
	if err != nil || !ok {
		return nil, err
	}
	years, ok, err := settings.Decimal(_investmentYearsSetting)
	if err != nil || !ok {
		return nil, err
	}

	projection, err := investment.Projection(month, reserve, rate, years)
	if err != nil {
		return nil, fmt.Errorf("%w: can't project reserve", err)
	}
	return &projection, nil
}
