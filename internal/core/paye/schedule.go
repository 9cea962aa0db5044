package paye

import (
	"fmt"
	"math"
	"strings"
)

// DefaultContributionRate は既定の社会保険料 (NSSF) 率です。
const DefaultContributionRate = 0.05

// Schedule は検証済みの税率表と社会保険料率の組です。生成後は変更されません。
type Schedule struct {
	contributionRate float64
	bands            []TaxBand
}

// NewSchedule は税率表を検証して Schedule を生成します。
func NewSchedule(contributionRate float64, bands []TaxBand) (*Schedule, error) {
	if math.IsNaN(contributionRate) || math.IsInf(contributionRate, 0) || contributionRate < 0 || contributionRate >= 1 {
		return nil, ErrInvalidContributionRate
	}

	if len(bands) == 0 {
		return nil, fmt.Errorf("no bands: %w", ErrInvalidSchedule)
	}

	normalized := make([]TaxBand, len(bands))
	for i, band := range bands {
		band.Label = strings.TrimSpace(band.Label)
		if band.Label == "" {
			return nil, fmt.Errorf("band %d: empty label: %w", i, ErrInvalidSchedule)
		}
		if math.IsNaN(band.Rate) || band.Rate < 0 || band.Rate > 1 {
			return nil, fmt.Errorf("band %q: rate out of range: %w", band.Label, ErrInvalidSchedule)
		}
		if math.IsNaN(band.Lower) || math.IsInf(band.Lower, 0) || math.IsNaN(band.Upper) {
			return nil, fmt.Errorf("band %q: invalid bounds: %w", band.Label, ErrInvalidSchedule)
		}

		if i == 0 {
			if band.Lower != 0 {
				return nil, fmt.Errorf("band %q: first band must start at 0: %w", band.Label, ErrInvalidSchedule)
			}
		} else if band.Lower != normalized[i-1].Upper {
			return nil, fmt.Errorf("band %q: not contiguous with previous band: %w", band.Label, ErrInvalidSchedule)
		}

		last := i == len(bands)-1
		if band.Unbounded() != last {
			return nil, fmt.Errorf("band %q: only the last band may be unbounded: %w", band.Label, ErrInvalidSchedule)
		}
		if !band.Unbounded() && band.Upper <= band.Lower {
			return nil, fmt.Errorf("band %q: upper must exceed lower: %w", band.Label, ErrInvalidSchedule)
		}

		normalized[i] = band
	}

	return &Schedule{contributionRate: contributionRate, bands: normalized}, nil
}

// DefaultSchedule はウガンダの月次 PAYE 税率表と 5% の社会保険料率を返します。
func DefaultSchedule() *Schedule {
	schedule, err := NewSchedule(DefaultContributionRate, DefaultBands())
	if err != nil {
		panic(fmt.Sprintf("paye: default schedule is invalid: %v", err))
	}
	return schedule
}

// DefaultBands は既定の月次税率表を返します。
func DefaultBands() []TaxBand {
	return []TaxBand{
		{Label: "0 - 235,000", Lower: 0, Upper: 235000, Rate: 0},
		{Label: "235,001 - 335,000", Lower: 235000, Upper: 335000, Rate: 0.10},
		{Label: "335,001 - 410,000", Lower: 335000, Upper: 410000, Rate: 0.20},
		{Label: "410,001 - 10,000,000", Lower: 410000, Upper: 10000000, Rate: 0.30},
		{Label: "Above 10,000,000", Lower: 10000000, Upper: math.Inf(1), Rate: 0.40},
	}
}

// ContributionRate は社会保険料率を返します。
func (s *Schedule) ContributionRate() float64 {
	return s.contributionRate
}

// Bands は税率表のコピーを返します。
func (s *Schedule) Bands() []TaxBand {
	out := make([]TaxBand, len(s.bands))
	copy(out, s.bands)
	return out
}

// Calculate は総支給額を検証したうえで CalculateProgressiveTax を適用します。
// 0 は計算対象なしとして全項目 0 の結果を返します。
func (s *Schedule) Calculate(grossSalary float64) (Result, error) {
	if math.IsNaN(grossSalary) || math.IsInf(grossSalary, 0) || grossSalary < 0 {
		return Result{}, ErrInvalidGrossSalary
	}
	return CalculateProgressiveTax(grossSalary, s.contributionRate, s.bands), nil
}
