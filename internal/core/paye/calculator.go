package paye

import "math"

// CalculateProgressiveTax は総支給額から社会保険料を控除し、残りに累進税率表を適用します。
// 入力の検証は行いません。bands は NewSchedule の条件を満たしている必要があります。
func CalculateProgressiveTax(grossSalary, contributionRate float64, bands []TaxBand) Result {
	contribution := grossSalary * contributionRate
	taxableIncome := grossSalary - contribution

	breakdown := make([]BandTax, 0, len(bands))
	remaining := taxableIncome
	totalTax := 0.0

	for _, band := range bands {
		width := remaining
		if !band.Unbounded() {
			width = band.Upper - band.Lower
		}

		taxableInBand := math.Min(remaining, width)
		if taxableInBand <= 0 {
			break
		}

		tax := taxableInBand * band.Rate
		breakdown = append(breakdown, BandTax{
			Label:         band.Label,
			TaxableAmount: taxableInBand,
			Rate:          band.Rate,
			Tax:           tax,
		})
		totalTax += tax

		remaining -= taxableInBand
		if remaining <= 0 {
			break
		}
	}

	return Result{
		GrossSalary:   grossSalary,
		Contribution:  contribution,
		TaxableIncome: taxableIncome,
		Bands:         breakdown,
		TotalTax:      totalTax,
		NetPay:        grossSalary - contribution - totalTax,
	}
}
