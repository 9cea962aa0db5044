package paye

import "math"

// TaxBand は限界税率の 1 区分です。Lower を含み Upper を含みません。
// 最上位の区分は Upper が +Inf になります。
type TaxBand struct {
	Label string
	Lower float64
	Upper float64
	Rate  float64
}

// Unbounded は上限のない区分かどうかを返します。
func (b TaxBand) Unbounded() bool {
	return math.IsInf(b.Upper, 1)
}

// BandTax は 1 区分に割り当てられた課税所得と税額です。
type BandTax struct {
	Label         string
	TaxableAmount float64
	Rate          float64
	Tax           float64
}

// Result は PAYE 計算の結果です。計算ごとに新しく生成され、変更されません。
type Result struct {
	GrossSalary   float64
	Contribution  float64
	TaxableIncome float64
	Bands         []BandTax
	TotalTax      float64
	NetPay        float64
}
