package adf

import (
	"goadf/domain/stationarity"

	"gonum.org/v1/gonum/mat"
)

// design builds the auxiliary regression for lag order k using the
// differences from index start onward (start >= k):
//
//	dy_t = a*y_{t-1} [+ c] [+ b*t] + g_1*dy_{t-1} + ... + g_k*dy_{t-k}
//
// Columns are ordered level, constant, trend, lagged differences. The
// trend runs 1..m over the rows of the design.
func design(p prepared, reg stationarity.Regression, k, start int) (*mat.Dense, *mat.VecDense) {
	m := len(p.diffs) - start
	cols := columnCount(reg, k)

	x := mat.NewDense(m, cols, nil)
	y := mat.NewVecDense(m, nil)
	for row := 0; row < m; row++ {
		i := start + row
		y.SetVec(row, p.diffs[i])

		col := 0
		x.Set(row, col, p.levels[i])
		col++
		if reg.HasConstant() {
			x.Set(row, col, 1)
			col++
		}
		if reg.HasTrend() {
			x.Set(row, col, float64(row+1))
			col++
		}
		for lag := 1; lag <= k; lag++ {
			x.Set(row, col, p.diffs[i-lag])
			col++
		}
	}
	return x, y
}
