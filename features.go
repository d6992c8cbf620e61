package agrizone

import (
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/wgdzlh/agrizone/log"
)

// preparedFeatures is the §4.2 Feature Preparer's output plus the bookkeeping
// later stages need: which columns were zero-variance, and (if PCA ran) how
// many components were retained.
type preparedFeatures struct {
	Matrix        *mat.Dense // (N, D), D <= D0
	ZeroVariance  []bool     // len D0, true where the raw column had zero std
	PCAComponents int        // 0 if PCA was not applied
}

// prepareFeatures implements §4.2: stack -> flatten to masked rows -> impute
// -> standardize -> optional PCA.
func prepareFeatures(indices *IndexStack, coords []pixelCoord, cfg Config) (*preparedFeatures, error) {
	n := len(coords)
	d0 := indices.Len()

	if n < 2 {
		return nil, newError(ErrKindDegenerateFeature, "fewer than 2 valid pixels for feature preparation")
	}

	raw := mat.NewDense(n, d0, nil)
	for j := 0; j < d0; j++ {
		band := indices.At(j).Values
		for i, p := range coords {
			raw.Set(i, j, band[p.R][p.C])
		}
	}

	zeroVar := make([]bool, d0)
	if err := imputeColumns(raw); err != nil {
		return nil, err
	}
	standardizeColumns(raw, zeroVar)

	allZero := true
	for _, z := range zeroVar {
		if !z {
			allZero = false
			break
		}
	}
	if allZero {
		return nil, newError(ErrKindDegenerateFeature, "every index column is zero-variance after standardization")
	}

	matrix := raw
	components := 0
	if cfg.UsePCA {
		reduced, k, err := reduceWithPCA(raw, cfg.PCAVariance)
		if err != nil {
			return nil, err
		}
		matrix = reduced
		components = k
	}

	log.Info("features: prepared feature matrix",
		zap.Int("n", n), zap.Int("d0", d0), zap.Int("d", matrix.RawMatrix().Cols),
		zap.Bool("pca", cfg.UsePCA))

	return &preparedFeatures{Matrix: matrix, ZeroVariance: zeroVar, PCAComponents: components}, nil
}

// imputeColumns replaces non-finite entries in each column with that
// column's median over its finite values, in place. A column with no
// finite values at all is a DegenerateFeature failure.
func imputeColumns(m *mat.Dense) error {
	n, d := m.Dims()
	col := make([]float64, 0, n)
	for j := 0; j < d; j++ {
		col = col[:0]
		for i := 0; i < n; i++ {
			v := m.At(i, j)
			if isFinite(v) {
				col = append(col, v)
			}
		}
		if len(col) == 0 {
			return newError(ErrKindDegenerateFeature, "index column is entirely non-finite")
		}
		med := median(col)
		for i := 0; i < n; i++ {
			if !isFinite(m.At(i, j)) {
				m.Set(i, j, med)
			}
		}
	}
	return nil
}

// median computes the median of a slice, sorting a private copy so the
// caller's backing slice is never reordered as a side effect.
func median(vals []float64) float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return (cp[mid-1] + cp[mid]) / 2
}

// standardizeColumns subtracts the column mean and divides by the column
// sample standard deviation, in place. Zero-variance columns are set to
// exactly zero rather than divided (which would yield NaN/Inf) and flagged
// in zeroVar.
func standardizeColumns(m *mat.Dense, zeroVar []bool) {
	n, d := m.Dims()
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			col[i] = m.At(i, j)
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std < 1e-12 {
			zeroVar[j] = true
			for i := 0; i < n; i++ {
				m.Set(i, j, 0)
			}
			continue
		}
		for i := 0; i < n; i++ {
			m.Set(i, j, (col[i]-mean)/std)
		}
	}
}

// reduceWithPCA projects the standardized matrix onto the smallest prefix
// of principal components whose cumulative explained-variance ratio is >=
// varianceTarget. The covariance matrix and its eigendecomposition are built
// with gonum/stat and gonum/mat, the same numeric stack used elsewhere in
// the corpus (cm68-traces) for matrix work.
func reduceWithPCA(standardized *mat.Dense, varianceTarget float64) (*mat.Dense, int, error) {
	n, d := standardized.Dims()

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, standardized, nil)

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return nil, 0, newError(ErrKindDegenerateFeature, "PCA eigendecomposition failed to converge")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	type eigpair struct {
		value float64
		col   int
	}
	pairs := make([]eigpair, d)
	total := 0.0
	for i, v := range values {
		if v < 0 {
			v = 0
		}
		pairs[i] = eigpair{value: v, col: i}
		total += v
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].value > pairs[j].value })

	if total <= 0 {
		return nil, 0, newError(ErrKindDegenerateFeature, "PCA found no explainable variance")
	}

	k := 0
	cum := 0.0
	for _, p := range pairs {
		k++
		cum += p.value / total
		if cum >= varianceTarget {
			break
		}
	}

	components := mat.NewDense(d, k, nil)
	for newCol, p := range pairs[:k] {
		for r := 0; r < d; r++ {
			components.Set(r, newCol, vectors.At(r, p.col))
		}
	}

	projected := mat.NewDense(n, k, nil)
	projected.Mul(standardized, components)

	log.Info("features: PCA reduced dimensions",
		zap.Int("d0", d), zap.Int("d", k), zap.Float64("cumulative_variance", cum))

	return projected, k, nil
}
