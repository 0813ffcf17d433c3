// Package forecast fits polynomial regressions over monthly spend and
// projects future periods.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInsufficientData means fewer than degree+1 periods were observed.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidDegree means the requested degree is below 1.
	ErrInvalidDegree = errors.New("invalid degree")
)

// Point is one observed (period index, total spend) pair.
type Point struct {
	Period float64
	Total  float64
}

// Model is a fitted polynomial in the normalised period
// t = (period - shift) / scale.
type Model struct {
	degree   int
	coef     []float64 // coef[i] multiplies t^i
	shift    float64
	scale    float64
	constant bool
}

// Fit performs a least-squares polynomial fit of the given degree.
// Degree 1 is ordinary linear regression. Degenerate inputs yield a
// constant model at the mean total instead of an error.
func Fit(points []Point, degree int) (*Model, error) {
	if degree < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDegree, degree)
	}
	if len(points) < degree+1 {
		return nil, fmt.Errorf("%w: degree %d needs %d periods, have %d",
			ErrInsufficientData, degree, degree+1, len(points))
	}

	mean := meanTotal(points)
	if allTotalsEqual(points) || distinctPeriods(points) < degree+1 {
		return constantModel(degree, mean), nil
	}

	shift, scale := normalisation(points)
	if scale == 0 {
		return constantModel(degree, mean), nil
	}

	n, cols := len(points), degree+1
	design := mat.NewDense(n, cols, nil)
	totals := mat.NewVecDense(n, nil)
	for i, p := range points {
		t := (p.Period - shift) / scale
		v := 1.0
		for j := 0; j < cols; j++ {
			design.Set(i, j, v)
			v *= t
		}
		totals.SetVec(i, p.Total)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(design, totals); err != nil {
		// Singular or ill-conditioned design.
		return constantModel(degree, mean), nil
	}

	coef := make([]float64, cols)
	for j := range coef {
		c := sol.AtVec(j)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return constantModel(degree, mean), nil
		}
		coef[j] = c
	}

	return &Model{degree: degree, coef: coef, shift: shift, scale: scale}, nil
}

// Predict evaluates the fitted polynomial at period. Extrapolation is allowed.
func (m *Model) Predict(period float64) float64 {
	if m.constant {
		return m.coef[0]
	}
	t := (period - m.shift) / m.scale
	y := 0.0
	for i := len(m.coef) - 1; i >= 0; i-- {
		y = y*t + m.coef[i]
	}
	return y
}

// Degree returns the requested polynomial degree.
func (m *Model) Degree() int { return m.degree }

// Constant reports whether the fit fell back to a constant model.
func (m *Model) Constant() bool { return m.constant }

// Coefficients returns a copy of the coefficients in the normalised period.
func (m *Model) Coefficients() []float64 {
	out := make([]float64, len(m.coef))
	copy(out, m.coef)
	return out
}

// RSquared returns the coefficient of determination of m over points.
// Returns 1 when the totals have no variance and the model matches them.
func (m *Model) RSquared(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	mean := meanTotal(points)
	var ssRes, ssTot float64
	for _, p := range points {
		r := p.Total - m.Predict(p.Period)
		d := p.Total - mean
		ssRes += r * r
		ssTot += d * d
	}
	if ssTot == 0 {
		if ssRes < 1e-9 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// Project predicts horizon periods following last.
func Project(m *Model, last float64, horizon int) []Point {
	if horizon <= 0 {
		return nil
	}
	out := make([]Point, horizon)
	for i := range out {
		p := last + float64(i+1)
		out[i] = Point{Period: p, Total: m.Predict(p)}
	}
	return out
}

func constantModel(degree int, mean float64) *Model {
	return &Model{degree: degree, coef: []float64{mean}, scale: 1, constant: true}
}

func meanTotal(points []Point) float64 {
	sum := 0.0
	for _, p := range points {
		sum += p.Total
	}
	return sum / float64(len(points))
}

func allTotalsEqual(points []Point) bool {
	for _, p := range points[1:] {
		if p.Total != points[0].Total {
			return false
		}
	}
	return true
}

func distinctPeriods(points []Point) int {
	seen := make(map[float64]struct{}, len(points))
	for _, p := range points {
		seen[p.Period] = struct{}{}
	}
	return len(seen)
}

// normalisation centres periods on their mean and scales by the largest
// deviation so the design matrix stays well conditioned.
func normalisation(points []Point) (shift, scale float64) {
	for _, p := range points {
		shift += p.Period
	}
	shift /= float64(len(points))
	for _, p := range points {
		if d := math.Abs(p.Period - shift); d > scale {
			scale = d
		}
	}
	return shift, scale
}
