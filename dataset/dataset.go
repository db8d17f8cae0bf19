// Package dataset はデモ用のサンプル生成（等間隔グリッド、正弦波、ガウスノイズ）を提供します。
package dataset

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/polyfit/pkg/errors"
)

// Samples は観測点 (X[i], T[i]) の組
type Samples struct {
	X []float64
	T []float64
}

// Len はサンプル数を返す
func (s Samples) Len() int { return len(s.X) }

// Linspace は [lo, hi] を n 点で等間隔に分割したグリッドを返す。両端を含む。
// n == 1 のときは [lo] を返す。
func Linspace(lo, hi float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, errors.NewValidationError("n", "at least one point is required", n)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, errors.NewValueError("dataset.Linspace", "interval bounds must be finite")
	}
	if n == 1 {
		return []float64{lo}, nil
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// Sine は各点での sin(x) を返す
func Sine(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = math.Sin(x)
	}
	return out
}

// NewRand は seed から決定的な乱数生成器を作る
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// AddNoise は ys の各値に N(0, sigma²) のノイズを加えた新しいスライスを返す
func AddNoise(rng *rand.Rand, ys []float64, sigma float64) []float64 {
	noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: rng}
	out := make([]float64, len(ys))
	for i, y := range ys {
		out[i] = y + noise.Rand()
	}
	return out
}

// NoisySine は [0, 2π] の n 点で sin(x) にガウスノイズを加えたサンプルを生成する
func NoisySine(rng *rand.Rand, n int, sigma float64) (Samples, error) {
	if sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return Samples{}, errors.NewValidationError("sigma", "must be finite and non-negative", sigma)
	}
	if rng == nil {
		return Samples{}, errors.NewValueError("dataset.NoisySine", "nil random source")
	}
	x, err := Linspace(0, 2*math.Pi, n)
	if err != nil {
		return Samples{}, err
	}
	return Samples{X: x, T: AddNoise(rng, Sine(x), sigma)}, nil
}
