package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/polyfit/pkg/errors"
)

func TestLinspace(t *testing.T) {
	xs, err := Linspace(0, 1, 5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, xs, 1e-15)

	xs, err = Linspace(0, 2*math.Pi, 100)
	require.NoError(t, err)
	assert.Len(t, xs, 100)
	assert.Equal(t, 0.0, xs[0])
	assert.Equal(t, 2*math.Pi, xs[99])
}

func TestLinspaceSinglePoint(t *testing.T) {
	xs, err := Linspace(2, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, xs)
}

func TestLinspaceInvalid(t *testing.T) {
	_, err := Linspace(0, 1, 0)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr), "got %v", err)

	_, err = Linspace(math.NaN(), 1, 10)
	var vErr *errors.ValueError
	assert.True(t, errors.As(err, &vErr), "got %v", err)
}

func TestSine(t *testing.T) {
	ys := Sine([]float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2})
	assert.InDeltaSlice(t, []float64{0, 1, 0, -1}, ys, 1e-15)
	assert.Empty(t, Sine(nil))
}

func TestNoisySineDeterministic(t *testing.T) {
	a, err := NoisySine(NewRand(42), 10, 0.1)
	require.NoError(t, err)
	b, err := NoisySine(NewRand(42), 10, 0.1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 10, a.Len())

	c, err := NoisySine(NewRand(43), 10, 0.1)
	require.NoError(t, err)
	assert.NotEqual(t, a.T, c.T)
	assert.Equal(t, a.X, c.X)
}

func TestNoisySineSingleSample(t *testing.T) {
	s, err := NoisySine(NewRand(3), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, s.X)
	assert.InDeltaSlice(t, []float64{0}, s.T, 0)
}

func TestNoisySineZeroNoise(t *testing.T) {
	s, err := NoisySine(NewRand(1), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, Sine(s.X), s.T)
}

func TestNoiseStatistics(t *testing.T) {
	n := 20000
	ys := AddNoise(NewRand(7), make([]float64, n), 0.1)
	mean, std := stat.MeanStdDev(ys, nil)
	assert.InDelta(t, 0, mean, 0.005)
	assert.InDelta(t, 0.1, std, 0.005)
}

func TestNoisySineInvalid(t *testing.T) {
	_, err := NoisySine(NewRand(1), 10, -1)
	assert.Error(t, err)
	_, err = NoisySine(nil, 10, 0.1)
	assert.Error(t, err)
	_, err = NoisySine(NewRand(1), 10, math.Inf(1))
	assert.Error(t, err)
	_, err = NoisySine(NewRand(1), 0, 0.1)
	assert.Error(t, err)
}
