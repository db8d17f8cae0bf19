package polynomial

import (
	"strconv"
	"strings"
)

// Polynomial は定数項から順に並べた係数ベクトル。p[j] が x^j の係数。
type Polynomial []float64

// At はホーナー法で p(x) を評価する。空の多項式は0。
func (p Polynomial) At(x float64) float64 {
	var y float64
	for j := len(p) - 1; j >= 0; j-- {
		y = y*x + p[j]
	}
	return y
}

// Degree は len(p)-1 を返す（空なら-1）
func (p Polynomial) Degree() int {
	return len(p) - 1
}

// String は "w0 + w1·x + w2·x^2 ..." の形で表示する。係数0の項は省く。
func (p Polynomial) String() string {
	var sb strings.Builder
	for j, c := range p {
		if c == 0 && len(p) > 1 {
			continue
		}
		if sb.Len() > 0 {
			if c < 0 {
				sb.WriteString(" - ")
				c = -c
			} else {
				sb.WriteString(" + ")
			}
		}
		sb.WriteString(strconv.FormatFloat(c, 'g', 6, 64))
		switch j {
		case 0:
		case 1:
			sb.WriteString("·x")
		default:
			sb.WriteString("·x^")
			sb.WriteString(strconv.Itoa(j))
		}
	}
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}

// Eval は p(x) = Σ w[j]·x^j を評価する
func Eval(w []float64, x float64) float64 {
	return Polynomial(w).At(x)
}

// EvalAll はxsの各点でpを評価する
func EvalAll(w []float64, xs []float64) []float64 {
	p := Polynomial(w)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = p.At(x)
	}
	return ys
}
