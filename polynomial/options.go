package polynomial

import "github.com/YuminosukeSato/polyfit/pkg/log"

// Option はRegressionの設定を行う関数型
type Option func(*Regression)

// WithDegree は多項式の次数mを設定する（デフォルト: 1）
func WithDegree(m int) Option {
	return func(r *Regression) {
		r.PolyDegree = m
	}
}

// WithConditionWarning はIllConditionedWarningを出すGram行列の条件数の閾値を設定する
func WithConditionWarning(threshold float64) Option {
	return func(r *Regression) {
		r.conditionWarning = threshold
	}
}

// WithLogger は学習・予測のログ出力先を設定する
func WithLogger(l log.Logger) Option {
	return func(r *Regression) {
		r.logger = l
	}
}
