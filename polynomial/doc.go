// Package polynomial は最小二乗法による多項式フィッティングを提供します。
//
// 正規方程式 A w = b を部分ピボット付きLU分解で解きます。
//
//	A[k][i] = Σ_n x_n^(i+k)    （Gram行列、対称）
//	b[k]    = Σ_n t_n · x_n^k
//
// 係数 w は定数項から x^m の項の順に並びます。
//
//	p(x) = w[0] + w[1]·x + ... + w[m]·x^m
//
// Fit には m+1 個以上の異なるxが必要です。足りない場合Aは構造的に特異になり、
// errors.ErrSingularMatrix を包んだエラーを返します。
// 次数が高くxの範囲が広いとAは悪条件になります。その場合も解は返しますが、
// errors.Warn 経由で errors.IllConditionedWarning を通知します。
//
// Regression は同じ処理を Fit/Predict/Score を持つ推定器の形で包みます。
package polynomial
