// Command polyfit は正弦波のノイズ付きサンプルに複数次数の多項式を
// 正規方程式でフィットし、結果を図として書き出すデモです。
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/polyfit/core/model"
	"github.com/YuminosukeSato/polyfit/dataset"
	"github.com/YuminosukeSato/polyfit/metrics"
	"github.com/YuminosukeSato/polyfit/pkg/errors"
	"github.com/YuminosukeSato/polyfit/pkg/log"
	"github.com/YuminosukeSato/polyfit/polynomial"
	"github.com/YuminosukeSato/polyfit/render"
)

// Config はデモの設定
type Config struct {
	Samples    int
	GridPoints int
	Degrees    []int
	Noise      float64
	Seed       uint64 // 0なら時刻から決める
	Output     string
	Format     string // 空なら拡張子から推定
	Weights    string // 空でなければ係数をJSONで書き出す
	LogLevel   string
	Width      float64 // inch
	Height     float64 // inch
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Samples:    10,
		GridPoints: 100,
		Degrees:    []int{1, 4, 9},
		Noise:      0.1,
		Output:     "polyfit.png",
		LogLevel:   "info",
		Width:      6,
		Height:     4,
	}
}

// Validate は設定値を検証する
func (c Config) Validate() error {
	if c.Samples < 1 {
		return errors.NewValidationError("samples", "must be positive", c.Samples)
	}
	if c.GridPoints < 2 {
		return errors.NewValidationError("grid", "at least two points are required", c.GridPoints)
	}
	if len(c.Degrees) == 0 {
		return errors.NewValidationError("degrees", "at least one degree is required", c.Degrees)
	}
	for _, m := range c.Degrees {
		if m < 0 {
			return errors.NewValidationError("degrees", "must be non-negative", m)
		}
	}
	if c.Noise < 0 || math.IsNaN(c.Noise) || math.IsInf(c.Noise, 0) {
		return errors.NewValidationError("noise", "must be finite and non-negative", c.Noise)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.NewValidationError("size", "width and height must be positive", [2]float64{c.Width, c.Height})
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log-level", "expected debug, info, warn or error", c.LogLevel)
	}
	format := c.Format
	if format == "" {
		format = render.FormatFromPath(c.Output)
	}
	switch format {
	case "png", "svg", "pdf":
	default:
		return errors.NewValidationError("format", "expected png, svg or pdf", format)
	}
	return nil
}

// parseDegrees は "1,4,9" 形式の次数リストを解釈する
func parseDegrees(s string) ([]int, error) {
	var degrees []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		m, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.NewValidationError("degrees", "not an integer", field)
		}
		degrees = append(degrees, m)
	}
	return degrees, nil
}

func parseFlags(args []string, stderr io.Writer) (Config, error) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("polyfit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	degrees := fs.String("degrees", "1,4,9", "comma separated polynomial degrees")
	fs.IntVar(&cfg.Samples, "samples", cfg.Samples, "number of noisy samples on [0, 2π]")
	fs.IntVar(&cfg.GridPoints, "grid", cfg.GridPoints, "number of evaluation grid points")
	fs.Float64Var(&cfg.Noise, "noise", cfg.Noise, "standard deviation of the Gaussian noise")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = time based)")
	fs.StringVar(&cfg.Output, "out", cfg.Output, "output figure path")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: png, svg or pdf (default from -out extension)")
	fs.StringVar(&cfg.Weights, "weights", cfg.Weights, "write fitted coefficients as JSON to this path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.Float64Var(&cfg.Width, "width", cfg.Width, "figure width in inches")
	fs.Float64Var(&cfg.Height, "height", cfg.Height, "figure height in inches")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	ds, err := parseDegrees(*degrees)
	if err != nil {
		return Config{}, err
	}
	cfg.Degrees = ds
	cfg.Format = strings.ToLower(cfg.Format)
	return cfg, cfg.Validate()
}

// FitSummary は1つの次数についての結果
type FitSummary struct {
	Degree       int
	Coefficients polynomial.Polynomial
	RMSE         float64 // サンプル上の残差
	MaxError     float64 // グリッド上の sin(x) との最大偏差
	Weights      *model.ModelWeights
	Err          error
}

// Report は1回の実行結果
type Report struct {
	Seed    uint64
	Samples dataset.Samples
	Grid    []float64
	Truth   []float64
	Fits    []FitSummary
}

// Run はサンプル生成、各次数のフィット、評価を行う。
// フィットに失敗した次数はログに残してスキップする。
func Run(cfg Config, logger *slog.Logger) (*Report, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Info("generating samples",
		slog.Int(log.SamplesKey, cfg.Samples),
		slog.Int(log.GridPointsKey, cfg.GridPoints),
		slog.Float64(log.NoiseKey, cfg.Noise),
		slog.Uint64(log.RandomSeedKey, seed),
	)

	samples, err := dataset.NoisySine(dataset.NewRand(seed), cfg.Samples, cfg.Noise)
	if err != nil {
		return nil, err
	}
	grid, err := dataset.Linspace(0, 2*math.Pi, cfg.GridPoints)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Seed:    seed,
		Samples: samples,
		Grid:    grid,
		Truth:   dataset.Sine(grid),
	}

	X := mat.NewDense(samples.Len(), 1, samples.X)
	y := mat.NewDense(samples.Len(), 1, samples.T)
	Xgrid := mat.NewDense(len(grid), 1, grid)
	truth := mat.NewVecDense(len(grid), report.Truth)
	observed := mat.NewVecDense(samples.Len(), samples.T)

	for _, m := range cfg.Degrees {
		summary := fitDegree(m, X, y, Xgrid, observed, truth, logger)
		if summary.Err == nil {
			logger.Info("degree fitted",
				slog.Int(log.DegreeKey, m),
				slog.Any(log.CoefficientsKey, []float64(summary.Coefficients)),
				slog.Float64(log.RMSEKey, summary.RMSE),
				slog.Float64(log.MaxErrorKey, summary.MaxError),
			)
		}
		report.Fits = append(report.Fits, summary)
	}
	return report, nil
}

// fitDegree は次数 m でフィットし評価する。
// Fit の失敗は Regression 側でログされるので、ここでは評価段階の失敗だけを記録する。
func fitDegree(m int, X, y, Xgrid *mat.Dense, observed, truth *mat.VecDense, logger *slog.Logger) FitSummary {
	summary := FitSummary{Degree: m}
	fail := func(err error) FitSummary {
		logger.Error("evaluation failed", slog.Int(log.DegreeKey, m), log.ErrAttr(err))
		summary.Err = err
		return summary
	}

	reg := polynomial.NewRegression(polynomial.WithDegree(m), polynomial.WithLogger(log.NewSlogLogger(logger)))
	if err := reg.Fit(X, y); err != nil {
		summary.Err = err
		return summary
	}
	summary.Coefficients = reg.Coefficients()

	onSamples, err := reg.Predict(X)
	if err != nil {
		return fail(err)
	}
	if summary.RMSE, err = metrics.RMSE(observed, mat.NewVecDense(observed.Len(), mat.Col(nil, 0, onSamples))); err != nil {
		return fail(err)
	}

	onGrid, err := reg.Predict(Xgrid)
	if err != nil {
		return fail(err)
	}
	if summary.MaxError, err = metrics.MaxError(truth, mat.NewVecDense(truth.Len(), mat.Col(nil, 0, onGrid))); err != nil {
		return fail(err)
	}

	if summary.Weights, err = reg.ExportWeights(); err != nil {
		return fail(err)
	}
	return summary
}

// Figure はレポートから描画内容を組み立てる。失敗した次数は含めない。
func (r *Report) Figure() *render.Figure {
	fig := &render.Figure{
		Title:   fmt.Sprintf("least squares fit, N=%d", r.Samples.Len()),
		Grid:    r.Grid,
		Truth:   render.Curve{Label: "sin(x)", Y: r.Truth},
		SampleX: r.Samples.X,
		SampleT: r.Samples.T,
	}
	for _, fit := range r.Fits {
		if fit.Err != nil {
			continue
		}
		fig.Fits = append(fig.Fits, render.Curve{
			Label: fmt.Sprintf("M=%d", fit.Degree),
			Y:     polynomial.EvalAll(fit.Coefficients, r.Grid),
		})
	}
	return fig
}

// WriteWeights は成功した次数の係数をJSON配列として書き出す
func (r *Report) WriteWeights(w io.Writer) error {
	var weights []*model.ModelWeights
	for _, fit := range r.Fits {
		if fit.Err == nil && fit.Weights != nil {
			weights = append(weights, fit.Weights)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(weights); err != nil {
		return errors.Wrap(err, "failed to encode weights")
	}
	return nil
}

func writeOutputs(cfg Config, report *Report, logger *slog.Logger) error {
	fig := report.Figure()
	width, height := vg.Length(cfg.Width)*vg.Inch, vg.Length(cfg.Height)*vg.Inch

	if cfg.Format == "" {
		if err := fig.Save(cfg.Output, width, height); err != nil {
			return err
		}
	} else {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", cfg.Output)
		}
		if _, err := fig.WriteTo(f, cfg.Format, width, height); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return errors.Wrapf(err, "failed to close %s", cfg.Output)
		}
	}
	logger.Info("figure written",
		slog.String(log.OperationKey, log.OperationRender),
		slog.String(log.OutputKey, cfg.Output),
		slog.Int("fits", len(fig.Fits)),
	)

	if cfg.Weights == "" {
		return nil
	}
	f, err := os.Create(cfg.Weights)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", cfg.Weights)
	}
	defer f.Close()
	if err := report.WriteWeights(f); err != nil {
		return err
	}
	logger.Info("weights written", slog.String(log.OutputKey, cfg.Weights))
	return nil
}

func run(args []string, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if err := log.SetupLogger(cfg.LogLevel); err != nil {
		return err
	}
	log.RouteWarningsToZerolog(stderr)
	logger := slog.Default().With(slog.String(log.ComponentKey, "cmd/polyfit"))

	report, err := Run(cfg, logger)
	if err != nil {
		return err
	}
	return writeOutputs(cfg, report, logger)
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("polyfit failed", log.ErrAttr(err))
		os.Exit(1)
	}
}
