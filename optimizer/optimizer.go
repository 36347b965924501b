// Package optimizer ranks candidate configurations against a data series by
// repeated noisy evaluation of a smoothness score.
package optimizer

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrMissingOption = errors.New("configuration is missing a required option")
	ErrTrials        = errors.New("trials must be at least 1")
	ErrTooFewPoints  = errors.New("need at least 2 data points")
)

const (
	// SpeedOption is the only option the fitness function reads
	SpeedOption = "speed"

	speedScale   = 40.0
	fitnessFloor = 1e-6
	noiseSigma   = 0.02
	noiseSeed    = 12345
	stddevWeight = 0.5

	DefaultTrials = 5
	DefaultTopK   = 3
)

// Config is a set of named numeric options for one candidate
type Config map[string]float64

// Result is a scored candidate
type Result struct {
	Score  float64
	Config Config
}

type Options struct {
	Trials int // evaluations per candidate, DefaultTrials when zero
	TopK   int // results kept, DefaultTopK when zero
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Trials == 0 {
		o.Trials = DefaultTrials
	}
	if o.TopK == 0 {
		o.TopK = DefaultTopK
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Fitness inverts the roughness of data, the sum of squared successive
// differences scaled by speed/40. Smoother series score higher.
func Fitness(data []float64, cfg Config) (float64, error) {
	speed, ok := cfg[SpeedOption]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingOption, SpeedOption)
	}
	factor := speed / speedScale
	var sumSq float64
	for i := 1; i < len(data); i++ {
		d := factor * (data[i] - data[i-1])
		sumSq += d * d
	}
	return 1 / (sumSq + fitnessFloor), nil
}

// EvaluateCandidate scores cfg over trials noisy evaluations and returns the
// mean penalised by half the population standard deviation. The noise
// source is seeded identically on every call so scores are reproducible.
func EvaluateCandidate(data []float64, cfg Config, trials int) (float64, error) {
	if trials < 1 {
		return 0, fmt.Errorf("%w, got %d", ErrTrials, trials)
	}
	base, err := Fitness(data, cfg)
	if err != nil {
		return 0, err
	}
	rng := rand.New(rand.NewPCG(noiseSeed, 0))
	scores := make([]float64, trials)
	for t := range scores {
		scores[t] = base + noiseSigma*rng.NormFloat64()
	}
	mean, std := stat.PopMeanStdDev(scores, nil)
	return mean - stddevWeight*std, nil
}

// Optimize scores every config and returns the best TopK, highest score
// first. Equal scores keep their input order.
func Optimize(configs []Config, data []float64, opts Options) ([]Result, error) {
	opts = opts.withDefaults()
	if len(data) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewPoints, len(data))
	}
	if opts.TopK < 0 {
		return nil, fmt.Errorf("top k must not be negative, got %d", opts.TopK)
	}
	scored := make([]Result, len(configs))
	for i, cfg := range configs {
		score, err := EvaluateCandidate(data, cfg, opts.Trials)
		if err != nil {
			return nil, fmt.Errorf("config %d: %w", i, err)
		}
		opts.Logger.Debug("candidate scored", "index", i, "config", cfg, "score", score)
		scored[i] = Result{Score: score, Config: cfg}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > opts.TopK {
		scored = scored[:opts.TopK]
	}
	return scored, nil
}
