package testkit

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"statlab/domain/meta"
)

// Generator produces reproducible synthetic samples and study sets. The
// same seed always yields the same draws.
type Generator struct {
	rng    *rand.Rand
	normal distuv.Normal
}

// NewGenerator creates a generator seeded with seed
func NewGenerator(seed uint64) *Generator {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Generator{
		rng:    rand.New(src),
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// Normal draws n values from N(mu, sigma²)
func (g *Generator) Normal(n int, mu, sigma float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mu + sigma*g.normal.Rand()
	}
	return out
}

// ContaminationConfig configures a normal sample with planted outliers
type ContaminationConfig struct {
	N     int     `json:"n"`
	Mean  float64 `json:"mean"`
	SD    float64 `json:"sd"`
	Rate  float64 `json:"rate"`  // share of positions replaced by outliers
	Shift float64 `json:"shift"` // outliers sit Shift·SD away from Mean
}

// DefaultContaminationConfig returns a 100-point N(50, 10²) sample with 5%
// of points moved eight SDs out
func DefaultContaminationConfig() ContaminationConfig {
	return ContaminationConfig{N: 100, Mean: 50, SD: 10, Rate: 0.05, Shift: 8}
}

// Contaminated returns the sample and the sorted positions of the planted
// outliers. Outliers alternate sides of the mean.
func (g *Generator) Contaminated(cfg ContaminationConfig) ([]float64, []int) {
	x := g.Normal(cfg.N, cfg.Mean, cfg.SD)
	k := int(math.Round(cfg.Rate * float64(cfg.N)))
	if k > cfg.N {
		k = cfg.N
	}
	if k <= 0 {
		return x, []int{}
	}

	positions := g.rng.Perm(cfg.N)[:k]
	planted := make([]bool, cfg.N)
	for j, p := range positions {
		side := 1.0
		if j%2 == 1 {
			side = -1
		}
		x[p] = cfg.Mean + side*cfg.Shift*cfg.SD
		planted[p] = true
	}
	idx := make([]int, 0, k)
	for i, ok := range planted {
		if ok {
			idx = append(idx, i)
		}
	}
	return x, idx
}

// Bernoulli draws n 0/1 indicators with success probability p
func (g *Generator) Bernoulli(n int, p float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		if g.rng.Float64() < p {
			out[i] = 1
		}
	}
	return out
}

// StudyConfig configures a synthetic meta-analysis
type StudyConfig struct {
	K          int     `json:"k"`
	TrueEffect float64 `json:"true_effect"`
	Tau        float64 `json:"tau"` // between-study SD of true effects
	MinSE      float64 `json:"min_se"`
	MaxSE      float64 `json:"max_se"`
}

// DefaultStudyConfig returns ten homogeneous studies around 0.3
func DefaultStudyConfig() StudyConfig {
	return StudyConfig{K: 10, TrueEffect: 0.3, Tau: 0, MinSE: 0.08, MaxSE: 0.25}
}

// Studies draws K studies: each has a true effect from N(TrueEffect, Tau²)
// and an observed effect from N(true, SE²) with SE uniform on [MinSE, MaxSE].
func (g *Generator) Studies(cfg StudyConfig) []meta.StudySummary {
	out := make([]meta.StudySummary, cfg.K)
	for i := range out {
		se := cfg.MinSE + (cfg.MaxSE-cfg.MinSE)*g.rng.Float64()
		theta := cfg.TrueEffect + cfg.Tau*g.normal.Rand()
		n := int(math.Round(4 / (se * se)))
		out[i] = meta.StudySummary{
			Label:         fmt.Sprintf("study_%02d", i+1),
			Effect:        theta + se*g.normal.Rand(),
			StandardError: se,
			N1:            n / 2,
			N2:            n - n/2,
			Quality:       1 + g.rng.IntN(10),
		}
	}
	return out
}
