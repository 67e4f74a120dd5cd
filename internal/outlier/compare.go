package outlier

import (
	"fmt"
	"sort"

	"statlab/domain/estimation"
)

// Thresholds holds one threshold per rule. Zero values mean the defaults.
type Thresholds struct {
	IQRMultiplier float64 `json:"iqr_multiplier"`
	MAD           float64 `json:"mad"`
	ModifiedZ     float64 `json:"modified_z"`
	ZScore        float64 `json:"zscore"`
}

// DefaultThresholds returns 1.5 / 3 / 3.5 / 3
func DefaultThresholds() Thresholds {
	return Thresholds{
		IQRMultiplier: DefaultIQRMultiplier,
		MAD:           DefaultMADThreshold,
		ModifiedZ:     DefaultModifiedZCutoff,
		ZScore:        DefaultZScoreThreshold,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.IQRMultiplier == 0 {
		t.IQRMultiplier = d.IQRMultiplier
	}
	if t.MAD == 0 {
		t.MAD = d.MAD
	}
	if t.ModifiedZ == 0 {
		t.ModifiedZ = d.ModifiedZ
	}
	if t.ZScore == 0 {
		t.ZScore = d.ZScore
	}
	return t
}

// Comparison is the four rules applied to the same sample
type Comparison struct {
	N         int                        `json:"n"`
	IQR       estimation.OutlierReport   `json:"iqr"`
	MAD       estimation.OutlierReport   `json:"mad"`
	ModifiedZ estimation.OutlierReport   `json:"modified_z"`
	ZScore    estimation.OutlierReport   `json:"zscore"`
	Votes     map[int]int                `json:"votes"`     // index -> number of rules flagging it
	Consensus []int                      `json:"consensus"` // flagged by a majority (>= 3 of 4)
	Union     []int                      `json:"union"`
	Reports   []estimation.OutlierReport `json:"-"`
}

// Compare runs all four rules on x. The rules share no state.
func Compare(x []float64, thresholds Thresholds) (*Comparison, error) {
	thresholds = thresholds.withDefaults()
	c := &Comparison{N: len(x), Votes: map[int]int{}}

	var err error
	if c.IQR, err = IQR(x, thresholds.IQRMultiplier); err != nil {
		return nil, fmt.Errorf("iqr: %w", err)
	}
	if c.MAD, err = MAD(x, thresholds.MAD); err != nil {
		return nil, fmt.Errorf("mad: %w", err)
	}
	if c.ModifiedZ, err = ModifiedZ(x, thresholds.ModifiedZ); err != nil {
		return nil, fmt.Errorf("modified z: %w", err)
	}
	if c.ZScore, err = ZScore(x, thresholds.ZScore); err != nil {
		return nil, fmt.Errorf("zscore: %w", err)
	}
	c.Reports = []estimation.OutlierReport{c.IQR, c.MAD, c.ModifiedZ, c.ZScore}

	for _, r := range c.Reports {
		for _, idx := range r.Indices {
			c.Votes[idx]++
		}
	}
	c.Union = []int{}
	c.Consensus = []int{}
	for idx, votes := range c.Votes {
		c.Union = append(c.Union, idx)
		if votes >= 3 {
			c.Consensus = append(c.Consensus, idx)
		}
	}
	sort.Ints(c.Union)
	sort.Ints(c.Consensus)
	return c, nil
}
