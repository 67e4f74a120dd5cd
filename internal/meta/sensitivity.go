package meta

import (
	"math"

	dmeta "statlab/domain/meta"
)

// RobustThreshold is the largest leave-one-out percent change, exclusive,
// that still counts as robust
const RobustThreshold = 10.0

// LeaveOneOut re-pools the usable studies k times under model, omitting one
// each time. Omitted indexes the usable studies in input order. When the
// full estimate is 0 any nonzero change is reported as +Inf percent.
func LeaveOneOut(studies []dmeta.StudySummary, model dmeta.Model) (dmeta.SensitivityResult, error) {
	kept, err := prepare(studies)
	if err != nil {
		return dmeta.SensitivityResult{}, err
	}
	full, err := estimateFor(model, kept)
	if err != nil {
		return dmeta.SensitivityResult{}, err
	}

	res := dmeta.SensitivityResult{
		Entries:         make([]dmeta.LeaveOneOutEntry, 0, len(kept)),
		MostInfluential: -1,
	}
	subset := make([]dmeta.StudySummary, 0, len(kept)-1)
	for i := range kept {
		subset = append(subset[:0], kept[:i]...)
		subset = append(subset, kept[i+1:]...)
		est, err := estimateFor(model, subset)
		if err != nil {
			return dmeta.SensitivityResult{}, err
		}
		change := percentChange(full, est)
		res.Entries = append(res.Entries, dmeta.LeaveOneOutEntry{
			Omitted:       i,
			Label:         kept[i].Label,
			Estimate:      est,
			PercentChange: change,
		})
		if res.MostInfluential < 0 || change > res.MaxPercentChange {
			res.MaxPercentChange = change
			res.MostInfluential = i
		}
	}
	res.Robust = res.MaxPercentChange < RobustThreshold
	return res, nil
}

func percentChange(full, est float64) float64 {
	d := math.Abs(est - full)
	if d == 0 {
		return 0
	}
	if full == 0 {
		return math.Inf(1)
	}
	return d / math.Abs(full) * 100
}
