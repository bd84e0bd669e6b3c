package engine

import (
	"fmt"
	"time"

	"InsiderSentinel/internal/config"
	"InsiderSentinel/internal/model"
)

// ContaminationResult is the options-activity annotation attached to a
// cluster alert. Contamination never removes the underlying tier; downstream
// consumers must surface the warning distinctly.
type ContaminationResult struct {
	Contaminated bool
	CallHeavy    bool
	MaxVolOI     float64
	MaxCallPut   float64
	Days         []time.Time // contaminating snapshot dates
	Note         string      // data-quality note when options data is absent
}

// CheckContamination scans options snapshots in a window around the
// cluster's activity for abnormal volume/open-interest ratios. A ratio at or
// above the threshold flags contamination; on contaminating days a call/put
// ratio at or above its threshold additionally flags call-heavy flow.
// Missing options data means contaminated=false — absence of evidence, not
// evidence of absence — and is reported as a note, not an error.
func CheckContamination(c *model.Cluster, snaps []model.OptionsSnapshot, th config.Thresholds) ContaminationResult {
	var res ContaminationResult

	if len(snaps) == 0 {
		res.Note = fmt.Sprintf("%s: no options data, contamination check skipped", c.Issuer)
		return res
	}

	from := c.WindowStart.AddDate(0, 0, -th.ContaminationWindowDays)
	to := c.WindowEnd.AddDate(0, 0, th.ContaminationWindowDays)

	inWindow := 0
	for _, snap := range snaps {
		if snap.Date.Before(from) || snap.Date.After(to) {
			continue
		}
		inWindow++

		ratio := snap.VolOIRatio()
		if ratio > res.MaxVolOI {
			res.MaxVolOI = ratio
		}
		if ratio < th.VolOIRatio {
			continue
		}

		res.Contaminated = true
		res.Days = append(res.Days, snap.Date)
		if cp := snap.CallPutRatio(); cp >= th.CallPutRatio {
			res.CallHeavy = true
			if cp > res.MaxCallPut {
				res.MaxCallPut = cp
			}
		}
	}

	if inWindow == 0 {
		res.Note = fmt.Sprintf("%s: no options data inside ±%dd window, contamination check skipped",
			c.Issuer, th.ContaminationWindowDays)
	}
	return res
}
