package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cohortly-org/cohortly/cohort"
)

// ============================================================================
// CHURN REPORT — Flags cohorts by month-0 → month-2 retention drop
// ============================================================================
// Drop is measured in percentage points. A cohort whose window does not yet
// reach offset 2 is flagged NewCohort rather than scored — missing data is
// not churn.
// ============================================================================

// RiskLevel classifies a cohort's churn risk.
type RiskLevel string

const (
	RiskNew      RiskLevel = "New Cohort"
	RiskHigh     RiskLevel = "High Risk"
	RiskModerate RiskLevel = "Moderate Risk"
	RiskStable   RiskLevel = "Stable"
)

// Drop thresholds in percentage points from month 0 to month 2.
const (
	highRiskDrop     = 70.0
	moderateRiskDrop = 40.0
)

// Alert returns the action line shown next to the risk level.
func (r RiskLevel) Alert() string {
	switch r {
	case RiskHigh:
		return "⚠️ Immediate Action Needed"
	case RiskModerate:
		return "🔍 Investigate Cohort"
	case RiskNew:
		return "⏳ Too Early to Tell"
	default:
		return "✅ Healthy Retention"
	}
}

// ChurnRow is one cohort's entry in the churn risk report.
type ChurnRow struct {
	Cohort     cohort.Month `json:"cohort"`
	Size       int          `json:"size"`
	Month0Rate float64      `json:"month0Rate"`
	Month2Rate float64      `json:"month2Rate"`
	DropPct    float64      `json:"dropPct"` // percentage points, month 0 → month 2
	Risk       RiskLevel    `json:"risk"`
	Alert      string       `json:"alert"`
}

// ChurnReport is the full churn risk report, sorted newest cohort first.
type ChurnReport struct {
	RunID       string     `json:"runId"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Rows        []ChurnRow `json:"rows"`
}

// BuildChurnReport scores every cohort in the matrix.
func BuildChurnReport(matrix cohort.Matrix, now time.Time) ChurnReport {
	rep := ChurnReport{
		RunID:       uuid.New().String(),
		GeneratedAt: now,
	}

	for _, row := range matrix.Cohorts {
		cr := ChurnRow{
			Cohort: row.Cohort,
			Size:   row.Size,
		}
		if len(row.Rates) > 0 {
			cr.Month0Rate = row.Rates[0]
		}

		if !matrix.Observable(row.Cohort, 2) {
			cr.Risk = RiskNew
		} else {
			if len(row.Rates) > 2 {
				cr.Month2Rate = row.Rates[2]
			}
			// Rounded so threshold checks are not at the mercy of
			// float subtraction noise.
			cr.DropPct = cohort.RoundTo4((cr.Month0Rate - cr.Month2Rate) * 100)
			switch {
			case cr.DropPct > highRiskDrop:
				cr.Risk = RiskHigh
			case cr.DropPct > moderateRiskDrop:
				cr.Risk = RiskModerate
			default:
				cr.Risk = RiskStable
			}
		}
		cr.Alert = cr.Risk.Alert()
		rep.Rows = append(rep.Rows, cr)
	}

	sort.Slice(rep.Rows, func(i, j int) bool { return rep.Rows[i].Cohort > rep.Rows[j].Cohort })
	return rep
}
