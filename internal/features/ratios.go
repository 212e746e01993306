package features

import (
	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// Derived ratio columns, appended in this order.
const (
	StudyEfficiency    = "StudyEfficiency"
	StressToMotivation = "StressToMotivation"
	EngagementRatio    = "EngagementRatio"
)

// RatioColumns lists the ratio columns AddRatios appends.
var RatioColumns = []string{StudyEfficiency, StressToMotivation, EngagementRatio}

// RatioInputs are the source columns the ratios read.
var RatioInputs = []string{"FinalGrade", "StudyHours", "StressLevel", "Motivation", "Discussions", "OnlineCourses", "Resources"}

// RatioPlaces is the rounding applied to defined ratios.
const RatioPlaces = 4

// StudyEfficiencyOf is FinalGrade / StudyHours; missing when hours ≤ 0.
func StudyEfficiencyOf(finalGrade, studyHours table.Num) table.Num {
	if !finalGrade.OK || !studyHours.OK || studyHours.V <= 0 {
		return table.Missing
	}
	return round(finalGrade.V / studyHours.V)
}

// StressToMotivationOf is StressLevel / (Motivation + 1); missing when Motivation is -1.
func StressToMotivationOf(stress, motivation table.Num) table.Num {
	if !stress.OK || !motivation.OK {
		return table.Missing
	}
	return guardedDiv(stress.V, motivation.V+1)
}

// EngagementRatioOf is (Discussions + OnlineCourses) / (Resources + 1); missing when Resources is -1.
func EngagementRatioOf(discussions, onlineCourses, resources table.Num) table.Num {
	if !discussions.OK || !onlineCourses.OK || !resources.OK {
		return table.Missing
	}
	return guardedDiv(discussions.V+onlineCourses.V, resources.V+1)
}

func guardedDiv(num, den float64) table.Num {
	if den == 0 {
		return table.Missing
	}
	return round(num / den)
}

func round(v float64) table.Num {
	r, err := stats.Round(v, RatioPlaces)
	if err != nil {
		return table.Missing
	}
	return table.Some(r)
}

// AddRatios returns a copy of t with the three ratio columns appended.
// A ratio whose inputs are absent from the schema is NA on every row.
func AddRatios(t *table.Table) *table.Table {
	idx := func(name string) int { return t.Schema.Index(name) }
	fg, sh := idx("FinalGrade"), idx("StudyHours")
	sl, mo := idx("StressLevel"), idx("Motivation")
	di, oc, re := idx("Discussions"), idx("OnlineCourses"), idx("Resources")

	return t.Extend(RatioColumns, func(r table.Record) []string {
		num := func(i int) table.Num { return table.ParseNum(r.Get(i)) }
		return []string{
			StudyEfficiencyOf(num(fg), num(sh)).Format(RatioPlaces),
			StressToMotivationOf(num(sl), num(mo)).Format(RatioPlaces),
			EngagementRatioOf(num(di), num(oc), num(re)).Format(RatioPlaces),
		}
	})
}
