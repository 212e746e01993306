package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/KaramelBytes/eduprobe-cli/internal/profile"
	"github.com/KaramelBytes/eduprobe-cli/internal/quality"
	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// Signal kinds, in discovery order.
const (
	KindGroupGap         = "GROUP_GAP"
	KindOutliers         = "OUTLIERS"
	KindMissingness      = "MISSINGNESS"
	KindDominantCategory = "DOMINANT_CATEGORY"
	KindRejectedRows     = "REJECTED_ROWS"
)

// Priority tiers.
const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
)

// Inclusion and HIGH-tier thresholds, in percent unless noted.
const (
	gapMinPct       = 5.0
	gapHighPct      = 15.0
	gapHighSupport  = 10 // rows
	outlierHighPct  = 5.0
	missingMinPct   = 10.0
	missingHighPct  = 30.0
	dominantMinPct  = 80.0
	dominantHighPct = 95.0
	rejectedMinPct  = 5.0
	rejectedHighPct = 20.0
)

// Signal is one ranked finding.
type Signal struct {
	Kind        string
	Description string
	Impact      float64
	Priority    string
}

// SignalInputs gathers the stage outputs signals are drawn from.
type SignalInputs struct {
	Comparisons   []Comparison
	Distributions []NumSummary
	Outliers      []Outlier
	Profiles      []profile.ColumnProfile
	Frequencies   []profile.FrequencyTable
	Quality       quality.Stats
}

// RankSignals derives signals from in and orders them by impact, highest first.
// Equal impacts keep discovery order: kind order, then each source's own order.
func RankSignals(in SignalInputs, opt Options) []Signal {
	var out []Signal
	tier := func(high bool) string {
		if high {
			return PriorityHigh
		}
		return PriorityMedium
	}

	for _, c := range in.Comparisons {
		pct := math.Abs(c.PctDiff)
		if c.Count < opt.MinGroupSupport || pct < gapMinPct {
			continue
		}
		out = append(out, Signal{
			Kind: KindGroupGap,
			Description: fmt.Sprintf("%s mean for %s=%s is %.2f vs %.2f overall (%+.1f%%, n=%d)",
				c.Metric, c.Column, c.Category, c.GroupMean, c.OverallMean, c.PctDiff, c.Count),
			Impact:   pct,
			Priority: tier(pct > gapHighPct && c.Count > gapHighSupport),
		})
	}

	counts := map[string]int{}
	for _, o := range in.Outliers {
		counts[o.Column]++
	}
	for _, d := range in.Distributions {
		n := counts[d.Column]
		if n == 0 || d.Count == 0 {
			continue
		}
		share := float64(n) / float64(d.Count) * 100
		out = append(out, Signal{
			Kind: KindOutliers,
			Description: fmt.Sprintf("%s has %d values beyond |z|>%.1f (%.1f%% of %d)",
				d.Column, n, opt.OutlierThreshold, share, d.Count),
			Impact:   share,
			Priority: tier(share > outlierHighPct),
		})
	}

	for _, p := range in.Profiles {
		share := p.MissingShare() * 100
		if share < missingMinPct {
			continue
		}
		out = append(out, Signal{
			Kind:        KindMissingness,
			Description: fmt.Sprintf("%s is missing in %.1f%% of rows", p.Name, share),
			Impact:      share,
			Priority:    tier(share >= missingHighPct),
		})
	}

	for _, f := range in.Frequencies {
		top, share, ok := f.Top()
		if !ok || len(f.Counts) < 2 {
			continue
		}
		share *= 100
		if share < dominantMinPct {
			continue
		}
		out = append(out, Signal{
			Kind:        KindDominantCategory,
			Description: fmt.Sprintf("%s is dominated by %s (%.1f%% of rows)", f.Column, top.Value, share),
			Impact:      share,
			Priority:    tier(share >= dominantHighPct),
		})
	}

	if share := in.Quality.RejectedShare() * 100; share >= rejectedMinPct {
		q := in.Quality
		out = append(out, Signal{
			Kind: KindRejectedRows,
			Description: fmt.Sprintf("quality filter rejected %.1f%% of rows (%s %d, %s %d, %s %d)",
				share, quality.ReasonBadTokens, q.BadTokens, quality.ReasonBadKey, q.BadKey, quality.ReasonBadNum, q.BadNum),
			Impact:   share,
			Priority: tier(share >= rejectedHighPct),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Impact > out[j].Impact })
	return out
}

// SignalTable renders (rank, kind, priority, impact, description).
func SignalTable(signals []Signal) *table.Table {
	t := table.New("rank", "kind", "priority", "impact", "description")
	for i, s := range signals {
		t.Append(table.Record{strconv.Itoa(i + 1), s.Kind, s.Priority, table.Some(s.Impact).Format(2), s.Description})
	}
	return t
}
