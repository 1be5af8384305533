package usecase

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/community-stats/internal/domain"
)

// Summary holds the 50th percentile and mean of a sample collection.
// Both are nil when there were no samples.
type Summary struct {
	P50  *float64
	Mean *float64
}

// Summarize computes the median and arithmetic mean of samples.
// The median averages the two middle values of an even-length input, which is
// the linear-interpolation 50th percentile.
func Summarize(samples []float64) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	median, err := stats.Median(samples)
	if err != nil {
		return Summary{}
	}
	mean, err := stats.Mean(samples)
	if err != nil {
		return Summary{}
	}
	return Summary{P50: &median, Mean: &mean}
}

// weeklySeries extracts the per-bucket pull and new-contributor counts.
func weeklySeries(points []domain.WeeklyPoint) (pulls, contributorsNew []float64) {
	pulls = make([]float64, 0, len(points))
	contributorsNew = make([]float64, 0, len(points))
	for _, p := range points {
		pulls = append(pulls, float64(p.CountOfPulls))
		contributorsNew = append(contributorsNew, float64(p.CountOfContributorsNew))
	}
	return pulls, contributorsNew
}

// applyStatistics fills the snapshot's statistics from an aggregate result.
func applyStatistics(snap *domain.Snapshot, result AggregateResult) {
	pulls := Summarize(result.PullCloseSeconds)
	snap.P50SecondsToClosePulls = pulls.P50
	snap.MeanSecondsToClosePulls = pulls.Mean

	issues := Summarize(result.IssueCloseSeconds)
	snap.P50SecondsToCloseIssues = issues.P50
	snap.MeanSecondsToCloseIssues = issues.Mean

	weeklyPulls, weeklyNew := weeklySeries(result.Weekly)
	pullsWeekly := Summarize(weeklyPulls)
	snap.P50CountOfPullsWeekly = pullsWeekly.P50
	snap.MeanCountOfPullsWeekly = pullsWeekly.Mean

	newWeekly := Summarize(weeklyNew)
	snap.P50CountOfContributorsNewWeekly = newWeekly.P50
	snap.MeanCountOfContributorsNewWeekly = newWeekly.Mean
}
