package domain

import "time"

// WeeklyPoint is one bucket of the weekly time series.
type WeeklyPoint struct {
	Week                   string `json:"week"`
	CountOfPulls           int    `json:"countOfPulls"`
	CountOfContributorsNew int    `json:"countOfContributorsNew"`
}

// Snapshot holds the metrics of one run.
// It is the core domain entity of this application and replaces any previous snapshot.
//
// Statistics are pointers: a nil value means there were no samples and is
// omitted from the JSON output rather than reported as zero.
type Snapshot struct {
	GeneratedAt  time.Time `json:"generatedAt"`
	Organization string    `json:"organization"`
	WindowDays   int       `json:"windowDays"`
	Repositories []string  `json:"repositories"`

	NamesOfAdopters        []string `json:"namesOfAdopters"`
	NamesOfContributors    []string `json:"namesOfContributors"`
	NamesOfContributorsNew []string `json:"namesOfContributorsNew"`
	CountOfContributors    int      `json:"countOfContributors"`
	CountOfContributorsNew int      `json:"countOfContributorsNew"`
	CountOfPullsRecent     int      `json:"countOfPullsRecent"`
	CountOfIssuesRecent    int      `json:"countOfIssuesRecent"`

	P50SecondsToClosePulls   *float64 `json:"p50SecondsToClosePulls,omitempty"`
	MeanSecondsToClosePulls  *float64 `json:"meanSecondsToClosePulls,omitempty"`
	P50SecondsToCloseIssues  *float64 `json:"p50SecondsToCloseIssues,omitempty"`
	MeanSecondsToCloseIssues *float64 `json:"meanSecondsToCloseIssues,omitempty"`

	P50CountOfPullsWeekly            *float64 `json:"p50CountOfPullsWeekly,omitempty"`
	MeanCountOfPullsWeekly           *float64 `json:"meanCountOfPullsWeekly,omitempty"`
	P50CountOfContributorsNewWeekly  *float64 `json:"p50CountOfContributorsNewWeekly,omitempty"`
	MeanCountOfContributorsNewWeekly *float64 `json:"meanCountOfContributorsNewWeekly,omitempty"`

	Weekly []WeeklyPoint `json:"weekly"`
}
