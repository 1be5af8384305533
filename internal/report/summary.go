// Package report renders a human-readable summary of a snapshot.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/naka-gawa/community-stats/internal/domain"
)

// maxWeeks is how many of the most recent weeks are shown.
const maxWeeks = 12

var headingColor = color.New(color.FgCyan, color.Bold)

// PrintSummary writes the headline figures and the recent weekly series to w.
func PrintSummary(w io.Writer, snap *domain.Snapshot) error {
	if _, err := headingColor.Fprintf(w, "Community stats for %s (last %d days)\n", snap.Organization, snap.WindowDays); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Value")
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	rows := [][]string{
		{"Repositories", strconv.Itoa(len(snap.Repositories))},
		{"Adopters", strconv.Itoa(len(snap.NamesOfAdopters))},
		{"Contributors", strconv.Itoa(snap.CountOfContributors)},
		{"New contributors", strconv.Itoa(snap.CountOfContributorsNew)},
		{"Recent pulls", strconv.Itoa(snap.CountOfPullsRecent)},
		{"Recent issues", strconv.Itoa(snap.CountOfIssuesRecent)},
		{"P50 time to close pulls", formatSeconds(snap.P50SecondsToClosePulls)},
		{"Mean time to close pulls", formatSeconds(snap.MeanSecondsToClosePulls)},
		{"P50 time to close issues", formatSeconds(snap.P50SecondsToCloseIssues)},
		{"Mean time to close issues", formatSeconds(snap.MeanSecondsToCloseIssues)},
		{"P50 pulls per week", formatCount(snap.P50CountOfPullsWeekly)},
		{"Mean pulls per week", formatCount(snap.MeanCountOfPullsWeekly)},
		{"P50 new contributors per week", formatCount(snap.P50CountOfContributorsNewWeekly)},
		{"Mean new contributors per week", formatCount(snap.MeanCountOfContributorsNewWeekly)},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(snap.Weekly) == 0 {
		return nil
	}
	weekly := snap.Weekly
	if len(weekly) > maxWeeks {
		weekly = weekly[len(weekly)-maxWeeks:]
	}
	weekTable := tablewriter.NewWriter(w)
	weekTable.Header("Week", "Pulls", "New contributors")
	weekTable.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	data := make([][]string, 0, len(weekly))
	for _, p := range weekly {
		data = append(data, []string{p.Week, strconv.Itoa(p.CountOfPulls), strconv.Itoa(p.CountOfContributorsNew)})
	}
	if err := weekTable.Bulk(data); err != nil {
		return err
	}
	return weekTable.Render()
}

func formatSeconds(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return (time.Duration(*v) * time.Second).Round(time.Minute).String()
}

func formatCount(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *v)
}
