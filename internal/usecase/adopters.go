package usecase

import (
	"context"
	"slices"
	"strings"

	"github.com/naka-gawa/community-stats/internal/domain"
)

// AdopterNames extracts the display names of records, trimmed, deduplicated
// and sorted. It never returns nil.
func AdopterNames(records []domain.AdopterRecord) []string {
	seen := make(map[string]struct{}, len(records))
	names := make([]string, 0, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.FullName)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// listAdopters fetches the adopter names. Failures are logged and degrade to
// an empty list so the rest of the run can proceed.
func (c *Collector) listAdopters(ctx context.Context, url string) []string {
	if url == "" {
		c.logger.Warnf("%v (continuing): no adopters URL configured", domain.ErrAdoptersUnavailable)
		return []string{}
	}
	records, err := c.adopters.FetchAdopterRecords(ctx, url)
	if err != nil {
		c.logger.WithError(err).Warnf("%v (continuing)", domain.ErrAdoptersUnavailable)
		return []string{}
	}
	names := AdopterNames(records)
	c.logger.WithField("count", len(names)).Info("Completed fetching adopters.")
	return names
}
