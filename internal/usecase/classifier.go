// Package usecase contains the business logic of the application.
package usecase

import (
	"strings"
	"time"

	"github.com/naka-gawa/community-stats/internal/domain"
)

// DefaultWindowDays is the length of the trailing window.
const DefaultWindowDays = 30

// botSuffix marks GitHub App accounts.
const botSuffix = "[bot]"

// DefaultBotDenyList names automation accounts that are plain users on GitHub.
var DefaultBotDenyList = []string{"snyk-bot", "renovate-bot", "mend-bolt-for-github"}

// Classification is the outcome of classifying a single work item.
type Classification struct {
	BucketKey domain.BucketKey
	// ClosureSeconds is nil when the item is still open.
	ClosureSeconds *float64
	InWindow       bool
	IsBot          bool
}

// Classifier assigns work items to buckets and the trailing window.
type Classifier struct {
	window   time.Duration
	denyList map[string]struct{}
}

// NewClassifier creates a Classifier. A non-positive windowDays falls back to DefaultWindowDays.
func NewClassifier(windowDays int, denyList []string) *Classifier {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	deny := make(map[string]struct{}, len(denyList))
	for _, name := range denyList {
		deny[name] = struct{}{}
	}
	return &Classifier{
		window:   time.Duration(windowDays) * 24 * time.Hour,
		denyList: deny,
	}
}

// Classify is pure: it depends only on item, now and the classifier settings.
func (c *Classifier) Classify(item domain.WorkItem, now time.Time) Classification {
	result := Classification{
		BucketKey: domain.BucketKeyOf(item.CreatedAt),
		InWindow:  now.Sub(item.CreatedAt) < c.window,
		IsBot:     c.IsBot(item.Author),
	}
	if item.ClosedAt != nil {
		seconds := item.ClosedAt.Sub(item.CreatedAt).Seconds()
		if seconds < 0 {
			seconds = 0
		}
		result.ClosureSeconds = &seconds
	}
	return result
}

// IsBot reports whether author is an automation account.
func (c *Classifier) IsBot(author string) bool {
	if strings.HasSuffix(author, botSuffix) {
		return true
	}
	_, denied := c.denyList[author]
	return denied
}
