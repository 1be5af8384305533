package usecase

import (
	"slices"
	"time"

	"github.com/naka-gawa/community-stats/internal/domain"
)

// Bucket accumulates the activity of one ISO week.
type Bucket struct {
	PullCount       int
	NewContributors map[string]struct{}
}

// BucketAggregator folds classified work items into weekly buckets, the
// contributor ledger and the closure-latency samples.
// It is not safe for concurrent use; items are added by a single goroutine.
type BucketAggregator struct {
	classifier *Classifier
	buckets    map[domain.BucketKey]*Bucket
	ledger     *ContributorLedger

	pullCloseSeconds  []float64
	issueCloseSeconds []float64
	recentPulls       int
	recentIssues      int
}

// AggregateResult is the state of a BucketAggregator after finalization.
type AggregateResult struct {
	Contributors      []string
	ContributorsNew   []string
	PullCloseSeconds  []float64
	IssueCloseSeconds []float64
	RecentPulls       int
	RecentIssues      int
	// Weekly is sorted by bucket key.
	Weekly []domain.WeeklyPoint
}

// NewBucketAggregator creates an empty aggregator.
func NewBucketAggregator(classifier *Classifier) *BucketAggregator {
	return &BucketAggregator{
		classifier: classifier,
		buckets:    make(map[domain.BucketKey]*Bucket),
		ledger:     NewContributorLedger(),
	}
}

// Add classifies item and accumulates it.
func (a *BucketAggregator) Add(item domain.WorkItem, now time.Time) Classification {
	c := a.classifier.Classify(item, now)

	if item.IsPullRequest {
		a.bucket(c.BucketKey).PullCount++
	}

	// Bots and deleted accounts never count as contributors.
	if !c.IsBot && item.Author != "" {
		a.AddNewContributorToBucket(c.BucketKey, item.Author)
		if c.InWindow {
			a.ledger.MarkRecent(item.Author)
		} else {
			a.ledger.MarkKnown(item.Author)
		}
	}

	if c.InWindow {
		if item.IsPullRequest {
			a.recentPulls++
		} else {
			a.recentIssues++
		}
		if c.ClosureSeconds != nil {
			if item.IsPullRequest {
				a.pullCloseSeconds = append(a.pullCloseSeconds, *c.ClosureSeconds)
			} else {
				a.issueCloseSeconds = append(a.issueCloseSeconds, *c.ClosureSeconds)
			}
		}
	}
	return c
}

// AddNewContributorToBucket records author as new in the bucket at key, but
// only the first time author is seen in any bucket during this run.
func (a *BucketAggregator) AddNewContributorToBucket(key domain.BucketKey, author string) bool {
	if !a.ledger.ClaimFirstSeen(key, author) {
		return false
	}
	a.bucket(key).NewContributors[author] = struct{}{}
	return true
}

// Bucket returns the bucket at key, or nil if nothing landed there.
func (a *BucketAggregator) Bucket(key domain.BucketKey) *Bucket {
	return a.buckets[key]
}

func (a *BucketAggregator) bucket(key domain.BucketKey) *Bucket {
	b, ok := a.buckets[key]
	if !ok {
		b = &Bucket{NewContributors: make(map[string]struct{})}
		a.buckets[key] = b
	}
	return b
}

// Finalize reconciles the contributor ledger and returns the accumulated state.
func (a *BucketAggregator) Finalize() AggregateResult {
	a.ledger.Finalize()

	keys := make([]domain.BucketKey, 0, len(a.buckets))
	for key := range a.buckets {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(x, y domain.BucketKey) int {
		switch {
		case x.Less(y):
			return -1
		case y.Less(x):
			return 1
		}
		return 0
	})

	weekly := make([]domain.WeeklyPoint, 0, len(keys))
	for _, key := range keys {
		b := a.buckets[key]
		weekly = append(weekly, domain.WeeklyPoint{
			Week:                   key.String(),
			CountOfPulls:           b.PullCount,
			CountOfContributorsNew: len(b.NewContributors),
		})
	}

	return AggregateResult{
		Contributors:      a.ledger.Known(),
		ContributorsNew:   a.ledger.Recent(),
		PullCloseSeconds:  slices.Clone(a.pullCloseSeconds),
		IssueCloseSeconds: slices.Clone(a.issueCloseSeconds),
		RecentPulls:       a.recentPulls,
		RecentIssues:      a.recentIssues,
		Weekly:            weekly,
	}
}
