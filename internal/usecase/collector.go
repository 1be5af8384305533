package usecase

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/community-stats/internal/domain"
)

// Source defines the behavior of a gateway for reading work items from GitHub.
type Source interface {
	WorkItemPages(ctx context.Context, owner, repo string, kind domain.Kind, filter domain.ListFilter) iter.Seq2[[]domain.WorkItem, error]
	ListRepositories(ctx context.Context, org string, firstPageOnly bool) ([]string, error)
}

// AdopterSource fetches the records of the adopters document.
type AdopterSource interface {
	FetchAdopterRecords(ctx context.Context, url string) ([]domain.AdopterRecord, error)
}

// CollectOptions selects what a run collects and from where.
type CollectOptions struct {
	Org string
	// Repos limits the run to these repositories; empty means all
	// repositories of Org.
	Repos       []string
	Filter      domain.ListFilter
	WindowDays  int
	BotDenyList []string

	Metrics     bool
	Adopters    bool
	AdoptersURL string
	// Subset consumes only the first page of every listing, repository
	// discovery included.
	Subset bool
}

// Collector is the use case for collecting community metrics.
// It orchestrates the fetching, aggregation and reduction of data.
type Collector struct {
	source   Source
	adopters AdopterSource
	logger   *logrus.Logger
	now      func() time.Time
}

// NewCollector creates a new Collector instance.
func NewCollector(source Source, adopters AdopterSource, logger *logrus.Logger) *Collector {
	return &Collector{
		source:   source,
		adopters: adopters,
		logger:   logger,
		now:      time.Now,
	}
}

// Collect runs the selected phases and assembles the snapshot.
// The metrics loop and the adopter fetch share no state and run side by side;
// any metrics error aborts the run and no snapshot is returned.
func (c *Collector) Collect(ctx context.Context, opts CollectOptions) (*domain.Snapshot, error) {
	c.logger.Info("Usecase: Starting collection...")
	now := c.now().UTC()
	if opts.WindowDays <= 0 {
		opts.WindowDays = DefaultWindowDays
	}

	snap := &domain.Snapshot{
		GeneratedAt:            now,
		Organization:           opts.Org,
		WindowDays:             opts.WindowDays,
		Repositories:           []string{},
		NamesOfAdopters:        []string{},
		NamesOfContributors:    []string{},
		NamesOfContributorsNew: []string{},
		Weekly:                 []domain.WeeklyPoint{},
	}

	var adopters []string
	eg, egCtx := errgroup.WithContext(ctx)

	if opts.Adopters {
		eg.Go(func() error {
			adopters = c.listAdopters(egCtx, opts.AdoptersURL)
			return nil
		})
	}

	if opts.Metrics {
		eg.Go(func() error {
			return c.collectMetrics(egCtx, opts, now, snap)
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if adopters != nil {
		snap.NamesOfAdopters = adopters
	}

	c.logger.Info("Usecase: Collection complete.")
	return snap, nil
}

func (c *Collector) collectMetrics(ctx context.Context, opts CollectOptions, now time.Time, snap *domain.Snapshot) error {
	repos := opts.Repos
	if len(repos) == 0 {
		var err error
		repos, err = c.source.ListRepositories(ctx, opts.Org, opts.Subset)
		if err != nil {
			return err
		}
	}

	aggregator := NewBucketAggregator(NewClassifier(opts.WindowDays, opts.BotDenyList))
	for i, repo := range repos {
		c.logger.WithFields(logrus.Fields{"repo": opts.Org + "/" + repo, "progress": fmt.Sprintf("%d/%d", i+1, len(repos))}).Info("Collecting repository...")
		// Pull requests are processed fully before issues; the order decides
		// which bucket a contributor is first attributed to.
		for _, kind := range []domain.Kind{domain.KindPulls, domain.KindIssues} {
			count, err := c.consume(ctx, opts, repo, kind, aggregator, now)
			if err != nil {
				return err
			}
			c.logger.WithFields(logrus.Fields{"repo": opts.Org + "/" + repo, "kind": kind, "items": count}).Debug("Completed listing.")
		}
	}

	result := aggregator.Finalize()
	snap.Repositories = append([]string{}, repos...)
	snap.NamesOfContributors = result.Contributors
	snap.NamesOfContributorsNew = result.ContributorsNew
	snap.CountOfContributors = len(result.Contributors)
	snap.CountOfContributorsNew = len(result.ContributorsNew)
	snap.CountOfPullsRecent = result.RecentPulls
	snap.CountOfIssuesRecent = result.RecentIssues
	snap.Weekly = result.Weekly
	applyStatistics(snap, result)
	return nil
}

// consume feeds every page of one listing into aggregator.
// In subset mode it stops after the first page, so no further page is fetched.
func (c *Collector) consume(ctx context.Context, opts CollectOptions, repo string, kind domain.Kind, aggregator *BucketAggregator, now time.Time) (int, error) {
	count := 0
	for page, err := range c.source.WorkItemPages(ctx, opts.Org, repo, kind, opts.Filter) {
		if err != nil {
			return count, err
		}
		for _, item := range page {
			aggregator.Add(item, now)
			count++
		}
		if opts.Subset {
			break
		}
	}
	return count, nil
}
