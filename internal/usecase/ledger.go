package usecase

import (
	"slices"

	"github.com/naka-gawa/community-stats/internal/domain"
)

// ContributorLedger tracks which contributors are established and which are
// active only inside the trailing window.
//
// known and recent are provisional until Finalize runs; after that they are
// disjoint and together hold every tracked author.
type ContributorLedger struct {
	firstSeen map[string]domain.BucketKey
	known     map[string]struct{}
	recent    map[string]struct{}
	finalized bool
}

// NewContributorLedger returns an empty ledger.
func NewContributorLedger() *ContributorLedger {
	return &ContributorLedger{
		firstSeen: make(map[string]domain.BucketKey),
		known:     make(map[string]struct{}),
		recent:    make(map[string]struct{}),
	}
}

// ClaimFirstSeen records key as the bucket where author was first seen this run.
// It returns false if author was already attributed to any bucket.
func (l *ContributorLedger) ClaimFirstSeen(key domain.BucketKey, author string) bool {
	if _, seen := l.firstSeen[author]; seen {
		return false
	}
	l.firstSeen[author] = key
	return true
}

// FirstSeen returns the bucket author was attributed to.
func (l *ContributorLedger) FirstSeen(author string) (domain.BucketKey, bool) {
	key, ok := l.firstSeen[author]
	return key, ok
}

// MarkKnown records activity outside the trailing window.
func (l *ContributorLedger) MarkKnown(author string) {
	l.known[author] = struct{}{}
}

// MarkRecent records activity inside the trailing window.
func (l *ContributorLedger) MarkRecent(author string) {
	l.recent[author] = struct{}{}
}

// Finalize removes established authors from the recent set. Calling it again is a no-op.
func (l *ContributorLedger) Finalize() {
	if l.finalized {
		return
	}
	for author := range l.recent {
		if _, established := l.known[author]; established {
			delete(l.recent, author)
		}
	}
	l.finalized = true
}

// Known returns the established contributors, sorted.
func (l *ContributorLedger) Known() []string {
	return sortedNames(l.known)
}

// Recent returns the contributors active only inside the window, sorted.
func (l *ContributorLedger) Recent() []string {
	return sortedNames(l.recent)
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
