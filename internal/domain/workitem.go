// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"time"
)

// Kind selects which collection of a repository is paginated.
type Kind string

const (
	KindPulls  Kind = "pulls"
	KindIssues Kind = "issues"
)

// WorkItem is a pull request or an issue, unified.
// It is read once from the source and never modified afterwards.
type WorkItem struct {
	ID            int64
	Number        int
	Repository    string
	Author        string
	CreatedAt     time.Time
	ClosedAt      *time.Time
	IsPullRequest bool
}

// ListFilter holds the listing options passed to the source provider.
type ListFilter struct {
	State     string
	Sort      string
	Direction string
	PerPage   int
}

// BucketKey identifies an ISO calendar week.
type BucketKey struct {
	ISOYear int
	ISOWeek int
}

// BucketKeyOf returns the ISO week of t in UTC.
func BucketKeyOf(t time.Time) BucketKey {
	year, week := t.UTC().ISOWeek()
	return BucketKey{ISOYear: year, ISOWeek: week}
}

// Less reports whether k sorts before other.
func (k BucketKey) Less(other BucketKey) bool {
	if k.ISOYear != other.ISOYear {
		return k.ISOYear < other.ISOYear
	}
	return k.ISOWeek < other.ISOWeek
}

func (k BucketKey) String() string {
	return fmt.Sprintf("%04d-W%02d", k.ISOYear, k.ISOWeek)
}

// AdopterRecord is one entry of the external adopters document.
type AdopterRecord struct {
	FullName string `yaml:"full_name"`
}

// CommitMetadata describes the commit that persists a snapshot.
type CommitMetadata struct {
	Message     string
	AuthorName  string
	AuthorEmail string
}
