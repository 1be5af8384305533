package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/community-stats/internal/domain"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(days int) time.Time {
	return testNow.Add(-time.Duration(days) * 24 * time.Hour)
}

func TestClassifier_Classify(t *testing.T) {
	classifier := NewClassifier(DefaultWindowDays, DefaultBotDenyList)

	t.Run("window boundary is strict", func(t *testing.T) {
		inside := classifier.Classify(domain.WorkItem{Author: "alice", CreatedAt: daysAgo(29)}, testNow)
		boundary := classifier.Classify(domain.WorkItem{Author: "alice", CreatedAt: daysAgo(30)}, testNow)

		assert.True(t, inside.InWindow)
		assert.False(t, boundary.InWindow)
	})

	t.Run("open items have no closure latency", func(t *testing.T) {
		c := classifier.Classify(domain.WorkItem{Author: "alice", CreatedAt: daysAgo(3)}, testNow)
		assert.Nil(t, c.ClosureSeconds)
	})

	t.Run("closed items report their latency in seconds", func(t *testing.T) {
		closedAt := daysAgo(8)
		c := classifier.Classify(domain.WorkItem{Author: "alice", CreatedAt: daysAgo(10), ClosedAt: &closedAt}, testNow)
		require.NotNil(t, c.ClosureSeconds)
		assert.Equal(t, 172800.0, *c.ClosureSeconds)
	})

	t.Run("bucket key uses ISO week numbering", func(t *testing.T) {
		c := classifier.Classify(domain.WorkItem{CreatedAt: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)}, testNow)
		assert.Equal(t, domain.BucketKey{ISOYear: 2020, ISOWeek: 53}, c.BucketKey)
		assert.Equal(t, "2020-W53", c.BucketKey.String())
	})
}

func TestClassifier_IsBot(t *testing.T) {
	testCases := []struct {
		name     string
		denyList []string
		author   string
		expected bool
	}{
		{name: "app suffix", denyList: nil, author: "dependabot[bot]", expected: true},
		{name: "default deny list", denyList: DefaultBotDenyList, author: "snyk-bot", expected: true},
		{name: "custom deny list", denyList: []string{"ci-runner"}, author: "ci-runner", expected: true},
		{name: "human", denyList: DefaultBotDenyList, author: "alice", expected: false},
		{name: "suffix must be literal", denyList: nil, author: "robot", expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NewClassifier(DefaultWindowDays, tc.denyList).IsBot(tc.author))
		})
	}
}

func TestBucketKey_Less(t *testing.T) {
	a := domain.BucketKey{ISOYear: 2023, ISOWeek: 52}
	b := domain.BucketKey{ISOYear: 2024, ISOWeek: 1}
	c := domain.BucketKey{ISOYear: 2024, ISOWeek: 2}

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
	assert.False(t, b.Less(b))
}
