package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naka-gawa/community-stats/internal/domain"
)

func TestAdopterNames(t *testing.T) {
	testCases := []struct {
		name     string
		records  []domain.AdopterRecord
		expected []string
	}{
		{
			name:     "sorted and deduplicated",
			records:  []domain.AdopterRecord{{FullName: "Initech"}, {FullName: " Acme "}, {FullName: "Acme"}, {FullName: ""}},
			expected: []string{"Acme", "Initech"},
		},
		{
			name:     "no records",
			records:  nil,
			expected: []string{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AdopterNames(tc.records))
		})
	}
}

func TestCollector_listAdopters_WithoutURL(t *testing.T) {
	adopters := new(mockAdopterSource)
	c := newTestCollector(newFakeSource(), adopters)

	names := c.listAdopters(context.Background(), "")

	assert.NotNil(t, names)
	assert.Empty(t, names)
	adopters.AssertNotCalled(t, "FetchAdopterRecords")
}
