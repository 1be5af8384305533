package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/community-stats/internal/domain"
)

func TestGitHubGateway_ListRepositories(t *testing.T) {
	testCases := []struct {
		name           string
		firstPageOnly  bool
		responses      []string
		expected       []string
		expectedCalls  int32
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - follows cursors and skips archived repositories and forks",
			responses: []string{
				`{"data":{"organization":{"repositories":{"pageInfo":{"hasNextPage":true,"endCursor":"c1"},"nodes":[{"name":"alpha","isArchived":false,"isFork":false},{"name":"old","isArchived":true,"isFork":false}]}}}}`,
				`{"data":{"organization":{"repositories":{"pageInfo":{"hasNextPage":false,"endCursor":"c2"},"nodes":[{"name":"beta","isArchived":false,"isFork":false},{"name":"copy","isArchived":false,"isFork":true}]}}}}`,
			},
			expected:      []string{"alpha", "beta"},
			expectedCalls: 2,
		},
		{
			name:          "first page only - stops after one request despite a next page",
			firstPageOnly: true,
			responses: []string{
				`{"data":{"organization":{"repositories":{"pageInfo":{"hasNextPage":true,"endCursor":"c1"},"nodes":[{"name":"alpha","isArchived":false,"isFork":false}]}}}}`,
				`{"data":{"organization":{"repositories":{"pageInfo":{"hasNextPage":false,"endCursor":"c2"},"nodes":[{"name":"beta","isArchived":false,"isFork":false}]}}}}`,
			},
			expected:      []string{"alpha"},
			expectedCalls: 1,
		},
		{
			name:           "error case - GraphQL errors are provider errors",
			responses:      []string{`{"errors":[{"message":"Something went wrong"}]}`},
			expectError:    true,
			expectedErrMsg: "failed to execute GraphQL query for repositories",
			expectedCalls:  1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var call int32
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "repositories(first: 100")
				assert.Contains(t, string(body), `"org":"any-org"`)
				n := atomic.AddInt32(&call, 1) - 1
				if n > 0 {
					assert.True(t, strings.Contains(string(body), `"cursor":"c1"`))
				}

				require.Less(t, int(n), len(tc.responses))
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responses[n])
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			names, err := gateway.ListRepositories(context.Background(), "any-org", tc.firstPageOnly)

			if tc.expectError {
				assert.ErrorIs(t, err, domain.ErrProviderFetch)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, names)
			}
			assert.Equal(t, tc.expectedCalls, atomic.LoadInt32(&call))
		})
	}
}
