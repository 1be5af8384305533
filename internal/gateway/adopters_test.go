package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/community-stats/internal/domain"
)

func TestParseAdopterRecords(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expected    []domain.AdopterRecord
		expectError bool
	}{
		{
			name: "top-level list",
			raw: `
- full_name: Acme Corp
  url: https://acme.example
- full_name: Globex
`,
			expected: []domain.AdopterRecord{{FullName: "Acme Corp"}, {FullName: "Globex"}},
		},
		{
			name: "mapping with an adopters list",
			raw: `
title: Adopters
adopters:
  - full_name: Initech
`,
			expected: []domain.AdopterRecord{{FullName: "Initech"}},
		},
		{
			name:        "malformed yaml",
			raw:         "adopters: [unclosed",
			expectError: true,
		},
		{
			name:        "html instead of yaml",
			raw:         "<html><body>Not Found</body></html>",
			expectError: true,
		},
		{
			name:        "mapping without adopters",
			raw:         "title: Adopters\n",
			expectError: true,
		},
		{
			name:        "empty document",
			raw:         "",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := ParseAdopterRecords([]byte(tc.raw))
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, records)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, records)
			}
		})
	}
}

func TestAdopterFetcher_FetchAdopterRecords(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		bodyLimit      int
		expected       []domain.AdopterRecord
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - downloads and parses the document",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/ADOPTERS.yaml", r.URL.Path)
				assert.Empty(t, r.Header.Get("Authorization"))
				fmt.Fprint(w, "- full_name: Acme Corp\n")
			},
			expected: []domain.AdopterRecord{{FullName: "Acme Corp"}},
		},
		{
			name: "error case - non-success status",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			expectError:    true,
			expectedErrMsg: "status 404",
		},
		{
			name: "error case - server errors are not retried",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectError:    true,
			expectedErrMsg: "status 500",
		},
		{
			name: "error case - document larger than the body limit",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "- full_name: A very long adopter name that does not fit\n")
			},
			bodyLimit:      16,
			expectError:    true,
			expectedErrMsg: "failed to fetch adopters document",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				tc.handlerFunc(w, r)
			}))
			defer server.Close()

			fetcher := NewAdopterFetcher(resty.New().SetBaseURL(server.URL), newTestLogger())
			if tc.bodyLimit > 0 {
				fetcher.client.SetResponseBodyLimit(tc.bodyLimit)
			}

			records, err := fetcher.FetchAdopterRecords(context.Background(), "/ADOPTERS.yaml")

			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
			if tc.expectError {
				assert.ErrorContains(t, err, tc.expectedErrMsg)
				assert.Nil(t, records)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, records)
			}
		})
	}
}
