package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/community-stats/internal/domain"
)

// maxAdopterDocumentSize bounds how much of the adopters document is read.
const maxAdopterDocumentSize = 4 << 20

const adopterFetchTimeout = 30 * time.Second

// AdopterFetcher downloads and parses the adopters document.
// Its client is separate from the GitHub client and carries no token.
type AdopterFetcher struct {
	client *resty.Client
	logger *logrus.Logger
}

// NewAdopterFetcher creates an AdopterFetcher. A nil client means a fresh resty client.
// Retries are disabled on the client either way.
func NewAdopterFetcher(client *resty.Client, logger *logrus.Logger) *AdopterFetcher {
	if client == nil {
		client = resty.New().SetTimeout(adopterFetchTimeout)
	}
	client.
		SetRetryCount(0).
		SetResponseBodyLimit(maxAdopterDocumentSize)
	return &AdopterFetcher{client: client, logger: logger}
}

// FetchAdopterRecords downloads the YAML document at url and parses its records.
// A relative url is resolved against the client's base URL.
func (f *AdopterFetcher) FetchAdopterRecords(ctx context.Context, url string) ([]domain.AdopterRecord, error) {
	f.logger.WithField("url", url).Info("Fetching adopters document...")
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch adopters document: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch adopters document: status %d", resp.StatusCode())
	}
	return ParseAdopterRecords(resp.Body())
}

// ParseAdopterRecords parses either a top-level list of records or a mapping
// with an "adopters" list.
func ParseAdopterRecords(raw []byte) ([]domain.AdopterRecord, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("failed to parse adopters document: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, errors.New("adopters document is empty")
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var records []domain.AdopterRecord
		if err := doc.Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to decode adopter records: %w", err)
		}
		return records, nil
	case yaml.MappingNode:
		var wrapped struct {
			Adopters []domain.AdopterRecord `yaml:"adopters"`
		}
		if err := doc.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode adopter records: %w", err)
		}
		if wrapped.Adopters == nil {
			return nil, errors.New("adopters document has no adopters list")
		}
		return wrapped.Adopters, nil
	}
	return nil, fmt.Errorf("adopters document has unexpected shape (yaml kind %d)", doc.Kind)
}
