package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/Torvusil/Furadder/workers/extractor/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

// Consumer-side interfaces
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*http.Response, error)
}

// ContentService answers extraction requests for the one page it hosts.
type ContentService struct {
	pageFetcher PageFetcher
	pageURL     *url.URL
	extractors  []Extractor
}

// Functional Options Pattern
type ContentOption func(*ContentService)

func WithPageFetcher(f PageFetcher) ContentOption {
	return func(s *ContentService) { s.pageFetcher = f }
}

func WithPageURL(u *url.URL) ContentOption {
	return func(s *ContentService) { s.pageURL = u }
}

// WithExtractors replaces the default extractor chain. The first match wins.
func WithExtractors(extractors ...Extractor) ContentOption {
	return func(s *ContentService) { s.extractors = extractors }
}

func NewContentService(opts ...ContentOption) *ContentService {
	s := &ContentService{
		extractors: []Extractor{TwitterExtractor{}, DeviantArtExtractor{}, UniversalExtractor{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleEnvelope adapts Extract to the message bus.
func (s *ContentService) HandleEnvelope(ctx context.Context, env shared.Envelope) (shared.Reply, error) {
	if env.Command != shared.CmdExtractData {
		return shared.Reply{}, errors.New(domain.ErrMsgInvalidCommand)
	}

	var req shared.ExtractRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return shared.Reply{}, fmt.Errorf("invalid %s data: %w", env.Command, err)
	}

	snapshot, err := s.Extract(ctx, req)
	if err != nil {
		return shared.Reply{}, err
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return shared.Reply{}, err
	}
	return shared.Reply{Success: true, Data: data}, nil
}

// Extract fetches the hosted page and runs the first extractor that claims it.
func (s *ContentService) Extract(ctx context.Context, req shared.ExtractRequest) (shared.ExtractionSnapshot, error) {
	extractor := s.extractorFor(s.pageURL)
	if extractor == nil {
		return shared.ExtractionSnapshot{}, fmt.Errorf("no extractor for %s", s.pageURL)
	}

	log.Printf("Extracting %s (fetch type %q)", s.pageURL, req.FetchType)

	resp, err := s.pageFetcher.Fetch(ctx, s.pageURL.String())
	if err != nil {
		return shared.ExtractionSnapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return shared.ExtractionSnapshot{}, fmt.Errorf("non-200 status code for URL %s: %d", s.pageURL, resp.StatusCode)
	}

	page := ParsePage(resp.Body, s.pageURL)
	snapshot, err := extractor.Extract(page, req)
	if err != nil {
		log.Printf("Extraction of %s failed: %v", s.pageURL, err)
		return shared.ExtractionSnapshot{}, err
	}

	log.Printf("Extracted %d image(s) from %s as %s", len(snapshot.Images), s.pageURL, snapshot.ListenerType)
	return snapshot, nil
}

func (s *ContentService) extractorFor(u *url.URL) Extractor {
	for _, e := range s.extractors {
		if e.Matches(u) {
			return e
		}
	}
	return nil
}
