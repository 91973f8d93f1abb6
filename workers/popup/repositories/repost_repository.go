package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Torvusil/Furadder/workers/popup/domain"
	sharedRepositories "github.com/Torvusil/Furadder/workers/shared/repositories"
)

// noRepost is cached for URLs the board has no match for.
const noRepost = "none"

type reverseSearchResponse struct {
	Images []struct {
		ID int `json:"id"`
	} `json:"images"`
	Total int `json:"total"`
}

// RepostRepository asks the board's reverse image search whether a URL was
// already uploaded. Answers are cached in Redis for cacheTTL.
type RepostRepository struct {
	client   *http.Client
	boardURL string
	cache    sharedRepositories.RedisClient
	cacheTTL time.Duration
}

func NewRepostRepository(boardURL string, cache sharedRepositories.RedisClient, cacheTTL time.Duration) *RepostRepository {
	return &RepostRepository{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		boardURL: strings.TrimRight(boardURL, "/"),
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Lookup returns the first matching board image, or nil when there is none.
func (r *RepostRepository) Lookup(ctx context.Context, fetchURL string) (*domain.Repost, error) {
	key := fmt.Sprintf(domain.RedisKeyRepostLookup, fetchURL)
	if r.cache != nil {
		if cached, ok, err := r.cache.Get(ctx, key); err != nil {
			log.Printf("Repost cache read failed: %v", err)
		} else if ok {
			return decodeCachedRepost(cached), nil
		}
	}

	repost, err := r.search(ctx, fetchURL)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		value := noRepost
		if repost != nil {
			value = strconv.Itoa(repost.ID)
		}
		if err := r.cache.Set(ctx, key, value, r.cacheTTL); err != nil {
			log.Printf("Repost cache write failed: %v", err)
		}
	}
	return repost, nil
}

func (r *RepostRepository) search(ctx context.Context, fetchURL string) (*domain.Repost, error) {
	endpoint := r.boardURL + domain.ReverseSearchPath + "?url=" + url.QueryEscape(fetchURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse search failed, status code: %d", resp.StatusCode)
	}

	var body reverseSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid reverse search response: %w", err)
	}
	if len(body.Images) == 0 {
		return nil, nil
	}
	return &domain.Repost{ID: body.Images[0].ID}, nil
}

func decodeCachedRepost(value string) *domain.Repost {
	id, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &domain.Repost{ID: id}
}
