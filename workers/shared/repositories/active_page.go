package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Torvusil/Furadder/workers/shared/domain"
)

// ActivePageRepository records which page context the control surface talks to.
type ActivePageRepository struct {
	client RedisClient
}

func NewActivePageRepository(client RedisClient) *ActivePageRepository {
	return &ActivePageRepository{client: client}
}

// Publish makes page the active one, replacing whatever was there.
func (r *ActivePageRepository) Publish(ctx context.Context, page domain.ActivePage) error {
	body, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, domain.RedisKeyActivePage, string(body), 0)
}

// Current returns the active page; ok is false when none is published.
func (r *ActivePageRepository) Current(ctx context.Context) (domain.ActivePage, bool, error) {
	var page domain.ActivePage
	raw, ok, err := r.client.Get(ctx, domain.RedisKeyActivePage)
	if err != nil || !ok {
		return page, false, err
	}
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		return page, false, fmt.Errorf("invalid active page record: %w", err)
	}
	return page, true, nil
}

// Withdraw clears the record, but only while it still names contextID.
func (r *ActivePageRepository) Withdraw(ctx context.Context, contextID string) error {
	page, ok, err := r.Current(ctx)
	if err != nil || !ok || page.ContextID != contextID {
		return err
	}
	return r.client.Del(ctx, domain.RedisKeyActivePage)
}
