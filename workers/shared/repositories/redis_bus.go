package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Torvusil/Furadder/workers/shared/domain"

	"github.com/google/uuid"
)

// Handler answers one envelope. A returned error is sent back as a rejection.
type Handler func(ctx context.Context, env domain.Envelope) (domain.Reply, error)

// RedisBus is a request/reply message bus between isolated contexts.
// A context is reachable only while its presence key is alive.
type RedisBus struct {
	redis       RedisClient
	newID       func() string
	now         func() time.Time
	heartbeat   time.Duration
	presenceTTL time.Duration
	pollTimeout time.Duration
	replyTTL    time.Duration
	errorDelay  time.Duration
}

type BusOption func(*RedisBus)

func WithIDGenerator(f func() string) BusOption {
	return func(b *RedisBus) { b.newID = f }
}

func WithClock(now func() time.Time) BusOption {
	return func(b *RedisBus) { b.now = now }
}

func WithPresence(heartbeat, ttl time.Duration) BusOption {
	return func(b *RedisBus) {
		b.heartbeat = heartbeat
		b.presenceTTL = ttl
	}
}

func WithPollTimeout(d time.Duration) BusOption {
	return func(b *RedisBus) { b.pollTimeout = d }
}

func WithErrorDelay(d time.Duration) BusOption {
	return func(b *RedisBus) { b.errorDelay = d }
}

func NewRedisBus(client RedisClient, opts ...BusOption) *RedisBus {
	b := &RedisBus{
		redis:       client,
		newID:       uuid.NewString,
		now:         time.Now,
		heartbeat:   5 * time.Second,
		presenceTTL: 15 * time.Second,
		pollTimeout: time.Second,
		replyTTL:    time.Minute,
		errorDelay:  2 * time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Send pushes command+data to target and waits up to timeout for its reply.
// Every failure is a *domain.BusError.
func (b *RedisBus) Send(ctx context.Context, target, command string, data interface{}, timeout time.Duration) (domain.Reply, error) {
	alive, err := b.redis.Exists(ctx, fmt.Sprintf(domain.RedisKeyAlive, target))
	if err != nil {
		return domain.Reply{}, domain.NewBusError(domain.KindFatal, target, err)
	}
	if !alive {
		return domain.Reply{}, domain.NewBusError(domain.KindNoReceiver, target, domain.ErrNoReceiver)
	}

	body, err := json.Marshal(data)
	if err != nil {
		return domain.Reply{}, domain.NewBusError(domain.KindFatal, target, fmt.Errorf("failed to marshal data: %w", err))
	}
	id := b.newID()
	wait := blockingTimeout(timeout)
	env := domain.Envelope{
		ID:        id,
		Command:   command,
		Data:      body,
		ReplyTo:   fmt.Sprintf(domain.RedisKeyReply, id),
		ExpiresAt: b.now().Add(wait).UnixMilli(),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return domain.Reply{}, domain.NewBusError(domain.KindFatal, target, fmt.Errorf("failed to marshal envelope: %w", err))
	}
	if err := b.redis.RPush(ctx, fmt.Sprintf(domain.RedisKeyInbox, target), string(raw)); err != nil {
		return domain.Reply{}, domain.NewBusError(domain.KindFatal, target, err)
	}

	val, ok, err := b.redis.BLPop(ctx, wait, env.ReplyTo)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.Reply{}, domain.NewBusError(domain.KindTimeout, target, domain.ErrReplyTimeout)
		}
		return domain.Reply{}, domain.NewBusError(domain.KindFatal, target, err)
	}
	if !ok {
		return domain.Reply{}, domain.NewBusError(domain.KindTimeout, target, domain.ErrReplyTimeout)
	}

	var reply domain.Reply
	if err := json.Unmarshal([]byte(val), &reply); err != nil {
		return domain.Reply{}, domain.NewBusError(domain.KindFatal, target, fmt.Errorf("failed to unmarshal reply: %w", err))
	}
	if reply.Error != "" {
		return reply, domain.NewBusError(domain.KindFatal, target, &domain.Rejection{Reason: reply.Error})
	}
	return reply, nil
}

// blockingTimeout rounds up to whole seconds; BLPOP treats 0 as "block forever".
func blockingTimeout(d time.Duration) time.Duration {
	if d < time.Second {
		return time.Second
	}
	return (d + time.Second - 1) / time.Second * time.Second
}

// Listen registers contextID and serves its inbox until ctx is done.
// Envelopes are handled one at a time, in arrival order.
func (b *RedisBus) Listen(ctx context.Context, contextID string, handler Handler) error {
	aliveKey := fmt.Sprintf(domain.RedisKeyAlive, contextID)
	inboxKey := fmt.Sprintf(domain.RedisKeyInbox, contextID)

	if err := b.redis.Set(ctx, aliveKey, "1", b.presenceTTL); err != nil {
		return fmt.Errorf("failed to register context %s: %w", contextID, err)
	}

	beatCtx, stopBeat := context.WithCancel(ctx)
	var beats sync.WaitGroup
	beats.Add(1)
	go func() {
		defer beats.Done()
		b.keepAlive(beatCtx, contextID, aliveKey)
	}()
	defer func() {
		stopBeat()
		beats.Wait()
		if err := b.redis.Del(context.Background(), aliveKey); err != nil {
			log.Printf("failed to unregister context %s: %v", contextID, err)
		}
	}()

	log.Printf("Context %s listening on %s", contextID, inboxKey)
	for {
		select {
		case <-ctx.Done():
			log.Printf("Context %s stopping...", contextID)
			return nil
		default:
		}

		raw, ok, err := b.redis.BLPop(ctx, b.pollTimeout, inboxKey)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Printf("Error receiving envelopes for %s: %v", contextID, err)
			time.Sleep(b.errorDelay)
			continue
		}
		if !ok {
			continue
		}
		b.dispatch(ctx, contextID, handler, raw)
	}
}

// keepAlive refreshes the presence key until ctx is done, independently of
// how long a handler runs.
func (b *RedisBus) keepAlive(ctx context.Context, contextID, aliveKey string) {
	ticker := time.NewTicker(b.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.redis.Set(ctx, aliveKey, "1", b.presenceTTL); err != nil && ctx.Err() == nil {
				log.Printf("failed to refresh presence for %s: %v", contextID, err)
			}
		}
	}
}

func (b *RedisBus) dispatch(ctx context.Context, contextID string, handler Handler, raw string) {
	var env domain.Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Printf("Dropping malformed envelope for %s: %v", contextID, err)
		return
	}
	if env.Expired(b.now()) {
		log.Printf("Dropping expired envelope %s (%s) for %s", env.ID, env.Command, contextID)
		return
	}

	reply, err := handler(ctx, env)
	if err != nil {
		reply = domain.Reply{Success: false, Error: err.Error()}
	}
	if env.ReplyTo == "" {
		return
	}

	body, err := json.Marshal(reply)
	if err != nil {
		log.Printf("failed to marshal reply to %s: %v", env.ID, err)
		return
	}
	if err := b.redis.RPush(ctx, env.ReplyTo, string(body)); err != nil {
		log.Printf("failed to send reply to %s: %v", env.ID, err)
		return
	}
	if err := b.redis.Expire(ctx, env.ReplyTo, b.replyTTL); err != nil {
		log.Printf("failed to set expiry on reply %s: %v", env.ID, err)
	}
}
