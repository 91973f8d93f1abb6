package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Torvusil/Furadder/workers/popup/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

var ErrNoActivePage = errors.New("no active page")

// Consumer-side interfaces
type ActivePageSource interface {
	Current(ctx context.Context) (shared.ActivePage, bool, error)
}

type Messenger interface {
	Send(ctx context.Context, target, command string, data interface{}, timeout time.Duration) (shared.Reply, error)
}

type AliasResolver interface {
	Resolve(ctx context.Context, listenerType, author string) (string, bool)
}

type WarningEvaluator interface {
	Evaluate(ctx context.Context, snapshot shared.ExtractionSnapshot, selected shared.ImageCandidate) []domain.Warning
}

// Orchestrator runs extraction refreshes against the active page and merges
// their results into the session.
type Orchestrator struct {
	session        *Session
	pages          ActivePageSource
	messenger      Messenger
	aliases        AliasResolver
	warnings       WarningEvaluator
	extractTimeout time.Duration
}

// Functional Options Pattern
type OrchestratorOption func(*Orchestrator)

func WithActivePages(p ActivePageSource) OrchestratorOption {
	return func(o *Orchestrator) { o.pages = p }
}

func WithMessenger(m Messenger) OrchestratorOption {
	return func(o *Orchestrator) { o.messenger = m }
}

func WithAliases(a AliasResolver) OrchestratorOption {
	return func(o *Orchestrator) { o.aliases = a }
}

func WithWarnings(w WarningEvaluator) OrchestratorOption {
	return func(o *Orchestrator) { o.warnings = w }
}

func WithExtractTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.extractTimeout = d }
}

func NewOrchestrator(session *Session, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		session:        session,
		extractTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Refresh requests a snapshot from the active page and applies it. Failures
// are logged and clean up navigation; they never reach the caller.
func (o *Orchestrator) Refresh(ctx context.Context) {
	gen, form := o.session.BeginRefresh()

	page, snapshot, err := o.extract(ctx, form.FetchType())
	if err != nil {
		log.Printf("Extraction failed: %v", err)
		if !o.session.Fail(gen) {
			log.Printf("Ignoring failure of superseded refresh %d", gen)
		}
		return
	}

	selected, err := o.session.Apply(gen, page, snapshot, o.artistTags(ctx, snapshot))
	if errors.Is(err, ErrStaleRefresh) {
		log.Printf("Discarding snapshot of superseded refresh %d", gen)
		return
	}
	if err != nil {
		log.Printf("Extraction failed: %v", err)
		return
	}

	if o.warnings == nil {
		return
	}
	if !o.session.SetWarnings(gen, o.warnings.Evaluate(ctx, snapshot, selected)) {
		log.Printf("Discarding warnings of superseded refresh %d", gen)
	}
}

func (o *Orchestrator) extract(ctx context.Context, fetchType string) (shared.ActivePage, shared.ExtractionSnapshot, error) {
	var snapshot shared.ExtractionSnapshot

	page, ok, err := o.pages.Current(ctx)
	if err != nil {
		return page, snapshot, fmt.Errorf("failed to look up active page: %w", err)
	}
	if !ok {
		return page, snapshot, ErrNoActivePage
	}

	reply, err := o.messenger.Send(ctx, page.ContextID, shared.CmdExtractData, shared.ExtractRequest{
		URLStr:    page.URL,
		FetchType: fetchType,
	}, o.extractTimeout)
	if err != nil {
		return page, snapshot, err
	}
	if !reply.Success {
		return page, snapshot, shared.NewBusError(shared.KindLogicalFailure, page.ContextID, shared.ErrNotInteractive)
	}
	if err := json.Unmarshal(reply.Data, &snapshot); err != nil {
		return page, snapshot, fmt.Errorf("invalid extraction snapshot from %s: %w", page.ContextID, err)
	}
	return page, snapshot, nil
}

// artistTags prefixes every author, aliased when an alias is known.
func (o *Orchestrator) artistTags(ctx context.Context, snapshot shared.ExtractionSnapshot) []string {
	var tags []string
	for _, author := range snapshot.Authors {
		if author == "" {
			continue
		}
		name := author
		if o.aliases != nil && snapshot.ListenerType != "" {
			if alias, ok := o.aliases.Resolve(ctx, snapshot.ListenerType, author); ok {
				name = alias
			}
		}
		tags = append(tags, domain.ArtistTagPrefix+name)
	}
	return tags
}
