package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Torvusil/Furadder/workers/popup/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

type RepostLookup interface {
	Lookup(ctx context.Context, fetchURL string) (*domain.Repost, error)
}

// WarningService evaluates a freshly applied snapshot.
type WarningService struct {
	reposts  RepostLookup
	boardURL string
}

func NewWarningService(reposts RepostLookup, boardURL string) *WarningService {
	return &WarningService{
		reposts:  reposts,
		boardURL: strings.TrimRight(boardURL, "/"),
	}
}

// Evaluate returns every warning that applies. A failed repost lookup is
// logged and contributes nothing.
func (s *WarningService) Evaluate(ctx context.Context, snapshot shared.ExtractionSnapshot, selected shared.ImageCandidate) []domain.Warning {
	var warnings []domain.Warning

	if snapshot.ListenerType == shared.ListenerUniversal {
		warnings = append(warnings, domain.Warning{
			Kind:   domain.WarningText,
			Header: domain.WarnUniversalHeader,
			Body:   domain.WarnUniversalBody,
		})
	}

	if snapshot.ListenerType == shared.ListenerDeviantArt && !matchesExpected(selected, snapshot.ExpectedResolutions) {
		warnings = append(warnings, domain.Warning{
			Kind:   domain.WarningText,
			Header: domain.WarnDeviantArtHeader,
			Body:   domain.WarnDeviantArtBody,
		})
	}

	if s.reposts != nil && selected.FetchSrc != "" {
		repost, err := s.reposts.Lookup(ctx, selected.FetchSrc)
		if err != nil {
			log.Printf("Encountered an error looking up repost: %v", err)
		} else if repost != nil {
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarningRepost,
				Header:  domain.WarnRepostHeader,
				Body:    fmt.Sprintf("ID# %d", repost.ID),
				ImageID: repost.ID,
				URL:     fmt.Sprintf("%s%s%d", s.boardURL, domain.ImagesPath, repost.ID),
			})
		}
	}

	return warnings
}

// DisplayWarnings picks what the user sees: a repost notice hides every
// other warning, which is still kept in the session.
func DisplayWarnings(warnings []domain.Warning) []domain.Warning {
	var reposts []domain.Warning
	for _, w := range warnings {
		if w.Kind == domain.WarningRepost {
			reposts = append(reposts, w)
		}
	}
	if len(reposts) > 0 {
		return reposts
	}
	return append([]domain.Warning{}, warnings...)
}

func matchesExpected(img shared.ImageCandidate, expected []shared.Resolution) bool {
	res, ok := img.Resolution()
	if !ok {
		return false
	}
	for _, e := range expected {
		if e == res {
			return true
		}
	}
	return false
}
