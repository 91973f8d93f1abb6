package services

import (
	"context"
	"log"

	"github.com/Torvusil/Furadder/workers/popup/domain"
)

type PresetSource interface {
	Tags(name string) ([]string, bool)
}

type Refresher interface {
	Refresh(ctx context.Context)
}

// FormService applies form edits. Switching the fetch mode re-extracts.
type FormService struct {
	session   *Session
	presets   PresetSource
	refresher Refresher
}

func NewFormService(session *Session, presets PresetSource, refresher Refresher) *FormService {
	return &FormService{
		session:   session,
		presets:   presets,
		refresher: refresher,
	}
}

func (s *FormService) Update(ctx context.Context, form domain.Form) domain.SessionView {
	tags, ok := s.presets.Tags(form.Preset)
	if !ok {
		log.Printf("Tag preset %q failed to load, keeping the previous one", form.Preset)
	}

	if s.session.UpdateForm(form, tags, ok) {
		s.refresher.Refresh(ctx)
	}
	return s.session.View()
}
