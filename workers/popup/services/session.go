package services

import (
	"errors"
	"net/url"
	"sync"

	"github.com/Torvusil/Furadder/workers/popup/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

var (
	ErrStaleRefresh    = errors.New("refresh superseded by a newer one")
	ErrNothingSelected = errors.New("no image selected")
)

// Session is the state of one open control surface. Every mutation goes
// through its methods, which hold mu; the navigator and the draft are never
// observable half-updated.
type Session struct {
	mu         sync.Mutex
	nav        Navigator
	draft      domain.Draft
	form       domain.Form
	presetTags []string
	warnings   []domain.Warning
	host       string
	generation uint64
}

func NewSession() *Session {
	return &Session{
		draft: domain.Draft{Tags: []string{}},
	}
}

// BeginRefresh starts a new refresh generation and returns it with the form
// it should run with. Results carrying an older generation are discarded.
func (s *Session) BeginRefresh() (uint64, domain.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation, s.form
}

// Apply merges a snapshot into the session. Navigation is checked first: a
// snapshot whose index does not fit its images leaves the draft untouched and
// the navigator Empty.
func (s *Session) Apply(gen uint64, page shared.ActivePage, snapshot shared.ExtractionSnapshot, artistTags []string) (shared.ImageCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return shared.ImageCandidate{}, ErrStaleRefresh
	}

	s.host = hostOf(page.URL)
	if err := s.nav.Load(snapshot.Images, snapshot.ExpectedIdx); err != nil {
		s.warnings = nil
		return shared.ImageCandidate{}, err
	}

	s.draft.Tags = append(s.draft.Tags, artistTags...)
	s.draft.Tags = append(s.draft.Tags, snapshot.ExtractedTags...)
	s.draft.Description = snapshot.Description
	s.draft.SourceURLStr = snapshot.SourceLink
	s.draft.Autoquote = snapshot.Autoquote

	selected, _ := s.nav.Selected()
	s.draft.FetchURLStr = selected.FetchSrc
	s.warnings = nil
	return selected, nil
}

// Fail cleans up navigation and display state after a failed refresh. The
// draft is kept. It reports false when gen is stale and nothing was touched.
func (s *Session) Fail(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.nav.Cleanup()
	s.warnings = nil
	return true
}

// SetWarnings replaces the warning state if gen is still current. The
// warnings describe the image selected when that refresh was applied; Next
// and Prev keep them as they are until the following refresh.
func (s *Session) SetWarnings(gen uint64, warnings []domain.Warning) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.warnings = warnings
	return true
}

func (s *Session) Next() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.StepNext()
	s.syncFetchURL()
	return s.viewLocked()
}

func (s *Session) Prev() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.StepPrev()
	s.syncFetchURL()
	return s.viewLocked()
}

// UpdateForm stores the form. presetTags replaces the preset's tags only when
// presetKnown; otherwise the previous preset stays in effect. It reports
// whether the fetch mode changed.
func (s *Session) UpdateForm(form domain.Form, presetTags []string, presetKnown bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.form.General != form.General
	if presetKnown {
		s.presetTags = presetTags
	} else {
		form.Preset = s.form.Preset
	}
	s.form = form
	return changed
}

// SubmissionPayload builds the payload for the selected image with tags
// normalized across the draft, the preset and the rating.
func (s *Session) SubmissionPayload() (shared.PostData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nav.Empty() {
		return shared.PostData{}, ErrNothingSelected
	}
	tags := NormalizeTags(s.draft.Tags, s.presetTags, []string{s.form.Rating})
	return s.draft.PostData(tags), nil
}

func (s *Session) View() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) syncFetchURL() {
	if selected, ok := s.nav.Selected(); ok {
		s.draft.FetchURLStr = selected.FetchSrc
	}
}

func (s *Session) viewLocked() domain.SessionView {
	draft := s.draft
	draft.Tags = append([]string(nil), s.draft.Tags...)

	view := domain.SessionView{
		Host:        s.host,
		Index:       s.nav.Index(),
		Length:      s.nav.Len(),
		Manual:      s.nav.Manual(),
		Affordances: s.nav.Affordances(),
		Warnings:    DisplayWarnings(s.warnings),
		Draft:       draft,
		Form:        s.form,
		Generation:  s.generation,
	}
	if selected, ok := s.nav.Selected(); ok {
		view.Selected = &domain.SelectedImage{
			Src:        selected.Src,
			FetchSrc:   selected.FetchSrc,
			Resolution: resolutionLabel(selected, s.form),
		}
	}
	return view
}

// resolutionLabel shows a numeric size only when it is known for what will
// actually be fetched.
func resolutionLabel(img shared.ImageCandidate, form domain.Form) string {
	res, ok := img.Resolution()
	if form.General || img.LazyLoad || !ok {
		return domain.UnknownResolution
	}
	return res.String()
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
