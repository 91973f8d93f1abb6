package services

import (
	"testing"

	"github.com/Torvusil/Furadder/workers/popup/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"

	"github.com/stretchr/testify/assert"
)

func TestSession_NavigationUpdatesFetchURL(t *testing.T) {
	s := NewSession()
	gen, _ := s.BeginRefresh()
	_, err := s.Apply(gen, activePage, shared.ExtractionSnapshot{Images: images(2)}, nil)
	assert.NoError(t, err)

	view := s.Next()
	assert.Equal(t, 1, view.Index)
	assert.Equal(t, "http://img/b.png", view.Draft.FetchURLStr)
	assert.Equal(t, domain.Affordances{Prev: true, Next: false}, view.Affordances)

	view = s.Prev()
	assert.Equal(t, "http://img/a.png", view.Draft.FetchURLStr)
}

func TestSession_StaleGenerationIsIgnored(t *testing.T) {
	s := NewSession()
	old, _ := s.BeginRefresh()
	current, _ := s.BeginRefresh()

	_, err := s.Apply(old, activePage, shared.ExtractionSnapshot{Images: images(1)}, []string{"artist:x"})
	assert.ErrorIs(t, err, ErrStaleRefresh)
	assert.False(t, s.Fail(old))
	assert.False(t, s.SetWarnings(old, []domain.Warning{{Header: "x"}}))

	_, err = s.Apply(current, activePage, shared.ExtractionSnapshot{Images: images(1)}, nil)
	assert.NoError(t, err)
	assert.Empty(t, s.View().Draft.Tags)
	assert.True(t, s.Fail(current))
	assert.Nil(t, s.View().Selected)
}

func TestSession_ResolutionLabel(t *testing.T) {
	s := NewSession()
	lazy := shared.NewImageCandidate("http://img/lazy.png", "", intPtr(5), intPtr(6), true)
	gen, _ := s.BeginRefresh()
	_, err := s.Apply(gen, activePage, shared.ExtractionSnapshot{Images: []shared.ImageCandidate{sized("http://img/a.png", 1200, 900), lazy}}, nil)
	assert.NoError(t, err)

	assert.Equal(t, "1200px × 900px", s.View().Selected.Resolution)
	assert.Equal(t, domain.UnknownResolution, s.Next().Selected.Resolution)
}

func TestSession_UpdateForm(t *testing.T) {
	s := NewSession()

	assert.True(t, s.UpdateForm(domain.Form{General: true, Preset: "furry", Rating: "safe"}, []string{"furry"}, true))
	assert.False(t, s.UpdateForm(domain.Form{General: true, Preset: "missing", Rating: "explicit"}, nil, false))

	view := s.View()
	assert.Equal(t, "furry", view.Form.Preset)
	assert.Equal(t, "explicit", view.Form.Rating)
	assert.Equal(t, []string{"furry"}, s.presetTags)
}

func TestSession_SubmissionPayload(t *testing.T) {
	s := NewSession()
	_, err := s.SubmissionPayload()
	assert.ErrorIs(t, err, ErrNothingSelected)

	s.UpdateForm(domain.Form{Preset: "p", Rating: "Safe"}, []string{"Feral", "artist:A"}, true)
	gen, _ := s.BeginRefresh()
	_, err = s.Apply(gen, activePage, shared.ExtractionSnapshot{
		Images:      images(1),
		Description: "d",
		SourceLink:  "https://src",
		Autoquote:   true,
	}, []string{"artist:a"})
	assert.NoError(t, err)

	payload, err := s.SubmissionPayload()
	assert.NoError(t, err)
	assert.Equal(t, shared.PostData{
		FetchURLStr:  "http://img/a.png",
		SourceURLStr: "https://src",
		Description:  "d",
		Tags:         []string{"artist:a", "feral", "safe"},
		Autoquote:    true,
	}, payload)
}

func TestSession_ViewCopiesTags(t *testing.T) {
	s := NewSession()
	gen, _ := s.BeginRefresh()
	_, _ = s.Apply(gen, activePage, shared.ExtractionSnapshot{Images: images(1)}, []string{"artist:a"})

	view := s.View()
	view.Draft.Tags[0] = "mutated"

	assert.Equal(t, []string{"artist:a"}, s.View().Draft.Tags)
}

func TestSession_WarningsBelongToRefreshedSelection(t *testing.T) {
	s := NewSession()
	gen, _ := s.BeginRefresh()
	selected, err := s.Apply(gen, activePage, shared.ExtractionSnapshot{Images: images(2)}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "http://img/a.png", selected.FetchSrc)

	repost := domain.Warning{Kind: domain.WarningRepost, Header: domain.WarnRepostHeader, ImageID: 42}
	assert.True(t, s.SetWarnings(gen, []domain.Warning{repost}))

	view := s.Next()
	assert.Equal(t, "http://img/b.png", view.Draft.FetchURLStr)
	assert.Equal(t, []domain.Warning{repost}, view.Warnings)

	gen, _ = s.BeginRefresh()
	_, err = s.Apply(gen, activePage, shared.ExtractionSnapshot{Images: images(2)}, nil)
	assert.NoError(t, err)
	assert.Empty(t, s.View().Warnings)
}
