package domain

import (
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

// Draft is the submission being accumulated by one control surface session.
type Draft struct {
	FetchURLStr  string   `json:"fetchURLStr"`
	SourceURLStr string   `json:"sourceURLStr"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	Autoquote    bool     `json:"autoquote"`
}

// PostData turns the draft into a payload carrying the given tags.
func (d Draft) PostData(tags []string) shared.PostData {
	return shared.PostData{
		FetchURLStr:  d.FetchURLStr,
		SourceURLStr: d.SourceURLStr,
		Description:  d.Description,
		Tags:         tags,
		Autoquote:    d.Autoquote,
	}
}

// Form is the user-editable part of the control surface.
type Form struct {
	General bool   `json:"general"`
	Preset  string `json:"preset"`
	Rating  string `json:"rating"`
}

// FetchType maps the general-fetch toggle to an extraction mode.
func (f Form) FetchType() string {
	if f.General {
		return shared.FetchTypeGeneral
	}
	return shared.FetchTypeDirect
}

// Warning is one entry of the session's warning state.
type Warning struct {
	Kind    string `json:"kind"`
	Header  string `json:"header"`
	Body    string `json:"body"`
	ImageID int    `json:"imageId,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Repost is a board image that already carries the candidate.
type Repost struct {
	ID int `json:"id"`
}

// Affordances say which navigation buttons are enabled.
type Affordances struct {
	Prev bool `json:"prev"`
	Next bool `json:"next"`
}

// SelectedImage is the display form of the cursor's current candidate.
type SelectedImage struct {
	Src        string `json:"src"`
	FetchSrc   string `json:"fetchSrc"`
	Resolution string `json:"resolution"`
}

// SessionView is a consistent snapshot of the session for rendering.
type SessionView struct {
	Host        string         `json:"host"`
	Selected    *SelectedImage `json:"selected,omitempty"`
	Index       int            `json:"index"`
	Length      int            `json:"length"`
	Manual      bool           `json:"manual"`
	Affordances Affordances    `json:"affordances"`
	Warnings    []Warning      `json:"warnings"`
	Draft       Draft          `json:"draft"`
	Form        Form           `json:"form"`
	Generation  uint64         `json:"generation"`
}
