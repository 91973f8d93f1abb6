package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is a request travelling between contexts.
// ExpiresAt is in Unix milliseconds; zero never expires.
type Envelope struct {
	ID        string          `json:"id"`
	Command   string          `json:"command"`
	Data      json.RawMessage `json:"data,omitempty"`
	ReplyTo   string          `json:"reply_to,omitempty"`
	ExpiresAt int64           `json:"expires_at,omitempty"`
}

// Expired reports whether the sender has stopped waiting for a reply.
func (e Envelope) Expired(now time.Time) bool {
	return e.ExpiresAt != 0 && now.UnixMilli() >= e.ExpiresAt
}

// Reply answers an Envelope. A non-empty Error is a rejection by the receiver.
type Reply struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Command is the router-facing shape of an inbound request.
type Command struct {
	Command string          `json:"command"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// RouteResponse is what the coordinator answers to every command.
type RouteResponse struct {
	Success bool `json:"success"`
}

// Resolution is a pixel size.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dpx × %dpx", r.Width, r.Height)
}

// ImageCandidate is one scrapeable image found on a page.
// Width and Height are nil when the size is unknown without fetching the image.
type ImageCandidate struct {
	Src      string `json:"src"`
	FetchSrc string `json:"fetchSrc"`
	Width    *int   `json:"width"`
	Height   *int   `json:"height"`
	LazyLoad bool   `json:"lazyLoad"`
}

// Resolution reports the candidate's size. A half-known size counts as unknown.
func (c ImageCandidate) Resolution() (Resolution, bool) {
	if c.Width == nil || c.Height == nil {
		return Resolution{}, false
	}
	return Resolution{Width: *c.Width, Height: *c.Height}, true
}

// NewImageCandidate builds a candidate, dropping a size unless both sides are known.
func NewImageCandidate(src, fetchSrc string, width, height *int, lazy bool) ImageCandidate {
	if fetchSrc == "" {
		fetchSrc = src
	}
	if width == nil || height == nil {
		width, height = nil, nil
	}
	return ImageCandidate{Src: src, FetchSrc: fetchSrc, Width: width, Height: height, LazyLoad: lazy}
}

// ExtractRequest is the payload of CmdExtractData.
type ExtractRequest struct {
	URLStr    string `json:"urlStr"`
	FetchType string `json:"fetchType"`
}

// ExtractionSnapshot is one completed scrape of a page.
type ExtractionSnapshot struct {
	ListenerType        string           `json:"listenerType"`
	Images              []ImageCandidate `json:"images"`
	Authors             []string         `json:"authors"`
	Description         string           `json:"description"`
	SourceLink          string           `json:"sourceLink"`
	ExpectedIdx         int              `json:"expectedIdx"`
	ExtractedTags       []string         `json:"extractedTags"`
	ExpectedResolutions []Resolution     `json:"expectedResolutions,omitempty"`
	Autoquote           bool             `json:"autoquote,omitempty"`
}

// PostData is the finalized submission payload pushed into the destination page.
type PostData struct {
	FetchURLStr  string   `json:"fetchURLStr"`
	SourceURLStr string   `json:"sourceURLStr"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	Autoquote    bool     `json:"autoquote,omitempty"`
}

// CreateSubmissionTabData is the payload of CmdCreateSubmissionTab.
type CreateSubmissionTabData struct {
	URLStr   string   `json:"urlStr"`
	PostData PostData `json:"postData"`
}

// ActivePage identifies the page the control surface is looking at.
type ActivePage struct {
	ContextID string `json:"contextId"`
	URL       string `json:"url"`
}
