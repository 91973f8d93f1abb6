package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Torvusil/Furadder/workers/extractor/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

// Extractor turns a parsed page into an extraction snapshot.
type Extractor interface {
	Matches(u *url.URL) bool
	Extract(page domain.Page, req shared.ExtractRequest) (shared.ExtractionSnapshot, error)
}

// TwitterExtractor reads media from tweet pages.
type TwitterExtractor struct{}

func (TwitterExtractor) Matches(u *url.URL) bool {
	return domain.TwitterHosts[strings.ToLower(u.Hostname())]
}

func (TwitterExtractor) Extract(page domain.Page, req shared.ExtractRequest) (shared.ExtractionSnapshot, error) {
	var images []shared.ImageCandidate
	for _, img := range page.Images {
		if !strings.Contains(img.Src, domain.TwitterMediaPrefix) {
			continue
		}
		w, h := parseSize(img.Width, img.Height)
		images = append(images, shared.NewImageCandidate(img.Src, "", w, h, false))
	}

	snapshot := shared.ExtractionSnapshot{
		ListenerType: shared.ListenerTwitter,
		ExpectedIdx:  photoIndex(req.URLStr),
	}

	switch req.FetchType {
	case shared.FetchTypeDirect:
		snapshot.Images = images
		snapshot.Authors = []string{firstPathSegment(page.URL)}
		snapshot.Description = EscapeMarkdown(description(page))
		snapshot.SourceLink = page.URL.String()
		snapshot.ExtractedTags = postingYear(page)
	case shared.FetchTypeGeneral:
		// the booru fetches the tweet itself
		for i := range images {
			images[i].FetchSrc = page.URL.String()
		}
		snapshot.Images = images
	default:
		return shared.ExtractionSnapshot{}, fmt.Errorf(domain.ErrMsgFetchType, req.FetchType)
	}

	return snapshot, nil
}

// DeviantArtExtractor reads the deviation's preview image and its announced size.
type DeviantArtExtractor struct{}

func (DeviantArtExtractor) Matches(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	return host == "deviantart.com" || strings.HasSuffix(host, ".deviantart.com")
}

func (DeviantArtExtractor) Extract(page domain.Page, req shared.ExtractRequest) (shared.ExtractionSnapshot, error) {
	if req.FetchType != shared.FetchTypeDirect && req.FetchType != shared.FetchTypeGeneral {
		return shared.ExtractionSnapshot{}, fmt.Errorf(domain.ErrMsgFetchType, req.FetchType)
	}

	snapshot := shared.ExtractionSnapshot{
		ListenerType: shared.ListenerDeviantArt,
		SourceLink:   page.URL.String(),
		Description:  EscapeMarkdown(description(page)),
	}
	if author := firstPathSegment(page.URL); author != "" {
		snapshot.Authors = []string{author}
	}

	src := page.Metas["og:image"]
	if src == "" {
		return snapshot, nil
	}
	w, h := parseSize(page.Metas["og:image:width"], page.Metas["og:image:height"])
	fetchSrc := ""
	if req.FetchType == shared.FetchTypeGeneral {
		fetchSrc = page.URL.String()
	}
	candidate := shared.NewImageCandidate(resolve(page.URL, src), fetchSrc, w, h, false)
	snapshot.Images = []shared.ImageCandidate{candidate}
	if res, ok := candidate.Resolution(); ok {
		snapshot.ExpectedResolutions = []shared.Resolution{res}
	}

	return snapshot, nil
}

// UniversalExtractor is the fallback for pages no other extractor claims.
type UniversalExtractor struct{}

func (UniversalExtractor) Matches(*url.URL) bool { return true }

func (UniversalExtractor) Extract(page domain.Page, req shared.ExtractRequest) (shared.ExtractionSnapshot, error) {
	if req.FetchType != shared.FetchTypeDirect && req.FetchType != shared.FetchTypeGeneral {
		return shared.ExtractionSnapshot{}, fmt.Errorf(domain.ErrMsgFetchType, req.FetchType)
	}

	var images []shared.ImageCandidate
	for _, img := range page.Images {
		src := img.Src
		if src == "" {
			src = img.DataSrc
		}
		if src == "" {
			continue
		}
		w, h := parseSize(img.Width, img.Height)
		lazy := strings.EqualFold(img.Loading, "lazy") || img.DataSrc != ""
		images = append(images, shared.NewImageCandidate(resolve(page.URL, src), "", w, h, lazy))
	}

	snapshot := shared.ExtractionSnapshot{
		ListenerType: shared.ListenerUniversal,
		Images:       images,
		Description:  EscapeMarkdown(description(page)),
		SourceLink:   page.URL.String(),
	}
	if author := page.Metas["author"]; author != "" {
		snapshot.Authors = []string{author}
	}

	return snapshot, nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"~", `\~`,
	"|", `\|`,
	"[", `\[`,
	"]", `\]`,
)

// EscapeMarkdown keeps scraped text literal once it lands in a booru description.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// photoIndex is N-1 for URLs ending in /photo/N, else 0.
func photoIndex(rawURL string) int {
	parts := strings.Split(strings.TrimRight(rawURL, "/"), "/")
	if len(parts) > 2 && parts[len(parts)-2] == "photo" {
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			return n - 1
		}
	}
	return 0
}

func firstPathSegment(u *url.URL) string {
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

func description(page domain.Page) string {
	if d := page.Metas["og:description"]; d != "" {
		return d
	}
	return page.Metas["description"]
}

func postingYear(page domain.Page) []string {
	if len(page.Times) == 0 {
		return nil
	}
	t, err := time.Parse(time.RFC3339, page.Times[0])
	if err != nil {
		return nil
	}
	return []string{strconv.Itoa(t.Year())}
}

func parseSize(width, height string) (*int, *int) {
	w, errW := strconv.Atoi(strings.TrimSpace(width))
	h, errH := strconv.Atoi(strings.TrimSpace(height))
	if errW != nil || errH != nil {
		return nil, nil
	}
	return &w, &h
}

func resolve(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
