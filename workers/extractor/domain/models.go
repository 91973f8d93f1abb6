package domain

import "net/url"

// ImageTag is an <img> element as found in the page source.
type ImageTag struct {
	Src     string
	DataSrc string
	Width   string
	Height  string
	Loading string
}

// Page is what one tokenizer pass keeps of a document.
type Page struct {
	URL    *url.URL
	Images []ImageTag
	Metas  map[string]string // name or property -> content, first occurrence wins
	Times  []string          // datetime attributes of <time> elements, in order
}
