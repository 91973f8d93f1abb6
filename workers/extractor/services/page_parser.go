package services

import (
	"io"
	"net/url"
	"strings"

	"github.com/Torvusil/Furadder/workers/extractor/domain"

	"golang.org/x/net/html"
)

// ParsePage walks the document once and keeps what the extractors read.
func ParsePage(body io.Reader, pageURL *url.URL) domain.Page {
	page := domain.Page{
		URL:   pageURL,
		Metas: make(map[string]string),
	}

	tokenizer := html.NewTokenizer(body)
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		token := tokenizer.Token()
		switch token.Data {
		case "img":
			page.Images = append(page.Images, domain.ImageTag{
				Src:     attr(token, "src"),
				DataSrc: attr(token, "data-src"),
				Width:   attr(token, "width"),
				Height:  attr(token, "height"),
				Loading: attr(token, "loading"),
			})
		case "meta":
			key := attr(token, "property")
			if key == "" {
				key = attr(token, "name")
			}
			key = strings.ToLower(key)
			if _, seen := page.Metas[key]; key != "" && !seen {
				page.Metas[key] = attr(token, "content")
			}
		case "time":
			if dt := attr(token, "datetime"); dt != "" {
				page.Times = append(page.Times, dt)
			}
		}
	}

	return page
}

func attr(token html.Token, key string) string {
	for _, a := range token.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
