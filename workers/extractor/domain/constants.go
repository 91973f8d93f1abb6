package domain

const (
	// Context id pattern for hosted pages
	PageContextPrefix = "page:"

	TwitterMediaPrefix = "https://pbs.twimg.com/media/"

	ErrMsgInvalidCommand = "Not a valid command for the content extractor"
	ErrMsgFetchType      = "Unsupported fetch type: %s"
)

// TwitterHosts are served by the twitter extractor.
var TwitterHosts = map[string]bool{
	"twitter.com":        true,
	"www.twitter.com":    true,
	"mobile.twitter.com": true,
	"x.com":              true,
	"www.x.com":          true,
}
