package domain

const (
	DefaultBoardURL      = "https://furbooru.org"
	SubmissionPath       = "/images/new"
	ImagesPath           = "/images/"
	ReverseSearchPath    = "/api/v1/json/search/reverse"
	ArtistTagPrefix      = "artist:"
	UnknownResolution    = "???px × ???px"
	RedisKeyRepostLookup = "repost:%s"

	// Warning kinds, in increasing display precedence
	WarningText   = "text"
	WarningRepost = "repost"
)

const (
	WarnUniversalHeader  = "Universal Extractor"
	WarnUniversalBody    = "Some info may be missing or incorrect."
	WarnDeviantArtHeader = "DeviantArt"
	WarnDeviantArtBody   = "Not extracting the expected resolution. DeviantArt may hide hi-res files behind a download button."
	WarnRepostHeader     = "Repost Detected"
)
