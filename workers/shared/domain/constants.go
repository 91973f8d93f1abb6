package domain

const (
	// Commands
	CmdExtractData         = "contentExtractData"
	CmdFillSubmission      = "contentFurbooruFetch"
	CmdCreateSubmissionTab = "createSubmissionTab"

	// Fetch modes understood by the content extractor
	FetchTypeDirect  = "direct"
	FetchTypeGeneral = "general"

	// Extractor kinds reported in ExtractionSnapshot.ListenerType
	ListenerUniversal  = "universal"
	ListenerTwitter    = "twitter"
	ListenerDeviantArt = "deviantart"

	// Redis Key Patterns
	RedisKeyAlive      = "bus:ctx:%s:alive"
	RedisKeyInbox      = "bus:ctx:%s:inbox"
	RedisKeyReply      = "bus:reply:%s"
	RedisKeyActivePage = "bus:active_page"

	// CoordinatorContextID is the bus address of the background coordinator.
	CoordinatorContextID = "coordinator"
)
