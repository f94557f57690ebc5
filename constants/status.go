package constants

// DraftStatus is the canonical lifecycle status of a quote draft.
type DraftStatus string

// Stable values (store these exact strings in DB and API payloads).
const (
	DraftStatusEmpty   DraftStatus = "EMPTY"   // nothing usable extracted yet
	DraftStatusPartial DraftStatus = "PARTIAL" // some fields known, not quotable
	DraftStatusReady   DraftStatus = "READY"   // all required fields present
)
