package domain

// SourceType tells where a URL, seed or blacklist entry came from.
type SourceType string

const (
	// SourceUnknown is the fallback when provenance was not recorded.
	SourceUnknown SourceType = "unknown"
	// SourceUser marks entities added by a human.
	SourceUser SourceType = "user"
	// SourceAuto marks entities produced by the pipelines themselves.
	SourceAuto SourceType = "auto"
	// SourceSeed marks URLs discovered through a search seed.
	SourceSeed SourceType = "seed"
	// SourceError marks blacklist entries caused by a crawl error.
	SourceError SourceType = "error"
)

// Source is the provenance of a persisted entity. The meaning of Extra
// depends on Type: parent URL for auto, seed query for seed, user id for
// user, error message for error.
type Source struct {
	Type  SourceType `json:"type"`
	Extra string     `json:"extra,omitempty"`
}

// AutoSource builds a Source for an entity produced by the pipeline. The
// parent URL may be empty, in which case provenance is unknown.
func AutoSource(parentURL string) Source {
	if parentURL == "" {
		return Source{Type: SourceUnknown}
	}
	return Source{Type: SourceAuto, Extra: parentURL}
}

// UserSource builds a Source for an entity added by a human. The user id may
// be empty.
func UserSource(userID string) Source {
	return Source{Type: SourceUser, Extra: userID}
}

// SeedSource builds a Source for a URL discovered via a search seed.
func SeedSource(query string) Source {
	return Source{Type: SourceSeed, Extra: query}
}

// ErrorSource builds a Source for a blacklist entry caused by a crawl error.
func ErrorSource(message string) Source {
	return Source{Type: SourceError, Extra: message}
}
