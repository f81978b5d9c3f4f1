// File: internal/auth/identity.go
package auth

import (
	"strings"
)

// ExternalIdentity is the normalized, provider-verified identity assertion a
// login attempt starts from. It is created fresh per attempt and never
// persisted. Emails must contain at least one entry; the fetcher enforces it.
type ExternalIdentity struct {
	Provider       string
	ProviderUserID string
	Emails         []string
	DisplayName    string
}

// SplitDisplayName decomposes a free-text display name into first and last
// name fields. One token yields (token, ""); two or more yield the first and
// last tokens with middle tokens discarded. This is a lossy heuristic, not a
// correctness guarantee: real display names violate first/last assumptions and
// that is accepted here. It never fails; empty input yields ("", "").
func SplitDisplayName(displayName string) (firstName, lastName string) {
	tokens := strings.Fields(displayName)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	default:
		return tokens[0], tokens[len(tokens)-1]
	}
}
