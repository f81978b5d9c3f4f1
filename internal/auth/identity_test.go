package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitDisplayName(t *testing.T) {
	tests := []struct {
		name          string
		displayName   string
		wantFirstName string
		wantLastName  string
	}{
		{
			name:          "two tokens",
			displayName:   "Ada Lovelace",
			wantFirstName: "Ada",
			wantLastName:  "Lovelace",
		},
		{
			name:          "single token",
			displayName:   "Madonna",
			wantFirstName: "Madonna",
			wantLastName:  "",
		},
		{
			name:          "middle tokens are discarded",
			displayName:   "Mary Jane Watson",
			wantFirstName: "Mary",
			wantLastName:  "Watson",
		},
		{
			name:          "empty input",
			displayName:   "",
			wantFirstName: "",
			wantLastName:  "",
		},
		{
			name:          "whitespace only",
			displayName:   "   \t ",
			wantFirstName: "",
			wantLastName:  "",
		},
		{
			name:          "surrounding and repeated whitespace",
			displayName:   "  Grace   Hopper  ",
			wantFirstName: "Grace",
			wantLastName:  "Hopper",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitDisplayName(tt.displayName)
			assert.Equal(t, tt.wantFirstName, first)
			assert.Equal(t, tt.wantLastName, last)
		})
	}
}
