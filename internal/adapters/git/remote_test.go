package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{
			name:      "HTTPS URL with .git suffix",
			url:       "https://github.com/acme/widgets.git",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "HTTPS URL without .git suffix",
			url:       "https://github.com/acme/widgets",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "HTTPS URL with trailing slash",
			url:       "https://github.com/acme/widgets/",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "SSH URL with .git suffix",
			url:       "git@github.com:acme/widgets.git",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "SSH URL without .git suffix",
			url:       "git@github.com:acme/widgets",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "ssh:// URL",
			url:       "ssh://git@github.com/acme/widgets.git",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "enterprise host",
			url:       "https://ghe.example.com/platform/api.git",
			wantOwner: "platform",
			wantName:  "api",
		},
		{
			name:      "URL with whitespace trimmed",
			url:       "  https://github.com/acme/widgets.git  ",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "HTTP URL (not HTTPS)",
			url:       "http://github.com/acme/widgets.git",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:    "invalid URL - no path",
			url:     "https://github.com",
			wantErr: true,
		},
		{
			name:    "invalid URL - only owner",
			url:     "https://github.com/acme",
			wantErr: true,
		},
		{
			name:    "invalid URL - empty string",
			url:     "",
			wantErr: true,
		},
		{
			name:    "invalid URL - file path",
			url:     "/path/to/repo",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, name, err := parseRemoteURL(tt.url)

			if tt.wantErr {
				require.Error(t, err, "expected error for URL: %s", tt.url)
				return
			}

			require.NoError(t, err, "unexpected error for URL: %s", tt.url)
			assert.Equal(t, tt.wantOwner, owner, "owner mismatch")
			assert.Equal(t, tt.wantName, name, "repository name mismatch")
		})
	}
}
