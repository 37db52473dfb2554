package git

import (
	"fmt"
	"regexp"
	"strings"
)

// Regular expressions for parsing Git remote URLs.
var (
	// httpsURLPattern matches HTTPS and ssh:// URLs like:
	// https://github.com/owner/repo.git
	// https://github.com/owner/repo
	// ssh://git@github.com/owner/repo.git
	httpsURLPattern = regexp.MustCompile(`^(?:https?|ssh|git)://[^/]+/([^/]+)/([^/]+?)(?:\.git)?/?$`)

	// scpURLPattern matches scp-style URLs like:
	// git@github.com:owner/repo.git
	// git@github.com:owner/repo
	scpURLPattern = regexp.MustCompile(`^[^@/]+@[^:]+:([^/]+)/([^/]+?)(?:\.git)?/?$`)
)

// parseRemoteURL extracts the owner and repository name from a Git remote URL.
func parseRemoteURL(url string) (owner, name string, err error) {
	url = strings.TrimSpace(url)

	if matches := httpsURLPattern.FindStringSubmatch(url); len(matches) == 3 {
		return matches[1], matches[2], nil
	}

	if matches := scpURLPattern.FindStringSubmatch(url); len(matches) == 3 {
		return matches[1], matches[2], nil
	}

	return "", "", fmt.Errorf("unrecognized URL format: %s", url)
}
