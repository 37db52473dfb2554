// Package link provides the parser that turns clipboard text into a domain.LinkContext.
package link

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/MyCarrier-DevOps/permalink-open/internal/domain"
)

// DefaultHost is always recognized.
const DefaultHost = "github.com"

// Regular expressions for locating and decoding links.
var (
	// urlPattern finds http(s) URLs embedded in arbitrary text.
	urlPattern = regexp.MustCompile(`https?://[^\s<>"'` + "`" + `]+`)

	// linesPattern matches line fragments like:
	// L10
	// L10-L20
	// L10C5-L20C3
	linesPattern = regexp.MustCompile(`^L(\d+)(?:C\d+)?(?:-L(\d+)(?:C\d+)?)?$`)
)

// Parser recognizes repository links on a fixed set of hosts.
type Parser struct {
	hosts map[string]struct{}
}

// NewParser creates a Parser for github.com plus the given enterprise hosts.
func NewParser(extraHosts ...string) *Parser {
	hosts := map[string]struct{}{DefaultHost: {}}
	for _, h := range extraHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hosts[h] = struct{}{}
		}
	}
	return &Parser{hosts: hosts}
}

// ParseLink returns the first repository link found in text, or nil.
func (p *Parser) ParseLink(text string) *domain.LinkContext {
	for _, candidate := range urlPattern.FindAllString(text, -1) {
		if ctx := p.parseURL(strings.TrimRight(candidate, ".,;:)]}")); ctx != nil {
			return ctx
		}
	}
	return nil
}

// parseURL decodes a single URL. Returns nil when it is not a repository link
// on a recognized host.
func (p *Parser) parseURL(raw string) *domain.LinkContext {
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := p.hosts[host]; !ok {
		return nil
	}

	segments := splitPath(u.Path)
	if len(segments) < 2 {
		return nil
	}

	ctx := &domain.LinkContext{
		Host:           host,
		Owner:          segments[0],
		RepositoryName: strings.TrimSuffix(segments[1], ".git"),
		Kind:           domain.LinkKindOther,
		URL:            raw,
	}
	if ctx.RepositoryName == "" {
		return nil
	}

	// blob/<commitish>/<path...> needs at least one path segment
	if len(segments) >= 5 && segments[2] == "blob" {
		ctx.Kind = domain.LinkKindBlob
		ctx.TreeIsh = strings.Join(segments[3:], "/")
		ctx.Lines = parseLines(u.Fragment)
	}

	return ctx
}

// splitPath splits a URL path into its non-empty segments.
func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// parseLines decodes a #L fragment. Reversed ranges are normalized.
func parseLines(fragment string) *domain.LineRange {
	matches := linesPattern.FindStringSubmatch(fragment)
	if matches == nil {
		return nil
	}

	start, err := strconv.Atoi(matches[1])
	if err != nil || start <= 0 {
		return nil
	}

	end := start
	if matches[2] != "" {
		if n, err := strconv.Atoi(matches[2]); err == nil && n > 0 {
			end = n
		}
	}
	if end < start {
		start, end = end, start
	}

	return &domain.LineRange{Start: start, End: end}
}
