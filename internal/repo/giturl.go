// Package repo parses repository references attached to workspaces and
// sessions.
package repo

import (
	"net/url"
	"strings"

	"pkt.systems/coxswain/schema"
)

// recognized hosts for owner/name extraction.
var knownHosts = map[string]struct{}{
	"github.com":    {},
	"gitlab.com":    {},
	"bitbucket.org": {},
	"codeberg.org":  {},
}

// Parse extracts owner and repository name from a URL when the host is
// recognized; otherwise the raw URL and ref are carried through unchanged.
// Parse never fails: unrecognized shapes degrade to the fallback form.
func Parse(rawURL, ref string) schema.RepoInfo {
	fallback := schema.RepoInfo{URL: rawURL, Ref: ref}
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return fallback
	}

	host, path := splitHostPath(trimmed)
	if host == "" {
		return fallback
	}
	if _, ok := knownHosts[strings.ToLower(host)]; !ok {
		return fallback
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return fallback
	}
	return schema.RepoInfo{
		Owner: segments[0],
		Name:  strings.TrimSuffix(segments[1], ".git"),
		URL:   rawURL,
		Ref:   ref,
	}
}

// splitHostPath handles https, ssh, and scp-like git URL shapes.
func splitHostPath(raw string) (host, path string) {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "ssh://") {
		parsed, err := url.Parse(raw)
		if err != nil {
			return "", ""
		}
		return parsed.Hostname(), parsed.Path
	}
	if at := strings.Index(raw, "@"); at >= 0 && strings.Contains(raw[at:], ":") {
		rest := raw[at+1:]
		host, path, ok := strings.Cut(rest, ":")
		if !ok {
			return "", ""
		}
		return host, path
	}
	return "", ""
}
