// Package pass builds and reads resident passes: the shareable URL, its QR
// code, and recovery of a resident id from scanned text.
package pass

import (
	"net/url"
	"regexp"
	"strings"
)

// Marker is the path segment that precedes a resident id in a pass link.
const Marker = "pass"

// NoIDMessage is shown when scanned text yields no identifier.
const NoIDMessage = "Scan succeeded, but no student ID was detected."

var (
	relativeRe = regexp.MustCompile(Marker + `/([A-Za-z0-9-]+)`)
	likelyIDRe = regexp.MustCompile(`[0-9a-fA-F-]{10,}`)
)

// ExtractID recovers a resident id from scanned text. It tries, in order: the
// segment after "pass" in an absolute URL, a "pass/<id>" fragment anywhere in
// the text, then the first run of ten or more hex digits and hyphens.
func ExtractID(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}
	if id, ok := fromURL(trimmed); ok {
		return id, true
	}
	if m := relativeRe.FindStringSubmatch(trimmed); m != nil {
		return m[1], true
	}
	if m := likelyIDRe.FindString(trimmed); m != "" {
		return m, true
	}
	return "", false
}

func fromURL(s string) (string, bool) {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return "", false
	}
	// "x:pass/id" has no authority; its path sits in Opaque.
	path := u.EscapedPath()
	if u.Opaque != "" {
		path = u.Opaque
	}
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	for i, seg := range segments {
		if seg == Marker {
			if i+1 < len(segments) {
				return segments[i+1], true
			}
			return "", false
		}
	}
	return "", false
}
