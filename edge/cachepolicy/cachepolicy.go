// Package cachepolicy decides how long browsers and the edge cache keep an asset.
package cachepolicy

import (
	"regexp"
	"time"

	"github.com/mousey-app/dashboard/shared/config"
)

const (
	Day  = 24 * time.Hour
	Year = 365 * Day
)

// A final path component with at least two dots, like main.8b1d2e4f.css,
// carries a content hash and never changes.
var versioned = regexp.MustCompile(`/(?:[^/]+\.){2}[^/]+$`)

type Tier string

const (
	Versioned   Tier = "versioned"
	Unversioned Tier = "unversioned"
)

type Policy struct {
	Tier       Tier
	EdgeTTL    time.Duration
	BrowserTTL time.Duration
}

// Rules holds the TTLs; the zero value is not useful, use Default or FromConfig.
type Rules struct {
	EdgeTTL             time.Duration
	BrowserTTL          time.Duration
	VersionedBrowserTTL time.Duration
}

var Default = Rules{EdgeTTL: Day, BrowserTTL: Day, VersionedBrowserTTL: Year}

func FromConfig(e config.Edge) Rules {
	r := Default
	if e.EdgeTTL > 0 {
		r.EdgeTTL = e.EdgeTTL
	}
	if e.BrowserTTL > 0 {
		r.BrowserTTL = e.BrowserTTL
	}
	if e.VersionedBrowserTTL > 0 {
		r.VersionedBrowserTTL = e.VersionedBrowserTTL
	}
	return r
}

// IsVersioned reports whether the request path names a content hashed file.
func IsVersioned(path string) bool {
	return versioned.MatchString(path)
}

// ForPath picks the policy for a request path. The edge TTL is the same for both tiers.
func (r Rules) ForPath(path string) Policy {
	if IsVersioned(path) {
		return Policy{Tier: Versioned, EdgeTTL: r.EdgeTTL, BrowserTTL: r.VersionedBrowserTTL}
	}
	return Policy{Tier: Unversioned, EdgeTTL: r.EdgeTTL, BrowserTTL: r.BrowserTTL}
}

// ForPath applies the default rules.
func ForPath(path string) Policy {
	return Default.ForPath(path)
}
