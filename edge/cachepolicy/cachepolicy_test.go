package cachepolicy

import (
	"testing"
	"time"

	"github.com/mousey-app/dashboard/shared/config"
	"github.com/stretchr/testify/assert"
)

func TestForPath(t *testing.T) {
	tests := []struct {
		path        string
		wantTier    Tier
		wantBrowser time.Duration
	}{
		{"/static/js/main.abc123.js", Versioned, Year},
		{"/static/css/main.8b1d2e4f.chunk.css", Versioned, Year},
		{"/a.b.c", Versioned, Year},
		{"/index.html", Unversioned, Day},
		{"/favicon.ico", Unversioned, Day},
		{"/", Unversioned, Day},
		{"/archives/175928847299117063", Unversioned, Day},
		{"/static.v1.dir/app.js", Unversioned, Day},
		{"/.well-known", Unversioned, Day},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p := ForPath(tt.path)
			assert.Equal(t, tt.wantTier, p.Tier)
			assert.Equal(t, tt.wantBrowser, p.BrowserTTL)
			assert.Equal(t, Day, p.EdgeTTL, "edge TTL does not depend on the tier")
		})
	}
}

func TestFromConfig(t *testing.T) {
	r := FromConfig(config.Edge{EdgeTTL: time.Hour, VersionedBrowserTTL: 30 * Day})
	assert.Equal(t, time.Hour, r.EdgeTTL)
	assert.Equal(t, Day, r.BrowserTTL)
	assert.Equal(t, 30*Day, r.ForPath("/x.1.js").BrowserTTL)
	assert.Equal(t, time.Hour, r.ForPath("/x.js").EdgeTTL)
}
