// Package etag encodes a resource's last-modified timestamp as a weak HTTP
// entity tag. The remote store offers no compare-and-swap primitive, so the
// tag is the caller-visible half of the client-side read-compare-write cycle.
package etag

import (
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
)

const (
	prefix = `W/"`
	suffix = `"`
)

var ErrMalformed = gerrors.New("malformed weak entity tag")

// Format produces a weak tag of the form W/"<RFC3339 nano, UTC>". The
// encoding is injective: equal tags decode to equal instants.
func Format(t time.Time) string {
	return prefix + t.UTC().Format(time.RFC3339Nano) + suffix
}

// Parse decodes a tag produced by Format. The payload must carry an explicit
// zone; the returned instant is normalized to UTC.
func Parse(tag string) (time.Time, error) {
	payload, ok := strings.CutPrefix(tag, prefix)
	if !ok {
		return time.Time{}, gerrors.Wrapf(ErrMalformed, "missing weak prefix in %q", tag)
	}
	payload, ok = strings.CutSuffix(payload, suffix)
	if !ok {
		return time.Time{}, gerrors.Wrapf(ErrMalformed, "missing closing quote in %q", tag)
	}
	t, err := time.Parse(time.RFC3339Nano, payload)
	if err != nil {
		return time.Time{}, gerrors.Wrapf(ErrMalformed, "bad timestamp payload in %q", tag)
	}
	return t.UTC(), nil
}

// Matches reports whether tag decodes to exactly the given instant. Zone and
// monotonic-clock differences are normalized away; there is no tolerance
// window.
func Matches(tag string, t time.Time) bool {
	decoded, err := Parse(tag)
	if err != nil {
		return false
	}
	return decoded.Equal(t)
}
