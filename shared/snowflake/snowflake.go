// Package snowflake decodes Discord style snowflake identifiers.
//
// A snowflake is a 64-bit integer whose upper 42 bits hold milliseconds since
// DiscordEpoch; the low 22 bits hold worker, process and sequence numbers.
// All arithmetic is done on uint64, never on floats, so 21 digit IDs keep
// full precision.
package snowflake

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DiscordEpoch is 2015-01-01T00:00:00Z in milliseconds.
	DiscordEpoch int64 = 1420070400000

	timestampShift = 22
)

var (
	ErrInvalidID = errors.New("invalid snowflake")

	validRe = regexp.MustCompile(`^\d{15,21}$`)
)

type ID uint64

// Valid reports whether s has the shape of a snowflake: 15 to 21 digits.
func Valid(s string) bool {
	return validRe.MatchString(s)
}

// Parse converts a decimal string into an ID. Shape validation is the
// caller's job; Parse only rejects what does not fit in 64 bits.
func Parse(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidID, s, err)
	}
	return ID(v), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// FromTime returns the smallest ID created at t.
func FromTime(t time.Time) ID {
	return ID(uint64(t.UnixMilli()-DiscordEpoch) << timestampShift)
}

// Millis returns milliseconds since the Unix epoch.
func (id ID) Millis() int64 {
	return int64(uint64(id)>>timestampShift) + DiscordEpoch
}

func (id ID) Time() time.Time {
	return time.UnixMilli(id.Millis())
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// MarshalJSON encodes the ID as a string; JavaScript clients lose precision above 2^53.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts both "123" and 123.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*id = 0
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}
