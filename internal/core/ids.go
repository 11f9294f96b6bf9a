// AngelaMos | 2026
// ids.go

package core

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ID is a numeric identifier read from a request body. Browser forms post
// ids as strings, so both JSON numbers and numeric strings are accepted.
type ID struct {
	Value int64
	// Present is false for an absent field, null, or a blank string.
	Present bool
	// Valid is false when a value was supplied but is not an integer.
	Valid bool
}

func NewID(v int64) ID {
	return ID{Value: v, Present: true, Valid: true}
}

func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID{}

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
	}

	id.Present = true
	id.Value, id.Valid = parseInteger(text)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if !id.Present || !id.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(id.Value, 10)), nil
}

// Positive reports whether the id holds a usable row identifier.
func (id ID) Positive() bool {
	return id.Present && id.Valid && id.Value > 0
}

// Optional resolves an optional foreign key: blank means unassigned, a
// positive integer is returned as is, anything else is rejected with message.
func (id ID) Optional(message string) (*int64, error) {
	if !id.Present {
		return nil, nil
	}
	if !id.Positive() {
		return nil, Invalid(message)
	}
	v := id.Value
	return &v, nil
}

func parseInteger(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// PathID parses a numeric chi URL parameter.
func PathID(r *http.Request, param string) (int64, bool) {
	n, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
