// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Decoding errors.
var (
	// ErrInvalidJSON indicates a body that is not a JSON object.
	ErrInvalidJSON = errors.New("invalid request body")
	// ErrDisallowedField indicates a field outside the operation's whitelist.
	ErrDisallowedField = errors.New("unknown/disallowed field requested")
)

// DecodeStrict decodes a JSON object into dst, rejecting any field that
// is not in the allowed set. The whitelist check happens on the raw keys
// before dst is populated, so a disallowed field fails the request before
// any value is even parsed, let alone persisted.
func DecodeStrict(r io.Reader, allowed []string, dst any) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ErrInvalidJSON
	}

	for field := range fields {
		if !fieldAllowed(field, allowed) {
			return fmt.Errorf("%w: %s", ErrDisallowedField, field)
		}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return ErrInvalidJSON
	}

	return nil
}

// Decode decodes a JSON object into dst, silently ignoring unknown
// fields. Used on create paths where protected fields (like the task
// owner) are forced server-side anyway, so a client-supplied value is
// harmless and dropped rather than rejected.
func Decode(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return ErrInvalidJSON
	}
	return nil
}

func fieldAllowed(field string, allowed []string) bool {
	for _, a := range allowed {
		if field == a {
			return true
		}
	}
	return false
}
