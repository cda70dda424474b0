package dto

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDecodeStrict_AllowedFields(t *testing.T) {
	t.Parallel()

	var req UpdateTaskRequest
	body := `{"description": "buy milk", "isCompleted": true}`

	if err := DecodeStrict(strings.NewReader(body), TaskUpdateFields, &req); err != nil {
		t.Fatalf("DecodeStrict failed: %v", err)
	}

	if req.Description == nil || *req.Description != "buy milk" {
		t.Errorf("description not decoded: %+v", req)
	}
	if req.IsCompleted == nil || !*req.IsCompleted {
		t.Errorf("isCompleted not decoded: %+v", req)
	}
}

func TestDecodeStrict_DisallowedField(t *testing.T) {
	t.Parallel()

	var req UpdateTaskRequest
	body := `{"location": "x"}`

	err := DecodeStrict(strings.NewReader(body), TaskUpdateFields, &req)
	if !errors.Is(err, ErrDisallowedField) {
		t.Fatalf("expected ErrDisallowedField, got %v", err)
	}

	// The target must be untouched when the whitelist rejects.
	if req.Description != nil || req.IsCompleted != nil {
		t.Errorf("request should not be populated on rejection: %+v", req)
	}
}

func TestDecodeStrict_DisallowedAmongAllowed(t *testing.T) {
	t.Parallel()

	var req UpdateUserRequest
	body := `{"name": "Sundeep", "tokens": []}`

	if err := DecodeStrict(strings.NewReader(body), UserUpdateFields, &req); !errors.Is(err, ErrDisallowedField) {
		t.Fatalf("expected ErrDisallowedField, got %v", err)
	}
}

func TestDecodeStrict_InvalidJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"not_json", "hello"},
		{"array", `[1,2,3]`},
		{"wrong_type", `{"description": 42}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var req UpdateTaskRequest
			err := DecodeStrict(strings.NewReader(test.body), TaskUpdateFields, &req)
			if !errors.Is(err, ErrInvalidJSON) {
				t.Errorf("expected ErrInvalidJSON, got %v", err)
			}
		})
	}
}

func TestDecode_IgnoresUnknownFields(t *testing.T) {
	t.Parallel()

	// A client-supplied owner must be dropped on create, not rejected;
	// the handler always forces the owner from the authenticated identity.
	var req CreateTaskRequest
	body := `{"description": "walk dog", "user": "ffffffffffffffffffffffff"}`

	if err := Decode(strings.NewReader(body), &req); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if req.Description != "walk dog" {
		t.Errorf("description not decoded: %+v", req)
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	t.Parallel()

	var req CreateTaskRequest
	if err := Decode(strings.NewReader("not json"), &req); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestFormatTTL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ttl  string
		want string
	}{
		{"day", "24h", "24h"},
		{"hour", "1h", "1h"},
		{"uneven", "90m", "1h30m0s"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parsed, err := time.ParseDuration(test.ttl)
			if err != nil {
				t.Fatalf("parse duration: %v", err)
			}
			if got := formatTTL(parsed); got != test.want {
				t.Errorf("formatTTL(%s) = %q, want %q", test.ttl, got, test.want)
			}
		})
	}
}
