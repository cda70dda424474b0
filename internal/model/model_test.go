package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTaskJSONShape(t *testing.T) {
	t.Parallel()

	task := Task{
		ID:          "5f50c31e8a7d4c2b9e1f0a3d",
		Description: "buy milk",
		OwnerID:     "5f50c31e8a7d4c2b9e1f0a3e",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	raw, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}
	body := string(raw)

	for _, key := range []string{`"isCompleted"`, `"user"`, `"createdAt"`, `"updatedAt"`} {
		if !strings.Contains(body, key) {
			t.Errorf("task JSON missing key %s: %s", key, body)
		}
	}
	for _, key := range []string{`"created_at"`, `"updated_at"`, `"owner_id"`} {
		if strings.Contains(body, key) {
			t.Errorf("task JSON carries wrong key %s: %s", key, body)
		}
	}
}

func TestUserPublicViewStripsSecrets(t *testing.T) {
	t.Parallel()

	user := User{
		ID:           "5f50c31e8a7d4c2b9e1f0a3d",
		Name:         "sample",
		Email:        "sample@example.com",
		PasswordHash: "$argon2id$...",
		ProfilePic:   []byte{0x89},
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	raw, err := json.Marshal(user.PublicView())
	if err != nil {
		t.Fatalf("marshal public view: %v", err)
	}
	body := string(raw)

	for _, key := range []string{`"createdAt"`, `"updatedAt"`} {
		if !strings.Contains(body, key) {
			t.Errorf("public view missing key %s: %s", key, body)
		}
	}
	if strings.Contains(body, "argon2id") {
		t.Errorf("public view leaks password hash: %s", body)
	}
}
