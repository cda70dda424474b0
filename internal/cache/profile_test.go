package cache

import (
	"testing"
)

func TestProfileKey(t *testing.T) {
	t.Parallel()

	key := ProfileKey("5f50c31e8a7d4c2b9e1f0a3d")
	if key != "profile:5f50c31e8a7d4c2b9e1f0a3d" {
		t.Errorf("unexpected key: %s", key)
	}
}

func TestProfileKey_DistinctUsers(t *testing.T) {
	t.Parallel()

	if ProfileKey("user-a") == ProfileKey("user-b") {
		t.Error("different users must map to different keys")
	}
}
