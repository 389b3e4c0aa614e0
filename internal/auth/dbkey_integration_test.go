//go:build integration

package auth

import (
	"testing"
)

func TestKeyringRoundTrip(t *testing.T) {
	t.Setenv("TALLY_DB_KEY", "")
	t.Setenv("TALLY_KEYCHAIN_SERVICE", "tally-integration")
	t.Setenv("TALLY_KEYCHAIN_ACCOUNT", "db_key_test")
	t.Cleanup(func() { _ = DeleteDBKey() })

	if err := SaveDBKey("integration-key"); err != nil {
		t.Fatalf("SaveDBKey() unexpected error: %v", err)
	}

	got, err := LoadDBKey()
	if err != nil {
		t.Fatalf("LoadDBKey() unexpected error: %v", err)
	}
	if got != "integration-key" {
		t.Fatalf("LoadDBKey() = %q, want %q", got, "integration-key")
	}

	if err := DeleteDBKey(); err != nil {
		t.Fatalf("DeleteDBKey() unexpected error: %v", err)
	}
	if _, err := LoadDBKey(); err != ErrNoKey {
		t.Fatalf("LoadDBKey() after delete error = %v, want ErrNoKey", err)
	}
}
