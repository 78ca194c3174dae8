package kv

import "testing"

func TestChangePayload(t *testing.T) {
	payload := encodeChange("self", "vibeline_requests")
	if _, ok := foreignKey("self", payload); ok {
		t.Fatal("own payload should be ignored")
	}
	key, ok := foreignKey("other", payload)
	if !ok || key != "vibeline_requests" {
		t.Fatalf("expected foreign key, got %q %v", key, ok)
	}
	if key, ok := foreignKey("self", "bare_key"); !ok || key != "bare_key" {
		t.Fatalf("payload without origin should be foreign, got %q %v", key, ok)
	}
	if _, ok := foreignKey("self", "other|"); ok {
		t.Fatal("empty key should be ignored")
	}
}

func TestMigrateURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost/db": "pgx5://u:p@localhost/db",
		"postgresql://u@localhost/db": "pgx5://u@localhost/db",
		"pgx5://already":              "pgx5://already",
	}
	for in, want := range cases {
		if got := migrateURL(in); got != want {
			t.Fatalf("migrateURL(%q) = %q, want %q", in, got, want)
		}
	}
}
