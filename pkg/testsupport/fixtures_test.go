package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFixturePath(t *testing.T) {
	got := FixturePath("pets.json")
	want := filepath.Join("testdata", "pets.json")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pet.json")
	if err := os.WriteFile(path, []byte(`{"name":"Milo","species":"dog"}`), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	var pet struct {
		Name    string `json:"name"`
		Species string `json:"species"`
	}
	LoadFixtureJSON(t, path, &pet)

	if pet.Name != "Milo" || pet.Species != "dog" {
		t.Errorf("unexpected fixture contents: %+v", pet)
	}
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if got := LoadFixture(t, path); string(got) != "hello" {
		t.Errorf("expected raw contents, got %q", got)
	}
}

func TestTempDBPath(t *testing.T) {
	path := TempDBPath(t)
	if !strings.HasSuffix(path, "store.db") {
		t.Errorf("expected a store.db path, got %q", path)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("expected the parent directory to exist: %v", err)
	}
}
