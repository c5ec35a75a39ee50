package repository

import (
	"strings"
	"testing"
)

func TestEntityKeys(t *testing.T) {
	keys := entityKeys{entity: "pets"}

	tests := []struct {
		got  string
		want string
	}{
		{keys.namespace(), "repo:pets:"},
		{keys.all(), "repo:pets:all"},
		{keys.id("42"), "repo:pets:id:42"},
		{keys.find("options::x"), "repo:pets:find:options::x"},
		{keys.paginated("options::x"), "repo:pets:find:paginated:options::x"},
		{keys.count(), "repo:pets:count"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, tt.got)
		}
	}
}

func TestEntityKeys_NamespaceIsolation(t *testing.T) {
	pets := entityKeys{entity: "pets"}
	tasks := entityKeys{entity: "care_tasks"}

	// Invalidating one entity's namespace must never match another's keys.
	for _, key := range []string{tasks.all(), tasks.id("1"), tasks.count()} {
		if strings.HasPrefix(key, pets.namespace()) {
			t.Errorf("key %q leaks into the pets namespace", key)
		}
	}
	for _, key := range []string{pets.all(), pets.id("1"), pets.count()} {
		if !strings.HasPrefix(key, pets.namespace()) {
			t.Errorf("key %q escapes its own namespace", key)
		}
	}
}
