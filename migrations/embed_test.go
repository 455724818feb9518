package migrations

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	src, err := iofs.New(FS, ".")
	if err != nil {
		t.Fatalf("open embedded source: %v", err)
	}
	defer src.Close()

	version, err := src.First()
	if err != nil {
		t.Fatalf("first migration: %v", err)
	}
	count := 0
	for {
		count++
		up, _, err := src.ReadUp(version)
		if err != nil {
			t.Fatalf("version %d has no up migration: %v", version, err)
		}
		up.Close()
		down, _, err := src.ReadDown(version)
		if err != nil {
			t.Fatalf("version %d has no down migration: %v", version, err)
		}
		down.Close()

		next, err := src.Next(version)
		if err != nil {
			break
		}
		version = next
	}
	if count != 3 {
		t.Fatalf("expected 3 migrations, got %d", count)
	}
}
