package postgres

import (
	"testing"
	"testing/fstest"
)

func TestLoadMigrationsFromEmbeddedFS(t *testing.T) {
	migrations, err := loadMigrationsFromFS(migrationsFS)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("embedded migrations should not be empty")
	}

	for i, m := range migrations {
		if m.UpSQL == "" || m.DownSQL == "" {
			t.Fatalf("migration %d_%s missing up or down body", m.Version, m.Name)
		}
		if i > 0 && migrations[i-1].Version >= m.Version {
			t.Fatalf("migrations must be sorted by version: %d before %d", migrations[i-1].Version, m.Version)
		}
	}
}

func TestLoadMigrationsFromFSValidation(t *testing.T) {
	t.Run("missing down file", func(t *testing.T) {
		fsys := fstest.MapFS{
			"sql/migrations/0001_create_customers.up.sql": {Data: []byte("CREATE TABLE customers (id UUID)")},
		}
		if _, err := loadMigrationsFromFS(fsys); err == nil {
			t.Fatal("expected error for migration without down file")
		}
	})

	t.Run("name mismatch", func(t *testing.T) {
		fsys := fstest.MapFS{
			"sql/migrations/0001_create_customers.up.sql": {Data: []byte("CREATE TABLE customers (id UUID)")},
			"sql/migrations/0001_create_clients.down.sql": {Data: []byte("DROP TABLE customers")},
		}
		if _, err := loadMigrationsFromFS(fsys); err == nil {
			t.Fatal("expected error for version with mismatched names")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		fsys := fstest.MapFS{
			"sql/migrations/0001_create_customers.up.sql":   {Data: []byte("  \n")},
			"sql/migrations/0001_create_customers.down.sql": {Data: []byte("DROP TABLE customers")},
		}
		if _, err := loadMigrationsFromFS(fsys); err == nil {
			t.Fatal("expected error for empty migration body")
		}
	})

	t.Run("invalid file name", func(t *testing.T) {
		fsys := fstest.MapFS{
			"sql/migrations/first.up.sql": {Data: []byte("SELECT 1")},
		}
		if _, err := loadMigrationsFromFS(fsys); err == nil {
			t.Fatal("expected error for invalid migration file name")
		}
	})

	t.Run("no files", func(t *testing.T) {
		if _, err := loadMigrationsFromFS(fstest.MapFS{}); err == nil {
			t.Fatal("expected error for empty migration dir")
		}
	})
}
