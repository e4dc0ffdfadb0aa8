package seed

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/corewind/coreboard/internal/db"
	"github.com/corewind/coreboard/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	for i := 0; i < 10; i++ {
		stats, err := Run(database)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			// 3 materials + spec + 2 layers + order + item + job.
			if stats.Inserts != 9 {
				t.Fatalf("expected 9 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM materials`, 3)
	assertCount(t, database, `SELECT COUNT(*) FROM product_specs WHERE name = '76mm Kraft Core 1200'`, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM material_layers`, 2)
	assertCount(t, database, `SELECT COUNT(*) FROM orders WHERE reference = 'ORD-1001'`, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM jobs`, 1)
}

func TestSeededLayersKeepRadialOrder(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-order-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := Run(database); err != nil {
		t.Fatalf("run seed: %v", err)
	}

	rows, err := database.Query(`
		SELECT m.name
		FROM material_layers ml
		JOIN materials m ON m.id = ml.material_id
		ORDER BY ml.position
	`)
	if err != nil {
		t.Fatalf("query layers: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan layer: %v", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate layers: %v", err)
	}

	if len(names) != 2 || names[0] != "Kraft 160" || names[1] != "Kraft 120" {
		t.Fatalf("unexpected layer order: %v", names)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, expected int) {
	t.Helper()

	var count int
	if err := database.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("count query %q: %v", query, err)
	}
	if count != expected {
		t.Fatalf("count query %q = %d, want %d", query, count, expected)
	}
}
