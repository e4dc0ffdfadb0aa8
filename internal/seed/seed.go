// Package seed installs idempotent demo data for development runs: material
// master rows, one product specification with its layer stack, and one open
// order on the production board.
package seed

import (
	"database/sql"
	"errors"
	"fmt"
)

const (
	demoProductName = "76mm Kraft Core 1200"
	demoOrderRef    = "ORD-1001"
)

type demoMaterial struct {
	name      string
	gsm       float64
	thickness float64
}

var demoMaterials = []demoMaterial{
	{name: "Kraft 120", gsm: 120, thickness: 0.4},
	{name: "Kraft 160", gsm: 160, thickness: 0.5},
	{name: "Liner 80", gsm: 80, thickness: 0.2},
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureMaterials(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	specID, err := ensureProductSpec(tx, &stats)
	if err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	orderID, err := ensureOrder(tx, specID, &stats)
	if err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureJob(tx, orderID, specID, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureMaterials(tx *sql.Tx, stats *Stats) error {
	for _, m := range demoMaterials {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM materials WHERE name = ? LIMIT 1)`, m.name).Scan(&exists); err != nil {
			return fmt.Errorf("check material existence: %w", err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO materials (name, gsm, thickness, notes, active)
			VALUES (?, ?, ?, '', TRUE)
		`, m.name, m.gsm, m.thickness); err != nil {
			return fmt.Errorf("insert material %q: %w", m.name, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureProductSpec(tx *sql.Tx, stats *Stats) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM product_specs WHERE name = ?`, demoProductName).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("check product spec existence: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO product_specs (
			name, core_id, core_width, core_thickness,
			makeready_allowance_percent, waste_percentage,
			tubes_per_carton, cartons_per_pallet,
			qc_id, qc_od, qc_wall
		) VALUES (?, 76, 1200, 1.4, 10, 5, 50, 20, 0.2, 0.3, 0.15)
	`, demoProductName)
	if err != nil {
		return 0, fmt.Errorf("insert demo product spec: %w", err)
	}
	stats.Inserts++

	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("demo product spec id: %w", err)
	}

	layers := []struct {
		material  string
		thickness float64
		gsm       float64
		quantity  int
		layerType string
	}{
		{material: "Kraft 160", thickness: 0.5, gsm: 160, quantity: 2, layerType: "body"},
		{material: "Kraft 120", thickness: 0.4, gsm: 120, quantity: 1, layerType: "outer wrap"},
	}
	for position, layer := range layers {
		if _, err := tx.Exec(`
			INSERT INTO material_layers (product_spec_id, position, material_id, thickness, gsm, quantity, layer_type)
			VALUES (?, ?, (SELECT id FROM materials WHERE name = ?), ?, ?, ?, ?)
		`, id, position, layer.material, layer.thickness, layer.gsm, layer.quantity, layer.layerType); err != nil {
			return 0, fmt.Errorf("insert demo layer %d: %w", position, err)
		}
		stats.Inserts++
	}

	return id, nil
}

func ensureOrder(tx *sql.Tx, specID int64, stats *Stats) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM orders WHERE reference = ?`, demoOrderRef).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("check order existence: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO orders (reference, quantity, due_date, priority)
		VALUES (?, 5000, '2026-09-15', 'normal')
	`, demoOrderRef)
	if err != nil {
		return 0, fmt.Errorf("insert demo order: %w", err)
	}
	stats.Inserts++

	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("demo order id: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO order_items (order_id, product_spec_id, quantity)
		VALUES (?, ?, 5000)
	`, id, specID); err != nil {
		return 0, fmt.Errorf("insert demo order item: %w", err)
	}
	stats.Inserts++

	return id, nil
}

func ensureJob(tx *sql.Tx, orderID, specID int64, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM jobs WHERE order_id = ? LIMIT 1)`, orderID).Scan(&exists); err != nil {
		return fmt.Errorf("check job existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO jobs (order_id, product_spec_id, stage, position)
		VALUES (?, ?, 'paper_slitting', 1)
	`, orderID, specID); err != nil {
		return fmt.Errorf("insert demo job: %w", err)
	}
	stats.Inserts++

	return nil
}
