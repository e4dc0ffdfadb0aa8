// Package board persists production jobs and their movement across the
// pipeline stages, the data behind the kanban view and the job card.
package board

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/corewind/coreboard/internal/calc"
)

// ErrNotFound is returned when a job id does not exist.
var ErrNotFound = errors.New("job not found")

// Job is one card on the production board.
type Job struct {
	ID            int64      `json:"id"`
	OrderID       int64      `json:"order_id"`
	OrderRef      string     `json:"order_ref"`
	ProductSpecID int64      `json:"product_spec_id"`
	ProductName   string     `json:"product_name"`
	Quantity      int        `json:"quantity"`
	DueDate       string     `json:"due_date,omitempty"`
	Priority      string     `json:"priority"`
	Stage         calc.Stage `json:"stage"`
	// TotalLength is read from the stored calculation snapshot; 0 when the
	// job has never been calculated.
	TotalLength int `json:"total_length"`
}

// JobCard is the full job detail: the board row plus the calculator inputs
// loaded from the order and product master data.
type JobCard struct {
	Job   Job              `json:"job"`
	Order calc.Order       `json:"order"`
	Spec  calc.ProductSpec `json:"product_spec"`
}

// Activity is one operator event recorded against a job.
type Activity struct {
	ID         int64  `json:"id"`
	JobID      int64  `json:"job_id"`
	Kind       string `json:"kind"`
	Operator   string `json:"operator,omitempty"`
	Note       string `json:"note,omitempty"`
	RecordedAt string `json:"recorded_at"`
}

// ActivityKinds are the operator events a job card records.
var ActivityKinds = []string{"start", "stop", "sign_off", "excess_stock", "label_print"}

// ValidActivityKind reports whether kind names a known operator event.
func ValidActivityKind(kind string) bool {
	for _, k := range ActivityKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Store wraps the database for board operations.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListJobs returns every job on the board, ordered by stage and position.
func (s *Store) ListJobs() ([]Job, error) {
	rows, err := s.db.Query(`
		SELECT
			j.id,
			j.order_id,
			o.reference,
			j.product_spec_id,
			ps.name,
			o.quantity,
			COALESCE(o.due_date, ''),
			o.priority,
			j.stage,
			COALESCE(j.calculation_json, '')
		FROM jobs j
		JOIN orders o ON o.id = j.order_id
		JOIN product_specs ps ON ps.id = j.product_spec_id
		ORDER BY j.stage, j.position, j.id
	`)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]Job, 0)
	for rows.Next() {
		var job Job
		var calcJSON string
		if err := rows.Scan(
			&job.ID, &job.OrderID, &job.OrderRef, &job.ProductSpecID, &job.ProductName,
			&job.Quantity, &job.DueDate, &job.Priority, &job.Stage, &calcJSON,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		job.TotalLength = extractTotalLength(calcJSON)
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return jobs, nil
}

func extractTotalLength(calcJSON string) int {
	if calcJSON == "" {
		return 0
	}
	var values map[string]any
	if err := json.Unmarshal([]byte(calcJSON), &values); err != nil {
		return 0
	}
	for _, key := range []string{"total_length_required", "total_length"} {
		if total, ok := values[key].(float64); ok {
			return int(total)
		}
	}
	return 0
}

// GetJobCard loads a job with its order and product specification mapped
// into calculator inputs.
func (s *Store) GetJobCard(id int64) (JobCard, error) {
	var card JobCard
	var calcJSON string
	err := s.db.QueryRow(`
		SELECT
			j.id,
			j.order_id,
			o.reference,
			j.product_spec_id,
			ps.name,
			o.quantity,
			COALESCE(o.due_date, ''),
			o.priority,
			j.stage,
			COALESCE(j.calculation_json, '')
		FROM jobs j
		JOIN orders o ON o.id = j.order_id
		JOIN product_specs ps ON ps.id = j.product_spec_id
		WHERE j.id = ?
	`, id).Scan(
		&card.Job.ID, &card.Job.OrderID, &card.Job.OrderRef, &card.Job.ProductSpecID,
		&card.Job.ProductName, &card.Job.Quantity, &card.Job.DueDate, &card.Job.Priority,
		&card.Job.Stage, &calcJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return JobCard{}, ErrNotFound
	}
	if err != nil {
		return JobCard{}, fmt.Errorf("query job %d: %w", id, err)
	}
	card.Job.TotalLength = extractTotalLength(calcJSON)

	order, err := s.loadOrder(card.Job.OrderID, card.Job.Quantity, card.Job.DueDate, card.Job.Priority)
	if err != nil {
		return JobCard{}, err
	}
	card.Order = order

	spec, err := s.loadProductSpec(card.Job.ProductSpecID)
	if err != nil {
		return JobCard{}, err
	}
	card.Spec = spec

	return card, nil
}

func (s *Store) loadOrder(orderID int64, quantity int, dueDate, priority string) (calc.Order, error) {
	order := calc.Order{Quantity: quantity, DueDate: dueDate, Priority: priority}

	rows, err := s.db.Query(`
		SELECT product_spec_id, quantity
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID)
	if err != nil {
		return calc.Order{}, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var item calc.OrderItem
		if err := rows.Scan(&productID, &item.Quantity); err != nil {
			return calc.Order{}, fmt.Errorf("scan order item: %w", err)
		}
		item.ProductID = strconv.FormatInt(productID, 10)
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return calc.Order{}, fmt.Errorf("iterate order items: %w", err)
	}

	return order, nil
}

func (s *Store) loadProductSpec(specID int64) (calc.ProductSpec, error) {
	var spec calc.ProductSpec
	var coreID, coreWidth, coreThickness, makeready, waste, setup sql.NullFloat64
	var tubesPerCarton, cartonsPerPallet sql.NullInt64
	var qcID, qcOD, qcWall sql.NullFloat64

	err := s.db.QueryRow(`
		SELECT
			core_id, core_width, core_thickness,
			makeready_allowance_percent, waste_percentage, setup_time_minutes,
			tubes_per_carton, cartons_per_pallet, winding_spec_id,
			qc_id, qc_od, qc_wall
		FROM product_specs
		WHERE id = ?
	`, specID).Scan(
		&coreID, &coreWidth, &coreThickness,
		&makeready, &waste, &setup,
		&tubesPerCarton, &cartonsPerPallet, &spec.WindingSpecID,
		&qcID, &qcOD, &qcWall,
	)
	if err != nil {
		return calc.ProductSpec{}, fmt.Errorf("query product spec %d: %w", specID, err)
	}

	spec.CoreID = nullableFloat(coreID)
	spec.CoreWidth = nullableFloat(coreWidth)
	if coreThickness.Valid {
		spec.CoreThickness = coreThickness.Float64
	}
	spec.MakereadyPercent = nullableFloat(makeready)
	spec.WastePercent = nullableFloat(waste)
	spec.SetupTimeMinutes = nullableFloat(setup)
	spec.TubesPerCarton = nullableInt(tubesPerCarton)
	spec.CartonsPerPallet = nullableInt(cartonsPerPallet)
	if qcID.Valid {
		spec.QCTolerances.ID = qcID.Float64
	}
	if qcOD.Valid {
		spec.QCTolerances.OD = qcOD.Float64
	}
	if qcWall.Valid {
		spec.QCTolerances.Wall = qcWall.Float64
	}

	layers, err := s.loadLayers(specID)
	if err != nil {
		return calc.ProductSpec{}, err
	}
	spec.MaterialLayers = layers

	return spec, nil
}

func (s *Store) loadLayers(specID int64) ([]calc.MaterialLayer, error) {
	rows, err := s.db.Query(`
		SELECT m.name, ml.thickness, ml.gsm, ml.quantity, COALESCE(ml.width, 0), COALESCE(ml.layer_type, '')
		FROM material_layers ml
		JOIN materials m ON m.id = ml.material_id
		WHERE ml.product_spec_id = ?
		ORDER BY ml.position
	`, specID)
	if err != nil {
		return nil, fmt.Errorf("query material layers: %w", err)
	}
	defer rows.Close()

	layers := make([]calc.MaterialLayer, 0)
	for rows.Next() {
		var layer calc.MaterialLayer
		if err := rows.Scan(&layer.MaterialID, &layer.Thickness, &layer.GSM, &layer.Quantity, &layer.Width, &layer.LayerType); err != nil {
			return nil, fmt.Errorf("scan material layer: %w", err)
		}
		layers = append(layers, layer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate material layers: %w", err)
	}

	return layers, nil
}

// MoveJob moves a job to a stage and places it at the end of that lane.
func (s *Store) MoveJob(id int64, stage calc.Stage) error {
	if !calc.ValidStage(stage) {
		return fmt.Errorf("unknown stage %q", stage)
	}

	result, err := s.db.Exec(`
		UPDATE jobs
		SET
			stage = ?,
			position = (SELECT COALESCE(MAX(position), 0) + 1 FROM jobs WHERE stage = ?),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, stage, stage, id)
	if err != nil {
		return fmt.Errorf("move job %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("move job %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// SaveCalculation stores a calculation snapshot against the job.
func (s *Store) SaveCalculation(id int64, calculation calc.ProductionCalculation) error {
	payload, err := json.Marshal(calculation)
	if err != nil {
		return fmt.Errorf("marshal calculation: %w", err)
	}

	result, err := s.db.Exec(`
		UPDATE jobs
		SET calculation_json = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, string(payload), id)
	if err != nil {
		return fmt.Errorf("save calculation for job %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save calculation for job %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// RecordActivity appends an operator event to a job's activity log.
func (s *Store) RecordActivity(id int64, kind, operator, note string) error {
	if !ValidActivityKind(kind) {
		return fmt.Errorf("unknown activity kind %q", kind)
	}

	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM jobs WHERE id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check job %d existence: %w", id, err)
	}
	if !exists {
		return ErrNotFound
	}

	if _, err := s.db.Exec(`
		INSERT INTO job_activity (job_id, kind, operator, note)
		VALUES (?, ?, ?, ?)
	`, id, kind, operator, note); err != nil {
		return fmt.Errorf("record activity for job %d: %w", id, err)
	}

	return nil
}

// ListActivity returns a job's activity log, newest first.
func (s *Store) ListActivity(id int64) ([]Activity, error) {
	rows, err := s.db.Query(`
		SELECT id, job_id, kind, COALESCE(operator, ''), COALESCE(note, ''), recorded_at
		FROM job_activity
		WHERE job_id = ?
		ORDER BY datetime(recorded_at) DESC, id DESC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query job activity: %w", err)
	}
	defer rows.Close()

	activity := make([]Activity, 0)
	for rows.Next() {
		var entry Activity
		if err := rows.Scan(&entry.ID, &entry.JobID, &entry.Kind, &entry.Operator, &entry.Note, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activity = append(activity, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}

	return activity, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
