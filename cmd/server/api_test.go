package main

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/corewind/coreboard/internal/board"
	"github.com/corewind/coreboard/internal/calc"
	"github.com/corewind/coreboard/internal/db"
	"github.com/corewind/coreboard/internal/migrations"
)

func newTestServer(t *testing.T) *server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "api-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	seedJobFixture(t, database)

	return &server{db: database, store: board.NewStore(database), params: calc.DefaultParams()}
}

func seedJobFixture(t *testing.T, database *sql.DB) {
	t.Helper()

	statements := []string{
		`INSERT INTO materials (id, name, gsm, thickness) VALUES (1, 'Kraft 160', 160, 0.5)`,
		`INSERT INTO product_specs (id, name, core_id, core_width, makeready_allowance_percent, waste_percentage, tubes_per_carton, cartons_per_pallet)
		 VALUES (1, 'Test Core', 76, 1000, 10, 5, 50, 20)`,
		`INSERT INTO material_layers (product_spec_id, position, material_id, thickness, gsm, quantity) VALUES (1, 0, 1, 0.5, 160, 2)`,
		`INSERT INTO orders (id, reference, quantity, due_date, priority) VALUES (1, 'ORD-7001', 1000, '2026-10-01', 'high')`,
		`INSERT INTO order_items (order_id, product_spec_id, quantity) VALUES (1, 1, 1000)`,
		`INSERT INTO jobs (id, order_id, product_spec_id, stage, position) VALUES (1, 1, 1, 'paper_slitting', 1)`,
	}
	for _, stmt := range statements {
		if _, err := database.Exec(stmt); err != nil {
			t.Fatalf("seed fixture: %v", err)
		}
	}
}

func doRequest(t *testing.T, srv *server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	srv.routes().ServeHTTP(rr, req)
	return rr
}

func TestHandleCalc_EndToEnd(t *testing.T) {
	srv := newTestServer(t)

	body := `{
		"order": {"quantity": 1000},
		"product_spec": {
			"core_id": 76,
			"core_width": 1000,
			"makeready_allowance_percent": 10,
			"waste_percentage": 5,
			"tubes_per_carton": 50,
			"cartons_per_pallet": 20,
			"material_layers": [
				{"material_id": "kraft-160", "thickness": 0.5, "gsm": 160, "quantity": 2}
			]
		},
		"stage": "winding"
	}`

	rr := doRequest(t, srv, http.MethodPost, "/api/calc", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp calcResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Calculation.TotalLengthRequired != 1155 {
		t.Fatalf("totalLengthRequired = %d, want 1155", resp.Calculation.TotalLengthRequired)
	}
	if resp.Calculation.TotalProductionTime != 38 {
		t.Fatalf("totalProductionTime = %d, want 38", resp.Calculation.TotalProductionTime)
	}
	if len(resp.Calculation.Layers) != 1 {
		t.Fatalf("expected 1 layer requirement, got %d", len(resp.Calculation.Layers))
	}
	if len(resp.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %+v", resp.Warnings)
	}
}

func TestHandleCalc_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(t, srv, http.MethodPost, "/api/calc", `{"order": {"quantity": 1}, "stage": "melting"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown stage: status = %d, want 400", rr.Code)
	}

	rr = doRequest(t, srv, http.MethodPost, "/api/calc", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad body: status = %d, want 400", rr.Code)
	}
}

func TestHandleBoard_GroupsByStage(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/api/board", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp boardResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	for _, stage := range calc.Stages {
		if _, ok := resp.Stages[stage]; !ok {
			t.Fatalf("missing stage lane %q: %+v", stage, resp.Stages)
		}
	}
	if len(resp.Stages[calc.StagePaperSlitting]) != 1 {
		t.Fatalf("expected the fixture job in paper_slitting, got %+v", resp.Stages)
	}
	if len(resp.Stages[calc.StageWinding]) != 0 {
		t.Fatalf("expected empty winding lane, got %+v", resp.Stages[calc.StageWinding])
	}
}

func TestHandleJobCard_ComputesAndStoresSnapshot(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/api/jobs/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp jobCardResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Calculation.TotalLengthRequired != 1155 {
		t.Fatalf("totalLengthRequired = %d, want 1155", resp.Calculation.TotalLengthRequired)
	}
	// Slitting line: setup 45, run round(1155/200) = 6.
	if resp.Calculation.SetupTime != 45 || resp.Calculation.RunTime != 6 {
		t.Fatalf("unexpected times on slitting line: %+v", resp.Calculation)
	}
	if resp.Job.TotalLength != 1155 {
		t.Fatalf("job totalLength = %d, want 1155", resp.Job.TotalLength)
	}

	// The snapshot lands on the board.
	var stored string
	if err := srv.db.QueryRow(`SELECT calculation_json FROM jobs WHERE id = 1`).Scan(&stored); err != nil {
		t.Fatalf("read stored snapshot: %v", err)
	}
	if !strings.Contains(stored, `"total_length_required":1155`) {
		t.Fatalf("snapshot not stored: %s", stored)
	}
}

func TestHandleJobCard_Errors(t *testing.T) {
	srv := newTestServer(t)

	if rr := doRequest(t, srv, http.MethodGet, "/api/jobs/42", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown job: status = %d, want 404", rr.Code)
	}
	if rr := doRequest(t, srv, http.MethodGet, "/api/jobs/abc", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status = %d, want 400", rr.Code)
	}
}

func TestHandleJobMove(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(t, srv, http.MethodPost, "/api/jobs/1/stage", `{"stage": "winding"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var stage string
	if err := srv.db.QueryRow(`SELECT stage FROM jobs WHERE id = 1`).Scan(&stage); err != nil {
		t.Fatalf("read stage: %v", err)
	}
	if stage != "winding" {
		t.Fatalf("stage = %q, want winding", stage)
	}

	if rr := doRequest(t, srv, http.MethodPost, "/api/jobs/1/stage", `{"stage": "melting"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown stage: status = %d, want 400", rr.Code)
	}
	if rr := doRequest(t, srv, http.MethodPost, "/api/jobs/42/stage", `{"stage": "winding"}`); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown job: status = %d, want 404", rr.Code)
	}
}

func TestActivityEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(t, srv, http.MethodPost, "/api/jobs/1/activity", `{"kind": "start", "operator": "maria"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(t, srv, http.MethodPost, "/api/jobs/1/activity", `{"kind": "nap"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown kind: status = %d, want 400", rr.Code)
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/jobs/1/activity", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list: status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Activity []board.Activity `json:"activity"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Activity) != 1 || resp.Activity[0].Kind != "start" || resp.Activity[0].Operator != "maria" {
		t.Fatalf("unexpected activity list: %+v", resp.Activity)
	}
}
