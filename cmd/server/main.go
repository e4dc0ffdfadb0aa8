package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/corewind/coreboard/internal/board"
	"github.com/corewind/coreboard/internal/calc"
	"github.com/corewind/coreboard/internal/config"
	"github.com/corewind/coreboard/internal/db"
	"github.com/corewind/coreboard/internal/migrations"
	"github.com/corewind/coreboard/internal/seed"
)

type server struct {
	db     *sql.DB
	store  *board.Store
	params calc.Params
}

type calcRequest struct {
	Order       calc.Order       `json:"order"`
	ProductSpec calc.ProductSpec `json:"product_spec"`
	Stage       calc.Stage       `json:"stage"`
}

type calcResponse struct {
	Calculation calc.ProductionCalculation `json:"calculation"`
	Warnings    []calc.Warning             `json:"warnings"`
}

type boardResponse struct {
	Stages map[calc.Stage][]board.Job `json:"stages"`
}

type jobCardResponse struct {
	Job         board.Job                  `json:"job"`
	Order       calc.Order                 `json:"order"`
	ProductSpec calc.ProductSpec           `json:"product_spec"`
	Calculation calc.ProductionCalculation `json:"calculation"`
	Warnings    []calc.Warning             `json:"warnings"`
}

type moveRequest struct {
	Stage calc.Stage `json:"stage"`
}

type activityRequest struct {
	Kind     string `json:"kind"`
	Operator string `json:"operator"`
	Note     string `json:"note"`
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
		stats, err := seed.Run(database)
		if err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
		if stats.Inserts > 0 {
			log.Printf("seeded %d demo rows", stats.Inserts)
		}
	}

	params := calc.DefaultParams()
	params.Model = calc.MaterialModelByName(cfg.MaterialModel)
	if cfg.CartonsPerTapeRoll > 0 {
		params.CartonsPerTapeRoll = cfg.CartonsPerTapeRoll
	}
	log.Printf("material model: %s", params.Model.Name())

	srv := &server{db: database, store: board.NewStore(database), params: params}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/calc", s.handleCalc)
	r.Get("/api/board", s.handleBoard)
	r.Get("/api/jobs/{id}", s.handleJobCard)
	r.Post("/api/jobs/{id}/stage", s.handleJobMove)
	r.Get("/api/jobs/{id}/activity", s.handleActivityList)
	r.Post("/api/jobs/{id}/activity", s.handleActivityCreate)
	return r
}

func (s *server) handleCalc(w http.ResponseWriter, r *http.Request) {
	var req calcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !calc.ValidStage(req.Stage) {
		writeError(w, http.StatusBadRequest, "unknown stage")
		return
	}

	calculation, warnings := calc.Compute(req.Order, req.ProductSpec, req.Stage, s.params)
	writeJSON(w, http.StatusOK, calcResponse{Calculation: calculation, Warnings: warnings})
}

func (s *server) handleBoard(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.ListJobs()
	if err != nil {
		log.Printf("list jobs: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load board")
		return
	}

	stages := make(map[calc.Stage][]board.Job, len(calc.Stages))
	for _, stage := range calc.Stages {
		stages[stage] = []board.Job{}
	}
	for _, job := range jobs {
		stages[job.Stage] = append(stages[job.Stage], job)
	}

	writeJSON(w, http.StatusOK, boardResponse{Stages: stages})
}

func (s *server) handleJobCard(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	card, err := s.store.GetJobCard(id)
	if errors.Is(err, board.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		log.Printf("load job card: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load job")
		return
	}

	// Outputs are derived, never patched: every card view recomputes the
	// full chain and replaces the stored snapshot.
	calculation, warnings := calc.Compute(card.Order, card.Spec, card.Job.Stage, s.params)
	if err := s.store.SaveCalculation(id, calculation); err != nil {
		log.Printf("save calculation snapshot: %v", err)
	}
	card.Job.TotalLength = calculation.TotalLengthRequired

	writeJSON(w, http.StatusOK, jobCardResponse{
		Job:         card.Job,
		Order:       card.Order,
		ProductSpec: card.Spec,
		Calculation: calculation,
		Warnings:    warnings,
	})
}

func (s *server) handleJobMove(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !calc.ValidStage(req.Stage) {
		writeError(w, http.StatusBadRequest, "unknown stage")
		return
	}

	err := s.store.MoveJob(id, req.Stage)
	if errors.Is(err, board.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		log.Printf("move job: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to move job")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "stage": req.Stage})
}

func (s *server) handleActivityCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Kind = strings.TrimSpace(req.Kind)
	if !board.ValidActivityKind(req.Kind) {
		writeError(w, http.StatusBadRequest, "unknown activity kind")
		return
	}

	err := s.store.RecordActivity(id, req.Kind, strings.TrimSpace(req.Operator), strings.TrimSpace(req.Note))
	if errors.Is(err, board.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		log.Printf("record activity: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to record activity")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *server) handleActivityList(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	activity, err := s.store.ListActivity(id)
	if err != nil {
		log.Printf("list activity: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load activity")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"activity": activity})
}

func jobID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
