package httphandlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"gedops/internal/database"
	"gedops/internal/service"
)

const defaultRunsLimit = 50

type (
	// StatusHandler is the read-only API the daemon exposes: artifact
	// catalog, recent runs, on-demand verification.
	StatusHandler struct {
		backups service.BackupService
		runs    database.RunRepository
	}
)

func NewStatusHandler(backups service.BackupService, runs database.RunRepository) *StatusHandler {
	return &StatusHandler{backups: backups, runs: runs}
}

func (handler *StatusHandler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	artifacts, err := handler.backups.ListArtifacts(r.Context())
	if err != nil {
		serverError(w, err)
		return
	}
	ok(w, "artifacts", artifacts)
}

func (handler *StatusHandler) VerifyArtifact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(pathValue(r, "id"))
	if err != nil {
		badRequest(w, errors.Wrap(err, "invalid artifact id"))
		return
	}

	if err := handler.backups.VerifyArtifact(r.Context(), id); err != nil {
		serverError(w, err)
		return
	}
	ok(w, "artifact verified", struct{}{})
}

func (handler *StatusHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(w, errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}

	runs, err := handler.runs.FindRecent(r.Context(), limit)
	if err != nil {
		serverError(w, err)
		return
	}
	ok(w, "runs", runs)
}
