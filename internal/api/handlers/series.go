package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bmstu-itstech/botarena/internal/botloader"
	"github.com/bmstu-itstech/botarena/internal/config"
	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/engine"
	"github.com/bmstu-itstech/botarena/internal/manager"
	"github.com/bmstu-itstech/botarena/internal/publisher"
	"github.com/bmstu-itstech/botarena/internal/series"
	apperrors "github.com/bmstu-itstech/botarena/pkg/errors"
	"github.com/bmstu-itstech/botarena/pkg/logger"
	"github.com/bmstu-itstech/botarena/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SeriesHandler exposes the Series Manager's operator commands (§4.6,
// §7) over HTTP: create-and-start, pause, resume, stop, rerun, and a
// read-only snapshot — the same commands an embedding dashboard would
// issue directly against a series.Manager in-process.
type SeriesHandler struct {
	store    *SeriesStore
	loader   botloader.BotLoader
	registry *engine.Registry
	pub      publisher.Publisher
	baseCfg  config.TournamentConfig
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewSeriesHandler builds a SeriesHandler. loader resolves the roster
// names in a create request into playable domain.Bot values — the demo
// binary wires a small in-memory reference implementation (cmd/demo); a
// real deployment would resolve against whatever the Bot Loader
// collaborator loads from submitted sources.
func NewSeriesHandler(store *SeriesStore, loader botloader.BotLoader, registry *engine.Registry, pub publisher.Publisher, baseCfg config.TournamentConfig, log *logger.Logger, m *metrics.Metrics) *SeriesHandler {
	return &SeriesHandler{store: store, loader: loader, registry: registry, pub: pub, baseCfg: baseCfg, log: log, metrics: m}
}

type createSeriesRequest struct {
	SeriesName string            `json:"seriesName"`
	Roster     []string          `json:"roster"`
	Games      []domain.GameType `json:"games,omitempty"`
}

type createSeriesResponse struct {
	SeriesID string `json:"seriesId"`
	commandResponse
}

// Create resolves the roster through the Bot Loader, builds a Series
// Manager for the requested (or default) game sequence, and starts it.
// POST /api/v1/series
func (h *SeriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ErrValidation.WithError(err))
		return
	}
	if len(req.Roster) < 2 {
		writeError(w, apperrors.ErrInsufficientBots)
		return
	}

	ctx := r.Context()
	bots := make([]domain.Bot, 0, len(req.Roster))
	for _, name := range req.Roster {
		bot, err := h.loader.Load(ctx, name)
		if err != nil {
			writeError(w, apperrors.ErrValidation.WithMessage("failed to load bot "+name).WithError(err))
			return
		}
		bots = append(bots, bot)
	}

	cfg := h.baseCfg
	if len(req.Games) > 0 {
		cfg.Games = req.Games
	}
	seriesName := req.SeriesName
	if seriesName == "" {
		seriesName = "series"
	}
	seriesID := uuid.NewString()

	mgr := series.NewManager(seriesID, seriesName, req.Roster, cfg, h.registry, h.pub, h.log, h.metrics)
	h.store.Put(seriesID, mgr)

	result := mgr.Start(ctx, bots)
	writeJSON(w, http.StatusCreated, createSeriesResponse{
		SeriesID:        seriesID,
		commandResponse: commandResponse{Success: result.Success, Message: result.Message},
	})
}

// Get returns the current externally-published snapshot for a series.
// GET /api/v1/series/{seriesID}
func (h *SeriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	mgr, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, mgr.Snapshot())
}

// Pause forwards to the active step's Pause command.
// POST /api/v1/series/{seriesID}/pause
func (h *SeriesHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, (*series.Manager).Pause)
}

// Resume forwards to the active step's Resume command.
// POST /api/v1/series/{seriesID}/resume
func (h *SeriesHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, (*series.Manager).Resume)
}

// Stop cancels the whole series.
// POST /api/v1/series/{seriesID}/stop
func (h *SeriesHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, (*series.Manager).Stop)
}

// Rerun resets standings and step statuses so the series can be started
// again by a call to its Start; no route here restarts an existing series
// (Create always builds a new one under a new seriesID).
// POST /api/v1/series/{seriesID}/rerun
func (h *SeriesHandler) Rerun(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, (*series.Manager).Rerun)
}

func (h *SeriesHandler) command(w http.ResponseWriter, r *http.Request, fn func(*series.Manager) manager.CommandResult) {
	mgr, ok := h.lookup(w, r)
	if !ok {
		return
	}
	result := fn(mgr)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusConflict
	}
	writeJSON(w, status, commandResponse{Success: result.Success, Message: result.Message})
}

func (h *SeriesHandler) lookup(w http.ResponseWriter, r *http.Request) (*series.Manager, bool) {
	seriesID := chi.URLParam(r, "seriesID")
	mgr, ok := h.store.Get(seriesID)
	if !ok {
		writeError(w, apperrors.New(http.StatusNotFound, "series not found", nil))
		return nil, false
	}
	return mgr, true
}
