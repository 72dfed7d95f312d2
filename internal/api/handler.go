package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/rewards"
	"github.com/abhisek/learnquest/internal/store"
)

// LeaderboardLimit is the maximum number of ranked learners returned.
const LeaderboardLimit = store.DefaultLeaderboardLimit

// Pinger reports backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the learner API on top of a progress.Manager.
type Handler struct {
	manager     *progress.Manager
	rewards     *rewards.Service
	states      store.GameStateRepo
	catalog     interests.Catalog
	categorizer interests.Categorizer
	health      Pinger
	logger      *zap.Logger
}

// NewHandler wires the API dependencies.
func NewHandler(manager *progress.Manager, rewardSvc *rewards.Service, states store.GameStateRepo,
	catalog interests.Catalog, categorizer interests.Categorizer, health Pinger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		manager:     manager,
		rewards:     rewardSvc,
		states:      states,
		catalog:     catalog,
		categorizer: categorizer,
		health:      health,
		logger:      logger,
	}
}

// recordResponse is the wire form of one interest's progress.
type recordResponse struct {
	UnlockedStage int    `json:"unlockedStage"`
	Hearts        int    `json:"hearts"`
	LastHeartLost *int64 `json:"lastHeartLost"`
	NextHeartInMs int64  `json:"nextHeartInMs"`
	TotalStages   int    `json:"totalStages"`
}

type stateResponse struct {
	Identity             string                    `json:"identity"`
	Ready                bool                      `json:"ready"`
	Credits              int                       `json:"credits"`
	Interests            []string                  `json:"interests"`
	Progress             map[string]recordResponse `json:"progress"`
	AllInterestsComplete bool                      `json:"allInterestsComplete"`
}

func (h *Handler) toStateResponse(snap progress.Snapshot, now time.Time) stateResponse {
	out := stateResponse{
		Identity:             snap.Identity,
		Ready:                snap.Ready,
		Credits:              snap.Credits,
		Interests:            interests.Strings(snap.Interests),
		Progress:             make(map[string]recordResponse, len(snap.Progress)),
		AllInterestsComplete: snap.AllInterestsComplete,
	}
	for k, r := range snap.Progress {
		rr := recordResponse{
			UnlockedStage: r.UnlockedStage,
			Hearts:        r.Hearts,
			NextHeartInMs: r.NextHeartIn(now).Milliseconds(),
			TotalStages:   h.catalog.TotalStages(k),
		}
		if r.LastHeartLostAt != nil {
			ms := r.LastHeartLostAt.UnixMilli()
			rr.LastHeartLost = &ms
		}
		out.Progress[string(k)] = rr
	}
	return out
}

// engine hydrates (if needed) and returns the engine of the {id} path param.
func (h *Handler) engine(r *http.Request) (*progress.Engine, error) {
	return h.manager.Open(r.Context(), chi.URLParam(r, "id"))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if toAPIError(err) == nil {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
	}
	RespondError(w, err)
}

func (h *Handler) respondState(w http.ResponseWriter, e *progress.Engine) {
	RespondJSON(w, http.StatusOK, h.toStateResponse(e.Snapshot(), e.Now()))
}

// Health checks the storage backend.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// GetState returns the learner's snapshot.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondState(w, e)
}

type selectInterestsRequest struct {
	Interests []string           `json:"interests"`
	Answers   []interests.Answer `json:"answers"`
}

// SelectInterests replaces the selection, either with explicit keys or with
// the categorized result of interest quiz answers.
func (h *Handler) SelectInterests(w http.ResponseWriter, r *http.Request) {
	var req selectInterestsRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	var keys []interests.Key
	switch {
	case len(req.Interests) > 0:
		parsed, err := interests.ParseAll(req.Interests)
		if err != nil {
			h.fail(w, r, badRequest("%v", err))
			return
		}
		keys = parsed
	case len(req.Answers) > 0 && h.categorizer != nil:
		categorized, err := h.categorizer.Categorize(req.Answers)
		if err != nil {
			h.fail(w, r, badRequest("categorize answers: %v", err))
			return
		}
		keys = categorized
	}

	e, err := h.engine(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := e.SelectInterests(keys); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondState(w, e)
}

type addInterestRequest struct {
	Interest string `json:"interest"`
}

// AddInterest appends one interest once every track is complete.
func (h *Handler) AddInterest(w http.ResponseWriter, r *http.Request) {
	var req addInterestRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	e, err := h.engine(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := e.AddInterest(interests.Key(req.Interest)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondState(w, e)
}

type answerRequest struct {
	Choice int `json:"choice"`
}

type answerResponse struct {
	Correct        bool            `json:"correct"`
	Earned         int             `json:"earned"`
	Credits        int             `json:"credits"`
	Record         recordResponse  `json:"record"`
	UnlockedGoodie *rewards.Goodie `json:"unlockedGoodie,omitempty"`
}

// Answer grades a stage quiz choice and records the outcome.
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	key, err := interests.Parse(chi.URLParam(r, "interest"))
	if err != nil {
		h.fail(w, r, &Error{Status: http.StatusNotFound, Code: "UNKNOWN_INTEREST", Message: err.Error()})
		return
	}
	stageID, err := strconv.Atoi(chi.URLParam(r, "stage"))
	if err != nil {
		h.fail(w, r, badRequest("invalid stage %q", chi.URLParam(r, "stage")))
		return
	}
	var req answerRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	stage, ok := h.catalog.Stage(key, stageID)
	if !ok {
		h.fail(w, r, progress.ErrUnknownStage)
		return
	}
	if req.Choice < 0 || req.Choice >= len(stage.Options) {
		h.fail(w, r, badRequest("choice %d out of range", req.Choice))
		return
	}

	e, err := h.engine(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := e.RecordAnswer(key, stageID, stage.IsCorrect(req.Choice))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	snap := h.toStateResponse(progress.Snapshot{Progress: map[interests.Key]progress.Record{key: out.Record}}, e.Now())
	resp := answerResponse{
		Correct: out.Correct,
		Earned:  out.Earned(),
		Credits: out.CreditsAfter,
		Record:  snap.Progress[string(key)],
	}
	if g, ok := rewards.Crossed(out.CreditsBefore, out.CreditsAfter); ok {
		resp.UnlockedGoodie = &g
	}
	RespondJSON(w, http.StatusOK, resp)
}

// ResetHearts refills one interest's hearts.
func (h *Handler) ResetHearts(w http.ResponseWriter, r *http.Request) {
	key, err := interests.Parse(chi.URLParam(r, "interest"))
	if err != nil {
		h.fail(w, r, &Error{Status: http.StatusNotFound, Code: "UNKNOWN_INTEREST", Message: err.Error()})
		return
	}
	e, err := h.engine(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := e.ResetHearts(key); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondState(w, e)
}

// ResetGame zeroes credits and restarts every track.
func (h *Handler) ResetGame(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := e.ResetGame(); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondState(w, e)
}

// Logout tears down the learner's engine after flushing its writes.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.manager.Logout(chi.URLParam(r, "id"))
	RespondJSON(w, http.StatusNoContent, nil)
}

type goodiesResponse struct {
	Credits  int              `json:"credits"`
	Unlocked int              `json:"unlocked"`
	Goodies  []rewards.Status `json:"goodies"`
}

// ListGoodies returns every goodie with its unlock and claim state.
func (h *Handler) ListGoodies(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	snap := e.Snapshot()
	statuses, err := h.rewards.Statuses(r.Context(), snap.Identity, snap.Credits)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, goodiesResponse{
		Credits:  snap.Credits,
		Unlocked: len(rewards.Unlocked(snap.Credits)),
		Goodies:  statuses,
	})
}

// ClaimGoodie records a real-world goodie claim.
func (h *Handler) ClaimGoodie(w http.ResponseWriter, r *http.Request) {
	goodieID, err := strconv.Atoi(chi.URLParam(r, "goodie"))
	if err != nil {
		h.fail(w, r, badRequest("invalid goodie %q", chi.URLParam(r, "goodie")))
		return
	}
	e, err := h.engine(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	snap := e.Snapshot()
	claim, err := h.rewards.Claim(r.Context(), snap.Identity, snap.Credits, goodieID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, claim)
}

type stageResponse struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	VideoURL string   `json:"videoUrl,omitempty"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ListStages returns the public content of an interest track.
func (h *Handler) ListStages(w http.ResponseWriter, r *http.Request) {
	key, err := interests.Parse(chi.URLParam(r, "interest"))
	if err != nil {
		h.fail(w, r, &Error{Status: http.StatusNotFound, Code: "UNKNOWN_INTEREST", Message: err.Error()})
		return
	}
	stages := h.catalog.Stages(key)
	out := make([]stageResponse, 0, len(stages))
	for _, s := range stages {
		out = append(out, stageResponse{
			ID:       s.ID,
			Title:    s.Title,
			VideoURL: s.VideoURL,
			Question: s.Question,
			Options:  s.Options,
		})
	}
	RespondJSON(w, http.StatusOK, out)
}

// Leaderboard ranks learners by credits.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := LeaderboardLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			h.fail(w, r, badRequest("invalid limit %q", s))
			return
		}
		limit = min(n, LeaderboardLimit)
	}
	entries, err := h.states.Leaderboard(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []store.LeaderboardEntry{}
	}
	RespondJSON(w, http.StatusOK, entries)
}
