package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/sharpline/odds-intel/internal/arbitrage"
	"github.com/sharpline/odds-intel/internal/storage"
	"go.uber.org/zap"
)

const defaultListLimit = 50

// OpportunitiesHandler serves the read-only arbitrage opportunity listing.
type OpportunitiesHandler struct {
	store  storage.Store
	logger *zap.Logger
}

// NewOpportunitiesHandler creates a new opportunities handler.
func NewOpportunitiesHandler(store storage.Store, logger *zap.Logger) *OpportunitiesHandler {
	return &OpportunitiesHandler{
		store:  store,
		logger: logger,
	}
}

// OpportunityResponse is the wire form of one opportunity.
type OpportunityResponse struct {
	ID            string    `json:"id"`
	EventID       int64     `json:"event_id"`
	Market        string    `json:"market"`
	Line          *float64  `json:"line,omitempty"`
	SelectionA    string    `json:"selection_a"`
	SelectionB    string    `json:"selection_b"`
	BookA         string    `json:"book_a"`
	BookB         string    `json:"book_b"`
	OddsA         float64   `json:"odds_a"`
	OddsB         float64   `json:"odds_b"`
	ArbPercentage float64   `json:"arb_percentage"`
	TotalStake    float64   `json:"total_stake"`
	StakeA        float64   `json:"stake_a"`
	StakeB        float64   `json:"stake_b"`
	DetectedAt    time.Time `json:"detected_at"`
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleList handles GET /api/opportunities?limit=<n> requests.
func (h *OpportunitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	opps, err := h.store.ListOpportunities(r.Context(), limit)
	if err != nil {
		h.logger.Error("list-opportunities-failed", zap.Error(err))
		h.writeError(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]OpportunityResponse, 0, len(opps))
	for _, opp := range opps {
		resp = append(resp, toResponse(opp))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func toResponse(opp *arbitrage.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:            opp.ID,
		EventID:       opp.EventID,
		Market:        string(opp.Market),
		Line:          opp.Line,
		SelectionA:    string(opp.SelectionA),
		SelectionB:    string(opp.SelectionB),
		BookA:         opp.BookA,
		BookB:         opp.BookB,
		OddsA:         opp.OddsA,
		OddsB:         opp.OddsB,
		ArbPercentage: opp.ArbPercentage,
		TotalStake:    opp.TotalStake,
		StakeA:        opp.StakeA,
		StakeB:        opp.StakeB,
		DetectedAt:    opp.DetectedAt,
	}
}

func (h *OpportunitiesHandler) writeError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}
