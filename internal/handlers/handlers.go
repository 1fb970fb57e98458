package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"greenspark-backend/internal/auth"
	"greenspark-backend/internal/logging"
	"greenspark-backend/internal/models"
	"greenspark-backend/internal/respond"
	"greenspark-backend/internal/storage"
)

// CampaignNotifier is told about every stored campaign. Implementations must
// return quickly; slow work belongs on a goroutine or the bus.
type CampaignNotifier interface {
	CampaignCreated(ctx context.Context, c models.Campaign) error
}

type Handler struct {
	store     storage.CampaignStore
	notifiers []CampaignNotifier
	log       logging.Logger
}

func New(store storage.CampaignStore, log logging.Logger, notifiers ...CampaignNotifier) *Handler {
	return &Handler{
		store:     store,
		notifiers: notifiers,
		log:       log.With("component", "campaigns"),
	}
}

// RegisterRoutes mounts the campaign endpoints. requireAuth guards creation.
func (h *Handler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/api/campaigns", h.ListCampaigns)
	r.With(requireAuth).Post("/api/campaigns/create", h.CreateCampaign)
}

// CreateCampaign stores a new campaign
// @Summary Create campaign
// @Description Stores the submitted campaign exactly as sent and returns it with its id
// @Tags campaigns
// @Accept json
// @Produce json
// @Param campaign body models.CampaignInput true "Campaign"
// @Success 201 {object} models.Campaign
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 500 {object} map[string]string "Failed to create campaign"
// @Router /campaigns/create [post]
func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var in models.CampaignInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := models.Validate(in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		h.log.Error(ctx, "generate campaign id", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create campaign")
		return
	}

	campaign := in.Campaign()
	campaign.ID = id.String()
	campaign.CreatedBy = user.ID
	campaign.CreatedAt = time.Now().UTC()

	if err := h.store.CreateCampaign(ctx, &campaign); err != nil {
		h.log.Error(ctx, "create campaign", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create campaign")
		return
	}

	h.log.Info(ctx, "campaign created", "id", campaign.ID, "category", campaign.Category, "created_by", user.ID)
	h.announce(ctx, campaign)

	respond.JSON(w, http.StatusCreated, campaign)
}

func (h *Handler) announce(ctx context.Context, c models.Campaign) {
	// the request context ends with the response; notifiers may outlive it
	ctx = context.WithoutCancel(ctx)
	for _, n := range h.notifiers {
		if err := n.CampaignCreated(ctx, c); err != nil {
			h.log.Warn(ctx, "campaign notification failed", "id", c.ID, "error", err)
		}
	}
}

// ListCampaigns returns every campaign
// @Summary List campaigns
// @Description Returns all campaigns in creation order. Filtering is done by the client.
// @Tags campaigns
// @Produce json
// @Success 200 {array} models.Campaign
// @Failure 500 {object} map[string]string "Server error"
// @Router /campaigns [get]
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.store.ListCampaigns(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "list campaigns", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	respond.JSON(w, http.StatusOK, campaigns)
}
