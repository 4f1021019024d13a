package discovery

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/embermatch/ember-backend/internal/common/utils"
	"github.com/embermatch/ember-backend/internal/geo"
)

type Handler struct {
	service Service
	users   UserStore
}

func NewHandler(service Service, users UserStore) *Handler {
	return &Handler{service: service, users: users}
}

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	limit := DefaultMatchLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	criteria, err := h.service.LoadFilters(r.Context(), userID)
	if err != nil {
		criteria = DefaultCriteria()
	}

	result, err := h.service.GetRankedMatches(r.Context(), userID, criteria, limit)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) RecordSwipe(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	var dto SwipeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	candidate, err := h.users.GetProfile(r.Context(), dto.TargetID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	if err := h.service.RecordSwipe(r.Context(), userID, candidate, dto.Liked); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusAccepted, map[string]bool{"recorded": true})
}

func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	criteria, err := h.service.LoadFilters(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load filters")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, criteria)
}

func (h *Handler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	var dto UpdateFiltersDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	criteria := dto.ToCriteria()
	if err := h.service.SaveFilters(r.Context(), userID, criteria); err != nil {
		respondEngineError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, criteria)
}

func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	candidateID := mux.Vars(r)["userId"]

	score, err := h.service.CalculateCompatibility(r.Context(), userID, candidateID)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, score)
}

func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCriteria), errors.Is(err, geo.ErrInvalidCoordinate):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrMissingLocation):
		utils.RespondWithError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, ErrProfileNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error")
	}
}
