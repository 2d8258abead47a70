package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PetBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-PetBookingService/internal/service/offerings"
)

const (
	msgInvalidOfferingID = "некорректный ID оффера"
	msgMissingDate       = "параметр date обязателен (DD/MM/YYYY)"
	msgNotFound          = "оффер не найден"
)

type Handler struct {
	service OfferingService
	logger  Logger
}

func NewHandler(service OfferingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/offerings/{offeringId}/availability?date=DD/MM/YYYY&endDate=DD/MM/YYYY
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	offeringID, err := strconv.ParseInt(mux.Vars(r)["offeringId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /offerings/{id}/availability - Invalid offering ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOfferingID)
		return
	}

	query := r.URL.Query()
	date := query.Get("date")
	if date == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	var endDate *string
	if raw := query.Get("endDate"); raw != "" {
		endDate = &raw
	}

	result, err := h.service.GetAvailability(r.Context(), offeringID, date, endDate)
	if err != nil {
		switch {
		case errors.Is(err, offerings.ErrOfferingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, offerings.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /offerings/{id}/availability - Failed to get availability: offering_id=%d, error=%v",
				offeringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
