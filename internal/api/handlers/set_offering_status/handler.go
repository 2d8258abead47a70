package set_offering_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PetBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-PetBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-PetBookingService/internal/service/offerings"
	"github.com/m04kA/SMC-PetBookingService/internal/service/offerings/models"
)

const (
	msgUnauthorized       = "не удалось определить пользователя"
	msgInvalidOfferingID  = "некорректный ID оффера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "оффер не найден"
	msgForbidden          = "изменять оффер может только его владелец"
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

// Handle PATCH /api/v1/offerings/{offeringId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	offeringID, err := strconv.ParseInt(mux.Vars(r)["offeringId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /offerings/{id}/status - Invalid offering ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOfferingID)
		return
	}

	var req models.SetStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /offerings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetStatus(r.Context(), offeringID, callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, offerings.ErrOfferingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, offerings.ErrAccessDenied):
			h.logger.Warn("PATCH /offerings/{id}/status - Access denied: offering_id=%d, user_id=%d", offeringID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, offerings.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /offerings/{id}/status - Failed to set status: offering_id=%d, error=%v", offeringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /offerings/{id}/status - Status changed: offering_id=%d, status=%s", offeringID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
