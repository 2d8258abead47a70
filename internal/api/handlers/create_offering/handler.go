package create_offering

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PetBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-PetBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-PetBookingService/internal/service/offerings"
	"github.com/m04kA/SMC-PetBookingService/internal/service/offerings/models"
)

const (
	msgUnauthorized       = "не удалось определить пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
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

// Handle POST /api/v1/offerings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.CreateOfferingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /offerings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), providerID, &req)
	if err != nil {
		if errors.Is(err, offerings.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("POST /offerings - Failed to create offering: provider_id=%d, error=%v", providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /offerings - Offering created successfully: offering_id=%d, provider_id=%d", result.ID, providerID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
