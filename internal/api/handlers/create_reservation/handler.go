package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PetBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-PetBookingService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-PetBookingService/internal/usecase/create_reservation"
)

const (
	msgUnauthorized       = "не удалось определить пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgOfferingNotFound   = "оффер не найден"
	msgUserNotFound       = "пользователь не найден"
	msgPetNotFound        = "питомец не найден"
	msgPetNotOwned        = "питомец принадлежит другому пользователю"
	msgOfferingInactive   = "оффер не принимает новые бронирования"
	msgSpeciesNotAccepted = "вид питомца не обслуживается"
	msgDateInPast         = "нельзя бронировать прошедшие даты"
	msgSlotNotAvailable   = "выбранное время уже занято"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var body CreateReservationRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req := body.ToUseCaseRequest(userID)

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrSlotNotAvailable):
			h.logger.Warn("POST /reservations - Already booked: user_id=%d, offering_id=%d", userID, req.OfferingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createReservation.ErrOfferingNotFound):
			handlers.RespondNotFound(w, msgOfferingNotFound)

		case errors.Is(err, createReservation.ErrUserNotFound):
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, createReservation.ErrPetNotFound):
			handlers.RespondNotFound(w, msgPetNotFound)

		case errors.Is(err, createReservation.ErrPetNotOwned):
			handlers.RespondBadRequest(w, msgPetNotOwned)

		case errors.Is(err, createReservation.ErrOfferingInactive):
			handlers.RespondBadRequest(w, msgOfferingInactive)

		case errors.Is(err, createReservation.ErrSpeciesNotAccepted):
			handlers.RespondBadRequest(w, msgSpeciesNotAccepted)

		case errors.Is(err, createReservation.ErrDateInPast):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, offering_id=%d, error=%v",
				userID, req.OfferingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, user_id=%d, offering_id=%d",
		result.ID, userID, result.OfferingID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
