package create_reservation

import "errors"

var (
	// ErrOfferingNotFound возвращается, когда оффер не найден
	ErrOfferingNotFound = errors.New("create_reservation: offering not found")

	// ErrUserNotFound возвращается, когда заказчик не найден в UserService
	ErrUserNotFound = errors.New("create_reservation: user not found")

	// ErrPetNotFound возвращается, когда питомец не найден в PetService
	ErrPetNotFound = errors.New("create_reservation: pet not found")

	// ErrPetNotOwned возвращается, когда питомец принадлежит другому пользователю
	ErrPetNotOwned = errors.New("create_reservation: pet does not belong to the requester")

	// ErrOfferingInactive возвращается, когда оффер не принимает новые бронирования
	ErrOfferingInactive = errors.New("create_reservation: offering is not active")

	// ErrSpeciesNotAccepted возвращается, когда вид питомца не обслуживается
	ErrSpeciesNotAccepted = errors.New("create_reservation: pet species is not accepted")

	// ErrDateInPast возвращается при попытке забронировать прошедшее время
	ErrDateInPast = errors.New("create_reservation: date is in the past")

	// ErrSlotNotAvailable возвращается, когда слот или диапазон уже занят
	ErrSlotNotAvailable = errors.New("create_reservation: already booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
