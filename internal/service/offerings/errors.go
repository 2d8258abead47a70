package offerings

import "errors"

var (
	// ErrOfferingNotFound возвращается, когда оффер не найден
	ErrOfferingNotFound = errors.New("offerings: offering not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец оффера
	ErrAccessDenied = errors.New("offerings: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("offerings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("offerings: internal error")
)
