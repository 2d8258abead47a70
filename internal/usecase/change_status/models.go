package change_status

// Request модель запроса на смену статуса бронирования
type Request struct {
	ReservationID int64   // ID бронирования из пути
	ActorID       int64   // вызывающий пользователь (X-User-ID)
	Status        string  // accepted | rejected | cancelled | completed
	Reason        *string // причина отказа или отмены
}
