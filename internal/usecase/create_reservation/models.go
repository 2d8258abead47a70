package create_reservation

// Request модель запроса на создание бронирования
type Request struct {
	RequesterID  int64   // вызывающий пользователь (X-User-ID)
	OfferingID   int64   // ID оффера
	OfferingKind *string // ожидаемый тип оффера ("slot" | "range"), необязателен
	PetID        int64   // ID питомца
	StartDate    string  // "16/01/2024"
	EndDate      *string // для диапазонов; по умолчанию равна startDate
	StartTime    *string // "10:30", только для слотов
	Note         *string
	Contact      Contact
}

// Contact контактные данные заказчика
type Contact struct {
	Name  string
	Phone string
	Email string
}
