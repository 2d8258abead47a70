package petservice

// Pet модель питомца из PetService
type Pet struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"ownerId"`
	Name    string `json:"name"`
	Species string `json:"species"` // dog, cat, ...
}
