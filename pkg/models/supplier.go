package models

// Supplier is immutable once referenced by a variant or a movement; there is
// no delete path for it anywhere in the service.
type Supplier struct {
	ID      int    `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Contact string `json:"contact" db:"contact"`
	Email   string `json:"email" db:"email"`
	Phone   string `json:"phone" db:"phone"`
}
