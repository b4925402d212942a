package models

// Device is a machine parts can be issued to. Abbreviation is normalized on
// creation (ASCII fold, uppercase, no spaces, at most 8 characters) because
// it doubles as the per-part usage flag column name.
type Device struct {
	ID           int    `json:"id" db:"id"`
	Abbreviation string `json:"abbreviation" db:"abbreviation"`
	Name         string `json:"name" db:"name"`
	Location     string `json:"location" db:"location"`
	Type         string `json:"type" db:"type"`
}
