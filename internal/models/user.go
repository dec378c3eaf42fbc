package models

// User is an operator account for the companion app.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never expose the hash
}
