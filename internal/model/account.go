package model

import "time"

type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FarmName     string    `json:"farmName"`
	Location     string    `json:"location"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AccountSummary is the public projection of an Account joined onto
// listings and orders.
type AccountSummary struct {
	ID       string `json:"id"`
	FarmName string `json:"farmName"`
	Location string `json:"location"`
}

// ProfilePatch holds the editable profile fields. Nil fields are left as is.
type ProfilePatch struct {
	FarmName *string
	Location *string
	Phone    *string
}
