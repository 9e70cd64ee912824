package model

import "time"

const StorageUnitStatusActive = "active"

type StorageUnit struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	Temperature float64   `json:"temperature"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
