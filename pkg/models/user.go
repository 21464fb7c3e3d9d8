package models

// User is the profile document stored under user:<id>. The client holds a
// read-through cached copy per subscription; the store owns the record.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Handle string `json:"handle,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	// Role flags
	Official bool `json:"official,omitempty"`
	Admin    bool `json:"admin,omitempty"`
	// Presence status string, e.g. "online" or "last seen recently"
	Status string `json:"status,omitempty"`
	// Created timestamp (ms)
	CreatedAt int64 `json:"createdAt,omitempty"`
}
