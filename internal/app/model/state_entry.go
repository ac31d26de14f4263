package model

import "time"

// StateEntry backs the relational key-value store. Keys are already
// namespaced by session when they reach this table.
type StateEntry struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

func (StateEntry) TableName() string {
	return "state_entries"
}
