package storage

import (
	"time"

	"gorm.io/datatypes"
)

// Collection is one JSON document stored under a string key. Writes always
// replace the whole document.
type Collection struct {
	Key       string         `gorm:"column:name;primarykey;size:64" json:"key"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}
