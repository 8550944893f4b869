package analytics

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event is one funnel event reported by the quiz front end.
type Event struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID  string         `gorm:"column:session_id;not null;index" json:"session_id"`
	EventType  string         `gorm:"column:event_type;not null;index" json:"event_type"`
	EventData  datatypes.JSON `gorm:"column:event_data" json:"event_data,omitempty"`
	PageURL    string         `gorm:"column:page_url" json:"page_url,omitempty"`
	OccurredAt time.Time      `gorm:"column:occurred_at;not null;index" json:"occurred_at"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

func (Event) TableName() string { return "analytics_events" }

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
