package charm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Variant string

const (
	VariantPrimary    Variant = "primary"
	VariantClassic    Variant = "classic"
	VariantSculptural Variant = "sculptural"
)

// Iteration records one generated render for a design.
type Iteration struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DesignID         uuid.UUID `gorm:"type:uuid;not null;index:idx_iteration_design_number,priority:1" json:"design_id"`
	IterationNumber  int       `gorm:"not null;index:idx_iteration_design_number,priority:2" json:"iteration_number"`
	Variant          Variant   `gorm:"column:variant;not null" json:"variant"`
	PromptUsed       string    `gorm:"column:prompt_used" json:"prompt_used"`
	RenderURL        string    `gorm:"column:render_url" json:"render_url"`
	GenerationTimeMS int64     `gorm:"column:generation_time_ms" json:"generation_time_ms"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
}

func (Iteration) TableName() string { return "design_iterations" }

func (it *Iteration) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}
