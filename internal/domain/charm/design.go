package charm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Design is one custom charm as it moves through fulfillment.
type Design struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DesignID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"design_id"`
	SessionID string    `gorm:"column:session_id;index" json:"session_id,omitempty"`

	Email       string                            `gorm:"column:email;not null;index" json:"email"`
	SubjectName string                            `gorm:"column:subject_name;not null" json:"subject_name"`
	PhotoURL    string                            `gorm:"column:photo_url" json:"photo_url"`
	PhotoKey    string                            `gorm:"column:photo_key" json:"photo_key,omitempty"`
	Responses   datatypes.JSONType[QuizResponses] `gorm:"column:responses" json:"responses"`

	RenderURL      string `gorm:"column:render_url" json:"render_url,omitempty"`
	RenderKey      string `gorm:"column:render_key" json:"render_key,omitempty"`
	AIPrompt       string `gorm:"column:ai_prompt" json:"ai_prompt,omitempty"`
	ProductID      string `gorm:"column:product_id" json:"product_id,omitempty"`
	VariantID      string `gorm:"column:variant_id" json:"variant_id,omitempty"`
	ProductHandle  string `gorm:"column:product_handle" json:"product_handle,omitempty"`
	ProductURL     string `gorm:"column:product_url" json:"product_url,omitempty"`
	CheckoutURL    string `gorm:"column:checkout_url" json:"checkout_url,omitempty"`
	EmailSent      bool   `gorm:"column:email_sent;not null;default:false" json:"email_sent"`
	EmailMessageID string `gorm:"column:email_message_id" json:"email_message_id,omitempty"`

	Status           Status `gorm:"column:status;not null;index" json:"status"`
	ErrorMessage     string `gorm:"column:error_message" json:"error_message,omitempty"`
	FailedFromStatus Status `gorm:"column:failed_from_status" json:"failed_from_status,omitempty"`

	CreatedAt        time.Time  `gorm:"not null;index" json:"created_at"`
	RenderedAt       *time.Time `json:"rendered_at,omitempty"`
	ProductCreatedAt *time.Time `json:"product_created_at,omitempty"`
	EmailSentAt      *time.Time `json:"email_sent_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	ErrorAt          *time.Time `json:"error_at,omitempty"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

func (Design) TableName() string { return "designs" }

func (d *Design) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.DesignID == uuid.Nil {
		d.DesignID = uuid.New()
	}
	if d.Status == "" {
		d.Status = StatusPending
	}
	return nil
}

func (d *Design) Quiz() QuizResponses {
	if d == nil {
		return QuizResponses{}
	}
	return d.Responses.Data()
}
