// internal/models/models.go
package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Predictions []PredictionRecord `gorm:"foreignKey:UserID" json:"predictions,omitempty"`
}

// PredictionRecord is a saved classification outcome. Rows are created when a
// user explicitly saves a result and are never updated afterwards.
type PredictionRecord struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	InputText        string    `gorm:"not null" json:"input_text"`
	Prediction       string    `gorm:"not null" json:"prediction"`
	HumanProbability float64   `json:"human_probability"`
	AIProbability    float64   `json:"ai_probability"`
	ModelName        string    `gorm:"not null" json:"model_name"`
	AnalyzedAt       time.Time `json:"analyzed_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
