package domain

import (
	"time"

	"github.com/google/uuid"
)

type PromptTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewPromptTemplate(name, description, content string) PromptTemplate {
	now := time.Now()
	return PromptTemplate{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Content:     content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
