package dto

import (
	"time"

	"finance-tracker/internal/models"
)

// ChatRequest is a question for the assistant
type ChatRequest struct {
	Message string `json:"message" validate:"required,notblank,max=500"`
}

// ChatResponse is the assistant's answer to one question
type ChatResponse struct {
	Reply     string    `json:"reply"`
	Intent    string    `json:"intent"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessageResponse is one stored turn of the conversation
type ChatMessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatHistoryResponse lists the conversation oldest first
type ChatHistoryResponse struct {
	Messages []ChatMessageResponse `json:"messages"`
}

func NewChatHistoryResponse(messages []models.ChatMessage) ChatHistoryResponse {
	out := make([]ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, ChatMessageResponse{
			Role:      m.Role,
			Content:   m.Content,
			Intent:    m.Intent,
			CreatedAt: m.CreatedAt,
		})
	}
	return ChatHistoryResponse{Messages: out}
}
