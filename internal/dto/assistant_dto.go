package dto

import (
	"encoding/json"
	"time"
)

type ChatRequest struct {
	ClientId       *int   `json:"client_id"`
	ClientUserId   int64  `json:"client_user_id" validate:"required"`
	ClientUserName string `json:"client_user_name"`
	Query          string `json:"query" validate:"required"`
}

type ChatResponse struct {
	Response     json.RawMessage `json:"response"`
	Client       int             `json:"Client"`
	ClientUserId int64           `json:"client_user_id"`
}

type HistoryRequest struct {
	ClientId     *int   `json:"client_id"`
	ClientUserId *int64 `json:"client_user_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

type HistoryMessage struct {
	UserText      string          `json:"user_text"`
	AssistantText json.RawMessage `json:"assistant_text"`
	RequestAt     time.Time       `json:"request_at"`
	ResponseAt    *time.Time      `json:"response_at"`
}

type HistoryConversation struct {
	SessionId  string           `json:"session_id"`
	StartTime  time.Time        `json:"start_time"`
	LastActive time.Time        `json:"last_active"`
	Messages   []HistoryMessage `json:"messages"`
}

type HistoryResponse struct {
	ClientUserId   int64                 `json:"client_user_id"`
	ClientUserName string                `json:"client_user_name"`
	History        []HistoryConversation `json:"history"`
}
