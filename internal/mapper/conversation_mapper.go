package mapper

import (
	"time"

	"dairy-assistant-be/internal/entity"
	"dairy-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

// Client User Mappers

func (m *ConversationMapper) ClientUserToEntity(u *model.ClientUser) *entity.ClientUser {
	if u == nil {
		return nil
	}

	var updatedAt *time.Time
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		updatedAt = &t
	}

	return &entity.ClientUser{
		Id:        u.Id,
		ClientId:  u.ClientId,
		UserId:    u.UserId,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ConversationMapper) ClientUserToModel(u *entity.ClientUser) *model.ClientUser {
	if u == nil {
		return nil
	}

	var updatedAt time.Time
	if u.UpdatedAt != nil {
		updatedAt = *u.UpdatedAt
	}

	return &model.ClientUser{
		Id:        u.Id,
		ClientId:  u.ClientId,
		UserId:    u.UserId,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

// Conversation Mappers

func (m *ConversationMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	return &entity.Conversation{
		Id:           c.Id,
		ClientUserId: c.ClientUserId,
		SessionId:    c.SessionId,
		StartTime:    c.StartTime,
		LastActive:   c.LastActive,
	}
}

func (m *ConversationMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	return &model.Conversation{
		Id:           c.Id,
		ClientUserId: c.ClientUserId,
		SessionId:    c.SessionId,
		StartTime:    c.StartTime,
		LastActive:   c.LastActive,
	}
}

// Turn Mappers

func (m *ConversationMapper) TurnToEntity(t *model.ConversationTurn) *entity.ConversationTurn {
	if t == nil {
		return nil
	}

	var assistantText *string
	if len(t.AssistantText) > 0 {
		s := string(t.AssistantText)
		assistantText = &s
	}

	return &entity.ConversationTurn{
		Id:             t.Id,
		ConversationId: t.ConversationId,
		UserText:       t.UserText,
		AssistantText:  assistantText,
		RequestAt:      t.RequestAt,
		ResponseAt:     t.ResponseAt,
	}
}

func (m *ConversationMapper) TurnToModel(t *entity.ConversationTurn) *model.ConversationTurn {
	if t == nil {
		return nil
	}

	var assistantText datatypes.JSON
	if t.AssistantText != nil {
		assistantText = datatypes.JSON(*t.AssistantText)
	}

	return &model.ConversationTurn{
		Id:             t.Id,
		ConversationId: t.ConversationId,
		UserText:       t.UserText,
		AssistantText:  assistantText,
		RequestAt:      t.RequestAt,
		ResponseAt:     t.ResponseAt,
	}
}
