package implementation

import (
	"context"
	"errors"
	"time"

	"dairy-assistant-be/internal/entity"
	"dairy-assistant-be/internal/mapper"
	"dairy-assistant-be/internal/model"
	"dairy-assistant-be/internal/repository/contract"
	"dairy-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConversationTurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationTurnRepository(db *gorm.DB) contract.ConversationTurnRepository {
	return &ConversationTurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationTurnRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationTurnRepositoryImpl) Create(ctx context.Context, turn *entity.ConversationTurn) error {
	m := r.mapper.TurnToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.TurnToEntity(m)
	return nil
}

func (r *ConversationTurnRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationTurn, error) {
	var models []*model.ConversationTurn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ConversationTurn, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TurnToEntity(m)
	}
	return entities, nil
}

func (r *ConversationTurnRepositoryImpl) AnswerLatestUnanswered(ctx context.Context, conversationId uuid.UUID, assistantText string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.ConversationTurn
		err := tx.
			Where("conversation_id = ?", conversationId).
			Where("assistant_text IS NULL").
			Order("request_at DESC").
			First(&m).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No pending turn, keep the reply anyway.
			orphan := model.ConversationTurn{
				ConversationId: conversationId,
				AssistantText:  datatypes.JSON(assistantText),
				ResponseAt:     &at,
			}
			return tx.Create(&orphan).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&m).Updates(map[string]interface{}{
			"assistant_text": datatypes.JSON(assistantText),
			"response_at":    at,
		}).Error
	})
}
