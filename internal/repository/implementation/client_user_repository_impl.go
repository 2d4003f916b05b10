package implementation

import (
	"context"
	"errors"

	"dairy-assistant-be/internal/entity"
	"dairy-assistant-be/internal/mapper"
	"dairy-assistant-be/internal/model"
	"dairy-assistant-be/internal/repository/contract"
	"dairy-assistant-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ClientUserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewClientUserRepository(db *gorm.DB) contract.ClientUserRepository {
	return &ClientUserRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ClientUserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ClientUserRepositoryImpl) GetOrCreate(ctx context.Context, clientId int, userId int64, name string) (*entity.ClientUser, error) {
	var m model.ClientUser
	err := r.db.WithContext(ctx).
		Where(&model.ClientUser{UserId: userId}).
		Attrs(&model.ClientUser{ClientId: clientId, Name: name}).
		FirstOrCreate(&m).Error
	if err != nil {
		return nil, err
	}

	if name != "" && m.Name != name {
		if err := r.db.WithContext(ctx).Model(&m).Update("name", name).Error; err != nil {
			return nil, err
		}
		m.Name = name
	}

	return r.mapper.ClientUserToEntity(&m), nil
}

func (r *ClientUserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClientUser, error) {
	var m model.ClientUser
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ClientUserToEntity(&m), nil
}
