package contract

import (
	"context"

	"dairy-assistant-be/internal/entity"
	"dairy-assistant-be/internal/repository/specification"
)

type ClientUserRepository interface {
	// GetOrCreate looks the user up by external id and creates the row
	// when absent. Name is refreshed on every call so the latest value
	// the client sent wins.
	GetOrCreate(ctx context.Context, clientId int, userId int64, name string) (*entity.ClientUser, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClientUser, error)
}
