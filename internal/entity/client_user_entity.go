package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClientUser is one end user of a permitted client system, identified
// by the external user id that client sends with every request.
type ClientUser struct {
	Id        uuid.UUID
	ClientId  int
	UserId    int64
	Name      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
