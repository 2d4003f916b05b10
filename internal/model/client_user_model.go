package model

import (
	"time"

	"github.com/google/uuid"
)

type ClientUser struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    int64     `gorm:"uniqueIndex;not null"`
	ClientId  int       `gorm:"not null;default:1"`
	Name      string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ClientUser) TableName() string {
	return "client_users"
}
