package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything with an identity and audit timestamps. Aggregates
// embed BaseEntity; the interface exists for code that handles entities
// generically, such as the repository layer.
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries the identity and audit columns shared by every
// persisted row. IDs are assigned in the domain, not by the database,
// so an aggregate is addressable before its first save.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewBaseEntity returns a BaseEntity with a fresh ID and both
// timestamps set to now.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}
