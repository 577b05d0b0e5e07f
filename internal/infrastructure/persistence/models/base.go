package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel adds the optimistic locking version to BaseModel
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToAggregateRoot rebuilds the domain aggregate root fields
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

// GetID returns the primary key
func (m *AggregateModel) GetID() uuid.UUID {
	return m.ID
}

// GetVersion returns the stored version
func (m *AggregateModel) GetVersion() int {
	return m.Version
}

// SellerAggregateModel is the base of every seller-owned aggregate
type SellerAggregateModel struct {
	AggregateModel
	SellerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainSellerAggregateRoot populates SellerAggregateModel from the domain root
func (m *SellerAggregateModel) FromDomainSellerAggregateRoot(s shared.SellerAggregateRoot) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SellerID = s.SellerID
}

// ToSellerAggregateRoot rebuilds the domain seller aggregate root fields
func (m *SellerAggregateModel) ToSellerAggregateRoot() shared.SellerAggregateRoot {
	return shared.SellerAggregateRoot{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SellerID:          m.SellerID,
	}
}
