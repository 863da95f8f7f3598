package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditEntity string

const (
	AuditEntityCompany     AuditEntity = "company"
	AuditEntityVacancy     AuditEntity = "vacancy"
	AuditEntityApplication AuditEntity = "application"
)

// ModerationLog - запись о переходе статуса, пишется в той же транзакции
type ModerationLog struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType AuditEntity    `gorm:"type:varchar(20);not null;index:idx_moderation_entity" json:"entityType"`
	EntityID   string         `gorm:"type:uuid;not null;index:idx_moderation_entity" json:"entityId"`
	ActorID    string         `gorm:"type:uuid;not null" json:"actorId"`
	ActorRole  UserRole       `gorm:"type:varchar(20);not null" json:"actorRole"`
	Action     string         `gorm:"type:varchar(40);not null" json:"action"`
	FromStatus string         `gorm:"type:varchar(20)" json:"fromStatus"`
	ToStatus   string         `gorm:"type:varchar(20)" json:"toStatus"`
	Meta       datatypes.JSON `gorm:"type:jsonb" json:"meta,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now();index" json:"createdAt"`
}
