// internal/models/admin.go
package models

import (
	"github.com/google/uuid"
)

// AuditLog records administrative mutations. Writing it is best effort:
// failures are logged and swallowed, never surfaced to the caller.
type AuditLog struct {
	BaseModel
	ActorID    *uuid.UUID `json:"actor_id" gorm:"type:uuid;index"`
	Action     string     `json:"action" gorm:"size:100;not null;index"`
	TargetType string     `json:"target_type" gorm:"size:50;not null;index"`
	TargetID   *uuid.UUID `json:"target_id" gorm:"type:uuid;index"`
	Details    JSONB      `json:"details" gorm:"type:jsonb"`
	IPAddress  string     `json:"ip_address" gorm:"size:45"`
	UserAgent  string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	Actor *User `json:"actor,omitempty" gorm:"foreignKey:ActorID"`
}
