// internal/services/audit_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phonebay/phonebay-backend/internal/models"
	"github.com/phonebay/phonebay-backend/internal/utils"
)

// AuditService is the best-effort side channel for administrative
// mutations. Recording never blocks or fails the primary operation.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record writes an audit entry asynchronously. Failures are swallowed and
// only visible in the logs.
func (s *AuditService) Record(actorID *uuid.UUID, action, targetType string, targetID *uuid.UUID, details models.JSONB) {
	entry := &models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
	}

	go func() {
		if err := s.db.Create(entry).Error; err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"action":      action,
				"target_type": targetType,
			}).Error("Failed to create audit log")
		}
	}()
}

type AuditLogFilter struct {
	utils.PaginationParams
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	Action     string     `json:"action,omitempty"`
	TargetType string     `json:"target_type,omitempty"`
}

func (s *AuditService) List(filter AuditLogFilter) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})

	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	allowedSortFields := []string{"created_at", "action", "target_type"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}
