// Package audit appends activity rows for every business mutation.
// A failed audit write is logged and swallowed - a logging outage must
// never block an inventory or quote operation.
package audit

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EhaabShareef/inventory-manage/internal/models"
)

type Recorder struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRecorder(db *gorm.DB, log *zap.Logger) *Recorder {
	return &Recorder{db: db, log: log}
}

// Record appends one audit row attributed to the actor. If no actor could be
// resolved the write is skipped; the primary operation still proceeds.
func (r *Recorder) Record(actor *models.User, action, details string) {
	if actor == nil {
		r.log.Warn("no current user for activity logging", zap.String("action", action))
		return
	}

	entry := models.AuditLog{
		Action:  action,
		Details: details,
		UserID:  actor.ID,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		r.log.Warn("failed to write audit log",
			zap.String("action", action),
			zap.Uint("user_id", actor.ID),
			zap.Error(err))
	}
}
