package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// Entry builds the row without writing it, for callers that persist inside
// their own transaction.
func Entry(ev Event) models.AuditLog {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	actor := ev.Actor
	if actor == "" {
		actor = ActorUser
	}

	return models.AuditLog{
		Actor:    actor,
		UserID:   ev.UserID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metaJSON,
	}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	log := Entry(ev)
	return l.db.WithContext(ctx).Create(&log).Error
}
