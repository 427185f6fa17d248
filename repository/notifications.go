package repository

import (
	"context"

	"salonpro-api/models"
)

func (s *Store) CreateNotificationLog(ctx context.Context, entry *models.NotificationLog) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(entry).Error
}

// ListNotificationLogs returns the most recent notification log entries.
func (s *Store) ListNotificationLogs(ctx context.Context, limit int) ([]models.NotificationLog, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var logs []models.NotificationLog
	err = db.Order("sent_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
