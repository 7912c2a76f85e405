package store

import (
	"context"
	"errors"

	"github.com/justsurfingit/carreira-ia/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) IsEventProcessed(ctx context.Context, id string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ProcessedEvent{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, writeErr("check processed event", err)
	}
	return count > 0, nil
}

func (s *Store) RecordEvent(ctx context.Context, id, eventType string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProcessedEvent{ID: id, Type: eventType}).Error
	if err != nil {
		return writeErr("record event", err)
	}
	return nil
}

func (s *Store) IsEmailProcessed(ctx context.Context, id string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ProcessedEmail{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, writeErr("check processed email", err)
	}
	return count > 0, nil
}

func (s *Store) RecordEmail(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProcessedEmail{ID: id}).Error
	if err != nil {
		return writeErr("record email", err)
	}
	return nil
}

// MailboxHistoryID returns the last Gmail history id seen for mailbox, 0 on first run.
func (s *Store) MailboxHistoryID(ctx context.Context, mailbox string) (uint64, error) {
	var cur models.MailboxCursor
	err := s.db.WithContext(ctx).Where("mailbox = ?", mailbox).First(&cur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, writeErr("mailbox cursor", err)
	}
	return cur.LastHistoryID, nil
}

func (s *Store) SaveMailboxHistoryID(ctx context.Context, mailbox string, historyID uint64) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "mailbox"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_history_id", "updated_at"}),
		}).
		Create(&models.MailboxCursor{Mailbox: mailbox, LastHistoryID: historyID}).Error
	if err != nil {
		return writeErr("save mailbox cursor", err)
	}
	return nil
}
