package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"journal/internal/auth"
	"journal/internal/entry"
	"journal/internal/habit"
	"journal/internal/insight"
	"journal/internal/media"
	"journal/internal/mood"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&auth.User{},
		&entry.Entry{},
		&mood.Record{},
		&habit.Habit{},
		&habit.Completion{},
		&insight.Insight{},
		&media.Attachment{},
	); err != nil {
		return err
	}

	// Day-bucket lookups hit (owner, date) windows; keep them composite.
	// No unique constraint on the day: the upsert path owns that invariant
	// and pre-existing duplicates must not break migration.
	stmts := []string{
		`create index if not exists idx_mood_user_date on mood_records(user_id, date);`,
		`create index if not exists idx_completions_habit_user_date on habit_completions(habit_id, user_id, date);`,
		`create index if not exists idx_entries_user_date on diary_entries(user_id, date desc);`,
		`create index if not exists idx_entries_tags on diary_entries using gin (tags);`,
		`create index if not exists idx_insights_user_created on period_insights(user_id, id desc);`,
		`create index if not exists idx_media_user on media_attachments(user_id, id desc);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
