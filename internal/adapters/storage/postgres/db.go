// Package postgres is the gorm-backed relational store. The aggregate
// procedures live in the database as plpgsql functions.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

type Store struct {
	db *gorm.DB
}

var _ domain.Store = (*Store)(nil)

// Open connects to dsn. With migrate set it creates the tables and
// (re)defines the stored procedures.
func Open(dsn string, migrate bool) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	s := New(db)
	if migrate {
		if err := s.Migrate(context.Background()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&ProfileModel{}, &StudySessionModel{}, &SavedQuestionModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range procedures {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create procedure: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

var procedures = []string{
	`CREATE OR REPLACE FUNCTION update_study_streak(p_user_id text) RETURNS void
LANGUAGE plpgsql AS $$
DECLARE
	streak int := 0;
	d date := current_date;
BEGIN
	IF NOT EXISTS (SELECT 1 FROM study_sessions WHERE user_id = p_user_id AND created_at::date = d) THEN
		d := d - 1;
	END IF;
	WHILE EXISTS (SELECT 1 FROM study_sessions WHERE user_id = p_user_id AND created_at::date = d) LOOP
		streak := streak + 1;
		d := d - 1;
	END LOOP;
	UPDATE user_profiles SET study_streak = streak, updated_at = now() WHERE user_id = p_user_id;
END $$;`,

	`CREATE OR REPLACE FUNCTION increment_question_count(p_user_id text) RETURNS void
LANGUAGE sql AS $$
	UPDATE user_profiles
	SET total_questions_asked = total_questions_asked + 1, updated_at = now()
	WHERE user_id = p_user_id;
$$;`,

	`CREATE OR REPLACE FUNCTION update_study_time(p_user_id text, p_duration int) RETURNS void
LANGUAGE sql AS $$
	UPDATE user_profiles
	SET total_study_time = total_study_time + p_duration, updated_at = now()
	WHERE user_id = p_user_id;
$$;`,

	`CREATE OR REPLACE FUNCTION get_user_stats(p_user_id text)
RETURNS TABLE (
	total_sessions bigint,
	total_questions bigint,
	total_study_time_minutes bigint,
	current_streak bigint,
	last_session_date timestamptz
)
LANGUAGE sql STABLE AS $$
	SELECT
		(SELECT count(*) FROM study_sessions WHERE user_id = p_user_id),
		(SELECT count(*) FROM saved_questions WHERE user_id = p_user_id),
		(SELECT coalesce(sum(duration), 0) FROM study_sessions WHERE user_id = p_user_id),
		coalesce((SELECT study_streak FROM user_profiles WHERE user_id = p_user_id), 0)::bigint,
		(SELECT max(created_at) FROM study_sessions WHERE user_id = p_user_id);
$$;`,

	`CREATE OR REPLACE FUNCTION refresh_user_profile_stats(p_user_id text)
RETURNS SETOF user_profiles
LANGUAGE plpgsql AS $$
BEGIN
	PERFORM update_study_streak(p_user_id);
	RETURN QUERY
	UPDATE user_profiles SET
		total_questions_asked = (SELECT count(*) FROM saved_questions WHERE user_id = p_user_id),
		total_study_time = (SELECT coalesce(sum(duration), 0) FROM study_sessions WHERE user_id = p_user_id),
		updated_at = now()
	WHERE user_id = p_user_id
	RETURNING *;
END $$;`,
}
