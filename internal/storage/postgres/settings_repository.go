package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/shopster/domain"
)

type settingsRepository struct {
	storage *Storage
}

func (r *settingsRepository) Get(id int32) (domain.Setting, error) {
	return r.one("SELECT id, title, datatype, value FROM settings WHERE id = $1", fmt.Sprintf("setting %d", id), id)
}

func (r *settingsRepository) GetByTitle(title string) (domain.Setting, error) {
	return r.one("SELECT id, title, datatype, value FROM settings WHERE title = $1", fmt.Sprintf("setting %q", title), title)
}

func (r *settingsRepository) GetAll() ([]domain.Setting, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.storage.q.QueryContext(ctx, "SELECT id, title, datatype, value FROM settings ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("select settings: %w", err)
	}
	defer rows.Close()

	var settings []domain.Setting
	for rows.Next() {
		var s domain.Setting
		if err := rows.Scan(&s.ID, &s.Title, &s.Datatype, &s.Value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return settings, nil
}

func (r *settingsRepository) Insert(setting domain.Setting) (domain.Setting, error) {
	ctx, cancel := opContext()
	defer cancel()

	var created domain.Setting
	err := r.storage.q.QueryRowContext(ctx, `
		INSERT INTO settings (title, datatype, value)
		VALUES ($1, $2, $3)
		RETURNING id, title, datatype, value
	`, setting.Title, setting.Datatype, setting.Value,
	).Scan(&created.ID, &created.Title, &created.Datatype, &created.Value)
	if err != nil {
		return domain.Setting{}, fmt.Errorf("insert setting: %w", err)
	}
	return created, nil
}

func (r *settingsRepository) UpdateValue(id int32, value string) (domain.Setting, error) {
	ctx, cancel := opContext()
	defer cancel()

	var updated domain.Setting
	err := r.storage.q.QueryRowContext(ctx, `
		UPDATE settings SET value = $2 WHERE id = $1
		RETURNING id, title, datatype, value
	`, id, value,
	).Scan(&updated.ID, &updated.Title, &updated.Datatype, &updated.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Setting{}, fmt.Errorf("setting %d: %w", id, domain.ErrNotFound)
		}
		return domain.Setting{}, fmt.Errorf("update setting: %w", err)
	}
	return updated, nil
}

func (r *settingsRepository) Delete(id int32) (bool, error) {
	ctx, cancel := opContext()
	defer cancel()

	result, err := r.storage.q.ExecContext(ctx, "DELETE FROM settings WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete setting: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete setting affected: %w", err)
	}
	return affected > 0, nil
}

func (r *settingsRepository) one(query, what string, arg any) (domain.Setting, error) {
	ctx, cancel := opContext()
	defer cancel()

	var s domain.Setting
	err := r.storage.q.QueryRowContext(ctx, query, arg).Scan(&s.ID, &s.Title, &s.Datatype, &s.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Setting{}, fmt.Errorf("%s: %w", what, domain.ErrNotFound)
		}
		return domain.Setting{}, fmt.Errorf("select %s: %w", what, err)
	}
	return s, nil
}
