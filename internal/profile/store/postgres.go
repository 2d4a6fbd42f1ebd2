package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rentwise/internal/profile/models"
	"rentwise/pkg/platform/tx"
)

const uniqueViolation = "23505"

const profileColumns = `id, owner_id, profile_type, is_primary, is_active, payload, version, created_at, updated_at`

// PostgresStore persists profiles in PostgreSQL. Payloads are stored as
// JSONB documents keyed by profile_type.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Profile) error {
	payload, err := json.Marshal(p.Payload)
	if err != nil {
		return fmt.Errorf("marshal profile payload: %w", err)
	}
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		p.ID,
		p.OwnerID,
		string(p.Type),
		p.IsPrimary,
		p.IsActive,
		payload,
		p.Version,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return translateUnique(fmt.Errorf("create profile: %w", err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return s.findOne(ctx, "find profile by id", query, id)
}

func (s *PostgresStore) FindByOwnerAndType(ctx context.Context, ownerID string, t models.ProfileType) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE owner_id = $1 AND profile_type = $2`
	return s.findOne(ctx, "find profile by type", query, ownerID, string(t))
}

func (s *PostgresStore) FindPrimary(ctx context.Context, ownerID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE owner_id = $1 AND is_primary`
	return s.findOne(ctx, "find primary profile", query, ownerID)
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE owner_id = $1 ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return out, nil
}

// Update writes the payload guarded by the version column. A row that exists
// at a different version yields ErrVersionConflict.
func (s *PostgresStore) Update(ctx context.Context, p *models.Profile) error {
	payload, err := json.Marshal(p.Payload)
	if err != nil {
		return fmt.Errorf("marshal profile payload: %w", err)
	}
	query := `
		UPDATE profiles
		SET payload = $2, version = version + 1, updated_at = $3
		WHERE id = $1 AND version = $4
	`
	result, err := s.db.ExecContext(ctx, query, p.ID, payload, p.UpdatedAt, p.Version)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check profile exists: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	p.Version++
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return requireRow(result, "delete profile")
}

// SetPrimary demotes the owner's other profiles and promotes id in one
// transaction, so the partial unique index never sees two primaries.
func (s *PostgresStore) SetPrimary(ctx context.Context, ownerID string, id uuid.UUID, now time.Time) error {
	err := tx.Run(ctx, s.db, func(ctx context.Context, q *sql.Tx) error {
		demote := `
			UPDATE profiles SET is_primary = FALSE, updated_at = $3
			WHERE owner_id = $1 AND is_primary AND id <> $2
		`
		if _, err := q.ExecContext(ctx, demote, ownerID, id, now); err != nil {
			return fmt.Errorf("demote primary: %w", err)
		}
		promote := `
			UPDATE profiles
			SET is_primary = TRUE, updated_at = CASE WHEN is_primary THEN updated_at ELSE $3 END
			WHERE owner_id = $1 AND id = $2
		`
		result, err := q.ExecContext(ctx, promote, ownerID, id, now)
		if err != nil {
			return translateUnique(fmt.Errorf("promote primary: %w", err))
		}
		return requireRow(result, "promote primary")
	})
	return translateUnique(err)
}

// ActivateExclusive flips is_active for every profile of the owner in a
// single statement.
func (s *PostgresStore) ActivateExclusive(ctx context.Context, ownerID string, id uuid.UUID, now time.Time) error {
	query := `
		UPDATE profiles
		SET is_active = (id = $2),
			updated_at = CASE WHEN is_active <> (id = $2) THEN $3 ELSE updated_at END
		WHERE owner_id = $1
		  AND EXISTS (SELECT 1 FROM profiles WHERE id = $2 AND owner_id = $1)
	`
	result, err := s.db.ExecContext(ctx, query, ownerID, id, now)
	if err != nil {
		return fmt.Errorf("activate profile: %w", err)
	}
	return requireRow(result, "activate profile")
}

func (s *PostgresStore) Deactivate(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := `
		UPDATE profiles
		SET is_active = FALSE, updated_at = CASE WHEN is_active THEN $2 ELSE updated_at END
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("deactivate profile: %w", err)
	}
	return requireRow(result, "deactivate profile")
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) findOne(ctx context.Context, op, query string, args ...any) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p           models.Profile
		profileType string
		payload     []byte
	)
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&profileType,
		&p.IsPrimary,
		&p.IsActive,
		&payload,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Type = models.ProfileType(profileType)
	body, err := models.NewEmptyPayload(p.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, body); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", p.Type, err)
	}
	p.Payload = body
	return &p, nil
}

func requireRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// translateUnique maps unique violations on the profile constraints to the
// store's conflict errors and passes everything else through.
func translateUnique(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}
	switch pqErr.Constraint {
	case constraintOwnerType:
		return ErrDuplicateType
	case constraintOwnerPrimary:
		return ErrDuplicatePrimary
	}
	return err
}
