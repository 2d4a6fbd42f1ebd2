package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Constraint names are matched when translating unique violations.
const (
	constraintOwnerType    = "profiles_owner_type_key"
	constraintOwnerPrimary = "profiles_owner_primary_key"
)

// Schema creates the profiles table. Statements are idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		owner_id TEXT NOT NULL,
		profile_type TEXT NOT NULL CHECK (profile_type IN ('personal', 'roommate', 'agency', 'business')),
		is_primary BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT FALSE,
		payload JSONB NOT NULL,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT ` + constraintOwnerType + ` UNIQUE (owner_id, profile_type)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + constraintOwnerPrimary + ` ON profiles (owner_id) WHERE is_primary`,
}

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate profiles: %w", err)
		}
	}
	return nil
}
