package asset

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"museforge/internal/library"
	id "museforge/pkg/domain"
)

// PostgresStore persists library assets in PostgreSQL via a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Schema creates the backing table. Deployments run this via their migration
// tooling; integration tests apply it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS library_assets (
	id          UUID PRIMARY KEY,
	user_id     UUID NOT NULL,
	kind        TEXT NOT NULL,
	name        TEXT NOT NULL,
	prompt      TEXT NOT NULL DEFAULT '',
	preview_url TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS library_assets_user_kind_idx ON library_assets (user_id, kind)`

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure library schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, a library.Asset) error {
	const query = `
		INSERT INTO library_assets (id, user_id, kind, name, prompt, preview_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, query,
		a.ID.String(),
		a.UserID.String(),
		string(a.Kind),
		a.Name,
		a.Prompt,
		a.PreviewURL,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID id.UserID, assetID id.AssetID) (*library.Asset, error) {
	const query = `
		SELECT id, user_id, kind, name, prompt, preview_url, created_at, updated_at
		FROM library_assets
		WHERE id = $1 AND user_id = $2`

	a, err := scanAsset(s.pool.QueryRow(ctx, query, assetID.String(), userID.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) List(ctx context.Context, userID id.UserID, kind library.Kind) ([]library.Asset, error) {
	query := `
		SELECT id, user_id, kind, name, prompt, preview_url, created_at, updated_at
		FROM library_assets
		WHERE user_id = $1`
	args := []any{userID.String()}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var out []library.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("list assets: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, a library.Asset) error {
	const query = `
		UPDATE library_assets
		SET kind = $3, name = $4, prompt = $5, preview_url = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2`

	_, err := s.pool.Exec(ctx, query,
		a.ID.String(),
		a.UserID.String(),
		string(a.Kind),
		a.Name,
		a.Prompt,
		a.PreviewURL,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID, assetID id.AssetID) error {
	const query = `DELETE FROM library_assets WHERE id = $1 AND user_id = $2`

	if _, err := s.pool.Exec(ctx, query, assetID.String(), userID.String()); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}

func scanAsset(row pgx.Row) (*library.Asset, error) {
	var a library.Asset
	var assetID, userID, kind string
	if err := row.Scan(&assetID, &userID, &kind, &a.Name, &a.Prompt, &a.PreviewURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}

	parsedAsset, err := id.ParseAssetID(assetID)
	if err != nil {
		return nil, err
	}
	parsedUser, err := id.ParseUserID(userID)
	if err != nil {
		return nil, err
	}
	a.ID = parsedAsset
	a.UserID = parsedUser
	a.Kind = library.Kind(kind)
	return &a, nil
}
