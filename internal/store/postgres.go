package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps documents as JSONB rows in a single documents table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps a connection pool. The documents table is created by the migrations.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) List(ctx context.Context, collection string) ([]Document, error) {
	const query = `
        SELECT id::text, fields
        FROM documents WHERE collection=$1
        ORDER BY created_at, id`
	rows, err := p.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Fields); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		if doc.Fields == nil {
			doc.Fields = Fields{}
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (p *Postgres) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	const query = `
        INSERT INTO documents (collection, fields)
        VALUES ($1,$2)
        RETURNING id::text`
	var id string
	if err := p.pool.QueryRow(ctx, query, collection, withoutID(fields)).Scan(&id); err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	return id, nil
}

func (p *Postgres) Replace(ctx context.Context, collection, id string, fields Fields) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	const query = `
        INSERT INTO documents (collection, id, fields)
        VALUES ($1,$2,$3)
        ON CONFLICT (collection, id) DO UPDATE SET fields=EXCLUDED.fields, updated_at=NOW()`
	if _, err := p.pool.Exec(ctx, query, collection, id, withoutID(fields)); err != nil {
		return fmt.Errorf("replace %s/%s: %w", collection, id, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	const query = `DELETE FROM documents WHERE collection=$1 AND id=$2`
	if _, err := p.pool.Exec(ctx, query, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Ping verifies the pool is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.pool.Ping(ctx)
}
