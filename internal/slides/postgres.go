package slides

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itk-os2display/aarhus-data-bundle/internal/measurement"
)

const defaultConnectTimeout = 10 * time.Second

// postgresStore is a Store implementation backed by a PostgreSQL slides table.
// Options and external data are stored as jsonb columns.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store on top of the given connection pool.
// The caller is responsible for closing the pool when done.
func NewPostgresStore(pool *pgxpool.Pool) (Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	return &postgresStore{pool: pool}, nil
}

// NewPool opens a pgx connection pool from the given connection string and
// verifies it with a ping.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	if connString == "" {
		return nil, fmt.Errorf("database connection string is required")
	}

	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = defaultConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// FindBySlideType returns all slides of the given type, ordered by id so
// batch runs process them deterministically.
func (p *postgresStore) FindBySlideType(ctx context.Context, slideType string) ([]*Slide, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, slide_type, options, external_data
		 FROM slides
		 WHERE slide_type = $1
		 ORDER BY id`,
		slideType,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query slides: %w", err)
	}
	defer rows.Close()

	var result []*Slide
	for rows.Next() {
		var (
			slide        Slide
			optionsJSON  []byte
			externalJSON []byte
		)
		if err := rows.Scan(&slide.ID, &slide.SlideType, &optionsJSON, &externalJSON); err != nil {
			return nil, fmt.Errorf("failed to scan slide row: %w", err)
		}
		if len(optionsJSON) > 0 {
			if err := json.Unmarshal(optionsJSON, &slide.Options); err != nil {
				return nil, fmt.Errorf("failed to decode options for slide %s: %w", slide.ID, err)
			}
		}
		if len(externalJSON) > 0 {
			if err := json.Unmarshal(externalJSON, &slide.ExternalData); err != nil {
				return nil, fmt.Errorf("failed to decode external data for slide %s: %w", slide.ID, err)
			}
		}
		result = append(result, &slide)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read slide rows: %w", err)
	}

	return result, nil
}

// SetExternalData writes the external data of all given slides inside a
// single transaction, batching the updates over one round trip.
func (p *postgresStore) SetExternalData(ctx context.Context, updated []*Slide) error {
	if len(updated) == 0 {
		return nil
	}

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			_ = rollbackErr
		}
	}()

	batch := &pgx.Batch{}
	for _, slide := range updated {
		data, err := encodeExternalData(slide.ExternalData)
		if err != nil {
			return fmt.Errorf("failed to encode external data for slide %s: %w", slide.ID, err)
		}
		batch.Queue(
			`UPDATE slides SET external_data = $2, updated_at = now() WHERE id = $1`,
			slide.ID, data,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range updated {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to update slide: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func encodeExternalData(records []measurement.Record) ([]byte, error) {
	if records == nil {
		records = []measurement.Record{}
	}
	return json.Marshal(records)
}
