package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/jmoiron/sqlx"
)

// Products are stored as schemaless documents: the ingestion pipeline writes
// whatever columns the source sheet had into data.
//
//	CREATE TABLE products (
//	    id         TEXT PRIMARY KEY,
//	    data       JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

type productRow struct {
	ID   string `db:"id"`
	Data []byte `db:"data"`
}

func (r *PGRepository) ListProducts(ctx context.Context, limit int) ([]model.RawRecord, error) {
	query := `SELECT id, data FROM products ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var rows []productRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	records := make([]model.RawRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := toRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *PGRepository) GetProduct(ctx context.Context, id string) (*model.RawRecord, error) {
	var row productRow
	query := `SELECT id, data FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rec, err := toRecord(row)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func toRecord(row productRow) (model.RawRecord, error) {
	fields := map[string]any{}
	if len(row.Data) > 0 {
		dec := json.NewDecoder(bytes.NewReader(row.Data))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return model.RawRecord{}, fmt.Errorf("product %s: decode data: %w", row.ID, err)
		}
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return model.RawRecord{ID: row.ID, Fields: fields}, nil
}
