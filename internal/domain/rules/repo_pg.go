package rules

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renalcare/renalcare/internal/engine"
	"github.com/renalcare/renalcare/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const ruleCols = `id, name, description, tree, active, created_by, created_at, updated_at`

func scanRule(row pgx.Row) (*ClinicalRule, error) {
	var rule ClinicalRule
	var tree []byte
	err := row.Scan(&rule.ID, &rule.Name, &rule.Description, &tree, &rule.Active,
		&rule.CreatedBy, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(tree) > 0 {
		var node engine.RuleNode
		if err := json.Unmarshal(tree, &node); err != nil {
			return nil, err
		}
		rule.Tree = &node
	}
	return &rule, nil
}

func (r *repoPG) Create(ctx context.Context, rule *ClinicalRule) error {
	rule.ID = uuid.New()
	tree, err := json.Marshal(rule.Tree)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO clinical_rule (id, name, description, tree, active, created_by)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rule.ID, rule.Name, rule.Description, tree, rule.Active, rule.CreatedBy)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ClinicalRule, error) {
	return scanRule(r.conn(ctx).QueryRow(ctx, `SELECT `+ruleCols+` FROM clinical_rule WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, rule *ClinicalRule) error {
	tree, err := json.Marshal(rule.Tree)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		UPDATE clinical_rule SET name=$2, description=$3, tree=$4, active=$5, updated_at=NOW()
		WHERE id = $1`,
		rule.ID, rule.Name, rule.Description, tree, rule.Active)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM clinical_rule WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*ClinicalRule, int, error) {
	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM clinical_rule`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, `SELECT `+ruleCols+` FROM clinical_rule ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*ClinicalRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rule)
	}
	return items, total, rows.Err()
}
