package taxonomy

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentaltax/dentaltax/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type taxonomyRepoPG struct{ pool *pgxpool.Pool }

func NewTaxonomyRepoPG(pool *pgxpool.Pool) Repository {
	return &taxonomyRepoPG{pool: pool}
}

func (r *taxonomyRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *taxonomyRepoPG) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT DISTINCT description
		FROM general_procedures_lev_2
		WHERE level_1_id = 0
		  AND description IS NOT NULL
		  AND description NOT IN ($1, $2, $3)
		ORDER BY description`,
		ReservedCategories[0], ReservedCategories[1], ReservedCategories[2])
	if err != nil {
		return nil, db.AccessErr("taxonomy.categories", err)
	}
	defer rows.Close()

	var cats []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, db.AccessErr("taxonomy.categories", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, db.AccessErr("taxonomy.categories", err)
	}
	return cats, nil
}

func (r *taxonomyRepoPG) ListBranches(ctx context.Context) ([]Branch, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT DISTINCT practice_id, name
		FROM practice_locations
		WHERE name NOT ILIKE '%' || $1 || '%'
		ORDER BY name`,
		LaboratoryMarker)
	if err != nil {
		return nil, db.AccessErr("taxonomy.branches", err)
	}
	defer rows.Close()

	var branches []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, db.AccessErr("taxonomy.branches", err)
		}
		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, db.AccessErr("taxonomy.branches", err)
	}
	return branches, nil
}
