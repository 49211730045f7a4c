package catalog

import (
	"context"
	"database/sql"

	"github.com/8clublagree/8clublagree/model"
)

type Repo interface {
	List(ctx context.Context, offeredOnly bool) ([]model.Package, error)
	ByID(ctx context.Context, id int64) (*model.Package, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) List(ctx context.Context, offeredOnly bool) ([]model.Package, error) {
	q := `
		SELECT id, name, price, credits, validity_period, offered_to_clients
		FROM packages`
	if offeredOnly {
		q += ` WHERE offered_to_clients = TRUE`
	}
	q += ` ORDER BY price`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Package
	for rows.Next() {
		var p model.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Credits, &p.ValidityDays, &p.OfferedToClients); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Package, error) {
	const q = `
		SELECT id, name, price, credits, validity_period, offered_to_clients
		FROM packages
		WHERE id = $1`
	p := &model.Package{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Credits, &p.ValidityDays, &p.OfferedToClients)
	if err != nil {
		return nil, err
	}
	return p, nil
}
