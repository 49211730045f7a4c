// repository/order/orderRepository.go
package order

import (
	"context"
	"database/sql"

	"github.com/8clublagree/8clublagree/model"
)

type Repo interface {
	Insert(ctx context.Context, o *model.Order) error
	ByID(ctx context.Context, id int64) (*model.Order, error)
	ByReference(ctx context.Context, referenceID string) (*model.Order, error)

	// ClaimSuccess is the compare-and-swap that makes confirmation idempotent:
	// only a non-terminal order can move to SUCCESSFUL, and only one caller
	// wins the transition.
	ClaimSuccess(ctx context.Context, tx *sql.Tx, id int64) (bool, error)

	// MarkTerminal moves a non-terminal order to the given terminal status.
	MarkTerminal(ctx context.Context, id int64, st model.OrderStatus) (bool, error)

	SetCheckout(ctx context.Context, id int64, checkoutID, checkoutURL string) error

	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	ListPending(ctx context.Context) ([]model.Order, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const orderCols = `
	id, user_id, package_id, package_name, package_price, package_credits,
	validity_period, payment_method, status, reference_id, checkout_id,
	checkout_url, proof_path, approved_at, created_at`

func (r *repo) Insert(ctx context.Context, o *model.Order) error {
	const q = `
		INSERT INTO orders
			(user_id, package_id, package_name, package_price, package_credits,
			 validity_period, payment_method, status, reference_id, proof_path)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		o.UserID, o.PackageID, o.PackageName, o.PackagePrice, o.PackageCredits,
		o.ValidityDays, o.PaymentMethod, o.Status, o.ReferenceID, o.ProofPath,
	).Scan(&o.ID, &o.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Order, error) {
	return r.one(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id)
}

func (r *repo) ByReference(ctx context.Context, referenceID string) (*model.Order, error) {
	return r.one(ctx, `SELECT `+orderCols+` FROM orders WHERE reference_id = $1`, referenceID)
}

func (r *repo) one(ctx context.Context, q string, arg any) (*model.Order, error) {
	o := &model.Order{}
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&o.ID, &o.UserID, &o.PackageID, &o.PackageName, &o.PackagePrice,
		&o.PackageCredits, &o.ValidityDays, &o.PaymentMethod, &o.Status,
		&o.ReferenceID, &o.CheckoutID, &o.CheckoutURL, &o.ProofPath,
		&o.ApprovedAt, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repo) ClaimSuccess(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	const q = `
		UPDATE orders
		SET status = 'SUCCESSFUL',
			approved_at = NOW()
		WHERE id = $1
		AND status IN ('PENDING','CHECKOUT_STARTED')`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *repo) MarkTerminal(ctx context.Context, id int64, st model.OrderStatus) (bool, error) {
	const q = `
		UPDATE orders
		SET status = $2
		WHERE id = $1
		AND status IN ('PENDING','CHECKOUT_STARTED')`
	res, err := r.db.ExecContext(ctx, q, id, st)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *repo) SetCheckout(ctx context.Context, id int64, checkoutID, checkoutURL string) error {
	const q = `
		UPDATE orders
		SET checkout_id = $2,
			checkout_url = $3,
			status = 'CHECKOUT_STARTED'
		WHERE id = $1
		AND status = 'PENDING'`
	_, err := r.db.ExecContext(ctx, q, id, checkoutID, checkoutURL)
	return err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return r.list(ctx, `
		SELECT `+orderCols+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
}

func (r *repo) ListPending(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, `
		SELECT `+orderCols+`
		FROM orders
		WHERE status IN ('PENDING','CHECKOUT_STARTED')
		ORDER BY created_at`)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.PackageID, &o.PackageName, &o.PackagePrice,
			&o.PackageCredits, &o.ValidityDays, &o.PaymentMethod, &o.Status,
			&o.ReferenceID, &o.CheckoutID, &o.CheckoutURL, &o.ProofPath,
			&o.ApprovedAt, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
