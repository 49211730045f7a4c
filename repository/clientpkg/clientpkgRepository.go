// repository/clientpkg/clientpkgRepository.go
package clientpkg

import (
	"context"
	"database/sql"
	"time"

	"github.com/8clublagree/8clublagree/model"
)

// OverdueRow identifies an active package that is past its expiration date.
type OverdueRow struct {
	ID     int64
	UserID int64
}

type Repo interface {
	// ActiveForUpdate locks the user's active package, if any.
	// Returns sql.ErrNoRows when the user has no active package.
	ActiveForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (*model.ClientPackage, error)

	// Expire transitions a single package to expired as of the given time.
	Expire(ctx context.Context, tx *sql.Tx, id int64, asOf time.Time) error

	Insert(ctx context.Context, tx *sql.Tx, cp *model.ClientPackage) error

	ListByUser(ctx context.Context, userID int64) ([]model.ClientPackage, error)

	// SelectOverdueForUpdate locks every active package whose expiration date
	// has passed so the expiry job sees a stable set.
	SelectOverdueForUpdate(ctx context.Context, tx *sql.Tx, asOf time.Time) ([]OverdueRow, error)

	// ExpireBatch expires the given packages in one statement.
	ExpireBatch(ctx context.Context, tx *sql.Tx, ids []int64, asOf time.Time) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const cpCols = `
	id, user_id, package_id, package_name, package_credits, validity_period,
	payment_method, status, purchase_date, expiration_date, created_at`

func (r *repo) ActiveForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (*model.ClientPackage, error) {
	cp := &model.ClientPackage{}
	err := tx.QueryRowContext(ctx, `
		SELECT `+cpCols+`
		FROM client_packages
		WHERE user_id = $1
		AND status = 'active'
		FOR UPDATE`, userID,
	).Scan(
		&cp.ID, &cp.UserID, &cp.PackageID, &cp.PackageName, &cp.PackageCredits,
		&cp.ValidityDays, &cp.PaymentMethod, &cp.Status, &cp.PurchaseDate,
		&cp.ExpirationDate, &cp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return cp, nil
}

func (r *repo) Expire(ctx context.Context, tx *sql.Tx, id int64, asOf time.Time) error {
	const q = `
		UPDATE client_packages
		SET status = 'expired',
			expiration_date = $2
		WHERE id = $1
		AND status = 'active'`
	_, err := tx.ExecContext(ctx, q, id, asOf)
	return err
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, cp *model.ClientPackage) error {
	const q = `
		INSERT INTO client_packages
			(user_id, package_id, package_name, package_credits, validity_period,
			 payment_method, status, purchase_date, expiration_date)
		VALUES ($1,$2,$3,$4,$5,$6,'active',$7,$8)
		RETURNING id, created_at`
	return tx.QueryRowContext(ctx, q,
		cp.UserID, cp.PackageID, cp.PackageName, cp.PackageCredits,
		cp.ValidityDays, cp.PaymentMethod, cp.PurchaseDate, cp.ExpirationDate,
	).Scan(&cp.ID, &cp.CreatedAt)
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.ClientPackage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cpCols+`
		FROM client_packages
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ClientPackage
	for rows.Next() {
		var cp model.ClientPackage
		if err := rows.Scan(
			&cp.ID, &cp.UserID, &cp.PackageID, &cp.PackageName, &cp.PackageCredits,
			&cp.ValidityDays, &cp.PaymentMethod, &cp.Status, &cp.PurchaseDate,
			&cp.ExpirationDate, &cp.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

func (r *repo) SelectOverdueForUpdate(ctx context.Context, tx *sql.Tx, asOf time.Time) ([]OverdueRow, error) {
	const q = `
		SELECT id, user_id
		FROM client_packages
		WHERE status = 'active'
		AND expiration_date <= $1
		FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OverdueRow
	for rows.Next() {
		var o OverdueRow
		if err := rows.Scan(&o.ID, &o.UserID); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *repo) ExpireBatch(ctx context.Context, tx *sql.Tx, ids []int64, asOf time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `
		UPDATE client_packages
		SET status = 'expired',
			expiration_date = $2
		WHERE id = ANY($1)
		AND status = 'active'`
	_, err := tx.ExecContext(ctx, q, ids, asOf)
	return err
}
