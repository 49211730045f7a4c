// repository/credit/creditRepository.go
package credit

import (
	"context"
	"database/sql"
)

type Repo interface {
	// Adjust applies a signed delta; returns false when the result would go
	// negative (the guard is the WHERE predicate, not a prior read).
	Adjust(ctx context.Context, tx *sql.Tx, userID int64, delta int) (bool, error)

	// Set replaces the balance outright. Package activation and expiry only.
	Set(ctx context.Context, tx *sql.Tx, userID int64, credits int) error

	// ZeroMany zeroes balances for the given users in one statement.
	ZeroMany(ctx context.Context, tx *sql.Tx, userIDs []int64) error

	Balance(ctx context.Context, userID int64) (int, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Adjust(ctx context.Context, tx *sql.Tx, userID int64, delta int) (bool, error) {
	const q = `
		UPDATE user_credits
		SET credits = credits + $2
		WHERE user_id = $1
		AND credits + $2 >= 0`
	res, err := tx.ExecContext(ctx, q, userID, delta)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *repo) Set(ctx context.Context, tx *sql.Tx, userID int64, credits int) error {
	const q = `
		UPDATE user_credits
		SET credits = $2
		WHERE user_id = $1`
	_, err := tx.ExecContext(ctx, q, userID, credits)
	return err
}

func (r *repo) ZeroMany(ctx context.Context, tx *sql.Tx, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	const q = `
		UPDATE user_credits
		SET credits = 0
		WHERE user_id = ANY($1)`
	_, err := tx.ExecContext(ctx, q, userIDs)
	return err
}

func (r *repo) Balance(ctx context.Context, userID int64) (int, error) {
	const q = `SELECT credits FROM user_credits WHERE user_id = $1`
	var n int
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&n)
	return n, err
}
