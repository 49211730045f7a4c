// service/pkg/packageService.go
package pkgsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/8clublagree/8clublagree/model"
	catalogrepo "github.com/8clublagree/8clublagree/repository/catalog"
	clientpkgrepo "github.com/8clublagree/8clublagree/repository/clientpkg"
	creditrepo "github.com/8clublagree/8clublagree/repository/credit"
)

// Activation is the denormalized snapshot a confirmed order carries.
type Activation struct {
	PackageID     int64
	PackageName   string
	Credits       int
	ValidityDays  int
	PaymentMethod string
}

// ExpiryResult reports what one expiry run changed.
type ExpiryResult struct {
	ExpiredPackages int `json:"expired_packages"`
	AffectedUsers   int `json:"affected_users"`
}

type Service interface {
	// ActivateInTx expires any currently active package, inserts the new one,
	// and replaces the credit balance with the new package's grant — all on
	// the caller's transaction so payment confirmation stays a single atomic
	// unit.
	ActivateInTx(ctx context.Context, tx *sql.Tx, userID int64, a Activation) error

	// ExpireOverdue is the scheduled batch job; idempotent, a second run with
	// the same asOf changes nothing.
	ExpireOverdue(ctx context.Context, asOf time.Time) (*ExpiryResult, error)

	Catalog(ctx context.Context, offeredOnly bool) ([]model.Package, error)
	CatalogEntry(ctx context.Context, id int64) (*model.Package, error)
	ClientPackages(ctx context.Context, userID int64) ([]model.ClientPackage, error)
	CreditBalance(ctx context.Context, userID int64) (int, error)
}

type service struct {
	db  *sql.DB
	cat catalogrepo.Repo
	cp  clientpkgrepo.Repo
	cl  creditrepo.Repo
}

func New(db *sql.DB, cat catalogrepo.Repo, cp clientpkgrepo.Repo, cl creditrepo.Repo) Service {
	return &service{db: db, cat: cat, cp: cp, cl: cl}
}

func (s *service) ActivateInTx(ctx context.Context, tx *sql.Tx, userID int64, a Activation) error {
	now := time.Now().UTC()

	// At most one active package per user: the new one supersedes whatever is
	// currently active.
	cur, err := s.cp.ActiveForUpdate(ctx, tx, userID)
	switch {
	case err == nil:
		if err := s.cp.Expire(ctx, tx, cur.ID, now); err != nil {
			return err
		}
	case errors.Is(err, sql.ErrNoRows):
		// first package for this user
	default:
		return err
	}

	cp := &model.ClientPackage{
		UserID:         userID,
		PackageID:      a.PackageID,
		PackageName:    a.PackageName,
		PackageCredits: a.Credits,
		ValidityDays:   a.ValidityDays,
		PaymentMethod:  a.PaymentMethod,
		Status:         model.ClientPackageActive,
		PurchaseDate:   now,
		ExpirationDate: now.AddDate(0, 0, a.ValidityDays),
	}
	if err := s.cp.Insert(ctx, tx, cp); err != nil {
		return err
	}

	// A new package replaces, not adds to, any remaining credits.
	return s.cl.Set(ctx, tx, userID, a.Credits)
}

func (s *service) ExpireOverdue(ctx context.Context, asOf time.Time) (res *ExpiryResult, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err = s.expireOverdueInTx(ctx, tx, asOf)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) expireOverdueInTx(ctx context.Context, tx *sql.Tx, asOf time.Time) (*ExpiryResult, error) {
	overdue, err := s.cp.SelectOverdueForUpdate(ctx, tx, asOf)
	if err != nil {
		return nil, err
	}
	if len(overdue) == 0 {
		return &ExpiryResult{}, nil
	}

	ids := make([]int64, 0, len(overdue))
	userSet := make(map[int64]struct{}, len(overdue))
	for _, o := range overdue {
		ids = append(ids, o.ID)
		userSet[o.UserID] = struct{}{}
	}
	userIDs := make([]int64, 0, len(userSet))
	for uid := range userSet {
		userIDs = append(userIDs, uid)
	}

	if err := s.cp.ExpireBatch(ctx, tx, ids, asOf); err != nil {
		return nil, err
	}
	if err := s.cl.ZeroMany(ctx, tx, userIDs); err != nil {
		return nil, err
	}
	return &ExpiryResult{ExpiredPackages: len(ids), AffectedUsers: len(userIDs)}, nil
}

func (s *service) Catalog(ctx context.Context, offeredOnly bool) ([]model.Package, error) {
	return s.cat.List(ctx, offeredOnly)
}

func (s *service) CatalogEntry(ctx context.Context, id int64) (*model.Package, error) {
	return s.cat.ByID(ctx, id)
}

func (s *service) ClientPackages(ctx context.Context, userID int64) ([]model.ClientPackage, error) {
	return s.cp.ListByUser(ctx, userID)
}

func (s *service) CreditBalance(ctx context.Context, userID int64) (int, error) {
	return s.cl.Balance(ctx, userID)
}
