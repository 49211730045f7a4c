package pkgsvc

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/8clublagree/8clublagree/model"
	clientpkgrepo "github.com/8clublagree/8clublagree/repository/clientpkg"
	creditrepo "github.com/8clublagree/8clublagree/repository/credit"
)

type mockClientPkgs struct {
	activeFn      func(ctx context.Context, tx *sql.Tx, userID int64) (*model.ClientPackage, error)
	expireFn      func(ctx context.Context, tx *sql.Tx, id int64, asOf time.Time) error
	insertFn      func(ctx context.Context, tx *sql.Tx, cp *model.ClientPackage) error
	overdueFn     func(ctx context.Context, tx *sql.Tx, asOf time.Time) ([]clientpkgrepo.OverdueRow, error)
	expireBatchFn func(ctx context.Context, tx *sql.Tx, ids []int64, asOf time.Time) error
}

var _ clientpkgrepo.Repo = (*mockClientPkgs)(nil)

func (m *mockClientPkgs) ActiveForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (*model.ClientPackage, error) {
	return m.activeFn(ctx, tx, userID)
}

func (m *mockClientPkgs) Expire(ctx context.Context, tx *sql.Tx, id int64, asOf time.Time) error {
	if m.expireFn == nil {
		return nil
	}
	return m.expireFn(ctx, tx, id, asOf)
}

func (m *mockClientPkgs) Insert(ctx context.Context, tx *sql.Tx, cp *model.ClientPackage) error {
	return m.insertFn(ctx, tx, cp)
}

func (m *mockClientPkgs) ListByUser(ctx context.Context, userID int64) ([]model.ClientPackage, error) {
	return nil, nil
}

func (m *mockClientPkgs) SelectOverdueForUpdate(ctx context.Context, tx *sql.Tx, asOf time.Time) ([]clientpkgrepo.OverdueRow, error) {
	return m.overdueFn(ctx, tx, asOf)
}

func (m *mockClientPkgs) ExpireBatch(ctx context.Context, tx *sql.Tx, ids []int64, asOf time.Time) error {
	if m.expireBatchFn == nil {
		return nil
	}
	return m.expireBatchFn(ctx, tx, ids, asOf)
}

type mockCredits struct {
	t        *testing.T
	setFn    func(ctx context.Context, tx *sql.Tx, userID int64, credits int) error
	zeroedFn func(ctx context.Context, tx *sql.Tx, userIDs []int64) error
}

var _ creditrepo.Repo = (*mockCredits)(nil)

func (m *mockCredits) Adjust(ctx context.Context, tx *sql.Tx, userID int64, delta int) (bool, error) {
	m.t.Fatal("activation must replace the balance, never adjust it")
	return false, nil
}

func (m *mockCredits) Set(ctx context.Context, tx *sql.Tx, userID int64, credits int) error {
	if m.setFn == nil {
		return nil
	}
	return m.setFn(ctx, tx, userID, credits)
}

func (m *mockCredits) ZeroMany(ctx context.Context, tx *sql.Tx, userIDs []int64) error {
	if m.zeroedFn == nil {
		return nil
	}
	return m.zeroedFn(ctx, tx, userIDs)
}

func (m *mockCredits) Balance(ctx context.Context, userID int64) (int, error) { return 0, nil }

// --- tests ---

func TestActivateInTx_SupersedesActivePackage(t *testing.T) {
	var expiredID int64
	var inserted *model.ClientPackage
	cp := &mockClientPkgs{
		activeFn: func(ctx context.Context, tx *sql.Tx, userID int64) (*model.ClientPackage, error) {
			return &model.ClientPackage{ID: 11, UserID: userID, Status: model.ClientPackageActive}, nil
		},
		expireFn: func(ctx context.Context, tx *sql.Tx, id int64, asOf time.Time) error {
			expiredID = id
			return nil
		},
		insertFn: func(ctx context.Context, tx *sql.Tx, p *model.ClientPackage) error {
			inserted = p
			return nil
		},
	}
	var setUser int64
	var setCredits int
	cl := &mockCredits{
		t: t,
		setFn: func(ctx context.Context, tx *sql.Tx, userID int64, credits int) error {
			setUser, setCredits = userID, credits
			return nil
		},
	}
	svc := &service{cp: cp, cl: cl}

	err := svc.ActivateInTx(context.Background(), nil, 7, Activation{
		PackageID:     3,
		PackageName:   "10-Class Pack",
		Credits:       5,
		ValidityDays:  30,
		PaymentMethod: model.PaymentMethodMaya,
	})
	require.NoError(t, err)

	// Old active package expired, new one inserted active.
	require.Equal(t, int64(11), expiredID)
	require.NotNil(t, inserted)
	require.Equal(t, int64(7), inserted.UserID)
	require.Equal(t, model.ClientPackageActive, inserted.Status)
	require.Equal(t, 5, inserted.PackageCredits)
	require.Equal(t, inserted.PurchaseDate.AddDate(0, 0, 30), inserted.ExpirationDate)

	// Balance replaced with the grant; the Adjust guard in mockCredits proves
	// nothing was added on top of leftovers.
	require.Equal(t, int64(7), setUser)
	require.Equal(t, 5, setCredits)
}

func TestActivateInTx_FirstPackage(t *testing.T) {
	cp := &mockClientPkgs{
		activeFn: func(ctx context.Context, tx *sql.Tx, userID int64) (*model.ClientPackage, error) {
			return nil, sql.ErrNoRows
		},
		expireFn: func(ctx context.Context, tx *sql.Tx, id int64, asOf time.Time) error {
			t.Fatal("nothing to expire for a first purchase")
			return nil
		},
		insertFn: func(ctx context.Context, tx *sql.Tx, p *model.ClientPackage) error { return nil },
	}
	svc := &service{cp: cp, cl: &mockCredits{t: t}}

	err := svc.ActivateInTx(context.Background(), nil, 7, Activation{Credits: 8, ValidityDays: 14})
	require.NoError(t, err)
}

func TestActivateInTx_LookupError(t *testing.T) {
	boom := errors.New("lock timeout")
	cp := &mockClientPkgs{
		activeFn: func(ctx context.Context, tx *sql.Tx, userID int64) (*model.ClientPackage, error) {
			return nil, boom
		},
	}
	svc := &service{cp: cp, cl: &mockCredits{t: t}}

	err := svc.ActivateInTx(context.Background(), nil, 7, Activation{Credits: 8})
	require.ErrorIs(t, err, boom)
}

func TestExpireOverdue_EmptySet(t *testing.T) {
	cp := &mockClientPkgs{
		overdueFn: func(ctx context.Context, tx *sql.Tx, asOf time.Time) ([]clientpkgrepo.OverdueRow, error) {
			return nil, nil
		},
		expireBatchFn: func(ctx context.Context, tx *sql.Tx, ids []int64, asOf time.Time) error {
			t.Fatal("no batch write for an empty selection")
			return nil
		},
	}
	cl := &mockCredits{
		t: t,
		zeroedFn: func(ctx context.Context, tx *sql.Tx, userIDs []int64) error {
			t.Fatal("no credits to zero for an empty selection")
			return nil
		},
	}
	svc := &service{cp: cp, cl: cl}

	// A second run after everything expired selects nothing and writes nothing.
	res, err := svc.expireOverdueInTx(context.Background(), nil, time.Now())
	require.NoError(t, err)
	require.Equal(t, &ExpiryResult{}, res)
}

func TestExpireOverdue_DedupesUsers(t *testing.T) {
	var batchIDs []int64
	var zeroed []int64
	cp := &mockClientPkgs{
		overdueFn: func(ctx context.Context, tx *sql.Tx, asOf time.Time) ([]clientpkgrepo.OverdueRow, error) {
			return []clientpkgrepo.OverdueRow{
				{ID: 1, UserID: 7},
				{ID: 2, UserID: 7},
				{ID: 3, UserID: 9},
			}, nil
		},
		expireBatchFn: func(ctx context.Context, tx *sql.Tx, ids []int64, asOf time.Time) error {
			batchIDs = ids
			return nil
		},
	}
	cl := &mockCredits{
		t: t,
		zeroedFn: func(ctx context.Context, tx *sql.Tx, userIDs []int64) error {
			zeroed = userIDs
			return nil
		},
	}
	svc := &service{cp: cp, cl: cl}

	res, err := svc.expireOverdueInTx(context.Background(), nil, time.Now())
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, batchIDs)

	sort.Slice(zeroed, func(i, j int) bool { return zeroed[i] < zeroed[j] })
	require.Equal(t, []int64{7, 9}, zeroed)
	require.Equal(t, &ExpiryResult{ExpiredPackages: 3, AffectedUsers: 2}, res)
}
