// service/class/classService.go
package classsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/8clublagree/8clublagree/model"
	"github.com/8clublagree/8clublagree/util/retry"
)

type Repo interface {
	Create(ctx context.Context, c *model.Class) error
	List(ctx context.Context, offeredOnly bool) ([]model.Class, error)
	ByID(ctx context.Context, id int64) (*model.Class, error)
	RecountTakenSlots(ctx context.Context, classID int64) (int, error)
}

type Service interface {
	Create(ctx context.Context, c *model.Class) error
	List(ctx context.Context, offeredOnly bool) ([]model.Class, error)
	Detail(ctx context.Context, id int64) (*model.Class, error)

	// Reconcile rewrites a class's taken_slots from its booking rows.
	Reconcile(ctx context.Context, classID int64) (int, error)
}

type service struct {
	r  Repo
	rp retry.Policy
}

func New(r Repo) Service { return &service{r: r, rp: retry.Default()} }

func (s *service) Create(ctx context.Context, c *model.Class) error {
	if c.InstructorID <= 0 || c.AvailableSlots <= 0 || c.StartTime.IsZero() {
		return errors.New("invalid payload")
	}
	if !c.EndTime.IsZero() && c.EndTime.Before(c.StartTime) {
		return errors.New("end before start")
	}
	return s.r.Create(ctx, c)
}

func (s *service) List(ctx context.Context, offeredOnly bool) ([]model.Class, error) {
	var out []model.Class
	err := s.rp.Do(ctx, func(ctx context.Context) error {
		var lerr error
		out, lerr = s.r.List(ctx, offeredOnly)
		return lerr
	})
	return out, err
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Class, error) {
	var out *model.Class
	err := s.rp.Do(ctx, func(ctx context.Context) error {
		var lerr error
		out, lerr = s.r.ByID(ctx, id)
		if errors.Is(lerr, sql.ErrNoRows) {
			// A missing row is deterministic, not flaky.
			return retry.Permanent(lerr)
		}
		return lerr
	})
	return out, err
}

func (s *service) Reconcile(ctx context.Context, classID int64) (int, error) {
	return s.r.RecountTakenSlots(ctx, classID)
}
