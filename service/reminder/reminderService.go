package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	bookingrepo "github.com/8clublagree/8clublagree/repository/booking"
	"github.com/8clublagree/8clublagree/repository/mailer"
)

// Result reports one reminder run.
type Result struct {
	Sent int `json:"sent"`
}

type Sender interface {
	Run(ctx context.Context, now time.Time) (*Result, error)
}

type sender struct {
	br bookingrepo.Repo
	m  mailer.Mailer
	lg *slog.Logger
}

func NewSender(br bookingrepo.Repo, m mailer.Mailer, lg *slog.Logger) Sender {
	return &sender{br: br, m: m, lg: lg}
}

// Run emails every booker with a reserved class in the next 24 hours and
// flags the booking so a rerun stays quiet. Send failures skip the flag so
// the next run retries them.
func (s *sender) Run(ctx context.Context, now time.Time) (*Result, error) {
	due, err := s.br.DueReminders(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return &Result{}, nil
	}

	var sent []int64
	for _, row := range due {
		e := mailer.Email{
			To:      row.Email,
			Subject: "Reminder: Your class is tomorrow!",
			HTML: fmt.Sprintf(
				"<p>Hey %s!</p><p>Your upcoming class with %s is on <b>%s at %s</b>. See you there!</p>",
				row.FirstName, row.InstructorName,
				row.ClassDate.Format("Monday, Jan 2"), row.StartTime.Format("3:04 PM")),
		}
		if err := s.m.Send(ctx, e); err != nil {
			s.lg.Error("reminder send failed", "booking_id", row.BookingID, "err", err)
			continue
		}
		sent = append(sent, row.BookingID)
	}

	if err := s.br.MarkReminded(ctx, sent); err != nil {
		return nil, err
	}
	return &Result{Sent: len(sent)}, nil
}
