// repository/mailer/queue.go
package mailer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/rabbitmq/amqp091-go"
)

// queueMailer publishes email payloads to a RabbitMQ queue so request paths
// never block on SMTP. A Worker consumes the queue and delivers.
type queueMailer struct {
	ch    *amqp091.Channel
	queue string
}

func NewQueue(conn *amqp091.Connection, queue string) (Mailer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &queueMailer{ch: ch, queue: queue}, nil
}

func (m *queueMailer) Send(ctx context.Context, e Email) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return m.ch.PublishWithContext(ctx, "", m.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
	})
}

// Worker drains the email queue and delivers via the wrapped sender.
type Worker struct {
	conn   *amqp091.Connection
	queue  string
	sender Mailer
	log    *slog.Logger
}

func NewWorker(conn *amqp091.Connection, queue string, sender Mailer, log *slog.Logger) *Worker {
	return &Worker{conn: conn, queue: queue, sender: sender, log: log}
}

// Run consumes until ctx is done. Delivery failures are logged and the
// message dropped; reminder and confirmation emails are not worth a retry
// storm.
func (w *Worker) Run(ctx context.Context) error {
	ch, err := w.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(w.queue, true, false, false, false, nil); err != nil {
		return err
	}
	msgs, err := ch.Consume(w.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			var e Email
			if err := json.Unmarshal(d.Body, &e); err != nil {
				w.log.Error("mail worker: bad payload", "err", err)
				_ = d.Ack(false)
				continue
			}
			if err := w.sender.Send(ctx, e); err != nil {
				w.log.Error("mail worker: send failed", "to", e.To, "err", err)
			}
			_ = d.Ack(false)
		}
	}
}
