package paymentsvc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/8clublagree/8clublagree/model"
	mailerrepo "github.com/8clublagree/8clublagree/repository/mailer"
	mayarepo "github.com/8clublagree/8clublagree/repository/maya"
	orderrepo "github.com/8clublagree/8clublagree/repository/order"
	pkgsvc "github.com/8clublagree/8clublagree/service/pkg"

	"github.com/google/uuid"
)

type ErrCode string

const (
	ErrBadInput         ErrCode = "VALIDATION_ERROR"
	ErrPackageNotFound  ErrCode = "PACKAGE_NOT_FOUND"
	ErrOrderNotFound    ErrCode = "ORDER_NOT_FOUND"
	ErrAlreadyFinalized ErrCode = "ALREADY_FINALIZED"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Gateway webhook status vocabulary.
const (
	WebhookSuccess   = "PAYMENT_SUCCESS"
	WebhookFailed    = "PAYMENT_FAILED"
	WebhookExpired   = "PAYMENT_EXPIRED"
	WebhookCancelled = "PAYMENT_CANCELLED"
)

// mapWebhookStatus translates gateway vocabulary to the order status enum.
// Unknown statuses map to "", meaning leave the order untouched.
func mapWebhookStatus(s string) model.OrderStatus {
	switch s {
	case WebhookSuccess:
		return model.OrderSuccessful
	case WebhookFailed:
		return model.OrderFailed
	case WebhookExpired:
		return model.OrderExpired
	case WebhookCancelled:
		return model.OrderCancelled
	default:
		return ""
	}
}

// Created is what a new order returns to the client.
type Created struct {
	OrderID     int64   `json:"order_id"`
	ReferenceID string  `json:"reference_id"`
	CheckoutURL *string `json:"checkout_url,omitempty"`
}

type Service interface {
	// CreateOrder records a PENDING order with the package snapshot
	// denormalized onto it. Gateway methods also open a Maya checkout.
	CreateOrder(ctx context.Context, userID, packageID int64, paymentMethod string, proofPath *string) (*Created, error)

	// Confirm finalizes an order and activates its package, exactly once.
	Confirm(ctx context.Context, orderID int64) error

	// HandleWebhook processes a gateway callback; safe to replay.
	HandleWebhook(ctx context.Context, raw []byte) error

	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	PendingOrders(ctx context.Context) ([]model.Order, error)
	Order(ctx context.Context, orderID int64) (*model.Order, error)
}

type users interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type service struct {
	db         *sql.DB
	or         orderrepo.Repo
	gw         mayarepo.Repo
	pk         pkgsvc.Service
	ur         users
	m          mailerrepo.Mailer
	adminEmail string
	lg         *slog.Logger
}

func New(db *sql.DB, or orderrepo.Repo, gw mayarepo.Repo, pk pkgsvc.Service, ur users, m mailerrepo.Mailer, adminEmail string, lg *slog.Logger) Service {
	return &service{db: db, or: or, gw: gw, pk: pk, ur: ur, m: m, adminEmail: adminEmail, lg: lg}
}

func (s *service) CreateOrder(ctx context.Context, userID, packageID int64, paymentMethod string, proofPath *string) (*Created, error) {
	if userID <= 0 || packageID <= 0 || paymentMethod == "" {
		return nil, makeErr(ErrBadInput)
	}

	p, err := s.pk.CatalogEntry(ctx, packageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrPackageNotFound)
		}
		return nil, err
	}

	o := &model.Order{
		UserID:         userID,
		PackageID:      p.ID,
		PackageName:    p.Name,
		PackagePrice:   p.Price,
		PackageCredits: p.Credits,
		ValidityDays:   p.ValidityDays,
		PaymentMethod:  paymentMethod,
		Status:         model.OrderPending,
		ReferenceID:    uuid.NewString(),
		ProofPath:      proofPath,
	}
	if err := s.or.Insert(ctx, o); err != nil {
		return nil, err
	}

	out := &Created{OrderID: o.ID, ReferenceID: o.ReferenceID}

	if paymentMethod == model.PaymentMethodMaya {
		co, err := s.gw.CreateCheckout(mayarepo.CreateCheckoutReq{
			ReferenceID: o.ReferenceID,
			Amount:      p.Price,
			Description: p.Name,
		})
		if err != nil {
			// Leave the order PENDING; the client can retry checkout.
			return nil, err
		}
		if err := s.or.SetCheckout(ctx, o.ID, co.CheckoutID, co.CheckoutURL); err != nil {
			return nil, err
		}
		out.CheckoutURL = &co.CheckoutURL
	}

	s.notifyPendingPurchase(ctx, o)
	return out, nil
}

func (s *service) Confirm(ctx context.Context, orderID int64) error {
	o, err := s.or.ByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrOrderNotFound)
		}
		return err
	}
	if o.Status.Terminal() {
		return makeErr(ErrAlreadyFinalized)
	}
	return s.finalize(ctx, o)
}

// finalize is the atomic unit shared by admin confirmation and the webhook:
// claim the SUCCESSFUL transition, then activate the package on the same
// transaction. The status CAS is the idempotency key.
func (s *service) finalize(ctx context.Context, o *model.Order) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	claimed, err := s.or.ClaimSuccess(ctx, tx, o.ID)
	if err != nil {
		return err
	}
	if !claimed {
		// Lost the race to another confirmation; state is already final.
		err = makeErr(ErrAlreadyFinalized)
		return err
	}

	if err = s.pk.ActivateInTx(ctx, tx, o.UserID, pkgsvc.Activation{
		PackageID:     o.PackageID,
		PackageName:   o.PackageName,
		Credits:       o.PackageCredits,
		ValidityDays:  o.ValidityDays,
		PaymentMethod: o.PaymentMethod,
	}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}

	s.notifyConfirmed(ctx, o)
	return nil
}

func (s *service) HandleWebhook(ctx context.Context, raw []byte) error {
	var ev struct {
		RequestReferenceNumber string `json:"requestReferenceNumber"`
		Status                 string `json:"status"`
	}
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("bad webhook json: %w", err)
	}
	if ev.RequestReferenceNumber == "" || ev.Status == "" {
		return errors.New("missing webhook fields")
	}

	mapped := mapWebhookStatus(ev.Status)
	if mapped == "" {
		// Never guess: an unmapped status must not move the order.
		s.lg.Warn("webhook: unmapped status", "status", ev.Status, "reference_id", ev.RequestReferenceNumber)
		return nil
	}

	o, err := s.or.ByReference(ctx, ev.RequestReferenceNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrOrderNotFound)
		}
		return err
	}
	if o.Status.Terminal() {
		// Gateway replay; already settled.
		return nil
	}

	if mapped == model.OrderSuccessful {
		if err := s.finalize(ctx, o); err != nil {
			if Code(err) == ErrAlreadyFinalized {
				return nil
			}
			return err
		}
		return nil
	}

	if _, err := s.or.MarkTerminal(ctx, o.ID, mapped); err != nil {
		return err
	}
	return nil
}

func (s *service) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.or.ListByUser(ctx, userID)
}

func (s *service) PendingOrders(ctx context.Context) ([]model.Order, error) {
	return s.or.ListPending(ctx)
}

func (s *service) Order(ctx context.Context, orderID int64) (*model.Order, error) {
	o, err := s.or.ByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrOrderNotFound)
		}
		return nil, err
	}
	return o, nil
}

// notifyPendingPurchase tells the admin inbox a manual-method order needs
// review. Best-effort.
func (s *service) notifyPendingPurchase(ctx context.Context, o *model.Order) {
	if s.m == nil || s.adminEmail == "" {
		return
	}
	e := mailerrepo.Email{
		To:      s.adminEmail,
		Subject: "New pending package purchase",
		HTML: fmt.Sprintf("<p>Order #%d: %s (%.2f) via %s is awaiting review.</p>",
			o.ID, o.PackageName, o.PackagePrice, o.PaymentMethod),
	}
	if err := s.m.Send(ctx, e); err != nil {
		s.lg.Error("order notify: admin pending", "order_id", o.ID, "err", err)
	}
}

// notifyConfirmed sends the purchase confirmation to the buyer. Failure here
// is logged only; the activation already committed.
func (s *service) notifyConfirmed(ctx context.Context, o *model.Order) {
	if s.m == nil {
		return
	}
	u, err := s.ur.ByID(ctx, o.UserID)
	if err != nil {
		s.lg.Error("order notify: load user", "user_id", o.UserID, "err", err)
		return
	}
	e := mailerrepo.Email{
		To:      u.Email,
		Subject: "Your package purchase is confirmed!",
		HTML: fmt.Sprintf("<p>Hey %s!</p><p>Your <b>%s</b> is now active: %d credits, valid for %d days.</p>",
			u.FirstName, o.PackageName, o.PackageCredits, o.ValidityDays),
	}
	if err := s.m.Send(ctx, e); err != nil {
		s.lg.Error("order notify: confirmed", "to", u.Email, "err", err)
	}
}
