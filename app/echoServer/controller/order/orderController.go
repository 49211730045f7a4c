package order

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/8clublagree/8clublagree/app/echoServer/jwtx"
	"github.com/8clublagree/8clublagree/repository/storage"
	ps "github.com/8clublagree/8clublagree/service/payment"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc    ps.Service
	Proofs storage.ProofStorage
	V      *validator.Validate
	Log    *slog.Logger
}

func httpStatus(code ps.ErrCode) (int, string) {
	switch code {
	case ps.ErrOrderNotFound:
		return http.StatusNotFound, "order not found"
	case ps.ErrPackageNotFound:
		return http.StatusNotFound, "package not found"
	case ps.ErrAlreadyFinalized:
		return http.StatusConflict, "order already finalized"
	case ps.ErrBadInput:
		return http.StatusBadRequest, "validation error"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// POST /v1/orders
func (h *Controller) Create(c echo.Context) error {
	var req CreateOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	out, err := h.Svc.CreateOrder(c.Request().Context(), uid, req.PackageID, req.PaymentMethod, req.ProofPath)
	if err != nil {
		h.Log.Error("order create", "err", err)
		status, msg := httpStatus(ps.Code(err))
		return c.JSON(status, echo.Map{"message": msg})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": out})
}

// GET /v1/orders/my
func (h *Controller) My(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	rows, err := h.Svc.Orders(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("my orders", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/orders/pending  (admin)
func (h *Controller) Pending(c echo.Context) error {
	rows, err := h.Svc.PendingOrders(c.Request().Context())
	if err != nil {
		h.Log.Error("pending orders", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PUT /v1/orders/:id/confirm  (admin)
func (h *Controller) Confirm(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Confirm(c.Request().Context(), id); err != nil {
		h.Log.Error("order confirm", "order_id", id, "err", err)
		status, msg := httpStatus(ps.Code(err))
		return c.JSON(status, echo.Map{"message": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "confirmed"})
}

// GET /v1/orders/:id/proof-url  (admin)
func (h *Controller) ProofURL(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	o, err := h.Svc.Order(c.Request().Context(), id)
	if err != nil {
		status, msg := httpStatus(ps.Code(err))
		return c.JSON(status, echo.Map{"message": msg})
	}
	if o.ProofPath == nil || *o.ProofPath == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "no proof uploaded"})
	}
	if h.Proofs == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "storage not configured"})
	}
	u, err := h.Proofs.PresignProofURL(c.Request().Context(), *o.ProofPath, 15*time.Minute)
	if err != nil {
		h.Log.Error("proof presign", "order_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"url": u})
}
