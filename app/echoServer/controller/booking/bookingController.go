package booking

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/8clublagree/8clublagree/app/echoServer/jwtx"
	"github.com/8clublagree/8clublagree/model"
	bs "github.com/8clublagree/8clublagree/service/booking"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

func httpStatus(code bs.ErrCode) (int, string) {
	switch code {
	case bs.ErrClassFull:
		return http.StatusConflict, "class is full"
	case bs.ErrInsufficientCredits:
		return http.StatusConflict, "insufficient credits"
	case bs.ErrTooLateToCancel:
		return http.StatusConflict, "too late to cancel"
	case bs.ErrNotFound:
		return http.StatusNotFound, "booking not found"
	case bs.ErrConflict:
		return http.StatusConflict, "booking state conflict"
	case bs.ErrBadInput:
		return http.StatusBadRequest, "validation error"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// POST /v1/classes/book
func (h *Controller) Book(c echo.Context) error {
	var req BookClassReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	// Clients book for themselves; staff pass booker_id or walk-in fields.
	bookerID := req.BookerID
	if !req.IsWalkIn && bookerID == nil {
		if uid, err := jwtx.UserIDFromContext(c); err == nil {
			bookerID = &uid
		}
	}

	b, err := h.Svc.Book(c.Request().Context(), bs.BookReq{
		ClassID:       req.ClassID,
		BookerID:      bookerID,
		WalkInFirst:   req.WalkInFirstName,
		WalkInLast:    req.WalkInLastName,
		WalkInEmail:   req.WalkInClientEmail,
		WalkInContact: req.WalkInClientContactNumber,
		DeductCredits: req.DeductCredits,
	})
	if err != nil {
		h.Log.Error("book class", "err", err)
		status, msg := httpStatus(bs.Code(err))
		return c.JSON(status, echo.Map{"message": msg})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": b})
}

// PUT /v1/bookings/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	role, _ := c.Get("role").(string)
	actingAsAdmin := role == model.RoleAdmin

	if err := h.Svc.Cancel(c.Request().Context(), id, actingAsAdmin); err != nil {
		h.Log.Error("cancel booking", "booking_id", id, "err", err)
		status, msg := httpStatus(bs.Code(err))
		return c.JSON(status, echo.Map{"message": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cancelled"})
}

// PUT /v1/bookings/:id/attendance  (instructor, admin)
func (h *Controller) MarkAttendance(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req MarkAttendanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}

	if err := h.Svc.MarkAttendance(c.Request().Context(), id, model.AttendanceStatus(req.Status)); err != nil {
		h.Log.Error("mark attendance", "booking_id", id, "err", err)
		status, msg := httpStatus(bs.Code(err))
		return c.JSON(status, echo.Map{"message": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// PUT /v1/bookings/:id/rebook  (instructor, admin)
func (h *Controller) Rebook(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req RebookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}

	if err := h.Svc.Rebook(c.Request().Context(), id, req.NewClassID); err != nil {
		h.Log.Error("rebook", "booking_id", id, "err", err)
		status, msg := httpStatus(bs.Code(err))
		return c.JSON(status, echo.Map{"message": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "rebooked"})
}

// GET /v1/bookings/my
func (h *Controller) My(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	rows, err := h.Svc.MyBookings(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("my bookings", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
