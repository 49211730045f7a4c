package class

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/8clublagree/8clublagree/model"
	bookingsvc "github.com/8clublagree/8clublagree/service/booking"
	classsvc "github.com/8clublagree/8clublagree/service/class"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc     classsvc.Service
	Booking bookingsvc.Service
	V       *validator.Validate
	Log     *slog.Logger
}

// POST /v1/classes  (admin)
func (h *Controller) Create(c echo.Context) error {
	var req CreateClassReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	cl := &model.Class{
		InstructorID:     req.InstructorID,
		InstructorName:   req.InstructorName,
		ClassDate:        req.ClassDate,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		AvailableSlots:   req.AvailableSlots,
		OfferedToClients: req.OfferedToClients,
	}
	if err := h.Svc.Create(c.Request().Context(), cl); err != nil {
		h.Log.Error("class create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": cl})
}

// GET /v1/classes?offered=true
func (h *Controller) List(c echo.Context) error {
	offeredOnly := c.QueryParam("offered") == "true"
	out, err := h.Svc.List(c.Request().Context(), offeredOnly)
	if err != nil {
		h.Log.Error("class list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/classes/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	out, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "class not found"})
		}
		h.Log.Error("class detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/classes/:id/attendees  (instructor, admin)
func (h *Controller) Attendees(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	rows, err := h.Booking.Attendees(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("class attendees", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/classes/:id/reconcile-slots  (admin)
func (h *Controller) Reconcile(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	n, err := h.Svc.Reconcile(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "class not found"})
		}
		h.Log.Error("class reconcile", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"taken_slots": n})
}
