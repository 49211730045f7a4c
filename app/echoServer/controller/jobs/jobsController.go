// app/echoServer/controller/jobs/jobsController.go
package jobs

import (
	"log/slog"
	"net/http"
	"time"

	pkgsvc "github.com/8clublagree/8clublagree/service/pkg"
	"github.com/8clublagree/8clublagree/service/reminder"

	"github.com/labstack/echo/v4"
)

// Controller exposes the scheduler-invoked batch jobs. Routes are guarded by
// the cron-secret middleware, not by user auth.
type Controller struct {
	Pkg      pkgsvc.Service
	Reminder reminder.Sender
	Log      *slog.Logger
}

// GET /v1/jobs/expire-packages
func (h *Controller) ExpirePackages(c echo.Context) error {
	res, err := h.Pkg.ExpireOverdue(c.Request().Context(), time.Now().UTC())
	if err != nil {
		h.Log.Error("expire packages job", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": "error"})
	}
	h.Log.Info("expire packages job",
		"expired", res.ExpiredPackages, "users", res.AffectedUsers)
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "result": res})
}

// POST /v1/jobs/send-reminders
func (h *Controller) SendReminders(c echo.Context) error {
	res, err := h.Reminder.Run(c.Request().Context(), time.Now().UTC())
	if err != nil {
		h.Log.Error("reminder job", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": "error"})
	}
	h.Log.Info("reminder job", "sent", res.Sent)
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "result": res})
}
