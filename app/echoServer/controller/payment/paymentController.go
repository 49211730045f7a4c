package payment

import (
	"io"
	"log/slog"
	"net/http"

	ps "github.com/8clublagree/8clublagree/service/payment"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ps.Service
	Log *slog.Logger
}

// POST /v1/payment/maya/webhook
func (h *Controller) HandleMaya(c echo.Context) error {
	raw, _ := io.ReadAll(c.Request().Body)

	if err := h.Svc.HandleWebhook(c.Request().Context(), raw); err != nil {
		h.Log.Error("maya webhook", "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "webhook rejected"})
	}
	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
