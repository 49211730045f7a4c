package pkg

import (
	"log/slog"
	"net/http"

	"github.com/8clublagree/8clublagree/app/echoServer/jwtx"
	pkgsvc "github.com/8clublagree/8clublagree/service/pkg"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc pkgsvc.Service
	Log *slog.Logger
}

// GET /v1/packages?offered=true
func (h *Controller) Catalog(c echo.Context) error {
	offeredOnly := c.QueryParam("offered") == "true"
	out, err := h.Svc.Catalog(c.Request().Context(), offeredOnly)
	if err != nil {
		h.Log.Error("package catalog", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/packages/mine
func (h *Controller) Mine(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	out, err := h.Svc.ClientPackages(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("client packages", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/credits/my
func (h *Controller) Credits(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	n, err := h.Svc.CreditBalance(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("credit balance", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"credits": n})
}
