package echoServer

import (
	"net/http"
	"time"

	authctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/auth"
	bookingctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/booking"
	classctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/class"
	jobsctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/jobs"
	orderctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/order"
	paymentctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/payment"
	pkgctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/pkg"
	"github.com/8clublagree/8clublagree/app/echoServer/jwtx"
	"github.com/8clublagree/8clublagree/model"

	"github.com/golang-jwt/jwt/v5"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type C struct {
	Auth    *authctrl.Controller
	Class   *classctrl.Controller
	Booking *bookingctrl.Controller
	Pkg     *pkgctrl.Controller
	Order   *orderctrl.Controller
	Payment *paymentctrl.Controller
	Jobs    *jobsctrl.Controller

	JWTSecret  string
	CronSecret string
	Redis      *redis.Client
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register, RateLimit(c.Redis, 10, time.Minute))
	pub.POST("/users/login", c.Auth.Login, RateLimit(c.Redis, 20, time.Minute))

	// Gateway callback
	pub.POST("/payment/maya/webhook", c.Payment.HandleMaya)

	// Scheduler-invoked jobs, shared-secret auth
	jobs := e.Group("/v1/jobs", CronSecret(c.CronSecret))
	jobs.GET("/expire-packages", c.Jobs.ExpirePackages)
	jobs.POST("/send-reminders", c.Jobs.SendReminders)

	// Authenticated
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
	}))
	auth.Use(extractIdentity)

	// Classes
	auth.GET("/classes", c.Class.List)
	auth.GET("/classes/:id", c.Class.Detail)

	// Packages & orders
	auth.GET("/packages", c.Pkg.Catalog)
	auth.GET("/packages/mine", c.Pkg.Mine)
	auth.GET("/credits/my", c.Pkg.Credits)
	auth.POST("/orders", c.Order.Create)
	auth.GET("/orders/my", c.Order.My)

	// Bookings
	auth.POST("/classes/book", c.Booking.Book)
	auth.PUT("/bookings/:id/cancel", c.Booking.Cancel)
	auth.GET("/bookings/my", c.Booking.My)

	// Instructor/admin surface
	staff := auth.Group("", RequireRole(model.RoleInstructor, model.RoleAdmin))
	staff.GET("/classes/:id/attendees", c.Class.Attendees)
	staff.PUT("/bookings/:id/attendance", c.Booking.MarkAttendance)
	staff.PUT("/bookings/:id/rebook", c.Booking.Rebook)

	// Admin surface
	admin := auth.Group("", RequireRole(model.RoleAdmin))
	admin.POST("/classes", c.Class.Create)
	admin.POST("/classes/:id/reconcile-slots", c.Class.Reconcile)
	admin.GET("/orders/pending", c.Order.Pending)
	admin.PUT("/orders/:id/confirm", c.Order.Confirm)
	admin.GET("/orders/:id/proof-url", c.Order.ProofURL)
}

// extractIdentity pulls sub/role out of the verified token so downstream
// middleware can check them without re-parsing claims.
func extractIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		uid, err := jwtx.UserIDFromContext(ctx)
		if err != nil {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		ctx.Set("user_id", uid)
		if role, err := jwtx.RoleFromContext(ctx); err == nil {
			ctx.Set("role", role)
		}
		return next(ctx)
	}
}
