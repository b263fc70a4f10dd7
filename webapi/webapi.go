// Package webapi is the HTTP adapter of the ledger. It is organized into
// sub-packages per resource:
//   - account: accounts, balance audits and transfers
//   - transaction: recording and listing postings
//   - category: category management
//   - budget: budgets with live evaluation
package webapi

import (
	"errors"
	"strings"
	"time"

	"github.com/amirasaad/fintrack/infra/initializer"
	"github.com/amirasaad/fintrack/pkg/config"
	accountweb "github.com/amirasaad/fintrack/webapi/account"
	budgetweb "github.com/amirasaad/fintrack/webapi/budget"
	categoryweb "github.com/amirasaad/fintrack/webapi/category"
	"github.com/amirasaad/fintrack/webapi/common"
	transactionweb "github.com/amirasaad/fintrack/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"

	_ "github.com/amirasaad/fintrack/docs"
)

// SetupApp builds the fiber app with every route and middleware.
func SetupApp(services initializer.Services, cfg *config.App) *fiber.App {
	cfg = withDefaults(cfg)

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
			return common.ProblemDetailsJSON(c, "Request failed", err, "", status)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))

	// Uses X-Forwarded-For when behind a proxy, then X-Real-IP, then the peer.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				first, _, _ := strings.Cut(forwardedFor, ",")
				return strings.TrimSpace(first)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				"",
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(requestid.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("FinTrack ledger is running")
	})

	accountweb.Routes(fiberApp, services.Ledger, services.Transfer, cfg)
	transactionweb.Routes(fiberApp, services.Ledger, cfg)
	categoryweb.Routes(fiberApp, services.Ledger, cfg)
	budgetweb.Routes(fiberApp, services.Budget, cfg)
	return fiberApp
}

func withDefaults(cfg *config.App) *config.App {
	out := config.App{}
	if cfg != nil {
		out = *cfg
	}
	if out.Auth == nil || out.Auth.Jwt == nil {
		out.Auth = &config.Auth{Jwt: &config.Jwt{}}
	}
	if out.RateLimit == nil || out.RateLimit.MaxRequests <= 0 {
		out.RateLimit = &config.RateLimit{MaxRequests: 100, Window: time.Minute}
	}
	return &out
}
