package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abraxas-365/prointern/internal/config"
	"github.com/Abraxas-365/prointern/internal/httpx"
	"github.com/Abraxas-365/prointern/pkg/fsx/fsxmem"
	"github.com/Abraxas-365/prointern/pkg/iam/auth"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/pkg/logx"
	"github.com/Abraxas-365/prointern/recruitment/application/applicationapi"
	"github.com/Abraxas-365/prointern/recruitment/intern/internapi"
	"github.com/Abraxas-365/prointern/recruitment/internship/internshipapi"
	"github.com/Abraxas-365/prointern/recruitment/interview/interviewapi"
	"github.com/Abraxas-365/prointern/recruitment/reconcile/reconcileapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Configuration and logger
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Failed to load configuration: %v", err)
	}
	logx.Configure(cfg.Logging.Format, logx.ParseLevel(cfg.Logging.Level))
	defer logx.Sync()
	logx.Infof("Starting %s (%s)...", cfg.App.Name, cfg.App.Environment)

	// 2. Initialize Dependency Container
	container := NewContainer(cfg)
	defer container.Close()

	// 3. Reconcile workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	container.ReconcileWorker.Start(workerCtx)

	// 4. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "ProIntern API",
		DisableStartupMessage: true,
		ErrorHandler:          httpx.ErrorHandler,
		BodyLimit:             int(cfg.Apply.MaxCVBytes) + 64<<10,
	})

	// 5. Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// 6. Health and metrics
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		store := container.Ping(ctx) == nil
		queue := container.Queue.Ping(ctx) == nil
		code, status := fiber.StatusOK, "ok"
		if !store || !queue {
			code, status = fiber.StatusServiceUnavailable, "degraded"
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"store":  store,
			"queue":  queue,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 7. Register Routes
	internshipapi.RegisterRoutes(app, container.InternshipHandlers, container.AuthMiddleware)
	internapi.RegisterRoutes(app, container.InternHandlers, container.AuthMiddleware)
	applicationapi.RegisterRoutes(app, container.ApplicationHandlers, container.AuthMiddleware)
	interviewapi.RegisterRoutes(app, container.InterviewHandlers, container.AuthMiddleware)
	reconcileapi.RegisterRoutes(app, container.ReconcileHandlers, container.AuthMiddleware)

	if cfg.App.IsDevelopment() {
		registerDevRoutes(app, container)
	}

	// 8. Start Server with Graceful Shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
		logx.Infof("Server listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logx.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(cfg.HTTP.ShutdownTimeout); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}
	stopWorkers()
	container.ReconcileWorker.Wait()

	logx.Info("Server exited")
}

type devTokenRequest struct {
	UserID kernel.UserID `json:"user_id"`
	Role   auth.Role     `json:"role"`
}

// registerDevRoutes mounts helpers that stand in for the external identity
// provider and the file host while running locally
func registerDevRoutes(app *fiber.App, container *Container) {
	logx.Warn("Development routes enabled: /dev/token and /files/*")

	app.Post("/dev/token", func(c *fiber.Ctx) error {
		var req devTokenRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.UserID.IsEmpty() {
			return fiber.NewError(fiber.StatusBadRequest, "user_id is required")
		}
		if !req.Role.IsValid() {
			return auth.ErrInvalidRole().WithDetail("role", req.Role)
		}
		token, err := container.TokenService.GenerateAccessToken(req.UserID, req.Role)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"access_token": token, "token_type": "Bearer"})
	})

	files, ok := container.FileSystem.(*fsxmem.FileSystem)
	if !ok {
		return
	}
	app.Get("/files/*", func(c *fiber.Ctx) error {
		if expires, err := time.Parse(time.RFC3339, c.Query("expires")); err != nil || time.Now().After(expires) {
			return fiber.NewError(fiber.StatusForbidden, "link expired")
		}
		data, err := files.ReadFile(c.Context(), c.Params("*"))
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.Send(data)
	})
}
