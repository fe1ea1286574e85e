package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/prointern/internal/config"
	"github.com/Abraxas-365/prointern/internal/memstore"
	"github.com/Abraxas-365/prointern/pkg/fsx"
	"github.com/Abraxas-365/prointern/pkg/fsx/fsxmem"
	"github.com/Abraxas-365/prointern/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/prointern/pkg/iam/auth"
	"github.com/Abraxas-365/prointern/pkg/logx"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/application/applicationapi"
	"github.com/Abraxas-365/prointern/recruitment/application/applicationinfra"
	"github.com/Abraxas-365/prointern/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/prointern/recruitment/application/reviewsrv"
	"github.com/Abraxas-365/prointern/recruitment/intern"
	"github.com/Abraxas-365/prointern/recruitment/intern/internapi"
	"github.com/Abraxas-365/prointern/recruitment/intern/interninfra"
	"github.com/Abraxas-365/prointern/recruitment/intern/internsrv"
	"github.com/Abraxas-365/prointern/recruitment/internship"
	"github.com/Abraxas-365/prointern/recruitment/internship/internshipapi"
	"github.com/Abraxas-365/prointern/recruitment/internship/internshipinfra"
	"github.com/Abraxas-365/prointern/recruitment/internship/internshipsrv"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	"github.com/Abraxas-365/prointern/recruitment/interview/interviewapi"
	"github.com/Abraxas-365/prointern/recruitment/interview/interviewinfra"
	"github.com/Abraxas-365/prointern/recruitment/interview/interviewsrv"
	"github.com/Abraxas-365/prointern/recruitment/reconcile"
	"github.com/Abraxas-365/prointern/recruitment/reconcile/reconcileapi"
	"github.com/Abraxas-365/prointern/recruitment/reconcile/reconcileinfra"
	"github.com/Abraxas-365/prointern/recruitment/reconcile/reconcilesrv"
	"github.com/Abraxas-365/prointern/recruitment/reconcile/worker"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const devJWTSecret = "prointern-development-secret-change-me"

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	Memory     *memstore.Store
	FileSystem fsx.FileSystem
	Queue      reconcile.Queue

	// Repositories
	InternshipRepo  internship.Repository
	InternRepo      intern.Repository
	ApplicationRepo application.Repository
	InterviewRepo   interview.Repository

	// Services
	TokenService       *auth.JWTService
	InternshipService  *internshipsrv.InternshipService
	InternService      *internsrv.InternService
	ApplicationService *applicationsrv.ApplicationService
	ReviewService      *reviewsrv.ReviewService
	InterviewService   *interviewsrv.InterviewService
	ReconcileService   *reconcilesrv.Service
	ReconcileWorker    *worker.ReconcileWorker

	// API Handlers
	InternshipHandlers  *internshipapi.Handlers
	InternHandlers      *internapi.Handlers
	ApplicationHandlers *applicationapi.Handlers
	InterviewHandlers   *interviewapi.Handlers
	ReconcileHandlers   *reconcileapi.Handlers

	// Middleware
	AuthMiddleware *auth.TokenMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	c := &Container{Config: cfg}
	c.initStorage()
	c.initQueue()
	c.initFiles()
	c.initServices()
	return c
}

func (c *Container) initStorage() {
	if c.Config.Storage.Driver == config.DriverMemory {
		logx.Warn("Using the in-memory record store, data is lost on restart")
		c.Memory = memstore.New()
		c.InternshipRepo = c.Memory.Internships()
		c.InternRepo = c.Memory.Interns()
		c.ApplicationRepo = c.Memory.Applications()
		c.InterviewRepo = c.Memory.Interviews()
		return
	}

	pg := c.Config.Database.Postgres
	db, err := sqlx.Connect("postgres", pg.GetDSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(pg.MaxConnections)
	db.SetMaxIdleConns(pg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	c.InternshipRepo = internshipinfra.NewPostgresInternshipRepository(db)
	c.InternRepo = interninfra.NewPostgresInternRepository(db)
	c.ApplicationRepo = applicationinfra.NewPostgresApplicationRepository(db)
	c.InterviewRepo = interviewinfra.NewPostgresInterviewRepository(db)
	logx.Infof("Connected to PostgreSQL at %s:%d", pg.Host, pg.Port)
}

func (c *Container) initQueue() {
	if c.Config.Reconcile.Queue == config.DriverMemory {
		c.Queue = reconcileinfra.NewMemoryQueue(1024)
		return
	}

	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if err := c.Redis.Ping(context.Background()).Err(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}
	c.Queue = reconcileinfra.NewRedisQueue(c.Redis, c.Config.Reconcile.QueueName)
}

func (c *Container) initFiles() {
	files := c.Config.Files
	if files.Driver == config.DriverMemory {
		c.FileSystem = fsxmem.New(files.BaseURL)
		return
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(files.Region))
	if err != nil {
		logx.Fatalf("unable to load SDK config, %v", err)
	}
	c.FileSystem = fsxs3.NewS3FileSystem(s3.NewFromConfig(awsCfg), files.Bucket, files.Prefix)
}

func (c *Container) initServices() {
	authCfg := auth.DefaultConfig()
	authCfg.JWTSecret = c.Config.Auth.JWTSecret
	authCfg.Issuer = c.Config.Auth.Issuer
	authCfg.AccessTokenTTL = c.Config.Auth.AccessTokenTTL
	if authCfg.JWTSecret == "" {
		logx.Warn("auth.jwt_secret is not set, using the development secret")
		authCfg.JWTSecret = devJWTSecret
	}
	c.TokenService = auth.NewJWTService(authCfg)

	rc := c.Config.Reconcile

	// --- Domain Services ---
	c.InternshipService = internshipsrv.NewInternshipService(c.InternshipRepo, c.ApplicationRepo)
	c.InternService = internsrv.NewInternService(c.InternRepo, c.FileSystem, internsrv.Config{
		MaxCVBytes: c.Config.Apply.MaxCVBytes,
		URLTTL:     c.Config.Files.URLTTL,
	})
	c.ApplicationService = applicationsrv.NewApplicationService(c.ApplicationRepo, c.InternshipRepo, c.InternRepo, c.InterviewRepo, c.Queue)
	c.ReviewService = reviewsrv.NewReviewService(c.ApplicationRepo)
	c.InterviewService = interviewsrv.NewInterviewService(c.InterviewRepo, c.ApplicationRepo, c.Queue)
	c.ReconcileService = reconcilesrv.NewService(c.ApplicationRepo, c.InternshipRepo, c.InternRepo, c.InterviewRepo, c.Queue, reconcilesrv.Config{
		MaxAttempts: rc.MaxAttempts,
		RetryDelay:  rc.RetryDelay,
	})
	c.ReconcileWorker = worker.NewReconcileWorker(c.ReconcileService, c.Queue, worker.Config{
		Workers:     rc.Workers,
		PollTimeout: rc.PollTimeout,
	})

	// --- Handlers ---
	c.InternshipHandlers = internshipapi.NewHandlers(c.InternshipService)
	c.InternHandlers = internapi.NewHandlers(c.InternService)
	c.ApplicationHandlers = applicationapi.NewHandlers(c.ApplicationService, c.ReviewService)
	c.InterviewHandlers = interviewapi.NewHandlers(c.InterviewService)
	c.ReconcileHandlers = reconcileapi.NewHandlers(c.ReconcileService)

	// --- Middleware ---
	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService)
}

// Ping reports whether the record store answers
func (c *Container) Ping(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.PingContext(ctx)
	}
	return c.Memory.Ping(ctx)
}

func (c *Container) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Redis != nil {
		c.Redis.Close()
	}
}
