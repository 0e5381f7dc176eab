// Package web provides the HTTP server for the faceattend backend:
// routing, controllers and background job scheduling.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"

	"faceattend/config"
	"faceattend/logger"
	"faceattend/util/jwt"
	"faceattend/web/controller"
	"faceattend/web/job"
	"faceattend/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// Server is the faceattend web server with its controllers, services and
// scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	settings *config.Settings

	auth *controller.AuthController

	issuer            *jwt.Issuer
	encodeService     *service.EncodeService
	enrollmentService *service.EnrollmentService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a web server from the given settings.
func NewServer(settings *config.Settings) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		settings: settings,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// initRouter initializes gin, registers middleware, static assets and
// controllers and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	s.issuer = jwt.NewIssuer(s.settings.JWTSecret, s.settings.TokenTTL)
	s.encodeService = service.NewEncodeService(s.settings.EncodeURL, s.settings.NotifyTimeout)
	s.enrollmentService = service.NewEnrollmentService(
		s.encodeService,
		s.settings.UploadDir,
		s.settings.ReplicaDir,
		s.settings.AssetDirName,
	)

	api := engine.Group("/api/auth")
	s.auth = controller.NewAuthController(api, s.settings, s.issuer, s.enrollmentService)

	// Uploaded photos are served back to the frontend from the primary
	// upload area.
	engine.Static("/uploads", s.settings.UploadDir)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the background jobs.
func (s *Server) startTask() {
	if s.settings.EncodeSyncCron == "" {
		return
	}
	if _, err := s.cron.AddJob(s.settings.EncodeSyncCron, job.NewEncodeSyncJob(s.encodeService)); err != nil {
		logger.Warning("add encode sync job err:", err)
	}
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(s.settings.Listen, strconv.Itoa(s.settings.Port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.startTask()

	s.httpServer = &http.Server{
		Handler: engine,
	}

	go func() {
		if serveErr := s.httpServer.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("web server err:", serveErr)
		}
	}()

	logger.Infof("web server started on %s", listenAddr)
	return nil
}

// Stop gracefully shuts down the web server and its jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		if closeErr := s.listener.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
