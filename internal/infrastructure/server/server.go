package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thejerf/suture/v4"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/GriffinCanCode/windowscene/internal/api/middleware"
	"github.com/GriffinCanCode/windowscene/internal/domain/display"
	"github.com/GriffinCanCode/windowscene/internal/domain/window"
	scenegrpc "github.com/GriffinCanCode/windowscene/internal/grpc"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/config"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/logging"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/windowscene/internal/ipc"
)

const shutdownTimeout = 5 * time.Second

// Server runs the loopback session host and its debug surface.
type Server struct {
	cfg      *config.Config
	layout   *config.Layout
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	displays *display.Manager
	host     *scenegrpc.Host
	hub      *ipc.Hub
	router   *gin.Engine
}

// New wires the host, the event hub and the debug router from cfg.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	layout, err := cfg.LayoutOrDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load layout: %w", err)
	}

	displays, err := display.NewManager(layout.Displays, display.WithLogger(logger.Component("display")))
	if err != nil {
		return nil, fmt.Errorf("failed to load displays: %w", err)
	}

	logger.Info("Initializing scene host",
		zap.String("host_addr", cfg.Host.Address),
		zap.String("debug_addr", cfg.Debug.Address),
		zap.String("ui_type", string(layout.System.UIType)),
		zap.Int("displays", len(layout.Displays)),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("scenehost", logger.Logger)

	hub := ipc.NewHub("ws://"+cfg.Debug.Address+"/events", ipc.HubConfig{
		EventsPerSecond: cfg.Events.EventsPerSecond,
		Burst:           cfg.Events.Burst,
	}, logger.Component("ipc"), metrics)

	host := scenegrpc.NewHost(displays.GetDefaultDisplay(),
		scenegrpc.WithHostLogger(logger.Logger),
		scenegrpc.WithStatusBarHeight(statusBarHeight(displays.GetDefaultDisplay())),
	)

	s := &Server{
		cfg:      cfg,
		layout:   layout,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		displays: displays,
		host:     host,
		hub:      hub,
	}
	s.router = s.newRouter()
	return s, nil
}

// statusBarHeight is 38vp on the display, the height of the system avoid area.
func statusBarHeight(d display.Display) uint32 {
	return uint32(38 * d.VPR())
}

func (s *Server) newRouter() *gin.Engine {
	if !s.cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(s.tracer))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	// Event channels are paced by the hub itself.
	s.hub.Register(router)

	api := router.Group("/")
	api.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	h := &handlers{host: s.host, displays: s.displays, system: s.layout.System, logger: s.logger.Component("debug")}
	api.GET("/healthz", h.health)
	api.GET("/displays", h.listDisplays)
	api.GET("/sessions", h.listSessions)
	api.GET("/sessions/:id", h.getSession)
	api.POST("/sessions/:id/rect", h.pushRect)
	api.POST("/sessions/:id/focus", h.pushFocus)
	api.POST("/sessions/:id/back", h.pushBack)
	api.POST("/sessions/:id/key", h.pushKey)
	api.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return router
}

// Router returns the debug HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Host returns the session host served over gRPC
func (s *Server) Host() *scenegrpc.Host {
	return s.host
}

// Hub returns the websocket event channel hub. Sessions created in this
// process may use it as their window.ChannelOpener.
func (s *Server) Hub() *ipc.Hub {
	return s.hub
}

var _ window.ChannelOpener = (*ipc.Hub)(nil)

// Metrics returns the server's metrics registry
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// ServeRPC serves the session service on lis until ctx is done.
func (s *Server) ServeRPC(ctx context.Context, lis net.Listener) error {
	rpc := grpc.NewServer(
		grpc.ChainUnaryInterceptor(tracing.GRPCUnaryInterceptor(s.tracer)),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	)
	scenegrpc.RegisterSessionServer(rpc, s.host)

	errC := make(chan error, 1)
	go func() { errC <- rpc.Serve(lis) }()

	s.logger.Info("Session host listening", zap.String("addr", lis.Addr().String()))
	select {
	case <-ctx.Done():
		rpc.GracefulStop()
		<-errC
		return ctx.Err()
	case err := <-errC:
		return fmt.Errorf("session host: %w", err)
	}
}

// ServeDebug serves the debug router on the configured address until ctx
// is done.
func (s *Server) ServeDebug(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Debug.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() { errC <- srv.ListenAndServe() }()

	s.logger.Info("Debug server listening", zap.String("addr", s.cfg.Debug.Address))
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("Debug server shutdown", zap.Error(err))
		}
		return ctx.Err()
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("debug server: %w", err)
	}
}

// Supervisor builds the service tree: the gRPC host and, when enabled, the
// debug server.
func (s *Server) Supervisor() *suture.Supervisor {
	super := suture.New("scenehost", suture.Spec{
		EventHook: EventHook(s.logger.Component("supervisor")),
	})

	super.Add(serviceFunc{name: "session-host", fn: func(ctx context.Context) error {
		lis, err := net.Listen("tcp", s.cfg.Host.Address)
		if err != nil {
			return err
		}
		return s.ServeRPC(ctx, lis)
	}})
	if s.cfg.Debug.Enabled {
		super.Add(serviceFunc{name: "debug-http", fn: s.ServeDebug})
	}
	return super
}

// Close releases the tracer and flushes the logger.
func (s *Server) Close() error {
	s.logger.Info("Shutting down scene host...")
	s.tracer.Close()
	_ = s.logger.Sync()
	return nil
}
