package agency

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/4oBuko/spy-cat-agency-records/internal/config"
	"github.com/4oBuko/spy-cat-agency-records/internal/services"
)

var Endpoints = struct {
	CatCreate       string
	CatGet          string
	CatGetAll       string
	CatUpdateSalary string
	CatDelete       string

	MissionCreate   string
	MissionGet      string
	MissionGetAll   string
	MissionDelete   string
	MissionAssign   string
	MissionComplete string

	TargetCreate      string
	TargetGet         string
	TargetGetAll      string
	TargetUpdateNotes string
	TargetComplete    string
	TargetDelete      string

	Health string
}{
	CatCreate:       "/cats",
	CatGet:          "/cats/:id",
	CatGetAll:       "/cats",
	CatUpdateSalary: "/cats/:id/salary",
	CatDelete:       "/cats/:id",

	MissionCreate:   "/missions",
	MissionGet:      "/missions/:id",
	MissionGetAll:   "/missions",
	MissionDelete:   "/missions/:id",
	MissionAssign:   "/missions/:id/assign_cat/:catId",
	MissionComplete: "/missions/:id/complete",

	TargetCreate:      "/targets",
	TargetGet:         "/targets/:id",
	TargetGetAll:      "/targets",
	TargetUpdateNotes: "/targets/:id/notes",
	TargetComplete:    "/targets/:id/complete",
	TargetDelete:      "/targets/:id",

	Health: "/healthz",
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithHealthCheck makes GET /healthz ping p.
func WithHealthCheck(p Pinger) Option {
	return func(s *Server) { s.pinger = p }
}

type Server struct {
	router         *gin.Engine
	httpServer     *http.Server
	logger         *zap.Logger
	pinger         Pinger
	catService     services.CatService
	missionService services.MissionService
	targetService  services.TargetService
}

func NewServer(cfg config.HTTPConfig, catService services.CatService, missionService services.MissionService, targetService services.TargetService, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &Server{
		router:         router,
		logger:         zap.NewNop(),
		catService:     catService,
		missionService: missionService,
		targetService:  targetService,
	}
	for _, opt := range opts {
		opt(server)
	}
	server.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	router.Use(requestID(), requestLogger(server.logger), gin.Recovery())
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
			ExposeHeaders: []string{"Content-Length", requestIDHeader},
		}))
	}

	router.POST(Endpoints.CatCreate, server.handleAddCat)
	router.GET(Endpoints.CatGet, server.handleGetCat)
	router.GET(Endpoints.CatGetAll, server.handleGetAllCats)
	router.PUT(Endpoints.CatUpdateSalary, server.handleUpdateSalary)
	router.DELETE(Endpoints.CatDelete, server.handleDeleteCat)

	router.POST(Endpoints.MissionCreate, server.handleAddMission)
	router.GET(Endpoints.MissionGet, server.handleGetMission)
	router.GET(Endpoints.MissionGetAll, server.handleGetAllMissions)
	router.PUT(Endpoints.MissionAssign, server.handleAssignMission)
	router.PUT(Endpoints.MissionComplete, server.handleCompleteMission)
	router.DELETE(Endpoints.MissionDelete, server.handleDeleteMission)

	router.POST(Endpoints.TargetCreate, server.handleAddTarget)
	router.GET(Endpoints.TargetGet, server.handleGetTarget)
	router.GET(Endpoints.TargetGetAll, server.handleGetAllTargets)
	router.PUT(Endpoints.TargetUpdateNotes, server.handleUpdateNotes)
	router.PUT(Endpoints.TargetComplete, server.handleCompleteTarget)
	router.DELETE(Endpoints.TargetDelete, server.handleDeleteTarget)

	router.GET(Endpoints.Health, server.handleHealth)
	return server
}

// Run blocks until the server stops. After Shutdown it returns
// http.ErrServerClosed.
func (s *Server) Run() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Serve is Run on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("http server listening", zap.String("addr", listener.Addr().String()))
	return s.httpServer.Serve(listener)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(ctx *gin.Context) {
	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
