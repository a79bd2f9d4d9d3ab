package ui

import (
	"github.com/gin-gonic/gin"

	"goab/adapters/stats"
	"goab/app"
	"goab/internal"
	"goab/internal/config"
	"goab/ports"
)

// Server is the JSON surface of the statistics engine. It owns no state
// beyond its wiring: every request carries its full inputs, every response
// is a fresh result record.
type Server struct {
	router  *gin.Engine
	cfg     *config.Config
	logger  *internal.Logger
	service *app.AnalysisService

	power   ports.PowerAnalyzer
	srm     ports.SRMDetector
	freq    ports.FrequentistTester
	bayes   ports.BayesianTester
	revenue ports.RevenueProjector
}

// NewServer wires the engine components and routes.
func NewServer(cfg *config.Config, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	gin.SetMode(cfg.Server.GinMode)

	srm := stats.NewSRMChecker()
	freq := stats.NewZTester()
	bayes := stats.NewBayesianSampler(cfg.Engine.BayesSamples, stats.NewSeededRNG(cfg.Engine.BayesSeed))
	revenue := stats.NewRevenueCalculator()

	s := &Server{
		router:  gin.Default(),
		cfg:     cfg,
		logger:  logger,
		service: app.NewAnalysisService(srm, freq, bayes, revenue, logger),
		power:   stats.NewPowerCalculator(),
		srm:     srm,
		freq:    freq,
		bayes:   bayes,
		revenue: revenue,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/power", s.handlePower)
		api.POST("/srm", s.handleSRM)
		api.POST("/ztest", s.handleZTest)
		api.POST("/bayes", s.handleBayes)
		api.POST("/revenue", s.handleRevenue)
		api.POST("/analyze", s.handleAnalyze)

		api.POST("/dataset/upload", s.handleDatasetUpload)

		api.POST("/report/csv", s.handleReportCSV)
		api.POST("/report/html", s.handleReportHTML)
	}
}

// Router exposes the gin engine for tests and embedding.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := ":" + s.cfg.Server.Port
	s.logger.Info("listening on %s", addr)
	return s.router.Run(addr)
}
