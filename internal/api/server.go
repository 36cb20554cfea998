// Package api exposes the interpretation engine over HTTP. Routes are
// grouped per institute and case, mirroring how access control works: every
// request is resolved to a user, an institute the user belongs to and,
// below that, a case the institute may see.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/annotate"
	"github.com/scout-genomics/scout/internal/classify"
	"github.com/scout-genomics/scout/internal/config"
	"github.com/scout-genomics/scout/internal/events"
	"github.com/scout-genomics/scout/internal/evidence"
	"github.com/scout-genomics/scout/internal/middleware"
	"github.com/scout-genomics/scout/internal/query"
	"github.com/scout-genomics/scout/internal/reference"
	"github.com/scout-genomics/scout/internal/store"
)

// Dependencies carries the assembled services the server routes to.
type Dependencies struct {
	Store      store.Store
	Resolver   *reference.Resolver
	Journal    *events.Journal
	Engine     *classify.Engine
	Annotator  *annotate.Annotator
	RankModels *annotate.RankModelClient
	Queries    *query.Service
	Filters    *query.Filters
	Evidence   *evidence.Aggregator
	Logger     *logrus.Logger
}

// Server is the HTTP front of the interpretation engine.
type Server struct {
	settings config.ServerSettings
	deps     Dependencies
	router   *gin.Engine
	server   *http.Server
	log      *logrus.Logger
}

// NewServer builds the router and wires all routes.
func NewServer(settings config.ServerSettings, deps Dependencies, debug bool) *Server {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(corsMiddleware())

	s := &Server{
		settings: settings,
		deps:     deps,
		router:   router,
		log:      deps.Logger,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.settings.Host, s.settings.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.log.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.Use(middleware.Authenticate(s.deps.Store, s.log))
	{
		v1.GET("/institutes", s.handleListInstitutes)
		v1.GET("/managed-variants", s.handleListManagedVariants)
		v1.POST("/managed-variants", s.handleCreateManagedVariant)
		v1.DELETE("/managed-variants/:variant_id", s.handleDeleteManagedVariant)
		v1.GET("/panels", s.handleListPanels)
		v1.GET("/panels/:panel_name", s.handleGetPanel)

		inst := v1.Group("/institutes/:institute_id")
		inst.Use(s.requireInstitute())
		{
			inst.GET("", s.handleGetInstitute)
			inst.GET("/users", s.handleListUsers)
			inst.GET("/cases", s.handleListCases)

			inst.GET("/filters", s.handleListFilters)
			inst.GET("/filters/:filter_id", s.handleGetFilter)
			inst.POST("/filters/:filter_id/lock", s.handleLockFilter)
			inst.DELETE("/filters/:filter_id/lock", s.handleUnlockFilter)
			inst.DELETE("/filters/:filter_id", s.handleDeleteFilter)

			kase := inst.Group("/cases/:case_id")
			kase.Use(s.requireCase())
			{
				kase.GET("", s.handleGetCase)
				kase.PUT("/status", s.handleUpdateStatus)
				kase.POST("/assign", s.handleAssignUser)
				kase.DELETE("/assign", s.handleUnassignUser)
				kase.POST("/rerun", s.handleRequestRerun)
				kase.POST("/research", s.handleOpenResearch)
				kase.PUT("/synopsis", s.handleUpdateSynopsis)
				kase.POST("/comments", s.handleCreateComment)
				kase.PUT("/comments/:event_id", s.handleUpdateComment)
				kase.GET("/events", s.handleListEvents)
				kase.GET("/rank-model", s.handleRankModel)

				kase.POST("/filters", s.handleStashFilter)
				kase.POST("/filters/:filter_id/audit", s.handleAuditFilter)

				kase.GET("/variants", s.handleListVariants)
				kase.GET("/variants/evaluated", s.handleEvaluatedVariants)
				kase.GET("/variants/export", s.handleExportVariants)
				kase.GET("/variants/preset", s.handleClinicalPreset)
				kase.DELETE("/variants/dismissed", s.handleResetAllDismissed)

				variant := kase.Group("/variants/:variant_id")
				variant.Use(s.requireVariant())
				{
					variant.GET("", s.handleGetVariant)
					variant.POST("/pin", s.handlePinVariant)
					variant.DELETE("/pin", s.handleUnpinVariant)
					variant.POST("/causative", s.handleMarkCausative)
					variant.DELETE("/causative", s.handleUnmarkCausative)
					variant.PUT("/manual-rank", s.handleManualRank)
					variant.PUT("/cancer-tier", s.handleCancerTier)
					variant.PUT("/dismiss", s.handleDismissVariant)
					variant.DELETE("/dismiss", s.handleResetDismiss)
					variant.PUT("/mosaic", s.handleMosaicTags)
					variant.POST("/sanger", s.handleOrderSanger)
					variant.DELETE("/sanger", s.handleCancelSanger)
					variant.PUT("/validate", s.handleValidate)

					variant.GET("/evaluations", s.handleListEvaluations)
					variant.POST("/evaluations", s.handleSubmitEvaluation)
					variant.DELETE("/evaluations/:evaluation_id", s.handleDeleteEvaluation)
				}
			}
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Request-ID, X-User-Email")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
