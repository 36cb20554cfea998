package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/middleware"
)

func (s *Server) handleListManagedVariants(c *gin.Context) {
	managed, err := s.deps.Store.ManagedVariants().ManagedVariants(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"managed_variants": managed})
}

func (s *Server) handleCreateManagedVariant(c *gin.Context) {
	var managed domain.ManagedVariant
	if err := c.ShouldBindJSON(&managed); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if managed.Chromosome == "" || managed.Position == 0 || managed.Reference == "" ||
		managed.Alternative == "" || managed.Build == "" {
		c.JSON(http.StatusBadRequest,
			gin.H{"error": "chromosome, position, reference, alternative and build are required"})
		return
	}
	if len(managed.Maintainer) == 0 {
		managed.Maintainer = []string{middleware.CurrentUser(c).Email}
	}

	if err := s.deps.Store.ManagedVariants().InsertManagedVariant(c.Request.Context(), &managed); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, managed)
}

func (s *Server) handleDeleteManagedVariant(c *gin.Context) {
	if err := s.deps.Store.ManagedVariants().DeleteManagedVariant(c.Request.Context(),
		c.Param("variant_id")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListPanels(c *gin.Context) {
	panels, err := s.deps.Store.Panels().Panels(c.Request.Context(), c.Query("institute"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"panels": panels})
}

// handleGetPanel returns a pinned panel version, or the latest non-archived
// one when no version is given.
func (s *Server) handleGetPanel(c *gin.Context) {
	var version *float64
	if raw := c.Query("version"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "version must be a number"})
			return
		}
		version = &parsed
	}

	panel, err := s.deps.Resolver.Panel(c.Request.Context(), c.Param("panel_name"), version)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if panel == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "panel " + c.Param("panel_name") + " not found"})
		return
	}
	c.JSON(http.StatusOK, panel)
}
