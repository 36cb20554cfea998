package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/middleware"
)

func (s *Server) handleListFilters(c *gin.Context) {
	category := domain.Category(c.DefaultQuery("category", string(domain.CategorySNV)))
	filters, err := s.deps.Filters.InstituteFilters(c.Request.Context(), currentInstitute(c).ID, category)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filters": filters})
}

func (s *Server) handleGetFilter(c *gin.Context) {
	filter, err := s.deps.Filters.LoadFilter(c.Request.Context(), c.Param("filter_id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if filter == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "filter not found"})
		return
	}
	c.JSON(http.StatusOK, filter)
}

// handleStashFilter saves the submitted filter form under a display name.
func (s *Server) handleStashFilter(c *gin.Context) {
	var req struct {
		DisplayName string              `json:"display_name" binding:"required"`
		Category    string              `json:"category"`
		Payload     map[string][]string `json:"filters" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := domain.Category(req.Category)
	if req.Category == "" {
		category = domain.CategorySNV
	}
	if !category.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown variant category " + req.Category})
		return
	}

	filter, err := s.deps.Filters.StashFilter(c.Request.Context(), req.Payload, req.DisplayName,
		currentInstitute(c), currentCase(c), middleware.CurrentUser(c), category, link(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, filter)
}

func (s *Server) handleLockFilter(c *gin.Context) {
	filter, err := s.deps.Filters.LockFilter(c.Request.Context(), c.Param("filter_id"),
		middleware.CurrentUser(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, filter)
}

func (s *Server) handleUnlockFilter(c *gin.Context) {
	filter, err := s.deps.Filters.UnlockFilter(c.Request.Context(), c.Param("filter_id"),
		middleware.CurrentUser(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, filter)
}

func (s *Server) handleDeleteFilter(c *gin.Context) {
	err := s.deps.Filters.DeleteFilter(c.Request.Context(), c.Param("filter_id"),
		middleware.CurrentUser(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleAuditFilter stamps an immutable audit record on the filter and
// journals it on the case.
func (s *Server) handleAuditFilter(c *gin.Context) {
	filter, err := s.deps.Filters.AuditFilter(c.Request.Context(), c.Param("filter_id"),
		currentInstitute(c), currentCase(c), middleware.CurrentUser(c), link(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, filter)
}
