package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/middleware"
	"github.com/scout-genomics/scout/internal/store"
)

func (s *Server) handleListInstitutes(c *gin.Context) {
	user := middleware.CurrentUser(c)

	institutes, err := s.deps.Store.Institutes().Institutes(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	visible := make([]*domain.Institute, 0, len(institutes))
	for _, institute := range institutes {
		if user.IsAdmin() || user.MemberOf(institute.ID) {
			visible = append(visible, institute)
		}
	}
	c.JSON(http.StatusOK, gin.H{"institutes": visible})
}

func (s *Server) handleGetInstitute(c *gin.Context) {
	c.JSON(http.StatusOK, currentInstitute(c))
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.deps.Store.Users().Users(c.Request.Context(), currentInstitute(c).ID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) handleListCases(c *gin.Context) {
	sel := store.CaseSelection{
		Institute:    currentInstitute(c).ID,
		Status:       domain.CaseStatus(c.Query("status")),
		AnalysisType: c.Query("analysis_type"),
		GroupID:      c.Query("group_id"),
	}
	if raw := c.Query("older_than"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "older_than must be a number of days"})
			return
		}
		cutoff := time.Now().AddDate(0, 0, -days)
		sel.OlderThan = &cutoff
	}

	cases, err := s.deps.Store.Cases().Cases(c.Request.Context(), sel)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases})
}

func (s *Server) handleGetCase(c *gin.Context) {
	c.JSON(http.StatusOK, currentCase(c))
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kase, err := s.deps.Journal.UpdateStatus(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), domain.CaseStatus(req.Status), link(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, kase)
}

func (s *Server) handleAssignUser(c *gin.Context) {
	kase, err := s.deps.Journal.AssignUser(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, kase)
}

func (s *Server) handleUnassignUser(c *gin.Context) {
	kase, err := s.deps.Journal.UnassignUser(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, kase)
}

func (s *Server) handleRequestRerun(c *gin.Context) {
	kase, err := s.deps.Journal.RequestRerun(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, kase)
}

func (s *Server) handleOpenResearch(c *gin.Context) {
	kase, err := s.deps.Journal.OpenResearch(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, kase)
}

func (s *Server) handleUpdateSynopsis(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kase, err := s.deps.Journal.UpdateSynopsis(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), req.Content)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, kase)
}

func (s *Server) handleCreateComment(c *gin.Context) {
	var req struct {
		Content   string `json:"content" binding:"required"`
		Level     string `json:"level"`
		VariantID string `json:"variant_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := s.deps.Journal.Comment(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), req.VariantID, req.Content, req.Level)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) handleUpdateComment(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := s.deps.Journal.UpdateComment(c.Request.Context(), c.Param("event_id"),
		req.Content, link(c), currentInstitute(c), currentCase(c), middleware.CurrentUser(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// handleListEvents lists the case journal. A variant_id query narrows to one
// variant's events.
func (s *Server) handleListEvents(c *gin.Context) {
	kase := currentCase(c)

	var (
		evts []*domain.Event
		err  error
	)
	if variantID := c.Query("variant_id"); variantID != "" {
		evts, err = s.deps.Journal.VariantEvents(c.Request.Context(), kase.ID, variantID)
	} else {
		evts, err = s.deps.Journal.CaseEvents(c.Request.Context(), kase.ID)
	}
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": evts})
}
