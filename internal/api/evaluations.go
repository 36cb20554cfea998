package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scout-genomics/scout/internal/classify"
	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/middleware"
)

// handleSubmitEvaluation records a germline (acmg) or oncogenicity (ccv)
// evaluation. The classification is derived from the criteria unless the
// request pins one explicitly; an explicit empty string clears it.
func (s *Server) handleSubmitEvaluation(c *gin.Context) {
	var req struct {
		Scheme         string                       `json:"scheme" binding:"required"`
		Criteria       []domain.EvaluationCriterion `json:"criteria"`
		Classification *string                      `json:"classification"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evaluation, err := s.deps.Engine.SubmitEvaluation(c.Request.Context(), classify.Submission{
		Scheme:         req.Scheme,
		Variant:        currentVariant(c),
		Institute:      currentInstitute(c),
		Case:           currentCase(c),
		User:           middleware.CurrentUser(c),
		Link:           link(c),
		Criteria:       req.Criteria,
		Classification: req.Classification,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"evaluation": evaluation})
}

func (s *Server) handleListEvaluations(c *gin.Context) {
	scheme := c.DefaultQuery("scheme", classify.SchemeACMG)
	if scheme != classify.SchemeACMG && scheme != classify.SchemeCCV {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown classification scheme " + scheme})
		return
	}

	kase, variant := currentCase(c), currentVariant(c)
	evaluations, err := s.deps.Engine.Evaluations(c.Request.Context(), scheme, kase.ID, variant.VariantID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"evaluations": evaluations})
}

func (s *Server) handleDeleteEvaluation(c *gin.Context) {
	scheme := c.DefaultQuery("scheme", classify.SchemeACMG)
	if scheme != classify.SchemeACMG && scheme != classify.SchemeCCV {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown classification scheme " + scheme})
		return
	}

	err := s.deps.Engine.DeleteEvaluation(c.Request.Context(), scheme, c.Param("evaluation_id"),
		currentInstitute(c), currentCase(c), middleware.CurrentUser(c), link(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
