package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/middleware"
	"github.com/scout-genomics/scout/internal/query"
	"github.com/scout-genomics/scout/internal/store"
)

func requestCategory(c *gin.Context) (domain.Category, error) {
	category := domain.Category(c.DefaultQuery("category", string(domain.CategorySNV)))
	if !category.IsValid() {
		return "", fmt.Errorf("unknown variant category %q", category)
	}
	return category, nil
}

// handleListVariants runs a filtered, paginated variant query. The filter is
// read from the query string in the same field format saved filters use.
// Viewing variants activates an inactive case.
func (s *Server) handleListVariants(c *gin.Context) {
	category, err := requestCategory(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive number"})
			return
		}
	}

	spec, flashes := query.ParseForm(c.Request.URL.Query())

	institute, kase, user := currentInstitute(c), currentCase(c), middleware.CurrentUser(c)
	result, err := s.deps.Queries.Run(c.Request.Context(), kase, category, spec, page)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	if _, err := s.deps.Journal.AutoActivate(c.Request.Context(), institute, kase, user, link(c)); err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants":      result.Variants,
		"more_variants": result.MoreVariants,
		"flashes":       append(flashes, result.Flashes...),
		"page":          page,
	})
}

// handleExportVariants streams the current filter's variants as CSV.
func (s *Server) handleExportVariants(c *gin.Context) {
	category, err := requestCategory(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spec, _ := query.ParseForm(c.Request.URL.Query())
	kase := currentCase(c)

	// Page 0 selects export mode, capped instead of paginated.
	result, err := s.deps.Queries.Run(c.Request.Context(), kase, category, spec, 0)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s.%s.csv", kase.DisplayName, category))
	if err := query.ExportCSV(c.Writer, kase, result.Variants); err != nil {
		s.log.WithError(err).Error("CSV export failed")
	}
}

// handleEvaluatedVariants lists every variant of the case carrying a manual
// assessment, the set the case report is built from.
func (s *Server) handleEvaluatedVariants(c *gin.Context) {
	ctx := c.Request.Context()
	kase := currentCase(c)

	selection := store.VariantSelection{
		CaseID:            kase.ID,
		OnlyAssessed:      true,
		SortRankScoreDesc: true,
	}
	variants, err := s.deps.Store.Variants().Select(ctx, selection)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	omics, err := s.deps.Store.OmicsVariants().Select(ctx, selection)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"variants": append(variants, omics...)})
}

// handleClinicalPreset returns the institute's default clinical filter.
func (s *Server) handleClinicalPreset(c *gin.Context) {
	category, err := requestCategory(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, query.ClinicalPreset(currentInstitute(c), currentCase(c), category))
}

// handleRankModel resolves the rank model definition the case was scored
// with, so score components can be shown against their configured ranges.
func (s *Server) handleRankModel(c *gin.Context) {
	category, err := requestCategory(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kase := currentCase(c)
	version := kase.RankModelVersion
	if category == domain.CategorySV || category == domain.CategoryCancerSV {
		version = kase.SVRankModelVersion
	}

	model, err := s.deps.RankModels.Model(c.Request.Context(), category, version)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if model == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no rank model recorded for case " + kase.ID})
		return
	}
	c.JSON(http.StatusOK, model)
}

// handleGetVariant returns one variant with its annotation view, matching
// assessments, causatives from other cases, observation counts and events.
func (s *Server) handleGetVariant(c *gin.Context) {
	ctx := c.Request.Context()
	institute, kase, user := currentInstitute(c), currentCase(c), middleware.CurrentUser(c)
	variant := currentVariant(c)

	view, err := s.deps.Annotator.DecorateVariant(ctx, institute, kase, variant)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	matching, group, err := s.deps.Evidence.MatchingAssessments(ctx, user, kase, variant)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	siblings, err := s.deps.Evidence.ClinicalSiblingAssessments(ctx, kase, variant)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	causatives, err := s.deps.Evidence.OtherCausatives(ctx, user, kase, variant)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	managed, err := s.deps.Evidence.ManagedVariantMatch(ctx, variant, kase.GenomeBuild)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	evts, err := s.deps.Journal.VariantEvents(ctx, kase.ID, variant.VariantID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	if _, err := s.deps.Journal.AutoActivate(ctx, institute, kase, user, link(c)); err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variant":              view,
		"matching_assessments": matching,
		"group_assessments":    group,
		"clinical_assessments": siblings,
		"other_causatives":     causatives,
		"managed_variant":      managed,
		"observations":         s.deps.Evidence.Observations(ctx, user, institute, variant),
		"events":               evts,
	})
}

func (s *Server) handlePinVariant(c *gin.Context) {
	kase, err := s.deps.Journal.PinVariant(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), currentVariant(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, kase)
}

func (s *Server) handleUnpinVariant(c *gin.Context) {
	kase, err := s.deps.Journal.UnpinVariant(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), currentVariant(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, kase)
}

func (s *Server) handleMarkCausative(c *gin.Context) {
	kase, err := s.deps.Journal.MarkCausative(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), currentVariant(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, kase)
}

func (s *Server) handleUnmarkCausative(c *gin.Context) {
	kase, err := s.deps.Journal.UnmarkCausative(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), currentVariant(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, kase)
}

func (s *Server) handleManualRank(c *gin.Context) {
	var req struct {
		Rank *int `json:"rank"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	variant, err := s.deps.Journal.UpdateManualRank(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), currentVariant(c), req.Rank)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, variant)
}

func (s *Server) handleCancerTier(c *gin.Context) {
	var req struct {
		Tier string `json:"tier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	variant, err := s.deps.Journal.UpdateCancerTier(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), currentVariant(c), req.Tier)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, variant)
}

func (s *Server) handleDismissVariant(c *gin.Context) {
	var req struct {
		Reasons []int `json:"reasons" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	variant, err := s.deps.Journal.DismissVariant(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), currentVariant(c), req.Reasons)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, variant)
}

func (s *Server) handleResetDismiss(c *gin.Context) {
	variant, err := s.deps.Journal.ResetDismissVariant(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), currentVariant(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, variant)
}

func (s *Server) handleResetAllDismissed(c *gin.Context) {
	reset, err := s.deps.Journal.ResetAllDismissedVariants(c.Request.Context(),
		currentInstitute(c), currentCase(c), middleware.CurrentUser(c), link(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": reset})
}

func (s *Server) handleMosaicTags(c *gin.Context) {
	var req struct {
		Tags []int `json:"tags" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	variant, err := s.deps.Journal.UpdateMosaicTags(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), currentVariant(c), req.Tags)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, variant)
}

func (s *Server) handleOrderSanger(c *gin.Context) {
	variant, err := s.deps.Journal.OrderSanger(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), currentVariant(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, variant)
}

func (s *Server) handleCancelSanger(c *gin.Context) {
	variant, err := s.deps.Journal.CancelSanger(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), currentVariant(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, variant)
}

func (s *Server) handleValidate(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	variant, err := s.deps.Journal.Validate(c.Request.Context(), currentInstitute(c),
		currentCase(c), middleware.CurrentUser(c), link(c), currentVariant(c), req.Status)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, variant)
}
