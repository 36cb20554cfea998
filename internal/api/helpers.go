package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/middleware"
)

const (
	instituteContextKey = "institute"
	caseContextKey      = "case"
	variantContextKey   = "variant"
)

// requireInstitute loads the institute from the path and checks membership.
// Admins see every institute.
func (s *Server) requireInstitute() gin.HandlerFunc {
	return func(c *gin.Context) {
		instituteID := c.Param("institute_id")
		user := middleware.CurrentUser(c)

		if !user.IsAdmin() && !user.MemberOf(instituteID) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				gin.H{"error": "not a member of institute " + instituteID})
			return
		}

		institute, err := s.deps.Store.Institutes().Institute(c.Request.Context(), instituteID)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		if institute == nil {
			c.AbortWithStatusJSON(http.StatusNotFound,
				gin.H{"error": "institute " + instituteID + " not found"})
			return
		}

		c.Set(instituteContextKey, institute)
		c.Next()
	}
}

// requireCase loads the case from the path. The institute must own the case
// or be listed as a collaborator.
func (s *Server) requireCase() gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID := c.Param("case_id")
		institute := currentInstitute(c)

		kase, err := s.deps.Store.Cases().Case(c.Request.Context(), caseID)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		if kase == nil || !kase.HasCollaborator(institute.ID) {
			c.AbortWithStatusJSON(http.StatusNotFound,
				gin.H{"error": "case " + caseID + " not found"})
			return
		}

		c.Set(caseContextKey, kase)
		c.Next()
	}
}

// requireVariant loads the variant by document id. The DNA collection is
// checked first, then the omics one.
func (s *Server) requireVariant() gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID := c.Param("variant_id")
		kase := currentCase(c)

		variant, err := s.deps.Store.Variants().VariantByDocID(c.Request.Context(), variantID)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		if variant == nil {
			variant, err = s.deps.Store.OmicsVariants().VariantByDocID(c.Request.Context(), variantID)
			if err != nil {
				s.abortWithError(c, err)
				return
			}
		}
		if variant == nil || variant.CaseID != kase.ID {
			c.AbortWithStatusJSON(http.StatusNotFound,
				gin.H{"error": "variant " + variantID + " not found"})
			return
		}

		c.Set(variantContextKey, variant)
		c.Next()
	}
}

func currentInstitute(c *gin.Context) *domain.Institute {
	return c.MustGet(instituteContextKey).(*domain.Institute)
}

func currentCase(c *gin.Context) *domain.Case {
	return c.MustGet(caseContextKey).(*domain.Case)
}

func currentVariant(c *gin.Context) *domain.Variant {
	return c.MustGet(variantContextKey).(*domain.Variant)
}

// link is the journaled URL for events created by this request.
func link(c *gin.Context) string {
	return c.Request.URL.Path
}

// abortWithError maps domain errors onto HTTP statuses.
func (s *Server) abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrLocked):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
