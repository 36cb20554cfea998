package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scout-genomics/scout/internal/annotate"
	"github.com/scout-genomics/scout/internal/classify"
	"github.com/scout-genomics/scout/internal/config"
	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/events"
	"github.com/scout-genomics/scout/internal/evidence"
	"github.com/scout-genomics/scout/internal/query"
	"github.com/scout-genomics/scout/internal/reference"
	"github.com/scout-genomics/scout/internal/store"
)

const testUserEmail = "clark.kent@scilife.se"

// h is shorthand for JSON request payloads.
type h = map[string]any

func newTestServer(t *testing.T) (*Server, *store.MemStore) {
	t.Helper()
	ctx := context.Background()

	st := store.NewMemStore()
	require.NoError(t, st.Users().UpsertUser(ctx, &domain.User{
		Email:      testUserEmail,
		Name:       "Clark Kent",
		Institutes: []string{"cust000"},
	}))
	require.NoError(t, st.Institutes().UpsertInstitute(ctx, &domain.Institute{
		ID:          "cust000",
		DisplayName: "Clinical Genomics",
	}))
	require.NoError(t, st.Cases().InsertCase(ctx, &domain.Case{
		ID:          "internal_id_1",
		DisplayName: "643594",
		Owner:       "cust000",
		GenomeBuild: "37",
		Status:      domain.StatusInactive,
	}))
	require.NoError(t, st.Variants().InsertVariant(ctx, &domain.Variant{
		ID:          "doc-1",
		VariantID:   "var-1",
		SimpleID:    "1_880086_T_C",
		DisplayName: "1_880086_T_C_clinical",
		CaseID:      "internal_id_1",
		Category:    domain.CategorySNV,
		VariantType: domain.TypeClinical,
		Chromosome:  "1",
		Position:    880086,
		Reference:   "T",
		Alternative: "C",
		RankScore:   19,
	}))
	require.NoError(t, st.Variants().InsertVariant(ctx, &domain.Variant{
		ID:          "doc-2",
		VariantID:   "var-2",
		SimpleID:    "2_34523_G_A",
		DisplayName: "2_34523_G_A_clinical",
		CaseID:      "internal_id_1",
		Category:    domain.CategorySNV,
		VariantType: domain.TypeClinical,
		Chromosome:  "2",
		Position:    34523,
		Reference:   "G",
		Alternative: "A",
		RankScore:   27,
	}))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	resolver, err := reference.NewResolver(st, 128, logger)
	require.NoError(t, err)
	rankModels, err := annotate.NewRankModelClient(annotate.RankModelConfig{}, logger)
	require.NoError(t, err)
	journal := events.NewJournal(st, logger)

	server := NewServer(config.ServerSettings{Host: "127.0.0.1", Port: 8080}, Dependencies{
		Store:      st,
		Resolver:   resolver,
		Journal:    journal,
		Engine:     classify.NewEngine(st, journal, logger),
		Annotator:  annotate.New(st, resolver, logger),
		RankModels: rankModels,
		Queries:    query.NewService(st, resolver, logger),
		Filters:    query.NewFilters(st, journal, logger),
		Evidence:   evidence.New(st, nil, logger),
		Logger:     logger,
	}, false)
	return server, st
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-User-Email", testUserEmail)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestAuthenticationRequired(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/institutes", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/institutes", nil)
	req.Header.Set("X-User-Email", "nobody@example.com")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInstituteMembershipEnforced(t *testing.T) {
	server, st := newTestServer(t)
	require.NoError(t, st.Institutes().UpsertInstitute(context.Background(),
		&domain.Institute{ID: "cust999", DisplayName: "Other"}))

	rec := doRequest(t, server.Handler(), http.MethodGet, "/api/v1/institutes/cust999/cases", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodGet, "/api/v1/institutes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Institutes []domain.Institute `json:"institutes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Institutes, 1)
	assert.Equal(t, "cust000", listing.Institutes[0].ID)
}

func TestListVariantsActivatesCase(t *testing.T) {
	server, st := newTestServer(t)

	rec := doRequest(t, server.Handler(), http.MethodGet,
		"/api/v1/institutes/cust000/cases/internal_id_1/variants?category=snv&page=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Variants     []domain.Variant `json:"variants"`
		MoreVariants bool             `json:"more_variants"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Variants, 2)
	assert.Equal(t, "doc-2", body.Variants[0].ID)
	assert.False(t, body.MoreVariants)

	kase, err := st.Cases().Case(context.Background(), "internal_id_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, kase.Status)
}

func TestListVariantsRejectsBadCategory(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(t, server.Handler(), http.MethodGet,
		"/api/v1/institutes/cust000/cases/internal_id_1/variants?category=nonsense", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetVariantDetail(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(t, server.Handler(), http.MethodGet,
		"/api/v1/institutes/cust000/cases/internal_id_1/variants/doc-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Contains(t, body, "variant")
	assert.Contains(t, body, "other_causatives")
	assert.Contains(t, body, "events")

	rec = doRequest(t, server.Handler(), http.MethodGet,
		"/api/v1/institutes/cust000/cases/internal_id_1/variants/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVariantAssessments(t *testing.T) {
	server, st := newTestServer(t)
	base := "/api/v1/institutes/cust000/cases/internal_id_1/variants/doc-1"

	rec := doRequest(t, server.Handler(), http.MethodPut, base+"/manual-rank",
		h{"rank": 8})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodPut, base+"/dismiss",
		h{"reasons": []int{2, 3}})
	require.Equal(t, http.StatusOK, rec.Code)

	variant, err := st.Variants().VariantByDocID(context.Background(), "doc-1")
	require.NoError(t, err)
	require.NotNil(t, variant.ManualRank)
	assert.Equal(t, 8, *variant.ManualRank)
	assert.Equal(t, []int{2, 3}, variant.DismissVariant)

	rec = doRequest(t, server.Handler(), http.MethodDelete, base+"/dismiss", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodPut, base+"/manual-rank",
		h{"rank": 99})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluatedVariantsListing(t *testing.T) {
	server, _ := newTestServer(t)
	base := "/api/v1/institutes/cust000/cases/internal_id_1"

	rec := doRequest(t, server.Handler(), http.MethodPut,
		base+"/variants/doc-1/manual-rank", h{"rank": 8})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodGet, base+"/variants/evaluated", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Variants []domain.Variant `json:"variants"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Variants, 1)
	assert.Equal(t, "doc-1", body.Variants[0].ID)
}

func TestEvaluationRoundTrip(t *testing.T) {
	server, _ := newTestServer(t)
	base := "/api/v1/institutes/cust000/cases/internal_id_1/variants/doc-1/evaluations"

	rec := doRequest(t, server.Handler(), http.MethodPost, base, h{
		"scheme": "acmg",
		"criteria": []h{
			{"term": "PVS1"},
			{"term": "PM2", "comment": "absent from gnomAD"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Evaluation domain.Evaluation `json:"evaluation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, classify.LikelyPathogenic, created.Evaluation.Classification)

	rec = doRequest(t, server.Handler(), http.MethodGet, base+"?scheme=acmg", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Evaluations []domain.Evaluation `json:"evaluations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Evaluations, 1)

	rec = doRequest(t, server.Handler(), http.MethodDelete,
		base+"/"+listing.Evaluations[0].ID+"?scheme=acmg", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodPost, base, h{"scheme": "vicc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCaseActions(t *testing.T) {
	server, _ := newTestServer(t)
	base := "/api/v1/institutes/cust000/cases/internal_id_1"

	rec := doRequest(t, server.Handler(), http.MethodPut, base+"/status",
		h{"status": "solved"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodPut, base+"/status",
		h{"status": "nonsense"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodPost, base+"/assign", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodPost, base+"/comments",
		h{"content": "Looks like the causative variant."})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodGet, base+"/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Events []domain.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.NotEmpty(t, listing.Events)
}

func TestPinAndCausative(t *testing.T) {
	server, st := newTestServer(t)
	base := "/api/v1/institutes/cust000/cases/internal_id_1/variants/doc-2"

	rec := doRequest(t, server.Handler(), http.MethodPost, base+"/pin", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodPost, base+"/causative", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	kase, err := st.Cases().Case(context.Background(), "internal_id_1")
	require.NoError(t, err)
	assert.Contains(t, kase.Suspects, "doc-2")
	assert.Contains(t, kase.Causatives, "doc-2")

	// Pinning twice conflicts.
	rec = doRequest(t, server.Handler(), http.MethodPost, base+"/pin", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFilterLifecycle(t *testing.T) {
	server, _ := newTestServer(t)
	caseBase := "/api/v1/institutes/cust000/cases/internal_id_1"

	rec := doRequest(t, server.Handler(), http.MethodPost, caseBase+"/filters", h{
		"display_name": "rare coding",
		"category":     "snv",
		"filters": map[string][]string{
			"gnomad_frequency": {"0.01"},
			"variant_type":     {"clinical"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var filter domain.Filter
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filter))
	require.NotEmpty(t, filter.ID)

	instBase := "/api/v1/institutes/cust000/filters/" + filter.ID

	rec = doRequest(t, server.Handler(), http.MethodPost, instBase+"/lock", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Locked filters cannot be deleted until unlocked by the lock holder.
	rec = doRequest(t, server.Handler(), http.MethodPost, caseBase+"/filters/"+filter.ID+"/audit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodDelete, instBase+"/lock", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodDelete, instBase, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodGet, instBase, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportVariantsCSV(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(t, server.Handler(), http.MethodGet,
		"/api/v1/institutes/cust000/cases/internal_id_1/variants/export?category=snv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "1:880086")
}
