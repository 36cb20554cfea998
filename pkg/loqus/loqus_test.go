package loqus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scout-genomics/scout/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func cliClient(t *testing.T, output string, captured *[]string) *CLIClient {
	t.Helper()
	client := NewCLIClient(InstanceConfig{
		ID:     "default",
		Binary: "loqusdb",
		Args:   []string{"--config", "/etc/loqus.yaml"},
	}, testLogger())
	client.run = func(_ context.Context, _ string, args []string) ([]byte, error) {
		*captured = args
		return []byte(output), nil
	}
	return client
}

func TestCLIVariantQuery(t *testing.T) {
	var args []string
	client := cliClient(t, `{"observations": 3, "homozygote": 1, "families": ["recessive-1"]}`, &args)

	obs, err := client.Variant(context.Background(), &domain.Variant{
		Category:    domain.CategorySNV,
		Chromosome:  "1",
		Position:    880086,
		Reference:   "T",
		Alternative: "C",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, obs.Observations)
	assert.Equal(t, 1, obs.Homozygotes)
	assert.Equal(t, []string{"recessive-1"}, obs.Cases)

	assert.Equal(t, []string{
		"--config", "/etc/loqus.yaml",
		"variants", "--to-json", "--variant-id", "1_880086_T_C",
	}, args)
}

func TestCLIVariantNeverObserved(t *testing.T) {
	var args []string
	client := cliClient(t, "", &args)

	obs, err := client.Variant(context.Background(), &domain.Variant{
		Category: domain.CategorySNV, Chromosome: "1", Position: 1, Reference: "A", Alternative: "C",
	})
	require.NoError(t, err)
	assert.Equal(t, &Observations{}, obs)
}

func TestCLISVQueryFoldsInsertionLength(t *testing.T) {
	var args []string
	client := cliClient(t, "{}", &args)

	_, err := client.Variant(context.Background(), &domain.Variant{
		Category:    domain.CategorySV,
		SubCategory: "ins",
		Chromosome:  "2",
		Position:    100,
		End:         100,
		Length:      50,
	})
	require.NoError(t, err)
	assert.Contains(t, args, "--sv-type")
	assert.Contains(t, args, "INS")
	assert.Contains(t, args, "--end")
	// The insertion length is folded into the end coordinate.
	assert.Contains(t, args, "150")
}

func TestCLICaseCount(t *testing.T) {
	var args []string
	client := cliClient(t, "342\n", &args)

	count, err := client.CaseCount(context.Background(), domain.CategorySNV)
	require.NoError(t, err)
	assert.Equal(t, 342, count)
	assert.Equal(t, []string{"--config", "/etc/loqus.yaml", "cases", "--count"}, args)
}

func restClient(t *testing.T, server *httptest.Server) *RESTClient {
	t.Helper()
	return NewRESTClient(InstanceConfig{ID: "wgs", URL: server.URL}, nil, testLogger())
}

func TestRESTCaseCountPerCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"nr_cases_snvs": 120, "nr_cases_svs": 80}`))
	}))
	defer server.Close()
	client := restClient(t, server)

	count, err := client.CaseCount(context.Background(), domain.CategorySNV)
	require.NoError(t, err)
	assert.Equal(t, 120, count)

	count, err = client.CaseCount(context.Background(), domain.CategoryCancerSV)
	require.NoError(t, err)
	assert.Equal(t, 80, count)
}

func TestRESTSVQueryParameters(t *testing.T) {
	var params url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/svs") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		params = r.URL.Query()
		w.Write([]byte(`{"observations": 2, "families": ["sv-case-1"]}`))
	}))
	defer server.Close()
	client := restClient(t, server)

	obs, err := client.Variant(context.Background(), &domain.Variant{
		Category:    domain.CategorySV,
		SubCategory: "del",
		Chromosome:  "2",
		EndChrom:    "1",
		Position:    100,
		End:         900,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, obs.Observations)

	assert.Equal(t, "2", params.Get("chrom"))
	assert.Equal(t, "1", params.Get("end_chrom"))
	assert.Equal(t, "100", params.Get("pos"))
	assert.Equal(t, "900", params.Get("end"))
	assert.Equal(t, "DEL", params.Get("type"))
}

func TestRESTVariantNeverObserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	client := restClient(t, server)

	obs, err := client.Variant(context.Background(), &domain.Variant{
		Category: domain.CategorySNV, Chromosome: "1", Position: 1, Reference: "A", Alternative: "C",
	})
	require.NoError(t, err)
	assert.Equal(t, &Observations{}, obs)
}

func TestRegistryResolution(t *testing.T) {
	registry, err := NewRegistry([]InstanceConfig{
		{ID: "", Binary: "loqusdb"},
		{ID: "wgs", URL: "http://loqus.internal:9000"},
	}, nil, testLogger())
	require.NoError(t, err)

	client, ok := registry.Client("")
	require.True(t, ok)
	assert.Equal(t, "default", client.InstanceID())

	client, ok = registry.Client("wgs")
	require.True(t, ok)
	assert.Equal(t, "wgs", client.InstanceID())

	_, ok = registry.Client("stale-id")
	assert.False(t, ok)
}

func TestRegistryRejectsUnboundInstance(t *testing.T) {
	_, err := NewRegistry([]InstanceConfig{{ID: "broken"}}, nil, testLogger())
	require.Error(t, err)
}
