package loqus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/scout-genomics/scout/internal/domain"
)

const defaultTimeout = 10 * time.Second

// RESTClient talks to an observation instance over its REST API, behind a
// circuit breaker and a rate limiter, with an optional shared redis cache.
type RESTClient struct {
	id      string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	cache   *Cache
	logger  *logrus.Logger
}

// NewRESTClient creates the REST binding for one instance.
func NewRESTClient(config InstanceConfig, cache *Cache, logger *logrus.Logger) *RESTClient {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "loqus-" + config.ID,
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warning("Observation service circuit breaker state changed")
		},
	})
	return &RESTClient{
		id:      config.ID,
		baseURL: config.URL,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(20), 40),
		cache:   cache,
		logger:  logger,
	}
}

// InstanceID implements Client.
func (c *RESTClient) InstanceID() string { return c.id }

// Variant implements Client.
func (c *RESTClient) Variant(ctx context.Context, v *domain.Variant) (*Observations, error) {
	var path string
	if isSV(v) {
		query := buildSVQuery(v)
		values := url.Values{}
		values.Set("chrom", query.Chrom)
		values.Set("end_chrom", query.EndChrom)
		values.Set("pos", strconv.Itoa(query.Pos))
		values.Set("end", strconv.Itoa(query.End))
		values.Set("type", query.SVType)
		path = "/svs/?" + values.Encode()
	} else {
		path = "/variants/" + url.PathEscape(variantQueryID(v))
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, c.id, path); ok {
			return cached, nil
		}
	}

	body, status, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	obs := &Observations{}
	if status == http.StatusOK {
		if err := json.Unmarshal(body, obs); err != nil {
			return nil, fmt.Errorf("failed to decode observations: %w", err)
		}
	}
	// 404 means never observed; report zero counts.

	if c.cache != nil {
		c.cache.Set(ctx, c.id, path, obs)
	}
	return obs, nil
}

// CaseCount implements Client. The service root reports separate totals for
// point and structural variants.
func (c *RESTClient) CaseCount(ctx context.Context, category domain.Category) (int, error) {
	body, status, err := c.get(ctx, "/")
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("case count request returned status %d", status)
	}
	var payload struct {
		NrCasesSNVs int `json:"nr_cases_snvs"`
		NrCasesSVs  int `json:"nr_cases_svs"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("failed to decode case count: %w", err)
	}
	if isSVCategory(category) {
		return payload.NrCasesSVs, nil
	}
	return payload.NrCasesSNVs, nil
}

func (c *RESTClient) get(ctx context.Context, path string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limiter interrupted: %w", err)
	}
	type response struct {
		body   []byte
		status int
	}
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("observation request failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("observation service returned status %d", resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		return response{body: body, status: resp.StatusCode}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	resp := result.(response)
	return resp.body, resp.status, nil
}
