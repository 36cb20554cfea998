package annotate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
)

// RankModelConfig locates published rank model definitions: the model URL is
// the link prefix, the case's model version and the file extension.
type RankModelConfig struct {
	LinkPrefix    string
	SVLinkPrefix  string
	FileExtension string
}

// RankRange is the score span of one rank model category.
type RankRange struct {
	Min float64
	Max float64
}

// RankModel is a parsed rank model definition.
type RankModel struct {
	Version string
	Ranges  map[string]RankRange
}

// RankModelClient fetches and caches rank model definitions. Fetch failures
// degrade the view rather than failing it; the model file is cosmetic.
type RankModelClient struct {
	config RankModelConfig
	client *http.Client
	cache  *lru.Cache[string, *RankModel]
	logger *logrus.Logger
}

// NewRankModelClient creates a rank model client.
func NewRankModelClient(config RankModelConfig, logger *logrus.Logger) (*RankModelClient, error) {
	cache, err := lru.New[string, *RankModel](32)
	if err != nil {
		return nil, fmt.Errorf("failed to create rank model cache: %w", err)
	}
	return &RankModelClient{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  cache,
		logger: logger,
	}, nil
}

// Model fetches the rank model for a case category, returning nil when no
// model can be resolved.
func (c *RankModelClient) Model(ctx context.Context, category domain.Category, version string) (*RankModel, error) {
	if version == "" {
		return nil, nil
	}
	prefix := c.config.LinkPrefix
	if category == domain.CategorySV || category == domain.CategoryCancerSV {
		prefix = c.config.SVLinkPrefix
	}
	if prefix == "" {
		return nil, nil
	}
	url := prefix + version + c.config.FileExtension
	if model, ok := c.cache.Get(url); ok {
		return model, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rank model request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"url":   url,
			"error": err.Error(),
		}).Warning("Could not fetch rank model definition")
		return nil, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"url":    url,
			"status": resp.StatusCode,
		}).Warning("Rank model definition not available")
		return nil, nil
	}

	model := &RankModel{Version: version, Ranges: parseRankModel(resp.Body)}
	c.cache.Add(url, model)
	return model, nil
}

// AnnotateScores fills the min/max range of each rank score component from
// the model. Components the model does not know stay untouched.
func (m *RankModel) AnnotateScores(variant *domain.Variant) {
	if m == nil {
		return
	}
	for i := range variant.RankScoreResults {
		result := &variant.RankScoreResults[i]
		if span, ok := m.Ranges[result.Category]; ok {
			minVal, maxVal := span.Min, span.Max
			result.Min = &minVal
			result.Max = &maxVal
		}
	}
}

// parseRankModel reads an ini-style model definition. Sections declare
// scoring rules; each carries a category and a score span, and the spans of
// one category aggregate to its overall min/max.
func parseRankModel(r io.Reader) map[string]RankRange {
	ranges := make(map[string]RankRange)
	var category string
	var sectionMin, sectionMax *float64

	flush := func() {
		if category == "" || sectionMin == nil || sectionMax == nil {
			return
		}
		span, ok := ranges[category]
		if !ok {
			ranges[category] = RankRange{Min: *sectionMin, Max: *sectionMax}
		} else {
			span.Min += *sectionMin
			span.Max += *sectionMax
			ranges[category] = span
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";"):
			continue
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			flush()
			category, sectionMin, sectionMax = "", nil, nil
		default:
			key, value, found := strings.Cut(line, "=")
			if !found {
				continue
			}
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			switch key {
			case "category":
				category = value
			case "lower", "min":
				if f, err := strconv.ParseFloat(value, 64); err == nil {
					sectionMin = &f
				}
			case "upper", "max":
				if f, err := strconv.ParseFloat(value, 64); err == nil {
					sectionMax = &f
				}
			}
		}
	}
	flush()
	return ranges
}
