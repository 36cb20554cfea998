// Package loqus binds the external allele-observation service. Instances are
// addressed by logical id and reachable either over REST or by executing the
// service CLI; both bindings answer the same Client interface.
package loqus

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
)

// TotalUnavailable is reported as the case total when an instance fails.
const TotalUnavailable = "N/A"

// Observations is one instance's answer for a variant. A variant the
// instance has never seen yields the zero value.
type Observations struct {
	Observations int      `json:"observations"`
	Homozygotes  int      `json:"homozygote"`
	Hemizygotes  int      `json:"hemizygote"`
	Cases        []string `json:"families,omitempty"`
}

// Client is one configured observation instance.
type Client interface {
	// Variant fetches the observations of a variant. An unknown variant
	// returns an empty Observations, not an error.
	Variant(ctx context.Context, v *domain.Variant) (*Observations, error)
	// CaseCount returns the instance's total number of loaded cases for
	// the variant category.
	CaseCount(ctx context.Context, category domain.Category) (int, error)
	// InstanceID is the logical id the instance is configured under.
	InstanceID() string
}

// InstanceConfig configures one observation instance. A non-empty URL
// selects the REST binding, otherwise Binary/Args select the CLI binding.
type InstanceConfig struct {
	ID      string        `json:"id" mapstructure:"id"`
	URL     string        `json:"api_url,omitempty" mapstructure:"api_url"`
	Binary  string        `json:"binary_path,omitempty" mapstructure:"binary_path"`
	Args    []string      `json:"args,omitempty" mapstructure:"args"`
	Version string        `json:"version,omitempty" mapstructure:"version"`
	Timeout time.Duration `json:"timeout,omitempty" mapstructure:"timeout"`
}

// Registry resolves logical instance ids to clients.
type Registry struct {
	clients map[string]Client
	logger  *logrus.Logger
}

// NewRegistry builds clients for every configured instance. A redis cache is
// shared across REST instances when provided.
func NewRegistry(configs []InstanceConfig, cache *Cache, logger *logrus.Logger) (*Registry, error) {
	registry := &Registry{clients: make(map[string]Client, len(configs)), logger: logger}
	for _, config := range configs {
		if config.ID == "" {
			config.ID = "default"
		}
		var client Client
		switch {
		case config.URL != "":
			client = NewRESTClient(config, cache, logger)
		case config.Binary != "":
			client = NewCLIClient(config, logger)
		default:
			return nil, fmt.Errorf("observation instance %s has neither URL nor binary", config.ID)
		}
		registry.clients[config.ID] = client
	}
	return registry, nil
}

// Register adds or replaces an instance client.
func (r *Registry) Register(client Client) {
	r.clients[client.InstanceID()] = client
}

// Client resolves one instance. The second return is false for ids that are
// configured nowhere, e.g. stale institute settings.
func (r *Registry) Client(id string) (Client, bool) {
	if id == "" {
		id = "default"
	}
	client, ok := r.clients[id]
	return client, ok
}

// variantQueryID is the id the service indexes point variants under.
func variantQueryID(v *domain.Variant) string {
	return strings.Join([]string{
		v.Chromosome, strconv.Itoa(v.Position), v.Reference, v.Alternative,
	}, "_")
}

// svQuery captures the coordinate query of a structural variant. Insertion
// lengths are folded into the end coordinate.
type svQuery struct {
	Chrom    string
	EndChrom string
	Pos      int
	End      int
	SVType   string
}

func buildSVQuery(v *domain.Variant) svQuery {
	endChrom := v.EndChrom
	if endChrom == "" {
		endChrom = v.Chromosome
	}
	return svQuery{
		Chrom:    v.Chromosome,
		EndChrom: endChrom,
		Pos:      v.Position,
		End:      v.EndPosition(),
		SVType:   strings.ToUpper(v.SubCategory),
	}
}

func isSV(v *domain.Variant) bool { return isSVCategory(v.Category) }

func isSVCategory(category domain.Category) bool {
	return category == domain.CategorySV || category == domain.CategoryCancerSV
}
