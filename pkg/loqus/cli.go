package loqus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
)

// CLIClient shells out to the observation service command line tool.
type CLIClient struct {
	id      string
	binary  string
	args    []string
	timeout time.Duration
	logger  *logrus.Logger

	// run is swappable for tests.
	run func(ctx context.Context, binary string, args []string) ([]byte, error)
}

// NewCLIClient creates the CLI binding for one instance. Configured args,
// typically a config file flag, prefix every invocation.
func NewCLIClient(config InstanceConfig, logger *logrus.Logger) *CLIClient {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &CLIClient{
		id:      config.ID,
		binary:  config.Binary,
		args:    config.Args,
		timeout: timeout,
		logger:  logger,
		run:     runCommand,
	}
}

func runCommand(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("command %s failed: %w", binary, err)
	}
	return out.Bytes(), nil
}

// InstanceID implements Client.
func (c *CLIClient) InstanceID() string { return c.id }

// Variant implements Client.
func (c *CLIClient) Variant(ctx context.Context, v *domain.Variant) (*Observations, error) {
	args := append([]string{}, c.args...)
	args = append(args, "variants", "--to-json")
	if isSV(v) {
		query := buildSVQuery(v)
		args = append(args,
			"--chr", query.Chrom,
			"--end-chromosome", query.EndChrom,
			"--pos", strconv.Itoa(query.Pos),
			"--end", strconv.Itoa(query.End),
			"--sv-type", query.SVType,
		)
	} else {
		args = append(args, "--variant-id", variantQueryID(v))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	out, err := c.run(ctx, c.binary, args)
	if err != nil {
		return nil, err
	}
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		// The tool prints nothing for variants it has never seen.
		return &Observations{}, nil
	}
	obs := &Observations{}
	if err := json.Unmarshal(out, obs); err != nil {
		return nil, fmt.Errorf("failed to decode observations: %w", err)
	}
	return obs, nil
}

// CaseCount implements Client. The tool reports one total regardless of
// category.
func (c *CLIClient) CaseCount(ctx context.Context, _ domain.Category) (int, error) {
	args := append([]string{}, c.args...)
	args = append(args, "cases", "--count")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	out, err := c.run(ctx, c.binary, args)
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse case count %q: %w", strings.TrimSpace(string(out)), err)
	}
	return count, nil
}
