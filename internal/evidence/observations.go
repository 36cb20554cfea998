package evidence

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/pkg/loqus"
)

// Cases sampled per observation instance.
const maxObservedCases = 10

// ObservedCase is one case the observation service saw the variant in, kept
// only when the user may access it.
type ObservedCase struct {
	CaseID      string `json:"case_id"`
	DisplayName string `json:"display_name,omitempty"`
}

// ObservationResult is one instance's answer, display ready. Total is the
// instance's case count or "N/A" when the instance failed.
type ObservationResult struct {
	InstanceID   string         `json:"instance_id"`
	Observations int            `json:"observations"`
	Homozygotes  int            `json:"homozygote"`
	Hemizygotes  int            `json:"hemizygote"`
	Total        string         `json:"total"`
	Cases        []ObservedCase `json:"cases,omitempty"`
	Warning      string         `json:"warning,omitempty"`
}

// Observations queries every observation instance configured on the
// institute. Instance failures degrade to total "N/A" with a warning; the
// other instances still answer.
func (a *Aggregator) Observations(ctx context.Context, user *domain.User,
	institute *domain.Institute, variant *domain.Variant) []ObservationResult {
	instanceIDs := institute.LoqusIDs
	if len(instanceIDs) == 0 {
		instanceIDs = []string{"default"}
	}

	var results []ObservationResult
	for _, instanceID := range instanceIDs {
		results = append(results, a.queryInstance(ctx, user, instanceID, variant))
	}
	return results
}

func (a *Aggregator) queryInstance(ctx context.Context, user *domain.User,
	instanceID string, variant *domain.Variant) ObservationResult {
	result := ObservationResult{InstanceID: instanceID, Total: TotalUnavailable}

	if a.registry == nil {
		result.Warning = "No observation service is configured"
		return result
	}
	client, ok := a.registry.Client(instanceID)
	if !ok {
		a.logger.WithFields(logrus.Fields{
			"instance": instanceID,
		}).Warning("Configured observation instance does not resolve")
		result.Warning = "Observation instance " + instanceID + " is not available"
		return result
	}

	obs, err := client.Variant(ctx, variant)
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"instance": instanceID,
			"error":    err.Error(),
		}).Warning("Observation lookup failed")
		result.Warning = "Observation lookup failed for instance " + instanceID
		return result
	}
	result.Observations = obs.Observations
	result.Homozygotes = obs.Homozygotes
	result.Hemizygotes = obs.Hemizygotes

	total, err := client.CaseCount(ctx, variant.Category)
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"instance": instanceID,
			"error":    err.Error(),
		}).Warning("Observation case count failed")
		result.Warning = "Case count failed for instance " + instanceID
		return result
	}
	result.Total = strconv.Itoa(total)
	result.Cases = a.accessibleCases(ctx, user, obs.Cases)
	return result
}

// accessibleCases maps observed case ids onto cases the user may see,
// capped at maxObservedCases. Cases no longer present or outside the user's
// institutes are skipped silently; only the sample shrinks, never the
// totals.
func (a *Aggregator) accessibleCases(ctx context.Context, user *domain.User, caseIDs []string) []ObservedCase {
	var out []ObservedCase
	for _, caseID := range caseIDs {
		if len(out) >= maxObservedCases {
			break
		}
		kase, err := a.store.Cases().Case(ctx, caseID)
		if err != nil || kase == nil {
			continue
		}
		accessible := false
		for _, institute := range user.Institutes {
			if kase.HasCollaborator(institute) {
				accessible = true
				break
			}
		}
		if !accessible {
			continue
		}
		out = append(out, ObservedCase{CaseID: kase.ID, DisplayName: kase.DisplayName})
	}
	return out
}

// TotalUnavailable mirrors the loqus constant for view code importing only
// this package.
const TotalUnavailable = loqus.TotalUnavailable
