package core

import (
	"context"
	"fmt"
	"sort"

	"guildcore/pkg/domain"
)

// NewScopeRankRule returns the in-transaction rule enforcing that each
// pitch's prioritization ranks are unique and contiguous from the origin.
func NewScopeRankRule() domain.Rule {
	return scopeRankRule{}
}

type scopeRankRule struct{}

func (scopeRankRule) Name() string { return "scope_rank_contiguity" }

func (scopeRankRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	byPitch := make(map[string][]int)
	for _, pos := range view.ListScopePositions() {
		byPitch[pos.PitchID] = append(byPitch[pos.PitchID], pos.Rank)
	}

	res := domain.Result{}
	for pitchID, ranks := range byPitch {
		sort.Ints(ranks)
		for i, rank := range ranks {
			if rank != domain.ScopeRankOrigin+i {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "scope_rank_contiguity",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("pitch %s ranks are not contiguous: %v", pitchID, ranks),
					Entity:   domain.EntityScopePosition,
					EntityID: pitchID,
				})
				break
			}
		}
	}
	return res, nil
}
