package core

import (
	"context"
	"fmt"

	"guildcore/pkg/domain"
)

// NewBettingPhaseRule returns an advisory rule that warns when a bet lands in
// a cycle outside its betting phase. Bets still commit; the warning surfaces
// in the transaction result.
func NewBettingPhaseRule() domain.Rule {
	return bettingPhaseRule{}
}

type bettingPhaseRule struct{}

func (bettingPhaseRule) Name() string { return "betting_phase" }

func (bettingPhaseRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityBet || change.Action != domain.ActionCreate {
			continue
		}
		bet, ok := change.After.(domain.Bet)
		if !ok {
			continue
		}
		cycle, ok := view.FindCycle(bet.CycleID)
		if !ok || cycle.Phase == domain.PhaseBetting {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "betting_phase",
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("bet %s placed while cycle %s is in %s phase", bet.ID, cycle.ID, cycle.Phase),
			Entity:   domain.EntityBet,
			EntityID: bet.ID,
		})
	}
	return res, nil
}
