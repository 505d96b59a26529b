package core

import (
	"context"
	"fmt"

	"guildcore/pkg/domain"
)

// NewCycleAssignmentRule returns the in-transaction rule enforcing that
// pitches reference live cycles in their own guild, and that bets agree with
// their pitch's cycle assignment.
func NewCycleAssignmentRule() domain.Rule {
	return cycleAssignmentRule{}
}

type cycleAssignmentRule struct{}

func (cycleAssignmentRule) Name() string { return "cycle_assignment" }

func (cycleAssignmentRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, pitch := range view.ListPitches() {
		if pitch.CycleID == nil {
			continue
		}
		cycle, ok := view.FindCycle(*pitch.CycleID)
		if !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "cycle_assignment",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("pitch %s references missing cycle %s", pitch.ID, *pitch.CycleID),
				Entity:   domain.EntityPitch,
				EntityID: pitch.ID,
			})
			continue
		}
		if cycle.GuildID != pitch.GuildID {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "cycle_assignment",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("pitch %s is assigned to cycle %s in another guild", pitch.ID, cycle.ID),
				Entity:   domain.EntityPitch,
				EntityID: pitch.ID,
			})
		}
	}

	for _, bet := range view.ListBets() {
		pitch, ok := view.FindPitch(bet.PitchID)
		if !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "cycle_assignment",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("bet %s references missing pitch %s", bet.ID, bet.PitchID),
				Entity:   domain.EntityBet,
				EntityID: bet.ID,
			})
			continue
		}
		if pitch.CycleID != nil && *pitch.CycleID != bet.CycleID {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "cycle_assignment",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("bet %s cycle %s disagrees with pitch %s cycle %s", bet.ID, bet.CycleID, pitch.ID, *pitch.CycleID),
				Entity:   domain.EntityBet,
				EntityID: bet.ID,
			})
		}
	}
	return res, nil
}
