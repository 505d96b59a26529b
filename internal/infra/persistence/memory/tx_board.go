package memory

import (
	"sort"

	"guildcore/pkg/domain"
)

// TransferPitch reassigns a pitch to another cycle. This is the only path
// that changes a pitch's cycle; UpdatePitch rejects cycle edits.
func (tx *Transaction) TransferPitch(id, cycleID string) (domain.Pitch, error) {
	current, ok := tx.state.pitches[id]
	if !ok {
		return domain.Pitch{}, domain.NotFoundError{Entity: domain.EntityPitch, ID: id}
	}
	cycle, ok := tx.state.cycles[cycleID]
	if !ok {
		return domain.Pitch{}, domain.NotFoundError{Entity: domain.EntityCycle, ID: cycleID}
	}
	if cycle.GuildID != current.GuildID {
		return domain.Pitch{}, domain.ConflictError{Entity: domain.EntityPitch, ID: id, Message: "target cycle belongs to another guild"}
	}
	before := clonePitch(current)
	current.CycleID = &cycleID
	current.UpdatedAt = tx.now
	tx.state.pitches[id] = clonePitch(current)
	tx.recordChange(domain.Change{Entity: domain.EntityPitch, Action: domain.ActionUpdate, Before: before, After: clonePitch(current)})
	return clonePitch(current), nil
}

// InsertScopePosition appends a scope at the tail of its pitch's
// prioritization list.
func (tx *Transaction) InsertScopePosition(pitchID, scopeID string) (domain.ScopePosition, error) {
	if _, ok := tx.state.pitches[pitchID]; !ok {
		return domain.ScopePosition{}, domain.NotFoundError{Entity: domain.EntityPitch, ID: pitchID}
	}
	scope, ok := tx.state.scopes[scopeID]
	if !ok {
		return domain.ScopePosition{}, domain.NotFoundError{Entity: domain.EntityScope, ID: scopeID}
	}
	if scope.PitchID != pitchID {
		return domain.ScopePosition{}, domain.ConflictError{Entity: domain.EntityScopePosition, ID: scopeID, Message: "scope belongs to another pitch"}
	}
	ordered := tx.orderedPositions(pitchID)
	for _, pos := range ordered {
		if pos.ScopeID == scopeID {
			return domain.ScopePosition{}, domain.ConflictError{Entity: domain.EntityScopePosition, ID: pos.ID, Message: "scope already positioned"}
		}
	}
	pos := domain.ScopePosition{
		PitchID: pitchID,
		ScopeID: scopeID,
		Rank:    domain.ScopeRankOrigin + len(ordered),
	}
	pos.ID = tx.store.newID()
	tx.stamp(&pos.Base, pos.ID)
	tx.state.positions[pos.ID] = pos
	tx.recordChange(domain.Change{Entity: domain.EntityScopePosition, Action: domain.ActionCreate, After: pos})
	return pos, nil
}

// MoveScopePosition relocates one scope within its pitch's list and renumbers
// every affected rank so the list stays unique and contiguous. Target ranks
// outside the list are clamped to its bounds.
func (tx *Transaction) MoveScopePosition(pitchID, scopeID string, rank int) ([]domain.ScopePosition, error) {
	if _, ok := tx.state.pitches[pitchID]; !ok {
		return nil, domain.NotFoundError{Entity: domain.EntityPitch, ID: pitchID}
	}
	ordered := tx.orderedPositions(pitchID)
	from := -1
	for i, pos := range ordered {
		if pos.ScopeID == scopeID {
			from = i
			break
		}
	}
	if from == -1 {
		return nil, domain.NotFoundError{Entity: domain.EntityScopePosition, ID: scopeID}
	}

	to := rank - domain.ScopeRankOrigin
	if to < 0 {
		to = 0
	}
	if to > len(ordered)-1 {
		to = len(ordered) - 1
	}

	moved := ordered[from]
	ordered = append(ordered[:from], ordered[from+1:]...)
	ordered = append(ordered[:to], append([]domain.ScopePosition{moved}, ordered[to:]...)...)

	out := make([]domain.ScopePosition, 0, len(ordered))
	for i, pos := range ordered {
		next := domain.ScopeRankOrigin + i
		if pos.Rank != next {
			before := pos
			pos.Rank = next
			pos.UpdatedAt = tx.now
			tx.recordChange(domain.Change{Entity: domain.EntityScopePosition, Action: domain.ActionUpdate, Before: before, After: pos})
		}
		tx.state.positions[pos.ID] = pos
		out = append(out, pos)
	}
	return out, nil
}

// RemoveScopePosition drops a scope from its pitch's list and closes the gap.
func (tx *Transaction) RemoveScopePosition(pitchID, scopeID string) error {
	ordered := tx.orderedPositions(pitchID)
	found := false
	for _, pos := range ordered {
		if pos.ScopeID == scopeID {
			found = true
			delete(tx.state.positions, pos.ID)
			tx.recordChange(domain.Change{Entity: domain.EntityScopePosition, Action: domain.ActionDelete, Before: pos})
			break
		}
	}
	if !found {
		return domain.NotFoundError{Entity: domain.EntityScopePosition, ID: scopeID}
	}
	tx.renumberPositions(pitchID)
	return nil
}

// removePositionIfPresent is the cascade hook for scope deletion; absence is
// not an error there.
func (tx *Transaction) removePositionIfPresent(pitchID, scopeID string) error {
	for _, pos := range tx.orderedPositions(pitchID) {
		if pos.ScopeID == scopeID {
			delete(tx.state.positions, pos.ID)
			tx.recordChange(domain.Change{Entity: domain.EntityScopePosition, Action: domain.ActionDelete, Before: pos})
			tx.renumberPositions(pitchID)
			return nil
		}
	}
	return nil
}

func (tx *Transaction) renumberPositions(pitchID string) {
	for i, pos := range tx.orderedPositions(pitchID) {
		next := domain.ScopeRankOrigin + i
		if pos.Rank != next {
			before := pos
			pos.Rank = next
			pos.UpdatedAt = tx.now
			tx.state.positions[pos.ID] = pos
			tx.recordChange(domain.Change{Entity: domain.EntityScopePosition, Action: domain.ActionUpdate, Before: before, After: pos})
		}
	}
}

// orderedPositions returns a pitch's positions sorted by rank with a stable
// tiebreak, so renumbering is deterministic even from a corrupted import.
func (tx *Transaction) orderedPositions(pitchID string) []domain.ScopePosition {
	out := make([]domain.ScopePosition, 0)
	for _, pos := range tx.state.positions {
		if pos.PitchID == pitchID {
			out = append(out, pos)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
