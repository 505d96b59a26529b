package core

import (
	"context"

	"guildcore/pkg/domain"
)

// CreateGuild persists a new guild.
func (s *Service) CreateGuild(ctx context.Context, guild domain.Guild) (domain.Guild, domain.Result, error) {
	var created domain.Guild
	var res domain.Result
	err := s.instrument(ctx, "create_guild", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.CreateGuild(guild)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// UpdateGuild mutates a guild using the provided mutator.
func (s *Service) UpdateGuild(ctx context.Context, id string, mutator func(*domain.Guild) error) (domain.Guild, domain.Result, error) {
	var updated domain.Guild
	var res domain.Result
	err := s.instrument(ctx, "update_guild", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateGuild(id, mutator)
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

// DeleteGuild removes a guild record.
func (s *Service) DeleteGuild(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, "delete_guild", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.DeleteGuild(id)
		})
		return id, err
	})
	return res, err
}

// CreateMember persists a new member.
func (s *Service) CreateMember(ctx context.Context, member domain.Member) (domain.Member, domain.Result, error) {
	var created domain.Member
	var res domain.Result
	err := s.instrument(ctx, "create_member", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.CreateMember(member)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// UpdateMember mutates a member.
func (s *Service) UpdateMember(ctx context.Context, id string, mutator func(*domain.Member) error) (domain.Member, domain.Result, error) {
	var updated domain.Member
	var res domain.Result
	err := s.instrument(ctx, "update_member", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateMember(id, mutator)
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

// DeleteMember removes a member record.
func (s *Service) DeleteMember(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, "delete_member", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.DeleteMember(id)
		})
		return id, err
	})
	return res, err
}

// CreateCycle persists a new cycle.
func (s *Service) CreateCycle(ctx context.Context, cycle domain.Cycle) (domain.Cycle, domain.Result, error) {
	var created domain.Cycle
	var res domain.Result
	err := s.instrument(ctx, "create_cycle", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.CreateCycle(cycle)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// UpdateCycle mutates a cycle.
func (s *Service) UpdateCycle(ctx context.Context, id string, mutator func(*domain.Cycle) error) (domain.Cycle, domain.Result, error) {
	var updated domain.Cycle
	var res domain.Result
	err := s.instrument(ctx, "update_cycle", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateCycle(id, mutator)
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

// DeleteCycle removes a cycle record.
func (s *Service) DeleteCycle(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, "delete_cycle", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.DeleteCycle(id)
		})
		return id, err
	})
	return res, err
}

// CreatePitch persists a new pitch.
func (s *Service) CreatePitch(ctx context.Context, pitch domain.Pitch) (domain.Pitch, domain.Result, error) {
	var created domain.Pitch
	var res domain.Result
	err := s.instrument(ctx, "create_pitch", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.CreatePitch(pitch)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// UpdatePitch mutates a pitch. Cycle reassignment is rejected here; use
// TransferPitch.
func (s *Service) UpdatePitch(ctx context.Context, id string, mutator func(*domain.Pitch) error) (domain.Pitch, domain.Result, error) {
	var updated domain.Pitch
	var res domain.Result
	err := s.instrument(ctx, "update_pitch", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdatePitch(id, mutator)
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

// DeletePitch removes a pitch record.
func (s *Service) DeletePitch(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, "delete_pitch", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.DeletePitch(id)
		})
		return id, err
	})
	return res, err
}

// CreateScope persists a new scope and appends it to its pitch's
// prioritization list in the same transaction.
func (s *Service) CreateScope(ctx context.Context, scope domain.Scope) (domain.Scope, domain.Result, error) {
	var created domain.Scope
	var res domain.Result
	err := s.instrument(ctx, "create_scope", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.CreateScope(scope)
			if txErr != nil {
				return txErr
			}
			_, txErr = tx.InsertScopePosition(created.PitchID, created.ID)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// UpdateScope mutates a scope.
func (s *Service) UpdateScope(ctx context.Context, id string, mutator func(*domain.Scope) error) (domain.Scope, domain.Result, error) {
	var updated domain.Scope
	var res domain.Result
	err := s.instrument(ctx, "update_scope", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateScope(id, mutator)
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

// DeleteScope removes a scope and closes the rank gap it leaves behind.
func (s *Service) DeleteScope(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, "delete_scope", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.DeleteScope(id)
		})
		return id, err
	})
	return res, err
}

// CreateBreadboard persists a breadboard artifact.
func (s *Service) CreateBreadboard(ctx context.Context, board domain.Breadboard) (domain.Breadboard, domain.Result, error) {
	var created domain.Breadboard
	var res domain.Result
	err := s.instrument(ctx, "create_breadboard", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.CreateBreadboard(board)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// UpdateBreadboard mutates a breadboard.
func (s *Service) UpdateBreadboard(ctx context.Context, id string, mutator func(*domain.Breadboard) error) (domain.Breadboard, domain.Result, error) {
	var updated domain.Breadboard
	var res domain.Result
	err := s.instrument(ctx, "update_breadboard", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateBreadboard(id, mutator)
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

// DeleteBreadboard removes a breadboard record.
func (s *Service) DeleteBreadboard(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, "delete_breadboard", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.DeleteBreadboard(id)
		})
		return id, err
	})
	return res, err
}

// CreateEvent persists a scheduled event.
func (s *Service) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, domain.Result, error) {
	var created domain.Event
	var res domain.Result
	err := s.instrument(ctx, "create_event", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.CreateEvent(event)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// UpdateEvent mutates an event.
func (s *Service) UpdateEvent(ctx context.Context, id string, mutator func(*domain.Event) error) (domain.Event, domain.Result, error) {
	var updated domain.Event
	var res domain.Result
	err := s.instrument(ctx, "update_event", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateEvent(id, mutator)
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

// DeleteEvent removes an event record.
func (s *Service) DeleteEvent(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, "delete_event", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.DeleteEvent(id)
		})
		return id, err
	})
	return res, err
}

// UpdateTimesheet mutates a timesheet entry.
func (s *Service) UpdateTimesheet(ctx context.Context, id string, mutator func(*domain.Timesheet) error) (domain.Timesheet, domain.Result, error) {
	var updated domain.Timesheet
	var res domain.Result
	err := s.instrument(ctx, "update_timesheet", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateTimesheet(id, mutator)
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

// DeleteTimesheet removes a timesheet entry.
func (s *Service) DeleteTimesheet(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, "delete_timesheet", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.DeleteTimesheet(id)
		})
		return id, err
	})
	return res, err
}

// UpdateBet mutates a bet. Cycle and pitch references are immutable.
func (s *Service) UpdateBet(ctx context.Context, id string, mutator func(*domain.Bet) error) (domain.Bet, domain.Result, error) {
	var updated domain.Bet
	var res domain.Result
	err := s.instrument(ctx, "update_bet", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateBet(id, mutator)
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

// DeleteBet removes a bet record.
func (s *Service) DeleteBet(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, "delete_bet", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.DeleteBet(id)
		})
		return id, err
	})
	return res, err
}

// CreateChowderItem persists a parking-lot entry.
func (s *Service) CreateChowderItem(ctx context.Context, item domain.ChowderItem) (domain.ChowderItem, domain.Result, error) {
	var created domain.ChowderItem
	var res domain.Result
	err := s.instrument(ctx, "create_chowder_item", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.CreateChowderItem(item)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// UpdateChowderItem mutates a parking-lot entry.
func (s *Service) UpdateChowderItem(ctx context.Context, id string, mutator func(*domain.ChowderItem) error) (domain.ChowderItem, domain.Result, error) {
	var updated domain.ChowderItem
	var res domain.Result
	err := s.instrument(ctx, "update_chowder_item", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateChowderItem(id, mutator)
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

// DeleteChowderItem removes a parking-lot entry.
func (s *Service) DeleteChowderItem(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, "delete_chowder_item", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.DeleteChowderItem(id)
		})
		return id, err
	})
	return res, err
}

// CreateIdeaList persists an idea list.
func (s *Service) CreateIdeaList(ctx context.Context, list domain.IdeaList) (domain.IdeaList, domain.Result, error) {
	var created domain.IdeaList
	var res domain.Result
	err := s.instrument(ctx, "create_idea_list", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.CreateIdeaList(list)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// UpdateIdeaList mutates an idea list.
func (s *Service) UpdateIdeaList(ctx context.Context, id string, mutator func(*domain.IdeaList) error) (domain.IdeaList, domain.Result, error) {
	var updated domain.IdeaList
	var res domain.Result
	err := s.instrument(ctx, "update_idea_list", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateIdeaList(id, mutator)
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

// DeleteIdeaList removes an idea list and its items.
func (s *Service) DeleteIdeaList(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, "delete_idea_list", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.DeleteIdeaList(id)
		})
		return id, err
	})
	return res, err
}

// CreateIdeaItem persists an idea item.
func (s *Service) CreateIdeaItem(ctx context.Context, item domain.IdeaItem) (domain.IdeaItem, domain.Result, error) {
	var created domain.IdeaItem
	var res domain.Result
	err := s.instrument(ctx, "create_idea_item", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.CreateIdeaItem(item)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// UpdateIdeaItem mutates an idea item.
func (s *Service) UpdateIdeaItem(ctx context.Context, id string, mutator func(*domain.IdeaItem) error) (domain.IdeaItem, domain.Result, error) {
	var updated domain.IdeaItem
	var res domain.Result
	err := s.instrument(ctx, "update_idea_item", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateIdeaItem(id, mutator)
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

// DeleteIdeaItem removes an idea item.
func (s *Service) DeleteIdeaItem(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, "delete_idea_item", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			return tx.DeleteIdeaItem(id)
		})
		return id, err
	})
	return res, err
}
