package memory

import (
	"guildcore/pkg/domain"
)

// CreateGuild stores a new guild within the transaction.
func (tx *Transaction) CreateGuild(g domain.Guild) (domain.Guild, error) {
	if err := domain.NewValidationError(domain.EntityGuild, domain.ValidateGuild(g)); err != nil {
		return domain.Guild{}, err
	}
	if g.ID == "" {
		g.ID = tx.store.newID()
	}
	if _, exists := tx.state.guilds[g.ID]; exists {
		return domain.Guild{}, domain.ConflictError{Entity: domain.EntityGuild, ID: g.ID, Message: "already exists"}
	}
	tx.stamp(&g.Base, g.ID)
	tx.state.guilds[g.ID] = cloneGuild(g)
	tx.recordChange(domain.Change{Entity: domain.EntityGuild, Action: domain.ActionCreate, After: cloneGuild(g)})
	return cloneGuild(g), nil
}

// UpdateGuild mutates an existing guild.
func (tx *Transaction) UpdateGuild(id string, mutator func(*domain.Guild) error) (domain.Guild, error) {
	current, ok := tx.state.guilds[id]
	if !ok {
		return domain.Guild{}, domain.NotFoundError{Entity: domain.EntityGuild, ID: id}
	}
	before := cloneGuild(current)
	if err := mutator(&current); err != nil {
		return domain.Guild{}, err
	}
	current.ID = id
	if err := domain.NewValidationError(domain.EntityGuild, domain.ValidateGuild(current)); err != nil {
		return domain.Guild{}, err
	}
	current.UpdatedAt = tx.now
	tx.state.guilds[id] = cloneGuild(current)
	tx.recordChange(domain.Change{Entity: domain.EntityGuild, Action: domain.ActionUpdate, Before: before, After: cloneGuild(current)})
	return cloneGuild(current), nil
}

// DeleteGuild removes a guild from state.
func (tx *Transaction) DeleteGuild(id string) error {
	current, ok := tx.state.guilds[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityGuild, ID: id}
	}
	if tx.guildHasDependents(id) {
		return domain.ConflictError{Entity: domain.EntityGuild, ID: id, Message: "guild still has dependent records"}
	}
	delete(tx.state.guilds, id)
	tx.recordChange(domain.Change{Entity: domain.EntityGuild, Action: domain.ActionDelete, Before: cloneGuild(current)})
	return nil
}

// guildHasDependents reports whether any record still references the guild.
// Deletion never cascades; dependents are removed explicitly first.
func (tx *Transaction) guildHasDependents(id string) bool {
	for _, m := range tx.state.members {
		if m.GuildID == id {
			return true
		}
	}
	for _, c := range tx.state.cycles {
		if c.GuildID == id {
			return true
		}
	}
	for _, p := range tx.state.pitches {
		if p.GuildID == id {
			return true
		}
	}
	for _, e := range tx.state.events {
		if e.GuildID == id {
			return true
		}
	}
	for _, b := range tx.state.bets {
		if b.GuildID == id {
			return true
		}
	}
	for _, c := range tx.state.chowder {
		if c.GuildID == id {
			return true
		}
	}
	for _, l := range tx.state.ideaLists {
		if l.GuildID == id {
			return true
		}
	}
	return false
}

// CreateMember stores a new member.
func (tx *Transaction) CreateMember(m domain.Member) (domain.Member, error) {
	if err := domain.NewValidationError(domain.EntityMember, domain.ValidateMember(m)); err != nil {
		return domain.Member{}, err
	}
	if _, ok := tx.state.guilds[m.GuildID]; !ok {
		return domain.Member{}, domain.NotFoundError{Entity: domain.EntityGuild, ID: m.GuildID}
	}
	if m.ID == "" {
		m.ID = tx.store.newID()
	}
	if _, exists := tx.state.members[m.ID]; exists {
		return domain.Member{}, domain.ConflictError{Entity: domain.EntityMember, ID: m.ID, Message: "already exists"}
	}
	tx.stamp(&m.Base, m.ID)
	tx.state.members[m.ID] = cloneMember(m)
	tx.recordChange(domain.Change{Entity: domain.EntityMember, Action: domain.ActionCreate, After: cloneMember(m)})
	return cloneMember(m), nil
}

// UpdateMember mutates an existing member.
func (tx *Transaction) UpdateMember(id string, mutator func(*domain.Member) error) (domain.Member, error) {
	current, ok := tx.state.members[id]
	if !ok {
		return domain.Member{}, domain.NotFoundError{Entity: domain.EntityMember, ID: id}
	}
	before := cloneMember(current)
	if err := mutator(&current); err != nil {
		return domain.Member{}, err
	}
	current.ID = id
	if err := domain.NewValidationError(domain.EntityMember, domain.ValidateMember(current)); err != nil {
		return domain.Member{}, err
	}
	if current.GuildID != before.GuildID {
		if _, ok := tx.state.guilds[current.GuildID]; !ok {
			return domain.Member{}, domain.NotFoundError{Entity: domain.EntityGuild, ID: current.GuildID}
		}
	}
	current.UpdatedAt = tx.now
	tx.state.members[id] = cloneMember(current)
	tx.recordChange(domain.Change{Entity: domain.EntityMember, Action: domain.ActionUpdate, Before: before, After: cloneMember(current)})
	return cloneMember(current), nil
}

// DeleteMember removes a member record.
func (tx *Transaction) DeleteMember(id string) error {
	current, ok := tx.state.members[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityMember, ID: id}
	}
	delete(tx.state.members, id)
	tx.recordChange(domain.Change{Entity: domain.EntityMember, Action: domain.ActionDelete, Before: cloneMember(current)})
	return nil
}

// CreateCycle stores a new planning cycle.
func (tx *Transaction) CreateCycle(c domain.Cycle) (domain.Cycle, error) {
	if err := domain.NewValidationError(domain.EntityCycle, domain.ValidateCycle(c)); err != nil {
		return domain.Cycle{}, err
	}
	if _, ok := tx.state.guilds[c.GuildID]; !ok {
		return domain.Cycle{}, domain.NotFoundError{Entity: domain.EntityGuild, ID: c.GuildID}
	}
	if c.ID == "" {
		c.ID = tx.store.newID()
	}
	if _, exists := tx.state.cycles[c.ID]; exists {
		return domain.Cycle{}, domain.ConflictError{Entity: domain.EntityCycle, ID: c.ID, Message: "already exists"}
	}
	tx.stamp(&c.Base, c.ID)
	tx.state.cycles[c.ID] = c
	tx.recordChange(domain.Change{Entity: domain.EntityCycle, Action: domain.ActionCreate, After: c})
	return c, nil
}

// UpdateCycle mutates an existing cycle.
func (tx *Transaction) UpdateCycle(id string, mutator func(*domain.Cycle) error) (domain.Cycle, error) {
	current, ok := tx.state.cycles[id]
	if !ok {
		return domain.Cycle{}, domain.NotFoundError{Entity: domain.EntityCycle, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.Cycle{}, err
	}
	current.ID = id
	if err := domain.NewValidationError(domain.EntityCycle, domain.ValidateCycle(current)); err != nil {
		return domain.Cycle{}, err
	}
	current.UpdatedAt = tx.now
	tx.state.cycles[id] = current
	tx.recordChange(domain.Change{Entity: domain.EntityCycle, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteCycle removes a cycle from state.
func (tx *Transaction) DeleteCycle(id string) error {
	current, ok := tx.state.cycles[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityCycle, ID: id}
	}
	delete(tx.state.cycles, id)
	tx.recordChange(domain.Change{Entity: domain.EntityCycle, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreatePitch stores a new pitch.
func (tx *Transaction) CreatePitch(p domain.Pitch) (domain.Pitch, error) {
	if err := domain.NewValidationError(domain.EntityPitch, domain.ValidatePitch(p)); err != nil {
		return domain.Pitch{}, err
	}
	if _, ok := tx.state.guilds[p.GuildID]; !ok {
		return domain.Pitch{}, domain.NotFoundError{Entity: domain.EntityGuild, ID: p.GuildID}
	}
	if p.CycleID != nil {
		if _, ok := tx.state.cycles[*p.CycleID]; !ok {
			return domain.Pitch{}, domain.NotFoundError{Entity: domain.EntityCycle, ID: *p.CycleID}
		}
	}
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.pitches[p.ID]; exists {
		return domain.Pitch{}, domain.ConflictError{Entity: domain.EntityPitch, ID: p.ID, Message: "already exists"}
	}
	tx.stamp(&p.Base, p.ID)
	tx.state.pitches[p.ID] = clonePitch(p)
	tx.recordChange(domain.Change{Entity: domain.EntityPitch, Action: domain.ActionCreate, After: clonePitch(p)})
	return clonePitch(p), nil
}

// UpdatePitch mutates a pitch. Cycle assignment is immutable here; use
// TransferPitch to move a pitch between cycles.
func (tx *Transaction) UpdatePitch(id string, mutator func(*domain.Pitch) error) (domain.Pitch, error) {
	current, ok := tx.state.pitches[id]
	if !ok {
		return domain.Pitch{}, domain.NotFoundError{Entity: domain.EntityPitch, ID: id}
	}
	before := clonePitch(current)
	if err := mutator(&current); err != nil {
		return domain.Pitch{}, err
	}
	current.ID = id
	if !equalOptional(before.CycleID, current.CycleID) {
		return domain.Pitch{}, domain.ConflictError{Entity: domain.EntityPitch, ID: id, Message: "cycle assignment is immutable; use transfer"}
	}
	if before.GuildID != current.GuildID {
		return domain.Pitch{}, domain.ConflictError{Entity: domain.EntityPitch, ID: id, Message: "guild ownership is immutable"}
	}
	if err := domain.NewValidationError(domain.EntityPitch, domain.ValidatePitch(current)); err != nil {
		return domain.Pitch{}, err
	}
	current.UpdatedAt = tx.now
	tx.state.pitches[id] = clonePitch(current)
	tx.recordChange(domain.Change{Entity: domain.EntityPitch, Action: domain.ActionUpdate, Before: before, After: clonePitch(current)})
	return clonePitch(current), nil
}

// DeletePitch removes a pitch and its scope positions.
func (tx *Transaction) DeletePitch(id string) error {
	current, ok := tx.state.pitches[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityPitch, ID: id}
	}
	delete(tx.state.pitches, id)
	for posID, pos := range tx.state.positions {
		if pos.PitchID == id {
			delete(tx.state.positions, posID)
		}
	}
	tx.recordChange(domain.Change{Entity: domain.EntityPitch, Action: domain.ActionDelete, Before: clonePitch(current)})
	return nil
}

// CreateScope stores a new scope.
func (tx *Transaction) CreateScope(s domain.Scope) (domain.Scope, error) {
	if err := domain.NewValidationError(domain.EntityScope, domain.ValidateScope(s)); err != nil {
		return domain.Scope{}, err
	}
	if _, ok := tx.state.pitches[s.PitchID]; !ok {
		return domain.Scope{}, domain.NotFoundError{Entity: domain.EntityPitch, ID: s.PitchID}
	}
	if s.ID == "" {
		s.ID = tx.store.newID()
	}
	if _, exists := tx.state.scopes[s.ID]; exists {
		return domain.Scope{}, domain.ConflictError{Entity: domain.EntityScope, ID: s.ID, Message: "already exists"}
	}
	tx.stamp(&s.Base, s.ID)
	tx.state.scopes[s.ID] = s
	tx.recordChange(domain.Change{Entity: domain.EntityScope, Action: domain.ActionCreate, After: s})
	return s, nil
}

// UpdateScope mutates an existing scope.
func (tx *Transaction) UpdateScope(id string, mutator func(*domain.Scope) error) (domain.Scope, error) {
	current, ok := tx.state.scopes[id]
	if !ok {
		return domain.Scope{}, domain.NotFoundError{Entity: domain.EntityScope, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.Scope{}, err
	}
	current.ID = id
	if before.PitchID != current.PitchID {
		return domain.Scope{}, domain.ConflictError{Entity: domain.EntityScope, ID: id, Message: "pitch ownership is immutable"}
	}
	if err := domain.NewValidationError(domain.EntityScope, domain.ValidateScope(current)); err != nil {
		return domain.Scope{}, err
	}
	current.UpdatedAt = tx.now
	tx.state.scopes[id] = current
	tx.recordChange(domain.Change{Entity: domain.EntityScope, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteScope removes a scope and closes any gap it leaves in its pitch's
// prioritization list.
func (tx *Transaction) DeleteScope(id string) error {
	current, ok := tx.state.scopes[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityScope, ID: id}
	}
	delete(tx.state.scopes, id)
	if err := tx.removePositionIfPresent(current.PitchID, id); err != nil {
		return err
	}
	tx.recordChange(domain.Change{Entity: domain.EntityScope, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateBreadboard stores a new breadboard.
func (tx *Transaction) CreateBreadboard(b domain.Breadboard) (domain.Breadboard, error) {
	if err := domain.NewValidationError(domain.EntityBreadboard, domain.ValidateBreadboard(b)); err != nil {
		return domain.Breadboard{}, err
	}
	if _, ok := tx.state.scopes[b.ScopeID]; !ok {
		return domain.Breadboard{}, domain.NotFoundError{Entity: domain.EntityScope, ID: b.ScopeID}
	}
	if b.ID == "" {
		b.ID = tx.store.newID()
	}
	if _, exists := tx.state.breadboards[b.ID]; exists {
		return domain.Breadboard{}, domain.ConflictError{Entity: domain.EntityBreadboard, ID: b.ID, Message: "already exists"}
	}
	tx.stamp(&b.Base, b.ID)
	tx.state.breadboards[b.ID] = cloneBreadboard(b)
	tx.recordChange(domain.Change{Entity: domain.EntityBreadboard, Action: domain.ActionCreate, After: cloneBreadboard(b)})
	return cloneBreadboard(b), nil
}

// UpdateBreadboard mutates an existing breadboard.
func (tx *Transaction) UpdateBreadboard(id string, mutator func(*domain.Breadboard) error) (domain.Breadboard, error) {
	current, ok := tx.state.breadboards[id]
	if !ok {
		return domain.Breadboard{}, domain.NotFoundError{Entity: domain.EntityBreadboard, ID: id}
	}
	before := cloneBreadboard(current)
	if err := mutator(&current); err != nil {
		return domain.Breadboard{}, err
	}
	current.ID = id
	if err := domain.NewValidationError(domain.EntityBreadboard, domain.ValidateBreadboard(current)); err != nil {
		return domain.Breadboard{}, err
	}
	current.UpdatedAt = tx.now
	tx.state.breadboards[id] = cloneBreadboard(current)
	tx.recordChange(domain.Change{Entity: domain.EntityBreadboard, Action: domain.ActionUpdate, Before: before, After: cloneBreadboard(current)})
	return cloneBreadboard(current), nil
}

// DeleteBreadboard removes a breadboard.
func (tx *Transaction) DeleteBreadboard(id string) error {
	current, ok := tx.state.breadboards[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityBreadboard, ID: id}
	}
	delete(tx.state.breadboards, id)
	tx.recordChange(domain.Change{Entity: domain.EntityBreadboard, Action: domain.ActionDelete, Before: cloneBreadboard(current)})
	return nil
}

// CreateEvent stores a scheduled event.
func (tx *Transaction) CreateEvent(e domain.Event) (domain.Event, error) {
	if err := domain.NewValidationError(domain.EntityEvent, domain.ValidateEvent(e)); err != nil {
		return domain.Event{}, err
	}
	if _, ok := tx.state.guilds[e.GuildID]; !ok {
		return domain.Event{}, domain.NotFoundError{Entity: domain.EntityGuild, ID: e.GuildID}
	}
	if e.CycleID != nil {
		if _, ok := tx.state.cycles[*e.CycleID]; !ok {
			return domain.Event{}, domain.NotFoundError{Entity: domain.EntityCycle, ID: *e.CycleID}
		}
	}
	if e.ID == "" {
		e.ID = tx.store.newID()
	}
	if _, exists := tx.state.events[e.ID]; exists {
		return domain.Event{}, domain.ConflictError{Entity: domain.EntityEvent, ID: e.ID, Message: "already exists"}
	}
	tx.stamp(&e.Base, e.ID)
	tx.state.events[e.ID] = cloneEvent(e)
	tx.recordChange(domain.Change{Entity: domain.EntityEvent, Action: domain.ActionCreate, After: cloneEvent(e)})
	return cloneEvent(e), nil
}

// UpdateEvent mutates an existing event.
func (tx *Transaction) UpdateEvent(id string, mutator func(*domain.Event) error) (domain.Event, error) {
	current, ok := tx.state.events[id]
	if !ok {
		return domain.Event{}, domain.NotFoundError{Entity: domain.EntityEvent, ID: id}
	}
	before := cloneEvent(current)
	if err := mutator(&current); err != nil {
		return domain.Event{}, err
	}
	current.ID = id
	if err := domain.NewValidationError(domain.EntityEvent, domain.ValidateEvent(current)); err != nil {
		return domain.Event{}, err
	}
	current.UpdatedAt = tx.now
	tx.state.events[id] = cloneEvent(current)
	tx.recordChange(domain.Change{Entity: domain.EntityEvent, Action: domain.ActionUpdate, Before: before, After: cloneEvent(current)})
	return cloneEvent(current), nil
}

// DeleteEvent removes an event.
func (tx *Transaction) DeleteEvent(id string) error {
	current, ok := tx.state.events[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityEvent, ID: id}
	}
	delete(tx.state.events, id)
	tx.recordChange(domain.Change{Entity: domain.EntityEvent, Action: domain.ActionDelete, Before: cloneEvent(current)})
	return nil
}

// CreateTimesheet stores a timesheet entry.
func (tx *Transaction) CreateTimesheet(t domain.Timesheet) (domain.Timesheet, error) {
	if err := domain.NewValidationError(domain.EntityTimesheet, domain.ValidateTimesheet(t)); err != nil {
		return domain.Timesheet{}, err
	}
	if _, ok := tx.state.members[t.MemberID]; !ok {
		return domain.Timesheet{}, domain.NotFoundError{Entity: domain.EntityMember, ID: t.MemberID}
	}
	if _, ok := tx.state.cycles[t.CycleID]; !ok {
		return domain.Timesheet{}, domain.NotFoundError{Entity: domain.EntityCycle, ID: t.CycleID}
	}
	if t.PitchID != nil {
		if _, ok := tx.state.pitches[*t.PitchID]; !ok {
			return domain.Timesheet{}, domain.NotFoundError{Entity: domain.EntityPitch, ID: *t.PitchID}
		}
	}
	if t.ID == "" {
		t.ID = tx.store.newID()
	}
	if _, exists := tx.state.timesheets[t.ID]; exists {
		return domain.Timesheet{}, domain.ConflictError{Entity: domain.EntityTimesheet, ID: t.ID, Message: "already exists"}
	}
	tx.stamp(&t.Base, t.ID)
	tx.state.timesheets[t.ID] = t
	tx.recordChange(domain.Change{Entity: domain.EntityTimesheet, Action: domain.ActionCreate, After: t})
	return t, nil
}

// UpdateTimesheet mutates a timesheet entry.
func (tx *Transaction) UpdateTimesheet(id string, mutator func(*domain.Timesheet) error) (domain.Timesheet, error) {
	current, ok := tx.state.timesheets[id]
	if !ok {
		return domain.Timesheet{}, domain.NotFoundError{Entity: domain.EntityTimesheet, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.Timesheet{}, err
	}
	current.ID = id
	if err := domain.NewValidationError(domain.EntityTimesheet, domain.ValidateTimesheet(current)); err != nil {
		return domain.Timesheet{}, err
	}
	current.UpdatedAt = tx.now
	tx.state.timesheets[id] = current
	tx.recordChange(domain.Change{Entity: domain.EntityTimesheet, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteTimesheet removes a timesheet entry.
func (tx *Transaction) DeleteTimesheet(id string) error {
	current, ok := tx.state.timesheets[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityTimesheet, ID: id}
	}
	delete(tx.state.timesheets, id)
	tx.recordChange(domain.Change{Entity: domain.EntityTimesheet, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateBet stores a bet.
func (tx *Transaction) CreateBet(b domain.Bet) (domain.Bet, error) {
	if err := domain.NewValidationError(domain.EntityBet, domain.ValidateBet(b)); err != nil {
		return domain.Bet{}, err
	}
	if _, ok := tx.state.cycles[b.CycleID]; !ok {
		return domain.Bet{}, domain.NotFoundError{Entity: domain.EntityCycle, ID: b.CycleID}
	}
	if _, ok := tx.state.pitches[b.PitchID]; !ok {
		return domain.Bet{}, domain.NotFoundError{Entity: domain.EntityPitch, ID: b.PitchID}
	}
	if b.MemberID != nil {
		if _, ok := tx.state.members[*b.MemberID]; !ok {
			return domain.Bet{}, domain.NotFoundError{Entity: domain.EntityMember, ID: *b.MemberID}
		}
	}
	if b.ID == "" {
		b.ID = tx.store.newID()
	}
	if _, exists := tx.state.bets[b.ID]; exists {
		return domain.Bet{}, domain.ConflictError{Entity: domain.EntityBet, ID: b.ID, Message: "already exists"}
	}
	tx.stamp(&b.Base, b.ID)
	tx.state.bets[b.ID] = b
	tx.recordChange(domain.Change{Entity: domain.EntityBet, Action: domain.ActionCreate, After: b})
	return b, nil
}

// UpdateBet mutates a bet. Cycle and pitch references are immutable.
func (tx *Transaction) UpdateBet(id string, mutator func(*domain.Bet) error) (domain.Bet, error) {
	current, ok := tx.state.bets[id]
	if !ok {
		return domain.Bet{}, domain.NotFoundError{Entity: domain.EntityBet, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.Bet{}, err
	}
	current.ID = id
	if before.CycleID != current.CycleID || before.PitchID != current.PitchID {
		return domain.Bet{}, domain.ConflictError{Entity: domain.EntityBet, ID: id, Message: "cycle and pitch references are immutable"}
	}
	if err := domain.NewValidationError(domain.EntityBet, domain.ValidateBet(current)); err != nil {
		return domain.Bet{}, err
	}
	current.UpdatedAt = tx.now
	tx.state.bets[id] = current
	tx.recordChange(domain.Change{Entity: domain.EntityBet, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteBet removes a bet.
func (tx *Transaction) DeleteBet(id string) error {
	current, ok := tx.state.bets[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityBet, ID: id}
	}
	delete(tx.state.bets, id)
	tx.recordChange(domain.Change{Entity: domain.EntityBet, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateChowderItem stores a parking-lot entry.
func (tx *Transaction) CreateChowderItem(c domain.ChowderItem) (domain.ChowderItem, error) {
	if err := domain.NewValidationError(domain.EntityChowderItem, domain.ValidateChowderItem(c)); err != nil {
		return domain.ChowderItem{}, err
	}
	if _, ok := tx.state.guilds[c.GuildID]; !ok {
		return domain.ChowderItem{}, domain.NotFoundError{Entity: domain.EntityGuild, ID: c.GuildID}
	}
	if c.ID == "" {
		c.ID = tx.store.newID()
	}
	if _, exists := tx.state.chowder[c.ID]; exists {
		return domain.ChowderItem{}, domain.ConflictError{Entity: domain.EntityChowderItem, ID: c.ID, Message: "already exists"}
	}
	tx.stamp(&c.Base, c.ID)
	tx.state.chowder[c.ID] = c
	tx.recordChange(domain.Change{Entity: domain.EntityChowderItem, Action: domain.ActionCreate, After: c})
	return c, nil
}

// UpdateChowderItem mutates a parking-lot entry.
func (tx *Transaction) UpdateChowderItem(id string, mutator func(*domain.ChowderItem) error) (domain.ChowderItem, error) {
	current, ok := tx.state.chowder[id]
	if !ok {
		return domain.ChowderItem{}, domain.NotFoundError{Entity: domain.EntityChowderItem, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.ChowderItem{}, err
	}
	current.ID = id
	if err := domain.NewValidationError(domain.EntityChowderItem, domain.ValidateChowderItem(current)); err != nil {
		return domain.ChowderItem{}, err
	}
	current.UpdatedAt = tx.now
	tx.state.chowder[id] = current
	tx.recordChange(domain.Change{Entity: domain.EntityChowderItem, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteChowderItem removes a parking-lot entry.
func (tx *Transaction) DeleteChowderItem(id string) error {
	current, ok := tx.state.chowder[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityChowderItem, ID: id}
	}
	delete(tx.state.chowder, id)
	tx.recordChange(domain.Change{Entity: domain.EntityChowderItem, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateIdeaList stores a new idea list.
func (tx *Transaction) CreateIdeaList(l domain.IdeaList) (domain.IdeaList, error) {
	if err := domain.NewValidationError(domain.EntityIdeaList, domain.ValidateIdeaList(l)); err != nil {
		return domain.IdeaList{}, err
	}
	if _, ok := tx.state.guilds[l.GuildID]; !ok {
		return domain.IdeaList{}, domain.NotFoundError{Entity: domain.EntityGuild, ID: l.GuildID}
	}
	if l.ID == "" {
		l.ID = tx.store.newID()
	}
	if _, exists := tx.state.ideaLists[l.ID]; exists {
		return domain.IdeaList{}, domain.ConflictError{Entity: domain.EntityIdeaList, ID: l.ID, Message: "already exists"}
	}
	tx.stamp(&l.Base, l.ID)
	tx.state.ideaLists[l.ID] = l
	tx.recordChange(domain.Change{Entity: domain.EntityIdeaList, Action: domain.ActionCreate, After: l})
	return l, nil
}

// UpdateIdeaList mutates an idea list.
func (tx *Transaction) UpdateIdeaList(id string, mutator func(*domain.IdeaList) error) (domain.IdeaList, error) {
	current, ok := tx.state.ideaLists[id]
	if !ok {
		return domain.IdeaList{}, domain.NotFoundError{Entity: domain.EntityIdeaList, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.IdeaList{}, err
	}
	current.ID = id
	if err := domain.NewValidationError(domain.EntityIdeaList, domain.ValidateIdeaList(current)); err != nil {
		return domain.IdeaList{}, err
	}
	current.UpdatedAt = tx.now
	tx.state.ideaLists[id] = current
	tx.recordChange(domain.Change{Entity: domain.EntityIdeaList, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteIdeaList removes an idea list and its items.
func (tx *Transaction) DeleteIdeaList(id string) error {
	current, ok := tx.state.ideaLists[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityIdeaList, ID: id}
	}
	delete(tx.state.ideaLists, id)
	for itemID, item := range tx.state.ideaItems {
		if item.ListID == id {
			delete(tx.state.ideaItems, itemID)
		}
	}
	tx.recordChange(domain.Change{Entity: domain.EntityIdeaList, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateIdeaItem stores an idea item.
func (tx *Transaction) CreateIdeaItem(i domain.IdeaItem) (domain.IdeaItem, error) {
	if err := domain.NewValidationError(domain.EntityIdeaItem, domain.ValidateIdeaItem(i)); err != nil {
		return domain.IdeaItem{}, err
	}
	if _, ok := tx.state.ideaLists[i.ListID]; !ok {
		return domain.IdeaItem{}, domain.NotFoundError{Entity: domain.EntityIdeaList, ID: i.ListID}
	}
	if i.ID == "" {
		i.ID = tx.store.newID()
	}
	if _, exists := tx.state.ideaItems[i.ID]; exists {
		return domain.IdeaItem{}, domain.ConflictError{Entity: domain.EntityIdeaItem, ID: i.ID, Message: "already exists"}
	}
	tx.stamp(&i.Base, i.ID)
	tx.state.ideaItems[i.ID] = i
	tx.recordChange(domain.Change{Entity: domain.EntityIdeaItem, Action: domain.ActionCreate, After: i})
	return i, nil
}

// UpdateIdeaItem mutates an idea item.
func (tx *Transaction) UpdateIdeaItem(id string, mutator func(*domain.IdeaItem) error) (domain.IdeaItem, error) {
	current, ok := tx.state.ideaItems[id]
	if !ok {
		return domain.IdeaItem{}, domain.NotFoundError{Entity: domain.EntityIdeaItem, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.IdeaItem{}, err
	}
	current.ID = id
	if err := domain.NewValidationError(domain.EntityIdeaItem, domain.ValidateIdeaItem(current)); err != nil {
		return domain.IdeaItem{}, err
	}
	current.UpdatedAt = tx.now
	tx.state.ideaItems[id] = current
	tx.recordChange(domain.Change{Entity: domain.EntityIdeaItem, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteIdeaItem removes an idea item.
func (tx *Transaction) DeleteIdeaItem(id string) error {
	current, ok := tx.state.ideaItems[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityIdeaItem, ID: id}
	}
	delete(tx.state.ideaItems, id)
	tx.recordChange(domain.Change{Entity: domain.EntityIdeaItem, Action: domain.ActionDelete, Before: current})
	return nil
}

func equalOptional(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
