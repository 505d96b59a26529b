package domain

import "fmt"

// Validation is pure: each function inspects a candidate payload and returns
// every violated field rule. Nothing here touches storage.

const (
	ruleRequired = "required"
	ruleEnum     = "enum"
	ruleRange    = "range"
)

func missing(field string) FieldViolation {
	return FieldViolation{Field: field, Rule: ruleRequired, Message: field + " is required"}
}

func outOfSet(field string, value any, allowed string) FieldViolation {
	return FieldViolation{
		Field:   field,
		Rule:    ruleEnum,
		Message: fmt.Sprintf("%s %q is not one of %s", field, value, allowed),
	}
}

func outOfRange(field, message string) FieldViolation {
	return FieldViolation{Field: field, Rule: ruleRange, Message: message}
}

// ValidateGuild checks guild payloads.
func ValidateGuild(g Guild) []FieldViolation {
	var out []FieldViolation
	if g.Name == "" {
		out = append(out, missing("name"))
	}
	if g.Slug == "" {
		out = append(out, missing("slug"))
	}
	return out
}

// ValidateMember checks member payloads.
func ValidateMember(m Member) []FieldViolation {
	var out []FieldViolation
	if m.Name == "" {
		out = append(out, missing("name"))
	}
	if m.Email == "" {
		out = append(out, missing("email"))
	}
	if m.GuildID == "" {
		out = append(out, missing("guild_id"))
	}
	switch m.Role {
	case RoleOwner, RoleShaper, RoleBuilder, RoleGuest:
	default:
		out = append(out, outOfSet("role", m.Role, "owner|shaper|builder|guest"))
	}
	return out
}

// ValidateCycle checks cycle payloads.
func ValidateCycle(c Cycle) []FieldViolation {
	var out []FieldViolation
	if c.Name == "" {
		out = append(out, missing("name"))
	}
	if c.GuildID == "" {
		out = append(out, missing("guild_id"))
	}
	switch c.Phase {
	case PhasePlanning, PhaseBetting, PhaseBuilding, PhaseCooldown, PhaseClosed:
	default:
		out = append(out, outOfSet("phase", c.Phase, "planning|betting|building|cooldown|closed"))
	}
	if c.StartsAt.IsZero() {
		out = append(out, missing("starts_at"))
	}
	if c.EndsAt.IsZero() {
		out = append(out, missing("ends_at"))
	} else if !c.StartsAt.IsZero() && !c.EndsAt.After(c.StartsAt) {
		out = append(out, outOfRange("ends_at", "ends_at must be after starts_at"))
	}
	return out
}

// ValidatePitch checks pitch payloads.
func ValidatePitch(p Pitch) []FieldViolation {
	var out []FieldViolation
	if p.Title == "" {
		out = append(out, missing("title"))
	}
	if p.GuildID == "" {
		out = append(out, missing("guild_id"))
	}
	if p.AuthorID == "" {
		out = append(out, missing("author_id"))
	}
	switch p.Appetite {
	case AppetiteSmallBatch, AppetiteBigBatch:
	default:
		out = append(out, outOfSet("appetite", p.Appetite, "small_batch|big_batch"))
	}
	switch p.Status {
	case PitchDraft, PitchPitched, PitchBet, PitchScheduled, PitchShipped, PitchShelved:
	default:
		out = append(out, outOfSet("status", p.Status, "draft|pitched|bet|scheduled|shipped|shelved"))
	}
	return out
}

// ValidateScope checks scope payloads.
func ValidateScope(s Scope) []FieldViolation {
	var out []FieldViolation
	if s.PitchID == "" {
		out = append(out, missing("pitch_id"))
	}
	if s.Name == "" {
		out = append(out, missing("name"))
	}
	return out
}

// ValidateBreadboard checks breadboard payloads.
func ValidateBreadboard(b Breadboard) []FieldViolation {
	var out []FieldViolation
	if b.ScopeID == "" {
		out = append(out, missing("scope_id"))
	}
	if b.Name == "" {
		out = append(out, missing("name"))
	}
	return out
}

// ValidateEvent checks event payloads.
func ValidateEvent(e Event) []FieldViolation {
	var out []FieldViolation
	if e.GuildID == "" {
		out = append(out, missing("guild_id"))
	}
	if e.Title == "" {
		out = append(out, missing("title"))
	}
	switch e.Kind {
	case EventKickoff, EventBettingTable, EventDemo, EventRetro, EventOther:
	default:
		out = append(out, outOfSet("kind", e.Kind, "kickoff|betting_table|demo|retro|other"))
	}
	if e.StartsAt.IsZero() {
		out = append(out, missing("starts_at"))
	}
	if e.EndsAt.IsZero() {
		out = append(out, missing("ends_at"))
	} else if !e.StartsAt.IsZero() && !e.EndsAt.After(e.StartsAt) {
		out = append(out, outOfRange("ends_at", "ends_at must be after starts_at"))
	}
	return out
}

// ValidateWallet checks wallet payloads.
func ValidateWallet(w Wallet) []FieldViolation {
	var out []FieldViolation
	if w.MemberID == "" {
		out = append(out, missing("member_id"))
	}
	if w.Currency == "" {
		out = append(out, missing("currency"))
	}
	return out
}

// ValidateSemosTransaction checks candidate ledger entries. Sign must match
// kind: credits and emissions are positive, debits negative.
func ValidateSemosTransaction(t SemosTransaction) []FieldViolation {
	var out []FieldViolation
	if t.WalletID == "" {
		out = append(out, missing("wallet_id"))
	}
	switch t.Kind {
	case TransactionCredit, TransactionEmission:
		if t.Amount <= 0 {
			out = append(out, outOfRange("amount", "amount must be positive for "+string(t.Kind)))
		}
	case TransactionDebit:
		if t.Amount >= 0 {
			out = append(out, outOfRange("amount", "amount must be negative for debit"))
		}
	case TransactionAdjustment:
		if t.Amount == 0 {
			out = append(out, outOfRange("amount", "amount must be non-zero"))
		}
	default:
		out = append(out, outOfSet("kind", t.Kind, "credit|debit|emission|adjustment"))
	}
	return out
}

// ValidateSemosEmission checks emission payloads.
func ValidateSemosEmission(e SemosEmission) []FieldViolation {
	var out []FieldViolation
	if e.Amount <= 0 {
		out = append(out, outOfRange("amount", "amount must be positive"))
	}
	if e.Reason == "" {
		out = append(out, missing("reason"))
	}
	if len(e.WalletIDs) == 0 {
		out = append(out, missing("wallet_ids"))
	}
	return out
}

// ValidateSemosRate checks rate payloads.
func ValidateSemosRate(r SemosRate) []FieldViolation {
	var out []FieldViolation
	if r.MicrosPerSemos <= 0 {
		out = append(out, outOfRange("micros_per_semos", "micros_per_semos must be positive"))
	}
	if r.ValidFrom.IsZero() {
		out = append(out, missing("valid_from"))
	}
	return out
}

// ValidateTimesheet checks timesheet payloads.
func ValidateTimesheet(t Timesheet) []FieldViolation {
	var out []FieldViolation
	if t.MemberID == "" {
		out = append(out, missing("member_id"))
	}
	if t.CycleID == "" {
		out = append(out, missing("cycle_id"))
	}
	if t.Minutes <= 0 {
		out = append(out, outOfRange("minutes", "minutes must be positive"))
	}
	if t.WorkedOn.IsZero() {
		out = append(out, missing("worked_on"))
	}
	return out
}

// ValidateBet checks bet payloads.
func ValidateBet(b Bet) []FieldViolation {
	var out []FieldViolation
	if b.GuildID == "" {
		out = append(out, missing("guild_id"))
	}
	if b.CycleID == "" {
		out = append(out, missing("cycle_id"))
	}
	if b.PitchID == "" {
		out = append(out, missing("pitch_id"))
	}
	if b.Amount <= 0 {
		out = append(out, outOfRange("amount", "amount must be positive"))
	}
	return out
}

// ValidateHillChartSnapshot checks snapshot payloads.
func ValidateHillChartSnapshot(s HillChartSnapshot) []FieldViolation {
	var out []FieldViolation
	if s.ScopeID == "" {
		out = append(out, missing("scope_id"))
	}
	if s.Position < 0 || s.Position > 1 {
		out = append(out, outOfRange("position", "position must be within [0, 1]"))
	}
	return out
}

// ValidateChowderItem checks parking-lot payloads.
func ValidateChowderItem(c ChowderItem) []FieldViolation {
	var out []FieldViolation
	if c.GuildID == "" {
		out = append(out, missing("guild_id"))
	}
	if c.Title == "" {
		out = append(out, missing("title"))
	}
	switch c.Kind {
	case ChowderRawIdea, ChowderRequest, ChowderDefect, ChowderPolish, ChowderOther:
	default:
		out = append(out, outOfSet("kind", c.Kind, "raw_idea|request|defect|polish|other"))
	}
	return out
}

// ValidateIdeaList checks idea list payloads.
func ValidateIdeaList(l IdeaList) []FieldViolation {
	var out []FieldViolation
	if l.GuildID == "" {
		out = append(out, missing("guild_id"))
	}
	if l.Name == "" {
		out = append(out, missing("name"))
	}
	return out
}

// ValidateIdeaItem checks idea item payloads.
func ValidateIdeaItem(i IdeaItem) []FieldViolation {
	var out []FieldViolation
	if i.ListID == "" {
		out = append(out, missing("list_id"))
	}
	if i.Title == "" {
		out = append(out, missing("title"))
	}
	switch i.Category {
	case IdeaSubject, IdeaTrainer, IdeaLocation, IdeaOther:
	default:
		out = append(out, outOfSet("category", i.Category, "subject|trainer|location|other"))
	}
	return out
}
