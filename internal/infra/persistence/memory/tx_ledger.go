package memory

import (
	"guildcore/pkg/domain"
)

// CreateWallet opens a ledger head for a member. A member holds at most one
// wallet; the member record is linked back to it in the same atomic scope.
func (tx *Transaction) CreateWallet(w domain.Wallet) (domain.Wallet, error) {
	if err := domain.NewValidationError(domain.EntityWallet, domain.ValidateWallet(w)); err != nil {
		return domain.Wallet{}, err
	}
	member, ok := tx.state.members[w.MemberID]
	if !ok {
		return domain.Wallet{}, domain.NotFoundError{Entity: domain.EntityMember, ID: w.MemberID}
	}
	for _, existing := range tx.state.wallets {
		if existing.MemberID == w.MemberID {
			return domain.Wallet{}, domain.ConflictError{Entity: domain.EntityWallet, ID: existing.ID, Message: "member already has a wallet"}
		}
	}
	if w.ID == "" {
		w.ID = tx.store.newID()
	}
	if _, exists := tx.state.wallets[w.ID]; exists {
		return domain.Wallet{}, domain.ConflictError{Entity: domain.EntityWallet, ID: w.ID, Message: "already exists"}
	}
	w.Balance = 0
	tx.stamp(&w.Base, w.ID)
	tx.state.wallets[w.ID] = w

	walletID := w.ID
	member.WalletID = &walletID
	member.UpdatedAt = tx.now
	tx.state.members[member.ID] = member

	tx.recordChange(domain.Change{Entity: domain.EntityWallet, Action: domain.ActionCreate, After: w})
	return w, nil
}

// PostSemosTransaction appends an immutable ledger entry and moves the
// wallet's derived balance. A posting that would leave the balance below the
// policy floor is rejected; landing exactly on the floor is allowed.
func (tx *Transaction) PostSemosTransaction(t domain.SemosTransaction) (domain.SemosTransaction, error) {
	if err := domain.NewValidationError(domain.EntitySemosTransaction, domain.ValidateSemosTransaction(t)); err != nil {
		return domain.SemosTransaction{}, err
	}
	wallet, ok := tx.state.wallets[t.WalletID]
	if !ok {
		return domain.SemosTransaction{}, domain.NotFoundError{Entity: domain.EntityWallet, ID: t.WalletID}
	}
	next := wallet.Balance + t.Amount
	if next < tx.store.policy.Floor {
		return domain.SemosTransaction{}, domain.ConflictError{
			Entity:  domain.EntityWallet,
			ID:      wallet.ID,
			Message: "insufficient funds",
		}
	}
	if t.ID == "" {
		t.ID = tx.store.newID()
	}
	if _, exists := tx.state.transactions[t.ID]; exists {
		return domain.SemosTransaction{}, domain.ConflictError{Entity: domain.EntitySemosTransaction, ID: t.ID, Message: "already exists"}
	}
	if t.PostedAt.IsZero() {
		t.PostedAt = tx.now
	}
	tx.stamp(&t.Base, t.ID)
	tx.state.transactions[t.ID] = t

	wallet.Balance = next
	wallet.UpdatedAt = tx.now
	tx.state.wallets[wallet.ID] = wallet

	tx.recordChange(domain.Change{Entity: domain.EntitySemosTransaction, Action: domain.ActionCreate, After: t})
	return t, nil
}

// MintEmission credits every target wallet with an emission-kind ledger entry
// and records the emission itself. All credits land or none do.
func (tx *Transaction) MintEmission(e domain.SemosEmission) (domain.SemosEmission, error) {
	if err := domain.NewValidationError(domain.EntitySemosEmission, domain.ValidateSemosEmission(e)); err != nil {
		return domain.SemosEmission{}, err
	}
	if e.RateID != nil {
		if _, ok := tx.state.rates[*e.RateID]; !ok {
			return domain.SemosEmission{}, domain.NotFoundError{Entity: domain.EntitySemosRate, ID: *e.RateID}
		}
	}
	for _, walletID := range e.WalletIDs {
		if _, ok := tx.state.wallets[walletID]; !ok {
			return domain.SemosEmission{}, domain.NotFoundError{Entity: domain.EntityWallet, ID: walletID}
		}
	}
	if e.ID == "" {
		e.ID = tx.store.newID()
	}
	if _, exists := tx.state.emissions[e.ID]; exists {
		return domain.SemosEmission{}, domain.ConflictError{Entity: domain.EntitySemosEmission, ID: e.ID, Message: "already exists"}
	}
	if e.MintedAt.IsZero() {
		e.MintedAt = tx.now
	}
	tx.stamp(&e.Base, e.ID)

	memo := "emission: " + e.Reason
	for _, walletID := range e.WalletIDs {
		if _, err := tx.PostSemosTransaction(domain.SemosTransaction{
			WalletID: walletID,
			Amount:   e.Amount,
			Kind:     domain.TransactionEmission,
			Memo:     &memo,
			PostedAt: e.MintedAt,
		}); err != nil {
			return domain.SemosEmission{}, err
		}
	}

	tx.state.emissions[e.ID] = cloneEmission(e)
	tx.recordChange(domain.Change{Entity: domain.EntitySemosEmission, Action: domain.ActionCreate, After: cloneEmission(e)})
	return cloneEmission(e), nil
}

// SetSemosRate records a new conversion rate effective from its valid_from.
func (tx *Transaction) SetSemosRate(r domain.SemosRate) (domain.SemosRate, error) {
	if err := domain.NewValidationError(domain.EntitySemosRate, domain.ValidateSemosRate(r)); err != nil {
		return domain.SemosRate{}, err
	}
	if r.ID == "" {
		r.ID = tx.store.newID()
	}
	if _, exists := tx.state.rates[r.ID]; exists {
		return domain.SemosRate{}, domain.ConflictError{Entity: domain.EntitySemosRate, ID: r.ID, Message: "already exists"}
	}
	tx.stamp(&r.Base, r.ID)
	tx.state.rates[r.ID] = r
	tx.recordChange(domain.Change{Entity: domain.EntitySemosRate, Action: domain.ActionCreate, After: r})
	return r, nil
}

// RecordHillChartSnapshot appends a progress marker for a scope. Snapshots
// are append-only; history is never rewritten.
func (tx *Transaction) RecordHillChartSnapshot(s domain.HillChartSnapshot) (domain.HillChartSnapshot, error) {
	if err := domain.NewValidationError(domain.EntityHillChartSnapshot, domain.ValidateHillChartSnapshot(s)); err != nil {
		return domain.HillChartSnapshot{}, err
	}
	if _, ok := tx.state.scopes[s.ScopeID]; !ok {
		return domain.HillChartSnapshot{}, domain.NotFoundError{Entity: domain.EntityScope, ID: s.ScopeID}
	}
	if s.ID == "" {
		s.ID = tx.store.newID()
	}
	if _, exists := tx.state.snapshots[s.ID]; exists {
		return domain.HillChartSnapshot{}, domain.ConflictError{Entity: domain.EntityHillChartSnapshot, ID: s.ID, Message: "already exists"}
	}
	if s.RecordedAt.IsZero() {
		s.RecordedAt = tx.now
	}
	tx.stamp(&s.Base, s.ID)
	tx.state.snapshots[s.ID] = s
	tx.recordChange(domain.Change{Entity: domain.EntityHillChartSnapshot, Action: domain.ActionCreate, After: s})
	return s, nil
}
