package core

import (
	"context"
	"fmt"
	"io"

	"guildcore/internal/blob"
	"guildcore/pkg/domain"
)

// TransferPitch reassigns a pitch to another cycle. The target cycle must
// exist and belong to the pitch's guild.
func (s *Service) TransferPitch(ctx context.Context, pitchID, cycleID string) (domain.Pitch, domain.Result, error) {
	var updated domain.Pitch
	var res domain.Result
	err := s.instrument(ctx, "transfer_pitch", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.TransferPitch(pitchID, cycleID)
			return txErr
		})
		return pitchID, err
	})
	return updated, res, err
}

// PrioritizeScope moves a scope to the requested rank within its pitch's
// list, renumbering the rest so ranks stay unique and contiguous.
func (s *Service) PrioritizeScope(ctx context.Context, pitchID, scopeID string, rank int) ([]domain.ScopePosition, domain.Result, error) {
	var positions []domain.ScopePosition
	var res domain.Result
	err := s.instrument(ctx, "prioritize_scope", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			positions, txErr = tx.MoveScopePosition(pitchID, scopeID, rank)
			return txErr
		})
		return scopeID, err
	})
	return positions, res, err
}

// OpenWallet opens a ledger head for a member and links the member to it.
func (s *Service) OpenWallet(ctx context.Context, wallet domain.Wallet) (domain.Wallet, domain.Result, error) {
	var created domain.Wallet
	var res domain.Result
	err := s.instrument(ctx, "open_wallet", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.CreateWallet(wallet)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// PostSemosTransaction appends a ledger entry and moves the wallet balance.
func (s *Service) PostSemosTransaction(ctx context.Context, entry domain.SemosTransaction) (domain.SemosTransaction, domain.Result, error) {
	var posted domain.SemosTransaction
	var res domain.Result
	err := s.instrument(ctx, "post_semos_transaction", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			posted, txErr = tx.PostSemosTransaction(entry)
			return txErr
		})
		return posted.ID, err
	})
	return posted, res, err
}

// MintEmission credits every target wallet and records the emission.
func (s *Service) MintEmission(ctx context.Context, emission domain.SemosEmission) (domain.SemosEmission, domain.Result, error) {
	var minted domain.SemosEmission
	var res domain.Result
	err := s.instrument(ctx, "mint_emission", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			minted, txErr = tx.MintEmission(emission)
			return txErr
		})
		return minted.ID, err
	})
	return minted, res, err
}

// SetSemosRate records a new conversion rate.
func (s *Service) SetSemosRate(ctx context.Context, rate domain.SemosRate) (domain.SemosRate, domain.Result, error) {
	var created domain.SemosRate
	var res domain.Result
	err := s.instrument(ctx, "set_semos_rate", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.SetSemosRate(rate)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// RecordTimesheet logs work time for a member.
func (s *Service) RecordTimesheet(ctx context.Context, sheet domain.Timesheet) (domain.Timesheet, domain.Result, error) {
	var created domain.Timesheet
	var res domain.Result
	err := s.instrument(ctx, "record_timesheet", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.CreateTimesheet(sheet)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// PlaceBet records a bet. When the bet names a member, the member's wallet is
// debited by the bet amount in the same transaction; both land or neither
// does. Table bets (no member) stake nothing.
func (s *Service) PlaceBet(ctx context.Context, bet domain.Bet) (domain.Bet, domain.Result, error) {
	var placed domain.Bet
	var res domain.Result
	err := s.instrument(ctx, "place_bet", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			placed, txErr = tx.CreateBet(bet)
			if txErr != nil {
				return txErr
			}
			if bet.MemberID == nil {
				return nil
			}
			member, ok := tx.Snapshot().FindMember(*bet.MemberID)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityMember, ID: *bet.MemberID}
			}
			if member.WalletID == nil {
				return domain.ConflictError{Entity: domain.EntityMember, ID: member.ID, Message: "member has no wallet to stake from"}
			}
			memo := fmt.Sprintf("bet stake on pitch %s", bet.PitchID)
			_, txErr = tx.PostSemosTransaction(domain.SemosTransaction{
				WalletID: *member.WalletID,
				Amount:   -placed.Amount,
				Kind:     domain.TransactionDebit,
				Memo:     &memo,
			})
			return txErr
		})
		return placed.ID, err
	})
	return placed, res, err
}

// RecordHillChartSnapshot appends a progress marker for a scope.
func (s *Service) RecordHillChartSnapshot(ctx context.Context, snapshot domain.HillChartSnapshot) (domain.HillChartSnapshot, domain.Result, error) {
	var created domain.HillChartSnapshot
	var res domain.Result
	err := s.instrument(ctx, "record_hill_chart_snapshot", func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			created, txErr = tx.RecordHillChartSnapshot(snapshot)
			return txErr
		})
		return created.ID, err
	})
	return created, res, err
}

// AttachBreadboardArtifact uploads an artifact for a breadboard to the blob
// store and links its key on the record. Requires WithArtifactStore.
func (s *Service) AttachBreadboardArtifact(ctx context.Context, breadboardID, filename, contentType string, r io.Reader) (domain.Breadboard, domain.Result, error) {
	var updated domain.Breadboard
	var res domain.Result
	err := s.instrument(ctx, "attach_breadboard_artifact", func(ctx context.Context) (string, error) {
		if s.artifacts == nil {
			return breadboardID, ErrNoArtifactStore
		}
		key := fmt.Sprintf("breadboards/%s/%s", breadboardID, filename)
		info, err := s.artifacts.Put(ctx, key, r, blob.PutOptions{ContentType: contentType})
		if err != nil {
			return breadboardID, fmt.Errorf("store artifact: %w", err)
		}
		res, err = s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateBreadboard(breadboardID, func(b *domain.Breadboard) error {
				b.ArtifactKey = &info.Key
				return nil
			})
			return txErr
		})
		if err != nil {
			// The record update failed; drop the orphaned blob.
			if _, delErr := s.artifacts.Delete(ctx, key); delErr != nil {
				s.logger.Warn("orphaned artifact cleanup failed", "key", key, "error", delErr)
			}
			return breadboardID, err
		}
		return breadboardID, nil
	})
	return updated, res, err
}
