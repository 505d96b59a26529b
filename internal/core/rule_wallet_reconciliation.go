package core

import (
	"context"
	"fmt"

	"guildcore/pkg/domain"
)

// NewWalletReconciliationRule returns the in-transaction rule enforcing that
// every wallet balance equals the signed sum of its ledger entries.
func NewWalletReconciliationRule() domain.Rule {
	return walletReconciliationRule{}
}

type walletReconciliationRule struct{}

func (walletReconciliationRule) Name() string { return "wallet_reconciliation" }

func (walletReconciliationRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	sums := make(map[string]int64)
	for _, entry := range view.ListSemosTransactions() {
		sums[entry.WalletID] += entry.Amount
	}

	res := domain.Result{}
	for _, wallet := range view.ListWallets() {
		if sum := sums[wallet.ID]; sum != wallet.Balance {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "wallet_reconciliation",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("wallet %s balance %d does not match ledger sum %d", wallet.ID, wallet.Balance, sum),
				Entity:   domain.EntityWallet,
				EntityID: wallet.ID,
			})
		}
	}
	return res, nil
}
