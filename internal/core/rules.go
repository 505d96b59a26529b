package core

import "guildcore/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewWalletReconciliationRule())
	engine.Register(NewScopeRankRule())
	engine.Register(NewCycleAssignmentRule())
	engine.Register(NewBettingPhaseRule())
	return engine
}
