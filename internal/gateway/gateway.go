// Package gateway wraps the core service's mutations with caller
// authentication, guild-scoped authorization, and cached-view invalidation.
// Every request moves through an explicit state machine and yields a receipt
// describing its terminal state.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"guildcore/internal/core"
	"guildcore/pkg/domain"
)

// Identity is a resolved caller. An identity past ExpiresAt is treated the
// same as no identity at all.
type Identity struct {
	MemberID    string
	GuildID     string
	DisplayName string
	ExpiresAt   time.Time
}

// Expired reports whether the identity is no longer valid at now.
func (id Identity) Expired(now time.Time) bool {
	return !id.ExpiresAt.IsZero() && !now.Before(id.ExpiresAt)
}

// IdentityResolver maps a bearer token to a caller identity. Implementations
// return domain.AuthenticationError when the token is unknown.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

// Authorizer decides whether an identity may run an operation. The store is
// provided for target lookups. Implementations return
// domain.AuthorizationError on refusal.
type Authorizer interface {
	Authorize(ctx context.Context, store domain.PersistentStore, id Identity, op Operation) error
}

// Invalidator evicts cached view keys after a committed mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, keys []string) error
}

// RequestState tracks a gateway request through its lifecycle.
type RequestState string

// Request lifecycle states. Rejected and Failed are terminal; Done is the
// terminal state of a committed request.
const (
	StateReceived       RequestState = "received"
	StateAuthenticating RequestState = "authenticating"
	StateAuthorized     RequestState = "authorized"
	StateRejected       RequestState = "rejected"
	StateExecuting      RequestState = "executing"
	StateCommitted      RequestState = "committed"
	StateFailed         RequestState = "failed"
	StateInvalidating   RequestState = "invalidating"
	StateDone           RequestState = "done"
)

// Receipt summarizes one gateway request.
type Receipt struct {
	RequestID       string
	State           RequestState
	InvalidatedKeys []string
	CompletedAt     time.Time
}

// Gateway executes authenticated mutations against the core service.
type Gateway struct {
	svc         *core.Service
	resolver    IdentityResolver
	authorizer  Authorizer
	invalidator Invalidator
	logger      *zap.Logger
	now         func() time.Time
}

// Option customizes gateway construction.
type Option func(*Gateway)

// WithLogger overrides the gateway logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithInvalidator wires a cache invalidator.
func WithInvalidator(inv Invalidator) Option {
	return func(g *Gateway) {
		if inv != nil {
			g.invalidator = inv
		}
	}
}

// WithNowFunc overrides the gateway clock.
func WithNowFunc(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// New constructs a gateway over the given service. The default configuration
// uses a no-op invalidator and a no-op logger.
func New(svc *core.Service, resolver IdentityResolver, authorizer Authorizer, opts ...Option) *Gateway {
	g := &Gateway{
		svc:         svc,
		resolver:    resolver,
		authorizer:  authorizer,
		invalidator: NoopInvalidator{},
		logger:      zap.NewNop(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Execute runs one mutation on behalf of the token's identity. The receipt is
// returned for every outcome; on rejection or failure its state names the
// terminal phase and the error carries the cause.
func (g *Gateway) Execute(ctx context.Context, token string, op Operation) (Receipt, error) {
	receipt := Receipt{RequestID: uuid.NewString(), State: StateReceived}
	log := g.logger.With(
		zap.String("request_id", receipt.RequestID),
		zap.String("operation", op.Name()),
	)

	receipt.State = StateAuthenticating
	identity, err := g.resolve(ctx, token)
	if err != nil {
		receipt.State = StateRejected
		receipt.CompletedAt = g.now()
		log.Warn("request rejected", zap.Error(err))
		return receipt, err
	}
	log = log.With(zap.String("member_id", identity.MemberID))

	if err := g.authorizer.Authorize(ctx, g.svc.Store(), identity, op); err != nil {
		receipt.State = StateRejected
		receipt.CompletedAt = g.now()
		log.Warn("request rejected", zap.Error(err))
		return receipt, err
	}
	receipt.State = StateAuthorized

	receipt.State = StateExecuting
	keys, err := op.execute(ctx, g.svc)
	if err != nil {
		receipt.State = StateFailed
		receipt.CompletedAt = g.now()
		log.Error("request failed", zap.Error(err))
		return receipt, err
	}
	receipt.State = StateCommitted

	receipt.State = StateInvalidating
	if len(keys) > 0 {
		if err := g.invalidator.Invalidate(ctx, keys); err != nil {
			// The mutation is durable at this point; eviction failures are
			// logged and the stale keys surface on the receipt regardless.
			log.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
		}
	}
	receipt.InvalidatedKeys = keys
	receipt.State = StateDone
	receipt.CompletedAt = g.now()
	log.Info("request committed", zap.Strings("invalidated_keys", keys))
	return receipt, nil
}

func (g *Gateway) resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, domain.AuthenticationError{Reason: "missing token"}
	}
	identity, err := g.resolver.Resolve(ctx, token)
	if err != nil {
		var authErr domain.AuthenticationError
		if errors.As(err, &authErr) {
			return Identity{}, err
		}
		return Identity{}, domain.AuthenticationError{Reason: err.Error()}
	}
	if identity.Expired(g.now()) {
		return Identity{}, domain.AuthenticationError{Reason: "identity expired"}
	}
	return identity, nil
}

// StaticIdentityResolver resolves identities from a fixed token table.
type StaticIdentityResolver struct {
	identities map[string]Identity
}

// NewStaticIdentityResolver copies the given token table.
func NewStaticIdentityResolver(identities map[string]Identity) *StaticIdentityResolver {
	table := make(map[string]Identity, len(identities))
	for token, id := range identities {
		table[token] = id
	}
	return &StaticIdentityResolver{identities: table}
}

// Resolve implements IdentityResolver.
func (r *StaticIdentityResolver) Resolve(_ context.Context, token string) (Identity, error) {
	identity, ok := r.identities[token]
	if !ok {
		return Identity{}, domain.AuthenticationError{Reason: "unknown token"}
	}
	return identity, nil
}
