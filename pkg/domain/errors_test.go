package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRetryableClassification(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"storage unavailable", StorageUnavailableError{Op: "sqlite persist", Err: errors.New("disk full")}, true},
		{"wrapped storage unavailable", fmt.Errorf("commit: %w", StorageUnavailableError{Op: "ping postgres", Err: errors.New("refused")}), true},
		{"validation", &ValidationError{Entity: EntityGuild, Violations: []FieldViolation{{Field: "name"}}}, false},
		{"not found", NotFoundError{Entity: EntityPitch, ID: "p1"}, false},
		{"conflict", ConflictError{Entity: EntityWallet, ID: "w1", Message: "insufficient funds"}, false},
		{"authentication", AuthenticationError{Reason: "missing token"}, false},
		{"authorization", AuthorizationError{MemberID: "m1", Operation: "place_bet", Reason: "other guild"}, false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		if got := Retryable(tc.err); got != tc.retryable {
			t.Errorf("%s: Retryable = %v, want %v", tc.name, got, tc.retryable)
		}
	}
}

func TestValidationErrorListsEveryField(t *testing.T) {
	err := &ValidationError{Entity: EntityMember, Violations: []FieldViolation{
		{Field: "name", Rule: "required"},
		{Field: "email", Rule: "required"},
		{Field: "role", Rule: "enum"},
	}}
	msg := err.Error()
	for _, field := range []string{"name", "email", "role"} {
		if !strings.Contains(msg, field) {
			t.Errorf("message should name %s: %s", field, msg)
		}
	}
	if !err.HasField("email") || err.HasField("guild_id") {
		t.Fatalf("HasField misreports fields")
	}
}

func TestStorageUnavailableUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := StorageUnavailableError{Op: "postgres persist", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("expected unwrap to reach the cause")
	}
}

func TestRuleViolationErrorBlocksOnly(t *testing.T) {
	res := Result{Violations: []Violation{
		{Rule: "betting_phase", Severity: SeverityWarn},
	}}
	if res.HasBlocking() {
		t.Fatalf("warnings must not block")
	}
	res.Violations = append(res.Violations, Violation{Rule: "wallet_reconciliation", Severity: SeverityBlock})
	if !res.HasBlocking() {
		t.Fatalf("blocking violation not detected")
	}
}
