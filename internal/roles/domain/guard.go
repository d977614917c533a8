package domain

import "github.com/google/uuid"

// DecisionKind is the verdict of the invariant guard.
type DecisionKind int

const (
	Allow DecisionKind = iota
	Deny
	RequiresConfirmation
)

func (k DecisionKind) String() string {
	switch k {
	case Deny:
		return "deny"
	case RequiresConfirmation:
		return "requires_confirmation"
	default:
		return "allow"
	}
}

// Reason explains a Deny or RequiresConfirmation decision.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonLastOwnerProtected Reason = "last_owner_protected"
	ReasonSelfDemotion       Reason = "self_demotion"
)

// GuardInput is everything the guard needs to judge one proposed change.
// OwnerCount must be read in the same atomic unit as the mutation that
// follows the decision.
type GuardInput struct {
	ActorID    uuid.UUID
	TargetID   uuid.UUID
	Current    Role // NoRole when the target is unassigned
	Requested  Role // ignored when IsRemoval is set
	IsRemoval  bool
	OwnerCount int
}

// Decision is the outcome of Decide.
type Decision struct {
	Kind   DecisionKind
	Reason Reason
}

func (d Decision) Allowed() bool { return d.Kind == Allow }

// Decide evaluates a proposed role change. Rules, first match wins:
//
//  1. Taking the owner role away from the only owner is denied. Nothing,
//     including confirmation, waives this.
//  2. An actor lowering their own role must confirm. Removal has no
//     confirmation step.
//  3. Anything else is allowed.
func Decide(in GuardInput) Decision {
	if in.Current == RoleOwner &&
		(in.IsRemoval || in.Requested != RoleOwner) &&
		in.OwnerCount <= 1 {
		return Decision{Kind: Deny, Reason: ReasonLastOwnerProtected}
	}

	if !in.IsRemoval &&
		in.ActorID == in.TargetID &&
		in.Current != NoRole &&
		in.Requested.IsLowerThan(in.Current) {
		return Decision{Kind: RequiresConfirmation, Reason: ReasonSelfDemotion}
	}

	return Decision{Kind: Allow}
}
