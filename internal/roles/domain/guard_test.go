package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	self := uuid.New()
	other := uuid.New()

	tests := []struct {
		name string
		in   domain.GuardInput
		want domain.Decision
	}{
		{
			name: "sole owner demoted by someone else",
			in:   domain.GuardInput{ActorID: other, TargetID: self, Current: domain.RoleOwner, Requested: domain.RoleAdmin, OwnerCount: 1},
			want: domain.Decision{Kind: domain.Deny, Reason: domain.ReasonLastOwnerProtected},
		},
		{
			name: "sole owner demoting self is denied, not confirmed",
			in:   domain.GuardInput{ActorID: self, TargetID: self, Current: domain.RoleOwner, Requested: domain.RoleAdmin, OwnerCount: 1},
			want: domain.Decision{Kind: domain.Deny, Reason: domain.ReasonLastOwnerProtected},
		},
		{
			name: "sole owner removed",
			in:   domain.GuardInput{ActorID: other, TargetID: self, Current: domain.RoleOwner, IsRemoval: true, OwnerCount: 1},
			want: domain.Decision{Kind: domain.Deny, Reason: domain.ReasonLastOwnerProtected},
		},
		{
			name: "zero owner count still protects",
			in:   domain.GuardInput{ActorID: other, TargetID: self, Current: domain.RoleOwner, Requested: domain.RoleUser, OwnerCount: 0},
			want: domain.Decision{Kind: domain.Deny, Reason: domain.ReasonLastOwnerProtected},
		},
		{
			name: "sole owner reassigned to owner",
			in:   domain.GuardInput{ActorID: self, TargetID: self, Current: domain.RoleOwner, Requested: domain.RoleOwner, OwnerCount: 1},
			want: domain.Decision{Kind: domain.Allow},
		},
		{
			name: "one of two owners demoted by the other",
			in:   domain.GuardInput{ActorID: other, TargetID: self, Current: domain.RoleOwner, Requested: domain.RoleAdmin, OwnerCount: 2},
			want: domain.Decision{Kind: domain.Allow},
		},
		{
			name: "one of two owners demoting self",
			in:   domain.GuardInput{ActorID: self, TargetID: self, Current: domain.RoleOwner, Requested: domain.RoleModerator, OwnerCount: 2},
			want: domain.Decision{Kind: domain.RequiresConfirmation, Reason: domain.ReasonSelfDemotion},
		},
		{
			name: "admin demoting self",
			in:   domain.GuardInput{ActorID: self, TargetID: self, Current: domain.RoleAdmin, Requested: domain.RoleUser, OwnerCount: 1},
			want: domain.Decision{Kind: domain.RequiresConfirmation, Reason: domain.ReasonSelfDemotion},
		},
		{
			name: "owner removing self with co-owner needs no confirmation",
			in:   domain.GuardInput{ActorID: self, TargetID: self, Current: domain.RoleOwner, IsRemoval: true, OwnerCount: 2},
			want: domain.Decision{Kind: domain.Allow},
		},
		{
			name: "self promotion is not a demotion",
			in:   domain.GuardInput{ActorID: self, TargetID: self, Current: domain.RoleModerator, Requested: domain.RoleAdmin, OwnerCount: 1},
			want: domain.Decision{Kind: domain.Allow},
		},
		{
			name: "first assignment to self",
			in:   domain.GuardInput{ActorID: self, TargetID: self, Current: domain.NoRole, Requested: domain.RoleUser, OwnerCount: 0},
			want: domain.Decision{Kind: domain.Allow},
		},
		{
			name: "demoting another admin",
			in:   domain.GuardInput{ActorID: other, TargetID: self, Current: domain.RoleAdmin, Requested: domain.RoleUser, OwnerCount: 1},
			want: domain.Decision{Kind: domain.Allow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.Decide(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Kind == domain.Allow, got.Allowed())
		})
	}
}

func TestDecisionKindString(t *testing.T) {
	assert.Equal(t, "allow", domain.Allow.String())
	assert.Equal(t, "deny", domain.Deny.String())
	assert.Equal(t, "requires_confirmation", domain.RequiresConfirmation.String())
}
