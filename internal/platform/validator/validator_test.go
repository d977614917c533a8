package validator_test

import (
	"strings"
	"testing"

	"github.com/philly/rolekeeper/internal/platform/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type command struct {
	Targets []string `validate:"required,min=1,max=3,unique"`
	Role    string   `validate:"required,role"`
	Reason  string   `validate:"max=10"`
}

func TestValidator_Validate(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name      string
		cmd       command
		wantField string
		wantMsg   string
	}{
		{"valid", command{Targets: []string{"a"}, Role: "admin"}, "", ""},
		{"missing role", command{Targets: []string{"a"}}, "role", "is required"},
		{"unknown role", command{Targets: []string{"a"}, Role: "root"}, "role", "must be one of: owner, admin, moderator, user"},
		{"no targets", command{Role: "user"}, "targets", "is required"},
		{"too many targets", command{Targets: []string{"a", "b", "c", "d"}, Role: "user"}, "targets", "must contain at most 3 items"},
		{"duplicate targets", command{Targets: []string{"a", "a"}, Role: "user"}, "targets", "must not contain duplicates"},
		{"long reason", command{Targets: []string{"a"}, Role: "user", Reason: strings.Repeat("x", 11)}, "reason", "must be at most 10 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.cmd)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
			assert.Equal(t, tt.wantMsg, verrs[0].Message)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := validator.ValidationErrors{
		{Field: "role", Message: "is required"},
		{Field: "targets", Message: "is required"},
	}
	assert.Equal(t, "role: is required; targets: is required", errs.Error())
}

func TestSanitizeReason(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "  rotating on-call  ", "rotating on-call"},
		{"markup stripped", "<b>left</b> the team<script>alert(1)</script>", "left the team"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.SanitizeReason(tt.input))
		})
	}

	t.Run("length capped", func(t *testing.T) {
		got := validator.SanitizeReason(strings.Repeat("é", validator.MaxReasonLength+20))
		assert.Equal(t, validator.MaxReasonLength, len([]rune(got)))
	})
}
