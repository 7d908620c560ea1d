package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	v := New()
	v.Required("email", "")
	v.Required("password", "secret1")
	v.MinLen("password", "secret1", 8)

	assert.True(t, v.Failed())
	assert.Equal(t, "is required", v.Errors()["email"])
	assert.Equal(t, "must be at least 8 characters", v.Errors()["password"])
}

func TestValidator_FirstErrorPerFieldWins(t *testing.T) {
	t.Parallel()

	v := New()
	v.Required("email", "")
	v.Email("email", "")

	assert.Equal(t, "is required", v.Errors()["email"])
}

func TestValidator_Email(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		ok    bool
	}{
		{"alice@example.com", true},
		{"alice@example", false},
		{"not-an-email", false},
		{"a b@example.com", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			v := New()
			v.Email("email", tt.value)
			assert.Equal(t, !tt.ok, v.Failed())
		})
	}
}

func TestValidator_Phone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		ok    bool
	}{
		{"+15551234567", true},
		{"15551234567", false},
		{"+1", false},
		{"+1555abc4567", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			v := New()
			v.Phone("phone", tt.value)
			assert.Equal(t, !tt.ok, v.Failed())
		})
	}
}
