// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelearn/codelearn-api/internal/platform/apperr"
	"github.com/codelearn/codelearn-api/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "CodeLearn", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "student@codelearn.dev", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Lengths covers the string length boundaries.
*/
func TestValidator_Lengths(t *testing.T) {
	t.Run("min_len", func(t *testing.T) {
		v := &validate.Validator{}
		v.MinLen("username", "ab", 3)
		assert.True(t, v.HasErrors())

		v = &validate.Validator{}
		v.MinLen("username", "abc", 3)
		assert.False(t, v.HasErrors())
	})

	t.Run("max_len", func(t *testing.T) {
		v := &validate.Validator{}
		v.MaxLen("username", "abcdef", 5)
		assert.True(t, v.HasErrors())

		v = &validate.Validator{}
		v.MaxLen("username", "abcde", 5)
		assert.False(t, v.HasErrors())
	})
}

/*
TestValidator_OneOf restricts values to a closed set.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("role", "admin", "user", "admin")
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.OneOf("role", "root", "user", "admin")
	assert.True(t, v.HasErrors())
}

/*
TestValidator_UUID checks identifier format validation.
*/
func TestValidator_UUID(t *testing.T) {
	v := &validate.Validator{}
	v.UUID("id", "018f3c6e-1b2a-7c3d-8e4f-5a6b7c8d9e0f")
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.UUID("id", "not-a-uuid")
	assert.True(t, v.HasErrors())
}

/*
TestValidator_Chaining accumulates every failure, not just the first.
*/
func TestValidator_Chaining(t *testing.T) {
	v := &validate.Validator{}
	v.Required("username", "").
		Required("password", "").
		Email("email", "broken")

	require.True(t, v.HasErrors())

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 3)
}
