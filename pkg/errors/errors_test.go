package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrRemote_Transient(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{429, true},
		{500, true},
		{503, true},
		{400, false},
		{404, false},
		{422, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := &ErrRemote{Service: "shopify", Status: tt.status}
			assert.Equal(t, tt.want, err.Transient())
		})
	}
}

func TestIsTransient_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("failed to list products: %w", &ErrRemote{Service: "shopify", Status: 429})
	assert.True(t, IsTransient(wrapped))
	assert.False(t, IsTransient(errors.New("boom")))
	assert.False(t, IsTransient(nil))
}

func TestErrUserErrors_Message(t *testing.T) {
	err := &ErrUserErrors{Operation: "productUpdate", Errors: []UserError{
		{Field: []string{"input", "title"}, Message: "is too long"},
		{Message: "product is locked"},
	}}
	assert.Equal(t, "productUpdate userErrors: input.title: is too long; product is locked", err.Error())
}

func TestErrFetchFailed_Joined(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrFetchFailed, &ErrRemote{Service: "shopify", Status: 502})
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.True(t, IsTransient(err))
}
