package errors

import (
	"context"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))

	err := Wrap(ErrNotFound, "fetching descriptor")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "fetching descriptor: resource not found", err.Error())
}

func TestWrapf(t *testing.T) {
	assert.Nil(t, Wrapf(nil, "attempt %d", 1))

	err := Wrapf(ErrChecksumMismatch, "artifact %s", "org.example:lib:1.0")
	assert.ErrorIs(t, err, ErrChecksumMismatch)
	assert.Contains(t, err.Error(), "org.example:lib:1.0")
}

func TestIsConnectivity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", Wrap(ErrConnectivity, "GET"), true},
		{"dns failure", &net.DNSError{Err: "no such host"}, true},
		{"timeout", &net.DNSError{Err: "timeout", IsTimeout: true}, true},
		{"cancelled context", fmt.Errorf("request: %w", context.Canceled), true},
		{"deadline", context.DeadlineExceeded, true},
		{"not found", ErrNotFound, false},
		{"plain error", fmt.Errorf("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnectivity(tt.err))
		})
	}
}

func TestIsNotFoundAndIsParse(t *testing.T) {
	assert.True(t, IsNotFound(Wrapf(ErrNotFound, "pom")))
	assert.False(t, IsNotFound(ErrParse))
	assert.True(t, IsParse(Wrap(ErrParse, "pom.xml")))
	assert.False(t, IsParse(ErrNotFound))
}
