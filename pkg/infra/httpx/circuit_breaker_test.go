package httpx

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_PassesThrough(t *testing.T) {
	breaker := NewCircuitBreaker("mailer", time.Minute, 3, nil)

	assert.NoError(t, breaker.Execute(func() error { return nil }))

	upstream := errors.New("upstream 500")
	err := breaker.Execute(func() error { return upstream })
	assert.ErrorIs(t, err, upstream)
	assert.Contains(t, err.Error(), "breaker (mailer)")
	assert.Equal(t, "closed", breaker.State())
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	breaker := NewCircuitBreaker("payment", time.Minute, 2, logger)
	failing := func() error { return errors.New("timeout") }

	_ = breaker.Execute(failing)
	_ = breaker.Execute(failing)
	assert.Equal(t, "open", breaker.State())

	called := false
	err := breaker.Execute(func() error {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.True(t, IsCircuitOpen(err))
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.NotEmpty(t, hook.AllEntries())
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	breaker := NewCircuitBreaker("recover", 10*time.Millisecond, 1, nil)

	_ = breaker.Execute(func() error { return errors.New("down") })
	assert.Equal(t, "open", breaker.State())

	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, breaker.Execute(func() error { return nil }))
	assert.Equal(t, "closed", breaker.State())
}
