package accounts_test

import (
	"testing"
	"time"

	accounts "github.com/leaptrade/go-accounts"
	"github.com/stretchr/testify/assert"
)

func TestIsWithinThresholdPeriod(t *testing.T) {
	now := time.Now()

	assert.True(t, accounts.IsWithinThresholdPeriod(now.Add(-time.Hour), 24*time.Hour))
	assert.False(t, accounts.IsWithinThresholdPeriod(now.Add(-25*time.Hour), 24*time.Hour))

	assert.False(t, accounts.IsOutsideThresholdPeriod(now.Add(-time.Hour), 24*time.Hour))
	assert.True(t, accounts.IsOutsideThresholdPeriod(now.Add(-25*time.Hour), 24*time.Hour))
}

func TestIsExpiredAt(t *testing.T) {
	now := time.Now()

	assert.False(t, accounts.IsExpiredAt(now, now.Add(time.Minute)))
	assert.True(t, accounts.IsExpiredAt(now, now.Add(-time.Minute)))

	// the boundary instant counts as expired
	assert.True(t, accounts.IsExpiredAt(now, now))
}
