package interactive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/salvo/internal/domain/config"
)

func TestConfirmerNonInteractive(t *testing.T) {
	c := NewConfirmerAdapter(&config.RuntimeConfig{NonInteractive: true})

	ok, err := c.Confirm(context.Background(), "Deploy to mainnet")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNonInteractive)
}
