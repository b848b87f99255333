package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()

	for name, c := range map[string]*Cache{
		"nil cache":  nil,
		"nil client": New(nil, "reconciliation:keys", time.Minute),
	} {
		t.Run(name, func(t *testing.T) {
			var dest map[string]int
			found, err := c.GetObject(ctx, "k", &dest)
			require.NoError(t, err)
			assert.False(t, found)

			assert.NoError(t, c.SetObject(ctx, "k", map[string]int{"a": 1}))
			assert.NoError(t, c.Invalidate(ctx))
		})
	}
}
