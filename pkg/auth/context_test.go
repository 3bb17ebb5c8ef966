package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	t.Run("round-trips an identity", func(t *testing.T) {
		t.Parallel()

		alice := &Identity{ID: bson.NewObjectID(), Name: "alice"}
		ctx := WithIdentity(context.Background(), alice)

		got, ok := IdentityFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, alice, got)
	})

	t.Run("absent identity reports false", func(t *testing.T) {
		t.Parallel()

		got, ok := IdentityFromContext(context.Background())
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}
