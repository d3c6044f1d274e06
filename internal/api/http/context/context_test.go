package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager()
	id := uuid.New()

	ctx := m.SetUserIDToContext(context.Background(), id)

	got, ok := m.GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestManager_GetUserIDFromContext_Missing(t *testing.T) {
	m := NewManager()

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{name: "empty context", ctx: context.Background()},
		{name: "nil id", ctx: m.SetUserIDToContext(context.Background(), uuid.Nil)},
		{name: "foreign value under a string key", ctx: context.WithValue(context.Background(), "user_id", uuid.New())}, //nolint:staticcheck
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.GetUserIDFromContext(tt.ctx)
			assert.False(t, ok)
			assert.Equal(t, uuid.Nil, got)
		})
	}
}

func TestManager_Overwrite(t *testing.T) {
	m := NewManager()
	first, second := uuid.New(), uuid.New()

	ctx := m.SetUserIDToContext(m.SetUserIDToContext(context.Background(), first), second)

	got, ok := m.GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, second, got)
}
