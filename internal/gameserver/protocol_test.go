package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilefall/tilefall/internal/world"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Action
	}{
		{
			name: "resign",
			data: `{"type":"resign"}`,
			want: Action{Kind: ActionResign},
		},
		{
			name: "cancel moves",
			data: `{"type":"cancel_moves"}`,
			want: Action{Kind: ActionCancelMoves},
		},
		{
			name: "move",
			data: `{"type":"move","from":12,"direction":"left"}`,
			want: Action{Kind: ActionMove, Move: world.Move{From: 12, Direction: world.Left}},
		},
		{
			name: "move ignores extra fields",
			data: `{"type":"move","from":0,"direction":"down","units":99}`,
			want: Action{Kind: ActionMove, Move: world.Move{From: 0, Direction: world.Down}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act, err := ParseAction([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, act)
		})
	}
}

func TestParseActionRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `resign`},
		{name: "unknown type", data: `{"type":"teleport"}`},
		{name: "move without from", data: `{"type":"move","direction":"up"}`},
		{name: "move without direction", data: `{"type":"move","from":3}`},
		{name: "move with bad direction", data: `{"type":"move","from":3,"direction":"north"}`},
		{name: "empty object", data: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAction([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedAction)
		})
	}
}

func TestActionKindString(t *testing.T) {
	assert.Equal(t, "move", ActionMove.String())
	assert.Equal(t, "resign", ActionResign.String())
	assert.Equal(t, "cancel_moves", ActionCancelMoves.String())
}
