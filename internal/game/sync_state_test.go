package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewHidesOtherHands(t *testing.T) {
	g, players := setupTestGame(t, "Alice", "Bob")
	alice := players[0]

	view, err := g.View(alice.Token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", view.PlayerInfo.Name)
	assert.Len(t, view.PlayerInfo.Hand, StartingHandSize)
	assert.Equal(t, "Alice", view.CurrentPlayer)
	assert.Equal(t, "First Card", view.Stage)
	assert.Equal(t, StatusRunning, view.Status)
	assert.Equal(t, VisibilityPrivate, view.GameType)
	require.Len(t, view.Players, 2)
	assert.Equal(t, StartingHandSize, view.Players[1].HandCount)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	for _, c := range players[1].Hand {
		assert.NotContains(t, string(data), c.ID.String(), "Bob's cards must not leak")
	}
}

func TestUpdateForStreamsPatches(t *testing.T) {
	g, players := setupTestGame(t, "Alice", "Bob")
	alice, bob := players[0], players[1]

	payload, full, err := g.UpdateFor(bob.Token)
	require.NoError(t, err)
	assert.True(t, full)
	var view GameView
	require.NoError(t, json.Unmarshal(payload, &view))
	assert.Equal(t, "Bob", view.PlayerInfo.Name)

	payload, full, err = g.UpdateFor(bob.Token)
	require.NoError(t, err)
	assert.False(t, full)
	assert.Empty(t, payload, "nothing changed")

	_, err = g.PlayFromHand(alice.Token, 0)
	require.NoError(t, err)

	payload, full, err = g.UpdateFor(bob.Token)
	require.NoError(t, err)
	assert.False(t, full)
	var ops []struct {
		Op   string `json:"op"`
		Path string `json:"path"`
	}
	require.NoError(t, json.Unmarshal(payload, &ops))
	paths := make([]string, 0, len(ops))
	for _, op := range ops {
		paths = append(paths, op.Path)
	}
	assert.Contains(t, paths, "/stage")

	g.ResetBaseline(bob.Token)
	_, full, err = g.UpdateFor(bob.Token)
	require.NoError(t, err)
	assert.True(t, full)
}
