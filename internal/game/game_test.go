// internal/game/game_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/tbg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestGame creates a private game, seats the named players in order and starts it.
func setupTestGame(t *testing.T, names ...string) (*Game, []*models.Player) {
	t.Helper()
	g := NewGame(VisibilityPrivate)
	players := make([]*models.Player, len(names))
	for i, name := range names {
		p, err := g.AddPlayer(name)
		require.NoError(t, err)
		players[i] = p
	}
	_, err := g.Start(players[0].Token)
	require.NoError(t, err)
	return g, players
}

// takeKind pulls a card of the named kind out of the deck so tests can place it
// without breaking card conservation.
func takeKind(t *testing.T, g *Game, name string) *models.Card {
	t.Helper()
	for _, c := range g.Deck.Cards {
		if c.Name() == name {
			card, ok := g.Deck.Remove(c.ID)
			require.True(t, ok)
			return card
		}
	}
	t.Fatalf("no %s left in deck", name)
	return nil
}

// discardHand moves every card in p's hand onto the discard pile.
func discardHand(g *Game, p *models.Player) {
	g.Discard.Push(p.Hand...)
	p.Hand = []*models.Card{}
}

// assertInvariants checks card conservation and field homogeneity.
func assertInvariants(t *testing.T, g *Game) {
	t.Helper()
	assert.Equal(t, models.CatalogTotal(), g.TotalCards(), "card conservation")
	for _, p := range g.Players {
		for i, f := range p.Fields {
			for _, c := range f.Cards {
				assert.Equal(t, f.CardKind(), c.Name(), "field %d of %s holds mixed kinds", i, p.Name)
			}
		}
	}
}

func TestNewGameBuildsFullDeck(t *testing.T) {
	g := NewGame(VisibilityPublic)
	assert.Equal(t, StatusAwaiting, g.Status)
	assert.Equal(t, models.CatalogTotal(), g.Deck.Len())
	assert.Equal(t, 0, g.Playthrough)
}

func TestStartRequiresHost(t *testing.T) {
	g := NewGame(VisibilityPrivate)
	alice, err := g.AddPlayer("Alice")
	require.NoError(t, err)
	assert.True(t, alice.IsHost)

	// Bob has no seat yet, so his token is unknown.
	_, err = g.Start(uuid.New())
	assert.ErrorIs(t, err, ErrNotHost)

	bob, err := g.AddPlayer("Bob")
	require.NoError(t, err)
	assert.False(t, bob.IsHost)

	_, err = g.Start(bob.Token)
	assert.ErrorIs(t, err, ErrNotHost)

	msg, err := g.Start(alice.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, msg)
	assert.Equal(t, StatusRunning, g.Status)
	assert.Equal(t, StageFirstCard, g.Stage)
	assert.Len(t, alice.Hand, StartingHandSize)
	assert.Len(t, bob.Hand, StartingHandSize)
	assertInvariants(t, g)

	_, err = g.Start(alice.Token)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestStartNeedsTwoPlayers(t *testing.T) {
	g := NewGame(VisibilityPrivate)
	alice, _ := g.AddPlayer("Alice")
	_, err := g.Start(alice.Token)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
	assert.Equal(t, StatusAwaiting, g.Status)
}

func TestAddPlayerRejections(t *testing.T) {
	g := NewGame(VisibilityPublic)

	_, err := g.AddPlayer("")
	assert.ErrorIs(t, err, ErrEmptyName)

	for i := 0; i < MaxPlayers; i++ {
		_, err := g.AddPlayer(string(rune('A' + i)))
		require.NoError(t, err)
	}
	_, err = g.AddPlayer("A")
	assert.ErrorIs(t, err, ErrNameTaken)
	_, err = g.AddPlayer("Zed")
	assert.ErrorIs(t, err, ErrGameFull)

	_, err = g.Start(g.Players[0].Token)
	require.NoError(t, err)
	_, err = g.AddPlayer("Late")
	assert.ErrorIs(t, err, ErrGameClosed)
}

func TestRemovePlayerPassesHost(t *testing.T) {
	g := NewGame(VisibilityPublic)
	alice, _ := g.AddPlayer("Alice")
	bob, _ := g.AddPlayer("Bob")
	carol, _ := g.AddPlayer("Carol")

	require.NoError(t, g.RemovePlayer(alice.Token))
	assert.False(t, alice.IsHost)
	assert.True(t, bob.IsHost)
	assert.False(t, carol.IsHost)
	assert.Equal(t, 2, g.PlayerCount())

	assert.ErrorIs(t, g.RemovePlayer(alice.Token), ErrPlayerNotFound)

	_, err := g.Start(bob.Token)
	require.NoError(t, err)
	assert.ErrorIs(t, g.RemovePlayer(carol.Token), ErrAlreadyStarted)
}

func TestEndGameTieGoesToEarliestJoiner(t *testing.T) {
	g, players := setupTestGame(t, "Alice", "Bob", "Carol")
	alice, bob, carol := players[0], players[1], players[2]

	bob.Treasury = append(bob.Treasury, takeKind(t, g, "Wax Bean"), takeKind(t, g, "Wax Bean"))
	carol.Treasury = append(carol.Treasury, takeKind(t, g, "Wax Bean"), takeKind(t, g, "Wax Bean"))

	var gotWinner string
	var gotScores map[string]int
	g.OnGameEnd = func(_ uuid.UUID, winner string, scores map[string]int) {
		gotWinner = winner
		gotScores = scores
	}
	g.endGame()

	assert.Equal(t, StatusCompleted, g.Status)
	assert.Equal(t, "Bob", g.Winner)
	assert.Equal(t, "Bob", gotWinner)
	assert.Equal(t, map[string]int{"Alice": alice.Coins(), "Bob": 2, "Carol": 2}, gotScores)
	assertInvariants(t, g)
}

func TestEndGameCashesInFields(t *testing.T) {
	g, players := setupTestGame(t, "Alice", "Bob")
	alice := players[0]
	for i := 0; i < 3; i++ {
		alice.Fields[0].TryAdd(takeKind(t, g, "Red Bean"))
	}
	g.Trades = append(g.Trades, models.NewTrade(alice, players[1], nil, []string{"Red Bean"}))

	g.endGame()

	assert.Equal(t, 2, alice.Coins())
	assert.Empty(t, alice.Fields[0].Cards)
	assert.Equal(t, "Alice", g.Winner)
	assert.Empty(t, g.Trades)
	assertInvariants(t, g)
}
