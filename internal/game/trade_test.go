package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/tbg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTradeStage starts a game and moves Alice's turn to the trading stage with
// one Red Bean in the market and one Chili Bean plus one Soy Bean in Bob's hand.
func setupTradeStage(t *testing.T) (g *Game, alice, bob *models.Player, red, chili, soy *models.Card) {
	t.Helper()
	g, players := setupTestGame(t, "Alice", "Bob")
	alice, bob = players[0], players[1]
	red = takeKind(t, g, "Red Bean")
	chili = takeKind(t, g, "Chili Bean")
	soy = takeKind(t, g, "Soy Bean")
	g.Market.Push(red)
	bob.Hand = append(bob.Hand, chili, soy)
	g.Stage = StagePostMarketFlip
	return g, alice, bob, red, chili, soy
}

func TestTradeMismatchMovesNothing(t *testing.T) {
	g, alice, bob, red, _, soy := setupTradeStage(t)

	tradeID, err := g.CreateTrade(alice.Token, "Bob", []uuid.UUID{red.ID}, []string{"Chili Bean"})
	require.NoError(t, err)
	require.Len(t, g.Trades, 1)
	before := snapshot(t, g, bob)

	_, err = g.AcceptTrade(bob.Token, tradeID, []uuid.UUID{soy.ID})
	assert.ErrorIs(t, err, ErrTradeMismatch)
	assert.Equal(t, before, snapshot(t, g, bob))
	assert.Len(t, g.Trades, 1, "trade stays open")
	_, ok := g.Market.Find(red.ID)
	assert.True(t, ok)
	_, ok = bob.FindInHand(soy.ID)
	assert.True(t, ok)
	assertInvariants(t, g)
}

func TestTradeAcceptMovesCardsToPending(t *testing.T) {
	g, alice, bob, red, chili, _ := setupTradeStage(t)

	tradeID, err := g.CreateTrade(alice.Token, "Bob", []uuid.UUID{red.ID}, []string{"Chili Bean"})
	require.NoError(t, err)

	msg, err := g.AcceptTrade(bob.Token, tradeID, []uuid.UUID{chili.ID})
	require.NoError(t, err)
	assert.Equal(t, "Successfully traded cards", msg)
	assert.Empty(t, g.Trades)

	_, ok := g.Market.Find(red.ID)
	assert.False(t, ok)
	_, ok = bob.FindInHand(chili.ID)
	assert.False(t, ok)
	_, ok = bob.FindPending(red.ID)
	assert.True(t, ok)
	_, ok = alice.FindPending(chili.ID)
	assert.True(t, ok)
	assertInvariants(t, g)

	// Alice must plant what she received before finishing her turn.
	_, err = g.DrawToHand(alice.Token)
	assert.ErrorIs(t, err, ErrPendingCards)
	_, err = g.PlayFromPending(alice.Token, 0, chili.ID)
	require.NoError(t, err)
	_, err = g.PlayFromPending(bob.Token, 0, red.ID)
	require.NoError(t, err)
	_, err = g.DrawToHand(alice.Token)
	require.NoError(t, err)
	assertInvariants(t, g)
}

func TestTradeGiftWithoutWants(t *testing.T) {
	g, alice, bob, red, _, _ := setupTradeStage(t)

	tradeID, err := g.CreateTrade(alice.Token, "Bob", []uuid.UUID{red.ID}, nil)
	require.NoError(t, err)
	_, err = g.AcceptTrade(bob.Token, tradeID, nil)
	require.NoError(t, err)
	assert.Len(t, bob.Pending, 1)
	assert.Empty(t, alice.Pending)
}

func TestCreateTradeRejections(t *testing.T) {
	g, alice, bob, red, chili, _ := setupTradeStage(t)

	tests := []struct {
		name    string
		token   uuid.UUID
		target  string
		offered []uuid.UUID
		wants   []string
		err     error
	}{
		{"not proposer's turn", bob.Token, "Alice", []uuid.UUID{chili.ID}, nil, ErrNotYourTurn},
		{"unknown target", alice.Token, "Nobody", []uuid.UUID{red.ID}, nil, ErrTargetNotFound},
		{"self trade", alice.Token, "Alice", []uuid.UUID{red.ID}, nil, ErrTradeWithSelf},
		{"empty trade", alice.Token, "Bob", nil, nil, ErrEmptyTrade},
		{"unknown kind", alice.Token, "Bob", []uuid.UUID{red.ID}, []string{"Jelly Bean"}, ErrUnknownKind},
		{"card not offered by proposer", alice.Token, "Bob", []uuid.UUID{chili.ID}, nil, ErrCardNotFound},
		{"duplicate card", alice.Token, "Bob", []uuid.UUID{red.ID, red.ID}, nil, ErrDuplicateCard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.CreateTrade(tt.token, tt.target, tt.offered, tt.wants)
			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, g.Trades)
		})
	}
}

func TestAcceptTradeRejections(t *testing.T) {
	g, alice, bob, red, chili, _ := setupTradeStage(t)
	carol := models.NewPlayer("Carol")

	tradeID, err := g.CreateTrade(alice.Token, "Bob", []uuid.UUID{red.ID}, []string{"Chili Bean"})
	require.NoError(t, err)

	_, err = g.AcceptTrade(alice.Token, tradeID, []uuid.UUID{chili.ID})
	assert.ErrorIs(t, err, ErrNotTradeTarget)
	_, err = g.AcceptTrade(carol.Token, tradeID, []uuid.UUID{chili.ID})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = g.AcceptTrade(bob.Token, uuid.New(), []uuid.UUID{chili.ID})
	assert.ErrorIs(t, err, ErrTradeNotFound)
	_, err = g.AcceptTrade(bob.Token, tradeID, []uuid.UUID{red.ID})
	assert.ErrorIs(t, err, ErrDuplicateCard, "the proposer's own card cannot pay for the trade")

	g.Stage = StageFirstCard
	_, err = g.AcceptTrade(bob.Token, tradeID, []uuid.UUID{chili.ID})
	assert.ErrorIs(t, err, ErrInvalidMove)
	g.Stage = StagePostMarketFlip

	bob.Pending = append(bob.Pending, takeKind(t, g, "Wax Bean"))
	_, err = g.AcceptTrade(bob.Token, tradeID, []uuid.UUID{chili.ID})
	assert.ErrorIs(t, err, ErrPendingCards)

	assert.Len(t, g.Trades, 1)
	assertInvariants(t, g)
}

func TestStaleTradeFails(t *testing.T) {
	g, alice, bob, red, chili, _ := setupTradeStage(t)

	tradeID, err := g.CreateTrade(alice.Token, "Bob", []uuid.UUID{red.ID}, []string{"Chili Bean"})
	require.NoError(t, err)
	_, err = g.PlayFromMarket(alice.Token, 0, red.ID)
	require.NoError(t, err)

	_, err = g.AcceptTrade(bob.Token, tradeID, []uuid.UUID{chili.ID})
	assert.ErrorIs(t, err, ErrTradeStale)
	_, ok := bob.FindInHand(chili.ID)
	assert.True(t, ok)
	assert.Empty(t, alice.Pending)
	assertInvariants(t, g)
}

func TestRejectTrade(t *testing.T) {
	g, alice, bob, red, _, _ := setupTradeStage(t)

	tradeID, err := g.CreateTrade(alice.Token, "Bob", []uuid.UUID{red.ID}, []string{"Chili Bean"})
	require.NoError(t, err)

	_, err = g.RejectTrade(alice.Token, tradeID)
	assert.ErrorIs(t, err, ErrNotTradeTarget)

	msg, err := g.RejectTrade(bob.Token, tradeID)
	require.NoError(t, err)
	assert.Equal(t, "Trade rejected", msg)
	assert.Empty(t, g.Trades)
	_, ok := g.Market.Find(red.ID)
	assert.True(t, ok)

	_, err = g.RejectTrade(bob.Token, tradeID)
	assert.ErrorIs(t, err, ErrTradeNotFound)
}
