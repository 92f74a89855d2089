// internal/handlers/game_server_test.go
package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtran/switchstack/internal/engine"
	"github.com/mtran/switchstack/internal/models"
)

func TestViewForRedactsOtherHands(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	snap := &engine.GameState{
		ID:              uuid.New(),
		RoomID:          uuid.New(),
		Phase:           engine.PhasePlaying,
		PlayerOrder:     []uuid.UUID{p1, p2},
		CurrentPlayerID: p1,
		PlayerHands: []models.PlayerHand{
			{PlayerID: p1, Cards: []models.Card{
				{ID: "hearts-ace", Suit: models.SuitHearts, Rank: models.RankAce},
				{ID: "spades-two", Suit: models.SuitSpades, Rank: models.RankTwo},
			}},
			{PlayerID: p2, Cards: []models.Card{
				{ID: "flowers-king", Suit: models.SuitFlowers, Rank: models.RankKing},
			}},
		},
		DiscardPile: []models.Card{
			{ID: "diamonds-nine", Suit: models.SuitDiamonds, Rank: models.RankNine},
		},
		DrawPile:    make([]models.Card, 40),
		Direction:   1,
		AttackStack: 2,
		TurnCount:   3,
	}

	view := viewFor(snap, p1)

	assert.Equal(t, "game_state", view.Type)
	assert.Equal(t, 40, view.DrawCount)
	assert.Equal(t, 1, view.DiscardCount)
	assert.Equal(t, 2, view.AttackStack)
	require.NotNil(t, view.TopDiscard)
	assert.Equal(t, "diamonds-nine", view.TopDiscard.ID)

	require.Len(t, view.Hands, 2)

	// viewer sees their own cards
	assert.Equal(t, p1, view.Hands[0].PlayerID)
	assert.Len(t, view.Hands[0].Cards, 2)
	assert.Equal(t, 2, view.Hands[0].CardsCount)

	// opponent hand reduced to a count
	assert.Equal(t, p2, view.Hands[1].PlayerID)
	assert.Nil(t, view.Hands[1].Cards)
	assert.Equal(t, 1, view.Hands[1].CardsCount)
}

func TestViewForSpectator(t *testing.T) {
	p1 := uuid.New()
	snap := &engine.GameState{
		PlayerOrder: []uuid.UUID{p1},
		PlayerHands: []models.PlayerHand{
			{PlayerID: p1, Cards: []models.Card{
				{ID: "hearts-ace", Suit: models.SuitHearts, Rank: models.RankAce},
			}},
		},
	}

	view := viewFor(snap, uuid.New())
	require.Len(t, view.Hands, 1)
	assert.Nil(t, view.Hands[0].Cards)
	assert.Equal(t, 1, view.Hands[0].CardsCount)
	assert.Nil(t, view.TopDiscard)
}

func TestExtractCookieToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"single cookie", "auth_token=abc123", "abc123"},
		{"trailing cookie", "auth_token=abc123; other=x", "abc123"},
		{"leading cookie", "other=x; auth_token=abc123", "abc123"},
		{"absent", "other=x", ""},
		{"empty header", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractCookieToken(tc.header, "auth_token"))
		})
	}
}

func TestRoomIDFromPath(t *testing.T) {
	id := uuid.New()

	got, err := roomIDFromPath("/rooms/join/"+id.String(), "/rooms/join/")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = roomIDFromPath("/rooms/join/"+id.String()+"/extra", "/rooms/join/")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = roomIDFromPath("/rooms/join/", "/rooms/join/")
	assert.Error(t, err)

	_, err = roomIDFromPath("/rooms/join/not-a-uuid", "/rooms/join/")
	assert.Error(t, err)
}
