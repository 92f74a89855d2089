package engine

import (
	"math/rand"
	"testing"

	"github.com/mtran/switchstack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckComposition(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	seen := map[string]bool{}
	suitCounts := map[models.Suit]int{}
	jokers := 0
	for _, c := range deck {
		assert.False(t, seen[c.ID], "duplicate card id %s", c.ID)
		seen[c.ID] = true
		if c.Rank == models.RankJoker {
			jokers++
		} else {
			suitCounts[c.Suit]++
		}
	}
	assert.Equal(t, 2, jokers)
	for _, suit := range suits {
		assert.Equal(t, 13, suitCounts[suit], "suit %s", suit)
	}
}

func TestNewDeckDeterministic(t *testing.T) {
	a := NewDeck()
	b := NewDeck()
	assert.Equal(t, a, b, "deck construction should be a pure function")
}

func TestAttackRanks(t *testing.T) {
	assert.True(t, models.RankTwo.IsAttack())
	assert.True(t, models.RankThree.IsAttack())
	assert.True(t, models.RankJoker.IsAttack())
	assert.False(t, models.RankAce.IsAttack())
	assert.False(t, models.RankEight.IsAttack())
	assert.False(t, models.RankKing.IsAttack())
}

func TestShufflePreservesMultiset(t *testing.T) {
	deck := NewDeck()
	shuffled := append([]models.Card(nil), deck...)
	Shuffle(shuffled, rand.New(rand.NewSource(1)))

	require.Len(t, shuffled, len(deck))
	counts := map[string]int{}
	for _, c := range deck {
		counts[c.ID]++
	}
	for _, c := range shuffled {
		counts[c.ID]--
	}
	for id, n := range counts {
		assert.Zero(t, n, "card %s gained or lost", id)
	}
}

func TestShuffleReproducible(t *testing.T) {
	a := NewDeck()
	b := NewDeck()
	Shuffle(a, rand.New(rand.NewSource(99)))
	Shuffle(b, rand.New(rand.NewSource(99)))
	assert.Equal(t, a, b, "same seed should produce the same permutation")
}
