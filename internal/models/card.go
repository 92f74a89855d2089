// internal/models/card.go
package models

// Suit is one of the four card suits used by the deck.
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitSpades   Suit = "spades"
	SuitFlowers  Suit = "flowers"
)

// Rank identifies a card face value. Jokers carry their own rank.
type Rank string

const (
	RankAce   Rank = "ace"
	RankTwo   Rank = "two"
	RankThree Rank = "three"
	RankFour  Rank = "four"
	RankFive  Rank = "five"
	RankSix   Rank = "six"
	RankSeven Rank = "seven"
	RankEight Rank = "eight"
	RankNine  Rank = "nine"
	RankTen   Rank = "ten"
	RankJack  Rank = "jack"
	RankQueen Rank = "queen"
	RankKing  Rank = "king"
	RankJoker Rank = "joker"
)

// Card is an immutable card value. IDs are deterministic ("hearts-ace",
// "joker-1") and unique across the 54-card set.
type Card struct {
	ID   string `json:"id"`
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
}

// IsAttack reports whether the rank carries a stacking draw penalty.
func (r Rank) IsAttack() bool {
	return r == RankTwo || r == RankThree || r == RankJoker
}
