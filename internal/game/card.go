package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Suit identifies one of the four French suits.
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
)

// Suits lists all suits in deck-construction order.
var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Rank identifies a card rank. Ten is "T" so every rank is a single character.
type Rank string

const (
	RankAce   Rank = "A"
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "T"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
)

// Ranks lists all ranks in deck-construction order.
var Ranks = []Rank{
	RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing,
}

// Value returns the point value of the rank: Ace=1, Two-Ten=face value,
// Jack=11, Queen=12, King=13.
func (r Rank) Value() int {
	switch r {
	case RankAce:
		return 1
	case RankTwo:
		return 2
	case RankThree:
		return 3
	case RankFour:
		return 4
	case RankFive:
		return 5
	case RankSix:
		return 6
	case RankSeven:
		return 7
	case RankEight:
		return 8
	case RankNine:
		return 9
	case RankTen:
		return 10
	case RankJack:
		return 11
	case RankQueen:
		return 12
	case RankKing:
		return 13
	}
	return 0
}

// IsSpecial reports whether discarding this rank grants a special ability.
// King and Queen grant peek-then-swap; Jack grants swap-only.
func (r Rank) IsSpecial() bool {
	return r == RankKing || r == RankQueen || r == RankJack
}

// PeekTargetCount returns the number of peek targets the rank's ability
// requires: King 2, Queen 1, everything else 0.
func (r Rank) PeekTargetCount() int {
	switch r {
	case RankKing:
		return 2
	case RankQueen:
		return 1
	}
	return 0
}

// Card is an immutable playing card with a stable identifier.
type Card struct {
	ID   uuid.UUID `json:"id"`
	Rank Rank      `json:"rank"`
	Suit Suit      `json:"suit"`
}

// Value returns the card's point value.
func (c Card) Value() int { return c.Rank.Value() }

// String renders the card as e.g. "K♠" would render textually: "K-spades".
func (c Card) String() string { return fmt.Sprintf("%s-%s", c.Rank, c.Suit) }

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// NewDeck produces a shuffled 52-card deck. Each card receives a fresh
// uuid so clients can track card identity without learning its face.
func NewDeck(rng *rand.Rand) []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{ID: uuid.New(), Rank: r, Suit: s})
		}
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}
