package main

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Suit of a playing card. The zero value means the suit could not be decoded.
type Suit int

const (
	SuitUnknown Suit = iota
	Clubs
	Diamonds
	Hearts
	Spades
)

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "Clubs"
	case Diamonds:
		return "Diamonds"
	case Hearts:
		return "Hearts"
	case Spades:
		return "Spades"
	default:
		return "unknown"
	}
}

// Rank of a playing card, 2..14 with Ace high. Zero means undecoded.
type Rank int

const (
	RankUnknown Rank = 0
	Jack        Rank = 11
	Queen       Rank = 12
	King        Rank = 13
	Ace         Rank = 14
)

func (r Rank) String() string {
	switch {
	case r == Jack:
		return "Jack"
	case r == Queen:
		return "Queen"
	case r == King:
		return "King"
	case r == Ace:
		return "Ace"
	case r >= 2 && r <= 10:
		return strconv.Itoa(int(r))
	default:
		return "unknown"
	}
}

// Card is a decoded card value. The zero value is the unknown card.
type Card struct {
	Rank Rank
	Suit Suit
}

const unknownCardLabel = "Unknown Card"

// Known reports whether both rank and suit were decoded.
func (c Card) Known() bool {
	return c.Rank != RankUnknown && c.Suit != SuitUnknown
}

// String renders "Ace of Spades" style labels, or "Unknown Card" when
// either half failed to decode.
func (c Card) String() string {
	if !c.Known() {
		return unknownCardLabel
	}
	return c.Rank.String() + " of " + c.Suit.String()
}

// Cards serialize as their display label.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

var suitTokens = map[string]Suit{
	"card-c": Clubs,
	"card-d": Diamonds,
	"card-h": Hearts,
	"card-s": Spades,
}

// decodeCardClass decodes the class attribute of a card visual into a Card.
// The site encodes rank as a "card-s-<X>" token and suit as one of
// card-c/card-d/card-h/card-s. Rank and suit tokens are disjoint ("card-s"
// never carries a rank), so scan order does not matter.
func decodeCardClass(classAttr string) Card {
	var c Card
	for _, tok := range strings.Fields(classAttr) {
		if strings.HasPrefix(tok, "card-s-") {
			c.Rank = rankFromToken(tok[strings.LastIndexByte(tok, '-')+1:])
			continue
		}
		if s, ok := suitTokens[tok]; ok {
			c.Suit = s
		}
	}
	return c
}

func rankFromToken(tok string) Rank {
	switch strings.ToUpper(tok) {
	case "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(tok)
		return Rank(n)
	case "T":
		return Rank(10)
	case "J":
		return Jack
	case "Q":
		return Queen
	case "K":
		return King
	case "A":
		return Ace
	default:
		return RankUnknown
	}
}
