package main

import (
	poker "github.com/paulhankin/poker"
)

// Showdown annotation: when a winner's two hole cards and at least three
// community cards decoded, describe their best five-card hand for the
// ledger. Purely descriptive, this layer takes no view on play.

func toPokerCard(c Card) (poker.Card, bool) {
	if !c.Known() {
		return poker.Card(0), false
	}
	var s poker.Suit
	switch c.Suit {
	case Clubs:
		s = poker.Club
	case Diamonds:
		s = poker.Diamond
	case Hearts:
		s = poker.Heart
	case Spades:
		s = poker.Spade
	}
	// Our ranks run 2..14 with Ace high; the library wants Ace as 1.
	r := poker.Rank(c.Rank)
	if c.Rank == Ace {
		r = poker.Rank(1)
	}
	card, err := poker.MakeCard(s, r)
	if err != nil {
		return poker.Card(0), false
	}
	return card, true
}

// handLabel returns a description of the best hand from two hole cards plus
// the board, or "" when the inputs don't decode to a describable set.
func handLabel(hole, community []Card) string {
	if len(hole) != 2 {
		return ""
	}
	cards := make([]poker.Card, 0, 7)
	for _, c := range hole {
		pc, ok := toPokerCard(c)
		if !ok {
			return ""
		}
		cards = append(cards, pc)
	}
	for _, c := range community {
		pc, ok := toPokerCard(c)
		if !ok {
			continue
		}
		cards = append(cards, pc)
		if len(cards) == 7 {
			break
		}
	}

	switch len(cards) {
	case 5, 7:
		return describe(cards)
	case 6:
		// Describe wants 3, 5 or 7 cards; pick the strongest five.
		best := bestFiveOfSix(cards)
		return describe(best[:])
	default:
		return ""
	}
}

func describe(cards []poker.Card) string {
	desc, err := poker.Describe(cards)
	if err != nil {
		return ""
	}
	return desc
}

func bestFiveOfSix(cards []poker.Card) [5]poker.Card {
	var best [5]poker.Card
	bestScore := int16(-1)
	for skip := 0; skip < 6; skip++ {
		var hand [5]poker.Card
		i := 0
		for j, c := range cards {
			if j == skip {
				continue
			}
			hand[i] = c
			i++
		}
		if score := poker.Eval5(&hand); score > bestScore {
			bestScore = score
			best = hand
		}
	}
	return best
}
