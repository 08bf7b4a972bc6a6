package main

import "testing"

func TestDecodeCardClass(t *testing.T) {
	tests := []struct {
		name string
		attr string
		want string
	}{
		{"ace of spades", "card-container card-s-a card-s", "Ace of Spades"},
		{"ten of diamonds", "card-container card-s-t card-d", "10 of Diamonds"},
		{"deuce of hearts", "card-s-2 card-h", "2 of Hearts"},
		{"king of clubs", "card-s-k card-c", "King of Clubs"},
		{"uppercase rank token", "card-s-Q card-s", "Queen of Spades"},
		{"rank only", "card-container card-s-j", "Unknown Card"},
		{"suit only", "card-container card-h", "Unknown Card"},
		{"bogus rank", "card-s-x card-d", "Unknown Card"},
		{"empty", "", "Unknown Card"},
		{"face down", "card-container flipped", "Unknown Card"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeCardClass(tt.attr).String()
			if got != tt.want {
				t.Errorf("decodeCardClass(%q) = %q, want %q", tt.attr, got, tt.want)
			}
		})
	}
}

func TestDecodeCardClassAllRanks(t *testing.T) {
	ranks := map[string]string{
		"2": "2", "3": "3", "4": "4", "5": "5", "6": "6",
		"7": "7", "8": "8", "9": "9", "t": "10",
		"j": "Jack", "q": "Queen", "k": "King", "a": "Ace",
	}
	suits := map[string]string{
		"card-c": "Clubs", "card-d": "Diamonds", "card-h": "Hearts", "card-s": "Spades",
	}
	for rtok, rname := range ranks {
		for stok, sname := range suits {
			c := decodeCardClass("card-s-" + rtok + " " + stok)
			want := rname + " of " + sname
			if c.String() != want {
				t.Errorf("tokens (card-s-%s, %s): got %q, want %q", rtok, stok, c.String(), want)
			}
			if !c.Known() {
				t.Errorf("card %q should be known", want)
			}
		}
	}
}

func TestCardJSON(t *testing.T) {
	buf, err := Card{Rank: Ace, Suit: Spades}.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(buf) != `"Ace of Spades"` {
		t.Errorf("got %s", buf)
	}

	buf, _ = Card{}.MarshalJSON()
	if string(buf) != `"Unknown Card"` {
		t.Errorf("zero card got %s", buf)
	}
}
