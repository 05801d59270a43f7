package poker

import (
	rand "math/rand/v2"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Deck is a standard 52-card deck dealt from the top. The cursor counts the
// undealt cards: Draw decrements it and Undraw increments it, so nested
// callers can return dealt cards in reverse order.
type Deck struct {
	cards [DeckSize]Card
	top   int
	rng   *rand.Rand
}

// NewDeck creates a full deck shuffled with the provided random source.
func NewDeck(rng *rand.Rand) *Deck {
	d := NewOrderedDeck()
	d.rng = rng
	d.Shuffle()
	return d
}

// NewOrderedDeck creates a full deck in a fixed order. The first cards drawn
// are the aces, followed by the kings and so on down to the twos.
func NewOrderedDeck() *Deck {
	d := &Deck{top: DeckSize}
	for i := range d.cards {
		d.cards[i] = CardFromIndex(i)
	}
	return d
}

// NewStackedDeck creates a deck whose first draws are the given cards, in
// order. The remaining cards follow in the ordered-deck sequence.
func NewStackedDeck(first ...Card) *Deck {
	d := &Deck{top: DeckSize}
	used := NewCardSet(first...)
	pos := DeckSize - 1
	for _, c := range first {
		d.cards[pos] = c
		pos--
	}
	for i := DeckSize - 1; i >= 0; i-- {
		c := CardFromIndex(i)
		if used.Contains(c) {
			continue
		}
		d.cards[pos] = c
		pos--
	}
	return d
}

// Shuffle gathers every card back into the deck and shuffles with
// Fisher-Yates. Without a random source the order is left unchanged.
func (d *Deck) Shuffle() {
	d.top = DeckSize
	if d.rng == nil {
		return
	}
	for i := DeckSize - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. Drawing from an empty deck is a
// programming error and panics.
func (d *Deck) Draw() Card {
	if d.top == 0 {
		panic("poker: draw from empty deck")
	}
	d.top--
	return d.cards[d.top]
}

// Undraw returns the most recently drawn card to the top of the deck.
func (d *Deck) Undraw() {
	if d.top == DeckSize {
		panic("poker: undraw on full deck")
	}
	d.top++
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return d.top
}

// Cursor returns the position of the undealt-card cursor.
func (d *Deck) Cursor() int {
	return d.top
}

// Rewind moves the cursor back to a position previously returned by Cursor.
func (d *Deck) Rewind(cursor int) {
	if cursor < 0 || cursor > DeckSize {
		panic("poker: rewind out of range")
	}
	d.top = cursor
}
