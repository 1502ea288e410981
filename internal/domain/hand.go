package domain

// DefaultCardsPerPage is how many cards a client shows at once.
const DefaultCardsPerPage = 6

// Hand holds the cards a player has not chosen yet. Paging only affects what
// a client displays.
type Hand struct {
	cards    []Card
	capacity int
	perPage  int
	page     int
}

// NewHand wraps a dealt set of cards. The hand can never hold more cards than
// were dealt.
func NewHand(cards []Card, perPage int) *Hand {
	if perPage < 1 {
		perPage = DefaultCardsPerPage
	}
	return &Hand{
		cards:    append([]Card(nil), cards...),
		capacity: len(cards),
		perPage:  perPage,
	}
}

// Cards returns a copy of the cards in hand order.
func (h *Hand) Cards() []Card {
	return append([]Card(nil), h.cards...)
}

// Len returns the number of cards left in hand.
func (h *Hand) Len() int {
	return len(h.cards)
}

// Capacity returns the dealt hand size.
func (h *Hand) Capacity() int {
	return h.capacity
}

// IsEmpty reports whether every card has been chosen.
func (h *Hand) IsEmpty() bool {
	return len(h.cards) == 0
}

// Take removes and returns the card at index.
func (h *Hand) Take(index int) (Card, bool) {
	if index < 0 || index >= len(h.cards) {
		return Card{}, false
	}
	card := h.cards[index]
	h.cards = append(h.cards[:index], h.cards[index+1:]...)
	h.clampPage()
	return card, true
}

// Return puts a card back at the end of the hand.
func (h *Hand) Return(card Card) bool {
	if len(h.cards) >= h.capacity {
		return false
	}
	h.cards = append(h.cards, card)
	return true
}

// Page returns the current page index.
func (h *Hand) Page() int {
	return h.page
}

// PageCount returns how many pages the hand spans; at least one.
func (h *Hand) PageCount() int {
	if len(h.cards) == 0 {
		return 1
	}
	return (len(h.cards) + h.perPage - 1) / h.perPage
}

// PageCards returns the cards visible on the current page.
func (h *Hand) PageCards() []Card {
	start := h.page * h.perPage
	if start >= len(h.cards) {
		return nil
	}
	end := start + h.perPage
	if end > len(h.cards) {
		end = len(h.cards)
	}
	return append([]Card(nil), h.cards[start:end]...)
}

// NextPage moves forward one page if there is one.
func (h *Hand) NextPage() bool {
	if (h.page+1)*h.perPage >= len(h.cards) {
		return false
	}
	h.page++
	return true
}

// PrevPage moves back one page if possible.
func (h *Hand) PrevPage() bool {
	if h.page == 0 {
		return false
	}
	h.page--
	return true
}

func (h *Hand) clampPage() {
	if last := h.PageCount() - 1; h.page > last {
		h.page = last
	}
}
