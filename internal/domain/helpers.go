package domain

// PhaseLobby is the label phase used while no match is running.
const PhaseLobby = "lobby"

// LowestAvailableSeat returns the first free seat, or false when both are taken.
func LowestAvailableSeat(seats *[SeatCount]string) (Seat, bool) {
	for i := 0; i < len(seats); i++ {
		if seats[i] == "" {
			return Seat(i), true
		}
	}
	return SeatOne, false
}

// OpenSeats counts empty seats.
func OpenSeats(seats *[SeatCount]string) int {
	n := 0
	for _, userID := range seats {
		if userID == "" {
			n++
		}
	}
	return n
}

// LabelPayload is the match label advertised for quick-match queries.
type LabelPayload struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// ComputeLabel derives the advertised label from the seats and the running
// match, which may be nil while in the lobby.
func ComputeLabel(seats *[SeatCount]string, m *Match) LabelPayload {
	phase := PhaseLobby
	if m != nil {
		phase = string(m.Phase())
	}
	return LabelPayload{Open: OpenSeats(seats), Game: "snakecards", Phase: phase}
}
