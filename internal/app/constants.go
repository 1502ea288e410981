package app

import "snakecards/internal/domain"

// MinPlayersToStartGame defines the number of occupied seats required to start a match.
const MinPlayersToStartGame = domain.SeatCount

// ResultIssuer is the issuer claim on signed match results.
const ResultIssuer = "snakecards"
