package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"snakecards/internal/domain"
)

// MatchResult summarizes a finished match.
type MatchResult struct {
	MatchID      string                   `json:"match_id"`
	Outcome      string                   `json:"outcome"`
	WinnerUserID string                   `json:"winner,omitempty"`
	UserIDs      [domain.SeatCount]string `json:"players"`
	Lengths      [domain.SeatCount]int    `json:"lengths"`
	Ticks        int64                    `json:"ticks"`
	Round        int                      `json:"round"`
}

// NewMatchResult captures the outcome of m.
func NewMatchResult(matchID string, m *domain.Match) MatchResult {
	res := MatchResult{
		MatchID: matchID,
		Outcome: m.Outcome().String(),
		Ticks:   m.Tick(),
		Round:   m.Round(),
	}
	for seat := domain.SeatOne; seat <= domain.SeatTwo; seat++ {
		p := m.Player(seat)
		res.UserIDs[seat] = p.UserID
		res.Lengths[seat] = p.Snake().Len()
	}
	if winner, ok := m.Winner(); ok {
		res.WinnerUserID = res.UserIDs[winner]
	}
	return res
}

// Draw reports whether nobody won outright.
func (r MatchResult) Draw() bool {
	return r.WinnerUserID == ""
}

// Rewards returns the gold each seat earns: winReward to an outright winner,
// drawReward to both seats on any draw.
func (r MatchResult) Rewards(winReward, drawReward int64) map[string]int64 {
	rewards := make(map[string]int64, domain.SeatCount)
	if r.Draw() {
		if drawReward > 0 {
			for _, userID := range r.UserIDs {
				rewards[userID] = drawReward
			}
		}
		return rewards
	}
	if winReward > 0 {
		rewards[r.WinnerUserID] = winReward
	}
	return rewards
}

var ErrInvalidResultToken = errors.New("invalid result token")

// ResultSigner issues HS256 receipts for finished matches so clients and
// external services can verify a reported outcome.
type ResultSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type resultClaims struct {
	jwt.StandardClaims
	Outcome string                   `json:"out"`
	Winner  string                   `json:"win,omitempty"`
	Players [domain.SeatCount]string `json:"pls"`
	Lengths [domain.SeatCount]int    `json:"len"`
	Ticks   int64                    `json:"tks"`
	Round   int                      `json:"rnd"`
}

// NewResultSigner returns nil when secret is empty, which disables signing.
func NewResultSigner(secret, issuer string, ttl time.Duration) *ResultSigner {
	if secret == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ResultSigner{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Sign encodes res as a signed token.
func (s *ResultSigner) Sign(res MatchResult) (string, error) {
	if s == nil {
		return "", fmt.Errorf("result signer is nil")
	}
	if res.MatchID == "" {
		return "", fmt.Errorf("match id is required")
	}
	now := s.now()
	claims := resultClaims{
		StandardClaims: jwt.StandardClaims{
			Id:        fmt.Sprintf("%d-%d", now.UnixNano(), rand.Int63()),
			Issuer:    s.issuer,
			Subject:   res.MatchID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
		Outcome: res.Outcome,
		Winner:  res.WinnerUserID,
		Players: res.UserIDs,
		Lengths: res.Lengths,
		Ticks:   res.Ticks,
		Round:   res.Round,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the token signature, issuer and expiry and decodes the result.
func (s *ResultSigner) Verify(tokenString string) (MatchResult, error) {
	if s == nil {
		return MatchResult{}, fmt.Errorf("result signer is nil")
	}
	claims := &resultClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return MatchResult{}, fmt.Errorf("%w: %v", ErrInvalidResultToken, err)
	}
	if !token.Valid || !claims.VerifyIssuer(s.issuer, true) {
		return MatchResult{}, ErrInvalidResultToken
	}
	return MatchResult{
		MatchID:      claims.Subject,
		Outcome:      claims.Outcome,
		WinnerUserID: claims.Winner,
		UserIDs:      claims.Players,
		Lengths:      claims.Lengths,
		Ticks:        claims.Ticks,
		Round:        claims.Round,
	}, nil
}
