package main

import (
	"context"
	"fmt"
	"sync"

	"snakecards/internal/ports"
)

// memoryEconomy is an in-process ports.EconomyPort for simulations.
type memoryEconomy struct {
	mu       sync.Mutex
	balances map[string]int64
}

var _ ports.EconomyPort = (*memoryEconomy)(nil)

func newMemoryEconomy() *memoryEconomy {
	return &memoryEconomy{balances: make(map[string]int64)}
}

func (e *memoryEconomy) GetBalance(ctx context.Context, userID string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	balance, ok := e.balances[userID]
	if !ok {
		return 0, fmt.Errorf("no wallet for %s", userID)
	}
	return balance, nil
}

func (e *memoryEconomy) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, u := range updates {
		if u.UserID == "" {
			return fmt.Errorf("wallet update without user")
		}
		e.balances[u.UserID] += u.Amount
	}
	return nil
}
