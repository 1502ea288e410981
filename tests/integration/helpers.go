//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-go/v2"
)

const (
	ServerKey = "defaultkey"
	Host      = "127.0.0.1"
	Port      = 7350
)

// Op codes mirrored from the server module.
const (
	OpSelectCard       = 1
	OpConfirmSelection = 3
	OpHandDealt        = 104
	OpPlanningStarted  = 103
	OpMatchEnded       = 110
)

type TestClient struct {
	Client  *nakama.Client
	Session *nakama.Session
	Socket  *nakama.Socket
	UserID  string
	inbox   chan *rtapi.MatchData
}

func NewTestClient(t *testing.T) *TestClient {
	t.Helper()
	client := nakama.NewClient(ServerKey, Host, Port, false)

	deviceID := fmt.Sprintf("snakecards_test_device_%d", time.Now().UnixNano())
	session, err := client.AuthenticateDevice(context.Background(), deviceID, true, "")
	if err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}

	tc := &TestClient{
		Client:  client,
		Session: session,
		Socket:  client.NewSocket(),
		UserID:  session.UserId,
		inbox:   make(chan *rtapi.MatchData, 256),
	}
	// Buffer every message so waits never miss one sent before they start.
	tc.Socket.OnMatchData = func(data *rtapi.MatchData) {
		tc.inbox <- data
	}
	if err := tc.Socket.Connect(context.Background(), session, true); err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}
	return tc
}

func (tc *TestClient) Close() {
	if tc.Socket != nil {
		tc.Socket.Close()
	}
}

// QuickMatch calls the quick_match RPC and joins the returned match.
func (tc *TestClient) QuickMatch(t *testing.T) string {
	t.Helper()
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, "quick_match", "{}")
	if err != nil {
		t.Fatalf("RPC quick_match failed: %v", err)
	}
	var resp struct {
		MatchID string `json:"match_id"`
		IsNew   bool   `json:"is_new"`
	}
	if err := json.Unmarshal([]byte(rpc.Payload), &resp); err != nil || resp.MatchID == "" {
		t.Fatalf("RPC quick_match returned %q: %v", rpc.Payload, err)
	}
	tc.Join(t, resp.MatchID)
	return resp.MatchID
}

func (tc *TestClient) Join(t *testing.T, matchID string) {
	t.Helper()
	if _, err := tc.Socket.JoinMatch(context.Background(), nil, matchID, nil); err != nil {
		t.Fatalf("Failed to join match %s: %v", matchID, err)
	}
}

func (tc *TestClient) Send(t *testing.T, matchID string, opCode int64, payload interface{}) {
	t.Helper()
	data := []byte("{}")
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}
	if _, err := tc.Socket.SendMatchState(context.Background(), matchID, opCode, data, nil); err != nil {
		t.Fatalf("Failed to send op %d: %v", opCode, err)
	}
}

// WaitForMatchState returns the next message with opCode, skipping others.
func (tc *TestClient) WaitForMatchState(t *testing.T, opCode int64, timeout time.Duration) *rtapi.MatchData {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case data := <-tc.inbox:
			if data.OpCode == opCode {
				return data
			}
		case <-deadline:
			t.Fatalf("Timeout waiting for OpCode %d", opCode)
			return nil
		}
	}
}
