package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/batidao/cardbridge/internal/models"
	"github.com/batidao/cardbridge/internal/store"
)

const testBalanceTopic = "rfid/testteam/card/balance"

func newTestHub(t *testing.T) (*Hub, *store.BalanceStore) {
	t.Helper()
	balanceStore := store.NewBalanceStore()
	hub := NewHub(balanceStore, testBalanceTopic)
	go hub.Run()
	return hub, balanceStore
}

func addClient(t *testing.T, hub *Hub, id string, buffer int) *models.Client {
	t.Helper()
	client := &models.Client{ID: id, Send: make(chan []byte, buffer)}
	hub.register <- client
	return client
}

func recvFrame(t *testing.T, client *models.Client) []byte {
	t.Helper()
	select {
	case frame := <-client.Send:
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestRegisterSendsWelcomeThenSnapshot(t *testing.T) {
	hub, balanceStore := newTestHub(t)

	balanceStore.Adjust("card-1", 100)
	balanceStore.Adjust("card-2", -5)

	client := addClient(t, hub, "dash-1", 16)
	hub.Broadcast(testBalanceTopic, models.BalanceUpdate{UID: "card-3", Balance: 7})

	var welcome models.WelcomeMessage
	if err := json.Unmarshal(recvFrame(t, client), &welcome); err != nil {
		t.Fatalf("welcome frame: %v", err)
	}
	if welcome.Message != "Connected to real-time updates" {
		t.Errorf("welcome = %q", welcome.Message)
	}

	// Two snapshot frames, one per known card, before the broadcast.
	seen := make(map[string]float64)
	for i := 0; i < 2; i++ {
		var env struct {
			Topic string               `json:"topic"`
			Data  models.BalanceUpdate `json:"data"`
		}
		if err := json.Unmarshal(recvFrame(t, client), &env); err != nil {
			t.Fatalf("snapshot frame: %v", err)
		}
		if env.Topic != testBalanceTopic {
			t.Errorf("snapshot topic = %s, want %s", env.Topic, testBalanceTopic)
		}
		seen[env.Data.UID] = env.Data.Balance
	}
	if seen["card-1"] != 100 || seen["card-2"] != -5 {
		t.Errorf("snapshot = %v, want card-1=100 card-2=-5", seen)
	}

	var env struct {
		Topic string               `json:"topic"`
		Data  models.BalanceUpdate `json:"data"`
	}
	if err := json.Unmarshal(recvFrame(t, client), &env); err != nil {
		t.Fatalf("broadcast frame: %v", err)
	}
	if env.Data.UID != "card-3" {
		t.Errorf("frame after snapshot = %+v, want card-3 broadcast", env)
	}
}

func TestBroadcastOrderPreserved(t *testing.T) {
	hub, _ := newTestHub(t)
	client := addClient(t, hub, "dash-1", 16)

	// Drain the welcome frame.
	recvFrame(t, client)

	for i := 0; i < 5; i++ {
		hub.Broadcast(testBalanceTopic, models.BalanceUpdate{UID: "card-1", Balance: float64(i)})
	}

	for i := 0; i < 5; i++ {
		var env struct {
			Topic string               `json:"topic"`
			Data  models.BalanceUpdate `json:"data"`
		}
		if err := json.Unmarshal(recvFrame(t, client), &env); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if env.Data.Balance != float64(i) {
			t.Errorf("frame %d balance = %v, want %v", i, env.Data.Balance, i)
		}
	}
}

func TestSlowClientSkippedOthersStillServed(t *testing.T) {
	hub, _ := newTestHub(t)

	slow := addClient(t, hub, "slow", 1)
	fast := addClient(t, hub, "fast", 16)

	recvFrame(t, fast)

	// The welcome frame fills slow's single-slot buffer, so every
	// broadcast to it is dropped while fast keeps receiving.
	for i := 0; i < 3; i++ {
		hub.Broadcast(testBalanceTopic, models.BalanceUpdate{UID: "card-1", Balance: float64(i)})
	}

	for i := 0; i < 3; i++ {
		recvFrame(t, fast)
	}

	if len(slow.Send) != 1 {
		t.Errorf("slow client queue = %d frames, want 1 (welcome only)", len(slow.Send))
	}
}

func TestUnregisterIdempotent(t *testing.T) {
	hub, _ := newTestHub(t)
	client := addClient(t, hub, "dash-1", 16)

	hub.UnregisterClient(client)
	hub.UnregisterClient(client)

	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("client count = %d, want 0", got)
	}

	hub.Broadcast(testBalanceTopic, models.BalanceUpdate{UID: "card-1", Balance: 1})
	// Deregistered clients receive nothing beyond what was already queued.
	if len(client.Send) != 1 {
		t.Errorf("deregistered client queue = %d frames, want 1 (welcome only)", len(client.Send))
	}
}
