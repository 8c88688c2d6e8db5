package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/batidao/cardbridge/internal/config"
	"github.com/batidao/cardbridge/internal/service"
	"github.com/batidao/cardbridge/internal/store"

	"github.com/gin-gonic/gin"
)

type nopPublisher struct{}

func (nopPublisher) Publish(topic string, payload interface{}) error { return nil }

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(topic string, data interface{}) {}

func setupRouter(t *testing.T) (*gin.Engine, *store.BalanceStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	balanceStore := store.NewBalanceStore()
	bridge := service.NewBridgeService(balanceStore, nopPublisher{}, nopBroadcaster{}, config.TopicsFor("testteam"), nil)
	go bridge.Run()
	t.Cleanup(bridge.Stop)

	r := gin.New()
	balanceHandler := NewBalanceHandler(bridge, balanceStore)
	transactionHandler := NewTransactionHandler(nil)
	r.POST("/topup", balanceHandler.TopUp)
	r.GET("/balance/:uid", balanceHandler.GetBalance)
	r.GET("/transactions", transactionHandler.GetAllTransactions)
	r.GET("/health", Health)
	return r, balanceStore
}

func TestTopUpEndpoint(t *testing.T) {
	r, balanceStore := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/topup", strings.NewReader(`{"uid":"card-1","amount":50}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool    `json:"success"`
		Message string  `json:"message"`
		Balance float64 `json:"balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response: %v", err)
	}
	if !resp.Success || resp.Balance != 50 {
		t.Errorf("response = %+v, want success with balance 50", resp)
	}

	if got := balanceStore.Read("card-1"); got != 50 {
		t.Errorf("stored balance = %v, want 50", got)
	}
}

func TestTopUpEndpointRejectsInvalid(t *testing.T) {
	r, balanceStore := setupRouter(t)

	for _, body := range []string{
		`{"uid":"card-1","amount":-5}`,
		`{"uid":"card-1","amount":0}`,
		`{"amount":5}`,
		`{"uid":"card-1"}`,
		`not json`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/topup", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}

	if got := balanceStore.Read("card-1"); got != 0 {
		t.Errorf("balance after rejected requests = %v, want 0", got)
	}
}

func TestGetBalanceEndpoint(t *testing.T) {
	r, balanceStore := setupRouter(t)
	balanceStore.Adjust("card-1", -30)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/balance/card-1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		UID     string  `json:"uid"`
		Balance float64 `json:"balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response: %v", err)
	}
	if resp.UID != "card-1" || resp.Balance != -30 {
		t.Errorf("response = %+v, want card-1 with -30", resp)
	}
}

func TestGetBalanceUnknownCardIsZero(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/balance/unknown", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"balance":0`) {
		t.Errorf("body = %s, want balance 0", w.Body.String())
	}
}

func TestTransactionsUnavailableWithoutMongo(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
