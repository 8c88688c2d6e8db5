package service

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/batidao/cardbridge/interfaces"
	"github.com/batidao/cardbridge/internal/config"
	"github.com/batidao/cardbridge/internal/models"
	"github.com/batidao/cardbridge/internal/store"
)

// ErrInvalidTopUp rejects administrative requests with a missing uid or a
// non-positive amount.
var ErrInvalidTopUp = errors.New("invalid uid or amount (>0)")

type BridgeService interface {
	// Run processes bridge events until Stop is called. Call it from a
	// dedicated goroutine before delivering any work.
	Run()
	Stop()
	// HandleMessage enqueues an inbound broker message. Safe to call from
	// the transport's dispatch goroutine.
	HandleMessage(topic string, payload []byte)
	// TopUp credits a card, notifies the device side and the dashboards,
	// and returns the new balance.
	TopUp(uid string, amount float64) (float64, error)
}

// bridgeEvent is either a deviceMessage or a topUpRequest. Both kinds go
// through the same channel so mutations apply in exactly the order the
// bridge received them.
type bridgeEvent interface{}

type deviceMessage struct {
	topic   string
	payload []byte
}

type topUpRequest struct {
	uid    string
	amount float64
	reply  chan float64
}

// bridgeService binds the ledger, the broker and the dashboard hub. Device
// reports and top-up requests funnel through one event channel, so ledger
// mutations and the broadcasts they trigger happen in a single defined
// order no matter how the inputs interleave.
type bridgeService struct {
	store        *store.BalanceStore
	bus          interfaces.Publisher
	hub          interfaces.Broadcaster
	topics       config.Topics
	transactions TransactionService

	events chan bridgeEvent
	done   chan struct{}
}

func NewBridgeService(balanceStore *store.BalanceStore, bus interfaces.Publisher, hub interfaces.Broadcaster, topics config.Topics, transactions TransactionService) BridgeService {
	return &bridgeService{
		store:        balanceStore,
		bus:          bus,
		hub:          hub,
		topics:       topics,
		transactions: transactions,
		events:       make(chan bridgeEvent, 64),
		done:         make(chan struct{}),
	}
}

func (s *bridgeService) Run() {
	for {
		select {
		case ev := <-s.events:
			switch ev := ev.(type) {
			case deviceMessage:
				s.processMessage(ev)
			case topUpRequest:
				s.processTopUp(ev)
			}
		case <-s.done:
			return
		}
	}
}

func (s *bridgeService) Stop() {
	close(s.done)
}

func (s *bridgeService) HandleMessage(topic string, payload []byte) {
	s.events <- deviceMessage{topic: topic, payload: payload}
}

func (s *bridgeService) TopUp(uid string, amount float64) (float64, error) {
	if uid == "" || amount <= 0 {
		return 0, ErrInvalidTopUp
	}

	req := topUpRequest{uid: uid, amount: amount, reply: make(chan float64, 1)}
	s.events <- req
	return <-req.reply, nil
}

func (s *bridgeService) processMessage(msg deviceMessage) {
	var data interface{}
	if err := json.Unmarshal(msg.payload, &data); err != nil {
		log.Printf("[MQTT] Invalid message on %s: %v", msg.topic, err)
		return
	}

	if msg.topic == s.topics.Balance {
		s.processBalanceReport(msg.payload)
		return
	}

	// Relay everything else (card status and the like) to the dashboards
	// verbatim.
	s.hub.Broadcast(msg.topic, data)
}

func (s *bridgeService) processBalanceReport(payload []byte) {
	var report models.BalanceReport
	if err := json.Unmarshal(payload, &report); err != nil || report.UID == "" || report.Deduct == nil {
		log.Printf("[BALANCE] Dropping report with missing uid or deduct: %s", payload)
		return
	}

	balance := s.store.Adjust(report.UID, -*report.Deduct)
	s.record(report.UID, models.TransactionDeduct, *report.Deduct, balance)
	s.hub.Broadcast(s.topics.Balance, models.BalanceUpdate{UID: report.UID, Balance: balance})
	log.Printf("[BALANCE] Deducted %v from %s. New balance: %v", *report.Deduct, report.UID, balance)
}

func (s *bridgeService) processTopUp(req topUpRequest) {
	balance := s.store.Adjust(req.uid, req.amount)
	s.record(req.uid, models.TransactionTopUp, req.amount, balance)

	if err := s.bus.Publish(s.topics.TopUp, models.TopUpCommand{UID: req.uid, Amount: req.amount}); err != nil {
		log.Printf("[TOPUP] Publish failed (device side not notified): %v", err)
	}

	s.hub.Broadcast(s.topics.Balance, models.BalanceUpdate{UID: req.uid, Balance: balance})
	log.Printf("[TOPUP] UID: %s, Amount: %v, New balance: %v", req.uid, req.amount, balance)

	req.reply <- balance
}

func (s *bridgeService) record(uid, kind string, amount, balance float64) {
	if s.transactions == nil {
		return
	}
	s.transactions.Record(uid, kind, amount, balance)
}
