package service

import (
	"log"

	"github.com/batidao/cardbridge/internal/models"
	"github.com/batidao/cardbridge/internal/repository"
)

type TransactionService interface {
	Record(uid, kind string, amount, balance float64)
	GetAll(page, limit int) ([]*models.TransactionEntry, error)
	GetByUID(uid string, page, limit int) ([]*models.TransactionEntry, error)
}

type transactionService struct {
	repo repository.TransactionRepository
}

func NewTransactionService(repo repository.TransactionRepository) TransactionService {
	return &transactionService{repo: repo}
}

// Record stores an applied mutation. The audit trail is best-effort: a
// failed insert must not hold up ledger processing.
func (s *transactionService) Record(uid, kind string, amount, balance float64) {
	entry := &models.TransactionEntry{
		UID:     uid,
		Kind:    kind,
		Amount:  amount,
		Balance: balance,
	}
	if err := s.repo.SaveTransaction(entry); err != nil {
		log.Printf("[TX] Failed to record %s for %s: %v", kind, uid, err)
	}
}

func (s *transactionService) GetAll(page, limit int) ([]*models.TransactionEntry, error) {
	return s.repo.GetAllTransactions(page, limit)
}

func (s *transactionService) GetByUID(uid string, page, limit int) ([]*models.TransactionEntry, error) {
	return s.repo.GetTransactionsByUID(uid, page, limit)
}
