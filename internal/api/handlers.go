package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/batidao/cardbridge/internal/models"
	"github.com/batidao/cardbridge/internal/service"
	"github.com/batidao/cardbridge/internal/store"

	"github.com/gin-gonic/gin"
)

type BalanceHandler struct {
	bridge service.BridgeService
	store  *store.BalanceStore
}

func NewBalanceHandler(bridge service.BridgeService, balanceStore *store.BalanceStore) *BalanceHandler {
	return &BalanceHandler{bridge: bridge, store: balanceStore}
}

// TopUp credits a card balance
// @Summary Top up a card
// @Description Credits the card balance, notifies the device over MQTT and broadcasts the new balance to dashboards
// @Tags Balances
// @Accept json
// @Produce json
// @Param topup body models.TopUpRequest true "Top-up request"
// @Success 200 {object} map[string]interface{} "Top-up completed"
// @Failure 400 {object} map[string]string "Invalid uid or amount"
// @Router /topup [post]
func (h *BalanceHandler) TopUp(c *gin.Context) {
	var req models.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid uid or amount (>0)"})
		return
	}

	balance, err := h.bridge.TopUp(req.UID, req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTopUp) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid uid or amount (>0)"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process top-up"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Top-up completed",
		"balance": balance,
	})
}

// GetBalance reads a card balance
// @Summary Read a card balance
// @Description Returns the current balance for a card, zero if the card is unknown
// @Tags Balances
// @Produce json
// @Param uid path string true "Card UID"
// @Success 200 {object} models.BalanceUpdate
// @Router /balance/{uid} [get]
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	uid := c.Param("uid")
	c.JSON(http.StatusOK, models.BalanceUpdate{UID: uid, Balance: h.store.Read(uid)})
}

type TransactionHandler struct {
	transactionService service.TransactionService
}

func NewTransactionHandler(transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// GetAllTransactions lists applied ledger mutations
// @Summary List transactions
// @Description Returns the recorded deductions and top-ups, newest first
// @Tags Transactions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {array} models.TransactionEntry
// @Failure 503 {object} map[string]string "Transaction log disabled"
// @Router /transactions [get]
func (h *TransactionHandler) GetAllTransactions(c *gin.Context) {
	if h.transactionService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Transaction log disabled"})
		return
	}

	page, limit := pagination(c)
	entries, err := h.transactionService.GetAll(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetTransactionsByCard lists mutations for one card
// @Summary List transactions for a card
// @Description Returns the recorded deductions and top-ups for one card, newest first
// @Tags Transactions
// @Produce json
// @Param uid path string true "Card UID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {array} models.TransactionEntry
// @Failure 503 {object} map[string]string "Transaction log disabled"
// @Router /transactions/card/{uid} [get]
func (h *TransactionHandler) GetTransactionsByCard(c *gin.Context) {
	if h.transactionService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Transaction log disabled"})
		return
	}

	page, limit := pagination(c)
	entries, err := h.transactionService.GetByUID(c.Param("uid"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	return page, limit
}

// Health reports liveness
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
