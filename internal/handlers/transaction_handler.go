package handler

import (
	"net/http"
	"strconv"
	"time"

	"settlement-batch-backend/internal/models"
	"settlement-batch-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	txRepo    *repository.TransactionRepository
	errorRepo *repository.TransactionErrorRepository
}

func NewTransactionHandler(txRepo *repository.TransactionRepository, errorRepo *repository.TransactionErrorRepository) *TransactionHandler {
	return &TransactionHandler{txRepo: txRepo, errorRepo: errorRepo}
}

func (h *TransactionHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	processed, err := processedParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "processed must be true or false"})
		return
	}

	txs, err := h.txRepo.List(processed, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "page": page, "size": size})
}

func (h *TransactionHandler) ListByDateRange(c *gin.Context) {
	start, err := timeParam(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start, expected yyyy-mm-dd or RFC 3339"})
		return
	}
	end, err := timeParam(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end, expected yyyy-mm-dd or RFC 3339"})
		return
	}

	page, size := pageParams(c)
	txs, err := h.txRepo.FindByDateRange(start, end, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "page": page, "size": size})
}

func (h *TransactionHandler) ListByAccount(c *gin.Context) {
	page, size := pageParams(c)
	txs, err := h.txRepo.FindByAccountID(c.Param("accountId"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "page": page, "size": size})
}

type transactionPayload struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
}

func (p transactionPayload) toModel() (*models.Transaction, string) {
	if p.AccountID == "" {
		return nil, "account ID is required"
	}
	if !p.Amount.IsPositive() {
		return nil, "amount must be positive"
	}
	txType := models.TransactionType(p.Type)
	if txType != models.Deposit && txType != models.Withdrawal {
		return nil, "type must be DEPOSIT or WITHDRAWAL"
	}
	return &models.Transaction{
		AccountID: p.AccountID,
		Amount:    p.Amount,
		Type:      txType,
	}, ""
}

// Create enqueues one pending transaction for the next settlement run.
func (h *TransactionHandler) Create(c *gin.Context) {
	var payload transactionPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	tx, reason := payload.toModel()
	if reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	if err := h.txRepo.Create(tx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "transaction created", "transaction": tx})
}

// CreateBatch enqueues a list of pending transactions in one insert. The
// whole batch is rejected if any entry is invalid.
func (h *TransactionHandler) CreateBatch(c *gin.Context) {
	var payloads []transactionPayload
	if err := c.BindJSON(&payloads); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if len(payloads) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one transaction is required"})
		return
	}

	txs := make([]models.Transaction, 0, len(payloads))
	for i, payload := range payloads {
		tx, reason := payload.toModel()
		if reason != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": reason, "index": i})
			return
		}
		txs = append(txs, *tx)
	}

	if err := h.txRepo.CreateBatch(txs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "transactions created", "transactions": txs})
}

func (h *TransactionHandler) Count(c *gin.Context) {
	processed, err := processedParam(c)
	if err != nil || processed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "processed must be true or false"})
		return
	}

	count, err := h.txRepo.CountByProcessed(*processed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "processed": *processed})
}

// ListErrors returns the rule violations logged for one transaction.
func (h *TransactionHandler) ListErrors(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	errs, err := h.errorRepo.FindByTransactionID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"errors": errs})
}

func timeParam(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}

func processedParam(c *gin.Context) (*bool, error) {
	raw := c.Query("processed")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
