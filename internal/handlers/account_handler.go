package handler

import (
	"errors"
	"net/http"

	"settlement-batch-backend/internal/models"
	"settlement-batch-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountHandler struct {
	accountRepo *repository.AccountRepository
}

func NewAccountHandler(accountRepo *repository.AccountRepository) *AccountHandler {
	return &AccountHandler{accountRepo: accountRepo}
}

type accountPayload struct {
	ID          string          `json:"id"`
	Balance     decimal.Decimal `json:"balance"`
	Status      string          `json:"status"`       // defaults to ACTIVE
	AccountType string          `json:"account_type"` // defaults to BASIC
}

func (h *AccountHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	accounts, err := h.accountRepo.List(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts, "page": page, "size": size})
}

func (h *AccountHandler) Get(c *gin.Context) {
	account, err := h.accountRepo.GetByID(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}

func (h *AccountHandler) ListByStatus(c *gin.Context) {
	status := models.AccountStatus(c.Param("status"))
	if status != models.AccountActive && status != models.AccountInactive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be ACTIVE or INACTIVE"})
		return
	}

	accounts, err := h.accountRepo.FindByStatus(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *AccountHandler) ListByType(c *gin.Context) {
	accountType := models.AccountType(c.Param("type"))
	if accountType != models.AccountBasic && accountType != models.AccountPremium {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be BASIC or PREMIUM"})
		return
	}

	accounts, err := h.accountRepo.FindByType(accountType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *AccountHandler) Create(c *gin.Context) {
	var payload accountPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account ID is required"})
		return
	}
	if payload.Balance.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "balance must not be negative"})
		return
	}

	account := &models.Account{
		ID:          payload.ID,
		Balance:     payload.Balance,
		Status:      models.AccountActive,
		AccountType: models.AccountBasic,
	}
	if payload.Status != "" {
		account.Status = models.AccountStatus(payload.Status)
	}
	if payload.AccountType != "" {
		account.AccountType = models.AccountType(payload.AccountType)
	}
	if !validAccountStatus(account.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be ACTIVE or INACTIVE"})
		return
	}
	if !validAccountType(account.AccountType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be BASIC or PREMIUM"})
		return
	}

	if _, err := h.accountRepo.GetByID(account.ID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.accountRepo.Create(account); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "account created", "account": account})
}

// Update replaces the mutable fields of an existing account. The account ID
// comes from the path; an ID in the payload is ignored.
func (h *AccountHandler) Update(c *gin.Context) {
	var payload accountPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Balance.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "balance must not be negative"})
		return
	}

	account, err := h.accountRepo.GetByID(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	account.Balance = payload.Balance
	if payload.Status != "" {
		account.Status = models.AccountStatus(payload.Status)
	}
	if payload.AccountType != "" {
		account.AccountType = models.AccountType(payload.AccountType)
	}
	if !validAccountStatus(account.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be ACTIVE or INACTIVE"})
		return
	}
	if !validAccountType(account.AccountType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be BASIC or PREMIUM"})
		return
	}

	if err := h.accountRepo.Update(account); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account updated", "account": account})
}

func validAccountStatus(s models.AccountStatus) bool {
	return s == models.AccountActive || s == models.AccountInactive
}

func validAccountType(t models.AccountType) bool {
	return t == models.AccountBasic || t == models.AccountPremium
}
