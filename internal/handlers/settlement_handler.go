package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"settlement-batch-backend/internal/batch"
	"settlement-batch-backend/internal/models"
	"settlement-batch-backend/internal/services/settlement"

	"github.com/gin-gonic/gin"
)

type SettlementHandler struct {
	service *settlement.Service
	runner  *batch.JobRunner
}

func NewSettlementHandler(service *settlement.Service, runner *batch.JobRunner) *SettlementHandler {
	return &SettlementHandler{service: service, runner: runner}
}

// Run triggers the direct settlement path synchronously and returns the
// created history row.
func (h *SettlementHandler) Run(c *gin.Context) {
	history, err := h.service.ExecuteSettlement(c.Request.Context(), settlement.TriggerManual)
	if errors.Is(err, settlement.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": "settlement run already in progress"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement procedure error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settlement executed", "history": history})
}

// RunBatch launches the chunked settlement job synchronously.
func (h *SettlementHandler) RunBatch(c *gin.Context) {
	exec, err := h.runner.Run(c.Request.Context(), settlement.TriggerManual)
	if errors.Is(err, settlement.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": "settlement run already in progress"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement job failed", "execution": exec})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settlement job completed", "execution": exec})
}

func (h *SettlementHandler) ListHistory(c *gin.Context) {
	page, size := pageParams(c)
	history, err := h.service.GetHistory(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history, "page": page, "size": size})
}

func (h *SettlementHandler) HistoryByDate(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected yyyy-mm-dd"})
		return
	}

	history, err := h.service.GetHistoryByDate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *SettlementHandler) HistoryByDateRange(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, expected yyyy-mm-dd"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date, expected yyyy-mm-dd"})
		return
	}

	history, err := h.service.GetHistoryByDateRange(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *SettlementHandler) HistoryByStatus(c *gin.Context) {
	status := models.SettlementStatus(c.Param("status"))
	if status != models.SettlementSuccess && status != models.SettlementFail {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be SUCCESS or FAIL"})
		return
	}

	history, err := h.service.GetHistoryByStatus(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 || size > 100 {
		size = 20
	}
	return page, size
}
