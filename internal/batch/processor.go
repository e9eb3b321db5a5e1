package batch

import (
	"log/slog"

	"settlement-batch-backend/internal/models"
)

// ItemProcessor transforms or validates one transaction before it reaches
// the writer. Returning nil, nil filters the record out of the chunk.
type ItemProcessor func(*models.Transaction) (*models.Transaction, error)

// PassthroughProcessor is the default processor: it logs the record and
// returns it unchanged. Validation (e.g. rejecting non-positive amounts)
// hooks in here without touching the step loop.
func PassthroughProcessor(t *models.Transaction) (*models.Transaction, error) {
	slog.Debug("processing transaction",
		"id", t.ID,
		"account", t.AccountID,
		"amount", t.Amount,
		"type", t.Type)
	return t, nil
}
