package batch

import (
	"context"
	"time"

	"settlement-batch-backend/internal/models"
	"settlement-batch-backend/internal/repository"
)

// TransactionCursor enumerates unprocessed transactions in created_at
// order as a point-in-time snapshot: the highest transaction id is captured
// when the cursor opens, and rows created afterwards are excluded from the
// current run even if still unprocessed. Pages are fetched lazily by keyset
// so memory stays bounded by the page size.
//
// A cursor is scoped to a single step execution and must not be shared.
type TransactionCursor struct {
	repo          *repository.TransactionRepository
	snapshotMaxID int64
	pageSize      int

	buf           []models.Transaction
	pos           int
	lastCreatedAt time.Time
	lastID        int64
	exhausted     bool
}

// OpenTransactionCursor captures the snapshot boundary and returns a fresh
// cursor positioned before the first row.
func OpenTransactionCursor(ctx context.Context, repo *repository.TransactionRepository, pageSize int) (*TransactionCursor, error) {
	maxID, err := repo.MaxID(ctx)
	if err != nil {
		return nil, err
	}
	return &TransactionCursor{
		repo:          repo,
		snapshotMaxID: maxID,
		pageSize:      pageSize,
	}, nil
}

// Next returns the next snapshot transaction, or nil once the snapshot is
// drained. Exhaustion is not an error.
func (c *TransactionCursor) Next(ctx context.Context) (*models.Transaction, error) {
	if c.pos >= len(c.buf) {
		if c.exhausted {
			return nil, nil
		}
		page, err := c.repo.FindUnprocessedPage(ctx, c.snapshotMaxID, c.lastCreatedAt, c.lastID, c.pageSize)
		if err != nil {
			return nil, err
		}
		if len(page) < c.pageSize {
			c.exhausted = true
		}
		if len(page) == 0 {
			return nil, nil
		}
		last := page[len(page)-1]
		c.lastCreatedAt = last.CreatedAt
		c.lastID = last.ID
		c.buf = page
		c.pos = 0
	}
	t := &c.buf[c.pos]
	c.pos++
	return t, nil
}
