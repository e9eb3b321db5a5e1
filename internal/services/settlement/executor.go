package settlement

import (
	"context"
	"errors"
	"fmt"

	"settlement-batch-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Result carries the counts returned by one settlement execution:
// successfully applied transactions vs. rule violations.
type Result struct {
	ProcessedCount int
	ErrorCount     int
}

// Executor is the atomic settlement routine. One Execute call reconciles
// every unprocessed transaction in the ledger against account balances
// inside a single database transaction: the processed-flag flip and the
// balance mutation commit together, so a transaction can never be applied
// twice.
type Executor struct {
	db *gorm.DB
}

func NewExecutor(db *gorm.DB) *Executor {
	return &Executor{db: db}
}

// Execute settles all currently unprocessed transactions in created_at
// order. Deposits add to the balance; withdrawals subtract only when the
// result stays non-negative, otherwise the balance is untouched and the
// transaction counts as an error. Every examined transaction is marked
// processed regardless of outcome, so nothing is ever re-examined.
func (e *Executor) Execute(ctx context.Context) (Result, error) {
	var res Result
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res = Result{}

		var pending []models.Transaction
		if err := lockRows(tx).
			Where("is_processed = ?", false).
			Order("created_at ASC, id ASC").
			Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		accounts := make(map[string]*models.Account)
		ids := make([]int64, 0, len(pending))

		for i := range pending {
			t := &pending[i]
			ids = append(ids, t.ID)

			account, seen := accounts[t.AccountID]
			if !seen {
				account = &models.Account{}
				err := lockRows(tx).First(account, "id = ?", t.AccountID).Error
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					account = nil
				case err != nil:
					return err
				}
				accounts[t.AccountID] = account
			}

			if account == nil {
				if err := ruleViolation(tx, &res, t.ID, models.ErrCodeAccountNotFound,
					fmt.Sprintf("account %s does not exist", t.AccountID)); err != nil {
					return err
				}
				continue
			}
			if account.Status != models.AccountActive {
				if err := ruleViolation(tx, &res, t.ID, models.ErrCodeAccountInactive,
					fmt.Sprintf("account %s is not active", t.AccountID)); err != nil {
					return err
				}
				continue
			}

			switch t.Type {
			case models.Deposit:
				account.Balance = account.Balance.Add(t.Amount)
				res.ProcessedCount++
			case models.Withdrawal:
				next := account.Balance.Sub(t.Amount)
				if next.Sign() < 0 {
					if err := ruleViolation(tx, &res, t.ID, models.ErrCodeInsufficientFunds,
						fmt.Sprintf("withdrawal %s exceeds balance %s", t.Amount, account.Balance)); err != nil {
						return err
					}
					continue
				}
				account.Balance = next
				res.ProcessedCount++
			}
		}

		for id, account := range accounts {
			if account == nil {
				continue
			}
			if err := tx.Model(&models.Account{}).
				Where("id = ?", id).
				Update("balance", account.Balance).Error; err != nil {
				return err
			}
		}

		// Claim every examined row, successes and violations alike.
		return tx.Model(&models.Transaction{}).
			Where("id IN ?", ids).
			Update("is_processed", true).Error
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// lockRows adds FOR UPDATE on postgres so concurrent executions serialize
// on the claimed rows. SQLite has no row locks; its single writer gives the
// same guarantee.
func lockRows(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func ruleViolation(tx *gorm.DB, res *Result, transactionID int64, code, message string) error {
	res.ErrorCount++
	return tx.Create(&models.TransactionError{
		TransactionID: transactionID,
		ErrorCode:     code,
		ErrorMessage:  message,
	}).Error
}
