package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"bankbot/internal/domain"

	"github.com/google/uuid"
)

// AccountRepo implements repository.AccountRepository
type AccountRepo struct {
	db *sql.DB
}

// NewAccountRepo creates a new account repository
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// GetAccount loads an account with its payment methods in insertion order
func (r *AccountRepo) GetAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	a := domain.Account{UserID: userID}

	var (
		locale   sql.NullString
		txID     sql.NullString
		txKind   sql.NullString
		txAmount sql.NullInt64
		txMethod sql.NullString
		txAt     sql.NullTime
	)

	query := `
		SELECT balance, locale, last_tx_id, last_tx_kind, last_tx_amount, last_tx_method, last_tx_at, created_at
		FROM accounts
		WHERE user_id = $1
	`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&a.Balance, &locale, &txID, &txKind, &txAmount, &txMethod, &txAt, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}

	if locale.Valid {
		a.Locale = domain.Locale(locale.String)
	}
	if txKind.Valid {
		tx := domain.Transaction{
			Kind:   domain.TransactionKind(txKind.String),
			Amount: txAmount.Int64,
			Method: txMethod.String,
		}
		if txID.Valid {
			if id, parseErr := uuid.Parse(txID.String); parseErr == nil {
				tx.ID = id
			}
		}
		if txAt.Valid {
			tx.CreatedAt = txAt.Time
		}
		a.LastTransaction = &tx
	}

	methods, err := r.listMethods(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.Methods = methods

	return &a, nil
}

// CreateAccount inserts a default account if none exists yet
func (r *AccountRepo) CreateAccount(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO accounts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// SetLocale stores the chosen interface language
func (r *AccountRepo) SetLocale(ctx context.Context, userID int64, locale domain.Locale) error {
	query := `UPDATE accounts SET locale = $2 WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, string(locale))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// Deposit adds the amount to the balance and records the transaction
// summary in one statement, returning the new balance
func (r *AccountRepo) Deposit(ctx context.Context, userID int64, tx domain.Transaction) (int64, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2,
			last_tx_id = $3,
			last_tx_kind = $4,
			last_tx_amount = $2,
			last_tx_method = $5,
			last_tx_at = $6
		WHERE user_id = $1
		RETURNING balance
	`
	var newBalance int64
	err := r.db.QueryRowContext(ctx, query,
		userID, tx.Amount, tx.ID.String(), string(tx.Kind), tx.Method, tx.CreatedAt,
	).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return 0, domain.ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("applying deposit: %w", err)
	}
	return newBalance, nil
}

// Withdraw subtracts the amount only if the balance covers it. The
// balance check and the update are a single conditional statement, so
// a concurrent withdrawal can never drive the balance negative.
func (r *AccountRepo) Withdraw(ctx context.Context, userID int64, tx domain.Transaction) (int64, error) {
	query := `
		UPDATE accounts
		SET balance = balance - $2,
			last_tx_id = $3,
			last_tx_kind = $4,
			last_tx_amount = $2,
			last_tx_method = $5,
			last_tx_at = $6
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance
	`
	var newBalance int64
	err := r.db.QueryRowContext(ctx, query,
		userID, tx.Amount, tx.ID.String(), string(tx.Kind), tx.Method, tx.CreatedAt,
	).Scan(&newBalance)
	if err == sql.ErrNoRows {
		// Either the account is missing or the balance did not cover
		// the amount; distinguish the two for the caller.
		var exists bool
		checkErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM accounts WHERE user_id = $1)`, userID,
		).Scan(&exists)
		if checkErr != nil {
			return 0, fmt.Errorf("checking account existence: %w", checkErr)
		}
		if !exists {
			return 0, domain.ErrAccountNotFound
		}
		return 0, domain.ErrInsufficientBalance
	}
	if err != nil {
		return 0, fmt.Errorf("applying withdrawal: %w", err)
	}
	return newBalance, nil
}

// AppendMethod adds a payment method to the end of the user's list
func (r *AccountRepo) AppendMethod(ctx context.Context, userID int64, method domain.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (user_id, kind, description)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, userID, string(method.Kind), method.Description)
	return err
}

// listMethods returns the user's payment methods ordered by insertion
func (r *AccountRepo) listMethods(ctx context.Context, userID int64) ([]domain.PaymentMethod, error) {
	query := `
		SELECT kind, description
		FROM payment_methods
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying payment methods: %w", err)
	}
	defer rows.Close()

	var methods []domain.PaymentMethod
	for rows.Next() {
		var m domain.PaymentMethod
		var kind string
		if err := rows.Scan(&kind, &m.Description); err != nil {
			return nil, err
		}
		m.Kind = domain.MethodKind(kind)
		methods = append(methods, m)
	}
	return methods, rows.Err()
}
