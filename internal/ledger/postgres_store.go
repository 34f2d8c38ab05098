package ledger

import (
	"context"
	"database/sql"
)

// PostgresStore implements Store with PostgreSQL. Rows are returned
// ordered by their serial id so insertion order survives the round trip.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) LoadUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, dob, registered, credit_limit
		FROM ledger_users ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Name, &u.DOB, &u.Registered, &u.CreditLimit); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) AppendUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_users (name, dob, registered, credit_limit)
		VALUES ($1, $2, $3, $4)
	`, u.Name, u.DOB, u.Registered, u.CreditLimit)
	return err
}

func (s *PostgresStore) LoadPurchases(ctx context.Context) ([]Purchase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_name, amount, ts
		FROM ledger_purchases ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var purchases []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.User, &p.Amount, &p.Timestamp); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func (s *PostgresStore) AppendPurchase(ctx context.Context, p Purchase) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_purchases (user_name, amount, ts)
		VALUES ($1, $2, $3)
	`, p.User, p.Amount, p.Timestamp)
	return err
}

func (s *PostgresStore) LoadRepayments(ctx context.Context) ([]Repayment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_name, amount, ts
		FROM ledger_repayments ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var repayments []Repayment
	for rows.Next() {
		var r Repayment
		if err := rows.Scan(&r.User, &r.Amount, &r.Timestamp); err != nil {
			return nil, err
		}
		repayments = append(repayments, r)
	}
	return repayments, rows.Err()
}

func (s *PostgresStore) AppendRepayment(ctx context.Context, r Repayment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_repayments (user_name, amount, ts)
		VALUES ($1, $2, $3)
	`, r.User, r.Amount, r.Timestamp)
	return err
}

func (s *PostgresStore) LoadVerifications(ctx context.Context) ([]Verification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_name, status, ts
		FROM ledger_verifications ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var verifications []Verification
	for rows.Next() {
		var v Verification
		if err := rows.Scan(&v.User, &v.Status, &v.Timestamp); err != nil {
			return nil, err
		}
		verifications = append(verifications, v)
	}
	return verifications, rows.Err()
}

func (s *PostgresStore) AppendVerification(ctx context.Context, v Verification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_verifications (user_name, status, ts)
		VALUES ($1, $2, $3)
	`, v.User, v.Status, v.Timestamp)
	return err
}
