package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore implements Store over four JSON files in a data directory.
// Each append rewrites the whole file, so concurrent writers from
// separate processes race last-writer-wins; within one process a mutex
// serializes access.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

const (
	usersFile         = "users.json"
	purchasesFile     = "purchases.json"
	repaymentsFile    = "repayments.json"
	verificationsFile = "verifications.json"
)

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Wire records: timestamps rest as ISO-8601 strings, dates as YYYY-MM-DD.
// A missing credit_limit falls back to DefaultCreditLimit on load.

type userRecord struct {
	Name        string   `json:"name"`
	DOB         string   `json:"dob"`
	Registered  string   `json:"registered"`
	CreditLimit *float64 `json:"credit_limit,omitempty"`
}

type purchaseRecord struct {
	User      string  `json:"user"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

type repaymentRecord struct {
	User      string  `json:"user"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

type verificationRecord struct {
	User      string `json:"user"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

const dateLayout = "2006-01-02"

// isoLayouts covers the timestamp shapes found at rest: RFC 3339 with and
// without zone or fractional seconds, and bare dates.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	dateLayout,
}

func parseISO(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

func formatISO(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readFile decodes a JSON array file into dst; a missing file is an empty
// collection, not an error.
func (s *FileStore) readFile(name string, dst any) error {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) writeFile(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) LoadUsers(_ context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []userRecord
	if err := s.readFile(usersFile, &records); err != nil {
		return nil, err
	}

	users := make([]User, 0, len(records))
	for _, rec := range records {
		dob, err := time.Parse(dateLayout, rec.DOB)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", rec.Name, err)
		}
		registered, err := parseISO(rec.Registered)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", rec.Name, err)
		}
		limit := DefaultCreditLimit
		if rec.CreditLimit != nil {
			limit = *rec.CreditLimit
		}
		users = append(users, User{
			Name:        rec.Name,
			DOB:         dob,
			Registered:  registered,
			CreditLimit: limit,
		})
	}
	return users, nil
}

func (s *FileStore) AppendUser(_ context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []userRecord
	if err := s.readFile(usersFile, &records); err != nil {
		return err
	}
	limit := u.CreditLimit
	records = append(records, userRecord{
		Name:        u.Name,
		DOB:         u.DOB.Format(dateLayout),
		Registered:  formatISO(u.Registered),
		CreditLimit: &limit,
	})
	return s.writeFile(usersFile, records)
}

func (s *FileStore) LoadPurchases(_ context.Context) ([]Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []purchaseRecord
	if err := s.readFile(purchasesFile, &records); err != nil {
		return nil, err
	}

	purchases := make([]Purchase, 0, len(records))
	for _, rec := range records {
		ts, err := parseISO(rec.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("purchase for %q: %w", rec.User, err)
		}
		purchases = append(purchases, Purchase{User: rec.User, Amount: rec.Amount, Timestamp: ts})
	}
	return purchases, nil
}

func (s *FileStore) AppendPurchase(_ context.Context, p Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []purchaseRecord
	if err := s.readFile(purchasesFile, &records); err != nil {
		return err
	}
	records = append(records, purchaseRecord{User: p.User, Amount: p.Amount, Timestamp: formatISO(p.Timestamp)})
	return s.writeFile(purchasesFile, records)
}

func (s *FileStore) LoadRepayments(_ context.Context) ([]Repayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []repaymentRecord
	if err := s.readFile(repaymentsFile, &records); err != nil {
		return nil, err
	}

	repayments := make([]Repayment, 0, len(records))
	for _, rec := range records {
		ts, err := parseISO(rec.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("repayment for %q: %w", rec.User, err)
		}
		repayments = append(repayments, Repayment{User: rec.User, Amount: rec.Amount, Timestamp: ts})
	}
	return repayments, nil
}

func (s *FileStore) AppendRepayment(_ context.Context, r Repayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []repaymentRecord
	if err := s.readFile(repaymentsFile, &records); err != nil {
		return err
	}
	records = append(records, repaymentRecord{User: r.User, Amount: r.Amount, Timestamp: formatISO(r.Timestamp)})
	return s.writeFile(repaymentsFile, records)
}

func (s *FileStore) LoadVerifications(_ context.Context) ([]Verification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []verificationRecord
	if err := s.readFile(verificationsFile, &records); err != nil {
		return nil, err
	}

	verifications := make([]Verification, 0, len(records))
	for _, rec := range records {
		ts, err := parseISO(rec.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("verification for %q: %w", rec.User, err)
		}
		verifications = append(verifications, Verification{User: rec.User, Status: rec.Status, Timestamp: ts})
	}
	return verifications, nil
}

func (s *FileStore) AppendVerification(_ context.Context, v Verification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []verificationRecord
	if err := s.readFile(verificationsFile, &records); err != nil {
		return err
	}
	records = append(records, verificationRecord{User: v.User, Status: v.Status, Timestamp: formatISO(v.Timestamp)})
	return s.writeFile(verificationsFile, records)
}
