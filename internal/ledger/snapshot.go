package ledger

// Snapshot is an in-memory copy of the full ledger, loaded once per
// request or validation run. All slices preserve insertion order.
type Snapshot struct {
	Users         []User
	Purchases     []Purchase
	Repayments    []Repayment
	Verifications []Verification
}

// User returns the user with the given name, or false if absent.
func (s *Snapshot) User(name string) (*User, bool) {
	for i := range s.Users {
		if s.Users[i].Name == name {
			return &s.Users[i], true
		}
	}
	return nil, false
}

// UserPurchases returns all purchases for the named user, in insertion order.
func (s *Snapshot) UserPurchases(name string) []Purchase {
	var out []Purchase
	for _, p := range s.Purchases {
		if p.User == name {
			out = append(out, p)
		}
	}
	return out
}

// UserRepayments returns all repayments for the named user, in insertion order.
func (s *Snapshot) UserRepayments(name string) []Repayment {
	var out []Repayment
	for _, r := range s.Repayments {
		if r.User == name {
			out = append(out, r)
		}
	}
	return out
}

// IncomeStatus returns the status of the last-inserted verification for
// the user, or StatusNotVerified if none exists. Insertion order, not the
// timestamp field, is authoritative.
func (s *Snapshot) IncomeStatus(name string) string {
	for i := len(s.Verifications) - 1; i >= 0; i-- {
		if s.Verifications[i].User == name {
			return s.Verifications[i].Status
		}
	}
	return StatusNotVerified
}
