package risk

import (
	"context"

	"github.com/tessfin/paylater/internal/compliance"
	"github.com/tessfin/paylater/internal/ledger"
	"github.com/tessfin/paylater/internal/traces"
)

// Profile is the full risk view of one user.
type Profile struct {
	Name          string  `json:"name"`
	RiskScores    Scores  `json:"risk_scores"`
	Utilization   float64 `json:"utilization"`
	Velocity7d    int     `json:"transaction_velocity_7d"`
	Velocity30d   int     `json:"transaction_velocity_30d"`
	DefaultStatus bool    `json:"default_status"`
	Compliance    string  `json:"compliance"`
}

// Overview is the condensed per-user row for population listings. It
// omits the velocity figures.
type Overview struct {
	Name          string  `json:"name"`
	RiskScores    Scores  `json:"risk_scores"`
	Utilization   float64 `json:"utilization"`
	DefaultStatus bool    `json:"default_status"`
	Compliance    string  `json:"compliance"`
}

// Service answers risk-profile queries. Each query loads one snapshot
// and computes everything from it.
type Service struct {
	ledger *ledger.Ledger
}

// NewService creates a profile service over the given ledger.
func NewService(l *ledger.Ledger) *Service {
	return &Service{ledger: l}
}

// UserProfile returns the full risk profile for one user, or
// ledger.ErrUserNotFound if they are not registered.
func (s *Service) UserProfile(ctx context.Context, name string) (*Profile, error) {
	ctx, span := traces.StartSpan(ctx, "risk.UserProfile", traces.UserName(name))
	defer span.End()

	snap, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.User(name); !ok {
		return nil, ledger.ErrUserNotFound
	}

	engine := NewEngine(snap)
	return &Profile{
		Name:          name,
		RiskScores:    engine.Scores(name),
		Utilization:   engine.Utilization(name),
		Velocity7d:    engine.Velocity(name, 7),
		Velocity30d:   engine.Velocity(name, 30),
		DefaultStatus: engine.InDefault(name),
		Compliance:    string(compliance.Check(snap, name, engine.Now())),
	}, nil
}

// AllProfiles returns an overview row for every registered user, in
// registration order.
func (s *Service) AllProfiles(ctx context.Context) ([]Overview, error) {
	ctx, span := traces.StartSpan(ctx, "risk.AllProfiles")
	defer span.End()

	snap, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	engine := NewEngine(snap)
	overviews := make([]Overview, 0, len(snap.Users))
	for _, u := range snap.Users {
		overviews = append(overviews, Overview{
			Name:          u.Name,
			RiskScores:    engine.Scores(u.Name),
			Utilization:   engine.Utilization(u.Name),
			DefaultStatus: engine.InDefault(u.Name),
			Compliance:    string(compliance.Check(snap, u.Name, engine.Now())),
		})
	}
	return overviews, nil
}
