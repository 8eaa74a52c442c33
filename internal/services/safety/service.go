package safety

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ims/internal/domain"
	"ims/internal/ports"
	"ims/internal/scoring"
)

// Service records monthly safety tallies. Rates are derived from the raw
// counts on every write and again on every read.
type Service struct {
	repo    ports.SafetyMetricRepository
	changes ports.ChangeNotifier
	now     func() time.Time
}

func New(repo ports.SafetyMetricRepository, changes ports.ChangeNotifier) *Service {
	return &Service{repo: repo, changes: changes, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Upsert creates or replaces the period for (year, month).
func (s *Service) Upsert(ctx context.Context, in domain.SafetyInput) (domain.SafetyMetricPeriod, error) {
	if err := validate(in); err != nil {
		return domain.SafetyMetricPeriod{}, err
	}
	p := domain.SafetyMetricPeriod{
		ID:                      uuid.NewString(),
		Year:                    in.Year,
		Month:                   in.Month,
		HoursWorked:             in.HoursWorked,
		LostTimeInjuries:        in.LostTimeInjuries,
		TotalRecordableInjuries: in.TotalRecordableInjuries,
		DaysLost:                in.DaysLost,
		NearMisses:              in.NearMisses,
	}
	withRates(&p)
	if err := s.repo.UpsertSafetyMetric(ctx, &p); err != nil {
		return domain.SafetyMetricPeriod{}, err
	}
	s.changes.Changed(ctx, domain.EntityChanged{
		Kind: domain.KindSafetyMetric, ID: p.ID, Standard: domain.ISO45001, Operation: "upserted", OccurredAt: s.now().UTC(),
	})
	return p, nil
}

// List returns the year's periods ordered by month with rates recomputed.
func (s *Service) List(ctx context.Context, year int) ([]domain.SafetyMetricPeriod, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	periods, err := s.repo.ListSafetyMetrics(ctx, year)
	if err != nil {
		return nil, err
	}
	for i := range periods {
		withRates(&periods[i])
	}
	return periods, nil
}

// YearToDate sums the year's raw counts and applies the formulas once.
func (s *Service) YearToDate(ctx context.Context, year int) (scoring.Summary, error) {
	periods, err := s.List(ctx, year)
	if err != nil {
		return scoring.Summary{}, err
	}
	return scoring.YearToDate(year, CountsOf(periods)), nil
}

// CountsOf extracts the raw counts of each period.
func CountsOf(periods []domain.SafetyMetricPeriod) []scoring.Counts {
	out := make([]scoring.Counts, len(periods))
	for i, p := range periods {
		out[i] = scoring.Counts{
			HoursWorked:             p.HoursWorked,
			LostTimeInjuries:        p.LostTimeInjuries,
			TotalRecordableInjuries: p.TotalRecordableInjuries,
			DaysLost:                p.DaysLost,
			NearMisses:              p.NearMisses,
		}
	}
	return out
}

func withRates(p *domain.SafetyMetricPeriod) {
	r := scoring.ComputeRates(p.HoursWorked, p.LostTimeInjuries, p.TotalRecordableInjuries, p.DaysLost)
	p.LTIFR, p.TRIR, p.SeverityRate = r.LTIFR, r.TRIR, r.SeverityRate
}

func validate(in domain.SafetyInput) error {
	var v domain.Validator
	if err := validateYear(in.Year); err != nil {
		v.Add("year", "must be between 1900 and 9999")
	}
	v.Check(in.Month >= 1 && in.Month <= 12, "month", "must be between 1 and 12")
	v.Check(in.HoursWorked >= 0, "hoursWorked", "must not be negative")
	v.Check(in.LostTimeInjuries >= 0, "lostTimeInjuries", "must not be negative")
	v.Check(in.TotalRecordableInjuries >= 0, "totalRecordableInjuries", "must not be negative")
	v.Check(in.DaysLost >= 0, "daysLost", "must not be negative")
	v.Check(in.NearMisses >= 0, "nearMisses", "must not be negative")
	return v.Err()
}

func validateYear(year int) error {
	var v domain.Validator
	v.Check(year >= 1900 && year <= 9999, "year", "must be between 1900 and 9999")
	return v.Err()
}
