package scoring

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ExposureBase is the 200,000-hour normalisation base (100 full-time workers
// for one year).
const ExposureBase = 200000

// divPrecision is the decimal places kept in the quotient before converting
// to float64; more than a float64 can carry, so rates are not rounded.
const divPrecision = 24

var exposureBase = decimal.NewFromInt(ExposureBase)

// Counts are the raw tallies a safety-metric period records.
type Counts struct {
	HoursWorked             float64 `json:"hoursWorked"`
	LostTimeInjuries        int     `json:"lostTimeInjuries"`
	TotalRecordableInjuries int     `json:"totalRecordableInjuries"`
	DaysLost                int     `json:"daysLost"`
	NearMisses              int     `json:"nearMisses"`
}

// Add returns the element-wise sum of two count sets.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		HoursWorked:             c.HoursWorked + o.HoursWorked,
		LostTimeInjuries:        c.LostTimeInjuries + o.LostTimeInjuries,
		TotalRecordableInjuries: c.TotalRecordableInjuries + o.TotalRecordableInjuries,
		DaysLost:                c.DaysLost + o.DaysLost,
		NearMisses:              c.NearMisses + o.NearMisses,
	}
}

// Rates are injury rates per ExposureBase hours.
type Rates struct {
	LTIFR        float64 `json:"ltifr"`
	TRIR         float64 `json:"trir"`
	SeverityRate float64 `json:"severityRate"`
}

// ComputeRates derives LTIFR, TRIR and severity rate. Zero hours worked means
// no exposure and yields zero for every rate. Negative inputs panic.
func ComputeRates(hoursWorked float64, lostTimeInjuries, totalRecordableInjuries, daysLost int) Rates {
	if hoursWorked < 0 || lostTimeInjuries < 0 || totalRecordableInjuries < 0 || daysLost < 0 {
		panic(fmt.Sprintf("scoring: negative safety input (hours=%v lti=%d tri=%d days=%d)",
			hoursWorked, lostTimeInjuries, totalRecordableInjuries, daysLost))
	}
	if hoursWorked == 0 {
		return Rates{}
	}
	hours := decimal.NewFromFloat(hoursWorked)
	return Rates{
		LTIFR:        perBase(lostTimeInjuries, hours),
		TRIR:         perBase(totalRecordableInjuries, hours),
		SeverityRate: perBase(daysLost, hours),
	}
}

// RatesFor computes rates from a count set.
func RatesFor(c Counts) Rates {
	return ComputeRates(c.HoursWorked, c.LostTimeInjuries, c.TotalRecordableInjuries, c.DaysLost)
}

// Summary is a year-to-date roll-up.
type Summary struct {
	Year   int    `json:"year"`
	Months int    `json:"months"`
	Totals Counts `json:"totals"`
	Rates  Rates  `json:"rates"`
}

// YearToDate sums raw counts across every period first and applies the rate
// formulas once to the totals. Monthly rates are never averaged.
func YearToDate(year int, periods []Counts) Summary {
	var total Counts
	for _, p := range periods {
		total = total.Add(p)
	}
	return Summary{Year: year, Months: len(periods), Totals: total, Rates: RatesFor(total)}
}

func perBase(n int, hours decimal.Decimal) float64 {
	return decimal.NewFromInt(int64(n)).
		Mul(exposureBase).
		DivRound(hours, divPrecision).
		InexactFloat64()
}
