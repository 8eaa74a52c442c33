package domain

import "time"

// Core register models. Derived fields (Score, Level, rates) are owned by the
// services layer and always recomputed from the raw inputs before a write.

type Standard string

const (
	ISO45001 Standard = "ISO_45001" // health & safety
	ISO14001 Standard = "ISO_14001" // environmental
	ISO9001  Standard = "ISO_9001"  // quality
)

// Standards lists every tracked standard in presentation order.
var Standards = []Standard{ISO45001, ISO14001, ISO9001}

func (s Standard) Valid() bool {
	switch s {
	case ISO45001, ISO14001, ISO9001:
		return true
	}
	return false
}

type RiskStatus string

const (
	RiskIdentified RiskStatus = "IDENTIFIED"
	RiskAssessed   RiskStatus = "ASSESSED"
	RiskMitigating RiskStatus = "MITIGATING"
	RiskMonitoring RiskStatus = "MONITORING"
	RiskClosed     RiskStatus = "CLOSED"
)

func (s RiskStatus) Valid() bool {
	switch s {
	case RiskIdentified, RiskAssessed, RiskMitigating, RiskMonitoring, RiskClosed:
		return true
	}
	return false
}

type IncidentStatus string

const (
	IncidentOpen          IncidentStatus = "OPEN"
	IncidentInvestigating IncidentStatus = "INVESTIGATING"
	IncidentClosed        IncidentStatus = "CLOSED"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentOpen, IncidentInvestigating, IncidentClosed:
		return true
	}
	return false
}

type ActionStatus string

const (
	ActionOpen       ActionStatus = "OPEN"
	ActionInProgress ActionStatus = "IN_PROGRESS"
	ActionCompleted  ActionStatus = "COMPLETED"
	ActionCancelled  ActionStatus = "CANCELLED"
)

func (s ActionStatus) Valid() bool {
	switch s {
	case ActionOpen, ActionInProgress, ActionCompleted, ActionCancelled:
		return true
	}
	return false
}

// IsOpen reports whether the action still has work outstanding.
func (s ActionStatus) IsOpen() bool { return s == ActionOpen || s == ActionInProgress }

type ComplianceStatus string

const (
	Compliant    ComplianceStatus = "COMPLIANT"
	Partial      ComplianceStatus = "PARTIAL"
	NonCompliant ComplianceStatus = "NON_COMPLIANT"
	NotAssessed  ComplianceStatus = "NOT_ASSESSED"
)

func (s ComplianceStatus) Valid() bool {
	switch s {
	case Compliant, Partial, NonCompliant, NotAssessed:
		return true
	}
	return false
}

type AnalysisStatus string

const (
	AnalysisPending   AnalysisStatus = "PENDING"
	AnalysisCompleted AnalysisStatus = "COMPLETED"
	AnalysisFailed    AnalysisStatus = "FAILED"
)

func (s AnalysisStatus) Valid() bool {
	switch s {
	case AnalysisPending, AnalysisCompleted, AnalysisFailed:
		return true
	}
	return false
}

type Risk struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Standard      Standard   `json:"standard"`
	Likelihood    int        `json:"likelihood"`
	Severity      int        `json:"severity"`
	Detectability int        `json:"detectability"`
	Score         int        `json:"score"`
	Level         string     `json:"level"`
	Status        RiskStatus `json:"status"`
	Owner         string     `json:"owner,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Active reports whether the risk still counts towards exposure.
func (r Risk) Active() bool { return r.Status != RiskClosed }

type EnvironmentalAspect struct {
	ID         string     `json:"id"`
	Activity   string     `json:"activity"`
	Aspect     string     `json:"aspect"`
	Impact     string     `json:"impact,omitempty"`
	Likelihood int        `json:"likelihood"`
	Severity   int        `json:"severity"`
	Frequency  int        `json:"frequency"`
	Score      int        `json:"score"`
	Level      string     `json:"level"`
	Status     RiskStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type Incident struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Standard     Standard       `json:"standard"`
	Severity     string         `json:"severity,omitempty"`
	Status       IncidentStatus `json:"status"`
	DateOccurred time.Time      `json:"dateOccurred"`
	CreatedAt    time.Time      `json:"createdAt"`
	ClosedAt     *time.Time     `json:"closedAt,omitempty"`
}

type Action struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Standard    Standard     `json:"standard"`
	Status      ActionStatus `json:"status"`
	DueDate     time.Time    `json:"dueDate"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Overdue reports whether an open action is past its due date at now.
func (a Action) Overdue(now time.Time) bool {
	return a.Status.IsOpen() && a.DueDate.Before(now)
}

type LegalRequirement struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Jurisdiction     string           `json:"jurisdiction,omitempty"`
	Standard         Standard         `json:"standard"`
	ComplianceStatus ComplianceStatus `json:"complianceStatus"`
	ReviewDate       *time.Time       `json:"reviewDate,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

type SafetyMetricPeriod struct {
	ID                      string  `json:"id"`
	Year                    int     `json:"year"`
	Month                   int     `json:"month"`
	HoursWorked             float64 `json:"hoursWorked"`
	LostTimeInjuries        int     `json:"lostTimeInjuries"`
	TotalRecordableInjuries int     `json:"totalRecordableInjuries"`
	DaysLost                int     `json:"daysLost"`
	NearMisses              int     `json:"nearMisses"`
	LTIFR                   float64 `json:"ltifr"`
	TRIR                    float64 `json:"trir"`
	SeverityRate            float64 `json:"severityRate"`
}

type AIAnalysis struct {
	ID        string         `json:"id"`
	Subject   string         `json:"subject"`
	Standard  *Standard      `json:"standard,omitempty"`
	Status    AnalysisStatus `json:"status"`
	Summary   string         `json:"summary,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ComplianceScore is the per-standard aggregate. Sub-rates are percentages in
// [0,100]; Overall is their rounded unweighted mean.
type ComplianceScore struct {
	Standard            Standard `json:"standard"`
	IncidentClosureRate float64  `json:"incidentClosureRate"`
	ActionOnTimeRate    float64  `json:"actionOnTimeRate"`
	LegalComplianceRate float64  `json:"legalComplianceRate"`
	RiskExposureRate    float64  `json:"riskExposureRate"`
	Overall             int      `json:"overallScore"`
	HasData             bool     `json:"hasData"`
}

// CachedScore is a cached ComplianceScore together with what it was computed
// from: the scoring tables fingerprint and, when an open action is not yet
// overdue, the due date after which the on-time rate would change.
type CachedScore struct {
	Score      ComplianceScore `json:"score"`
	Tables     string          `json:"tables"`
	ValidUntil *time.Time      `json:"validUntil,omitempty"`
}

// Fresh reports whether c still equals a recomputation with tables at now.
func (c CachedScore) Fresh(tables string, now time.Time) bool {
	if c.Tables != tables {
		return false
	}
	return c.ValidUntil == nil || !now.After(*c.ValidUntil)
}

// ComplianceSnapshot is a recorded ComplianceScore at a point in time.
type ComplianceSnapshot struct {
	ComplianceScore
	RecordedAt time.Time `json:"recordedAt"`
}
