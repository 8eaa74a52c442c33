package domain

import "time"

// Write payloads accepted by the services. Pointer fields are optional; on
// create a nil factor falls back to the default, on patch it means unchanged.

type RiskInput struct {
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Standard      Standard    `json:"standard"`
	Likelihood    *int        `json:"likelihood"`
	Severity      *int        `json:"severity"`
	Detectability *int        `json:"detectability"`
	Status        *RiskStatus `json:"status"`
	Owner         string      `json:"owner"`
}

type RiskPatch struct {
	Title         *string     `json:"title"`
	Description   *string     `json:"description"`
	Standard      *Standard   `json:"standard"`
	Likelihood    *int        `json:"likelihood"`
	Severity      *int        `json:"severity"`
	Detectability *int        `json:"detectability"`
	Status        *RiskStatus `json:"status"`
	Owner         *string     `json:"owner"`
}

type AspectInput struct {
	Activity   string      `json:"activity"`
	Aspect     string      `json:"aspect"`
	Impact     string      `json:"impact"`
	Likelihood *int        `json:"likelihood"`
	Severity   *int        `json:"severity"`
	Frequency  *int        `json:"frequency"`
	Status     *RiskStatus `json:"status"`
}

type AspectPatch struct {
	Activity   *string     `json:"activity"`
	Aspect     *string     `json:"aspect"`
	Impact     *string     `json:"impact"`
	Likelihood *int        `json:"likelihood"`
	Severity   *int        `json:"severity"`
	Frequency  *int        `json:"frequency"`
	Status     *RiskStatus `json:"status"`
}

type SafetyInput struct {
	Year                    int     `json:"year"`
	Month                   int     `json:"month"`
	HoursWorked             float64 `json:"hoursWorked"`
	LostTimeInjuries        int     `json:"lostTimeInjuries"`
	TotalRecordableInjuries int     `json:"totalRecordableInjuries"`
	DaysLost                int     `json:"daysLost"`
	NearMisses              int     `json:"nearMisses"`
}

type IncidentInput struct {
	Title        string          `json:"title"`
	Standard     Standard        `json:"standard"`
	Severity     string          `json:"severity"`
	Status       *IncidentStatus `json:"status"`
	DateOccurred time.Time       `json:"dateOccurred"`
}

type ActionInput struct {
	Title    string        `json:"title"`
	Standard Standard      `json:"standard"`
	Status   *ActionStatus `json:"status"`
	DueDate  time.Time     `json:"dueDate"`
}

type LegalInput struct {
	Title            string            `json:"title"`
	Jurisdiction     string            `json:"jurisdiction"`
	Standard         Standard          `json:"standard"`
	ComplianceStatus *ComplianceStatus `json:"complianceStatus"`
	ReviewDate       *time.Time        `json:"reviewDate"`
}

type AnalysisInput struct {
	Subject  string          `json:"subject"`
	Standard *Standard       `json:"standard"`
	Status   *AnalysisStatus `json:"status"`
	Summary  string          `json:"summary"`
}
