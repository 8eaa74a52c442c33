package domain

// Typed list filters. A nil field means "no constraint".

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize clamps the page into a usable window.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

type RiskFilter struct {
	Standard *Standard
	Status   *RiskStatus
	Level    *string
	MinScore *int
	Search   *string
	Page
}

type AspectFilter struct {
	Status *RiskStatus
	Level  *string
	Search *string
	Page
}

type IncidentFilter struct {
	Standard *Standard
	Status   *IncidentStatus
	Page
}

type ActionFilter struct {
	Standard    *Standard
	Status      *ActionStatus
	OverdueOnly bool
	Page
}

type LegalFilter struct {
	Standard         *Standard
	ComplianceStatus *ComplianceStatus
	Page
}

type AnalysisFilter struct {
	Status *AnalysisStatus
	Page
}

// ListResult is a page of items with the unpaged total.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}
