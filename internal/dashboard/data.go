// Package dashboard serves the demo datasets the dashboard renders before
// any document has been uploaded: projects, KPIs, milestones, risks, and
// resource allocation.
package dashboard

// Project is one row of the portfolio view.
type Project struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Progress int     `json:"progress"`
	Owner    string  `json:"owner"`
	Budget   float64 `json:"budget"`
	Spent    float64 `json:"spent"`
}

// KPI is a headline metric with its trend direction.
type KPI struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Target float64 `json:"target"`
	Trend  string  `json:"trend"`
}

// Milestone is a dated delivery checkpoint.
type Milestone struct {
	ID      string `json:"id"`
	Project string `json:"project"`
	Title   string `json:"title"`
	Due     string `json:"due"`
	Status  string `json:"status"`
}

// Risk is a tracked portfolio risk.
type Risk struct {
	ID          string `json:"id"`
	Project     string `json:"project"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Likelihood  string `json:"likelihood"`
	Mitigation  string `json:"mitigation"`
}

// Resource is a team allocation row.
type Resource struct {
	Team       string `json:"team"`
	Headcount  int    `json:"headcount"`
	Allocated  int    `json:"allocated"`
	Available  int    `json:"available"`
	TopProject string `json:"top_project"`
}

// Provider hands out dashboard datasets. The static implementation returns
// copies so handlers cannot corrupt the shared data.
type Provider interface {
	Projects() []Project
	KPIs() []KPI
	Milestones() []Milestone
	Risks() []Risk
	Resources() []Resource
}

type staticProvider struct{}

// NewStaticProvider returns the built-in sample datasets.
func NewStaticProvider() Provider {
	return staticProvider{}
}

func (staticProvider) Projects() []Project {
	return []Project{
		{ID: "prj-001", Name: "Customer Portal Revamp", Status: "on-track", Progress: 68, Owner: "Mercer", Budget: 420000, Spent: 262000},
		{ID: "prj-002", Name: "Data Warehouse Migration", Status: "at-risk", Progress: 41, Owner: "Okafor", Budget: 710000, Spent: 389000},
		{ID: "prj-003", Name: "Mobile App v3", Status: "on-track", Progress: 83, Owner: "Lindqvist", Budget: 295000, Spent: 241000},
		{ID: "prj-004", Name: "Compliance Automation", Status: "delayed", Progress: 22, Owner: "Tanaka", Budget: 180000, Spent: 97000},
	}
}

func (staticProvider) KPIs() []KPI {
	return []KPI{
		{Name: "Monthly Recurring Revenue", Value: 1.42, Unit: "M USD", Target: 1.5, Trend: "up"},
		{Name: "Customer Churn", Value: 2.1, Unit: "%", Target: 2.0, Trend: "down"},
		{Name: "Net Promoter Score", Value: 47, Unit: "", Target: 50, Trend: "up"},
		{Name: "On-time Delivery", Value: 88, Unit: "%", Target: 95, Trend: "flat"},
	}
}

func (staticProvider) Milestones() []Milestone {
	return []Milestone{
		{ID: "ms-101", Project: "prj-001", Title: "Beta launch to pilot customers", Due: "2026-09-15", Status: "upcoming"},
		{ID: "ms-102", Project: "prj-002", Title: "Historical data backfill complete", Due: "2026-08-31", Status: "at-risk"},
		{ID: "ms-103", Project: "prj-003", Title: "App store release", Due: "2026-09-30", Status: "upcoming"},
		{ID: "ms-104", Project: "prj-004", Title: "Audit trail sign-off", Due: "2026-08-20", Status: "missed"},
	}
}

func (staticProvider) Risks() []Risk {
	return []Risk{
		{ID: "rsk-01", Project: "prj-002", Description: "Legacy schema drift breaks nightly loads", Severity: "high", Likelihood: "medium", Mitigation: "Freeze legacy schema changes until cutover"},
		{ID: "rsk-02", Project: "prj-004", Description: "Regulator deadline moves earlier", Severity: "high", Likelihood: "low", Mitigation: "Weekly checkpoint with legal"},
		{ID: "rsk-03", Project: "prj-001", Description: "Key frontend engineer on extended leave", Severity: "medium", Likelihood: "high", Mitigation: "Cross-train two backup engineers"},
	}
}

func (staticProvider) Resources() []Resource {
	return []Resource{
		{Team: "Platform", Headcount: 12, Allocated: 11, Available: 1, TopProject: "prj-002"},
		{Team: "Product Engineering", Headcount: 18, Allocated: 15, Available: 3, TopProject: "prj-001"},
		{Team: "Mobile", Headcount: 7, Allocated: 7, Available: 0, TopProject: "prj-003"},
		{Team: "Data", Headcount: 9, Allocated: 6, Available: 3, TopProject: "prj-002"},
	}
}
