package models

type StatusBreakdown struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ComplaintCount struct {
	Complaint string `json:"complaint"`
	Count     int    `json:"count"`
}

// Dashboard is the payload of /analytics/dashboard/.
type Dashboard struct {
	TotalEncounters       int              `json:"totalEncounters"`
	TotalPatients         int              `json:"totalPatients"`
	EncountersToday       int              `json:"encountersToday"`
	EncountersThisWeek    int              `json:"encountersThisWeek"`
	EncountersThisMonth   int              `json:"encountersThisMonth"`
	EncountersByStatus    StatusBreakdown  `json:"encountersByStatus"`
	EncountersByDay       []DateCount      `json:"encountersByDay"`
	AverageProcessingTime float64          `json:"averageProcessingTime"`
	MostCommonComplaints  []ComplaintCount `json:"mostCommonComplaints"`
}

func (d Dashboard) Validate() error {
	if d.TotalEncounters < 0 || d.TotalPatients < 0 {
		return invalid("negative totals in dashboard")
	}
	return nil
}

type EncounterStats struct {
	Total    int             `json:"total"`
	ByStatus StatusBreakdown `json:"byStatus"`
	Series   []DateCount     `json:"series"`
}

type PatientStats struct {
	Total        int            `json:"total"`
	NewThisMonth int            `json:"newThisMonth"`
	ByGender     map[string]int `json:"byGender"`
}

type ProcessingStats struct {
	AverageSeconds float64 `json:"averageProcessingTime"`
	SuccessRate    float64 `json:"successRate"`
	Queued         int     `json:"queued"`
	Failed         int     `json:"failed"`
}

type UserActivity struct {
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	Encounters int    `json:"encounters"`
	LastActive string `json:"last_active"`
}

// DateRange bounds analytics queries; empty fields are omitted.
type DateRange struct {
	StartDate string
	EndDate   string
}

type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

func (g GroupBy) Valid() bool {
	return g == GroupByDay || g == GroupByWeek || g == GroupByMonth
}

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"
)

func (f ExportFormat) Valid() bool {
	return f == ExportCSV || f == ExportXLSX || f == ExportPDF
}
