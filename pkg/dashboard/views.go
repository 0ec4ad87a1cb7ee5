package dashboard

import (
	"time"

	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/sharing"
)

const (
	PatientRecentResults = 3
	PatientRecentAlerts  = 5
	PatientRecentFAST    = 3
	CaregiverRecentMsgs  = 5
	DoctorTopPatients    = 10
)

// PatientInput holds one patient's records in creation order.
type PatientInput struct {
	Assessments    []models.HealthAssessment
	Alerts         []models.Alert
	FASTTests      []models.FASTTestRecord
	Grants         []models.SharedRecordGrant
	UnreadMessages int
	Now            time.Time
	RetestInterval time.Duration
}

type PatientView struct {
	History         []models.HealthAssessment `json:"history"`
	RecentResults   []models.HealthAssessment `json:"recentResults"`
	RecentAlerts    []models.Alert            `json:"recentAlerts"`
	RecentFASTTests []models.FASTTestRecord   `json:"recentFastTests"`
	Stats           TierCounts                `json:"stats"`
	AverageScore    float64                   `json:"averageScore"`
	LatestLevel     models.RiskLevel          `json:"latestRiskLevel,omitempty"`
	RetestDue       bool                      `json:"retestDue"`
	SharedCount     int                       `json:"sharedCount"`
	UnreadMessages  int                       `json:"unreadMessages"`
}

func Patient(in PatientInput) PatientView {
	history := NewestFirst(in.Assessments)
	view := PatientView{
		History:         history,
		RecentResults:   TopN(history, PatientRecentResults),
		RecentAlerts:    TopN(NewestFirst(in.Alerts), PatientRecentAlerts),
		RecentFASTTests: TopN(NewestFirst(in.FASTTests), PatientRecentFAST),
		Stats:           CountByTier(in.Assessments, assessmentLevel),
		AverageScore:    AverageScore(in.Assessments, assessmentScore),
		RetestDue:       RetestDue(in.Assessments, in.Now, in.RetestInterval),
		SharedCount:     len(in.Grants),
		UnreadMessages:  in.UnreadMessages,
	}
	if len(history) > 0 {
		view.LatestLevel = history[0].RiskLevel
	}
	return view
}

// RetestDue reports whether interval has passed since the newest assessment.
// No assessments at all means a test is due.
func RetestDue(assessments []models.HealthAssessment, now time.Time, interval time.Duration) bool {
	if len(assessments) == 0 {
		return true
	}
	latest := assessments[0].Timestamp
	for _, a := range assessments[1:] {
		if a.Timestamp.After(latest) {
			latest = a.Timestamp
		}
	}
	return now.Sub(latest) >= interval
}

type CaregiverView struct {
	Patients       []models.SharedRecordGrant `json:"patients"`
	SharedRecords  int                        `json:"sharedRecords"`
	Stats          TierCounts                 `json:"stats"`
	RecentMessages []models.Message           `json:"recentMessages"`
}

// Caregiver summarizes grants already filtered to the caregiver and the
// caregiver's inbox, newest first.
func Caregiver(grants []models.SharedRecordGrant, inbox []models.Message) CaregiverView {
	patients := sharing.LatestSlice(grants)
	return CaregiverView{
		Patients:       patients,
		SharedRecords:  len(grants),
		Stats:          CountByTier(patients, grantLevel),
		RecentMessages: TopN(inbox, CaregiverRecentMsgs),
	}
}

type DoctorView struct {
	Stats TierCounts                 `json:"stats"`
	Top   []models.SharedRecordGrant `json:"top"`
	All   []models.SharedRecordGrant `json:"all"`
}

// Doctor counts every visible grant but lists one summary per patient,
// highest risk first.
func Doctor(grants []models.SharedRecordGrant, topN int) DoctorView {
	if topN <= 0 {
		topN = DoctorTopPatients
	}
	all := SortByPriority(sharing.LatestSlice(grants))
	return DoctorView{
		Stats: CountByTier(grants, grantLevel),
		Top:   TopN(all, topN),
		All:   all,
	}
}
