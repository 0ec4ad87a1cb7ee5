package models

import (
	"encoding/json"
	"time"
)

// Role is the single role a user holds for a session.
type Role string

const (
	RolePatient   Role = "patient"
	RoleCaregiver Role = "caregiver"
	RoleDoctor    Role = "doctor"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleCaregiver, RoleDoctor:
		return true
	}
	return false
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Viewer is the acting user passed explicitly into every engine call.
type Viewer struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) Viewer() Viewer {
	return Viewer{Email: u.Email, Role: u.Role}
}

// RiskLevel is the stroke risk tier.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

const (
	SmokingSmokes   = "smokes"
	SmokingFormerly = "formerly smoked"
	SmokingNever    = "never smoked"
	SmokingUnknown  = "Unknown"
)

// FormData holds the self-reported attributes of one assessment. Numeric
// fields are pointers so a missing value is distinguishable from zero.
type FormData struct {
	Gender          string   `json:"gender"`
	Age             *float64 `json:"age"`
	Hypertension    int      `json:"hypertension"`
	HeartDisease    int      `json:"heart_disease"`
	EverMarried     string   `json:"ever_married"`
	WorkType        string   `json:"work_type"`
	ResidenceType   string   `json:"residence_type"`
	AvgGlucoseLevel *float64 `json:"avg_glucose_level"`
	BMI             *float64 `json:"bmi"`
	SmokingStatus   string   `json:"smoking_status"`
}

type HealthAssessment struct {
	ID              int64     `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	PatientEmail    string    `json:"patientEmail"`
	FormData        FormData  `json:"formData"`
	TotalScore      int       `json:"totalScore"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Stage           string    `json:"stage"`
	Color           string    `json:"color"`
	Message         string    `json:"message"`
	Recommendations []string  `json:"recommendations,omitempty"`
}

// Observation is one FAST check result. The zero value means not yet observed.
type Observation string

const (
	ObservationUnset    Observation = ""
	ObservationNormal   Observation = "normal"
	ObservationAbnormal Observation = "abnormal"
)

func (o Observation) MarshalJSON() ([]byte, error) {
	if o == ObservationUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(o))
}

func (o *Observation) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = ObservationUnset
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = Observation(s)
	return nil
}

type FASTResults struct {
	Face   Observation `json:"face"`
	Arms   Observation `json:"arms"`
	Speech Observation `json:"speech"`
	// Time is when symptoms were first noticed, informational only.
	Time *time.Time `json:"time,omitempty"`
}

type FASTTestRecord struct {
	ID           int64       `json:"id"`
	Timestamp    time.Time   `json:"timestamp"`
	PatientEmail string      `json:"patientEmail"`
	Results      FASTResults `json:"results"`
	Emergency    bool        `json:"emergency"`
}

// SharedRecordGrant makes one assessment visible to one caregiver or doctor.
// The assessment payload is copied in at share time.
type SharedRecordGrant struct {
	ID             int64     `json:"id"`
	PatientEmail   string    `json:"patientEmail"`
	RecipientEmail string    `json:"recipientEmail"`
	RecipientRole  Role      `json:"recipientRole"`
	AssessmentID   int64     `json:"assessmentId"`
	TotalScore     int       `json:"totalScore"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	Stage          string    `json:"stage"`
	Color          string    `json:"color"`
	Timestamp      time.Time `json:"timestamp"`
	FormData       FormData  `json:"formData"`
	Message        string    `json:"message"`
	SharedAt       time.Time `json:"sharedAt"`
}

type MessageKind string

const (
	MessageGeneral       MessageKind = "general"
	MessageEncouragement MessageKind = "encouragement"
	MessageEmergency     MessageKind = "emergency"
)

type Message struct {
	ID        int64       `json:"id"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Subject   string      `json:"subject"`
	Body      string      `json:"body"`
	Category  MessageKind `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
	Read      bool        `json:"read"`
}

const (
	AlertFASTEmergency = "FAST_EMERGENCY"
	AlertHighRisk      = "HIGH_RISK"

	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

type Alert struct {
	ID           int64     `json:"id"`
	PatientEmail string    `json:"patientEmail"`
	Type         string    `json:"type"`
	Severity     string    `json:"severity"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // assessment.created, fast.emergency
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

const (
	EventAssessmentCreated = "assessment.created"
	EventFASTEmergency     = "fast.emergency"
)

// Auth payloads
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Password string `json:"password"`
}
