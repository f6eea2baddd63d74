package workflowapimodels

import (
	"time"

	"github.com/pkg/errors"

	"recruit-flow-backend/models"
	dbmodels "recruit-flow-backend/models/db"
)

type SubmitRequest struct {
	JobID               string `json:"job_id"`
	CompanyID           string `json:"company_id"`
	PersonalInformation string `json:"personal_information"`
	ResumeUrl           string `json:"resume_url"`
	CoverLetter         string `json:"cover_letter"`
}

func (r SubmitRequest) Validate() error {
	if r.JobID == "" {
		return errors.New("не указан идентификатор вакансии")
	}
	if r.CompanyID == "" {
		return errors.New("не указан идентификатор работодателя")
	}
	return nil
}

type TransitionRequest struct {
	Target models.ApplicationStage `json:"target"`
	Reason string                  `json:"reason"`
	Data   map[string]interface{}  `json:"data"`
}

func (r TransitionRequest) Validate() error {
	if r.Target == "" {
		return errors.New("не указан целевой этап")
	}
	return nil
}

type WithdrawRequest struct {
	Reason string `json:"reason"`
}

type ApplicationView struct {
	ID                   string                       `json:"id"`
	JobID                string                       `json:"job_id"`
	StudentID            string                       `json:"student_id"`
	CompanyID            string                       `json:"company_id"`
	Status               models.ApplicationStage      `json:"status"`
	StatusName           string                       `json:"status_name"`
	StatusHistory        []dbmodels.StatusHistoryEntry `json:"status_history"`
	StageEnteredAt       time.Time                    `json:"stage_entered_at"`
	UpdatedAt            time.Time                    `json:"updated_at"`
	ResumeUrl            string                       `json:"resume_url,omitempty"`
	CoverLetter          string                       `json:"cover_letter,omitempty"`
	InterviewScheduledAt *time.Time                   `json:"interview_scheduled_at,omitempty"`
	OfferedAt            *time.Time                   `json:"offered_at,omitempty"`
	OfferExpiresAt       *time.Time                   `json:"offer_expires_at,omitempty"`
	OfferLetterUrl       string                       `json:"offer_letter_url,omitempty"`
	RejectionReason      string                       `json:"rejection_reason,omitempty"`
}

func ApplicationConvert(rec dbmodels.Application) ApplicationView {
	return ApplicationView{
		ID:                   rec.ID,
		JobID:                rec.JobID,
		StudentID:            rec.StudentID,
		CompanyID:            rec.CompanyID,
		Status:               rec.Status,
		StatusName:           rec.Status.ToHuman(),
		StatusHistory:        rec.StatusHistory,
		StageEnteredAt:       rec.StageEnteredAt,
		UpdatedAt:            rec.UpdatedAt,
		ResumeUrl:            rec.ResumeUrl,
		CoverLetter:          rec.CoverLetter,
		InterviewScheduledAt: rec.InterviewScheduledAt,
		OfferedAt:            rec.OfferedAt,
		OfferExpiresAt:       rec.OfferExpiresAt(),
		OfferLetterUrl:       rec.OfferLetterUrl,
		RejectionReason:      rec.RejectionReason,
	}
}

// StageActionView - допустимый следующий этап с метаданными для UI
type StageActionView struct {
	ID             models.ApplicationStage `json:"id"`
	Label          string                  `json:"label"`
	Description    string                  `json:"description"`
	RequiredFields []string                `json:"required_fields"`
}

type DecisionPointView struct {
	Stage    models.ApplicationStage `json:"stage"`
	Question string                  `json:"question"`
	Options  []DecisionOptionView    `json:"options"`
}

type DecisionOptionView struct {
	Answer    string                  `json:"answer"`
	NextStage models.ApplicationStage `json:"next_stage"`
	Weight    float64                 `json:"weight"`
}

type HealthReportView struct {
	CheckedAt         time.Time                  `json:"checked_at"`
	Health            models.WorkflowHealth      `json:"health"`
	StuckCount        int                        `json:"stuck_count"`
	BottleneckCount   int                        `json:"bottleneck_count"`
	SlaViolationCount int                        `json:"sla_violation_count"`
	StuckApplications []dbmodels.StuckApplication `json:"stuck_applications"`
	Bottlenecks       []dbmodels.StageBottleneck  `json:"bottlenecks"`
}

func HealthReportConvert(rec dbmodels.HealthReport) HealthReportView {
	return HealthReportView{
		CheckedAt:         rec.CheckedAt,
		Health:            rec.Health,
		StuckCount:        rec.StuckCount,
		BottleneckCount:   rec.BottleneckCount,
		SlaViolationCount: rec.SlaViolationCount,
		StuckApplications: rec.Details.StuckApplications,
		Bottlenecks:       rec.Details.Bottlenecks,
	}
}

type NotificationView struct {
	ID        string                  `json:"id"`
	Code      models.NotificationCode `json:"code"`
	Subject   string                  `json:"subject"`
	Body      string                  `json:"body"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

func NotificationConvert(rec dbmodels.Notification) NotificationView {
	return NotificationView{
		ID:        rec.ID,
		Code:      rec.Code,
		Subject:   rec.Subject,
		Body:      rec.Body,
		IsRead:    rec.IsRead,
		CreatedAt: rec.CreatedAt,
	}
}
