package models

type ApplicationStage string

const (
	StageSubmitted          ApplicationStage = "submitted"
	StageFirstLevelReview   ApplicationStage = "first_level_review"
	StagePendingAcceptance  ApplicationStage = "pending_acceptance"
	StageAccepted           ApplicationStage = "accepted"
	StageShortlisted        ApplicationStage = "shortlisted"
	StageInterviewScheduled ApplicationStage = "interview_scheduled"
	StageInterviewCompleted ApplicationStage = "interview_completed"
	StageOfferExtended      ApplicationStage = "offer_extended"
	StageOfferAccepted      ApplicationStage = "offer_accepted"
	StageOfferDeclined      ApplicationStage = "offer_declined"
	StageRejected           ApplicationStage = "rejected"
	StageWithdrawn          ApplicationStage = "withdrawn"
)

var stageHumanName = map[ApplicationStage]string{
	StageSubmitted:          "Новый отклик",
	StageFirstLevelReview:   "Первичное рассмотрение",
	StagePendingAcceptance:  "Ожидает решения",
	StageAccepted:           "Принят в работу",
	StageShortlisted:        "В шорт-листе",
	StageInterviewScheduled: "Интервью назначено",
	StageInterviewCompleted: "Интервью проведено",
	StageOfferExtended:      "Оффер направлен",
	StageOfferAccepted:      "Оффер принят",
	StageOfferDeclined:      "Оффер отклонен",
	StageRejected:           "Отклонен",
	StageWithdrawn:          "Отозван кандидатом",
}

func (s ApplicationStage) ToHuman() string {
	if human, exist := stageHumanName[s]; exist {
		return human
	}
	return string(s)
}

// SystemActor - идентификатор системы в истории статусов при автоматических переходах
const SystemActor = "system"

type WorkflowHealth string

const (
	WorkflowHealthy  WorkflowHealth = "healthy"
	WorkflowDegraded WorkflowHealth = "degraded"
	WorkflowCritical WorkflowHealth = "critical"
)

type SlaSeverity string

const (
	SlaSeverityLow      SlaSeverity = "low"
	SlaSeverityMedium   SlaSeverity = "medium"
	SlaSeverityHigh     SlaSeverity = "high"
	SlaSeverityCritical SlaSeverity = "critical"
)

type NotificationCode string

const (
	NotificationNewApplication    NotificationCode = "new_application"     // новый отклик по вакансии
	NotificationReviewTask        NotificationCode = "review_task"         // назначена задача на рассмотрение
	NotificationHiringManager     NotificationCode = "hiring_manager"      // отклик ожидает решения менеджера
	NotificationInterviewInvite   NotificationCode = "interview_invite"    // приглашение на интервью
	NotificationOfferLetter       NotificationCode = "offer_letter"        // направлен оффер
	NotificationRejection         NotificationCode = "rejection"           // отклик отклонен
	NotificationReviewOverdue     NotificationCode = "review_overdue"      // просрочено первичное рассмотрение
	NotificationInterviewReminder NotificationCode = "interview_reminder"  // напоминание об интервью
	NotificationOfferExpiring     NotificationCode = "offer_expiring"      // срок оффера истекает
	NotificationSlaEscalation     NotificationCode = "sla_escalation"      // эскалация нарушения SLA
	NotificationHealthAlert       NotificationCode = "health_alert"        // деградация процесса подбора
	NotificationStageChanged      NotificationCode = "stage_changed"       // смена этапа отклика
)

type WorkflowActionID string

const (
	ActionNotifyCompany         WorkflowActionID = "notify_company"
	ActionAssignReviewer        WorkflowActionID = "assign_reviewer"
	ActionCreateReviewTask      WorkflowActionID = "create_review_task"
	ActionNotifyHiringManager   WorkflowActionID = "notify_hiring_manager"
	ActionStartDetailedReview   WorkflowActionID = "start_detailed_review"
	ActionPrepareInterview      WorkflowActionID = "prepare_interview_materials"
	ActionSendInterviewInvite   WorkflowActionID = "send_interview_invitation"
	ActionCollectFeedback       WorkflowActionID = "collect_interview_feedback"
	ActionSendOfferLetter       WorkflowActionID = "send_offer_letter"
	ActionStartOnboarding       WorkflowActionID = "start_onboarding_process"
	ActionUpdateTalentPool      WorkflowActionID = "update_talent_pool"
	ActionSendRejectionNotice   WorkflowActionID = "send_rejection_notification"
	ActionNotifyStageChanged    WorkflowActionID = "notify_stage_changed"
)
