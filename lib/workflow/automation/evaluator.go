package automation

import (
	"time"

	"recruit-flow-backend/models"
	dbmodels "recruit-flow-backend/models/db"
)

// Автоматические переходы. Evaluate - чистая функция без побочных эффектов:
// никакой записи в БД, решение целиком определяется состоянием заявки и
// текущим временем. Переход выполняет вызывающий через движок переходов

// Причины переходов фиксируются в истории статусов как есть
const (
	ReasonBasicRequirementsMet = "Automated transition - basic requirements met"
	ReasonInterviewCompleted   = "Interview time completed"
	ReasonOfferExpired         = "Offer expired without response"
)

type Decision struct {
	Target models.ApplicationStage
	Reason string
	Data   map[string]interface{}
}

type Policy struct {
	OfferValidityDays   int
	InterviewGraceHours int
}

type rule struct {
	condition func(app dbmodels.Application, now time.Time, policy Policy) bool
	decide    func(app dbmodels.Application) Decision
}

var rules = map[models.ApplicationStage]rule{
	models.StageSubmitted: {
		condition: hasBasicRequirements,
		decide: func(app dbmodels.Application) Decision {
			return Decision{
				Target: models.StageFirstLevelReview,
				Reason: ReasonBasicRequirementsMet,
				Data: map[string]interface{}{
					"reviewer_assigned": models.SystemActor,
				},
			}
		},
	},
	models.StageInterviewScheduled: {
		condition: isInterviewTimeReached,
		decide: func(app dbmodels.Application) Decision {
			return Decision{
				Target: models.StageInterviewCompleted,
				Reason: ReasonInterviewCompleted,
				Data: map[string]interface{}{
					"interview_feedback": "awaiting feedback",
				},
			}
		},
	},
	models.StageOfferExtended: {
		condition: isOfferExpired,
		decide: func(app dbmodels.Application) Decision {
			return Decision{
				Target: models.StageOfferDeclined,
				Reason: ReasonOfferExpired,
				Data: map[string]interface{}{
					"decline_reason": ReasonOfferExpired,
				},
			}
		},
	},
}

// Evaluate возвращает nil, если автоматический переход не требуется.
// Неизвестный этап - тоже nil, а не ошибка
func Evaluate(app dbmodels.Application, now time.Time, policy Policy) *Decision {
	r, ok := rules[app.Status]
	if !ok {
		return nil
	}
	if !r.condition(app, now, policy) {
		return nil
	}
	decision := r.decide(app)
	return &decision
}

func hasBasicRequirements(app dbmodels.Application, now time.Time, policy Policy) bool {
	return app.PersonalInformation != "" &&
		app.ResumeUrl != "" &&
		app.CoverLetter != ""
}

func isInterviewTimeReached(app dbmodels.Application, now time.Time, policy Policy) bool {
	if app.InterviewScheduledAt == nil {
		return false
	}
	grace := time.Duration(policy.InterviewGraceHours) * time.Hour
	return now.After(app.InterviewScheduledAt.Add(grace))
}

func isOfferExpired(app dbmodels.Application, now time.Time, policy Policy) bool {
	if app.OfferedAt == nil {
		return false
	}
	days := app.OfferValidityDays
	if days <= 0 {
		days = policy.OfferValidityDays
	}
	return now.After(app.OfferedAt.AddDate(0, 0, days))
}
