package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"recruit-flow-backend/config"
	"recruit-flow-backend/db"
	"recruit-flow-backend/lib/notification"
	"recruit-flow-backend/lib/workflow/actions"
	"recruit-flow-backend/lib/workflow/automation"
	"recruit-flow-backend/lib/workflow/registry"
	applicationstore "recruit-flow-backend/lib/workflow/store"
	"recruit-flow-backend/lib/workflow/wferrors"
	"recruit-flow-backend/models"
	workflowapimodels "recruit-flow-backend/models/api/workflow"
	dbmodels "recruit-flow-backend/models/db"
)

// Движок переходов. Единственная точка смены статуса заявки:
// валидация по реестру этапов, атомарная запись с дозаписью истории,
// запуск автоматических действий после фиксации перехода

type Provider interface {
	Submit(ctx context.Context, studentID string, data workflowapimodels.SubmitRequest) (workflowapimodels.ApplicationView, error)
	GetByID(ctx context.Context, id string) (workflowapimodels.ApplicationView, error)
	Transition(ctx context.Context, id string, target models.ApplicationStage, actor, reason string, data map[string]interface{}) (workflowapimodels.ApplicationView, error)
	GetAvailableActions(stage models.ApplicationStage) []workflowapimodels.StageActionView
	GetDecisionPoint(stage models.ApplicationStage) *workflowapimodels.DecisionPointView
	ProcessAutomatedWorkflow(ctx context.Context, id string) error
}

var Instance Provider

func NewHandler() {
	store := applicationstore.NewInstance(db.DB)
	Instance = impl{
		store:   store,
		actions: actions.NewRegistry(notification.Instance, store),
	}
}

type impl struct {
	store   applicationstore.Provider
	actions *actions.Registry
}

func (i impl) getLogger(applicationID string) *log.Entry {
	logger := log.
		WithField("application_id", applicationID)
	return logger
}

func (i impl) Submit(ctx context.Context, studentID string, data workflowapimodels.SubmitRequest) (workflowapimodels.ApplicationView, error) {
	now := time.Now()
	rec := dbmodels.Application{
		JobID:               data.JobID,
		StudentID:           studentID,
		CompanyID:           data.CompanyID,
		Status:              registry.EntryStage,
		StageEnteredAt:      now,
		PersonalInformation: data.PersonalInformation,
		ResumeUrl:           data.ResumeUrl,
		CoverLetter:         data.CoverLetter,
		StatusHistory: dbmodels.StatusHistory{
			{
				Status:    registry.EntryStage,
				ChangedAt: now,
				ChangedBy: studentID,
				Reason:    "Application submitted",
			},
		},
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return workflowapimodels.ApplicationView{}, errors.Wrap(err, "ошибка создания заявки")
	}
	created, err := i.store.GetByID(id)
	if err != nil {
		return workflowapimodels.ApplicationView{}, err
	}
	if created == nil {
		return workflowapimodels.ApplicationView{}, wferrors.ErrApplicationNotFound
	}
	i.executeAutoActions(*created, registry.EntryStage, nil)
	return workflowapimodels.ApplicationConvert(*created), nil
}

func (i impl) GetByID(ctx context.Context, id string) (workflowapimodels.ApplicationView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return workflowapimodels.ApplicationView{}, err
	}
	if rec == nil {
		return workflowapimodels.ApplicationView{}, wferrors.ErrApplicationNotFound
	}
	return workflowapimodels.ApplicationConvert(*rec), nil
}

func (i impl) Transition(ctx context.Context, id string, target models.ApplicationStage, actor, reason string, data map[string]interface{}) (workflowapimodels.ApplicationView, error) {
	logger := i.getLogger(id).
		WithField("target_stage", string(target)).
		WithField("actor", actor)

	rec, err := i.store.GetByID(id)
	if err != nil {
		return workflowapimodels.ApplicationView{}, err
	}
	if rec == nil {
		return workflowapimodels.ApplicationView{}, wferrors.ErrApplicationNotFound
	}
	current := rec.Status
	if _, ok := registry.Get(current); !ok {
		return workflowapimodels.ApplicationView{}, errors.Errorf("текущий этап заявки %q отсутствует в конфигурации", current)
	}
	if !registry.IsTransitionAllowed(current, target) {
		return workflowapimodels.ApplicationView{}, wferrors.InvalidTransitionError{From: current, To: target}
	}
	missing := missingRequiredFields(target, data)
	if len(missing) > 0 {
		return workflowapimodels.ApplicationView{}, wferrors.MissingFieldsError{Fields: missing}
	}

	now := time.Now()
	if reason == "" {
		reason = fmt.Sprintf("Transitioned to %s", target)
	}
	entry := dbmodels.StatusHistoryEntry{
		Status:    target,
		ChangedAt: now,
		ChangedBy: actor,
		Reason:    reason,
	}
	updMap, err := stageDataColumns(target, data, now)
	if err != nil {
		return workflowapimodels.ApplicationView{}, err
	}
	err = i.store.UpdateStatus(id, current, target, entry, updMap)
	if err != nil {
		if errors.Is(err, applicationstore.ErrStaleStatus) {
			// условное обновление не прошло - конкурентный переход успел раньше
			fresh, readErr := i.store.GetByID(id)
			if readErr != nil {
				return workflowapimodels.ApplicationView{}, readErr
			}
			if fresh == nil {
				return workflowapimodels.ApplicationView{}, wferrors.ErrApplicationNotFound
			}
			if fresh.Status == target {
				// конкурент уже выполнил тот же переход, повторять нечего
				return workflowapimodels.ApplicationConvert(*fresh), nil
			}
			return workflowapimodels.ApplicationView{}, wferrors.InvalidTransitionError{From: fresh.Status, To: target}
		}
		return workflowapimodels.ApplicationView{}, errors.Wrap(err, "ошибка сохранения перехода")
	}

	updated, err := i.store.GetByID(id)
	if err != nil {
		return workflowapimodels.ApplicationView{}, err
	}
	if updated == nil {
		return workflowapimodels.ApplicationView{}, wferrors.ErrApplicationNotFound
	}
	logger.Infof("заявка переведена с этапа %q на этап %q", current, target)
	i.executeAutoActions(*updated, target, data)
	return workflowapimodels.ApplicationConvert(*updated), nil
}

// executeAutoActions выполняет действия входа на этап по порядку.
// Переход уже зафиксирован: ошибки действий логируются и не влияют
// ни на результат перехода, ни на выполнение остальных действий
func (i impl) executeAutoActions(app dbmodels.Application, stage models.ApplicationStage, data map[string]interface{}) {
	for _, actionID := range registry.AutoActions(stage) {
		err := i.actions.Execute(actionID, app, data)
		if err != nil {
			i.getLogger(app.ID).
				WithField("action", string(actionID)).
				WithError(err).
				Error("ошибка автоматического действия")
		}
	}
}

func (i impl) GetAvailableActions(stage models.ApplicationStage) []workflowapimodels.StageActionView {
	transitions := registry.AllowedTransitions(stage)
	result := make([]workflowapimodels.StageActionView, 0, len(transitions))
	for _, target := range transitions {
		def, ok := registry.Get(target)
		if !ok {
			continue
		}
		result = append(result, workflowapimodels.StageActionView{
			ID:             target,
			Label:          def.Name,
			Description:    def.Description,
			RequiredFields: def.RequiredFields,
		})
	}
	return result
}

func (i impl) GetDecisionPoint(stage models.ApplicationStage) *workflowapimodels.DecisionPointView {
	dp := registry.DecisionPointFor(stage)
	if dp == nil {
		return nil
	}
	options := make([]workflowapimodels.DecisionOptionView, 0, len(dp.Options))
	for _, opt := range dp.Options {
		options = append(options, workflowapimodels.DecisionOptionView{
			Answer:    opt.Answer,
			NextStage: opt.NextStage,
			Weight:    opt.Weight,
		})
	}
	return &workflowapimodels.DecisionPointView{
		Stage:    dp.Stage,
		Question: dp.Question,
		Options:  options,
	}
}

// ProcessAutomatedWorkflow - разовая проверка автоматических переходов по
// одной заявке. Используется планировщиком и ленивой проверкой при чтении
func (i impl) ProcessAutomatedWorkflow(ctx context.Context, id string) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return wferrors.ErrApplicationNotFound
	}
	decision := automation.Evaluate(*rec, time.Now(), AutomationPolicy())
	if decision == nil {
		return nil
	}
	_, err = i.Transition(ctx, id, decision.Target, models.SystemActor, decision.Reason, decision.Data)
	return err
}

func AutomationPolicy() automation.Policy {
	return automation.Policy{
		OfferValidityDays:   config.Conf.Workflow.OfferValidityDays,
		InterviewGraceHours: config.Conf.Workflow.InterviewGraceHours,
	}
}

func missingRequiredFields(target models.ApplicationStage, data map[string]interface{}) []string {
	missing := []string{}
	for _, field := range registry.RequiredFields(target) {
		value, ok := data[field]
		if !ok || value == nil || value == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// stageDataColumns переносит данные перехода в колонки заявки.
// Обновляются только поля целевого этапа, статус здесь не трогаем
func stageDataColumns(target models.ApplicationStage, data map[string]interface{}, now time.Time) (map[string]interface{}, error) {
	updMap := map[string]interface{}{}
	switch target {
	case models.StageFirstLevelReview:
		if reviewer, ok := data["reviewer_assigned"].(string); ok && reviewer != "" {
			updMap["assigned_reviewer"] = reviewer
		}
	case models.StageInterviewScheduled:
		scheduledAt, err := parseTimeValue(data["interview_scheduled_at"])
		if err != nil {
			return nil, errors.Wrap(err, "некорректное время интервью")
		}
		updMap["interview_scheduled_at"] = scheduledAt
		// новое интервью - напоминание должно уйти заново
		updMap["interview_reminder_sent_at"] = nil
	case models.StageOfferExtended:
		updMap["offered_at"] = now
		validityDays := config.Conf.Workflow.OfferValidityDays
		if raw, ok := data["offer_validity_days"]; ok {
			if days, ok := toInt(raw); ok && days > 0 {
				validityDays = days
			}
		}
		updMap["offer_validity_days"] = validityDays
		if url, ok := data["offer_letter_url"].(string); ok {
			updMap["offer_letter_url"] = url
		}
	case models.StageRejected:
		if rejectReason, ok := data["rejection_reason"].(string); ok {
			updMap["rejection_reason"] = rejectReason
		}
	}
	return updMap, nil
}

func parseTimeValue(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		return time.Parse(time.RFC3339, v)
	default:
		return time.Time{}, errors.Errorf("неподдерживаемый формат времени: %T", value)
	}
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
