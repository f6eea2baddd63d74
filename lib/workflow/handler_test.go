package workflow

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"recruit-flow-backend/config"
	"recruit-flow-backend/lib/workflow/actions"
	"recruit-flow-backend/lib/workflow/automation"
	applicationstore "recruit-flow-backend/lib/workflow/store"
	"recruit-flow-backend/lib/workflow/wferrors"
	"recruit-flow-backend/models"
	workflowapimodels "recruit-flow-backend/models/api/workflow"
	dbmodels "recruit-flow-backend/models/db"
)

// Память вместо БД: достаточно для проверки логики движка переходов

type memStore struct {
	mu             sync.Mutex
	apps           map[string]dbmodels.Application
	seq            int
	beforeUpdate   func(s *memStore)
	failFieldsOnce bool
}

func newMemStore() *memStore {
	return &memStore{apps: map[string]dbmodels.Application{}}
}

func (s *memStore) Create(rec dbmodels.Application) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	rec.ID = fmt.Sprintf("app-%d", s.seq)
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	s.apps[rec.ID] = rec
	return rec.ID, nil
}

func (s *memStore) GetByID(id string) (*dbmodels.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.apps[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *memStore) ListByStatuses(statuses []models.ApplicationStage) ([]dbmodels.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.Application{}
	for _, rec := range s.apps {
		for _, status := range statuses {
			if rec.Status == status {
				list = append(list, rec)
				break
			}
		}
	}
	return list, nil
}

func (s *memStore) ListStuckSince(statuses []models.ApplicationStage, threshold time.Time) ([]dbmodels.Application, error) {
	return nil, nil
}

func (s *memStore) ListUpdatedSince(threshold time.Time) ([]dbmodels.Application, error) {
	return nil, nil
}

func (s *memStore) UpdateStatus(id string, expected, newStatus models.ApplicationStage, entry dbmodels.StatusHistoryEntry, updMap map[string]interface{}) error {
	if s.beforeUpdate != nil {
		hook := s.beforeUpdate
		s.beforeUpdate = nil
		hook(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.apps[id]
	if !ok || rec.Status != expected {
		return applicationstore.ErrStaleStatus
	}
	rec.Status = newStatus
	rec.StageEnteredAt = entry.ChangedAt
	rec.UpdatedAt = entry.ChangedAt
	rec.StatusHistory = append(rec.StatusHistory, entry)
	applyColumns(&rec, updMap)
	s.apps[id] = rec
	return nil
}

func (s *memStore) UpdateFields(id string, updMap map[string]interface{}) error {
	if s.failFieldsOnce {
		s.failFieldsOnce = false
		return errors.New("недоступно")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.apps[id]
	if !ok {
		return errors.New("запись не найдена")
	}
	applyColumns(&rec, updMap)
	s.apps[id] = rec
	return nil
}

func (s *memStore) StageStatistics(statuses []models.ApplicationStage) ([]applicationstore.StageStat, error) {
	return nil, nil
}

func applyColumns(rec *dbmodels.Application, updMap map[string]interface{}) {
	for column, value := range updMap {
		switch column {
		case "assigned_reviewer":
			rec.AssignedReviewer = value.(string)
		case "interview_scheduled_at":
			at := value.(time.Time)
			rec.InterviewScheduledAt = &at
		case "interview_reminder_sent_at":
			if value == nil {
				rec.InterviewReminderSentAt = nil
			} else {
				at := value.(time.Time)
				rec.InterviewReminderSentAt = &at
			}
		case "offered_at":
			at := value.(time.Time)
			rec.OfferedAt = &at
		case "offer_validity_days":
			rec.OfferValidityDays = value.(int)
		case "offer_letter_url":
			rec.OfferLetterUrl = value.(string)
		case "rejection_reason":
			rec.RejectionReason = value.(string)
		}
	}
}

type sentNotification struct {
	UserID string
	Code   models.NotificationCode
}

type memNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *memNotifier) Notify(userID string, code models.NotificationCode, payload map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{UserID: userID, Code: code})
}

func (n *memNotifier) NotifyAdmins(code models.NotificationCode, payload map[string]interface{}) {
	n.Notify("admin", code, payload)
}

func (n *memNotifier) ListByUser(userID string) ([]dbmodels.Notification, error) {
	return nil, nil
}

func (n *memNotifier) MarkRead(userID, id string) error {
	return nil
}

func (n *memNotifier) codes() []models.NotificationCode {
	n.mu.Lock()
	defer n.mu.Unlock()
	result := make([]models.NotificationCode, 0, len(n.sent))
	for _, s := range n.sent {
		result = append(result, s.Code)
	}
	return result
}

func newTestEngine(store *memStore) (impl, *memNotifier) {
	notifier := &memNotifier{}
	return impl{
		store:   store,
		actions: actions.NewRegistry(notifier, store),
	}, notifier
}

func initTestConfig() {
	config.Conf = &config.Configuration{}
	config.Conf.Workflow.OfferValidityDays = 7
	config.Conf.Workflow.InterviewGraceHours = 1
}

func submitTestApplication(t *testing.T, engine impl) string {
	view, err := engine.Submit(context.Background(), "student-1", workflowapimodels.SubmitRequest{
		JobID:               "job-1",
		CompanyID:           "company-1",
		PersonalInformation: "info",
		ResumeUrl:           "https://files/resume.pdf",
		CoverLetter:         "cover",
	})
	require.NoError(t, err)
	return view.ID
}

func TestSubmit(t *testing.T) {
	initTestConfig()

	t.Run(`отклик создается на входном этапе с историей`, func(t *testing.T) {
		store := newMemStore()
		engine, notifier := newTestEngine(store)
		view, err := engine.Submit(context.Background(), "student-1", workflowapimodels.SubmitRequest{
			JobID:     "job-1",
			CompanyID: "company-1",
		})
		require.NoError(t, err)
		require.Equal(t, models.StageSubmitted, view.Status)
		require.Len(t, view.StatusHistory, 1)
		require.Equal(t, "student-1", view.StatusHistory[0].ChangedBy)
		require.Contains(t, notifier.codes(), models.NotificationNewApplication)

		// действие входа назначило ревьюера
		rec, err := store.GetByID(view.ID)
		require.NoError(t, err)
		require.Equal(t, "company-1", rec.AssignedReviewer)
	})

	t.Run(`ошибка действия входа не отменяет создание`, func(t *testing.T) {
		store := newMemStore()
		store.failFieldsOnce = true
		engine, _ := newTestEngine(store)
		view, err := engine.Submit(context.Background(), "student-1", workflowapimodels.SubmitRequest{
			JobID:     "job-1",
			CompanyID: "company-1",
		})
		require.NoError(t, err)
		require.Equal(t, models.StageSubmitted, view.Status)
	})
}

func TestTransition(t *testing.T) {
	initTestConfig()
	ctx := context.Background()

	t.Run(`допустимый переход меняет статус и дописывает историю`, func(t *testing.T) {
		store := newMemStore()
		engine, _ := newTestEngine(store)
		id := submitTestApplication(t, engine)

		view, err := engine.Transition(ctx, id, models.StageFirstLevelReview, "recruiter-1", "взято в работу", map[string]interface{}{
			"reviewer_assigned": "recruiter-1",
		})
		require.NoError(t, err)
		require.Equal(t, models.StageFirstLevelReview, view.Status)
		require.Len(t, view.StatusHistory, 2)
		last := view.StatusHistory[len(view.StatusHistory)-1]
		require.Equal(t, models.StageFirstLevelReview, last.Status)
		require.Equal(t, "recruiter-1", last.ChangedBy)
		require.Equal(t, "взято в работу", last.Reason)
	})

	t.Run(`недопустимый переход отклоняется без изменений`, func(t *testing.T) {
		store := newMemStore()
		engine, notifier := newTestEngine(store)
		id := submitTestApplication(t, engine)
		sentBefore := len(notifier.codes())

		_, err := engine.Transition(ctx, id, models.StageOfferExtended, "recruiter-1", "", nil)
		var invalid wferrors.InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, models.StageSubmitted, invalid.From)
		require.Equal(t, models.StageOfferExtended, invalid.To)

		rec, err := store.GetByID(id)
		require.NoError(t, err)
		require.Equal(t, models.StageSubmitted, rec.Status)
		require.Len(t, rec.StatusHistory, 1)
		require.Len(t, notifier.codes(), sentBefore)
	})

	t.Run(`переход без обязательных полей отклоняется`, func(t *testing.T) {
		store := newMemStore()
		engine, _ := newTestEngine(store)
		id := submitTestApplication(t, engine)

		_, err := engine.Transition(ctx, id, models.StageFirstLevelReview, "recruiter-1", "", nil)
		var missing wferrors.MissingFieldsError
		require.ErrorAs(t, err, &missing)
		require.Contains(t, missing.Fields, "reviewer_assigned")
	})

	t.Run(`неизвестная заявка`, func(t *testing.T) {
		store := newMemStore()
		engine, _ := newTestEngine(store)
		_, err := engine.Transition(ctx, "missing", models.StageRejected, "recruiter-1", "", map[string]interface{}{
			"rejection_reason": "not found",
		})
		require.ErrorIs(t, err, wferrors.ErrApplicationNotFound)
	})

	t.Run(`пустая причина заполняется по умолчанию`, func(t *testing.T) {
		store := newMemStore()
		engine, _ := newTestEngine(store)
		id := submitTestApplication(t, engine)

		view, err := engine.Transition(ctx, id, models.StageWithdrawn, "student-1", "", nil)
		require.NoError(t, err)
		last := view.StatusHistory[len(view.StatusHistory)-1]
		require.Equal(t, "Transitioned to withdrawn", last.Reason)
	})

	t.Run(`конкурент выполнил тот же переход - повтор без ошибки`, func(t *testing.T) {
		store := newMemStore()
		engine, _ := newTestEngine(store)
		id := submitTestApplication(t, engine)

		// конкурентный переход срабатывает между чтением и обновлением
		store.beforeUpdate = func(s *memStore) {
			s.mu.Lock()
			defer s.mu.Unlock()
			rec := s.apps[id]
			rec.Status = models.StageWithdrawn
			rec.StatusHistory = append(rec.StatusHistory, dbmodels.StatusHistoryEntry{
				Status:    models.StageWithdrawn,
				ChangedAt: time.Now(),
				ChangedBy: "student-1",
			})
			s.apps[id] = rec
		}
		view, err := engine.Transition(ctx, id, models.StageWithdrawn, "student-1", "", nil)
		require.NoError(t, err)
		require.Equal(t, models.StageWithdrawn, view.Status)
		require.Len(t, view.StatusHistory, 2)
	})

	t.Run(`конкурент увел заявку на другой этап - конфликт`, func(t *testing.T) {
		store := newMemStore()
		engine, _ := newTestEngine(store)
		id := submitTestApplication(t, engine)

		store.beforeUpdate = func(s *memStore) {
			s.mu.Lock()
			defer s.mu.Unlock()
			rec := s.apps[id]
			rec.Status = models.StageRejected
			s.apps[id] = rec
		}
		_, err := engine.Transition(ctx, id, models.StageWithdrawn, "student-1", "", nil)
		var invalid wferrors.InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, models.StageRejected, invalid.From)
	})

	t.Run(`данные этапа переносятся в колонки заявки`, func(t *testing.T) {
		store := newMemStore()
		engine, _ := newTestEngine(store)
		id := submitTestApplication(t, engine)
		walkToStage(t, engine, id, models.StageShortlisted)

		interviewAt := time.Now().Add(48 * time.Hour).Truncate(time.Second)
		view, err := engine.Transition(ctx, id, models.StageInterviewScheduled, "recruiter-1", "", map[string]interface{}{
			"interview_scheduled_at": interviewAt,
		})
		require.NoError(t, err)
		require.NotNil(t, view.InterviewScheduledAt)
		require.True(t, view.InterviewScheduledAt.Equal(interviewAt))
	})

	t.Run(`оффер получает срок действия и дату направления`, func(t *testing.T) {
		store := newMemStore()
		engine, _ := newTestEngine(store)
		id := submitTestApplication(t, engine)
		walkToStage(t, engine, id, models.StageInterviewCompleted)

		view, err := engine.Transition(ctx, id, models.StageOfferExtended, "recruiter-1", "", map[string]interface{}{
			"offer_letter_url":    "https://files/offer.pdf",
			"offer_validity_days": 10,
		})
		require.NoError(t, err)
		require.NotNil(t, view.OfferedAt)
		require.NotNil(t, view.OfferExpiresAt)
		require.Equal(t, "https://files/offer.pdf", view.OfferLetterUrl)
		expected := view.OfferedAt.AddDate(0, 0, 10)
		require.True(t, view.OfferExpiresAt.Equal(expected))
	})
}

// walkToStage проводит заявку по основному пути до нужного этапа
func walkToStage(t *testing.T, engine impl, id string, target models.ApplicationStage) {
	t.Helper()
	path := []struct {
		stage models.ApplicationStage
		data  map[string]interface{}
	}{
		{models.StageFirstLevelReview, map[string]interface{}{"reviewer_assigned": "recruiter-1"}},
		{models.StagePendingAcceptance, map[string]interface{}{"first_review_completed": true}},
		{models.StageAccepted, map[string]interface{}{"acceptance_reason": "подходит по требованиям"}},
		{models.StageShortlisted, map[string]interface{}{"shortlist_reason": "сильный кандидат"}},
		{models.StageInterviewScheduled, map[string]interface{}{"interview_scheduled_at": time.Now().Add(24 * time.Hour)}},
		{models.StageInterviewCompleted, map[string]interface{}{"interview_feedback": "положительно"}},
	}
	for _, step := range path {
		_, err := engine.Transition(context.Background(), id, step.stage, "recruiter-1", "", step.data)
		require.NoError(t, err)
		if step.stage == target {
			return
		}
	}
	t.Fatalf("этап %s недостижим по основному пути", target)
}

func TestProcessAutomatedWorkflow(t *testing.T) {
	initTestConfig()
	ctx := context.Background()

	t.Run(`полный отклик автоматически уходит на рассмотрение`, func(t *testing.T) {
		store := newMemStore()
		engine, _ := newTestEngine(store)
		id := submitTestApplication(t, engine)

		require.NoError(t, engine.ProcessAutomatedWorkflow(ctx, id))
		rec, err := store.GetByID(id)
		require.NoError(t, err)
		require.Equal(t, models.StageFirstLevelReview, rec.Status)
		last := rec.StatusHistory.LastEntry()
		require.NotNil(t, last)
		require.Equal(t, models.SystemActor, last.ChangedBy)
		require.Equal(t, automation.ReasonBasicRequirementsMet, last.Reason)
	})

	t.Run(`просроченный оффер автоматически отклоняется`, func(t *testing.T) {
		store := newMemStore()
		engine, _ := newTestEngine(store)
		id := submitTestApplication(t, engine)
		walkToStage(t, engine, id, models.StageInterviewCompleted)
		_, err := engine.Transition(ctx, id, models.StageOfferExtended, "recruiter-1", "", map[string]interface{}{
			"offer_letter_url": "https://files/offer.pdf",
		})
		require.NoError(t, err)

		// отматываем дату направления оффера за пределы срока действия
		expired := time.Now().AddDate(0, 0, -8)
		require.NoError(t, store.UpdateFields(id, map[string]interface{}{"offered_at": expired}))

		require.NoError(t, engine.ProcessAutomatedWorkflow(ctx, id))
		rec, err := store.GetByID(id)
		require.NoError(t, err)
		require.Equal(t, models.StageOfferDeclined, rec.Status)
		require.Equal(t, automation.ReasonOfferExpired, rec.StatusHistory.LastEntry().Reason)
	})

	t.Run(`без выполненных условий заявка не трогается`, func(t *testing.T) {
		store := newMemStore()
		engine, _ := newTestEngine(store)
		view, err := engine.Submit(ctx, "student-1", workflowapimodels.SubmitRequest{
			JobID:     "job-1",
			CompanyID: "company-1",
		})
		require.NoError(t, err)

		require.NoError(t, engine.ProcessAutomatedWorkflow(ctx, view.ID))
		rec, err := store.GetByID(view.ID)
		require.NoError(t, err)
		require.Equal(t, models.StageSubmitted, rec.Status)
		require.Len(t, rec.StatusHistory, 1)
	})
}
