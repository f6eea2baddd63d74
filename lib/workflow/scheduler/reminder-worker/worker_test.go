package reminderworker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"recruit-flow-backend/models"
	dbmodels "recruit-flow-backend/models/db"
)

func testReminderPolicy() Policy {
	return Policy{
		ReviewSlaDays:          3,
		InterviewReminderHours: 24,
		OfferExpiringDays:      2,
		OfferValidityDays:      7,
	}
}

func TestReminderConditions(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run(`первичное рассмотрение просрочено`, func(t *testing.T) {
		app := dbmodels.Application{
			Status:         models.StageFirstLevelReview,
			StageEnteredAt: now.AddDate(0, 0, -4),
		}
		require.True(t, IsReviewOverdue(app, now, testReminderPolicy()))

		app.StageEnteredAt = now.AddDate(0, 0, -2)
		require.False(t, IsReviewOverdue(app, now, testReminderPolicy()))

		app.Status = models.StageShortlisted
		app.StageEnteredAt = now.AddDate(0, 0, -10)
		require.False(t, IsReviewOverdue(app, now, testReminderPolicy()))
	})

	t.Run(`напоминание об интервью в суточном окне`, func(t *testing.T) {
		in12h := now.Add(12 * time.Hour)
		app := dbmodels.Application{
			Status:               models.StageInterviewScheduled,
			InterviewScheduledAt: &in12h,
		}
		require.True(t, NeedsInterviewReminder(app, now, testReminderPolicy()))

		in48h := now.Add(48 * time.Hour)
		app.InterviewScheduledAt = &in48h
		require.False(t, NeedsInterviewReminder(app, now, testReminderPolicy()))

		passed := now.Add(-time.Hour)
		app.InterviewScheduledAt = &passed
		require.False(t, NeedsInterviewReminder(app, now, testReminderPolicy()))
	})

	t.Run(`повторное напоминание не отправляется`, func(t *testing.T) {
		in12h := now.Add(12 * time.Hour)
		sentAt := now.Add(-time.Hour)
		app := dbmodels.Application{
			Status:                  models.StageInterviewScheduled,
			InterviewScheduledAt:    &in12h,
			InterviewReminderSentAt: &sentAt,
		}
		require.False(t, NeedsInterviewReminder(app, now, testReminderPolicy()))
	})

	t.Run(`оффер на исходе срока`, func(t *testing.T) {
		offeredAt := now.AddDate(0, 0, -6)
		app := dbmodels.Application{
			Status:            models.StageOfferExtended,
			OfferedAt:         &offeredAt,
			OfferValidityDays: 7,
		}
		require.True(t, IsOfferExpiring(app, now, testReminderPolicy()))

		// срок уже истек - напоминать поздно, этим займется автоматика
		expired := now.AddDate(0, 0, -8)
		app.OfferedAt = &expired
		require.False(t, IsOfferExpiring(app, now, testReminderPolicy()))

		// до истечения еще далеко
		fresh := now.AddDate(0, 0, -1)
		app.OfferedAt = &fresh
		require.False(t, IsOfferExpiring(app, now, testReminderPolicy()))
	})

	t.Run(`оффер без даты направления не напоминается`, func(t *testing.T) {
		app := dbmodels.Application{Status: models.StageOfferExtended}
		require.False(t, IsOfferExpiring(app, now, testReminderPolicy()))
	})
}
