package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"recruit-flow-backend/models"
)

func TestRegistry(t *testing.T) {
	t.Run(`конфигурация этапов валидна`, func(t *testing.T) {
		require.NoError(t, Validate())
	})

	t.Run(`входной этап определен`, func(t *testing.T) {
		def, ok := Get(EntryStage)
		require.True(t, ok)
		require.NotEmpty(t, def.AllowedTransitions)
	})

	t.Run(`разрешенные и запрещенные переходы`, func(t *testing.T) {
		require.True(t, IsTransitionAllowed(models.StageSubmitted, models.StageFirstLevelReview))
		require.True(t, IsTransitionAllowed(models.StageInterviewCompleted, models.StageInterviewScheduled))
		require.False(t, IsTransitionAllowed(models.StageSubmitted, models.StageOfferExtended))
		require.False(t, IsTransitionAllowed(models.StageRejected, models.StageSubmitted))
	})

	t.Run(`отклонение и отзыв доступны с любого активного этапа`, func(t *testing.T) {
		for _, stage := range ActiveStages() {
			require.True(t, IsTransitionAllowed(stage, models.StageRejected), "этап %s", stage)
			require.True(t, IsTransitionAllowed(stage, models.StageWithdrawn), "этап %s", stage)
		}
	})

	t.Run(`терминальные этапы без переходов`, func(t *testing.T) {
		terminals := []models.ApplicationStage{
			models.StageOfferAccepted,
			models.StageOfferDeclined,
			models.StageRejected,
			models.StageWithdrawn,
		}
		for _, stage := range terminals {
			require.True(t, IsTerminal(stage), "этап %s", stage)
			require.Empty(t, AllowedTransitions(stage))
		}
		require.Len(t, ActiveStages(), 8)
	})

	t.Run(`обязательные поля этапов`, func(t *testing.T) {
		require.Equal(t, []string{"reviewer_assigned"}, RequiredFields(models.StageFirstLevelReview))
		require.Equal(t, []string{"rejection_reason"}, RequiredFields(models.StageRejected))
		require.Empty(t, RequiredFields(models.StageWithdrawn))
	})

	t.Run(`точки принятия решения`, func(t *testing.T) {
		dp := DecisionPointFor(models.StageInterviewCompleted)
		require.NotNil(t, dp)
		require.Len(t, dp.Options, 3)
		for _, opt := range dp.Options {
			require.True(t, IsTransitionAllowed(models.StageInterviewCompleted, opt.NextStage))
		}
		require.Nil(t, DecisionPointFor(models.StageSubmitted))
	})
}
