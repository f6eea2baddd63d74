package healthworker

import (
	"testing"

	"github.com/stretchr/testify/require"

	applicationstore "recruit-flow-backend/lib/workflow/store"
	"recruit-flow-backend/models"
)

func testBands() Bands {
	return Bands{
		StuckDegraded:      10,
		StuckCritical:      20,
		BottleneckDegraded: 3,
		BottleneckCritical: 5,
		SlaDegraded:        5,
		SlaCritical:        10,
	}
}

func TestClassify(t *testing.T) {
	t.Run(`показатели в норме`, func(t *testing.T) {
		require.Equal(t, models.WorkflowHealthy, Classify(0, 0, 0, testBands()))
		require.Equal(t, models.WorkflowHealthy, Classify(9, 2, 4, testBands()))
	})

	t.Run(`деградация по любому из счетчиков`, func(t *testing.T) {
		require.Equal(t, models.WorkflowDegraded, Classify(10, 0, 0, testBands()))
		require.Equal(t, models.WorkflowDegraded, Classify(0, 3, 0, testBands()))
		require.Equal(t, models.WorkflowDegraded, Classify(0, 0, 5, testBands()))
	})

	t.Run(`критичная граница важнее деградации`, func(t *testing.T) {
		// зависшие в критичной зоне, остальное лишь деградация
		require.Equal(t, models.WorkflowCritical, Classify(25, 3, 5, testBands()))
		require.Equal(t, models.WorkflowCritical, Classify(0, 5, 0, testBands()))
		require.Equal(t, models.WorkflowCritical, Classify(0, 0, 10, testBands()))
	})
}

func TestFindBottlenecks(t *testing.T) {
	t.Run(`горлышко по объему и длительности`, func(t *testing.T) {
		stats := []applicationstore.StageStat{
			{Stage: models.StageFirstLevelReview, Count: 15, AverageDwellDays: 6.5},
			{Stage: models.StageShortlisted, Count: 2, AverageDwellDays: 12},
			{Stage: models.StageInterviewScheduled, Count: 30, AverageDwellDays: 1},
		}
		result := FindBottlenecks(stats, 10, 5)
		require.Len(t, result, 1)
		require.Equal(t, models.StageFirstLevelReview, result[0].Stage)
		require.Equal(t, "medium", result[0].Severity)
	})

	t.Run(`двойное превышение объема поднимает серьезность`, func(t *testing.T) {
		stats := []applicationstore.StageStat{
			{Stage: models.StagePendingAcceptance, Count: 21, AverageDwellDays: 8},
		}
		result := FindBottlenecks(stats, 10, 5)
		require.Len(t, result, 1)
		require.Equal(t, "high", result[0].Severity)
	})

	t.Run(`пороговые значения не считаются горлышком`, func(t *testing.T) {
		stats := []applicationstore.StageStat{
			{Stage: models.StageAccepted, Count: 10, AverageDwellDays: 5},
		}
		require.Empty(t, FindBottlenecks(stats, 10, 5))
	})
}
