package slaworker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"recruit-flow-backend/models"
)

func TestSeverity(t *testing.T) {
	t.Run(`серьезность растет с превышением`, func(t *testing.T) {
		require.Equal(t, models.SlaSeverityLow, Severity(1))
		require.Equal(t, models.SlaSeverityLow, Severity(2))
		require.Equal(t, models.SlaSeverityMedium, Severity(3))
		require.Equal(t, models.SlaSeverityMedium, Severity(5))
		require.Equal(t, models.SlaSeverityHigh, Severity(6))
		require.Equal(t, models.SlaSeverityHigh, Severity(10))
		require.Equal(t, models.SlaSeverityCritical, Severity(11))
		require.Equal(t, models.SlaSeverityCritical, Severity(30))
	})

	t.Run(`эскалация только для серьезных нарушений`, func(t *testing.T) {
		require.False(t, needsEscalation(models.SlaSeverityLow))
		require.False(t, needsEscalation(models.SlaSeverityMedium))
		require.True(t, needsEscalation(models.SlaSeverityHigh))
		require.True(t, needsEscalation(models.SlaSeverityCritical))
	})
}
