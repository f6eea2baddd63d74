package dbmodels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOfferExpiresAt(t *testing.T) {
	offeredAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run(`оффер не направлялся`, func(t *testing.T) {
		app := Application{OfferValidityDays: 7}
		require.Nil(t, app.OfferExpiresAt())
	})

	t.Run(`срок действия не сохранен`, func(t *testing.T) {
		app := Application{OfferedAt: &offeredAt}
		require.Nil(t, app.OfferExpiresAt())
	})

	t.Run(`срок считается от даты направления`, func(t *testing.T) {
		app := Application{OfferedAt: &offeredAt, OfferValidityDays: 10}
		expires := app.OfferExpiresAt()
		require.NotNil(t, expires)
		require.True(t, expires.Equal(offeredAt.AddDate(0, 0, 10)))
	})
}
