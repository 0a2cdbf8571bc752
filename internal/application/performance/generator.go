package performance

import (
	"math/rand/v2"

	"github.com/notifperf-api/internal/domain"
)

const (
	windowMonths            = 3
	weekdayImpressionsMax   = 100
	weekendImpressionsBonus = 50
)

// RandomSource supplies uniform integers in [0, n). *rand.Rand from
// math/rand/v2 satisfies it; a seeded one makes generation reproducible.
type RandomSource interface {
	IntN(n int) int
}

// processSource draws from the goroutine-safe top-level math/rand/v2 generator.
type processSource struct{}

func (processSource) IntN(n int) int { return rand.IntN(n) }

// Window returns the inclusive trailing generation window ending at today.
func Window(today domain.Date) (start, end domain.Date) {
	return today.AddMonths(-windowMonths), today
}

// dailyMetrics synthesizes one day of metrics for n. Weekend days get a fixed
// impression bonus; clicks and conversions are drawn inclusive of their upper bound.
func dailyMetrics(rng RandomSource, n domain.Notification, date domain.Date) domain.NotificationPerformance {
	impressions := rng.IntN(weekdayImpressionsMax + 1)
	if date.IsWeekend() {
		impressions += weekendImpressionsBonus
	}
	clicks := rng.IntN(impressions + 1)
	conversions := rng.IntN(clicks + 1)

	return domain.NotificationPerformance{
		Notification: n,
		Date:         date,
		Impressions:  impressions,
		Clicks:       clicks,
		Conversions:  conversions,
		CTR:          domain.NewRate(int64(clicks), int64(impressions)),
		CVR:          domain.NewRate(int64(conversions), int64(impressions)),
	}
}
