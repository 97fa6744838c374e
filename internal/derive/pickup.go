package derive

import (
	"sort"
	"time"

	"github.com/trygginn/trygginn/internal/domain"
)

// NextPickupPlan picks the earliest plan dated today or later. When every
// plan is in the past it falls back to the latest one. ok is false only
// for an empty input.
func NextPickupPlan(plans []domain.PickupPlan, today time.Time) (plan domain.PickupPlan, ok bool) {
	if len(plans) == 0 {
		return domain.PickupPlan{}, false
	}
	sorted := append([]domain.PickupPlan(nil), plans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	for _, p := range sorted {
		if !domain.BeforeDay(p.Date, today) {
			return p, true
		}
	}
	return sorted[len(sorted)-1], true
}
