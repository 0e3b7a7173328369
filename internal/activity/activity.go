// internal/activity/activity.go
package activity

import (
	"math/rand/v2"
	"sync"

	"github-story/internal/model"
)

// Weekdays in the order the histogram is reported.
var Weekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Generator produces commit activity histograms for a story.
type Generator interface {
	Generate() model.CommitActivity
}

// Synthetic fabricates commit activity from random values. It stands in for
// a real computation over commit history.
type Synthetic struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSynthetic returns a Synthetic generator. A nil src uses a random seed.
func NewSynthetic(src rand.Source) *Synthetic {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Synthetic{rng: rand.New(src)}
}

// Generate returns day counts in [10, 59] and hour counts in [1, 20].
func (s *Synthetic) Generate() model.CommitActivity {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDay := make([]model.DayCount, len(Weekdays))
	for i, day := range Weekdays {
		byDay[i] = model.DayCount{Day: day, Count: s.rng.IntN(50) + 10}
	}

	byHour := make([]model.HourCount, 24)
	for hour := range byHour {
		byHour[hour] = model.HourCount{Hour: hour, Count: s.rng.IntN(20) + 1}
	}

	return model.CommitActivity{ByDay: byDay, ByHour: byHour}
}
