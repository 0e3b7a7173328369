// internal/aggregate/aggregate.go
package aggregate

import (
	"math"
	"sort"

	"github-story/internal/model"
)

const (
	// TopRepoLimit is the number of repositories kept in a story.
	TopRepoLimit = 5
	// LanguageLimit is the number of languages kept in a story.
	LanguageLimit = 8
	// fallbackBytesPerRepo is the display-only byte figure reported per
	// repository when languages are counted from primary languages.
	fallbackBytesPerRepo = 1000
)

// Summary is the numeric part of a story.
type Summary struct {
	TotalStars     int
	TotalForks     int
	TopRepos       []model.Repository
	Languages      []model.LanguageStat
	LanguagesCount int
}

// Summarize computes totals, top repositories and the language breakdown.
// languageMaps are the byte maps of the sampled repositories; when they yield
// no data the breakdown falls back to primary-language counts over repos.
func Summarize(repos []model.Repository, languageMaps []map[string]int) Summary {
	stars, forks := Totals(repos)

	langs := LanguageBreakdown(languageMaps)
	if len(langs) == 0 {
		langs = PrimaryLanguageBreakdown(repos)
	}

	return Summary{
		TotalStars:     stars,
		TotalForks:     forks,
		TopRepos:       TopRepositories(repos),
		Languages:      langs,
		LanguagesCount: len(langs),
	}
}

// Totals sums stars and forks across repos.
func Totals(repos []model.Repository) (stars, forks int) {
	for _, r := range repos {
		stars += r.StarsCount
		forks += r.ForksCount
	}
	return stars, forks
}

// RankByStars returns a copy of repos sorted by star count, highest first.
// Equal counts keep their input order.
func RankByStars(repos []model.Repository) []model.Repository {
	ranked := make([]model.Repository, len(repos))
	copy(ranked, repos)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].StarsCount > ranked[j].StarsCount
	})
	return ranked
}

// TopRepositories returns at most TopRepoLimit repositories ranked by stars.
func TopRepositories(repos []model.Repository) []model.Repository {
	ranked := RankByStars(repos)
	if len(ranked) > TopRepoLimit {
		ranked = ranked[:TopRepoLimit]
	}
	return ranked
}

// LanguageBreakdown merges per-repository byte maps into a ranked list of at
// most LanguageLimit languages. An empty list is returned when no bytes are
// recorded at all.
func LanguageBreakdown(languageMaps []map[string]int) []model.LanguageStat {
	var acc tally
	for _, m := range languageMaps {
		for _, name := range orderedNames(m) {
			acc.add(name, m[name])
		}
	}

	total := 0
	for _, b := range acc.counts {
		total += b
	}
	if total == 0 {
		return []model.LanguageStat{}
	}

	stats := make([]model.LanguageStat, 0, len(acc.order))
	for _, name := range acc.order {
		b := acc.counts[name]
		stats = append(stats, model.LanguageStat{
			Name:       name,
			Bytes:      b,
			Percentage: Percentage(b, total),
		})
	}
	return rankLanguages(stats)
}

// PrimaryLanguageBreakdown counts the declared primary language of each
// repository. Repositories without one are ignored.
func PrimaryLanguageBreakdown(repos []model.Repository) []model.LanguageStat {
	var acc tally
	withLanguage := 0
	for _, r := range repos {
		if r.Language == nil || *r.Language == "" {
			continue
		}
		acc.add(*r.Language, 1)
		withLanguage++
	}
	if withLanguage == 0 {
		return []model.LanguageStat{}
	}

	stats := make([]model.LanguageStat, 0, len(acc.order))
	for _, name := range acc.order {
		n := acc.counts[name]
		stats = append(stats, model.LanguageStat{
			Name:       name,
			Bytes:      n * fallbackBytesPerRepo,
			Percentage: Percentage(n, withLanguage),
		})
	}
	return rankLanguages(stats)
}

// Percentage returns part/total as a percentage rounded to one decimal.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

func rankLanguages(stats []model.LanguageStat) []model.LanguageStat {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Bytes > stats[j].Bytes
	})
	if len(stats) > LanguageLimit {
		stats = stats[:LanguageLimit]
	}
	return stats
}

// tally accumulates counts per name and remembers first-seen order.
type tally struct {
	order  []string
	counts map[string]int
}

func (t *tally) add(name string, n int) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[name]; !ok {
		t.order = append(t.order, name)
	}
	t.counts[name] += n
}

// orderedNames returns the keys of m by bytes descending, then by name, which
// is the order GitHub reports them in.
func orderedNames(m map[string]int) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if m[names[i]] != m[names[j]] {
			return m[names[i]] > m[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
