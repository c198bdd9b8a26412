package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"daytrack/internal/core"
	"daytrack/internal/store"
)

// Store keeps everything in process memory.
type Store struct {
	mu         sync.RWMutex
	categories []core.Category
	activities map[string]core.Activity
	ratings    map[string]core.DailyRating
	snapshots  map[string]core.WeekSnapshot
	settings   *core.Settings
}

var _ store.Store = (*Store)(nil)

func New(categories []core.Category) *Store {
	return &Store{
		categories: dedupeCategories(categories),
		activities: make(map[string]core.Activity),
		ratings:    make(map[string]core.DailyRating),
		snapshots:  make(map[string]core.WeekSnapshot),
	}
}

// NewFromFiles seeds categories from base/seed_categories.txt, one
// "Name,#rrggbb" per line, falling back to the default set.
func NewFromFiles(base string) *Store {
	cats := readCategories(filepath.Join(base, "seed_categories.txt"))
	if len(cats) == 0 {
		cats = core.DefaultCategories()
	}
	return New(cats)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) CreateActivity(_ context.Context, a core.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.activities[a.ID]; ok {
		return fmt.Errorf("activity %s already exists", a.ID)
	}
	s.activities[a.ID] = a
	return nil
}

func (s *Store) UpdateActivity(_ context.Context, a core.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.activities[a.ID]; !ok {
		return fmt.Errorf("activity %s: %w", a.ID, store.ErrNotFound)
	}
	s.activities[a.ID] = a
	return nil
}

func (s *Store) DeleteActivity(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.activities[id]; !ok {
		return fmt.Errorf("activity %s: %w", id, store.ErrNotFound)
	}
	delete(s.activities, id)
	return nil
}

func (s *Store) GetActivity(_ context.Context, id string) (core.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activities[id]
	if !ok {
		return core.Activity{}, fmt.Errorf("activity %s: %w", id, store.ErrNotFound)
	}
	return a, nil
}

func (s *Store) ListActivities(_ context.Context, start, end core.Date) ([]core.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lo, hi := start.String(), end.String()
	out := make([]core.Activity, 0)
	for _, a := range s.activities {
		if d := a.Date.String(); d >= lo && d <= hi {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b core.Activity) int {
		if c := strings.Compare(a.Date.String(), b.Date.String()); c != 0 {
			return c
		}
		if a.Start != b.Start {
			return int(a.Start - b.Start)
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Store) ListCategories(context.Context) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(c.ID) >= 0 {
		return fmt.Errorf("category %s already exists", c.ID)
	}
	s.categories = append(s.categories, c)
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(c.ID)
	if i < 0 {
		return fmt.Errorf("category %s: %w", c.ID, store.ErrNotFound)
	}
	s.categories[i] = c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("category %s: %w", id, store.ErrNotFound)
	}
	s.categories = slices.Delete(s.categories, i, i+1)
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.categories, func(c core.Category) bool { return c.ID == id })
}

func (s *Store) UpsertRating(_ context.Context, r core.DailyRating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[r.Date.String()] = r
	return nil
}

func (s *Store) GetRating(_ context.Context, date core.Date) (core.DailyRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.ratings[date.String()]
	if !ok {
		return core.DailyRating{}, fmt.Errorf("rating %s: %w", date, store.ErrNotFound)
	}
	return r, nil
}

func (s *Store) DeleteRating(_ context.Context, date core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := date.String()
	if _, ok := s.ratings[key]; !ok {
		return fmt.Errorf("rating %s: %w", date, store.ErrNotFound)
	}
	delete(s.ratings, key)
	return nil
}

func (s *Store) ListRatings(_ context.Context, start, end core.Date) ([]core.DailyRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lo, hi := start.String(), end.String()
	out := make([]core.DailyRating, 0)
	for day, r := range s.ratings {
		if day >= lo && day <= hi {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b core.DailyRating) int {
		return strings.Compare(a.Date.String(), b.Date.String())
	})
	return out, nil
}

func (s *Store) GetSettings(context.Context) (core.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return core.Settings{}, fmt.Errorf("settings: %w", store.ErrNotFound)
	}
	return *s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, settings core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &settings
	return nil
}

func (s *Store) UpsertSnapshot(_ context.Context, snap core.WeekSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.WeekStart.String()] = snap
	return nil
}

func (s *Store) ListSnapshots(_ context.Context, limit int) ([]core.WeekSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.WeekSnapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, snap)
	}
	slices.SortFunc(out, func(a, b core.WeekSnapshot) int {
		return strings.Compare(b.WeekStart.String(), a.WeekStart.String())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func readCategories(path string) []core.Category {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []core.Category
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, color, _ := strings.Cut(line, ",")
		c := core.Category{
			ID:        Slug(name),
			Name:      strings.TrimSpace(name),
			Color:     strings.TrimSpace(color),
			IsDefault: true,
		}
		if c.Color == "" {
			c.Color = core.UnknownCategoryColor
		}
		if c.Validate() != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Slug derives a stable category id from its name.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func dedupeCategories(in []core.Category) []core.Category {
	seen := map[string]struct{}{}
	out := make([]core.Category, 0, len(in))
	for _, c := range in {
		if _, ok := seen[c.ID]; ok || c.ID == "" {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
