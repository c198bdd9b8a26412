package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"daytrack/internal/core"
	"daytrack/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements store.Store on a single SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens dbPath, migrates it and seeds the default
// categories when the table is empty.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.seedCategories(context.Background(), core.DefaultCategories()); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) seedCategories(ctx context.Context, cats []core.Category) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, c := range cats {
		if err := r.CreateCategory(ctx, c); err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanActivity is the one place raw rows become typed activities; bad rows
// surface as errors rather than being coerced.
func scanActivity(s rowScanner) (core.Activity, error) {
	var (
		a                core.Activity
		date, start, end string
	)
	if err := s.Scan(&a.ID, &date, &start, &end, &a.CategoryID, &a.Title, &a.Description); err != nil {
		return core.Activity{}, err
	}
	var err error
	if a.Date, err = core.ParseDate(date); err != nil {
		return core.Activity{}, fmt.Errorf("activity %s: %w", a.ID, err)
	}
	if a.Start, err = core.ParseClock(start); err != nil {
		return core.Activity{}, fmt.Errorf("activity %s start: %w", a.ID, err)
	}
	if a.End, err = core.ParseClock(end); err != nil {
		return core.Activity{}, fmt.Errorf("activity %s end: %w", a.ID, err)
	}
	return a, nil
}

const activityColumns = `id, date, start_time, end_time, category_id, title, description`

func (r *SQLiteRepository) CreateActivity(ctx context.Context, a core.Activity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (`+activityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Date.String(), a.Start.String(), a.End.String(), a.CategoryID, a.Title, a.Description)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateActivity(ctx context.Context, a core.Activity) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE activities
		    SET date = ?, start_time = ?, end_time = ?, category_id = ?, title = ?, description = ?,
		        updated_at = CURRENT_TIMESTAMP
		  WHERE id = ?`,
		a.Date.String(), a.Start.String(), a.End.String(), a.CategoryID, a.Title, a.Description, a.ID)
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return expectOne(res, "activity "+a.ID)
}

func (r *SQLiteRepository) DeleteActivity(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return expectOne(res, "activity "+id)
}

func (r *SQLiteRepository) GetActivity(ctx context.Context, id string) (core.Activity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Activity{}, fmt.Errorf("activity %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return core.Activity{}, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListActivities(ctx context.Context, start, end core.Date) ([]core.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM activities
		  WHERE date BETWEEN ? AND ?
		  ORDER BY date, start_time, id`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := make([]core.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, is_default FROM categories ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]core.Category, 0)
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.IsDefault); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, color, is_default, position)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM categories))`,
		c.ID, c.Name, c.Color, c.IsDefault)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ? WHERE id = ?`, c.Name, c.Color, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return expectOne(res, "category "+c.ID)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return expectOne(res, "category "+id)
}

func (r *SQLiteRepository) UpsertRating(ctx context.Context, dr core.DailyRating) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_ratings (date, rating) VALUES (?, ?)
		 ON CONFLICT(date) DO UPDATE SET rating = excluded.rating, updated_at = CURRENT_TIMESTAMP`,
		dr.Date.String(), string(dr.Rating))
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

func scanRating(s rowScanner) (core.DailyRating, error) {
	var date, rating string
	if err := s.Scan(&date, &rating); err != nil {
		return core.DailyRating{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.DailyRating{}, err
	}
	rt, err := core.ParseRating(rating)
	if err != nil {
		return core.DailyRating{}, err
	}
	return core.DailyRating{Date: d, Rating: rt}, nil
}

func (r *SQLiteRepository) GetRating(ctx context.Context, date core.Date) (core.DailyRating, error) {
	row := r.db.QueryRowContext(ctx, `SELECT date, rating FROM daily_ratings WHERE date = ?`, date.String())
	dr, err := scanRating(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DailyRating{}, fmt.Errorf("rating %s: %w", date, store.ErrNotFound)
	}
	if err != nil {
		return core.DailyRating{}, fmt.Errorf("get rating: %w", err)
	}
	return dr, nil
}

func (r *SQLiteRepository) DeleteRating(ctx context.Context, date core.Date) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM daily_ratings WHERE date = ?`, date.String())
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	return expectOne(res, "rating "+date.String())
}

func (r *SQLiteRepository) ListRatings(ctx context.Context, start, end core.Date) ([]core.DailyRating, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, rating FROM daily_ratings WHERE date BETWEEN ? AND ? ORDER BY date`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	out := make([]core.DailyRating, 0)
	for rows.Next() {
		dr, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, dr)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetSettings(ctx context.Context) (core.Settings, error) {
	var theme, last string
	err := r.db.QueryRowContext(ctx,
		`SELECT theme, last_viewed_date FROM user_settings WHERE id = 1`).Scan(&theme, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Settings{}, fmt.Errorf("settings: %w", store.ErrNotFound)
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	d, err := core.ParseDate(last)
	if err != nil {
		return core.Settings{}, fmt.Errorf("settings last viewed date: %w", err)
	}
	return core.Settings{Theme: core.Theme(theme), LastViewedDate: d}, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_settings (id, theme, last_viewed_date) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET theme = excluded.theme, last_viewed_date = excluded.last_viewed_date`,
		string(s.Theme), s.LastViewedDate.String())
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertSnapshot(ctx context.Context, s core.WeekSnapshot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO week_summaries
		   (week_start, week_end, total_minutes, avg_minutes_per_day, top_category_name, days_with_activities)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(week_start) DO UPDATE SET
		   week_end = excluded.week_end,
		   total_minutes = excluded.total_minutes,
		   avg_minutes_per_day = excluded.avg_minutes_per_day,
		   top_category_name = excluded.top_category_name,
		   days_with_activities = excluded.days_with_activities,
		   updated_at = CURRENT_TIMESTAMP`,
		s.WeekStart.String(), s.WeekEnd.String(), s.TotalMinutes, s.AvgMinutesPerDay, s.TopCategoryName, s.DaysWithActivities)
	if err != nil {
		return fmt.Errorf("upsert week summary: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListSnapshots(ctx context.Context, limit int) ([]core.WeekSnapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT week_start, week_end, total_minutes, avg_minutes_per_day, top_category_name, days_with_activities
		   FROM week_summaries ORDER BY week_start DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list week summaries: %w", err)
	}
	defer rows.Close()

	out := make([]core.WeekSnapshot, 0)
	for rows.Next() {
		var (
			s          core.WeekSnapshot
			start, end string
		)
		if err := rows.Scan(&start, &end, &s.TotalMinutes, &s.AvgMinutesPerDay, &s.TopCategoryName, &s.DaysWithActivities); err != nil {
			return nil, fmt.Errorf("scan week summary: %w", err)
		}
		if s.WeekStart, err = core.ParseDate(start); err != nil {
			return nil, err
		}
		if s.WeekEnd, err = core.ParseDate(end); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return nil
}
