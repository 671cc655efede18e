package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danilofortes/stackhabit/internal"
)

type PostgresStore struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStore(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (p *PostgresStore) Close() { p.pool.Close() }

// EnsureSchema creates the tables and the uniqueness constraints the
// toggle and review semantics rely on.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS habits (
			id          BIGSERIAL PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title       TEXT NOT NULL,
			color_hex   TEXT NOT NULL DEFAULT '#3B82F6',
			is_archived BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS daily_logs (
			id           BIGSERIAL PRIMARY KEY,
			habit_id     BIGINT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			date         DATE NOT NULL,
			is_completed BOOLEAN NOT NULL,
			logged_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (habit_id, date)
		);
		CREATE TABLE IF NOT EXISTS monthly_metas (
			id          BIGSERIAL PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			target_date TEXT NOT NULL,
			description TEXT NOT NULL,
			is_done     BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS monthly_reviews (
			id          BIGSERIAL PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			target_date TEXT NOT NULL,
			content     TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, target_date)
		);
	`)
	if err != nil {
		p.logger.Errorf("failed to ensure schema: %v", err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- UserRepository ---

func (p *PostgresStore) CreateUser(ctx context.Context, u *internal.User) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		p.logger.Errorf("failed to insert user: %v", err)
	}
	return err
}

func (p *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (p *PostgresStore) GetUserByID(ctx context.Context, id string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*internal.User, error) {
	var u internal.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// --- HabitRepository ---

func (p *PostgresStore) ListHabits(ctx context.Context, userID string, includeArchived bool) ([]internal.Habit, error) {
	query := `SELECT id, user_id, title, color_hex, is_archived, created_at FROM habits WHERE user_id = $1`
	if !includeArchived {
		query += ` AND is_archived = FALSE`
	}
	query += ` ORDER BY created_at`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		p.logger.Errorf("failed to query habits: %v", err)
		return nil, err
	}
	defer rows.Close()

	var habits []internal.Habit
	for rows.Next() {
		var h internal.Habit
		if err := rows.Scan(&h.ID, &h.UserID, &h.Title, &h.ColorHex, &h.IsArchived, &h.CreatedAt); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (p *PostgresStore) GetHabit(ctx context.Context, id int64) (*internal.Habit, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, user_id, title, color_hex, is_archived, created_at FROM habits WHERE id = $1`, id)
	var h internal.Habit
	err := row.Scan(&h.ID, &h.UserID, &h.Title, &h.ColorHex, &h.IsArchived, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (p *PostgresStore) CreateHabit(ctx context.Context, h *internal.Habit) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO habits (user_id, title, color_hex, is_archived, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		h.UserID, h.Title, h.ColorHex, h.IsArchived, h.CreatedAt).Scan(&h.ID)
	if err != nil {
		p.logger.Errorf("failed to insert habit: %v", err)
	}
	return err
}

func (p *PostgresStore) UpdateHabit(ctx context.Context, h *internal.Habit) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE habits SET title = $2, color_hex = $3, is_archived = $4 WHERE id = $1`,
		h.ID, h.Title, h.ColorHex, h.IsArchived)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) DeleteHabit(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- DailyLogRepository ---

func (p *PostgresStore) GetLog(ctx context.Context, habitID int64, date internal.Date) (*internal.DailyLog, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, habit_id, date, is_completed, logged_at FROM daily_logs WHERE habit_id = $1 AND date = $2`,
		habitID, date.Time())
	return scanLog(row)
}

func (p *PostgresStore) CreateLog(ctx context.Context, l *internal.DailyLog) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO daily_logs (habit_id, date, is_completed, logged_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		l.HabitID, l.Date.Time(), l.IsCompleted, l.LoggedAt).Scan(&l.ID)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		p.logger.Errorf("failed to insert daily log: %v", err)
	}
	return err
}

func (p *PostgresStore) UpdateLog(ctx context.Context, l *internal.DailyLog) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE daily_logs SET is_completed = $2, logged_at = $3 WHERE id = $1`,
		l.ID, l.IsCompleted, l.LoggedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) DeleteLog(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM daily_logs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) ListLogsByMonth(ctx context.Context, userID string, month internal.YearMonth) ([]internal.DailyLog, error) {
	start := time.Date(month.Year, month.Month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	rows, err := p.pool.Query(ctx, `
		SELECT l.id, l.habit_id, l.date, l.is_completed, l.logged_at
		FROM daily_logs l
		JOIN habits h ON h.id = l.habit_id
		WHERE h.user_id = $1 AND l.date >= $2 AND l.date < $3`,
		userID, start, end)
	if err != nil {
		p.logger.Errorf("failed to query daily logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	var logs []internal.DailyLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

func scanLog(row pgx.Row) (*internal.DailyLog, error) {
	var l internal.DailyLog
	var date time.Time
	err := row.Scan(&l.ID, &l.HabitID, &date, &l.IsCompleted, &l.LoggedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	l.Date = internal.DateOf(date)
	return &l, nil
}

// --- MonthlyMetaRepository ---

func (p *PostgresStore) ListMetasByMonth(ctx context.Context, userID string, targetDate string) ([]internal.MonthlyMeta, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, target_date, description, is_done, created_at
		 FROM monthly_metas WHERE user_id = $1 AND target_date = $2 ORDER BY created_at`,
		userID, targetDate)
	if err != nil {
		p.logger.Errorf("failed to query metas: %v", err)
		return nil, err
	}
	defer rows.Close()

	var metas []internal.MonthlyMeta
	for rows.Next() {
		var m internal.MonthlyMeta
		if err := rows.Scan(&m.ID, &m.UserID, &m.TargetDate, &m.Description, &m.IsDone, &m.CreatedAt); err != nil {
			return nil, err
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

func (p *PostgresStore) GetMeta(ctx context.Context, id int64) (*internal.MonthlyMeta, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, user_id, target_date, description, is_done, created_at FROM monthly_metas WHERE id = $1`, id)
	var m internal.MonthlyMeta
	err := row.Scan(&m.ID, &m.UserID, &m.TargetDate, &m.Description, &m.IsDone, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (p *PostgresStore) CreateMeta(ctx context.Context, m *internal.MonthlyMeta) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO monthly_metas (user_id, target_date, description, is_done, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.UserID, m.TargetDate, m.Description, m.IsDone, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		p.logger.Errorf("failed to insert meta: %v", err)
	}
	return err
}

func (p *PostgresStore) UpdateMeta(ctx context.Context, m *internal.MonthlyMeta) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE monthly_metas SET description = $2, is_done = $3 WHERE id = $1`,
		m.ID, m.Description, m.IsDone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) DeleteMeta(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM monthly_metas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- MonthlyReviewRepository ---

func (p *PostgresStore) GetReviewByMonth(ctx context.Context, userID string, targetDate string) (*internal.MonthlyReview, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, user_id, target_date, content, created_at, updated_at
		 FROM monthly_reviews WHERE user_id = $1 AND target_date = $2`,
		userID, targetDate)
	return scanReview(row)
}

func (p *PostgresStore) ListReviews(ctx context.Context, userID string) ([]internal.MonthlyReview, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, target_date, content, created_at, updated_at
		 FROM monthly_reviews WHERE user_id = $1 ORDER BY target_date DESC`,
		userID)
	if err != nil {
		p.logger.Errorf("failed to query reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var reviews []internal.MonthlyReview
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

func (p *PostgresStore) CreateReview(ctx context.Context, r *internal.MonthlyReview) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO monthly_reviews (user_id, target_date, content, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		r.UserID, r.TargetDate, r.Content, r.CreatedAt, r.UpdatedAt).Scan(&r.ID)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		p.logger.Errorf("failed to insert review: %v", err)
	}
	return err
}

func (p *PostgresStore) UpdateReview(ctx context.Context, r *internal.MonthlyReview) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE monthly_reviews SET content = $2, updated_at = $3 WHERE id = $1`,
		r.ID, r.Content, r.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReview(row pgx.Row) (*internal.MonthlyReview, error) {
	var r internal.MonthlyReview
	err := row.Scan(&r.ID, &r.UserID, &r.TargetDate, &r.Content, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *PostgresStore) DeleteReview(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM monthly_reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
