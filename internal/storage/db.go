package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver

	"ats-backend/pkg/errs"
)

type DB struct {
	connection *sql.DB
}

func NewDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &DB{connection: db}, nil
}

func (db *DB) Close() error {
	return db.connection.Close()
}

// --- CVs ---

func (db *DB) CreateCV(ctx context.Context, cv *CV) error {
	if cv.ID == "" {
		cv.ID = uuid.NewString()
	}
	if cv.UploadedAt.IsZero() {
		cv.UploadedAt = time.Now()
	}
	query := `INSERT INTO cvs (id, file_name, file_path, file_size, mime_type, status, job_id, candidate_id, uploaded_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := db.connection.ExecContext(ctx, query,
		cv.ID, cv.FileName, cv.FilePath, cv.FileSize, cv.MimeType,
		cv.Status, cv.JobID, cv.CandidateID, cv.UploadedAt,
	)
	return err
}

func (db *DB) GetCVByID(ctx context.Context, id string) (*CV, error) {
	query := `SELECT id, file_name, file_path, file_size, mime_type, status, match_score,
                     job_id, candidate_id, analysis_data, uploaded_at, analyzed_at
              FROM cvs WHERE id = $1`
	return scanCV(db.connection.QueryRowContext(ctx, query, id))
}

// UpdateCV persists the mutable analysis fields of a CV record.
func (db *DB) UpdateCV(ctx context.Context, cv *CV) error {
	query := `UPDATE cvs
              SET status = $2, match_score = $3, analysis_data = $4, analyzed_at = $5
              WHERE id = $1`
	var data any
	if len(cv.AnalysisData) > 0 {
		data = []byte(cv.AnalysisData)
	}
	res, err := db.connection.ExecContext(ctx, query,
		cv.ID, cv.Status, cv.MatchScore, data, cv.AnalyzedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "cv %s", cv.ID)
}

func (db *DB) ListCVs(ctx context.Context, filter CVFilter) ([]*CV, *Pagination, error) {
	var where []string
	var args []any
	i := 1

	if filter.CandidateID != "" {
		where = append(where, fmt.Sprintf("candidate_id = $%d", i))
		args = append(args, filter.CandidateID)
		i++
	}
	if filter.JobID != "" {
		where = append(where, fmt.Sprintf("job_id = $%d", i))
		args = append(args, filter.JobID)
		i++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", i))
		args = append(args, filter.Status)
		i++
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.connection.QueryRowContext(ctx, "SELECT COUNT(*) FROM cvs"+cond, args...).Scan(&total); err != nil {
		return nil, nil, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := `SELECT id, file_name, file_path, file_size, mime_type, status, match_score,
                     job_id, candidate_id, analysis_data, uploaded_at, analyzed_at
              FROM cvs` + cond +
		fmt.Sprintf(" ORDER BY uploaded_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := db.connection.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var cvs []*CV
	for rows.Next() {
		cv, err := scanCV(rows)
		if err != nil {
			return nil, nil, err
		}
		cvs = append(cvs, cv)
	}
	return cvs, paginationFor(page, limit, total), rows.Err()
}

func (db *DB) DeleteCV(ctx context.Context, id string) error {
	res, err := db.connection.ExecContext(ctx, `DELETE FROM cvs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "cv %s", id)
}

// --- Candidates ---

func (db *DB) CreateCandidate(ctx context.Context, c *Candidate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = CandidateStatusNew
	}
	query := `INSERT INTO candidates (id, name, email, phone, location, experience, skills, status, job_id)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := db.connection.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Location, c.Experience,
		strings.Join(c.Skills, ","), c.Status, c.JobID,
	)
	return err
}

func (db *DB) GetCandidateByID(ctx context.Context, id string) (*Candidate, error) {
	query := `SELECT id, name, email, phone, location, experience, skills, match_score, status, job_id, created_at, updated_at
              FROM candidates WHERE id = $1`
	return scanCandidate(db.connection.QueryRowContext(ctx, query, id))
}

// UpdateCandidate persists the fields the analysis orchestrator overwrites.
func (db *DB) UpdateCandidate(ctx context.Context, c *Candidate) error {
	query := `UPDATE candidates
              SET skills = $2, experience = $3, match_score = $4, status = $5, updated_at = NOW()
              WHERE id = $1`
	res, err := db.connection.ExecContext(ctx, query,
		c.ID, strings.Join(c.Skills, ","), c.Experience, c.MatchScore, c.Status)
	if err != nil {
		return err
	}
	return requireRow(res, "candidate %s", c.ID)
}

func (db *DB) UpdateCandidateStatus(ctx context.Context, id string, status CandidateStatus) error {
	res, err := db.connection.ExecContext(ctx,
		`UPDATE candidates SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	return requireRow(res, "candidate %s", id)
}

func (db *DB) ListCandidates(ctx context.Context, filter CandidateFilter) ([]*Candidate, *Pagination, error) {
	var where []string
	var args []any
	i := 1

	if filter.JobID != "" {
		where = append(where, fmt.Sprintf("job_id = $%d", i))
		args = append(args, filter.JobID)
		i++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", i))
		args = append(args, filter.Status)
		i++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR skills ILIKE $%d)", i, i, i))
		args = append(args, "%"+filter.Search+"%")
		i++
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.connection.QueryRowContext(ctx, "SELECT COUNT(*) FROM candidates"+cond, args...).Scan(&total); err != nil {
		return nil, nil, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := `SELECT id, name, email, phone, location, experience, skills, match_score, status, job_id, created_at, updated_at
              FROM candidates` + cond +
		fmt.Sprintf(" ORDER BY match_score DESC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := db.connection.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var res []*Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, nil, err
		}
		res = append(res, c)
	}
	return res, paginationFor(page, limit, total), rows.Err()
}

func (db *DB) DeleteCandidate(ctx context.Context, id string) error {
	res, err := db.connection.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "candidate %s", id)
}

// --- Jobs ---

func (db *DB) CreateJob(ctx context.Context, j *Job) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	query := `INSERT INTO jobs (id, title, company, description) VALUES ($1, $2, $3, $4)`
	_, err := db.connection.ExecContext(ctx, query, j.ID, j.Title, j.Company, j.Description)
	return err
}

func (db *DB) GetJobByID(ctx context.Context, id string) (*Job, error) {
	query := `SELECT id, title, company, description, created_at FROM jobs WHERE id = $1`
	j := &Job{}
	err := db.connection.QueryRowContext(ctx, query, id).
		Scan(&j.ID, &j.Title, &j.Company, &j.Description, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFoundf("job %s", id)
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (db *DB) ListJobs(ctx context.Context) ([]*Job, error) {
	rows, err := db.connection.QueryContext(ctx,
		`SELECT id, title, company, description, created_at FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		j := &Job{}
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Description, &j.CreatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// GetConnection returns the underlying database connection for advanced queries.
func (db *DB) GetConnection() *sql.DB {
	return db.connection
}

// --- scanning helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCV(row rowScanner) (*CV, error) {
	cv := &CV{}
	var matchScore sql.NullInt64
	var jobID sql.NullString
	var data []byte
	var analyzedAt sql.NullTime

	err := row.Scan(&cv.ID, &cv.FileName, &cv.FilePath, &cv.FileSize, &cv.MimeType,
		&cv.Status, &matchScore, &jobID, &cv.CandidateID, &data, &cv.UploadedAt, &analyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFoundf("cv")
	}
	if err != nil {
		return nil, err
	}

	if matchScore.Valid {
		score := int(matchScore.Int64)
		cv.MatchScore = &score
	}
	if jobID.Valid {
		cv.JobID = &jobID.String
	}
	if len(data) > 0 {
		cv.AnalysisData = json.RawMessage(data)
	}
	if analyzedAt.Valid {
		t := analyzedAt.Time
		cv.AnalyzedAt = &t
	}
	return cv, nil
}

func scanCandidate(row rowScanner) (*Candidate, error) {
	c := &Candidate{}
	var phone, location, experience, skills sql.NullString
	var matchScore sql.NullInt64
	var jobID sql.NullString

	err := row.Scan(&c.ID, &c.Name, &c.Email, &phone, &location, &experience,
		&skills, &matchScore, &c.Status, &jobID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFoundf("candidate")
	}
	if err != nil {
		return nil, err
	}

	c.Phone = phone.String
	c.Location = location.String
	c.Experience = experience.String
	if skills.String != "" {
		c.Skills = splitAndTrim(skills.String)
	}
	if matchScore.Valid {
		score := int(matchScore.Int64)
		c.MatchScore = &score
	}
	if jobID.Valid {
		c.JobID = &jobID.String
	}
	return c, nil
}

func requireRow(res sql.Result, format string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFoundf(format, args...)
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func paginationFor(page, limit, total int) *Pagination {
	pages := (total + limit - 1) / limit
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// helper to split comma-separated skills
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
