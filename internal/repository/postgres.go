package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evaselfe/entrepedia-7/internal/domain"
)

// Compile-time interface assertions.
var (
	_ JobRepository         = (*PostgresJobRepo)(nil)
	_ ApplicationRepository = (*PostgresApplicationRepo)(nil)
	_ OTPRepository         = (*PostgresOTPRepo)(nil)
	_ CredentialRepository  = (*PostgresCredentialRepo)(nil)
	_ SessionRepository     = (*PostgresSessionRepo)(nil)
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// PostgresJobRepo implements JobRepository.
type PostgresJobRepo struct {
	db *pgxpool.Pool
}

func NewPostgresJobRepo(db *pgxpool.Pool) *PostgresJobRepo {
	return &PostgresJobRepo{db: db}
}

const jobColumns = `id, creator_id, title, description, conditions, location, status, expires_at, max_applications, application_count, created_at, updated_at`

func (r *PostgresJobRepo) List(ctx context.Context) ([]domain.Job, error) {
	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (r *PostgresJobRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		return domain.Job{}, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

const insertJobSQL = `INSERT INTO jobs (id, creator_id, title, description, conditions, location, status, expires_at, max_applications, application_count)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0)
RETURNING ` + jobColumns

func (r *PostgresJobRepo) Create(ctx context.Context, job domain.Job) (domain.Job, error) {
	row := r.db.QueryRow(ctx, insertJobSQL,
		job.ID,
		job.CreatorID,
		job.Title,
		job.Description,
		job.Conditions,
		job.Location,
		job.Status,
		job.ExpiresAt,
		job.MaxApplications,
	)
	created, err := scanJob(row)
	if err != nil {
		return domain.Job{}, fmt.Errorf("create job: %w", err)
	}
	return created, nil
}

func (r *PostgresJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update job status: %w", pgx.ErrNoRows)
	}
	return nil
}

func (r *PostgresJobRepo) IncrementApplicationCount(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `UPDATE jobs SET application_count = application_count + 1, updated_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment application count: %w", err)
	}
	return nil
}

func scanJob(row pgx.Row) (domain.Job, error) {
	var job domain.Job
	err := row.Scan(
		&job.ID,
		&job.CreatorID,
		&job.Title,
		&job.Description,
		&job.Conditions,
		&job.Location,
		&job.Status,
		&job.ExpiresAt,
		&job.MaxApplications,
		&job.ApplicationCount,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	return job, err
}

// PostgresApplicationRepo implements ApplicationRepository.
type PostgresApplicationRepo struct {
	db *pgxpool.Pool
}

func NewPostgresApplicationRepo(db *pgxpool.Pool) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{db: db}
}

func (r *PostgresApplicationRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.JobApplication, error) {
	rows, err := r.db.Query(ctx, `SELECT id, job_id, applicant_id, message, created_at FROM job_applications WHERE job_id = $1 ORDER BY created_at`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []domain.JobApplication
	for rows.Next() {
		var app domain.JobApplication
		if err := rows.Scan(&app.ID, &app.JobID, &app.ApplicantID, &app.Message, &app.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

const insertApplicationSQL = `INSERT INTO job_applications (id, job_id, applicant_id, message)
VALUES ($1, $2, $3, $4)
RETURNING id, job_id, applicant_id, message, created_at`

func (r *PostgresApplicationRepo) Create(ctx context.Context, app domain.JobApplication) (domain.JobApplication, error) {
	row := r.db.QueryRow(ctx, insertApplicationSQL, app.ID, app.JobID, app.ApplicantID, app.Message)

	var inserted domain.JobApplication
	if err := row.Scan(&inserted.ID, &inserted.JobID, &inserted.ApplicantID, &inserted.Message, &inserted.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.JobApplication{}, domain.ErrDuplicateApplication
		}
		return domain.JobApplication{}, fmt.Errorf("create application: %w", err)
	}
	return inserted, nil
}

// PostgresOTPRepo implements OTPRepository.
type PostgresOTPRepo struct {
	db *pgxpool.Pool
}

func NewPostgresOTPRepo(db *pgxpool.Pool) *PostgresOTPRepo {
	return &PostgresOTPRepo{db: db}
}

func (r *PostgresOTPRepo) DeleteByMobile(ctx context.Context, mobile string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM password_reset_otps WHERE mobile_number = $1`, mobile); err != nil {
		return fmt.Errorf("delete otps: %w", err)
	}
	return nil
}

const insertOTPSQL = `INSERT INTO password_reset_otps (mobile_number, code, expires_at, used)
VALUES ($1, $2, $3, false)
RETURNING id, mobile_number, code, expires_at, used, created_at`

func (r *PostgresOTPRepo) Create(ctx context.Context, otp domain.PasswordResetOTP) (domain.PasswordResetOTP, error) {
	row := r.db.QueryRow(ctx, insertOTPSQL, otp.MobileNumber, otp.Code, otp.ExpiresAt)

	var inserted domain.PasswordResetOTP
	if err := row.Scan(&inserted.ID, &inserted.MobileNumber, &inserted.Code, &inserted.ExpiresAt, &inserted.Used, &inserted.CreatedAt); err != nil {
		return domain.PasswordResetOTP{}, fmt.Errorf("create otp: %w", err)
	}
	return inserted, nil
}

func (r *PostgresOTPRepo) GetLive(ctx context.Context, mobile, code string, now time.Time) (domain.PasswordResetOTP, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, mobile_number, code, expires_at, used, created_at
FROM password_reset_otps
WHERE mobile_number = $1 AND code = $2 AND used = false AND expires_at > $3`,
		mobile, code, now)

	var otp domain.PasswordResetOTP
	if err := row.Scan(&otp.ID, &otp.MobileNumber, &otp.Code, &otp.ExpiresAt, &otp.Used, &otp.CreatedAt); err != nil {
		return domain.PasswordResetOTP{}, fmt.Errorf("get otp: %w", err)
	}
	return otp, nil
}

func (r *PostgresOTPRepo) MarkUsed(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `UPDATE password_reset_otps SET used = true WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark otp used: %w", err)
	}
	return nil
}

// PostgresCredentialRepo implements CredentialRepository.
type PostgresCredentialRepo struct {
	db *pgxpool.Pool
}

func NewPostgresCredentialRepo(db *pgxpool.Pool) *PostgresCredentialRepo {
	return &PostgresCredentialRepo{db: db}
}

func (r *PostgresCredentialRepo) GetByMobile(ctx context.Context, mobile string) (domain.UserCredentials, error) {
	row := r.db.QueryRow(ctx, `SELECT user_id, mobile_number, password_hash, updated_at FROM user_credentials WHERE mobile_number = $1`, mobile)

	var creds domain.UserCredentials
	if err := row.Scan(&creds.UserID, &creds.MobileNumber, &creds.PasswordHash, &creds.UpdatedAt); err != nil {
		return domain.UserCredentials{}, fmt.Errorf("get credentials: %w", err)
	}
	return creds, nil
}

func (r *PostgresCredentialRepo) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error {
	if _, err := r.db.Exec(ctx, `UPDATE user_credentials SET password_hash = $2, updated_at = now() WHERE user_id = $1`, userID, hash); err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return nil
}

// PostgresSessionRepo implements SessionRepository.
type PostgresSessionRepo struct {
	db *pgxpool.Pool
}

func NewPostgresSessionRepo(db *pgxpool.Pool) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

func (r *PostgresSessionRepo) DeactivateAllForUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `UPDATE user_sessions SET active = false, deactivated_at = now() WHERE user_id = $1 AND active = true`, userID); err != nil {
		return fmt.Errorf("deactivate sessions: %w", err)
	}
	return nil
}
