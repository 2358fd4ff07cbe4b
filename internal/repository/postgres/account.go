package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/alumni-portal-server/internal/model"
)

const uniqueViolationCode = "23505"

const accountColumns = `id, email, password_hash, status, is_admin, name, phone, dob, institution, course, year,
	favourite_teacher, social_media, bio, profile_image, cover_image, privacy_settings, created_at, updated_at`

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (model.Account, error) {
	var (
		account model.Account
		dob     sql.NullTime
		privacy []byte
	)
	err := row.Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.Status, &account.IsAdmin,
		&account.Name, &account.Phone, &dob, &account.Institution, &account.Course, &account.Year,
		&account.FavouriteTeacher, &account.SocialMedia, &account.Bio, &account.ProfileImage, &account.CoverImage,
		&privacy, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return model.Account{}, err
	}
	if dob.Valid {
		t := dob.Time
		account.DOB = &t
	}
	if len(privacy) > 0 {
		if err := json.Unmarshal(privacy, &account.PrivacySettings); err != nil {
			return model.Account{}, fmt.Errorf("failed to decode privacy settings: %w", err)
		}
	}
	return account, nil
}

// queryAccount runs a single-row query and maps sql.ErrNoRows to model.ErrNotFound.
func (r *AccountRepository) queryAccount(ctx context.Context, op, query string, args ...any) (model.Account, error) {
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to %s: %w", op, err)
	}
	return account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	query := `SELECT ` + accountColumns + `
			  FROM accounts WHERE LOWER(email) = $1`

	return r.queryAccount(ctx, "get account by email", query, model.NormalizeEmail(email))
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	query := `SELECT ` + accountColumns + `
			  FROM accounts WHERE id = $1`

	return r.queryAccount(ctx, "get account by id", query, id)
}

// Create inserts a new account. A concurrent insert of the same normalized
// email loses on the unique index and gets model.ErrDuplicate.
func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	privacy, err := json.Marshal(account.PrivacySettings)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to encode privacy settings: %w", err)
	}

	query := `INSERT INTO accounts (id, email, password_hash, status, is_admin, name, phone, dob, institution, course, year,
			  favourite_teacher, social_media, bio, privacy_settings, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			  RETURNING ` + accountColumns

	saved, err := scanAccount(r.db.QueryRowContext(ctx, query,
		account.ID, model.NormalizeEmail(account.Email), account.PasswordHash, string(account.Status), account.IsAdmin,
		account.Name, account.Phone, account.DOB, account.Institution, account.Course, account.Year,
		account.FavouriteTeacher, account.SocialMedia, account.Bio, string(privacy),
		account.CreatedAt, account.UpdatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return model.Account{}, model.ErrDuplicate
		}
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return saved, nil
}

// UpdateProfile writes only the fields set in update.
func (r *AccountRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.Account, error) {
	if update.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addString := func(column string, value *string) {
		if value != nil {
			add(column, *value)
		}
	}

	addString("name", update.Name)
	addString("phone", update.Phone)
	if update.DOB != nil {
		add("dob", update.ParsedDOB)
	}
	addString("institution", update.Institution)
	addString("course", update.Course)
	addString("year", update.Year)
	addString("favourite_teacher", update.FavouriteTeacher)
	addString("social_media", update.SocialMedia)
	addString("bio", update.Bio)

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE accounts SET %s, updated_at = NOW()
			  WHERE id = $%d
			  RETURNING `+accountColumns, strings.Join(sets, ", "), len(args))

	return r.queryAccount(ctx, "update profile", query, args...)
}

// UpdatePrivacySettings replaces the whole settings object.
func (r *AccountRepository) UpdatePrivacySettings(ctx context.Context, id uuid.UUID, settings model.PrivacySettings) (model.Account, error) {
	privacy, err := json.Marshal(settings)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to encode privacy settings: %w", err)
	}

	query := `UPDATE accounts SET privacy_settings = $1::jsonb, updated_at = NOW()
			  WHERE id = $2
			  RETURNING ` + accountColumns

	return r.queryAccount(ctx, "update privacy settings", query, string(privacy), id)
}

func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// UpdateStatus is a compare-and-set on the status column, so two concurrent
// decisions on the same account cannot both succeed.
func (r *AccountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AccountStatus) (model.Account, error) {
	query := `UPDATE accounts SET status = $1, updated_at = NOW()
			  WHERE id = $2 AND status = $3
			  RETURNING ` + accountColumns

	account, err := r.queryAccount(ctx, "update status", query, string(to), id, string(from))
	if errors.Is(err, model.ErrNotFound) {
		return model.Account{}, model.ErrStatusChanged
	}
	return account, err
}

func (r *AccountRepository) UpdateImage(ctx context.Context, id uuid.UUID, kind model.ImageKind, url string) (model.Account, error) {
	var column string
	switch kind {
	case model.ImageProfile:
		column = "profile_image"
	case model.ImageCover:
		column = "cover_image"
	default:
		return model.Account{}, fmt.Errorf("unknown image kind %q", kind)
	}

	query := `UPDATE accounts SET ` + column + ` = $1, updated_at = NOW()
			  WHERE id = $2
			  RETURNING ` + accountColumns

	return r.queryAccount(ctx, "update image", query, url, id)
}

// ListApproved returns the newest approved accounts matching filter.
func (r *AccountRepository) ListApproved(ctx context.Context, filter model.DirectoryFilter) ([]model.DirectoryEntry, error) {
	conds := []string{"status = $1"}
	args := []any{string(model.StatusApproved)}
	bind := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Year != "" {
		conds = append(conds, "year = "+bind(filter.Year))
	}
	if filter.Institution != "" {
		conds = append(conds, "institution ILIKE "+bind(likePattern(filter.Institution)))
	}
	if filter.Course != "" {
		conds = append(conds, "course ILIKE "+bind(likePattern(filter.Course)))
	}
	if filter.Query != "" {
		p := bind(likePattern(filter.Query))
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR email ILIKE %s)", p, p))
	}

	query := fmt.Sprintf(`SELECT id, name, email, phone, institution, course, year, created_at
			  FROM accounts WHERE %s
			  ORDER BY created_at DESC
			  LIMIT %d`, strings.Join(conds, " AND "), model.DirectoryLimit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved accounts: %w", err)
	}
	defer rows.Close()

	entries := make([]model.DirectoryEntry, 0)
	for rows.Next() {
		var e model.DirectoryEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Institution, &e.Course, &e.Year, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approved account: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate approved accounts: %w", err)
	}

	return entries, nil
}

// ListByStatus returns accounts in status, oldest first.
func (r *AccountRepository) ListByStatus(ctx context.Context, status model.AccountStatus) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + `
			  FROM accounts WHERE status = $1
			  ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by status: %w", err)
	}
	defer rows.Close()

	accounts := make([]model.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a substring pattern with LIKE metacharacters escaped.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
