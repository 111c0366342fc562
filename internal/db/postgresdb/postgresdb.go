// Package postgresdb provides a PostgreSQL-based implementation of the record
// store. The schema is managed by goose migrations embedded in the binary.
package postgresdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/patric-chuzhbe/userdir/internal/db/storage"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	uniqueViolation     = "23505"
	emailConstraintName = "users_email_key"
	userColumns         = `id, name, email, age, gender, hobbies, bio, is_active`
)

// PostgresDB is a PostgreSQL-backed record store.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

type initOptions struct {
	DBPreReset bool
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset drops every table before migrating. Meant for tests.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// New opens the connection pool, applies pending migrations and returns the store.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{
		DBPreReset: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := result.Ping(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("in internal/db/postgresdb/postgresdb.go/New(): error while `result.Ping()` calling: %w", err)
	}

	if options.DBPreReset {
		if err := result.resetDB(ctx); err != nil {
			_ = database.Close()
			return nil, err
		}
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("in internal/db/postgresdb/postgresdb.go/New(): error while `goose.SetDialect()` calling: %w", err)
	}

	if err := goose.UpContext(ctx, result.database, "migrations"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("in internal/db/postgresdb/postgresdb.go/New(): error while `goose.Up()` calling: %w", err)
	}

	return result, nil
}

// CreateUser validates the payload and inserts a new row.
func (db *PostgresDB) CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error) {
	usr, err := storage.NewUser(fields)
	if err != nil {
		return nil, err
	}
	usr.ID = storage.NewID()

	hobbies, err := json.Marshal(usr.Hobbies)
	if err != nil {
		return nil, err
	}

	_, err = db.database.ExecContext(
		ctx,
		`
			INSERT INTO users (id, name, email, age, gender, hobbies, bio, is_active)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
		usr.ID,
		usr.Name,
		usr.Email,
		nullableAge(usr.Age),
		string(usr.Gender),
		string(hobbies),
		usr.Bio,
		usr.IsActive,
	)
	if err != nil {
		return nil, classify(err)
	}

	return &usr, nil
}

// ListUsers returns every row in insertion order.
func (db *PostgresDB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT `+userColumns+` FROM users ORDER BY seq`,
	)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	result := []models.User{}
	for rows.Next() {
		usr, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *usr)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}

	return result, nil
}

// UpdateUserByID locks the row, merges the fields and writes the result back
// in one transaction.
func (db *PostgresDB) UpdateUserByID(
	ctx context.Context,
	id string,
	fields models.UserFields,
) (*models.User, error) {
	transaction, err := db.database.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(err)
	}
	defer func() {
		_ = transaction.Rollback()
	}()

	usr, err := db.findUser(ctx, transaction, id, true)
	if err != nil {
		return nil, err
	}

	storage.Merge(usr, fields)
	if err := storage.Validate(usr); err != nil {
		return nil, err
	}

	hobbies, err := json.Marshal(usr.Hobbies)
	if err != nil {
		return nil, err
	}

	_, err = transaction.ExecContext(
		ctx,
		`
			UPDATE users
				SET name = $2, email = $3, age = $4, gender = $5,
					hobbies = $6, bio = $7, is_active = $8
				WHERE id = $1
		`,
		usr.ID,
		usr.Name,
		usr.Email,
		nullableAge(usr.Age),
		string(usr.Gender),
		string(hobbies),
		usr.Bio,
		usr.IsActive,
	)
	if err != nil {
		return nil, classify(err)
	}

	if err := transaction.Commit(); err != nil {
		return nil, classify(err)
	}

	return usr, nil
}

// DeleteUserByID removes the row with the given id.
func (db *PostgresDB) DeleteUserByID(ctx context.Context, id string) error {
	res, err := db.database.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (db *PostgresDB) findUser(
	ctx context.Context,
	database queryer,
	id string,
	forUpdate bool,
) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	usr, err := scanUser(database.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, classify(err)
	}

	return usr, nil
}

// Ping verifies connectivity within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	if err := db.database.PingContext(ctxWithTimeout); err != nil {
		return fmt.Errorf("%w: %w", models.ErrConnection, err)
	}

	return nil
}

// Close closes the database connection and releases any associated resources.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/resetDB(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}
	return nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		usr     models.User
		age     sql.NullInt64
		gender  string
		hobbies []byte
	)

	err := row.Scan(&usr.ID, &usr.Name, &usr.Email, &age, &gender, &hobbies, &usr.Bio, &usr.IsActive)
	if err != nil {
		return nil, err
	}

	usr.Gender = models.Gender(gender)
	if age.Valid {
		value := int(age.Int64)
		usr.Age = &value
	}
	if err := json.Unmarshal(hobbies, &usr.Hobbies); err != nil {
		return nil, err
	}
	if usr.Hobbies == nil {
		usr.Hobbies = []string{}
	}

	return &usr, nil
}

func nullableAge(age *int) sql.NullInt64 {
	if age == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: int64(*age), Valid: true}
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == emailConstraintName {
		return storage.DuplicateEmail()
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %w", models.ErrConnection, err)
	}

	return err
}
