package session

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const (
	sessionTableName = `session`
	cookieTableName  = `session_cookie`

	singletonID = 1
)

var (
	qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

	// goose keeps its base FS and dialect in package globals.
	migrateMu sync.Mutex
)

type sqliteStore struct {
	db  *sql.DB
	log *zap.Logger
}

func NewSQLiteStore(ctx context.Context, path string, log *zap.Logger) (*sqliteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open session db")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping session db")
	}
	log = log.Named("session")
	if err := migrate(db, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db, log: log}, nil
}

func migrate(db *sql.DB, log *zap.Logger) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{log: log.Sugar()})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "goose dialect")
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return errors.Wrap(err, "migrate session db")
	}
	return nil
}

func (s *sqliteStore) Load(ctx context.Context) (State, error) {
	st := State{Cookies: map[string]string{}}

	query, args, err := qb.Select("token", "email", "is_admin").
		From(sessionTableName).
		Where(sq.Eq{"id": singletonID}).
		ToSql()
	if err != nil {
		return State{}, err
	}
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&st.Token, &st.User.Email, &st.User.IsAdmin)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return State{}, errors.Wrap(err, "select session")
	}

	query, args, err = qb.Select("name", "value").From(cookieTableName).ToSql()
	if err != nil {
		return State{}, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return State{}, errors.Wrap(err, "select cookies")
	}
	defer rows.Close()
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return State{}, errors.Wrap(err, "scan cookie")
		}
		st.Cookies[name] = value
	}
	if err := rows.Err(); err != nil {
		return State{}, err
	}

	s.log.Debug("session loaded", zap.String("email", st.User.Email), zap.Int("cookies", len(st.Cookies)))
	return st, nil
}

func (s *sqliteStore) Save(ctx context.Context, st State) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := qb.Insert(sessionTableName).
			Columns("id", "token", "email", "is_admin", "updated_at").
			Values(singletonID, st.Token, st.User.Email, st.User.IsAdmin, sq.Expr("CURRENT_TIMESTAMP")).
			Suffix(`ON CONFLICT (id) DO UPDATE SET
    token = excluded.token,
    email = excluded.email,
    is_admin = excluded.is_admin,
    updated_at = excluded.updated_at`).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "upsert session")
		}

		query, args, err = qb.Delete(cookieTableName).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "delete cookies")
		}
		if len(st.Cookies) == 0 {
			return nil
		}

		ins := qb.Insert(cookieTableName).Columns("name", "value")
		for name, value := range st.Cookies {
			ins = ins.Values(name, value)
		}
		query, args, err = ins.ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return errors.Wrap(err, "insert cookies")
	})
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{cookieTableName, sessionTableName} {
			query, args, err := qb.Delete(table).ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return errors.Wrapf(err, "clear %s", table)
			}
		}
		return nil
	})
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// gooseLogger routes migration output to zap at debug level.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Fatal(v ...interface{})                 { l.log.Fatal(v...) }
func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.log.Fatalf(format, v...) }
func (l gooseLogger) Print(v ...interface{})                 { l.log.Debug(v...) }
func (l gooseLogger) Println(v ...interface{})               { l.log.Debug(v...) }
func (l gooseLogger) Printf(format string, v ...interface{}) { l.log.Debugf(format, v...) }
