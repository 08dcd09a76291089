package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bunotel"

	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/store/postgres/migrations"
)

// minPostgresVersion is the oldest server gen_random_uuid() ships with in core.
const minPostgresVersion = "13.0.0"

type RecordSchema struct {
	bun.BaseModel `bun:"table:record,alias:r" yaml:"-"`

	UUID      uuid.UUID                    `bun:",pk,type:uuid,default:gen_random_uuid()"                     yaml:"uuid,omitempty"`
	ID        int64                        `bun:",autoincrement"                                              yaml:"id,omitempty"` // used as a cursor for pagination
	CreatedAt time.Time                    `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"created_at,omitempty"`
	UpdatedAt time.Time                    `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"updated_at,omitempty"`
	DeletedAt time.Time                    `bun:"type:timestamptz,soft_delete,nullzero"                       yaml:"deleted_at,omitempty"`
	CrimeNo   string                       `bun:",nullzero"                                                   yaml:"crime_no,omitempty"`
	Fields    map[string]models.FieldValue `bun:"type:jsonb,notnull"                                          yaml:"fields,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*RecordSchema)(nil)

func (s *RecordSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

// BeforeCreateTable is a marker method to ensure uniform interface across all table models - used in table creation iterator
func (s *RecordSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

type DocumentSchema struct {
	bun.BaseModel `bun:"table:document,alias:d" yaml:"-"`

	UUID      uuid.UUID              `bun:",pk,type:uuid,default:gen_random_uuid()"                     yaml:"uuid,omitempty"`
	ID        int64                  `bun:",autoincrement"                                              yaml:"id,omitempty"`
	CreatedAt time.Time              `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"created_at,omitempty"`
	UpdatedAt time.Time              `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp" yaml:"updated_at,omitempty"`
	DeletedAt time.Time              `bun:"type:timestamptz,soft_delete,nullzero"                       yaml:"deleted_at,omitempty"`
	Name      string                 `bun:",notnull"                                                    yaml:"name,omitempty"`
	Text      string                 `bun:",notnull"                                                    yaml:"text,omitempty"`
	Language  string                 `bun:",notnull,default:'en'"                                       yaml:"language,omitempty"`
	Status    models.DocumentStatus  `bun:",notnull,default:'pending'"                                  yaml:"status,omitempty"`
	Spans     models.ResolvedSpanSet `bun:"type:jsonb,nullzero"                                         yaml:"spans,omitempty"`
	Error     string                 `bun:",nullzero"                                                   yaml:"error,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*DocumentSchema)(nil)

func (s *DocumentSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (s *DocumentSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

var _ bun.AfterCreateTableHook = (*RecordSchema)(nil)
var _ bun.AfterCreateTableHook = (*DocumentSchema)(nil)

func (*RecordSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	_, err := query.DB().NewCreateIndex().
		Model((*RecordSchema)(nil)).
		Index("record_id_idx").
		Column("id").
		IfNotExists().
		Exec(ctx)
	return err
}

func (*DocumentSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	colsToIndex := []string{"id", "status"}
	for _, col := range colsToIndex {
		_, err := query.DB().NewCreateIndex().
			Model((*DocumentSchema)(nil)).
			Index(fmt.Sprintf("document_%s_idx", col)).
			Column(col).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

// tableList is the set of tables managed by the store.
var tableList = []bun.BeforeCreateTableHook{
	&RecordSchema{},
	&DocumentSchema{},
}

// CreateSchema creates the db schema if it does not exist.
func CreateSchema(
	ctx context.Context,
	db *bun.DB,
) error {
	for _, schema := range tableList {
		_, err := db.NewCreateTable().
			Model(schema).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx)
		if err != nil {
			// bun still trying to create indexes despite IfNotExists flag
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("error creating table for schema %T: %w", schema, err)
		}
	}

	// apply migrations
	if err := migrations.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// NewPostgresConn creates a new bun.DB connection to a postgres database using the provided DSN.
// The connection is configured to pool connections based on the number of PROCs available.
func NewPostgresConn(dsn string) (*bun.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	maxOpenConns := 4 * runtime.GOMAXPROCS(0)

	sqldb := sql.OpenDB(
		pgdriver.NewConnector(
			pgdriver.WithDSN(dsn),
			pgdriver.WithReadTimeout(30*time.Second),
		),
	)
	sqldb.SetMaxOpenConns(maxOpenConns)
	sqldb.SetMaxIdleConns(maxOpenConns)

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName("securex")))

	// postgres may still be starting when we are deployed alongside it
	pingRetryPolicy := retrypolicy.Builder[any]().
		WithBackoff(500*time.Millisecond, 5*time.Second).
		WithMaxRetries(6).
		Build()

	_, err := failsafe.Get(func() (any, error) {
		err := db.PingContext(ctx)
		if err != nil {
			log.Warnf("postgres not ready: %v", err)
		}
		return nil, err
	}, pingRetryPolicy)
	if err != nil {
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}

	if err := checkPostgresVersion(ctx, db); err != nil {
		return nil, err
	}

	return db, nil
}

// checkPostgresVersion fails if the server is older than minPostgresVersion.
func checkPostgresVersion(ctx context.Context, db *bun.DB) error {
	requiredVersion, err := semver.NewVersion(minPostgresVersion)
	if err != nil {
		return fmt.Errorf("error parsing required postgres version: %w", err)
	}

	var version string
	err = db.NewRaw("SHOW server_version").Scan(ctx, &version)
	if err != nil {
		return fmt.Errorf("error checking postgres version: %w", err)
	}

	thisVersion, err := parseServerVersion(version)
	if err != nil {
		return err
	}

	if requiredVersion.GreaterThan(thisVersion) {
		return fmt.Errorf(
			"postgres version %s is not supported, %s or later is required",
			thisVersion,
			minPostgresVersion,
		)
	}
	log.Debugf("postgres version is %s", thisVersion)

	return nil
}

// parseServerVersion parses server_version values such as "16.2 (Debian 16.2-1.pgdg120+2)".
func parseServerVersion(version string) (*semver.Version, error) {
	fields := strings.Fields(version)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty postgres version")
	}
	v, err := semver.NewVersion(fields[0])
	if err != nil {
		return nil, fmt.Errorf("error parsing postgres version %q: %w", version, err)
	}
	return v, nil
}
