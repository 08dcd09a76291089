package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/securex/securex/internal"
	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/store/storetest"
	"github.com/securex/securex/pkg/testutils"
)

var testDB *bun.DB
var testCtx context.Context

func TestMain(m *testing.M) {
	setup()
	exitCode := m.Run()
	tearDown()

	os.Exit(exitCode)
}

func setup() {
	testCtx = context.Background()

	dsn := testutils.GetDSN()
	if dsn == "" {
		return
	}

	logger := internal.GetLogger()
	internal.SetLogLevel(logrus.DebugLevel)

	var err error
	testDB, err = NewPostgresConn(dsn)
	if err != nil {
		panic(err)
	}
	testutils.SetUpDBLogging(testDB, logger)
}

func tearDown() {
	if testDB == nil {
		return
	}
	if err := testDB.Close(); err != nil {
		panic(err)
	}
}

// requireDB skips tests that need postgres when no test database is configured.
func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skipf("%s not set, skipping postgres test", testutils.PostgresDSNEnv)
	}
}

func newTestStore(t *testing.T) *Store {
	requireDB(t)
	CleanDB(t, testDB)

	s, err := NewStore(testCtx, testDB)
	require.NoError(t, err)
	return s
}

func TestStore(t *testing.T) {
	requireDB(t)
	storetest.RunStoreTests(t, func(t *testing.T) models.Store {
		return newTestStore(t)
	})
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	requireDB(t)
	CleanDB(t, testDB)

	require.NoError(t, CreateSchema(testCtx, testDB))
	require.NoError(t, CreateSchema(testCtx, testDB))
}

func TestParseServerVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
		wantErr bool
	}{
		{name: "plain", version: "16.2", want: "16.2.0"},
		{name: "debian build", version: "15.6 (Debian 15.6-1.pgdg120+2)", want: "15.6.0"},
		{name: "major only", version: "13", want: "13.0.0"},
		{name: "empty", version: "", wantErr: true},
		{name: "garbage", version: "devel", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseServerVersion(tt.version)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
