package persistent

import (
	"context"
	"database/sql"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	_ "github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

func PgOpen(ctx context.Context, pgDsn string) *bun.DB {
	sqldb, err := sql.Open("pg", pgDsn)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open pg database.")
	}
	err = sqldb.Ping()
	if err != nil {
		logrus.WithError(err).Fatalln("Could not ping pg database.")
	}

	bdb := bun.NewDB(sqldb, pgdialect.New())
	if os.Getenv("DB_VERBOSE") == "true" {
		bdb.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return bdb
}

// Running integration tests requires a real pg db instance, but we
// don't have enough time to start db for every test so we will start db
// once and then pass the datasource to as many tests as we want.

func PgOpenTest(ctx context.Context) *bun.DB {
	return PgOpen(ctx, TestEnvDsn())
}

func TestEnvDsn() string {
	return os.Getenv("PGDB_DSN")
}

func SetTestEnvDsn(dsn string) {
	os.Setenv("PGDB_DSN", dsn)
}

func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []interface{}{
		(*Profile)(nil),
		(*Post)(nil),
		(*PostCounter)(nil),
	}
	for _, model := range models {
		_, err := db.NewCreateTable().IfNotExists().Model(model).Exec(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}
