package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"

	"canteen-be/migrations"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Migrator applies the embedded schema. gooseMigrator is the only real
// implementation; tests swap in a recorder.
type Migrator interface {
	Up(ctx context.Context, db *sql.DB) error
	Down(ctx context.Context, db *sql.DB) error
	Status(ctx context.Context, db *sql.DB) error
}

type gooseMigrator struct {
	fsys fs.FS
	dir  string
}

func newGooseMigrator(fsys fs.FS) (*gooseMigrator, error) {
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	return &gooseMigrator{fsys: fsys, dir: "."}, nil
}

func (m *gooseMigrator) Up(ctx context.Context, db *sql.DB) error {
	return goose.UpContext(ctx, db, m.dir)
}

func (m *gooseMigrator) Down(ctx context.Context, db *sql.DB) error {
	return goose.DownContext(ctx, db, m.dir)
}

func (m *gooseMigrator) Status(ctx context.Context, db *sql.DB) error {
	return goose.StatusContext(ctx, db, m.dir)
}

var openDBFunc = func(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newRootCmd(m Migrator) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply the canteen database schema",
		Long:          `migrate runs the embedded goose migrations against the database named by --db-url or DB_URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("db-url", "", "postgres connection URL (default $DB_URL)")
	_ = v.BindPFlag("db_url", root.PersistentFlags().Lookup("db-url"))
	_ = v.BindEnv("db_url", "DB_URL")

	withDB := func(action func(context.Context, *sql.DB) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			dsn := v.GetString("db_url")
			if dsn == "" {
				return fmt.Errorf("DB_URL is not set")
			}

			db, err := openDBFunc(dsn)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer db.Close()

			return action(cmd.Context(), db)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE:  withDB(m.Up),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE:  withDB(m.Down),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the applied state of every migration",
			Args:  cobra.NoArgs,
			RunE:  withDB(m.Status),
		},
	)

	return root
}

func main() {
	_ = godotenv.Load()

	m, err := newGooseMigrator(migrations.FS)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(m).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
