package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing seed CSV files",
		Value:   "./data/seeds",
		EnvVars: []string{"SEED_DATA_DIR"},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Create the schema and load configuration and fact data",
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Create the database schema",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runSchema,
			},
			{
				Name:   "config",
				Usage:  "Load store, policy and minimum configuration from CSV",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: runConfigSeed,
			},
			{
				Name:   "facts",
				Usage:  "Load stock positions, warehouse stock and sales history from CSV",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: runFactsSeed,
			},
			{
				Name:  "all",
				Usage: "Create the schema and load everything",
				Flags: []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: func(c *cli.Context) error {
					if err := runSchema(c); err != nil {
						return err
					}
					if err := runConfigSeed(c); err != nil {
						return err
					}
					return runFactsSeed(c)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
