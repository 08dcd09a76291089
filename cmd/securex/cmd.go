package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/securex/securex/config"
	"github.com/securex/securex/internal"
	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/store/postgres"
	"github.com/sirupsen/logrus"

	"github.com/spf13/cobra"
)

var (
	log *logrus.Logger

	cfgFile       string
	showVersion   bool
	dumpConfig    bool
	generateToken bool
	fixturePath   string
)

var cmd = &cobra.Command{
	Use:   "securex",
	Short: "securex detects and anonymizes personal information in FIR records and documents",
	Run:   func(cmd *cobra.Command, args []string) { run() },
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test utilities",
}

var createFixturesCmd = &cobra.Command{
	Use:   "create-fixtures",
	Short: "Create fixtures for testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error configuring securex: %w", err)
		}
		fixtureCount, _ := cmd.Flags().GetInt("count")
		outputDir, _ := cmd.Flags().GetString("outputDir")
		if err := postgres.GenerateFixtureData(fixtureCount, cfg.Crypto.Key, outputDir); err != nil {
			return err
		}
		fmt.Println("Fixtures created successfully.")
		return nil
	},
}

var loadFixturesCmd = &cobra.Command{
	Use:   "load-fixtures",
	Short: "Load fixtures for testing",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Error configuring securex: %s", err)
		}
		if cfg.Store.Postgres.DSN == "" {
			log.Fatal(config.ErrPostgresDSNNotSet)
		}
		db, err := postgres.NewPostgresConn(cfg.Store.Postgres.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v\n", err)
		}
		defer db.Close()

		err = postgres.LoadFixtures(context.Background(), db, fixturePath)
		if err != nil {
			log.Fatalf("Failed to load fixtures: %v\n", err)
		}
		fmt.Println("Fixtures loaded successfully.")
	},
}

var dumpJsonSchemaCmd = &cobra.Command{
	Use:     "json-schema",
	Short:   "Generates JSON Schema for the securex configuration file",
	Example: "securex json-schema > securex_config_schema.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := config.JSONSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(schema))
		return nil
	},
}

func init() {
	testCmd.AddCommand(createFixturesCmd)
	testCmd.AddCommand(loadFixturesCmd)
	cmd.AddCommand(testCmd)
	cmd.AddCommand(dumpJsonSchemaCmd)
	cmd.AddCommand(anonymizeCmd)
	cmd.AddCommand(annotateCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "print version number")
	cmd.PersistentFlags().BoolVarP(&dumpConfig, "dump-config", "d", false, "dump config")
	cmd.PersistentFlags().
		BoolVarP(&generateToken, "generate-token", "g", false, "generate a new JWT token")

	createFixturesCmd.Flags().Int("count", 100, "Number of fixtures to generate per model")
	createFixturesCmd.Flags().String("outputDir", "./test_data", "Path to output fixtures")
	loadFixturesCmd.Flags().
		StringVarP(&fixturePath, "fixturePath", "f", "./test_data", "Path containing fixtures to load")

	anonymizeCmd.Flags().
		StringVarP(&operatorName, "operator", "o", string(models.OperatorReplace), "operator applied to every entity")
	anonymizeCmd.Flags().StringVar(&maskingChar, "masking-char", "*", "masking character for the mask operator")
	anonymizeCmd.Flags().IntVar(&charsToMask, "chars-to-mask", 4, "number of characters masked by the mask operator")
	anonymizeCmd.Flags().BoolVar(&maskFromEnd, "from-end", false, "mask from the end of each entity")
}

// Execute executes the root cobra command.
func Execute() {
	log = internal.GetLogger()
	log.SetLevel(logrus.InfoLevel)

	err := cmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}
