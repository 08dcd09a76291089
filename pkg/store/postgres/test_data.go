package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dbfixture"
	"gopkg.in/yaml.v3"

	"github.com/securex/securex/pkg/fieldcipher"
	"github.com/securex/securex/pkg/models"
)

const (
	recordFixturesFile   = "record_fixtures.yaml"
	documentFixturesFile = "document_fixtures.yaml"
)

type Row interface {
	RecordSchema | DocumentSchema
}

type FixtureModel[T Row] struct {
	Model string `yaml:"model"`
	Rows  []T    `yaml:"rows"`
}

type Fixtures[T Row] []FixtureModel[T]

func generateTimeLastNDays(nDays int) time.Time {
	now := time.Now()
	start := now.Add(time.Duration(-nDays) * 24 * time.Hour)
	return gofakeit.DateRange(start, now)
}

// fakeFieldValue returns a plausible value for an FIR form field.
func fakeFieldValue(def models.FieldDefinition, firDate time.Time) string {
	switch {
	case def.Name == "crime_no":
		return fmt.Sprintf("%04d/%d", gofakeit.Number(1, 9999), firDate.Year())
	case def.Name == "fir_date" || strings.HasSuffix(def.Name, "_date") ||
		strings.HasSuffix(def.Name, "date_of_issue"):
		return firDate.Format("2006-01-02")
	case strings.HasSuffix(def.Name, "_time"):
		return firDate.Format("15:04")
	case strings.HasSuffix(def.Name, "_name"):
		return gofakeit.Name()
	case strings.HasSuffix(def.Name, "address"):
		return gofakeit.Street() + ", " + gofakeit.City()
	case strings.HasSuffix(def.Name, "district") || strings.HasSuffix(def.Name, "village"):
		return gofakeit.City()
	case strings.HasSuffix(def.Name, "_age"):
		return fmt.Sprint(gofakeit.Number(18, 80))
	case strings.HasSuffix(def.Name, "phone_no"):
		return gofakeit.Numerify("9#########")
	case strings.HasSuffix(def.Name, "passport_no"):
		return gofakeit.Regex("[A-Z][0-9]{7}")
	case strings.HasSuffix(def.Name, "occupation"):
		return gofakeit.JobTitle()
	case strings.HasSuffix(def.Name, "_sex"):
		return gofakeit.Gender()
	case strings.HasSuffix(def.Name, "nationality"):
		return "Indian"
	case def.Name == "fir_contents":
		return gofakeit.Paragraph(1, 4, 12, " ")
	default:
		return gofakeit.Word()
	}
}

func generateRecord(key string) (RecordSchema, error) {
	dateCreated := generateTimeLastNDays(30)
	fields := make(map[string]models.FieldValue, len(models.FIRFields))
	var crimeNo string
	for _, def := range models.FIRFields {
		value := fakeFieldValue(def, dateCreated)
		state := models.FieldPlaintext
		if def.Name == "crime_no" {
			crimeNo = value
		}
		if def.Anonymize {
			ciphertext, err := fieldcipher.Encrypt(value, key)
			if err != nil {
				return RecordSchema{}, err
			}
			value = ciphertext
			state = models.FieldCiphertext
		}
		fields[def.Name] = models.FieldValue{
			Name:      def.Name,
			Title:     def.Title,
			Section:   def.Section,
			Value:     value,
			State:     state,
			Anonymize: def.Anonymize,
		}
	}
	return RecordSchema{
		UUID:      uuid.New(),
		CreatedAt: dateCreated,
		UpdatedAt: dateCreated,
		CrimeNo:   crimeNo,
		Fields:    fields,
	}, nil
}

func generateDocument() DocumentSchema {
	dateCreated := generateTimeLastNDays(30)
	name := gofakeit.Name()
	city := gofakeit.City()
	text := fmt.Sprintf(
		"Complainant %s reported that %s was stolen near %s. Contact %s.",
		name,
		gofakeit.Noun(),
		city,
		gofakeit.Numerify("9#########"),
	)

	document := DocumentSchema{
		UUID:      uuid.New(),
		CreatedAt: dateCreated,
		UpdatedAt: dateCreated,
		Name:      strings.ToLower(gofakeit.Word()) + ".txt",
		Text:      text,
		Language:  "en",
		Status:    models.DocumentPending,
	}
	if gofakeit.Bool() {
		start := models.TextLen("Complainant ")
		document.Status = models.DocumentAnalyzed
		document.Spans = models.ResolvedSpanSet{
			{Start: start, End: start + models.TextLen(name), EntityType: "PERSON", Score: 0.85},
		}
	}
	return document
}

// GenerateFixtureData writes fixtureCount records and documents to outputDir
// as dbfixture YAML files. Anonymized record fields are encrypted with key.
func GenerateFixtureData(fixtureCount int, key, outputDir string) error {
	fakerGlobal := gofakeit.NewUnlocked(0)
	gofakeit.SetGlobalFaker(fakerGlobal)

	records := make([]RecordSchema, fixtureCount)
	documents := make([]DocumentSchema, fixtureCount)
	for i := 0; i < fixtureCount; i++ {
		record, err := generateRecord(key)
		if err != nil {
			return fmt.Errorf("failed to generate record: %w", err)
		}
		records[i] = record
		documents[i] = generateDocument()
	}

	recordFixture := Fixtures[RecordSchema]{
		{
			Model: "RecordSchema",
			Rows:  records,
		},
	}

	documentFixture := Fixtures[DocumentSchema]{
		{
			Model: "DocumentSchema",
			Rows:  documents,
		},
	}

	if outputDir == "" {
		outputDir = "./"
	} else if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("unable to create %s: %w", outputDir, err)
		}
	}

	if err := writeFixtureToYAML(recordFixture, outputDir, recordFixturesFile); err != nil {
		return err
	}
	return writeFixtureToYAML(documentFixture, outputDir, documentFixturesFile)
}

func writeFixtureToYAML[T Row](fixtures Fixtures[T], outputDir, filename string) error {
	data, err := yaml.Marshal(&fixtures)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filename, err)
	}

	if err := os.WriteFile(filepath.Join(outputDir, filename), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	log.Infof("fixtures generated successfully in %s", filename)
	return nil
}

// LoadFixtures resets the public schema and loads every YAML fixture file in fixturePath.
func LoadFixtures(
	ctx context.Context,
	db *bun.DB,
	fixturePath string,
) error {
	dropSchemaQuery := `DROP SCHEMA public CASCADE;
CREATE SCHEMA public;
GRANT ALL ON SCHEMA public TO public;`

	_, err := db.ExecContext(ctx, dropSchemaQuery)
	if err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}

	err = CreateSchema(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	db.RegisterModel(
		(*RecordSchema)(nil),
		(*DocumentSchema)(nil),
	)

	fixture := dbfixture.New(db, dbfixture.WithTruncateTables())

	files, err := os.ReadDir(fixturePath)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, file := range files {
		if !file.IsDir() {
			switch filepath.Ext(file.Name()) {
			case ".yaml", ".yml":
				err := fixture.Load(ctx, os.DirFS(fixturePath), file.Name())
				if err != nil {
					return fmt.Errorf("failed to load fixture %s: %w", file.Name(), err)
				}
			}
		}
	}

	return nil
}
