package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/securex/securex/config"
	"github.com/securex/securex/pkg/anonymizer"
	"github.com/securex/securex/pkg/fieldcipher"
	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/recognizers"
)

var (
	operatorName string
	maskingChar  string
	charsToMask  int
	maskFromEnd  bool
)

var anonymizeCmd = &cobra.Command{
	Use:     "anonymize [file]",
	Short:   "Anonymizes the entities found in a file or stdin",
	Example: "securex anonymize -o mask --chars-to-mask 6 complaint.txt",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := newCLIService()
		if err != nil {
			return err
		}
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		result, err := service.Anonymize(cliContext(cmd.Context()), &models.AnonymizeRequest{
			Text:      text,
			Operators: models.OperatorSet{models.DefaultOperatorKey: cliOperatorConfig()},
		})
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), result.Text)
		return err
	},
}

var annotateCmd = &cobra.Command{
	Use:   "annotate [file]",
	Short: "Prints the text of a file or stdin with its entities labelled",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := newCLIService()
		if err != nil {
			return err
		}
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		result, err := service.AnnotateText(cliContext(cmd.Context()), text, nil)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), formatSegments(result.Segments))
		return err
	},
}

func newCLIService() (*anonymizer.Service, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error configuring securex: %w", err)
	}
	config.SetLogLevel(cfg)

	recognizer, err := recognizers.New(&cfg.Recognizer)
	if err != nil {
		return nil, err
	}
	cipher, err := fieldcipher.New(cfg.Crypto.Key)
	if err != nil {
		return nil, err
	}

	return anonymizer.NewService(recognizer, cipher, cfg.Recognizer), nil
}

func cliOperatorConfig() models.OperatorConfig {
	if models.OperatorName(operatorName) == models.OperatorMask {
		return models.MaskConfig(maskingChar, charsToMask, maskFromEnd)
	}
	return models.OperatorConfig{Type: models.OperatorName(operatorName)}
}

// readInput reads the file named by the first argument, or stdin without one.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var (
		b   []byte
		err error
	)
	if len(args) == 1 {
		b, err = os.ReadFile(args[0])
	} else {
		b, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(b), nil
}

// formatSegments renders entity segments as [text](LABEL).
func formatSegments(segments []models.AnnotatedSegment) string {
	var sb strings.Builder
	for _, s := range segments {
		if s.IsEntity() {
			fmt.Fprintf(&sb, "[%s](%s)", s.Text, s.Label)
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// cliContext returns ctx, or a background context when cobra was started without one.
func cliContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
