package recognizers

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/securex/securex/pkg/models"
)

// Composite runs several recognizers concurrently and concatenates their
// spans. Overlaps between members are left to the resolver. If any member
// fails the whole call fails.
type Composite struct {
	recognizers []models.EntityRecognizer
}

var _ models.EntityRecognizer = &Composite{}

func NewComposite(recognizers ...models.EntityRecognizer) *Composite {
	return &Composite{recognizers: recognizers}
}

func (c *Composite) Name() string {
	names := make([]string, len(c.recognizers))
	for i, r := range c.recognizers {
		names[i] = r.Name()
	}
	return "composite(" + strings.Join(names, ",") + ")"
}

func (c *Composite) Analyze(
	ctx context.Context,
	request *models.AnalyzeRequest,
) ([]models.Span, error) {
	results := make([][]models.Span, len(c.recognizers))

	g, ctx := errgroup.WithContext(ctx)
	for i, r := range c.recognizers {
		g.Go(func() error {
			spans, err := r.Analyze(ctx, request)
			if err != nil {
				return err
			}
			results[i] = spans
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	spans := []models.Span{}
	for _, r := range results {
		spans = append(spans, r...)
	}

	return spans, nil
}
