// Package tasks runs asynchronous work, such as analyzing uploaded documents,
// on a watermill router.
package tasks

import (
	"context"

	"github.com/securex/securex/internal"
	"github.com/securex/securex/pkg/models"
)

var log = internal.GetLogger()

type BaseTask struct {
	appState *models.AppState
}

func (b *BaseTask) HandleError(err error) {
	log.Errorf("Task HandleError error: %s", err)
}

// Initialize registers every enabled task with router.
func Initialize(ctx context.Context, appState *models.AppState, router models.TaskRouter) {
	log.Info("Initializing tasks")

	addTask := func(ctx context.Context, name string, taskType models.TaskTopic, enabled bool, newTask func() models.Task) {
		if enabled {
			task := newTask()
			router.AddTask(ctx, name, taskType, task)
			log.Infof("%s task added to task router", name)
		}
	}

	addTask(
		ctx,
		string(models.DocumentAnalyzerTopic),
		models.DocumentAnalyzerTopic,
		appState.Config.Tasks.DocumentAnalyzer.Enabled,
		func() models.Task { return NewDocumentAnalyzerTask(appState) },
	)
}
