package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	wla "github.com/ma-hartma/watermill-logrus-adapter"
	wotel "github.com/voi-oss/watermill-opentelemetry/pkg/opentelemetry"

	"github.com/securex/securex/pkg/models"
)

const TaskCountThrottle = 50 // messages per second
const MaxQueueRetries = 5
const TaskTimeout = 60 // seconds

var _ models.TaskRouter = &TaskRouter{}

// TaskRouter is a wrapper around watermill's Router that adds some
// functionality for managing tasks and handlers.
type TaskRouter struct {
	*message.Router
	appState *models.AppState
	queue    Queue
	logger   watermill.LoggerAdapter
}

// NewTaskRouter creates a new TaskRouter whose handlers subscribe to queue.
func NewTaskRouter(appState *models.AppState, queue Queue) (*TaskRouter, error) {
	var wlog = wla.NewLogrusLogger(log)

	// Create a new router
	cfg := message.RouterConfig{}
	router, err := message.NewRouter(cfg, wlog)
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(
		// CorrelationID will copy the correlation id from the incoming message's metadata to the produced messages
		middleware.CorrelationID,

		wotel.Trace(),

		// Throttle limits the number of messages processed per second.
		middleware.NewThrottle(TaskCountThrottle, time.Second).Middleware,

		// Recoverer handles panics from handlers.
		// In this case, it passes them as errors to the Retry middleware.
		middleware.Recoverer,

		// The handler function is retried if it returns an error.
		// After MaxRetries, the message is Nacked and it's up to the PubSub to resend it.
		middleware.Retry{
			MaxRetries:      MaxQueueRetries,
			InitialInterval: 1 * time.Second,
			Multiplier:      0.5,
			Logger:          wlog,
		}.Middleware,
	)

	return &TaskRouter{
		Router:   router,
		appState: appState,
		queue:    queue,
		logger:   wlog,
	}, nil
}

// AddTask adds a task handler to the router.
func (tr *TaskRouter) AddTask(_ context.Context, name string, taskType models.TaskTopic, task models.Task) {
	subscriber, err := tr.queue.NewSubscriber(tr.logger)
	if err != nil {
		log.Fatalf("Failed to create subscriber for task %s: %v", taskType, err)
	}
	tr.AddNoPublisherHandler(
		name,
		string(taskType),
		subscriber,
		TaskHandler(task),
	)
}

func (tr *TaskRouter) Close() (err error) {
	routerErr := tr.Router.Close()
	defer func() {
		queueErr := tr.queue.Close()
		if err == nil {
			err = queueErr
		}
	}()
	if routerErr != nil {
		err = routerErr
	}
	return err
}

// TaskHandler returns a message handler function for the given task.
// Handlers are NoPublishHandlerFuncs i.e. do not publish messages.
func TaskHandler(task models.Task) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		err := task.Execute(msg.Context(), msg)
		if err != nil {
			task.HandleError(err)
			return err
		}
		return nil
	}
}

// RunTaskRouter starts the router and publisher on queue and sets them on
// appState. It returns once the router is running.
func RunTaskRouter(ctx context.Context, appState *models.AppState, queue Queue) error {
	router, err := NewTaskRouter(appState, queue)
	if err != nil {
		return fmt.Errorf("failed to create task router: %w", err)
	}

	publisher, err := NewTaskPublisher(queue)
	if err != nil {
		return err
	}
	Initialize(ctx, appState, router)

	appState.TaskRouter = router
	appState.TaskPublisher = publisher

	go func() {
		log.Info("running task router")
		err := router.Run(ctx)
		if err != nil {
			log.Errorf("task router stopped: %v", err)
		}
	}()

	select {
	case <-router.Running():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
