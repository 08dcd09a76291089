package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	wla "github.com/ma-hartma/watermill-logrus-adapter"
	wotel "github.com/voi-oss/watermill-opentelemetry/pkg/opentelemetry"

	"github.com/securex/securex/pkg/models"
)

var _ models.TaskPublisher = &TaskPublisher{}

type TaskPublisher struct {
	publisher message.Publisher
}

func NewTaskPublisher(queue Queue) (*TaskPublisher, error) {
	var wlog = wla.NewLogrusLogger(log)
	publisher, err := queue.NewPublisher(wlog)
	if err != nil {
		return nil, fmt.Errorf("failed to create task publisher: %w", err)
	}
	return &TaskPublisher{
		publisher: wotel.NewPublisherDecorator(publisher),
	}, nil
}

func (t *TaskPublisher) Publish(taskType models.TaskTopic, metadata map[string]string, payload any) error {
	p, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	log.Debugf("Publishing message: %s", p)
	m := message.NewMessage(watermill.NewUUID(), p)
	for k, v := range metadata {
		m.Metadata.Set(k, v)
	}

	err = t.publisher.Publish(string(taskType), m)
	if err != nil {
		return fmt.Errorf("failed to publish task message: %w", err)
	}

	return nil
}

func (t *TaskPublisher) Close() error {
	err := t.publisher.Close()
	if err != nil {
		return fmt.Errorf("failed to close task publisher: %w", err)
	}

	return nil
}
