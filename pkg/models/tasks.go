package models

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type TaskTopic string

const (
	DocumentAnalyzerTopic TaskTopic = "document_analyzer"
)

type Task interface {
	Execute(ctx context.Context, event *message.Message) error
	HandleError(err error)
}

type TaskRouter interface {
	Run(ctx context.Context) error
	AddTask(ctx context.Context, name string, taskType TaskTopic, task Task)
	IsRunning() bool
	Close() error
}

type TaskPublisher interface {
	Publish(taskType TaskTopic, metadata map[string]string, payload any) error
	Close() error
}

type DocumentTask struct {
	UUID uuid.UUID `json:"uuid"`
}
