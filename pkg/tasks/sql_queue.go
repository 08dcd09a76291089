package tasks

import (
	"database/sql"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wsql "github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
)

// Queue supplies the publisher and subscribers tasks run on.
type Queue interface {
	NewPublisher(logger watermill.LoggerAdapter) (message.Publisher, error)
	NewSubscriber(logger watermill.LoggerAdapter) (message.Subscriber, error)
	Close() error
}

var _ Queue = &SQLQueue{}

// SQLQueue is a postgres-backed queue. Messages survive restarts.
type SQLQueue struct {
	db *sql.DB
}

// NewSQLQueue opens a dedicated connection for the queue. Note that this should not be a bun.DB
// as bun runs at an isolation level that is incompatible with watermill's SQL subscriber.
func NewSQLQueue(dsn string) (*SQLQueue, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue connection: %w", err)
	}
	return &SQLQueue{db: db}, nil
}

func (q *SQLQueue) NewPublisher(logger watermill.LoggerAdapter) (message.Publisher, error) {
	return NewSQLQueuePublisher(q.db, logger)
}

func (q *SQLQueue) NewSubscriber(logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return NewSQLQueueSubscriber(q.db, logger)
}

func (q *SQLQueue) Close() error {
	return q.db.Close()
}

func NewSQLQueuePublisher(db *sql.DB, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return wsql.NewPublisher(
		db,
		wsql.PublisherConfig{
			SchemaAdapter:        wsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		logger,
	)
}

func NewSQLQueueSubscriber(db *sql.DB, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return wsql.NewSubscriber(
		db,
		wsql.SubscriberConfig{
			SchemaAdapter:    wsql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   &wsql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
		},
		logger,
	)
}
