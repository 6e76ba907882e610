package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Queue carries notification events to the out-of-process SMS/dispatch
// worker.
type Queue interface {
	Send(ctx context.Context, body string) error
}

// SQSQueue is the production queue, backed by AWS or LocalStack SQS.
type SQSQueue struct {
	client   *sqs.Client
	queueURL string
}

// NewSQSQueue wraps an SQS client and queue URL.
func NewSQSQueue(client *sqs.Client, queueURL string) *SQSQueue {
	if client == nil {
		panic("notify: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("notify: SQS queueURL cannot be empty")
	}
	return &SQSQueue{client: client, queueURL: queueURL}
}

// Send enqueues one message.
func (q *SQSQueue) Send(ctx context.Context, body string) error {
	_, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("notify: failed to send SQS message: %w", err)
	}
	return nil
}

// MemoryQueue collects messages in memory for tests and local runs.
type MemoryQueue struct {
	mu       sync.Mutex
	messages []string
}

// NewMemoryQueue creates an empty in-memory queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Send appends the message.
func (q *MemoryQueue) Send(ctx context.Context, body string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, body)
	return nil
}

// Messages returns a copy of everything sent so far.
func (q *MemoryQueue) Messages() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.messages...)
}

var (
	_ Queue = (*SQSQueue)(nil)
	_ Queue = (*MemoryQueue)(nil)
)
