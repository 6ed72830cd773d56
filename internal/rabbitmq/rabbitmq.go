package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cutekitek/rankode-judge/internal/repository/models"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	attemptReqQueue     = "tasks-req"
	attemptRespQueue    = "task-resp"
	validationReqQueue  = "problems-validate-req"
	validationRespQueue = "problems-validate-resp"

	reconnectDelay = 15 * time.Second
)

var ErrClosed = errors.New("handler is closed")

type RabbitMqHandlerConfig struct {
	Login        string
	Password     string
	Host         string
	Port         int
	WorkersCount int
}

// publisher is the part of *amqp.Channel used to send responses.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type job struct {
	queue   string
	message any
}

type RabbitMQHandler struct {
	cfg  RabbitMqHandlerConfig
	proc *Processor

	mu           sync.Mutex
	conn         *amqp.Connection
	consumerChan *amqp.Channel
	producerChan publisher
	closed       bool

	jobs      chan job
	workers   sync.WaitGroup
	listeners sync.WaitGroup
}

func NewRabbitMQHandler(cfg RabbitMqHandlerConfig, proc *Processor) *RabbitMQHandler {
	if cfg.WorkersCount <= 0 {
		cfg.WorkersCount = 1
	}
	return &RabbitMQHandler{
		cfg:  cfg,
		proc: proc,
		jobs: make(chan job),
	}
}

func (r *RabbitMQHandler) Start(ctx context.Context) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	r.startWorkers(ctx)
	return nil
}

func (r *RabbitMQHandler) startWorkers(ctx context.Context) {
	for i := 0; i < r.cfg.WorkersCount; i++ {
		r.workers.Add(1)
		go r.worker(ctx)
	}
}

// Close stops consuming, waits for running jobs and closes the connection.
func (r *RabbitMQHandler) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	consumer := r.consumerChan
	r.mu.Unlock()

	if consumer != nil {
		consumer.Close()
	}
	r.listeners.Wait()
	close(r.jobs)
	r.workers.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != nil {
		r.conn.Close()
	}
}

func (r *RabbitMQHandler) connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	url := fmt.Sprintf("amqp://%s:%s@%s:%d", r.cfg.Login, r.cfg.Password, r.cfg.Host, r.cfg.Port)
	conn, err := amqp.Dial(url)
	if err != nil {
		return errors.Wrap(err, "failed to connect to rabbitmq")
	}
	// registered before any channel is opened so a drop during declare is still reported
	errChan := conn.NotifyClose(make(chan *amqp.Error, 1))
	if err := r.declare(ctx, conn); err != nil {
		conn.Close()
		return err
	}
	r.conn = conn

	go r.reconnect(ctx, errChan)
	return nil
}

func (r *RabbitMQHandler) declare(ctx context.Context, conn *amqp.Connection) error {
	producer, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "failed to start producer")
	}
	for _, q := range []string{attemptRespQueue, validationRespQueue} {
		if _, err := producer.QueueDeclare(q, false, false, false, false, nil); err != nil {
			return errors.Wrapf(err, "failed to declare %s", q)
		}
	}

	consumer, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "failed to start consumer")
	}
	for _, q := range []string{attemptReqQueue, validationReqQueue} {
		queue, err := consumer.QueueDeclare(q, false, false, false, false, nil)
		if err != nil {
			return errors.Wrapf(err, "failed to declare %s", q)
		}
		del, err := consumer.Consume(queue.Name, "", true, false, false, false, nil)
		if err != nil {
			return errors.Wrapf(err, "failed to consume %s", q)
		}
		r.listeners.Add(1)
		go r.listener(ctx, q, del)
	}

	r.consumerChan = consumer
	r.producerChan = producer
	return nil
}

func (r *RabbitMQHandler) reconnect(ctx context.Context, errChan <-chan *amqp.Error) {
	amqpErr, ok := <-errChan
	if !ok {
		return
	}
	slog.Error("rabbitmq connection lost", "error", amqpErr)

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
		err := r.connect(ctx)
		if err == nil {
			slog.Info("rabbitmq connection restored")
			return
		}
		if errors.Is(err, ErrClosed) {
			return
		}
		slog.Error("failed to reconnect to rabbitmq", "error", err)
	}
}

func (r *RabbitMQHandler) listener(ctx context.Context, queue string, deliveries <-chan amqp.Delivery) {
	defer r.listeners.Done()

	for data := range deliveries {
		var (
			message any
			err     error
		)
		switch queue {
		case attemptReqQueue:
			message, err = r.proc.DecodeAttempt(data.Body)
		case validationReqQueue:
			message, err = r.proc.DecodeValidation(ctx, data.Body)
		}
		if err != nil {
			slog.Error("invalid task message", "queue", queue, "message", string(data.Body), "error", err)
			continue
		}
		r.jobs <- job{queue: queue, message: message}
	}
}

func (r *RabbitMQHandler) worker(ctx context.Context) {
	defer r.workers.Done()

	for j := range r.jobs {
		switch m := j.message.(type) {
		case *models.AttemptRequest:
			r.send(ctx, attemptRespQueue, r.proc.Attempt(ctx, m))
		case *models.ValidationRequest:
			r.send(ctx, validationRespQueue, r.proc.Validate(ctx, m))
		}
	}
}

func (r *RabbitMQHandler) send(ctx context.Context, queue string, data any) {
	r.mu.Lock()
	producer := r.producerChan
	r.mu.Unlock()
	if producer == nil {
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		return
	}
	err = producer.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		slog.Error("failed to send response to queue", "queue", queue, "error", err)
	}
}
