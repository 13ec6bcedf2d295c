package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"devbench/internal/app"
)

// resultEnvelope is the wire shape the external execution service
// puts on the results queue, one message per (run, config) execution.
type resultEnvelope struct {
	RunID           uint   `json:"run_id"`
	ModelConfigID   uint   `json:"session_model_config_id"`
	Status          string `json:"status"`
	Output          string `json:"output"`
	ResponseMessage string `json:"response_message"`
	LatencyMs       *uint  `json:"latency_ms"`
	TokensIn        *uint  `json:"tokens_in"`
	TokensOut       *uint  `json:"tokens_out"`
}

// ResultIngestWorker consumes run results from RabbitMQ and persists
// them through the same service path as the HTTP endpoint, so the
// cross-session consistency check applies to both.
type ResultIngestWorker struct {
	conn      *amqp.Connection
	runs      *app.RunService
	queueName string
	log       *zap.SugaredLogger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewResultIngestWorker(conn *amqp.Connection, runs *app.RunService, queueName string, log *zap.SugaredLogger) *ResultIngestWorker {
	return &ResultIngestWorker{
		conn:      conn,
		runs:      runs,
		queueName: queueName,
		log:       log,
	}
}

func (w *ResultIngestWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(d)
			}
		}
	}()

	return nil
}

func (w *ResultIngestWorker) handle(d amqp.Delivery) {
	var envelope resultEnvelope
	if err := json.Unmarshal(d.Body, &envelope); err != nil {
		w.log.Errorw("decode result envelope failed", "error", err)
		_ = d.Nack(false, false)
		return
	}

	_, err := w.runs.RecordRunResult(app.RecordRunResultInput{
		RunID:           envelope.RunID,
		ModelConfigID:   envelope.ModelConfigID,
		Status:          envelope.Status,
		Output:          envelope.Output,
		ResponseMessage: envelope.ResponseMessage,
		LatencyMs:       envelope.LatencyMs,
		TokensIn:        envelope.TokensIn,
		TokensOut:       envelope.TokensOut,
	})
	if err != nil {
		// Validation failures are not retryable; drop without requeue.
		w.log.Errorw("persist run result failed",
			"run_id", envelope.RunID,
			"config_id", envelope.ModelConfigID,
			"error", err)
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
}

func (w *ResultIngestWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
