// Package worker mirrors collection change messages into the change log.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"nobudget/internal/amqp"
	"nobudget/internal/log"
	"nobudget/internal/sheets"
)

// Consumer delivers change messages until ctx ends.
type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, *amqp.ChangeMessage) error) error
}

// MirrorWorker records every consumed change with a sheets.ChangeRecorder.
type MirrorWorker struct {
	recorder sheets.ChangeRecorder
	logger   *log.Logger

	recorded atomic.Int64
	failed   atomic.Int64
}

func NewMirrorWorker(recorder sheets.ChangeRecorder, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &MirrorWorker{recorder: recorder, logger: logger.WithComponent(log.ComponentWorker)}
}

// HandleChange records one message. Messages for unknown kinds are logged
// and dropped; recorder failures are returned so the broker redelivers.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	if !msg.Kind.IsValid() {
		w.logger.WarnContext(ctx, "Skipping change for unknown kind",
			log.FieldKind, string(msg.Kind),
			log.FieldKey, msg.Key)
		return nil
	}
	if msg.Version > amqp.MessageVersion {
		w.logger.WarnContext(ctx, "Change message from a newer publisher",
			"version", msg.Version,
			"supported", amqp.MessageVersion)
	}

	if err := w.recorder.RecordChange(ctx, msg.Change); err != nil {
		w.failed.Add(1)
		return fmt.Errorf("record %s %s: %w", msg.Kind, msg.Op, err)
	}
	w.recorded.Add(1)

	w.logger.InfoContext(ctx, "Change mirrored",
		log.FieldOperation, msg.Op,
		log.FieldKind, string(msg.Kind),
		log.FieldKey, msg.Key)
	return nil
}

// Run consumes until ctx is cancelled. Cancellation is a clean stop.
func (w *MirrorWorker) Run(ctx context.Context, consumer Consumer) error {
	w.logger.InfoContext(ctx, "Mirror worker started", log.FieldOperation, log.OpStartup)
	err := consumer.Consume(ctx, w.HandleChange)
	w.logger.InfoContext(ctx, "Mirror worker stopped",
		log.FieldOperation, log.OpShutdown,
		"recorded", w.recorded.Load(),
		"failed", w.failed.Load())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stats reports how many changes were recorded and how many attempts failed.
func (w *MirrorWorker) Stats() (recorded, failed int64) {
	return w.recorded.Load(), w.failed.Load()
}
