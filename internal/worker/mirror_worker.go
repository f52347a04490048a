// Package worker mirrors record changes into a spreadsheet. It consumes
// change messages from AMQP, loads the record from the store and appends a
// flattened row through the workbook collaborator.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/amqp"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/export"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/records"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/storage"
)

type MirrorWorker struct {
	store  storage.Store
	writer export.WorkbookWriter
	client *amqp.Client

	fetchTimeout time.Duration
}

func NewMirrorWorker(store storage.Store, writer export.WorkbookWriter, client *amqp.Client) *MirrorWorker {
	return &MirrorWorker{
		store:        store,
		writer:       writer,
		client:       client,
		fetchTimeout: 10 * time.Second,
	}
}

// Run consumes change messages until the context is cancelled.
func (w *MirrorWorker) Run(ctx context.Context) error {
	return w.client.ConsumeRecordChanges(ctx, func(msg *amqp.RecordChangeMessage) error {
		return w.handle(ctx, msg)
	})
}

func (w *MirrorWorker) handle(ctx context.Context, msg *amqp.RecordChangeMessage) error {
	ctx, cancel := context.WithTimeout(ctx, w.fetchTimeout)
	defer cancel()

	switch msg.Action {
	case records.ActionCreated, records.ActionUpdated:
		rec, err := w.store.Get(ctx, msg.RecordID, "")
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted between publish and consume; nothing to mirror.
			slog.WarnContext(ctx, "Record vanished before mirroring",
				"record_id", msg.RecordID, "action", msg.Action)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load record %s: %w", msg.RecordID, err)
		}
		if err := w.writer.AppendRows(ctx, [][]string{export.RecordRow(*rec)}); err != nil {
			return fmt.Errorf("mirror record %s: %w", msg.RecordID, err)
		}
		slog.InfoContext(ctx, "Mirrored record to spreadsheet",
			"record_id", msg.RecordID, "action", msg.Action)
		return nil
	case records.ActionDeleted:
		// The mirror sheet is append-only; deletions are recorded in the
		// log but not replayed into the sheet.
		slog.InfoContext(ctx, "Skipping deleted record in mirror",
			"record_id", msg.RecordID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown record change action",
			"action", msg.Action, "record_id", msg.RecordID)
		return nil
	}
}
