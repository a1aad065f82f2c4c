// Package pipeline orchestrates one media submission from validated event
// to delivered result: validate, acquire working files, download,
// transform on the worker pool, deliver, record, and always clean up.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alekseev/mediabot/internal/gateway"
	"github.com/alekseev/mediabot/internal/ledger"
	"github.com/alekseev/mediabot/internal/media"
	"github.com/alekseev/mediabot/internal/monitor"
	"github.com/alekseev/mediabot/internal/session"
	"github.com/alekseev/mediabot/internal/tempfile"
	"github.com/alekseev/mediabot/internal/upscale"
	"github.com/alekseev/mediabot/internal/workers"
)

// User-visible texts. Transformation failures never expose internal error
// detail to the end user.
const (
	textVideoTooBig     = "❌ The video is too large."
	textImageTooBig     = "❌ The image is too large."
	textNotAnImage      = "❌ That's not an image."
	textBusy            = "⏳ Your previous submission is still being processed."
	textProcessingVideo = "⏳ Processing the video..."
	textProcessingImage = "⏳ Enhancing the image..."
	textProcessFailed   = "❌ Processing failed, please try another file."
)

// Submission is the transient description of one inbound media event.
// It is consumed immediately and never stored.
type Submission struct {
	UserID    int64
	ChatID    int64
	FileID    string
	MimeType  string
	SizeBytes int64
}

// Recorder is the slice of the usage ledger the pipeline writes to.
type Recorder interface {
	RecordAction(ctx context.Context, userID int64, action ledger.Action) error
}

// Processor runs submissions end to end. It owns the working file
// lifecycle and guarantees that files and conversation state are cleared
// on every exit path.
type Processor struct {
	gw        gateway.Gateway
	converter media.Converter
	upscaler  upscale.Upscaler
	recorder  Recorder
	sessions  *session.Store
	files     *tempfile.Manager
	pool      *workers.Pool
	mon       *monitor.Monitor
	logger    *slog.Logger

	adminID       int64
	maxVideoBytes int64
	maxImageBytes int64
}

// Limits carries the submission ceilings applied before any download.
type Limits struct {
	MaxVideoBytes int64
	MaxImageBytes int64
}

// NewProcessor creates a Processor with all collaborators injected.
func NewProcessor(
	gw gateway.Gateway,
	converter media.Converter,
	upscaler upscale.Upscaler,
	recorder Recorder,
	sessions *session.Store,
	files *tempfile.Manager,
	pool *workers.Pool,
	mon *monitor.Monitor,
	logger *slog.Logger,
	adminID int64,
	limits Limits,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		gw:            gw,
		converter:     converter,
		upscaler:      upscaler,
		recorder:      recorder,
		sessions:      sessions,
		files:         files,
		pool:          pool,
		mon:           mon,
		logger:        logger,
		adminID:       adminID,
		maxVideoBytes: limits.MaxVideoBytes,
		maxImageBytes: limits.MaxImageBytes,
	}
}

// ProcessVideo handles one video submission: download, square-crop
// conversion to a 400px round note, delivery, usage record. State and
// working files are cleared no matter how it exits.
func (p *Processor) ProcessVideo(ctx context.Context, sub Submission) error {
	if sub.SizeBytes > p.maxVideoBytes {
		// Rejected before any download; state still returns to Idle.
		p.sessions.Clear(sub.UserID)
		_, _ = p.gw.SendText(sub.ChatID, textVideoTooBig)
		return &ValidationError{UserMessage: textVideoTooBig}
	}

	if err := p.sessions.BeginWork(sub.UserID); err != nil {
		_, _ = p.gw.SendText(sub.ChatID, textBusy)
		return fmt.Errorf("video submission: %w", err)
	}
	defer p.sessions.EndWork(sub.UserID)
	defer p.sessions.Clear(sub.UserID)

	statusID, _ := p.gw.SendText(sub.ChatID, textProcessingVideo)

	pair, release := p.files.Acquire(sub.UserID, ".mp4", ".mp4")
	defer release()

	err := p.run(ctx, sub, pair, statusID, func(ctx context.Context) error {
		info, err := p.converter.Probe(ctx, pair.Input)
		if err != nil {
			return err
		}
		p.logger.Debug("video probed",
			slog.Int64("user_id", sub.UserID),
			slog.Float64("duration", info.Duration),
			slog.Int("width", info.Width),
			slog.Int("height", info.Height),
		)
		return p.converter.ConvertToNote(ctx, pair.Input, pair.Output)
	})
	if err != nil {
		return err
	}

	if err := p.gw.SendVideoNote(sub.ChatID, pair.Output); err != nil {
		p.fail(sub, statusID, fmt.Errorf("deliver video note: %w", err))
		return fmt.Errorf("deliver video note: %w", err)
	}

	p.finish(ctx, sub, statusID, ledger.ActionConversion)
	return nil
}

// ProcessImage handles one image submission: download, fixed-factor
// upscale, delivery as a document, usage record. State and working files
// are cleared no matter how it exits.
func (p *Processor) ProcessImage(ctx context.Context, sub Submission) error {
	if !strings.HasPrefix(sub.MimeType, "image/") {
		// Not recognized as an image: the user stays in the awaiting
		// state and gets a pointed reminder.
		_, _ = p.gw.SendText(sub.ChatID, textNotAnImage)
		return &ValidationError{UserMessage: textNotAnImage}
	}

	if sub.SizeBytes > p.maxImageBytes {
		p.sessions.Clear(sub.UserID)
		_, _ = p.gw.SendText(sub.ChatID, textImageTooBig)
		return &ValidationError{UserMessage: textImageTooBig}
	}

	if err := p.sessions.BeginWork(sub.UserID); err != nil {
		_, _ = p.gw.SendText(sub.ChatID, textBusy)
		return fmt.Errorf("image submission: %w", err)
	}
	defer p.sessions.EndWork(sub.UserID)
	defer p.sessions.Clear(sub.UserID)

	statusID, _ := p.gw.SendText(sub.ChatID, textProcessingImage)

	pair, release := p.files.Acquire(sub.UserID, ".png", ".png")
	defer release()

	err := p.run(ctx, sub, pair, statusID, func(ctx context.Context) error {
		return p.upscaler.Enhance(ctx, pair.Input, pair.Output)
	})
	if err != nil {
		return err
	}

	caption := fmt.Sprintf("✅ Quality enhanced ×%d", p.upscaler.Scale())
	if err := p.gw.SendDocument(sub.ChatID, pair.Output, caption); err != nil {
		p.fail(sub, statusID, fmt.Errorf("deliver document: %w", err))
		return fmt.Errorf("deliver document: %w", err)
	}

	p.finish(ctx, sub, statusID, ledger.ActionUpscale)
	return nil
}

// run downloads the source into the pair's input path and executes the
// transformation on the worker pool. Failures are reported to the user
// generically and to the operator in full.
func (p *Processor) run(ctx context.Context, sub Submission, pair tempfile.Pair, statusID int, transform func(ctx context.Context) error) error {
	if err := p.gw.Download(ctx, sub.FileID, pair.Input); err != nil {
		dlErr := &DownloadError{Err: err}
		p.fail(sub, statusID, dlErr)
		return dlErr
	}

	if err := p.pool.Do(ctx, transform); err != nil {
		trErr := &TransformError{Err: err}
		p.fail(sub, statusID, trErr)
		return trErr
	}

	return nil
}

// finish deletes the progress message and appends the usage record.
// A ledger write failure is logged but does not undo the delivery.
func (p *Processor) finish(ctx context.Context, sub Submission, statusID int, action ledger.Action) {
	if statusID != 0 {
		_ = p.gw.DeleteMessage(sub.ChatID, statusID)
	}

	if err := p.recorder.RecordAction(ctx, sub.UserID, action); err != nil {
		p.logger.Error("failed to record action",
			slog.Int64("user_id", sub.UserID),
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
	}

	if p.mon != nil {
		p.mon.Track(sub.UserID, string(action))
	}

	p.logger.Info("submission processed",
		slog.Int64("user_id", sub.UserID),
		slog.String("action", string(action)),
	)
}

// fail shows the generic failure text to the user and forwards the full
// error to the operator channel.
func (p *Processor) fail(sub Submission, statusID int, cause error) {
	if statusID != 0 {
		_ = p.gw.EditText(sub.ChatID, statusID, textProcessFailed)
	} else {
		_, _ = p.gw.SendText(sub.ChatID, textProcessFailed)
	}

	p.logger.Error("submission failed",
		slog.Int64("user_id", sub.UserID),
		slog.String("error", cause.Error()),
	)

	p.NotifyOperator(fmt.Sprintf("Processing error for user %d:\n%v", sub.UserID, cause))
}

// NotifyOperator sends text to the admin chat, best-effort.
func (p *Processor) NotifyOperator(text string) {
	if p.adminID == 0 {
		return
	}
	if _, err := p.gw.SendText(p.adminID, text); err != nil {
		p.logger.Warn("operator notification failed",
			slog.String("error", err.Error()),
		)
	}
}

// IsValidation reports whether err is a pre-download rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
