// Package bot routes Telegram updates to the conversation state machine,
// the request pipeline and the admin commands. It is the single consumer
// of gateway events; per-request failures never escape an update.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alekseev/mediabot/internal/gateway"
	"github.com/alekseev/mediabot/internal/ledger"
	"github.com/alekseev/mediabot/internal/monitor"
	"github.com/alekseev/mediabot/internal/pipeline"
	"github.com/alekseev/mediabot/internal/session"
)

// User-visible texts for menus and admin commands.
const (
	textGreeting     = "Hi! 👋\nPick a section:"
	textMainMenu     = "Main menu:"
	textProjects     = "🛠 Projects:\n\n1. Video → round note\n2. AI image upscale"
	textSendVideo    = "🎬 Send a video (up to %d MB, up to %d s)"
	textSendImage    = "🖼 Send the image AS A FILE 📎\nTelegram compresses photos."
	textAwaitImage   = "Waiting for an image sent as a file 📎"
	textAccessDenied = "⛔ Access denied."
	textStatusUsage  = "Usage: /set_status <text>"
	textAbout        = "I'm a hobby bot that turns videos into round notes and upscales images with a neural network."
	textContacts     = "📞 Write to my author directly, the handle is in the bot description."
	textFAQ          = "📚 The video tool crops your clip to a centered square, trims it to the duration limit and sends it back as a round note."
)

// Ledger is the slice of the usage store the handlers read and write.
type Ledger interface {
	RecordAction(ctx context.Context, userID int64, action ledger.Action) error
	GetCounts(ctx context.Context) (ledger.Counts, error)
	GetStatus(ctx context.Context) (string, error)
	SetStatus(ctx context.Context, status string) error
}

// Handlers contains the update handlers for the bot.
type Handlers struct {
	gw       gateway.Gateway
	proc     *pipeline.Processor
	sessions *session.Store
	store    Ledger
	mon      *monitor.Monitor
	logger   *slog.Logger

	adminID             int64
	maxVideoSizeMB      int
	maxVideoDurationSec int
}

// NewHandlers creates a Handlers instance.
func NewHandlers(
	gw gateway.Gateway,
	proc *pipeline.Processor,
	sessions *session.Store,
	store Ledger,
	mon *monitor.Monitor,
	logger *slog.Logger,
	adminID int64,
	maxVideoSizeMB, maxVideoDurationSec int,
) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		gw:                  gw,
		proc:                proc,
		sessions:            sessions,
		store:               store,
		mon:                 mon,
		logger:              logger,
		adminID:             adminID,
		maxVideoSizeMB:      maxVideoSizeMB,
		maxVideoDurationSec: maxVideoDurationSec,
	}
}

// HandleUpdate dispatches a single Telegram update. Panics are recovered
// here so one bad update never takes down the loop; the operator gets the
// detail, the user at worst a generic notice.
func (h *Handlers) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic in update handler",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
			)
			h.proc.NotifyOperator(fmt.Sprintf("Unhandled error:\n%v", r))
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		h.logger.Info("incoming callback",
			slog.Int64("user_id", update.CallbackQuery.From.ID),
			slog.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		h.logger.Info("incoming message",
			slog.Int64("user_id", update.Message.From.ID),
		)
		h.handleMessage(ctx, update.Message)
	}
}

// handleMessage routes commands and stateful media submissions.
func (h *Handlers) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}

	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch h.sessions.Get(userID) {
	case session.StateAwaitingVideo:
		if msg.Video == nil {
			return
		}
		sub := pipeline.Submission{
			UserID:    userID,
			ChatID:    chatID,
			FileID:    msg.Video.FileID,
			MimeType:  msg.Video.MimeType,
			SizeBytes: int64(msg.Video.FileSize),
		}
		if err := h.proc.ProcessVideo(ctx, sub); err != nil {
			h.logger.Warn("video submission not processed",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
		}

	case session.StateAwaitingImage:
		if msg.Document == nil {
			// Photos and anything else are not accepted here: photos are
			// recompressed by Telegram, which defeats the upscale.
			_, _ = h.gw.SendText(chatID, textAwaitImage)
			return
		}
		sub := pipeline.Submission{
			UserID:    userID,
			ChatID:    chatID,
			FileID:    msg.Document.FileID,
			MimeType:  msg.Document.MimeType,
			SizeBytes: int64(msg.Document.FileSize),
		}
		if sub.SizeBytes == 0 {
			// Some clients omit the size; ask Telegram for the metadata.
			if meta, err := h.gw.FileInfo(ctx, sub.FileID); err == nil {
				sub.SizeBytes = meta.SizeBytes
			}
		}
		if err := h.proc.ProcessImage(ctx, sub); err != nil {
			h.logger.Warn("image submission not processed",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
		}

	default:
		// Idle users with no command: nothing to do.
		h.logger.Debug("ignoring message in idle state",
			slog.Int64("user_id", userID),
		)
	}
}

// handleCommand routes the slash commands.
func (h *Handlers) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "set_status":
		h.handleSetStatus(ctx, msg)
	case "stats":
		h.handleStats(ctx, msg)
	}
}

// handleStart greets the user, records the action and tells the operator
// a new user showed up.
func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	if err := h.store.RecordAction(ctx, userID, ledger.ActionStart); err != nil {
		h.logger.Error("failed to record start",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	h.mon.Track(userID, string(ledger.ActionStart))

	h.proc.NotifyOperator(fmt.Sprintf("🆕 New user: %d", userID))

	if _, err := h.gw.SendMenu(msg.Chat.ID, textGreeting, gateway.MainMenu()); err != nil {
		h.logger.Error("failed to send greeting",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

// handleSetStatus updates the status string. Admin only.
func (h *Handlers) handleSetStatus(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != h.adminID {
		_, _ = h.gw.SendText(msg.Chat.ID, textAccessDenied)
		return
	}

	status := strings.TrimSpace(msg.CommandArguments())
	if status == "" {
		_, _ = h.gw.SendText(msg.Chat.ID, textStatusUsage)
		return
	}

	if err := h.store.SetStatus(ctx, status); err != nil {
		h.logger.Error("failed to set status",
			slog.String("error", err.Error()),
		)
		_, _ = h.gw.SendText(msg.Chat.ID, "❌ Could not update the status.")
		return
	}

	if err := h.store.RecordAction(ctx, msg.From.ID, ledger.ActionSetStatus); err != nil {
		h.logger.Error("failed to record set_status",
			slog.String("error", err.Error()),
		)
	}

	_, _ = h.gw.SendText(msg.Chat.ID, fmt.Sprintf("✅ Status updated:\n%s", status))
}

// handleStats reports usage counts and the monitor snapshot. Admin only.
func (h *Handlers) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != h.adminID {
		_, _ = h.gw.SendText(msg.Chat.ID, textAccessDenied)
		return
	}

	counts, err := h.store.GetCounts(ctx)
	if err != nil {
		h.logger.Error("failed to read counts",
			slog.String("error", err.Error()),
		)
		_, _ = h.gw.SendText(msg.Chat.ID, "❌ Could not read the stats.")
		return
	}

	_, _ = h.gw.SendText(msg.Chat.ID, fmt.Sprintf(
		"📊 Stats:\nUsers: %d\nVideos: %d\nUpscales: %d\n\n%s",
		counts.DistinctUsers,
		counts.Conversions,
		counts.Upscales,
		h.mon.Snapshot(),
	))
}

// handleCallback routes inline keyboard presses.
func (h *Handlers) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	_ = h.gw.AnswerCallback(cb.ID)

	if cb.Message == nil {
		return
	}

	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	switch cb.Data {
	case gateway.CallbackProjects:
		_ = h.gw.EditMenu(chatID, messageID, textProjects, gateway.ProjectsMenu())

	case gateway.CallbackAbout:
		_ = h.gw.EditMenu(chatID, messageID, textAbout, gateway.BackButton())

	case gateway.CallbackContacts:
		_ = h.gw.EditMenu(chatID, messageID, textContacts, gateway.BackButton())

	case gateway.CallbackFAQ:
		_ = h.gw.EditMenu(chatID, messageID, textFAQ, gateway.BackButton())

	case gateway.CallbackStatus:
		status, err := h.store.GetStatus(ctx)
		if err != nil {
			h.logger.Error("failed to read status",
				slog.String("error", err.Error()),
			)
			status = ledger.DefaultStatus
		}
		_ = h.gw.EditMenu(chatID, messageID, fmt.Sprintf("📍 Current status:\n%s", status), gateway.BackButton())

	case gateway.CallbackRunVideo:
		h.sessions.Set(userID, session.StateAwaitingVideo)
		text := fmt.Sprintf(textSendVideo, h.maxVideoSizeMB, h.maxVideoDurationSec)
		_ = h.gw.EditMenu(chatID, messageID, text, gateway.ConverterMenu())

	case gateway.CallbackRunUpscale:
		h.sessions.Set(userID, session.StateAwaitingImage)
		_ = h.gw.EditMenu(chatID, messageID, textSendImage, gateway.BackButton())

	case gateway.CallbackBack:
		h.sessions.Clear(userID)
		_ = h.gw.EditMenu(chatID, messageID, textMainMenu, gateway.MainMenu())

	default:
		h.logger.Debug("unknown callback",
			slog.String("data", cb.Data),
		)
	}
}
