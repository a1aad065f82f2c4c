// Package gateway wraps the Telegram Bot API behind the small surface the
// rest of the bot needs: send and edit messages, send result files, and
// download user attachments.
package gateway

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// FileMeta describes a Telegram-hosted attachment.
type FileMeta struct {
	// SizeBytes is the attachment size as reported by Telegram.
	SizeBytes int64
	// FilePath is the server-side path used to download the file.
	FilePath string
}

// Gateway defines the messaging operations the bot core depends on.
// Telegram implements it; tests substitute a mock.
type Gateway interface {
	// SendText sends a plain text message and returns the message ID.
	SendText(chatID int64, text string) (int, error)

	// SendMenu sends a text message with an inline keyboard.
	SendMenu(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (int, error)

	// EditText replaces the text of an existing message.
	EditText(chatID int64, messageID int, text string) error

	// EditMenu replaces the text and keyboard of an existing message.
	EditMenu(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error

	// DeleteMessage removes a previously sent message.
	DeleteMessage(chatID int64, messageID int) error

	// AnswerCallback acknowledges a callback query so the client stops
	// showing a progress indicator.
	AnswerCallback(callbackID string) error

	// SendVideoNote sends a local video file as a round video note.
	SendVideoNote(chatID int64, path string) error

	// SendDocument sends a local file as a document with a caption.
	SendDocument(chatID int64, path, caption string) error

	// FileInfo resolves attachment metadata by Telegram file ID.
	FileInfo(ctx context.Context, fileID string) (FileMeta, error)

	// Download fetches an attachment into destPath.
	Download(ctx context.Context, fileID, destPath string) error
}
