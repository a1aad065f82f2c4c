package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram implements Gateway on top of go-telegram-bot-api.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	client *http.Client
}

// NewTelegram wraps an authorized bot client.
func NewTelegram(bot *tgbotapi.BotAPI) *Telegram {
	return &Telegram{
		bot:    bot,
		client: http.DefaultClient,
	}
}

// SendText sends a plain text message and returns the message ID.
func (t *Telegram) SendText(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	sent, err := t.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send text: %w", err)
	}
	return sent.MessageID, nil
}

// SendMenu sends a text message with an inline keyboard.
func (t *Telegram) SendMenu(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	sent, err := t.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send menu: %w", err)
	}
	return sent.MessageID, nil
}

// EditText replaces the text of an existing message.
func (t *Telegram) EditText(chatID int64, messageID int, text string) error {
	if _, err := t.bot.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// EditMenu replaces the text and keyboard of an existing message.
func (t *Telegram) EditMenu(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	if _, err := t.bot.Send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)); err != nil {
		return fmt.Errorf("edit menu: %w", err)
	}
	return nil
}

// DeleteMessage removes a previously sent message.
func (t *Telegram) DeleteMessage(chatID int64, messageID int) error {
	if _, err := t.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a callback query.
func (t *Telegram) AnswerCallback(callbackID string) error {
	if _, err := t.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// SendVideoNote sends a local video file as a round video note.
func (t *Telegram) SendVideoNote(chatID int64, path string) error {
	note := tgbotapi.NewVideoNote(chatID, 0, tgbotapi.FilePath(path))
	if _, err := t.bot.Send(note); err != nil {
		return fmt.Errorf("send video note: %w", err)
	}
	return nil
}

// SendDocument sends a local file as a document with a caption.
func (t *Telegram) SendDocument(chatID int64, path, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	if _, err := t.bot.Send(doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

// FileInfo resolves attachment metadata by Telegram file ID.
func (t *Telegram) FileInfo(_ context.Context, fileID string) (FileMeta, error) {
	file, err := t.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return FileMeta{}, fmt.Errorf("get file info: %w", err)
	}
	return FileMeta{
		SizeBytes: int64(file.FileSize),
		FilePath:  file.FilePath,
	}, nil
}

// Download fetches an attachment into destPath.
func (t *Telegram) Download(ctx context.Context, fileID, destPath string) error {
	url, err := t.bot.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	f, err := os.Create(destPath) // #nosec G304 - destPath comes from the temp file manager
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(destPath)
		return fmt.Errorf("write destination file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(destPath)
		return fmt.Errorf("close destination file: %w", err)
	}

	return nil
}

// Compile-time check that Telegram implements Gateway.
var _ Gateway = (*Telegram)(nil)
