package gateway

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Callback data values for inline keyboard buttons.
const (
	CallbackProjects   = "projects"
	CallbackAbout      = "about"
	CallbackStatus     = "status"
	CallbackContacts   = "contacts"
	CallbackRunVideo   = "run_v2r"
	CallbackRunUpscale = "run_ai_upscale"
	CallbackFAQ        = "faq_v2r"
	CallbackBack       = "back"
)

// MainMenu returns the top-level menu keyboard.
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤖 My projects", CallbackProjects),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Who am I?", CallbackAbout),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📍 Status", CallbackStatus),
			tgbotapi.NewInlineKeyboardButtonData("📞 Contacts", CallbackContacts),
		),
	)
}

// ProjectsMenu returns the tool selection keyboard, one button per row.
func ProjectsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 Video → round note", CallbackRunVideo),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🖼️ AI Upscale", CallbackRunUpscale),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Video tool FAQ", CallbackFAQ),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to menu", CallbackBack),
		),
	)
}

// BackButton returns a single back button keyboard.
func BackButton() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", CallbackBack),
		),
	)
}

// ConverterMenu returns the cancel keyboard shown while a tool is armed.
func ConverterMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel / back", CallbackBack),
		),
	)
}
