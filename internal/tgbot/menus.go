package tgbot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	channelURL    = "https://t.me/neetpgpathscheduler"
	ecosystemURL  = "https://www.pathexor.in/pathscheduler/links/"
	flashcardsURL = "https://telegram.pathexor.in/pathscheduler/flashcards/"
	quizURL       = "https://telegram.pathexor.in/pathscheduler/quiz/"
)

func (a *App) sendWelcome(chatID int64, firstName string) error {
	text := fmt.Sprintf(`🩺 *Hey Dr. %s!*

Welcome to *PG PathScheduler*

_The ultimate companion for medical professionals._
High-yield QBank • AI explanations • Smart flashcards

⬇️ *Get Started*`, firstName)

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📣 Join Channel", channelURL),
			tgbotapi.NewInlineKeyboardButtonURL("🌐 Ecosystem", ecosystemURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚀 Mini Apps", "apps"),
			tgbotapi.NewInlineKeyboardButtonData("💡 Help", "help"),
		),
	)
	return a.send(chatID, text, kb)
}

func (a *App) sendHelp(chatID int64) error {
	text := `📖 *Available Commands*

/start — Welcome & main menu
/apps — Browse mini apps
/channels — Join our ecosystem
/help — Show this message

━━━━━━━━━━━━━━━━━━━━━━

Need assistance? Contact us via our official channel.`

	return a.send(chatID, text, nil)
}

func (a *App) sendApps(chatID int64) error {
	text := `🚀 *PG PathScheduler Mini Apps*

Enhance your preparation with our tools:`

	// web_app buttons need the raw markup, see webapp.go.
	kb := inlineKeyboard{InlineKeyboard: [][]inlineButton{
		{{Text: "📚 Flashcards", WebApp: &webAppInfo{URL: flashcardsURL}}},
		{{Text: "🧠 Weekly Quiz", WebApp: &webAppInfo{URL: quizURL}}},
		{{Text: "🔙 Back", CallbackData: "start"}},
	}}
	return a.send(chatID, text, kb)
}

func (a *App) sendChannels(chatID int64) error {
	text := `📢 *Join Our Ecosystem*

Stay updated with the latest content, tips, and discussions:`

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📣 PG PathScheduler Channel", channelURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Menu", "start"),
		),
	)
	return a.send(chatID, text, kb)
}
