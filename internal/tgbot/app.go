package tgbot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pathscheduler-bot/internal/config"
)

// API is the slice of the Telegram client the app needs. MakeRequest covers
// the calls the client library has no config type for.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

type App struct {
	cfg config.Config
	api API
}

func New(cfg config.Config) (*App, error) {
	b, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	b.Debug = false
	return NewWithAPI(cfg, b), nil
}

func NewWithAPI(cfg config.Config, api API) *App {
	return &App{cfg: cfg, api: api}
}

// HandleUpdate dispatches one webhook update. Unknown commands and callback
// ids are not errors: the update is simply dropped.
func (a *App) HandleUpdate(upd tgbotapi.Update) error {
	if upd.Message != nil {
		return a.handleMessage(upd.Message)
	}
	if upd.CallbackQuery != nil {
		return a.handleCallback(upd.CallbackQuery)
	}
	return nil
}

func (a *App) handleMessage(m *tgbotapi.Message) error {
	if m.Chat == nil {
		return nil
	}
	var firstName string
	if m.From != nil {
		firstName = m.From.FirstName
	}

	switch strings.TrimSpace(m.Text) {
	case "/start":
		return a.sendWelcome(m.Chat.ID, firstName)
	case "/help":
		return a.sendHelp(m.Chat.ID)
	case "/apps":
		return a.sendApps(m.Chat.ID)
	case "/channels":
		return a.sendChannels(m.Chat.ID)
	}
	return nil
}

func (a *App) handleCallback(q *tgbotapi.CallbackQuery) error {
	// Ack first: clears the client's loading indicator no matter which
	// branch runs below.
	cb := tgbotapi.NewCallback(q.ID, "")
	if _, err := a.api.Request(cb); err != nil {
		return err
	}

	if q.Message == nil || q.Message.Chat == nil {
		return nil
	}
	chatID := q.Message.Chat.ID

	switch q.Data {
	case "start":
		var firstName string
		if q.From != nil {
			firstName = q.From.FirstName
		}
		return a.sendWelcome(chatID, firstName)
	case "help":
		return a.sendHelp(chatID)
	case "apps":
		return a.sendApps(chatID)
	case "noop":
		// Decorative buttons: ack only.
	}
	return nil
}

// SetupMenuButton points the chat menu button at the web app. The raw
// platform acknowledgement is handed back to the caller.
func (a *App) SetupMenuButton() (*tgbotapi.APIResponse, error) {
	params := make(tgbotapi.Params)
	err := params.AddInterface("menu_button", menuButton{
		Type:   "web_app",
		Text:   "Open App",
		WebApp: webAppInfo{URL: a.cfg.WebAppURL},
	})
	if err != nil {
		return nil, err
	}
	return a.api.MakeRequest("setChatMenuButton", params)
}

func (a *App) send(chatID int64, text string, keyboard interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	_, err := a.api.Send(msg)
	return err
}
