package tgbot

// The pinned client library predates Bot API 6.0, so the menu-button call
// and web_app inline buttons are sent as raw JSON payloads. Field names
// follow the Bot API wire format.

type menuButton struct {
	Type   string     `json:"type"`
	Text   string     `json:"text,omitempty"`
	WebApp webAppInfo `json:"web_app"`
}

type webAppInfo struct {
	URL string `json:"url"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type inlineButton struct {
	Text         string      `json:"text"`
	URL          string      `json:"url,omitempty"`
	CallbackData string      `json:"callback_data,omitempty"`
	WebApp       *webAppInfo `json:"web_app,omitempty"`
}
