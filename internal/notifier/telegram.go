package notifier

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	telegramAPIURL  = "https://api.telegram.org"
	telegramTimeout = 10 * time.Second
)

// ErrMissingTelegramConfig is returned when TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID is unset
var ErrMissingTelegramConfig = errors.New("missing TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID")

// TelegramNotifier sends run announcements to a Telegram chat
type TelegramNotifier struct {
	client *resty.Client
	token  string
	chatID string
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewTelegramNotifier creates a Telegram notifier from TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID
func NewTelegramNotifier() (*TelegramNotifier, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if token == "" || chatID == "" {
		return nil, ErrMissingTelegramConfig
	}
	return NewTelegramNotifierWithURL(telegramAPIURL, token, chatID), nil
}

// NewTelegramNotifierWithURL creates a Telegram notifier against a custom Bot API endpoint
func NewTelegramNotifierWithURL(baseURL, token, chatID string) *TelegramNotifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(telegramTimeout)

	return &TelegramNotifier{client: client, token: token, chatID: chatID}
}

// Notify sends one message for the run
func (n *TelegramNotifier) Notify(summary Summary) error {
	var result telegramResponse

	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"chat_id":                  n.chatID,
			"text":                     formatAnnouncement(summary, TelegramMaxLength),
			"disable_web_page_preview": true,
		}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/bot%s/sendMessage", n.token))
	if err != nil {
		return fmt.Errorf("sending announcement for %s: %w", summary.Date, err)
	}

	if resp.IsError() {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode(), result.Description)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	return nil
}
