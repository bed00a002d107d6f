package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/abarbosa/coursepay/pkg/clients"
	"go.uber.org/zap"
)

const apiBase = "https://api.telegram.org"

// TelegramNotifier posts enrollment alerts to an operational chat.
// An unconfigured notifier silently drops messages so local setups work
// without a bot.
type TelegramNotifier struct {
	client   clients.HTTPClientI
	apiBase  string
	botToken string
	chatID   string
}

func NewTelegramNotifier(client clients.HTTPClientI, botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		client:   client,
		apiBase:  apiBase,
		botToken: botToken,
		chatID:   chatID,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (n *TelegramNotifier) NotifyEnrollment(ctx context.Context, studentName, courseTitle string) error {
	if n.botToken == "" || n.chatID == "" {
		return nil
	}

	text := fmt.Sprintf("🎉 Nova matrícula!\n\n*%s* entrou em *%s*", studentName, courseTitle)
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return err
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	statusCode, _, err := n.client.Post(url, headers, body)
	if err != nil {
		return err
	}
	if statusCode != http.StatusOK {
		zap.L().Warn("telegram rejected message", zap.Int("status", statusCode))
		return fmt.Errorf("telegram responded with status %d", statusCode)
	}
	return nil
}
