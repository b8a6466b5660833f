// Package telegram delivers notifications through the bot API.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"hh-offerbot/internal/domain/ports/adapter"
)

var _ adapter.Messenger = (*Sender)(nil)

// maxMessageLen is the Telegram hard limit for one message.
const maxMessageLen = 4096

type Sender struct {
	bot          *tgbotapi.BotAPI
	payReturnURL string
	log          zerolog.Logger
}

func NewSender(token, payReturnURL string, logger *zerolog.Logger) (*Sender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &Sender{
		bot:          bot,
		payReturnURL: payReturnURL,
		log:          logger.With().Str("component", "tg_sender").Logger(),
	}, nil
}

// SendMessage splits long texts into 4096-rune chunks. The payment keyboard,
// when requested, is attached to the first chunk only.
func (s *Sender) SendMessage(ctx context.Context, tgID int64, text string, withPayKeyboard bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i, chunk := range splitChunks(text, maxMessageLen) {
		msg := tgbotapi.NewMessage(tgID, chunk)
		if withPayKeyboard && i == 0 && s.payReturnURL != "" {
			msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonURL("Оформить подписку", s.payReturnURL),
				),
			)
		}
		if _, err := s.bot.Send(msg); err != nil {
			s.log.Warn().Err(err).Int64("tg_id", tgID).Msg("send failed")
			return err
		}
	}
	return nil
}

func splitChunks(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}
	var out []string
	for len(runes) > 0 {
		n := size
		if n > len(runes) {
			n = len(runes)
		}
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return out
}
