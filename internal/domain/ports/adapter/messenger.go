package adapter

import "context"

// Messenger is the outbound channel to the bot frontend. withPayKeyboard
// attaches the payment inline keyboard to the first message chunk.
type Messenger interface {
	SendMessage(ctx context.Context, tgID int64, text string, withPayKeyboard bool) error
}
