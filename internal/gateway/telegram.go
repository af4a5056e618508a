package gateway

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram adapts the Gateway boundary onto the Telegram Bot API. Channel
// ids are decimal chat ids; options become one row of inline buttons whose
// callback data is "<prefix>:<index>".
type Telegram struct {
	api *tgbotapi.BotAPI
}

func NewTelegram(api *tgbotapi.BotAPI) *Telegram {
	return &Telegram{api: api}
}

func (t *Telegram) PresentRound(_ context.Context, channelID string, content RoundContent) (MessageHandle, error) {
	chatID, err := parseChatID(channelID)
	if err != nil {
		return MessageHandle{}, err
	}

	text := content.Title
	if content.Body != "" {
		text += "\n\n" + content.Body
	}

	var sent tgbotapi.Message
	if len(content.Image) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "round.png", Bytes: content.Image})
		photo.Caption = text
		if markup, ok := optionKeyboard(content); ok {
			photo.ReplyMarkup = markup
		}
		sent, err = t.api.Send(photo)
	} else {
		msg := tgbotapi.NewMessage(chatID, text)
		if markup, ok := optionKeyboard(content); ok {
			msg.ReplyMarkup = markup
		}
		sent, err = t.api.Send(msg)
	}
	if err != nil {
		return MessageHandle{}, fmt.Errorf("present round: %w", err)
	}
	return MessageHandle{ChatID: chatID, MessageID: sent.MessageID}, nil
}

func (t *Telegram) DisablePresentation(_ context.Context, handle MessageHandle) error {
	if handle.Zero() {
		return nil
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(handle.ChatID, handle.MessageID,
		tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow()))
	if _, err := t.api.Request(edit); err != nil {
		return fmt.Errorf("disable presentation: %w", err)
	}
	return nil
}

func (t *Telegram) DispatchNotice(_ context.Context, channelID, text string) error {
	chatID, err := parseChatID(channelID)
	if err != nil {
		return err
	}
	if _, err := t.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("dispatch notice: %w", err)
	}
	return nil
}

func optionKeyboard(content RoundContent) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(content.Options) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(content.Options))
	for i, opt := range content.Options {
		label := opt
		if len(label) > 60 {
			label = label[:57] + "..."
		}
		data := fmt.Sprintf("%s:%d", content.CallbackPrefix, i)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...)), true
}

func parseChatID(channelID string) (int64, error) {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad channel id %q: %w", channelID, err)
	}
	return chatID, nil
}
