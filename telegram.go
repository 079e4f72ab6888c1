package main

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramTransport implements Transport over the Telegram Bot API.
type telegramTransport struct {
	api *tgbotapi.BotAPI
}

func newTelegramTransport(token string) (*telegramTransport, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram client: %w", err)
	}
	logger.Info().Str("username", api.Self.UserName).Msg("Authorized on Telegram")
	return &telegramTransport{api: api}, nil
}

func (t *telegramTransport) Send(chatID int64, text string, kb Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if kb != nil {
		msg.ReplyMarkup = toInlineKeyboard(kb)
	}
	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (t *telegramTransport) Edit(chatID int64, messageID int, text string, kb Keyboard) error {
	var msg tgbotapi.EditMessageTextConfig
	if kb != nil {
		msg = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, toInlineKeyboard(kb))
	} else {
		msg = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	_, err := t.api.Send(msg)
	return err
}

func (t *telegramTransport) Notify(callbackID, text string) error {
	_, err := t.api.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

func toInlineKeyboard(kb Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Action))
			}
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// runTelegram consumes the update long-poll and feeds the dispatcher. Each
// update is handled on its own goroutine; the only shared mutable state is
// the snapshot cache, which tolerates racing writers.
func (t *telegramTransport) runTelegram(ctx context.Context, d *Dispatcher) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := t.api.GetUpdatesChan(cfg)

	logger.Info().Msg("✅ Bot is polling for updates")

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go t.handleUpdate(ctx, d, update)
		}
	}
}

func (t *telegramTransport) handleUpdate(ctx context.Context, d *Dispatcher, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		// Acknowledge the press so the client stops its spinner; Notify may
		// follow up with an actual notification text.
		if _, err := t.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			logger.Warn().Err(err).Msg("Failed to acknowledge callback")
		}
		if cb.Message == nil {
			return
		}
		d.HandleCallback(ctx, cb.Message.Chat.ID, cb.Message.MessageID, cb.ID, cb.Data)
	case update.Message != nil && update.Message.IsCommand():
		msg := update.Message
		d.HandleCommand(ctx, msg.Chat.ID, msg.Command(), msg.CommandArguments())
	}
}
