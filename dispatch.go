package main

import (
	"context"
	"fmt"
	"time"
)

// Button is one inline control. Either Action (a callback identifier) or URL
// is set, never both.
type Button struct {
	Text   string
	Action string
	URL    string
}

// Keyboard is the button grid attached to an outbound message.
type Keyboard [][]Button

// Transport is the chat side of the bot: it delivers text with buttons and
// can edit a message it sent earlier. Implemented by telegramTransport and by
// test fakes.
type Transport interface {
	// Send posts a new message and returns its identifier.
	Send(chatID int64, text string, kb Keyboard) (int, error)
	// Edit replaces the text and keyboard of an existing message.
	Edit(chatID int64, messageID int, text string, kb Keyboard) error
	// Notify shows a transient notification for a button press without
	// touching any message.
	Notify(callbackID, text string) error
}

// Callback action identifiers. These are chosen by the bot itself; anything
// else arriving in a callback is stale or malformed and gets ignored.
const (
	actionShopAll      = "shop_all"
	actionShopDaily    = "shop_daily"
	actionShopFeatured = "shop_featured"
	actionRandomItem   = "random_item"
	actionStats        = "stats"
	actionTop          = "top"
	actionExchange     = "exchange"
	actionRefresh      = "refresh"
	actionHelp         = "help"
	actionMenu         = "menu"
)

const (
	rootMenuText     = "👋 **Главное меню**\n\nВыберите действие:"
	noPriorCacheText = "Сначала загрузите магазин"
	renderFailedText = "😢 Не удалось получить данные магазина"
	searchHintText   = "🔍 Введите запрос после команды, например: `/search Jin`"
	shopSiteURL      = "https://www.fortnite.com/item-shop"
)

// viewSpec describes one view kind for the table-driven dispatcher.
type viewSpec struct {
	kind    ViewKind
	loading string
}

// actionViews maps callback identifiers to view specs. Commands reuse the
// same table through commandActions.
var actionViews = map[string]viewSpec{
	actionShopAll:      {ViewFull, "🔄 Загружаю магазин..."},
	actionShopDaily:    {ViewDaily, "✨ Загружаю ежедневные..."},
	actionShopFeatured: {ViewFeatured, "🌟 Загружаю новинки..."},
	actionRandomItem:   {ViewRandom, "🎲 Выбираю случайный предмет..."},
	actionStats:        {ViewStats, "📊 Считаю статистику..."},
	actionTop:          {ViewTop, "🏆 Составляю топ..."},
	actionExchange:     {ViewExchange, "💱 Загружаю курс..."},
}

// commandActions maps typed commands to the callback identifier that produces
// the same view.
var commandActions = map[string]string{
	"shop":     actionShopAll,
	"daily":    actionShopDaily,
	"featured": actionShopFeatured,
	"random":   actionRandomItem,
	"stats":    actionStats,
	"top":      actionTop,
	"exchange": actionExchange,
}

// Dispatcher routes inbound commands and button presses to view renders.
// Navigation is a strict two-level tree: root menu -> one view -> back to the
// root menu. There is no deeper history.
type Dispatcher struct {
	shop      *ShopClient
	conv      Converter
	transport Transport
	nextIn    func() time.Duration
}

// NewDispatcher wires the dispatcher. nextIn reports the time until the next
// scheduled broadcast and may be nil when no scheduler runs.
func NewDispatcher(shop *ShopClient, conv Converter, transport Transport, nextIn func() time.Duration) *Dispatcher {
	return &Dispatcher{shop: shop, conv: conv, transport: transport, nextIn: nextIn}
}

// menuRows is the fixed control grid attached to every rendered view.
func menuRows() Keyboard {
	return Keyboard{
		{{Text: "🛒 Весь магазин", Action: actionShopAll}, {Text: "✨ Ежедневные", Action: actionShopDaily}},
		{{Text: "🌟 Новинки", Action: actionShopFeatured}, {Text: "🎲 Случайный предмет", Action: actionRandomItem}},
		{{Text: "📊 Статистика", Action: actionStats}, {Text: "🏆 Топ-5", Action: actionTop}},
		{{Text: "💱 Курс валют", Action: actionExchange}, {Text: "🔄 Обновить", Action: actionRefresh}},
	}
}

// resultKeyboard is menuRows plus the Back control.
func resultKeyboard() Keyboard {
	return append(menuRows(), []Button{{Text: "🔙 Назад", Action: actionMenu}})
}

// backKeyboard is the lone Back control, used under help and search results.
func backKeyboard() Keyboard {
	return Keyboard{{{Text: "🔙 Назад", Action: actionMenu}}}
}

// rootMenuKeyboard is the top-level menu: the view grid with the official
// site link and a help row instead of refresh.
func rootMenuKeyboard() Keyboard {
	return Keyboard{
		{{Text: "🛒 Весь магазин", Action: actionShopAll}, {Text: "✨ Ежедневные", Action: actionShopDaily}},
		{{Text: "🌟 Новинки", Action: actionShopFeatured}, {Text: "🎲 Случайный предмет", Action: actionRandomItem}},
		{{Text: "📊 Статистика", Action: actionStats}, {Text: "🏆 Топ-5", Action: actionTop}},
		{{Text: "💱 Курс валют", Action: actionExchange}, {Text: "🌐 Официальный сайт", URL: shopSiteURL}},
		{{Text: "❓ Помощь", Action: actionHelp}},
	}
}

// HandleCommand processes one typed command (without the leading slash).
// args carries free text for /search.
func (d *Dispatcher) HandleCommand(ctx context.Context, chatID int64, command, args string) {
	logger.Info().Str("command", command).Int64("chat_id", chatID).Msg("Handling command")

	switch command {
	case "start":
		d.send(chatID, rootMenuText, rootMenuKeyboard())
	case "help":
		d.send(chatID, helpText(d.conv), backKeyboard())
	case "nextupdate":
		d.send(chatID, d.nextUpdateText(), nil)
	case "search":
		if args == "" {
			d.send(chatID, searchHintText, nil)
			return
		}
		msgID, err := d.transport.Send(chatID, fmt.Sprintf("🔍 Ищу «%s»...", args), nil)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to send search placeholder")
			return
		}
		snap := d.shop.Fetch(ctx)
		d.finish(chatID, msgID, Render(ViewSearch, snap, args, d.conv), backKeyboard())
	default:
		action, ok := commandActions[command]
		if !ok {
			logger.Debug().Str("command", command).Msg("Unknown command ignored")
			return
		}
		spec := actionViews[action]
		msgID, err := d.transport.Send(chatID, spec.loading, nil)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to send loading placeholder")
			return
		}
		d.showView(ctx, chatID, msgID, spec.kind)
	}
}

// HandleCallback processes one button press. messageID is the message the
// button lives on; every path either edits it exactly once or, for refresh
// without a cache, leaves it untouched and notifies instead.
func (d *Dispatcher) HandleCallback(ctx context.Context, chatID int64, messageID int, callbackID, action string) {
	logger.Info().Str("action", action).Int64("chat_id", chatID).Msg("Handling button press")

	switch action {
	case actionMenu:
		d.edit(chatID, messageID, rootMenuText, rootMenuKeyboard())
	case actionHelp:
		d.edit(chatID, messageID, quickHelpText(d.conv), backKeyboard())
	case actionRefresh:
		snap := d.shop.Last()
		if snap == nil {
			if err := d.transport.Notify(callbackID, noPriorCacheText); err != nil {
				logger.Error().Err(err).Msg("Failed to notify about missing cache")
			}
			return
		}
		d.edit(chatID, messageID, "🔄 Обновляю...", nil)
		d.finish(chatID, messageID, Render(ViewFull, snap, "", d.conv), resultKeyboard())
	default:
		spec, ok := actionViews[action]
		if !ok {
			// Stale or malformed identifier, nothing to do.
			logger.Debug().Str("action", action).Msg("Unknown callback action ignored")
			return
		}
		d.edit(chatID, messageID, spec.loading, nil)
		d.showView(ctx, chatID, messageID, spec.kind)
	}
}

// showView runs the fetch -> aggregate -> render pipeline for one view kind
// and resolves the placeholder message. The exchange view needs no snapshot.
func (d *Dispatcher) showView(ctx context.Context, chatID int64, messageID int, kind ViewKind) {
	var snap *Snapshot
	if kind != ViewExchange {
		snap = d.shop.Fetch(ctx)
	}
	d.finish(chatID, messageID, Render(kind, snap, "", d.conv), resultKeyboard())
}

// finish replaces the placeholder with the final text. A panic on this path
// still resolves the placeholder so no "loading" message is left behind.
func (d *Dispatcher) finish(chatID int64, messageID int, text string, kb Keyboard) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("View render panicked")
			d.edit(chatID, messageID, renderFailedText, backKeyboard())
		}
	}()
	d.edit(chatID, messageID, text, kb)
}

func (d *Dispatcher) send(chatID int64, text string, kb Keyboard) {
	if _, err := d.transport.Send(chatID, text, kb); err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (d *Dispatcher) edit(chatID int64, messageID int, text string, kb Keyboard) {
	if err := d.transport.Edit(chatID, messageID, text, kb); err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Int("message_id", messageID).Msg("Failed to edit message")
	}
}

// nextUpdateText reports the time remaining until the scheduled broadcast.
func (d *Dispatcher) nextUpdateText() string {
	var wait time.Duration
	if d.nextIn != nil {
		wait = d.nextIn()
	} else {
		wait = untilNextBroadcast(time.Now())
	}
	hours := int(wait.Hours())
	minutes := int(wait.Minutes()) % 60
	return fmt.Sprintf("⏳ Следующее обновление магазина через **%d ч %d мин** (в 3:00 МСК).", hours, minutes)
}

// helpText is the long-form /help message.
func helpText(conv Converter) string {
	return fmt.Sprintf(
		"❓ **Помощь**\n\n"+
			"**Команды:**\n"+
			"/start – главное меню\n"+
			"/shop – весь магазин\n"+
			"/daily – ежедневные предметы\n"+
			"/featured – новинки\n"+
			"/random – случайный предмет\n"+
			"/stats – статистика магазина\n"+
			"/top – топ-5 самых дорогих\n"+
			"/exchange – курс V-Bucks к рублю\n"+
			"/search <текст> – поиск предмета\n"+
			"/nextupdate – время до обновления\n"+
			"/help – это сообщение\n\n"+
			"🕒 Автоуведомления каждый день в 3:00 МСК\n\n"+
			"💰 **Курс:** 1 V-Buck = %v ₽\n\n"+
			"**Типы предметов:**\n"+
			"👕 Костюм, ⛏️ Инструмент, 🪂 Планер, 💃 Эмоция, 🎒 Украшение, 🎁 Обёртка, 📦 Набор, 🎵 Музыка и др.\n\n"+
			"🌐 [Официальный магазин](%s)",
		conv.Rate, shopSiteURL)
}

// quickHelpText is the short help shown for the help button.
func quickHelpText(conv Converter) string {
	return fmt.Sprintf(
		"❓ **Быстрая помощь**\n\n"+
			"🛒 **Весь магазин** – все предметы\n"+
			"✨ **Ежедневные** – только ежедневные\n"+
			"🌟 **Новинки** – только новинки\n"+
			"🎲 **Случайный предмет** – один предмет\n"+
			"📊 **Статистика** – общая информация\n"+
			"🏆 **Топ-5** – самые дорогие предметы\n"+
			"💱 **Курс валют** – информация о курсе\n"+
			"🌐 **Официальный сайт** – открыть в браузере\n\n"+
			"💰 **Курс:** 1 V-Buck = %v ₽\n\n"+
			"⏰ Автоуведомления в 3:00 МСК",
		conv.Rate)
}
