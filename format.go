package main

import (
	"fmt"
	"strings"
	"time"
)

// ViewKind names one of the fixed rendering modes.
type ViewKind string

const (
	ViewFull     ViewKind = "full"
	ViewDaily    ViewKind = "daily"
	ViewFeatured ViewKind = "featured"
	ViewStats    ViewKind = "stats"
	ViewTop      ViewKind = "top"
	ViewSearch   ViewKind = "search"
	ViewRandom   ViewKind = "random"
	ViewExchange ViewKind = "exchange"
)

// topItemCount is how many items the top view shows.
const topItemCount = 5

const emptyShopText = "😢 В магазине нет предметов"

const groupDivider = "   ─────────────\n"

// A rendered view must fit one Telegram message (4096 chars); the current
// shop sizes stay well under that. Pagination is out of scope.

// displayDate turns a snapshot date into DD.MM.YYYY. The API sometimes sends
// a long timestamp, sometimes garbage; anything unparsable becomes today.
func displayDate(raw string) string {
	if len(raw) >= 10 {
		if d, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return d.Format("02.01.2006")
		}
	}
	return time.Now().Format("02.01.2006")
}

// itemHeader renders the grouped-entry header line: rarity and category
// markers, bold name, category label.
func itemHeader(name, itemType string) string {
	return fmt.Sprintf("%s%s **%s**  _(%s)_\n",
		RarityEmoji(ClassifyRarity(name)), TypeEmoji(itemType), name, TypeLabel(itemType))
}

// FormatShop renders the full, daily or featured listing of a snapshot.
func FormatShop(snap *Snapshot, section SectionKind, conv Converter) string {
	items := Flatten(snap, section)
	if len(items) == 0 {
		return emptyShopText
	}

	var out strings.Builder
	switch section {
	case SectionDaily:
		out.WriteString("✨ **ЕЖЕДНЕВНЫЕ ПРЕДМЕТЫ**\n")
	case SectionFeatured:
		out.WriteString("🌟 **НОВИНКИ И ИЗБРАННОЕ**\n")
	default:
		out.WriteString("🛒 **ЕЖЕДНЕВНЫЙ МАГАЗИН ПРЕДМЕТОВ**\n")
	}
	out.WriteString(fmt.Sprintf("📅 %s\n\n", displayDate(snap.Date)))
	out.WriteString(fmt.Sprintf("💱 **Курс:** 1 V-Buck = %v ₽\n\n", conv.Rate))

	for _, group := range Group(items) {
		out.WriteString(itemHeader(group.Name, group.Variants[0].Type))
		for i, v := range group.Variants {
			out.WriteString(fmt.Sprintf("   %d. %s\n", i+1, conv.FormatPrice(v.Price)))
		}
		out.WriteString(groupDivider)
	}

	return out.String()
}

// FormatStats renders shop totals: count, total and average price, most
// expensive item.
func FormatStats(snap *Snapshot, conv Converter) string {
	stats, err := Statistics(FlattenAll(snap))
	if err != nil {
		return "😢 Нет данных для статистики."
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("📊 **Статистика магазина от %s**\n\n", displayDate(snap.Date)))
	out.WriteString(fmt.Sprintf("📦 Всего предметов: **%d**\n", stats.Count))
	out.WriteString(fmt.Sprintf("💰 Общая стоимость: **%s V-Bucks** (~%s ₽)\n",
		FormatVbucks(stats.TotalPrice), FormatRubles(conv.ToRubles(float64(stats.TotalPrice)))))
	out.WriteString(fmt.Sprintf("📈 Средняя цена: **%s V-Bucks** (~%s ₽)\n",
		FormatAverage(stats.AveragePrice), FormatRubles(conv.ToRubles(stats.AveragePrice))))
	out.WriteString(fmt.Sprintf("🏆 Самый дорогой: **%s** — %s",
		stats.MostExpensive.Name, conv.FormatPrice(stats.MostExpensive.Price)))
	return out.String()
}

// FormatTop renders the most expensive items, price descending.
func FormatTop(snap *Snapshot, n int, conv Converter) string {
	items := FlattenAll(snap)
	if len(items) == 0 {
		return emptyShopText
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("🏆 **Топ-%d самых дорогих предметов** (%s)\n\n", n, displayDate(snap.Date)))
	for i, item := range TopN(items, n) {
		out.WriteString(fmt.Sprintf("%d. %s%s %s — %s\n",
			i+1, RarityEmoji(ClassifyRarity(item.Name)), TypeEmoji(item.Type),
			item.Name, conv.FormatPrice(item.Price)))
	}
	return out.String()
}

// FormatSearch renders all items matching a query. "Nothing found" and
// "empty shop" are distinct outcomes.
func FormatSearch(snap *Snapshot, query string, conv Converter) string {
	items := FlattenAll(snap)
	if len(items) == 0 {
		return emptyShopText
	}

	found := SearchItems(items, query)
	if len(found) == 0 {
		return fmt.Sprintf("😕 По запросу «%s» ничего не найдено.", query)
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("🔍 **Результаты поиска по запросу «%s»**\n\n", query))
	for _, group := range Group(found) {
		out.WriteString(itemHeader(group.Name, group.Variants[0].Type))
		for _, v := range group.Variants {
			out.WriteString(fmt.Sprintf("   • %s\n", conv.FormatPrice(v.Price)))
		}
		out.WriteString(groupDivider)
	}
	return out.String()
}

// FormatRandom renders one uniformly picked item.
func FormatRandom(snap *Snapshot, conv Converter) string {
	item, err := RandomItem(FlattenAll(snap))
	if err != nil {
		return emptyShopText
	}
	return fmt.Sprintf("🎲 **Случайный предмет:**\n\n%s💰 %s",
		itemHeader(item.Name, item.Type), conv.FormatPrice(item.Price))
}

// FormatExchange renders the fixed conversion rate with examples.
func FormatExchange(conv Converter) string {
	var out strings.Builder
	out.WriteString("💱 **Курс V-Bucks к рублю**\n\n")
	out.WriteString(fmt.Sprintf("1 V-Buck = %v ₽\n", conv.Rate))
	out.WriteString("2 V-Bucks ≈ 1 ₽\n\n")
	out.WriteString("**Примеры:**\n")
	for _, amount := range []int{100, 1000, 2800} {
		out.WriteString(fmt.Sprintf("• %s\n", conv.FormatPrice(amount)))
	}
	out.WriteString(fmt.Sprintf("\n📊 Данные актуальны на %s", time.Now().Format("02.01.2006")))
	return out.String()
}

// Render produces the text block for a view kind. params carries the search
// query for ViewSearch; other kinds ignore it.
func Render(kind ViewKind, snap *Snapshot, query string, conv Converter) string {
	switch kind {
	case ViewDaily:
		return FormatShop(snap, SectionDaily, conv)
	case ViewFeatured:
		return FormatShop(snap, SectionFeatured, conv)
	case ViewStats:
		return FormatStats(snap, conv)
	case ViewTop:
		return FormatTop(snap, topItemCount, conv)
	case ViewSearch:
		return FormatSearch(snap, query, conv)
	case ViewRandom:
		return FormatRandom(snap, conv)
	case ViewExchange:
		return FormatExchange(conv)
	default:
		return FormatShop(snap, SectionAll, conv)
	}
}
