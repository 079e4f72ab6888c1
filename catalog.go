package main

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
)

// ErrEmptyCatalog is reported when an operation needs at least one item but
// the snapshot contains none. Distinct from "no catalog fetched yet".
var ErrEmptyCatalog = errors.New("shop contains no items")

// SectionKind selects which part of a snapshot an operation works on.
type SectionKind string

const (
	SectionAll      SectionKind = "all"
	SectionDaily    SectionKind = "daily"
	SectionFeatured SectionKind = "featured"
)

// typeEmoji maps the catalog's item type to its display marker. Unrecognized
// types fall back to the "unknown" entry.
var typeEmoji = map[string]string{
	"outfit":    "👕",
	"pickaxe":   "⛏️",
	"glider":    "🪂",
	"emote":     "💃",
	"backbling": "🎒",
	"wrap":      "🎁",
	"bundle":    "📦",
	"music":     "🎵",
	"loading":   "⏳",
	"spray":     "🎨",
	"emoji":     "😊",
	"toy":       "🧸",
	"pet":       "🐶",
	"contrail":  "✨",
	"unknown":   "❓",
}

// typeLabel maps the item type to its Russian display name.
var typeLabel = map[string]string{
	"outfit":    "Костюм",
	"pickaxe":   "Инструмент",
	"glider":    "Планер",
	"emote":     "Эмоция",
	"backbling": "Украшение",
	"wrap":      "Обёртка",
	"bundle":    "Набор",
	"music":     "Музыка",
	"loading":   "Экран загрузки",
	"spray":     "Граффити",
	"emoji":     "Эмодзи",
	"toy":       "Игрушка",
	"pet":       "Питомец",
	"contrail":  "След",
	"unknown":   "Предмет",
}

// TypeEmoji returns the display marker for an item type.
func TypeEmoji(itemType string) string {
	if e, ok := typeEmoji[itemType]; ok {
		return e
	}
	return typeEmoji["unknown"]
}

// TypeLabel returns the Russian label for an item type.
func TypeLabel(itemType string) string {
	if l, ok := typeLabel[itemType]; ok {
		return l
	}
	return typeLabel["unknown"]
}

// Rarity is the derived tier of an item, guessed from its name.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

var rarityEmoji = map[Rarity]string{
	RarityCommon:    "⚪",
	RarityUncommon:  "🟢",
	RarityRare:      "🔵",
	RarityEpic:      "🟣",
	RarityLegendary: "🟠",
}

// rarityRules is the ordered keyword table ClassifyRarity walks; first match
// wins. The keyword sets are tuned to the catalogs this bot has actually seen
// (Solo Leveling and Power Rangers collabs), so the classification is an
// approximation, not ground truth. Names matching nothing are common.
var rarityRules = []struct {
	rarity   Rarity
	keywords []string
}{
	{RarityLegendary, []string{"legendary", "reaper", "igris"}},
	{RarityEpic, []string{"epic", "jin", "hao"}},
	{RarityRare, []string{"rare", "dino"}},
	{RarityUncommon, []string{"uncommon"}},
}

// ClassifyRarity guesses an item's rarity from case-insensitive substrings of
// its name. See rarityRules for the keyword table.
func ClassifyRarity(name string) Rarity {
	lower := strings.ToLower(name)
	for _, rule := range rarityRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.rarity
			}
		}
	}
	return RarityCommon
}

// RarityEmoji returns the display marker for a rarity tier.
func RarityEmoji(r Rarity) string {
	if e, ok := rarityEmoji[r]; ok {
		return e
	}
	return rarityEmoji[RarityCommon]
}

// Flatten concatenates the selected sections into one item list, daily before
// featured, items in source order. No deduplication.
func Flatten(snap *Snapshot, section SectionKind) []Item {
	var items []Item
	if section == SectionAll || section == SectionDaily {
		for _, sec := range snap.Daily {
			items = append(items, sec.Items...)
		}
	}
	if section == SectionAll || section == SectionFeatured {
		for _, sec := range snap.Featured {
			items = append(items, sec.Items...)
		}
	}
	return items
}

// FlattenAll concatenates every section of the snapshot.
func FlattenAll(snap *Snapshot) []Item {
	return Flatten(snap, SectionAll)
}

// Variant is one price entry of a grouped product.
type Variant struct {
	Price int
	Type  string
}

// GroupedEntry merges all items sharing one display name.
type GroupedEntry struct {
	Name     string
	Variants []Variant
}

// Group merges items by name, preserving first-seen order of distinct names
// and of variants within a name.
func Group(items []Item) []GroupedEntry {
	index := make(map[string]int, len(items))
	var groups []GroupedEntry
	for _, item := range items {
		i, seen := index[item.Name]
		if !seen {
			i = len(groups)
			index[item.Name] = i
			groups = append(groups, GroupedEntry{Name: item.Name})
		}
		groups[i].Variants = append(groups[i].Variants, Variant{Price: item.Price, Type: item.Type})
	}
	return groups
}

// Stats summarizes an item list.
type Stats struct {
	Count         int
	TotalPrice    int
	AveragePrice  float64
	MostExpensive Item
}

// Statistics computes shop totals. Ties for the most expensive item resolve to
// the first one in flattening order.
func Statistics(items []Item) (Stats, error) {
	if len(items) == 0 {
		return Stats{}, ErrEmptyCatalog
	}
	s := Stats{Count: len(items), MostExpensive: items[0]}
	for _, item := range items {
		s.TotalPrice += item.Price
		if item.Price > s.MostExpensive.Price {
			s.MostExpensive = item
		}
	}
	s.AveragePrice = float64(s.TotalPrice) / float64(s.Count)
	return s, nil
}

// TopN returns the n most expensive items, price descending. The sort is
// stable, so equal prices keep their flattening order.
func TopN(items []Item, n int) []Item {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price > sorted[j].Price
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// SearchItems returns all items whose name contains the query,
// case-insensitive, in flattening order. An empty result is a normal outcome,
// not an error.
func SearchItems(items []Item, query string) []Item {
	lower := strings.ToLower(query)
	var found []Item
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), lower) {
			found = append(found, item)
		}
	}
	return found
}

// RandomItem picks one item uniformly at random.
func RandomItem(items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, ErrEmptyCatalog
	}
	return items[rand.Intn(len(items))], nil
}
