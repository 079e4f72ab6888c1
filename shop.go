package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

const defaultShopAPIURL = "https://fortnite-api.com/v2/shop/br"

// Item is one shop entry. Duplicate names are legal: they are size/style
// variants of the same conceptual product and get grouped at render time.
type Item struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
	Type  string `json:"type"`
}

// Section is one block of items inside the daily or featured part of the shop.
type Section struct {
	Items []Item `json:"items"`
}

// Snapshot is one fetched (or fallback) shop document. It is immutable once
// produced; all view operations only read it.
type Snapshot struct {
	Date     string    `json:"date"`
	Daily    []Section `json:"daily"`
	Featured []Section `json:"featured"`
}

type shopResponse struct {
	Data Snapshot `json:"data"`
}

// ShopClient fetches the shop from the catalog API and keeps the most recent
// snapshot for cheap refresh/random operations.
//
// Concurrent fetches race on the cache write; last write wins. That is fine:
// the contract is "always return a renderable snapshot", not "return the
// snapshot of the newest fetch".
type ShopClient struct {
	apiURL string
	last   atomic.Pointer[Snapshot]
}

// NewShopClient creates a shop client. An empty apiURL selects the default
// endpoint; tests pass an httptest server URL.
func NewShopClient(apiURL string) *ShopClient {
	if apiURL == "" {
		apiURL = defaultShopAPIURL
	}
	return &ShopClient{apiURL: apiURL}
}

// Fetch retrieves the current shop. Any transport failure, non-200 status or
// undecodable body falls back to the built-in sample snapshot, so the caller
// always gets something renderable. The result is cached unconditionally.
func (c *ShopClient) Fetch(ctx context.Context) *Snapshot {
	snap := c.fetchOrigin(ctx)
	if snap == nil {
		snap = sampleSnapshot()
	}
	if snap.Date == "" {
		snap.Date = time.Now().Format("2006-01-02")
	}
	c.last.Store(snap)
	return snap
}

// Last returns the most recently fetched snapshot, or nil if Fetch has never
// been called.
func (c *ShopClient) Last() *Snapshot {
	return c.last.Load()
}

func (c *ShopClient) fetchOrigin(ctx context.Context) *Snapshot {
	resp, err := HTTPGet(ctx, c.apiURL+"?language=ru")
	if err != nil {
		logger.Error().Err(err).Str("url", c.apiURL).Msg("Shop API unreachable, using sample data")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn().Int("status", resp.StatusCode).Msg("Shop API returned non-OK status, using sample data")
		return nil
	}

	var shopResp shopResponse
	if err := json.NewDecoder(resp.Body).Decode(&shopResp); err != nil {
		logger.Error().Err(err).Msg("Failed to decode shop response, using sample data")
		return nil
	}

	logger.Info().
		Str("date", shopResp.Data.Date).
		Int("daily_sections", len(shopResp.Data.Daily)).
		Int("featured_sections", len(shopResp.Data.Featured)).
		Msg("Shop data fetched")

	return &shopResp.Data
}

// sampleSnapshot is the fallback shop used whenever the origin is unavailable.
func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Date: time.Now().Format("2006-01-02"),
		Daily: []Section{
			{Items: []Item{
				{Name: "Sung Jin-Woo", Price: 1800, Type: "outfit"},
				{Name: "Sung Jin-Woo (Shadow Monarch)", Price: 1800, Type: "outfit"},
				{Name: "Cha Hae-In", Price: 1800, Type: "outfit"},
				{Name: "Blood-Red Commander Igris", Price: 1800, Type: "outfit"},
				{Name: "Kaisel (Glider)", Price: 1200, Type: "glider"},
				{Name: "Demon King's Longsword (Pickaxe)", Price: 800, Type: "pickaxe"},
				{Name: "Kamish's Wrath (Wrap)", Price: 500, Type: "wrap"},
			}},
			{Items: []Item{
				{Name: "Black Dino Ranger", Price: 1500, Type: "outfit"},
				{Name: "White Dino Ranger", Price: 1500, Type: "outfit"},
				{Name: "Dino Thunder Bundle", Price: 2400, Type: "bundle"},
				{Name: "Brachio Staff (Pickaxe)", Price: 800, Type: "pickaxe"},
				{Name: "Dragon Sword (Pickaxe)", Price: 800, Type: "pickaxe"},
				{Name: "Brachio Zord (Back Bling)", Price: 500, Type: "backbling"},
			}},
		},
		Featured: []Section{
			{Items: []Item{
				{Name: "Mighty Morphing Power Rangers (LEGO)", Price: 1800, Type: "outfit"},
				{Name: "Skull Raider", Price: 1200, Type: "outfit"},
				{Name: "The Foundation", Price: 1500, Type: "outfit"},
				{Name: "Venom Fang & Knight Killer (Pickaxe)", Price: 800, Type: "pickaxe"},
				{Name: "Wings of Light (Back Bling)", Price: 400, Type: "backbling"},
				{Name: "Shadow Summoner (Emote)", Price: 400, Type: "emote"},
				{Name: "S-Rank Scent (Emote)", Price: 400, Type: "emote"},
			}},
		},
	}
}
