package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type sentMessage struct {
	chatID int64
	text   string
	kb     Keyboard
}

type editedMessage struct {
	chatID    int64
	messageID int
	text      string
	kb        Keyboard
}

// fakeTransport records every outbound interaction for assertions.
type fakeTransport struct {
	mu       sync.Mutex
	sent     []sentMessage
	edits    []editedMessage
	notifies []string
	nextID   int
}

func (f *fakeTransport) Send(chatID int64, text string, kb Keyboard) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, kb: kb})
	return f.nextID, nil
}

func (f *fakeTransport) Edit(chatID int64, messageID int, text string, kb Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, editedMessage{chatID: chatID, messageID: messageID, text: text, kb: kb})
	return nil
}

func (f *fakeTransport) Notify(callbackID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifies = append(f.notifies, text)
	return nil
}

// offlineDispatcher wires a dispatcher whose shop origin is unreachable, so
// every fetch falls back to the sample snapshot.
func offlineDispatcher() (*Dispatcher, *fakeTransport) {
	transport := &fakeTransport{}
	shop := NewShopClient("http://127.0.0.1:0")
	return NewDispatcher(shop, NewConverter(), transport, nil), transport
}

func TestDispatcher_RefreshBeforeAnyFetch(t *testing.T) {
	d, transport := offlineDispatcher()
	ctx := context.Background()

	// Two presses, both before any fetch: both must report the missing
	// cache and neither may touch the displayed message.
	d.HandleCallback(ctx, 1, 10, "cb-1", actionRefresh)
	d.HandleCallback(ctx, 1, 10, "cb-2", actionRefresh)

	if len(transport.notifies) != 2 {
		t.Fatalf("notifies = %d, want 2", len(transport.notifies))
	}
	for _, text := range transport.notifies {
		if text != noPriorCacheText {
			t.Errorf("notify text = %q, want %q", text, noPriorCacheText)
		}
	}
	if len(transport.edits) != 0 || len(transport.sent) != 0 {
		t.Errorf("refresh without cache edited/sent messages: edits=%d sent=%d",
			len(transport.edits), len(transport.sent))
	}
}

func TestDispatcher_RefreshReusesCachedSnapshot(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(shopOKBody))
	}))
	defer server.Close()

	transport := &fakeTransport{}
	shop := NewShopClient(server.URL)
	d := NewDispatcher(shop, NewConverter(), transport, nil)
	ctx := context.Background()

	d.HandleCommand(ctx, 1, "shop", "")
	if requests != 1 {
		t.Fatalf("requests after /shop = %d, want 1", requests)
	}

	d.HandleCallback(ctx, 1, 10, "cb-1", actionRefresh)

	if requests != 1 {
		t.Errorf("refresh re-fetched the origin: requests = %d, want 1", requests)
	}
	last := transport.edits[len(transport.edits)-1]
	if !strings.Contains(last.text, "ЕЖЕДНЕВНЫЙ МАГАЗИН") {
		t.Errorf("refresh final text = %q, want the full view", last.text)
	}
}

func TestDispatcher_UnknownCallbackIgnored(t *testing.T) {
	d, transport := offlineDispatcher()

	d.HandleCallback(context.Background(), 1, 10, "cb-1", "stale_action_from_old_build")

	if len(transport.sent)+len(transport.edits)+len(transport.notifies) != 0 {
		t.Error("unknown callback action produced outbound traffic, want silence")
	}
}

func TestDispatcher_UnknownCommandIgnored(t *testing.T) {
	d, transport := offlineDispatcher()

	d.HandleCommand(context.Background(), 1, "frobnicate", "")

	if len(transport.sent)+len(transport.edits) != 0 {
		t.Error("unknown command produced outbound traffic, want silence")
	}
}

func TestDispatcher_CommandResolvesPlaceholder(t *testing.T) {
	tests := []struct {
		command     string
		wantLoading string
		wantFinal   string
	}{
		{"shop", "🔄 Загружаю магазин...", "ЕЖЕДНЕВНЫЙ МАГАЗИН ПРЕДМЕТОВ"},
		{"daily", "✨ Загружаю ежедневные...", "ЕЖЕДНЕВНЫЕ ПРЕДМЕТЫ"},
		{"featured", "🌟 Загружаю новинки...", "НОВИНКИ И ИЗБРАННОЕ"},
		{"stats", "📊 Считаю статистику...", "Статистика магазина"},
		{"top", "🏆 Составляю топ...", "Топ-5 самых дорогих"},
		{"random", "🎲 Выбираю случайный предмет...", "Случайный предмет"},
		{"exchange", "💱 Загружаю курс...", "Курс V-Bucks к рублю"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			d, transport := offlineDispatcher()

			d.HandleCommand(context.Background(), 7, tt.command, "")

			if len(transport.sent) != 1 {
				t.Fatalf("sent = %d, want exactly one placeholder", len(transport.sent))
			}
			if transport.sent[0].text != tt.wantLoading {
				t.Errorf("placeholder = %q, want %q", transport.sent[0].text, tt.wantLoading)
			}
			if len(transport.edits) != 1 {
				t.Fatalf("edits = %d, want exactly one final edit", len(transport.edits))
			}
			edit := transport.edits[0]
			if edit.messageID != 1 {
				t.Errorf("edit targeted message %d, want the placeholder", edit.messageID)
			}
			if !strings.Contains(edit.text, tt.wantFinal) {
				t.Errorf("final text = %q, want it to contain %q", edit.text, tt.wantFinal)
			}
			// Every view carries the same control grid plus Back.
			if len(edit.kb) != 5 {
				t.Fatalf("final keyboard has %d rows, want 5", len(edit.kb))
			}
			backRow := edit.kb[len(edit.kb)-1]
			if len(backRow) != 1 || backRow[0].Action != actionMenu {
				t.Errorf("last keyboard row = %+v, want the Back control", backRow)
			}
		})
	}
}

func TestDispatcher_CallbackViewEditsInPlace(t *testing.T) {
	d, transport := offlineDispatcher()

	d.HandleCallback(context.Background(), 7, 33, "cb-1", actionStats)

	if len(transport.sent) != 0 {
		t.Errorf("callback view sent a new message, want edit-in-place only")
	}
	if len(transport.edits) != 2 {
		t.Fatalf("edits = %d, want loading then final", len(transport.edits))
	}
	if transport.edits[0].text != "📊 Считаю статистику..." {
		t.Errorf("first edit = %q, want the loading text", transport.edits[0].text)
	}
	final := transport.edits[1]
	if final.messageID != 33 {
		t.Errorf("final edit targeted message %d, want 33", final.messageID)
	}
	if !strings.Contains(final.text, "Статистика магазина") {
		t.Errorf("final text = %q, want the stats view", final.text)
	}
}

func TestDispatcher_MenuReturnsToRoot(t *testing.T) {
	d, transport := offlineDispatcher()

	d.HandleCallback(context.Background(), 7, 33, "cb-1", actionMenu)

	if len(transport.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(transport.edits))
	}
	edit := transport.edits[0]
	if edit.text != rootMenuText {
		t.Errorf("edit text = %q, want the root menu", edit.text)
	}
	// Root menu: view grid, site link, help row.
	if len(edit.kb) != 5 {
		t.Fatalf("root keyboard has %d rows, want 5", len(edit.kb))
	}
	if edit.kb[3][1].URL == "" {
		t.Error("root menu is missing the official site URL button")
	}
	if edit.kb[4][0].Action != actionHelp {
		t.Error("root menu is missing the help button")
	}
}

func TestDispatcher_StartCommand(t *testing.T) {
	d, transport := offlineDispatcher()

	d.HandleCommand(context.Background(), 7, "start", "")

	if len(transport.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(transport.sent))
	}
	if transport.sent[0].text != rootMenuText {
		t.Errorf("sent text = %q, want the root menu", transport.sent[0].text)
	}
	if len(transport.edits) != 0 {
		t.Error("/start edited a message, want a fresh one")
	}
}

func TestDispatcher_SearchCommand(t *testing.T) {
	d, transport := offlineDispatcher()
	ctx := context.Background()

	d.HandleCommand(ctx, 7, "search", "")
	if len(transport.sent) != 1 || transport.sent[0].text != searchHintText {
		t.Fatalf("empty /search should send the hint, got %+v", transport.sent)
	}
	if len(transport.edits) != 0 {
		t.Error("empty /search must not edit anything")
	}

	d.HandleCommand(ctx, 7, "search", "jin")
	if len(transport.sent) != 2 {
		t.Fatalf("sent = %d, want the hint plus one placeholder", len(transport.sent))
	}
	if transport.sent[1].text != "🔍 Ищу «jin»..." {
		t.Errorf("placeholder = %q, want the search loading text", transport.sent[1].text)
	}
	if len(transport.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(transport.edits))
	}
	// The sample snapshot contains Sung Jin-Woo, so the fixture fallback
	// still produces matches.
	if !strings.Contains(transport.edits[0].text, "Sung Jin-Woo") {
		t.Errorf("search result = %q, want a match from the sample shop", transport.edits[0].text)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	d, transport := offlineDispatcher()

	d.HandleCommand(context.Background(), 7, "help", "")

	if len(transport.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(transport.sent))
	}
	if !strings.Contains(transport.sent[0].text, "/search <текст>") {
		t.Errorf("help text = %q, want the command list", transport.sent[0].text)
	}
}

func TestDispatcher_HelpCallback(t *testing.T) {
	d, transport := offlineDispatcher()

	d.HandleCallback(context.Background(), 7, 33, "cb-1", actionHelp)

	if len(transport.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(transport.edits))
	}
	if !strings.Contains(transport.edits[0].text, "Быстрая помощь") {
		t.Errorf("help edit = %q, want the quick help", transport.edits[0].text)
	}
}

func TestDispatcher_NextUpdateText(t *testing.T) {
	transport := &fakeTransport{}
	shop := NewShopClient("http://127.0.0.1:0")
	d := NewDispatcher(shop, NewConverter(), transport, func() time.Duration {
		return 90 * time.Minute
	})

	d.HandleCommand(context.Background(), 7, "nextupdate", "")

	if len(transport.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(transport.sent))
	}
	if !strings.Contains(transport.sent[0].text, "**1 ч 30 мин**") {
		t.Errorf("nextupdate text = %q, want 1h30m", transport.sent[0].text)
	}
}
