package server

import (
	"errors"
	"testing"

	"dreidel/internal/config"
	"dreidel/internal/game"
)

func newStoredRoom(t *testing.T, store *Store, code string, names ...string) *Room {
	t.Helper()
	if len(names) == 0 {
		t.Fatal("need at least one player")
	}
	state := game.NewRoom(names[0], game.DefaultSeedPot, game.DefaultSeedCoins)
	for _, name := range names[1:] {
		if err := state.AddPlayer(name); err != nil {
			t.Fatalf("seat %s: %v", name, err)
		}
	}
	return store.Create(&Room{Code: code, State: state})
}

func TestSubscribePushesImmediately(t *testing.T) {
	store := NewStore(config.Default())
	newStoredRoom(t, store, "1234", "Ada")

	var docs []map[string]any
	unsubscribe, ok := store.Subscribe("1234", func(doc map[string]any) {
		docs = append(docs, doc)
	})
	if !ok {
		t.Fatal("expected subscription to a live room")
	}
	defer unsubscribe()

	if len(docs) != 1 {
		t.Fatalf("expected one immediate push, got %d", len(docs))
	}
	if docs[0]["room_code"] != "1234" {
		t.Fatalf("expected document for room 1234, got %#v", docs[0]["room_code"])
	}
}

func TestSubscribeSeesEveryWrite(t *testing.T) {
	store := NewStore(config.Default())
	newStoredRoom(t, store, "1234", "Ada")

	var docs []map[string]any
	unsubscribe, ok := store.Subscribe("1234", func(doc map[string]any) {
		docs = append(docs, doc)
	})
	if !ok {
		t.Fatal("expected subscription to a live room")
	}
	defer unsubscribe()

	if _, err := store.Update("1234", func(room *Room) error {
		return room.State.AddPlayer("Bob")
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected the write pushed, got %d docs", len(docs))
	}
	players, _ := docs[1]["players"].(map[string]any)
	if len(players) != 2 {
		t.Fatalf("expected two seated players in the push, got %#v", docs[1]["players"])
	}
}

func TestUnsubscribeStopsPushes(t *testing.T) {
	store := NewStore(config.Default())
	newStoredRoom(t, store, "1234", "Ada")

	pushes := 0
	unsubscribe, ok := store.Subscribe("1234", func(map[string]any) { pushes++ })
	if !ok {
		t.Fatal("expected subscription to a live room")
	}
	unsubscribe()

	if _, err := store.Update("1234", func(room *Room) error {
		return room.State.AddPlayer("Bob")
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if pushes != 1 {
		t.Fatalf("expected only the initial push, got %d", pushes)
	}
}

func TestUpdateErrorPublishesNothing(t *testing.T) {
	store := NewStore(config.Default())
	room := newStoredRoom(t, store, "1234", "Ada")
	versionBefore := room.Version

	pushes := 0
	unsubscribe, _ := store.Subscribe("1234", func(map[string]any) { pushes++ })
	defer unsubscribe()

	boom := errors.New("boom")
	if _, err := store.Update("1234", func(*Room) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected closure error back, got %v", err)
	}
	if room.Version != versionBefore {
		t.Fatalf("expected version untouched, got %d", room.Version)
	}
	if pushes != 1 {
		t.Fatalf("expected no push after a failed update, got %d", pushes)
	}
}

func TestUpdateUnknownRoom(t *testing.T) {
	store := NewStore(config.Default())
	if _, err := store.Update("0000", func(*Room) error { return nil }); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestCreateCollisionReplacesRoom(t *testing.T) {
	store := NewStore(config.Default())
	newStoredRoom(t, store, "1234", "Ada")

	var latest map[string]any
	unsubscribe, _ := store.Subscribe("1234", func(doc map[string]any) { latest = doc })
	defer unsubscribe()

	newStoredRoom(t, store, "1234", "Cam")

	players, _ := latest["players"].(map[string]any)
	if _, seated := players["Cam"]; !seated {
		t.Fatalf("expected watchers to see the replacement room, got %#v", latest["players"])
	}
	room, ok := store.Get("1234")
	if !ok || room.State.Turn != "Cam" {
		t.Fatalf("expected the replacement room stored, got %#v", room)
	}
}

func TestSnapshotUnknownRoom(t *testing.T) {
	store := NewStore(config.Default())
	if _, ok := store.Snapshot("0000"); ok {
		t.Fatal("expected no snapshot for an unknown room")
	}
}
