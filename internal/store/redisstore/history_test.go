package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/suPer8Hu/health-chat/internal/chat"
)

func newTestCache(t *testing.T) (*HistoryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewWithClient(rdb, time.Hour), mr
}

func TestRecentTurns_MissOnEmpty(t *testing.T) {
	c, _ := newTestCache(t)

	turns, ok, err := c.RecentTurns(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if ok || len(turns) != 0 {
		t.Fatalf("expected miss, got ok=%v turns=%d", ok, len(turns))
	}
}

func TestStoreAndAppend_KeepsNewestWithinLimit(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	seed := []chat.ChatTurn{
		{ID: 1, UserID: "u1", Message: "m1", Response: "r1"},
		{ID: 2, UserID: "u1", Message: "m2", Response: "r2"},
	}
	if err := c.StoreTurns(ctx, "u1", seed, 3); err != nil {
		t.Fatalf("store: %v", err)
	}
	for id := uint64(3); id <= 4; id++ {
		if err := c.AppendTurn(ctx, chat.ChatTurn{ID: id, UserID: "u1", Message: "m", Response: "r"}, 3); err != nil {
			t.Fatalf("append %d: %v", id, err)
		}
	}

	turns, ok, err := c.RecentTurns(ctx, "u1", 3)
	if err != nil || !ok {
		t.Fatalf("recent: ok=%v err=%v", ok, err)
	}
	if len(turns) != 3 || turns[0].ID != 2 || turns[2].ID != 4 {
		t.Fatalf("unexpected turns %+v", turns)
	}
	if mr.TTL(historyKey("u1")) <= 0 {
		t.Fatalf("expected ttl on history key")
	}
}

func TestAppendTurn_SkipsUncachedUser(t *testing.T) {
	c, mr := newTestCache(t)

	if err := c.AppendTurn(context.Background(), chat.ChatTurn{ID: 9, UserID: "u2"}, 5); err != nil {
		t.Fatalf("append: %v", err)
	}
	if mr.Exists(historyKey("u2")) {
		t.Fatalf("append must not create a partial list")
	}
}

func TestRecentTurns_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	if _, err := mr.RPush(historyKey("u3"), "{not json"); err != nil {
		t.Fatalf("rpush: %v", err)
	}

	_, ok, err := c.RecentTurns(context.Background(), "u3", 5)
	if ok || err == nil {
		t.Fatalf("expected decode error miss, got ok=%v err=%v", ok, err)
	}
	if mr.Exists(historyKey("u3")) {
		t.Fatalf("corrupt list should be dropped")
	}
}
