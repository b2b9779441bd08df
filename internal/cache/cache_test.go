package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type pullPayload struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

func pullKey(n string) Key {
	return Key{Scope: "https://api.github.com", Owner: "org", Repo: "repo", Kind: KindPullRequest, ID: n}
}

func newTestCache(t *testing.T, ttlSeconds int) *Cache {
	t.Helper()
	c, err := New(true, t.TempDir(), ttlSeconds)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return c
}

func TestCache_StoreLoad(t *testing.T) {
	c := newTestCache(t, 86400)
	key := pullKey("42")

	var got pullPayload
	if c.Load(key, &got) {
		t.Error("expected miss before store")
	}
	if err := c.Store(key, pullPayload{Number: 42, Title: "Add feature"}); err != nil {
		t.Fatalf("Store error: %v", err)
	}
	if !c.Load(key, &got) {
		t.Fatal("expected hit after store")
	}
	if got.Number != 42 || got.Title != "Add feature" {
		t.Errorf("loaded %+v", got)
	}

	path := filepath.Join(c.Dir(), "pull", key.Hash()+".json")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("entry not stored under its kind directory: %v", err)
	}
}

func TestCache_StoreLeavesNoTempFiles(t *testing.T) {
	c := newTestCache(t, 0)
	for i := 0; i < 3; i++ {
		if err := c.Store(pullKey("1"), pullPayload{Number: 1}); err != nil {
			t.Fatalf("Store error: %v", err)
		}
	}
	entries, err := os.ReadDir(filepath.Join(c.Dir(), "pull"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || strings.HasSuffix(entries[0].Name(), ".tmp") {
		t.Errorf("unexpected files: %v", entries)
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	c := newTestCache(t, 60)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return start }

	if err := c.Store(pullKey("7"), pullPayload{Number: 7}); err != nil {
		t.Fatal(err)
	}
	var got pullPayload
	c.now = func() time.Time { return start.Add(59 * time.Second) }
	if !c.Load(pullKey("7"), &got) {
		t.Error("entry should still be fresh")
	}
	c.now = func() time.Time { return start.Add(2 * time.Minute) }
	if c.Load(pullKey("7"), &got) {
		t.Error("entry should have expired")
	}
	if _, err := os.Stat(filepath.Join(c.Dir(), "pull", pullKey("7").Hash()+".json")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed on read")
	}
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c := newTestCache(t, 0)
	c.now = func() time.Time { return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC) }
	if err := c.Store(pullKey("1"), pullPayload{Number: 1}); err != nil {
		t.Fatal(err)
	}
	c.now = time.Now
	var got pullPayload
	if !c.Load(pullKey("1"), &got) {
		t.Error("entry without TTL should never expire")
	}
}

func TestCache_Disabled(t *testing.T) {
	c, err := New(false, t.TempDir(), 60)
	if err != nil {
		t.Fatal(err)
	}
	if c.Enabled() {
		t.Error("Enabled() = true")
	}
	if err := c.Store(pullKey("1"), pullPayload{Number: 1}); err != nil {
		t.Errorf("Store on disabled cache: %v", err)
	}
	var got pullPayload
	if c.Load(pullKey("1"), &got) {
		t.Error("disabled cache returned a hit")
	}

	var nilCache *Cache
	if nilCache.Load(pullKey("1"), &got) || nilCache.Store(pullKey("1"), got) != nil {
		t.Error("nil cache should behave as disabled")
	}
}

func TestCache_UndecodablePayloadIsMiss(t *testing.T) {
	c := newTestCache(t, 0)
	if err := c.Store(pullKey("1"), "a string"); err != nil {
		t.Fatal(err)
	}
	var got pullPayload
	if c.Load(pullKey("1"), &got) {
		t.Error("payload of the wrong shape should be a miss")
	}
}

func TestCache_ClearAndPrune(t *testing.T) {
	c := newTestCache(t, 60)
	old := time.Now().Add(-time.Hour)
	c.now = func() time.Time { return old }
	c.Store(pullKey("1"), pullPayload{Number: 1})
	c.Store(Key{Owner: "org", Repo: "repo", Kind: KindCommit, ID: strings.Repeat("a", 40)}, map[string]string{"sha": "a"})
	c.now = time.Now
	c.Store(pullKey("2"), pullPayload{Number: 2})

	// Foreign files are left alone.
	if err := os.WriteFile(filepath.Join(c.Dir(), "notes.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := c.Prune()
	if err != nil || n != 2 {
		t.Errorf("Prune() = %d, %v; want 2", n, err)
	}
	n, err = c.Clear()
	if err != nil || n != 1 {
		t.Errorf("Clear() = %d, %v; want 1", n, err)
	}
	if _, err := os.Stat(filepath.Join(c.Dir(), "notes.txt")); err != nil {
		t.Error("Clear removed a non-cache file")
	}
}

func TestCache_GetStats(t *testing.T) {
	c := newTestCache(t, 60)
	c.now = func() time.Time { return time.Now().Add(-time.Hour) }
	c.Store(pullKey("1"), pullPayload{Number: 1})
	c.now = time.Now
	c.Store(pullKey("2"), pullPayload{Number: 2})
	c.Store(Key{Owner: "org", Repo: "repo", Kind: KindPullCommits, ID: "2"}, []string{"c1"})

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats.Entries != 3 || stats.Expired != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByKind[KindPullRequest] != 2 || stats.ByKind[KindPullCommits] != 1 {
		t.Errorf("ByKind = %v", stats.ByKind)
	}
	if stats.TotalBytes <= 0 {
		t.Error("TotalBytes should be positive")
	}
	kinds := stats.Kinds()
	if len(kinds) != 2 || kinds[0] != KindPullRequest || kinds[1] != KindPullCommits {
		t.Errorf("Kinds() = %v", kinds)
	}
}

func TestKey(t *testing.T) {
	a := Key{Scope: "https://api.github.com/", Owner: "Org", Repo: "Repo", Kind: KindCommit, ID: "abc"}
	b := Key{Scope: "https://api.github.com", Owner: "org", Repo: "repo", Kind: KindCommit, ID: "abc"}
	if a.Hash() != b.Hash() {
		t.Error("keys differing only in owner case or trailing slash should match")
	}
	if len(a.Hash()) != 64 {
		t.Errorf("hash length = %d, want 64", len(a.Hash()))
	}

	c := b
	c.Kind = KindPullRequest
	if c.Hash() == b.Hash() {
		t.Error("different kinds must not collide")
	}
	d := b
	d.Scope = "https://ghe.example.com/api/v3"
	if d.Hash() == b.Hash() {
		t.Error("different scopes must not collide")
	}
}

func TestDefaultDir_XDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "prscan") {
		t.Errorf("DefaultDir() = %q", dir)
	}
}
