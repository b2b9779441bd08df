package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Kind groups cache entries by the forge object they hold. Each kind is
// stored in its own subdirectory.
type Kind string

const (
	KindCommit      Kind = "commit"
	KindPullRequest Kind = "pull"
	KindPullCommits Kind = "pull-commits"
)

// Key identifies one forge object. Scope separates forge instances and is
// normally the API base URL.
type Key struct {
	Scope string
	Owner string
	Repo  string
	Kind  Kind
	ID    string
}

// String renders the key material. Owner and repo are case-insensitive on
// GitHub, so they are folded.
func (k Key) String() string {
	return strings.Join([]string{
		strings.TrimSuffix(k.Scope, "/"),
		strings.ToLower(k.Owner),
		strings.ToLower(k.Repo),
		string(k.Kind),
		k.ID,
	}, "|")
}

// Hash returns the file name stem for the key.
func (k Key) Hash() string {
	h := sha256.Sum256([]byte(k.String()))
	return hex.EncodeToString(h[:])
}

// Entry is the on-disk form of a cached response.
type Entry struct {
	Key      string          `json:"key"`
	Kind     Kind            `json:"kind"`
	StoredAt time.Time       `json:"storedAt"`
	Payload  json.RawMessage `json:"payload"`
}

// Cache stores immutable forge responses as JSON files under dir/<kind>/.
// A nil or disabled Cache misses on every read and drops every write.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

// New creates a Cache. An empty dir selects DefaultDir. ttlSeconds <= 0
// keeps entries until cleared.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if !enabled {
		return &Cache{now: time.Now}, nil
	}
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &Cache{dir: dir, ttl: ttl, enabled: true, now: time.Now}, nil
}

// Load decodes the entry for key into v. It reports false on a miss, an
// expired entry or an undecodable payload.
func (c *Cache) Load(key Key, v any) bool {
	if !c.Enabled() {
		return false
	}
	path := c.entryPath(key)
	entry, err := readEntry(path)
	if err != nil {
		return false
	}
	if c.expired(entry) {
		os.Remove(path)
		return false
	}
	return json.Unmarshal(entry.Payload, v) == nil
}

// Store encodes v as the entry for key. The write goes through a temp file
// so concurrent readers never see a partial entry.
func (c *Cache) Store(key Key, v any) error {
	if !c.Enabled() {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s entry: %w", key.Kind, err)
	}
	data, err := json.Marshal(Entry{
		Key:      key.Hash(),
		Kind:     key.Kind,
		StoredAt: c.now(),
		Payload:  payload,
	})
	if err != nil {
		return fmt.Errorf("encoding %s entry: %w", key.Kind, err)
	}

	dir := filepath.Join(c.dir, kindDir(key.Kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("creating cache entry: %w", err)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmp.Name(), c.entryPath(key))
	}
	if werr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", werr)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (c *Cache) Clear() (int, error) {
	return c.remove(func(Entry) bool { return true })
}

// Prune removes expired entries and returns how many were removed.
func (c *Cache) Prune() (int, error) {
	return c.remove(c.expired)
}

// Stats describes the cache contents.
type Stats struct {
	Dir        string       `json:"dir"`
	Entries    int          `json:"entries"`
	TotalBytes int64        `json:"totalBytes"`
	Expired    int          `json:"expired"`
	ByKind     map[Kind]int `json:"byKind"`
}

// Kinds returns the kinds present in s in a stable order.
func (s Stats) Kinds() []Kind {
	kinds := make([]Kind, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// GetStats walks the cache and counts entries per kind.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.Dir(), ByKind: map[Kind]int{}}
	err := c.walk(func(path string, info fs.FileInfo, entry Entry) error {
		stats.Entries++
		stats.TotalBytes += info.Size()
		stats.ByKind[entry.Kind]++
		if c.expired(entry) {
			stats.Expired++
		}
		return nil
	})
	return stats, err
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Enabled returns whether caching is enabled.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled && c.dir != ""
}

func (c *Cache) remove(match func(Entry) bool) (int, error) {
	var removed int
	err := c.walk(func(path string, _ fs.FileInfo, entry Entry) error {
		if match(entry) && os.Remove(path) == nil {
			removed++
		}
		return nil
	})
	return removed, err
}

// walk visits every readable entry file. Unreadable or foreign files are skipped.
func (c *Cache) walk(fn func(path string, info fs.FileInfo, entry Entry) error) error {
	if !c.Enabled() {
		return nil
	}
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		entry, err := readEntry(path)
		if err != nil {
			return nil
		}
		return fn(path, info, entry)
	})
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	return nil
}

func (c *Cache) expired(e Entry) bool {
	return c.ttl > 0 && c.now().Sub(e.StoredAt) > c.ttl
}

func (c *Cache) entryPath(key Key) string {
	return filepath.Join(c.dir, kindDir(key.Kind), key.Hash()+".json")
}

func kindDir(k Kind) string {
	if k == "" {
		return "misc"
	}
	return string(k)
}

func readEntry(path string) (Entry, error) {
	var entry Entry
	data, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, err
	}
	return entry, nil
}

// DefaultDir returns the platform-appropriate cache directory for prscan.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "prscan"), nil
	}
	base, err := os.UserCacheDir()
	if err == nil {
		return filepath.Join(base, "prscan"), nil
	}
	home, herr := os.UserHomeDir()
	if herr != nil {
		return "", fmt.Errorf("cannot determine cache directory: %w", err)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Local", "prscan"), nil
	}
	return filepath.Join(home, ".cache", "prscan"), nil
}
