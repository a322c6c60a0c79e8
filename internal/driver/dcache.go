package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tighterror/tighterror/internal/backend/golang"
)

// diskCacheSchemaVersion changes whenever DiskPayload does.
const diskCacheSchemaVersion uint16 = 3

// Digest identifies one generation request.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache хранит отрендеренные файлы по ключу запроса генерации.
// Safe for concurrent use within one process; across processes entries are
// replaced atomically.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached generation result.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Output and SeparateFiles are the resolved main object knobs, so a
	// hit can re-resolve the destination without parsing the spec.
	Output        string
	SeparateFiles bool
	// Destination the files were named for; a hit is only valid when the
	// request still resolves to it.
	Dest Destination

	Files []CachedFile
}

// NewDiskPayload snapshots files for caching.
func NewDiskPayload(output string, separate bool, dest Destination, files []golang.File) *DiskPayload {
	p := &DiskPayload{
		Schema:        diskCacheSchemaVersion,
		Output:        output,
		SeparateFiles: separate,
		Dest:          dest,
		Files:         make([]CachedFile, len(files)),
	}
	for i, f := range files {
		p.Files[i] = CachedFile(f)
	}
	return p
}

// GoFiles returns the cached files.
func (p *DiskPayload) GoFiles() []golang.File {
	files := make([]golang.File, len(p.Files))
	for i, cf := range p.Files {
		files[i] = golang.File(cf)
	}
	return files
}

// CachedFile mirrors golang.File.
type CachedFile struct {
	Name    string
	Content []byte
	Test    bool
	Unit    string
}

// OpenDiskCache opens <user cache dir>/<app>, honoring XDG_CACHE_HOME.
func OpenDiskCache(app string) (*DiskCache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir is the cache root.
func (c *DiskCache) Dir() string { return c.dir }

// CacheKey hashes everything a generation result depends on. Parts are
// length-prefixed so adjacent parts cannot alias.
func CacheKey(parts ...[]byte) Digest {
	h := sha256.New()
	for _, p := range parts {
		_ = binary.Write(h, binary.LittleEndian, uint64(len(p)))
		h.Write(p)
	}
	return Digest(h.Sum(nil))
}

// entry is gen/<first byte>/<rest>.mp; the fan-out keeps directories small.
func (c *DiskCache) entry(key Digest) string {
	hexKey := key.String()
	return filepath.Join(c.dir, "gen", hexKey[:2], hexKey[2:]+".mp")
}

// Put stores payload under key, replacing any previous entry atomically.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	path := c.entry(key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return replaceFile(path, data, 0o644)
}

// Get loads the entry for key. Missing entries and entries written by
// another schema are misses, not errors.
func (c *DiskCache) Get(key Digest) (*DiskPayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	data, err := os.ReadFile(c.entry(key))
	c.mu.RUnlock()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	var payload DiskPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}

// DropAll removes every entry. The root is moved aside first so a
// concurrent run never reads a half-deleted tree.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	gen := filepath.Join(c.dir, "gen")
	trash, err := os.MkdirTemp(c.dir, "drop-*")
	if err != nil {
		return err
	}
	if err := os.Rename(gen, filepath.Join(trash, "gen")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_ = os.RemoveAll(trash)
		return err
	}
	return os.RemoveAll(trash)
}
