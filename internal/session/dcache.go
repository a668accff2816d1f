package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"typecore/internal/diag"
)

// Current schema version - increment when UnitPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest identifies one unit's input content.
type Digest [sha256.Size]byte

// HashUnit digests a unit's name and input bytes into a cache key.
func HashUnit(name string, input []byte) Digest {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write(input)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// IsSHA256 performs a basic sanity check that the digest is a
// non-zero value.
func IsSHA256(d Digest) bool {
	var z Digest
	return d != z
}

// UnitPayload stores one checked unit's outcome so an unchanged unit
// can skip re-checking.
type UnitPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Name   string
	Broken bool

	// Diagnostics, flattened to plain integers for stable encoding.
	Severities []uint8
	Codes      []uint16
	Reasons    [][]CachedReason
}

// CachedReason mirrors diag.Reason field for field.
type CachedReason struct {
	Kind   uint8
	Source uint32
	Target uint32
	Name   uint32
}

// NewUnitPayload flattens a result's bag into a cacheable payload.
func NewUnitPayload(res Result) *UnitPayload {
	items := res.Bag.Items()
	p := &UnitPayload{
		Schema:     diskCacheSchemaVersion,
		Name:       res.Name,
		Broken:     res.Bag.HasErrors(),
		Severities: make([]uint8, len(items)),
		Codes:      make([]uint16, len(items)),
		Reasons:    make([][]CachedReason, len(items)),
	}
	for i, d := range items {
		p.Severities[i] = uint8(d.Severity)
		p.Codes[i] = uint16(d.Code)
		rs := make([]CachedReason, len(d.Reasons))
		for j, r := range d.Reasons {
			rs[j] = CachedReason{
				Kind:   uint8(r.Kind),
				Source: r.Source,
				Target: r.Target,
				Name:   r.Name,
			}
		}
		p.Reasons[i] = rs
	}
	return p
}

// Restore rebuilds the cached diagnostics into a fresh bag.
func (p *UnitPayload) Restore(maxDiagnostics int) Result {
	bag := diag.NewBag(maxDiagnostics)
	for i := range p.Codes {
		rs := make([]diag.Reason, len(p.Reasons[i]))
		for j, r := range p.Reasons[i] {
			rs[j] = diag.Reason{
				Kind:   diag.ReasonKind(r.Kind),
				Source: r.Source,
				Target: r.Target,
				Name:   r.Name,
			}
		}
		bag.Add(diag.Diagnostic{
			Severity: diag.Severity(p.Severities[i]),
			Code:     diag.Code(p.Codes[i]),
			Reasons:  rs,
		})
	}
	return Result{Name: p.Name, Bag: bag}
}

// DiskCache stores unit outcomes keyed by input digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes a disk cache at the standard XDG
// location for the named application.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt opens a cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) *DiskCache {
	return &DiskCache{dir: dir}
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "units", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *UnitPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A stale
// schema counts as a miss.
func (c *DiskCache) Get(key Digest, out *UnitPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.dir)
}
