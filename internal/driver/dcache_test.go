package driver_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/tighterror/tighterror/internal/driver"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	c, err := driver.OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := driver.CacheKey([]byte("spec"), []byte("test=true"))
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("empty cache: ok=%t err=%v", ok, err)
	}

	dest := driver.Destination{File: "errs.go"}
	if err := c.Put(key, driver.NewDiskPayload("errs.go", false, dest, files())); err != nil {
		t.Fatalf("Put: %v", err)
	}
	p, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%t err=%v", ok, err)
	}
	if p.Output != "errs.go" || p.SeparateFiles || p.Dest != dest {
		t.Fatalf("payload = %+v", p)
	}
	got := p.GoFiles()
	want := files()
	if len(got) != len(want) {
		t.Fatalf("got %d files", len(got))
	}
	for i := range want {
		if got[i].Name != want[i].Name || got[i].Test != want[i].Test || got[i].Unit != want[i].Unit || !bytes.Equal(got[i].Content, want[i].Content) {
			t.Fatalf("file %d = %+v", i, got[i])
		}
	}

	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatal("hit after DropAll")
	}
}

func TestCacheKey(t *testing.T) {
	a := driver.CacheKey([]byte("ab"), []byte("c"))
	b := driver.CacheKey([]byte("a"), []byte("bc"))
	if a == b {
		t.Fatal("part boundaries must change the key")
	}
	if a != driver.CacheKey([]byte("ab"), []byte("c")) {
		t.Fatal("key is not deterministic")
	}
}

func TestNilDiskCache(t *testing.T) {
	var c *driver.DiskCache
	if err := c.Put(driver.Digest{}, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(driver.Digest{}); ok || err != nil {
		t.Fatalf("nil cache: ok=%t err=%v", ok, err)
	}
}
