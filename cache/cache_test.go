package cache

import (
  "os"
  "path/filepath"
  "testing"
)

func TestPutGet(t *testing.T) {
  c, e := Open(filepath.Join(t.TempDir(), "cache.db"))
  if e != nil {
    t.Fatal(e)
    return
  }
  defer c.Close()

  if _, ok := c.Get("k"); ok {
    t.Fatal("empty cache returned a value")
  }
  if e = c.Put("k", []byte("v1")); e != nil {
    t.Fatal(e)
    return
  }
  data, ok := c.Get("k")
  if !ok || string(data) != "v1" {
    t.Fatalf("data=%q ok=%v", data, ok)
  }

  if e = c.Put("k", []byte("v2")); e != nil {
    t.Fatal(e)
    return
  }
  if data, _ = c.Get("k"); string(data) != "v2" {
    t.Fatalf("data=%q", data)
  }
}

func TestReopen(t *testing.T) {
  path := filepath.Join(t.TempDir(), "cache.db")
  c, e := Open(path)
  if e != nil {
    t.Fatal(e)
    return
  }
  if e = c.Put("k", []byte("v")); e != nil {
    t.Fatal(e)
    return
  }
  c.Close()

  c, e = Open(path)
  if e != nil {
    t.Fatal(e)
    return
  }
  defer c.Close()
  if data, ok := c.Get("k"); !ok || string(data) != "v" {
    t.Fatalf("data=%q ok=%v", data, ok)
  }
}

func TestDigest(t *testing.T) {
  path := filepath.Join(t.TempDir(), "f")
  if e := os.WriteFile(path, []byte("hello"), 0644); e != nil {
    t.Fatal(e)
    return
  }
  d1, e := Digest(path)
  if e != nil {
    t.Fatal(e)
    return
  }
  // sha256("hello")
  if d1 != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
    t.Fatalf("digest=%s", d1)
  }
}
