package res

import (
  "errors"
  "testing"

  "github.com/google/go-cmp/cmp"
  "github.com/google/go-cmp/cmp/cmpopts"
)

// 带全局池、简单/复合资源项、library chunk的资源表
func testTableChunk() *TableChunk {
  pool := NewStrPool(true)
  typePool := NewStrPool(true)
  typePool.Intern("attr")
  typePool.Intern("string")
  keyPool := NewStrPool(true)

  pkg := &PackageChunk{Id: 0x01, Name: "android", TypeStrPool: typePool, KeyStrPool: keyPool}

  attrSpec := &TypeSpecChunk{Id: 1, EntryFlags: []uint32{0, 0}}
  attrType := &TypeChunk{Id: 1, Config: &Config{Rest: make([]byte, 20)}}
  attrType.Entries = []*Entry{
    {Key: keyPool.Intern("label"), Value: &Value{DataType: DataIntDec, Data: 1}},
    {
      Flags:  EntryFlagComplex,
      Key:    keyPool.Intern("theme"),
      Parent: 0,
      Values: []MapValue{{Name: 0x01000000, Value: Value{DataType: DataIntHex, Data: 0x10}}},
    },
  }

  strSpec := &TypeSpecChunk{Id: 2, EntryFlags: []uint32{0, 0}}
  strType := &TypeChunk{Id: 2, Config: &Config{Rest: make([]byte, 20)}}
  strType.Entries = []*Entry{
    {Key: keyPool.Intern("app_name"), Value: &Value{DataType: DataStr, Data: pool.Intern("demo")}},
    nil,
  }

  lib := &LibraryChunk{Entries: []LibraryEntry{{Id: 0x02, Name: "android.shared"}}}
  pkg.Children = []Chunk{attrSpec, attrType, strSpec, strType, lib}
  return &TableChunk{StrPool: pool, Children: []Chunk{pkg}}
}

func TestTableRoundTrip(t *testing.T) {
  c1 := testTableChunk()
  data1 := Encode(c1)
  c2, e := Decode(data1)
  if e != nil {
    t.Fatal(e)
    return
  }
  if diff := cmp.Diff(c1, c2, cmpopts.IgnoreUnexported(StrPool{})); diff != "" {
    t.Fatalf("decoded table differs:\n%s", diff)
  }
  data2 := Encode(c2)
  if string(data1) != string(data2) {
    t.Fatal("re-encoded bytes differ")
  }
}

func TestXmlRoundTrip(t *testing.T) {
  pool := NewStrPool(true)
  name := pool.Intern("icon")
  uri := pool.Intern("http://schemas.android.com/apk/res/android")
  prefix := pool.Intern("android")
  el := pool.Intern("manifest")
  c1 := &XmlChunk{Children: []Chunk{
    pool,
    &ResourceMapChunk{Ids: []uint32{0x01010002}},
    &StartNamespaceChunk{LineNumber: 1, Comment: NoEntry, Prefix: prefix, Uri: uri},
    &StartElementChunk{
      LineNumber: 2, Comment: NoEntry, Namespace: NoEntry, Name: el,
      Attrs: []*Attr{{Namespace: uri, Name: name, RawValue: NoEntry, DataType: DataIntDec, Data: 7}},
    },
    &EndElementChunk{LineNumber: 2, Comment: NoEntry, Namespace: NoEntry, Name: el},
    &EndNamespaceChunk{LineNumber: 2, Comment: NoEntry, Prefix: prefix, Uri: uri},
  }}
  data1 := Encode(c1)
  c2, e := Decode(data1)
  if e != nil {
    t.Fatal(e)
    return
  }
  if diff := cmp.Diff(c1, c2, cmpopts.IgnoreUnexported(StrPool{})); diff != "" {
    t.Fatalf("decoded xml differs:\n%s", diff)
  }
  data2 := Encode(c2)
  if string(data1) != string(data2) {
    t.Fatal("re-encoded bytes differ")
  }
}

// 任意截断都必须报错，不能成功也不能panic
func TestDecodeTruncated(t *testing.T) {
  data := Encode(testTableChunk())
  for i := 0; i < len(data); i++ {
    if _, e := Decode(data[:i]); e == nil {
      t.Fatalf("truncation at %d decoded without error", i)
    }
  }
}

func TestDecodeTrailingBytes(t *testing.T) {
  data := Encode(testTableChunk())
  _, e := Decode(append(data, 0x00))
  if !errors.Is(e, ErrInvalidHeader) {
    t.Fatalf("e=%v", e)
  }
}

func TestDecodeUnknownChunk(t *testing.T) {
  data := []byte{
    0x42, 0x00, // type
    0x08, 0x00, // headerSize
    0x0C, 0x00, 0x00, 0x00, // size
    0xDE, 0xAD, 0xBE, 0xEF,
  }
  _, e := Decode(data)
  if !errors.Is(e, ErrUnknownChunkType) {
    t.Fatalf("e=%v", e)
  }
  c, e := DecodeAny(data)
  if e != nil {
    t.Fatal(e)
    return
  }
  raw, ok := c.(*Raw)
  if !ok {
    t.Fatalf("decoded chunk is 0x%04x", c.TypeId())
    return
  }
  if raw.Type != 0x0042 {
    t.Fatalf("Type=0x%04x", raw.Type)
  }
  if string(Encode(raw)) != string(data) {
    t.Fatal("re-encoded bytes differ")
  }
}

func TestDecodeBadHeader(t *testing.T) {
  // headerSize大于size
  data := []byte{0x01, 0x00, 0x20, 0x00, 0x10, 0x00, 0x00, 0x00}
  _, e := Decode(data)
  if !errors.Is(e, ErrTruncated) && !errors.Is(e, ErrInvalidHeader) {
    t.Fatalf("e=%v", e)
  }
}
