package res

import (
  "errors"
  "fmt"
  "testing"
)

// 用户包：一个mipmap类型、两个密度配置、一个资源项
func testUserTable(pkg, key string) *TableChunk {
  pool := NewStrPool(true)
  typePool := NewStrPool(true)
  typePool.Intern("mipmap")
  keyPool := NewStrPool(true)

  p := &PackageChunk{Id: 0x7F, Name: pkg, TypeStrPool: typePool, KeyStrPool: keyPool}
  p.Children = append(p.Children, &TypeSpecChunk{Id: 1, EntryFlags: []uint32{0x0100}})
  for _, d := range []uint16{DensityMedium, DensityHigh} {
    entry := &Entry{
      Key:   keyPool.Intern(key),
      Value: &Value{DataType: DataStr, Data: pool.Intern(fmt.Sprintf("res/mipmap-%d/%s.png", d, key))},
    }
    p.Children = append(p.Children, &TypeChunk{Id: 1, Config: NewDensityConfig(d), Entries: []*Entry{entry}})
  }
  return &TableChunk{StrPool: pool, Children: []Chunk{p}}
}

func TestTableImportResolve(t *testing.T) {
  tbl := NewTable()
  if e := tbl.Import(Encode(testTableChunk())); e != nil {
    t.Fatal(e)
    return
  }
  id, e := tbl.Resolve("attr", "label")
  if e != nil {
    t.Fatal(e)
    return
  }
  if id != MakeResId(0x01, 1, 0) {
    t.Fatalf("id=%s", id)
  }
  id, e = tbl.Resolve("string", "app_name")
  if e != nil {
    t.Fatal(e)
    return
  }
  if id != MakeResId(0x01, 2, 0) {
    t.Fatalf("id=%s", id)
  }
  if _, e = tbl.Resolve("attr", "missing"); !errors.Is(e, ErrNotFound) {
    t.Fatalf("e=%v", e)
  }
}

func TestTableImportTwice(t *testing.T) {
  tbl := NewTable()
  data := Encode(testTableChunk())
  if e := tbl.Import(data); e != nil {
    t.Fatal(e)
    return
  }
  if e := tbl.Import(data); !errors.Is(e, ErrAlreadyImported) {
    t.Fatalf("e=%v", e)
  }
}

func TestTableImportRejectsNonTable(t *testing.T) {
  tbl := NewTable()
  if e := tbl.Import(Encode(NewStrPool(true))); !errors.Is(e, ErrMalformedTable) {
    t.Fatalf("e=%v", e)
  }
}

func TestTableMergeBeforeImport(t *testing.T) {
  tbl := NewTable()
  _, e := tbl.Merge(testUserTable("demo", "icon"))
  if !errors.Is(e, ErrPackageNotFound) {
    t.Fatalf("e=%v", e)
  }
}

func TestTableMergeNewPackage(t *testing.T) {
  tbl := NewTable()
  if e := tbl.Import(Encode(testTableChunk())); e != nil {
    t.Fatal(e)
    return
  }
  ids, e := tbl.Merge(testUserTable("demo", "icon"))
  if e != nil {
    t.Fatal(e)
    return
  }
  // 两个密度配置共享一个资源项Id
  if len(ids) != 1 || ids[0] != MakeResId(0x7F, 1, 0) {
    t.Fatalf("ids=%v", ids)
  }
  id, e := tbl.Resolve("mipmap", "icon")
  if e != nil {
    t.Fatal(e)
    return
  }
  if id != ids[0] {
    t.Fatalf("Resolve=%s, merged=%s", id, ids[0])
  }

  data, e := tbl.Serialize()
  if e != nil {
    t.Fatal(e)
    return
  }
  c, e := Decode(data)
  if e != nil {
    t.Fatal(e)
    return
  }
  // 输出表只含合并进来的包，导入的android包不写出
  pkgs := c.(*TableChunk).Packages()
  if len(pkgs) != 1 {
    t.Fatalf("serialized table has %d packages", len(pkgs))
  }
  if pkgs[0].Name != "demo" || pkgs[0].Id != 0x7F {
    t.Fatalf("pkg=%s id=0x%02x", pkgs[0].Name, pkgs[0].Id)
  }
}

func TestTableMergeIdStability(t *testing.T) {
  tbl := NewTable()
  if e := tbl.Import(Encode(testTableChunk())); e != nil {
    t.Fatal(e)
    return
  }
  ids, e := tbl.Merge(testUserTable("demo", "icon"))
  if e != nil {
    t.Fatal(e)
    return
  }
  if len(ids) != 1 {
    t.Fatalf("ids=%v", ids)
  }

  // 同名资源项重复合并不产生新Id
  again, e := tbl.Merge(testUserTable("demo", "icon"))
  if e != nil {
    t.Fatal(e)
    return
  }
  if len(again) != 0 {
    t.Fatalf("re-merge allocated ids %v", again)
  }

  // 新资源项拿下一个Id
  more, e := tbl.Merge(testUserTable("demo", "banner"))
  if e != nil {
    t.Fatal(e)
    return
  }
  if len(more) != 1 || more[0] != MakeResId(0x7F, 1, 1) {
    t.Fatalf("ids=%v", more)
  }
}

// 相同的调用序列必须产生字节级相同的输出
func TestTableDeterminism(t *testing.T) {
  build := func() []byte {
    tbl := NewTable()
    if e := tbl.Import(Encode(testTableChunk())); e != nil {
      t.Fatal(e)
    }
    if _, e := tbl.Merge(testUserTable("demo", "icon")); e != nil {
      t.Fatal(e)
    }
    if _, e := tbl.Merge(testUserTable("demo", "banner")); e != nil {
      t.Fatal(e)
    }
    data, e := tbl.Serialize()
    if e != nil {
      t.Fatal(e)
    }
    return data
  }
  d1 := build()
  d2 := build()
  if string(d1) != string(d2) {
    t.Fatal("same sequence produced different bytes")
  }
}

func TestTableFinalized(t *testing.T) {
  tbl := NewTable()
  if e := tbl.Import(Encode(testTableChunk())); e != nil {
    t.Fatal(e)
    return
  }
  if _, e := tbl.Serialize(); e != nil {
    t.Fatal(e)
    return
  }
  if _, e := tbl.Merge(testUserTable("demo", "icon")); !errors.Is(e, ErrTableFinalized) {
    t.Fatalf("e=%v", e)
  }
  if _, e := tbl.Serialize(); !errors.Is(e, ErrTableFinalized) {
    t.Fatalf("e=%v", e)
  }

  // Resolve在冻结后仍然可用，编译清单要用
  if _, e := tbl.Resolve("attr", "label"); e != nil {
    t.Fatal(e)
  }
}
