package res

import (
  "fmt"
)

const (
  tableEmpty = iota
  tableImported
  tableMerging
  tableSerialized
)

// 资源表，先Import平台基础表（只做Id目录，不进输出），
// 再Merge新chunk（已有Id保持不变，新Id确定性分配），
// Serialize只输出Merge进来的包，之后不能再改，
// 所有操作都是单线程顺序调用，Id分配只取决于调用顺序
type Table struct {
  state int

  // 导入的包，只读，Resolve用
  imported []*pkgIndex

  // 输出表和它的包索引
  chunk *TableChunk
  pkgs  []*pkgIndex
}

// 每个资源包的名称->Id索引
type pkgIndex struct {
  chunk   *PackageChunk
  types   map[string]uint8
  entries map[uint8]map[string]uint16
  next    map[uint8]uint16
}

func NewTable() *Table {
  return &Table{
    state: tableEmpty,
    chunk: &TableChunk{StrPool: NewStrPool(true)},
  }
}

// 导入序列化好的资源表（只能导入一次，必须在Merge之前）
func (t *Table) Import(data []byte) error {
  switch t.state {
  case tableSerialized:
    return ErrTableFinalized
  case tableImported, tableMerging:
    return ErrAlreadyImported
  }
  c, e := DecodeAny(data)
  if e != nil {
    return e
  }
  tc, ok := c.(*TableChunk)
  if !ok {
    return fmt.Errorf("%w: root chunk is 0x%04x, not a resource table", ErrMalformedTable, c.TypeId())
  }
  if tc.StrPool == nil {
    tc.StrPool = NewStrPool(true)
  }
  pkgs := make([]*pkgIndex, 0, len(tc.Packages()))
  for _, pkg := range tc.Packages() {
    idx, e := indexPackage(pkg)
    if e != nil {
      return e
    }
    pkgs = append(pkgs, idx)
  }
  t.imported = pkgs
  t.state = tableImported
  return nil
}

// 合并一个资源表或资源包chunk，chunk归Table所有（会被原地改写），
// 返回新分配的资源Id（不含已存在的），分配顺序即返回顺序
func (t *Table) Merge(c Chunk) ([]ResId, error) {
  switch t.state {
  case tableEmpty:
    return nil, fmt.Errorf("%w: import a base table before merging", ErrPackageNotFound)
  case tableSerialized:
    return nil, ErrTableFinalized
  }
  var srcPool *StrPool
  var pkgs []*PackageChunk
  switch src := c.(type) {
  case *TableChunk:
    srcPool = src.StrPool
    pkgs = src.Packages()
  case *PackageChunk:
    pkgs = []*PackageChunk{src}
  default:
    return nil, fmt.Errorf("%w: cannot merge chunk 0x%04x", ErrMalformedTable, c.TypeId())
  }
  t.state = tableMerging
  var ids []ResId
  for _, pkg := range pkgs {
    merged, e := t.mergePackage(srcPool, pkg)
    if e != nil {
      return nil, e
    }
    ids = append(ids, merged...)
  }
  return ids, nil
}

// 符号引用（如"mipmap"/"icon"）转资源Id，
// 先查Merge进来的包，再查导入的包
func (t *Table) Resolve(typeName, entryName string) (ResId, error) {
  for _, pkgs := range [][]*pkgIndex{t.pkgs, t.imported} {
    for _, pkg := range pkgs {
      tid, ok := pkg.types[typeName]
      if !ok {
        continue
      }
      if eid, ok := pkg.entries[tid][entryName]; ok {
        return MakeResId(uint8(pkg.chunk.Id), tid, eid), nil
      }
    }
  }
  return 0, fmt.Errorf("%w: %s/%s", ErrNotFound, typeName, entryName)
}

// 冻结并序列化输出表（只含Merge进来的包，导入的包不写出），
// 之后Merge/Serialize都会失败，Resolve仍然可用
func (t *Table) Serialize() ([]byte, error) {
  switch t.state {
  case tableEmpty:
    return nil, fmt.Errorf("%w: nothing imported", ErrPackageNotFound)
  case tableSerialized:
    return nil, ErrTableFinalized
  }
  t.state = tableSerialized
  return Encode(t.chunk), nil
}

func indexPackage(pkg *PackageChunk) (*pkgIndex, error) {
  if pkg.TypeStrPool == nil {
    pkg.TypeStrPool = NewStrPool(true)
  }
  if pkg.KeyStrPool == nil {
    pkg.KeyStrPool = NewStrPool(true)
  }
  idx := &pkgIndex{
    chunk:   pkg,
    types:   make(map[string]uint8, len(pkg.TypeStrPool.Strs)),
    entries: make(map[uint8]map[string]uint16, len(pkg.TypeStrPool.Strs)),
    next:    make(map[uint8]uint16, len(pkg.TypeStrPool.Strs)),
  }
  for i, name := range pkg.TypeStrPool.Strs {
    idx.types[name] = uint8(i + 1)
  }
  for _, child := range pkg.Children {
    tc, ok := child.(*TypeChunk)
    if !ok {
      continue
    }
    m := idx.entries[tc.Id]
    if m == nil {
      m = make(map[string]uint16, len(tc.Entries))
      idx.entries[tc.Id] = m
    }
    for eid, entry := range tc.Entries {
      if entry == nil {
        continue
      }
      name, ok := pkg.KeyStrPool.Get(entry.Key)
      if !ok {
        return nil, fmt.Errorf("%w: entry key %d beyond key pool", ErrMalformedTable, entry.Key)
      }
      if _, dup := m[name]; !dup {
        m[name] = uint16(eid)
      }
      if uint16(eid)+1 > idx.next[tc.Id] {
        idx.next[tc.Id] = uint16(eid) + 1
      }
    }
  }
  return idx, nil
}

func (t *Table) findPackage(name string) *pkgIndex {
  for _, pkg := range t.pkgs {
    if pkg.chunk.Name == name {
      return pkg
    }
  }
  return nil
}

func (t *Table) packageIdTaken(id uint32) bool {
  for _, pkgs := range [][]*pkgIndex{t.pkgs, t.imported} {
    for _, pkg := range pkgs {
      if pkg.chunk.Id == id {
        return true
      }
    }
  }
  return false
}

func (t *Table) mergePackage(srcPool *StrPool, src *PackageChunk) ([]ResId, error) {
  if target := t.findPackage(src.Name); target != nil {
    return t.mergeInto(target, srcPool, src)
  }
  return t.addPackage(srcPool, src)
}

// 新包：保留原Id（被占用或为0时从0x7F起分配），整包挂到表上
func (t *Table) addPackage(srcPool *StrPool, src *PackageChunk) ([]ResId, error) {
  if src.Id == 0 || t.packageIdTaken(src.Id) {
    id := uint32(0x7F)
    for t.packageIdTaken(id) {
      id++
    }
    src.Id = id
  }
  for _, child := range src.Children {
    tc, ok := child.(*TypeChunk)
    if !ok {
      continue
    }
    for _, entry := range tc.Entries {
      if entry == nil {
        continue
      }
      if e := t.remapEntry(srcPool, entry); e != nil {
        return nil, e
      }
    }
  }
  idx, e := indexPackage(src)
  if e != nil {
    return nil, e
  }
  t.chunk.Children = append(t.chunk.Children, src)
  t.pkgs = append(t.pkgs, idx)

  var ids []ResId
  seen := make(map[uint32]bool)
  for _, child := range src.Children {
    tc, ok := child.(*TypeChunk)
    if !ok {
      continue
    }
    for eid, entry := range tc.Entries {
      if entry == nil {
        continue
      }
      key := uint32(tc.Id)<<16 | uint32(eid)
      if seen[key] {
        continue
      }
      seen[key] = true
      ids = append(ids, MakeResId(uint8(src.Id), tc.Id, uint16(eid)))
    }
  }
  return ids, nil
}

// 已有包：逐个type chunk合并，
// 已存在的资源项Id保持不变，新资源项追加在已有Id之后
func (t *Table) mergeInto(target *pkgIndex, srcPool *StrPool, src *PackageChunk) ([]ResId, error) {
  var ids []ResId
  for _, child := range src.Children {
    switch sc := child.(type) {
    case *TypeSpecChunk:
      typeName, e := typeNameOf(src, sc.Id)
      if e != nil {
        return nil, e
      }
      tid, existed := target.types[typeName]
      if !existed {
        tid = t.ensureType(target, typeName)
        spec := &TypeSpecChunk{Id: tid, Res0: sc.Res0, Res1: sc.Res1, EntryFlags: sc.EntryFlags}
        target.chunk.Children = append(target.chunk.Children, spec)
      }
    case *TypeChunk:
      typeName, e := typeNameOf(src, sc.Id)
      if e != nil {
        return nil, e
      }
      tid := t.ensureType(target, typeName)
      merged, e := t.mergeTypeChunk(target, tid, srcPool, src, sc)
      if e != nil {
        return nil, e
      }
      ids = append(ids, merged...)
    case *LibraryChunk, *Raw:
      target.chunk.Children = append(target.chunk.Children, sc)
    }
  }
  for _, child := range target.chunk.Children {
    spec, ok := child.(*TypeSpecChunk)
    if !ok {
      continue
    }
    for uint16(len(spec.EntryFlags)) < target.next[spec.Id] {
      spec.EntryFlags = append(spec.EntryFlags, 0)
    }
  }
  return ids, nil
}

func (t *Table) ensureType(target *pkgIndex, typeName string) uint8 {
  if tid, ok := target.types[typeName]; ok {
    return tid
  }
  i := target.chunk.TypeStrPool.Intern(typeName)
  tid := uint8(i + 1)
  target.types[typeName] = tid
  target.entries[tid] = make(map[string]uint16, 4)
  return tid
}

func (t *Table) mergeTypeChunk(target *pkgIndex, tid uint8, srcPool *StrPool, src *PackageChunk, sc *TypeChunk) ([]ResId, error) {
  var ids []ResId
  if target.entries[tid] == nil {
    target.entries[tid] = make(map[string]uint16, len(sc.Entries))
  }
  dst := target.findTypeChunk(tid, sc.Config)
  if dst == nil {
    dst = &TypeChunk{Id: tid, Flags: sc.Flags, Res1: sc.Res1, Config: sc.Config}
    target.chunk.Children = append(target.chunk.Children, dst)
  }
  for _, entry := range sc.Entries {
    if entry == nil {
      continue
    }
    if src.KeyStrPool == nil {
      return nil, fmt.Errorf("%w: package %s has no key string pool", ErrMalformedTable, src.Name)
    }
    name, ok := src.KeyStrPool.Get(entry.Key)
    if !ok {
      return nil, fmt.Errorf("%w: entry key %d beyond key pool", ErrMalformedTable, entry.Key)
    }
    eid, existed := target.entries[tid][name]
    if !existed {
      eid = target.next[tid]
      target.next[tid]++
      target.entries[tid][name] = eid
      ids = append(ids, MakeResId(uint8(target.chunk.Id), tid, eid))
    }
    entry.Key = target.chunk.KeyStrPool.Intern(name)
    if e := t.remapEntry(srcPool, entry); e != nil {
      return nil, e
    }
    for uint16(len(dst.Entries)) <= eid {
      dst.Entries = append(dst.Entries, nil)
    }
    // 同名同配置重复合并时后者覆盖，Id不变
    dst.Entries[eid] = entry
  }
  return ids, nil
}

func (p *pkgIndex) findTypeChunk(tid uint8, config *Config) *TypeChunk {
  for _, child := range p.chunk.Children {
    tc, ok := child.(*TypeChunk)
    if ok && tc.Id == tid && tc.Config.equals(config) {
      return tc
    }
  }
  return nil
}

// 字符串值的池索引从源chunk的池换到表的全局池
func (t *Table) remapEntry(srcPool *StrPool, entry *Entry) error {
  if entry.Value != nil {
    if e := t.remapValue(srcPool, entry.Value); e != nil {
      return e
    }
  }
  for i := range entry.Values {
    if e := t.remapValue(srcPool, &entry.Values[i].Value); e != nil {
      return e
    }
  }
  return nil
}

func (t *Table) remapValue(srcPool *StrPool, v *Value) error {
  if v.DataType != DataStr {
    return nil
  }
  if srcPool == nil {
    return fmt.Errorf("%w: string value without a source pool", ErrMalformedTable)
  }
  s, ok := srcPool.Get(v.Data)
  if !ok {
    return fmt.Errorf("%w: string value %d beyond source pool", ErrMalformedTable, v.Data)
  }
  v.Data = t.chunk.StrPool.Intern(s)
  return nil
}

func typeNameOf(pkg *PackageChunk, tid uint8) (string, error) {
  if tid == 0 || pkg.TypeStrPool == nil || int(tid) > len(pkg.TypeStrPool.Strs) {
    return "", fmt.Errorf("%w: type id %d has no name", ErrMalformedTable, tid)
  }
  return pkg.TypeStrPool.Strs[tid-1], nil
}
