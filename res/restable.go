package res

import (
  "fmt"
)

// 资源项标记（Entry.Flags）
const (
  EntryFlagComplex = 0x0001
  EntryFlagPublic  = 0x0002
)

// TypeChunk.Flags里的稀疏编码标记，本库不支持稀疏类型
const typeFlagSparse = 0x01

// 资源表根chunk：全局字符串池+资源包
type TableChunk struct {
  StrPool *StrPool

  // 资源包（和DecodeAny保留的未知chunk），按原顺序
  Children []Chunk
}

func (c *TableChunk) TypeId() uint16 {
  return ResTable
}

func (c *TableChunk) Packages() []*PackageChunk {
  var ret []*PackageChunk
  for _, child := range c.Children {
    if pkg, ok := child.(*PackageChunk); ok {
      ret = append(ret, pkg)
    }
  }
  return ret
}

func (p *parser) parseTable(start, headerSize, end uint32) Chunk {
  r := p.r
  r.readUint32()
  r.seek(start + headerSize)
  c := &TableChunk{}
  for _, child := range p.parseChildren(end) {
    if sp, ok := child.(*StrPool); ok && c.StrPool == nil {
      c.StrPool = sp
      continue
    }
    c.Children = append(c.Children, child)
  }
  return c
}

func (c *TableChunk) writeTo(w *bytesWriter) {
  start := beginChunk(w, ResTable)
  w.writeUint32(uint32(len(c.Packages())))
  endHeader(w, start)
  if c.StrPool != nil {
    c.StrPool.writeTo(w)
  }
  for _, child := range c.Children {
    child.writeTo(w)
  }
  endChunk(w, start)
}

// 资源包chunk，持有资源类型/资源项名称两个字符串池，
// 子chunk是type spec、type和library
type PackageChunk struct {
  // 包Id，用户包是0x7F，系统包是0x01
  Id uint32

  // 包名（原本固定256个字节的UTF-16，多余的0已去掉）
  Name string

  TypeIdOffset uint32

  // 资源类型字符串池，类型Id等于池索引+1
  TypeStrPool *StrPool

  // 资源项名称字符串池
  KeyStrPool *StrPool

  Children []Chunk
}

func (c *PackageChunk) TypeId() uint16 {
  return ResTablePackage
}

func (p *parser) parsePackage(start, headerSize, end uint32) Chunk {
  r := p.r
  id := r.readUint32()
  name := parsePackageName(r)
  typeStrPoolStart := r.readUint32()
  r.readUint32()
  keyStrPoolStart := r.readUint32()
  r.readUint32()
  var typeIdOffset uint32
  if headerSize >= 288 {
    typeIdOffset = r.readUint32()
  }
  r.seek(start + headerSize)
  if r.err != nil {
    return nil
  }

  c := &PackageChunk{Id: id, Name: name, TypeIdOffset: typeIdOffset}
  for r.err == nil && r.pos() < end {
    if end-r.pos() < 8 {
      if !allZero(r.data[r.pos():end]) {
        r.fail(fmt.Errorf("%w: stray bytes in package chunk", ErrInvalidHeader))
        return nil
      }
      r.seek(end)
      break
    }
    rel := r.pos() - start
    child := p.parse(end)
    if r.err != nil {
      return nil
    }
    if sp, ok := child.(*StrPool); ok {
      switch rel {
      case typeStrPoolStart:
        c.TypeStrPool = sp
        continue
      case keyStrPoolStart:
        c.KeyStrPool = sp
        continue
      }
    }
    c.Children = append(c.Children, child)
  }
  return c
}

func (c *PackageChunk) writeTo(w *bytesWriter) {
  start := beginChunk(w, ResTablePackage)
  w.writeUint32(c.Id)
  writePackageName(w, c.Name)
  poolStartsAt := w.pos()
  w.writeUint32(0)
  if c.TypeStrPool != nil {
    w.writeUint32(uint32(len(c.TypeStrPool.Strs)))
  } else {
    w.writeUint32(0)
  }
  w.writeUint32(0)
  if c.KeyStrPool != nil {
    w.writeUint32(uint32(len(c.KeyStrPool.Strs)))
  } else {
    w.writeUint32(0)
  }
  w.writeUint32(c.TypeIdOffset)
  endHeader(w, start)
  if c.TypeStrPool != nil {
    w.patchUint32(poolStartsAt, w.pos()-start)
    c.TypeStrPool.writeTo(w)
  }
  if c.KeyStrPool != nil {
    w.patchUint32(poolStartsAt+8, w.pos()-start)
    c.KeyStrPool.writeTo(w)
  }
  for _, child := range c.Children {
    child.writeTo(w)
  }
  endChunk(w, start)
}

func parsePackageName(r *bytesReader) string {
  raw := r.readN(256)
  if raw == nil {
    return ""
  }
  n := 0
  for ; n+1 < len(raw); n += 2 {
    if raw[n] == 0 && raw[n+1] == 0 {
      break
    }
  }
  b, e := utf16le.NewDecoder().Bytes(raw[:n])
  if e != nil {
    return ""
  }
  return string(b)
}

func writePackageName(w *bytesWriter, name string) {
  b, e := utf16le.NewEncoder().Bytes([]byte(name))
  if e != nil {
    b = nil
  }
  if len(b) > 254 {
    b = b[:254]
  }
  w.write(b)
  for i := len(b); i < 256; i++ {
    w.writeUint8(0)
  }
}

// type spec chunk，每个资源项一个配置变化掩码
type TypeSpecChunk struct {
  // 资源类型Id
  Id uint8

  Res0 uint8
  Res1 uint16

  // 资源项标记，长度等于资源项个数
  EntryFlags []uint32
}

func (c *TypeSpecChunk) TypeId() uint16 {
  return ResTableTypeSpec
}

func (p *parser) parseTypeSpec(start, headerSize, end uint32) Chunk {
  r := p.r
  id := r.readUint8()
  res0 := r.readUint8()
  res1 := r.readUint16()
  entryCount := r.readUint32()
  r.seek(start + headerSize)
  flags := r.readUint32Array(entryCount)
  if r.err != nil {
    return nil
  }
  return &TypeSpecChunk{Id: id, Res0: res0, Res1: res1, EntryFlags: flags}
}

func (c *TypeSpecChunk) writeTo(w *bytesWriter) {
  start := beginChunk(w, ResTableTypeSpec)
  w.writeUint8(c.Id)
  w.writeUint8(c.Res0)
  w.writeUint16(c.Res1)
  w.writeUint32(uint32(len(c.EntryFlags)))
  endHeader(w, start)
  w.writeUint32Array(c.EntryFlags)
  endChunk(w, start)
}

// type chunk，一个配置下的一组资源项，
// 资源项Id等于Entries的下标，nil表示该配置下没有这个资源项
type TypeChunk struct {
  // 资源类型Id
  Id uint8

  Flags uint8
  Res1  uint16

  // 配置描述
  Config *Config

  Entries []*Entry
}

func (c *TypeChunk) TypeId() uint16 {
  return ResTableType
}

func (p *parser) parseType(start, headerSize, end uint32) Chunk {
  r := p.r
  id := r.readUint8()
  flags := r.readUint8()
  res1 := r.readUint16()
  entryCount := r.readUint32()
  entryStart := r.readUint32()
  if flags&typeFlagSparse != 0 {
    if p.any {
      r.seek(start)
      return &Raw{Type: ResTableType, Data: r.readN(end - start)}
    }
    r.fail(fmt.Errorf("%w: sparse type chunk", ErrInvalidHeader))
    return nil
  }
  config := parseConfig(r)
  r.seek(start + headerSize)
  offsets := r.readUint32Array(entryCount)
  if r.err != nil {
    return nil
  }
  c := &TypeChunk{Id: id, Flags: flags, Res1: res1, Config: config}
  c.Entries = make([]*Entry, entryCount)
  for i, off := range offsets {
    if off == NoEntry {
      continue
    }
    r.seek(start + entryStart + off)
    c.Entries[i] = parseEntry(r)
    if r.err != nil {
      return nil
    }
  }
  return c
}

func (c *TypeChunk) writeTo(w *bytesWriter) {
  start := beginChunk(w, ResTableType)
  w.writeUint8(c.Id)
  w.writeUint8(c.Flags)
  w.writeUint16(c.Res1)
  w.writeUint32(uint32(len(c.Entries)))
  entryStartAt := w.pos()
  w.writeUint32(0)
  c.Config.writeTo(w)
  endHeader(w, start)
  offsetsAt := w.pos()
  for range c.Entries {
    w.writeUint32(0)
  }
  entryStart := w.pos() - start
  w.patchUint32(entryStartAt, entryStart)
  for i, entry := range c.Entries {
    if entry == nil {
      w.patchUint32(offsetsAt+uint32(i)*4, NoEntry)
      continue
    }
    w.patchUint32(offsetsAt+uint32(i)*4, w.pos()-start-entryStart)
    entry.writeTo(w)
  }
  endChunk(w, start)
}

// 资源项，Flags&EntryFlagComplex为0时Value有值，
// 否则Parent/Values有值
type Entry struct {
  Flags uint16

  // 资源项名称（资源包KeyStrPool里的索引）
  Key uint32

  Value *Value

  Parent uint32
  Values []MapValue
}

type Value struct {
  DataType uint8
  Data     uint32
}

type MapValue struct {
  Name  uint32
  Value Value
}

func parseEntry(r *bytesReader) *Entry {
  r.readUint16()
  flags := r.readUint16()
  key := r.readUint32()
  entry := &Entry{Flags: flags, Key: key}
  if flags&EntryFlagComplex == 0 {
    entry.Value = parseValue(r)
    return entry
  }
  entry.Parent = r.readUint32()
  count := r.readUint32()
  if r.err != nil {
    return nil
  }
  if count > r.remaining()/12 {
    r.fail(fmt.Errorf("%w: complex entry with %d values", ErrTruncated, count))
    return nil
  }
  entry.Values = make([]MapValue, count)
  for i := uint32(0); i < count; i++ {
    entry.Values[i].Name = r.readUint32()
    v := parseValue(r)
    if v == nil {
      return nil
    }
    entry.Values[i].Value = *v
  }
  return entry
}

func parseValue(r *bytesReader) *Value {
  size := r.readUint16()
  r.readUint8()
  dataType := r.readUint8()
  data := r.readUint32()
  if r.err != nil {
    return nil
  }
  if size < 8 {
    r.fail(fmt.Errorf("%w: value size=%d", ErrInvalidHeader, size))
    return nil
  }
  if size > 8 {
    r.readN(uint32(size) - 8)
  }
  return &Value{DataType: dataType, Data: data}
}

func (entry *Entry) writeTo(w *bytesWriter) {
  if entry.Flags&EntryFlagComplex == 0 {
    w.writeUint16(8)
    w.writeUint16(entry.Flags)
    w.writeUint32(entry.Key)
    entry.Value.writeTo(w)
    return
  }
  w.writeUint16(16)
  w.writeUint16(entry.Flags)
  w.writeUint32(entry.Key)
  w.writeUint32(entry.Parent)
  w.writeUint32(uint32(len(entry.Values)))
  for i := range entry.Values {
    w.writeUint32(entry.Values[i].Name)
    entry.Values[i].Value.writeTo(w)
  }
}

func (v *Value) writeTo(w *bytesWriter) {
  w.writeUint16(8)
  w.writeUint8(0)
  w.writeUint8(v.DataType)
  w.writeUint32(v.Data)
}

// library chunk，共享库的包Id映射
type LibraryChunk struct {
  Entries []LibraryEntry
}

type LibraryEntry struct {
  Id   uint32
  Name string
}

func (c *LibraryChunk) TypeId() uint16 {
  return ResTableLibrary
}

func (p *parser) parseLibrary(start, headerSize, end uint32) Chunk {
  r := p.r
  count := r.readUint32()
  r.seek(start + headerSize)
  if r.err != nil {
    return nil
  }
  if count > (end-r.pos())/260 {
    r.fail(fmt.Errorf("%w: library chunk with %d entries", ErrTruncated, count))
    return nil
  }
  c := &LibraryChunk{Entries: make([]LibraryEntry, count)}
  for i := uint32(0); i < count; i++ {
    c.Entries[i].Id = r.readUint32()
    c.Entries[i].Name = parsePackageName(r)
  }
  return c
}

func (c *LibraryChunk) writeTo(w *bytesWriter) {
  start := beginChunk(w, ResTableLibrary)
  w.writeUint32(uint32(len(c.Entries)))
  endHeader(w, start)
  for i := range c.Entries {
    w.writeUint32(c.Entries[i].Id)
    writePackageName(w, c.Entries[i].Name)
  }
  endChunk(w, start)
}
