package res

import (
  "fmt"
)

// 二进制资源格式里的一个chunk节点，
// 每种chunk类型对应一个具体结构体，子chunk递归嵌套
type Chunk interface {
  TypeId() uint16
  writeTo(w *bytesWriter)
}

// 未识别的chunk，原样保留全部字节（包括header），
// 只有DecodeAny会产生它，再次编码时原样写出
type Raw struct {
  Type uint16
  Data []byte
}

func (c *Raw) TypeId() uint16 {
  return c.Type
}

func (c *Raw) writeTo(w *bytesWriter) {
  w.write(c.Data)
}

// 严格解析，遇到未识别的chunk类型返回ErrUnknownChunkType
func Decode(data []byte) (Chunk, error) {
  return decode(data, false)
}

// 宽松解析，未识别的chunk类型解析为*Raw原样保留，
// 用于读取更新平台版本产生的文件
func DecodeAny(data []byte) (Chunk, error) {
  return decode(data, true)
}

func decode(data []byte, any bool) (Chunk, error) {
  p := &parser{r: newBytesReader(data), any: any}
  c := p.parse(uint32(len(data)))
  if p.r.err != nil {
    return nil, p.r.err
  }
  if p.r.pos() != uint32(len(data)) {
    return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidHeader, uint32(len(data))-p.r.pos())
  }
  return c, nil
}

func Encode(c Chunk) []byte {
  w := &bytesWriter{}
  c.writeTo(w)
  return w.bytes()
}

type parser struct {
  r   *bytesReader
  any bool
}

// 每种chunk的最小header大小
func minHeaderSize(typ uint16) uint32 {
  switch typ {
  case ResStrPool:
    return 28
  case ResTable:
    return 12
  case ResXml, ResXmlResourceMap:
    return 8
  case ResTablePackage:
    return 284
  case ResTableTypeSpec:
    return 16
  case ResTableType:
    return 20
  case ResTableLibrary:
    return 12
  case ResXmlStartNamespace, ResXmlEndNamespace, ResXmlStartElement, ResXmlEndElement, ResXmlCData:
    return 16
  }
  return 8
}

// 读取一个chunk（递归包含全部子chunk），
// limit是父chunk的结束位置，子chunk不能越过它
func (p *parser) parse(limit uint32) Chunk {
  r := p.r
  start := r.pos()
  if limit-start < 8 {
    r.fail(fmt.Errorf("%w: %d bytes left for chunk header", ErrTruncated, limit-start))
    return nil
  }
  typ := r.readUint16()
  headerSize := uint32(r.readUint16())
  size := r.readUint32()
  if r.err != nil {
    return nil
  }
  if size < 8 || headerSize < 8 || headerSize > size {
    r.fail(fmt.Errorf("%w: type=0x%04x headerSize=%d size=%d", ErrInvalidHeader, typ, headerSize, size))
    return nil
  }
  if start+size > uint32(len(r.data)) {
    r.fail(fmt.Errorf("%w: chunk 0x%04x declares %d bytes, %d remain", ErrTruncated, typ, size, uint32(len(r.data))-start))
    return nil
  }
  if start+size > limit {
    r.fail(fmt.Errorf("%w: chunk 0x%04x overlaps parent bound", ErrInvalidHeader, typ))
    return nil
  }
  if headerSize < minHeaderSize(typ) {
    r.fail(fmt.Errorf("%w: chunk 0x%04x headerSize=%d below minimum %d", ErrInvalidHeader, typ, headerSize, minHeaderSize(typ)))
    return nil
  }
  end := start + size

  var c Chunk
  switch typ {
  case ResStrPool:
    c = p.parseStrPool(start, headerSize, end)
  case ResTable:
    c = p.parseTable(start, headerSize, end)
  case ResTablePackage:
    c = p.parsePackage(start, headerSize, end)
  case ResTableTypeSpec:
    c = p.parseTypeSpec(start, headerSize, end)
  case ResTableType:
    c = p.parseType(start, headerSize, end)
  case ResTableLibrary:
    c = p.parseLibrary(start, headerSize, end)
  case ResXml:
    c = p.parseXml(start, headerSize, end)
  case ResXmlResourceMap:
    c = p.parseResourceMap(start, headerSize, end)
  case ResXmlStartNamespace, ResXmlEndNamespace, ResXmlStartElement, ResXmlEndElement, ResXmlCData:
    c = p.parseXmlNode(typ, start, headerSize, end)
  default:
    if !p.any {
      r.fail(fmt.Errorf("%w: 0x%04x", ErrUnknownChunkType, typ))
      return nil
    }
    r.seek(start)
    c = &Raw{Type: typ, Data: r.readN(size)}
  }
  if r.err != nil {
    return nil
  }
  if r.pos() > end {
    r.fail(fmt.Errorf("%w: chunk 0x%04x overran its declared size", ErrInvalidHeader, typ))
    return nil
  }
  r.seek(end)
  return c
}

// 解析子chunk直到父chunk结束位置，容忍末尾的4字节对齐填充
func (p *parser) parseChildren(end uint32) []Chunk {
  r := p.r
  var children []Chunk
  for r.err == nil && r.pos() < end {
    if end-r.pos() < 8 {
      if !allZero(r.data[r.pos():end]) {
        r.fail(fmt.Errorf("%w: %d stray bytes between chunks", ErrInvalidHeader, end-r.pos()))
        return nil
      }
      r.seek(end)
      break
    }
    c := p.parse(end)
    if r.err != nil {
      return nil
    }
    children = append(children, c)
  }
  return children
}

func allZero(data []byte) bool {
  for _, b := range data {
    if b != 0 {
      return false
    }
  }
  return true
}

// header写入后返回起始位置，内容写完后用endChunk回填大小
func beginChunk(w *bytesWriter, typ uint16) uint32 {
  start := w.pos()
  w.writeUint16(typ)
  w.writeUint16(0)
  w.writeUint32(0)
  return start
}

func endHeader(w *bytesWriter, start uint32) {
  w.patchUint16(start+2, uint16(w.pos()-start))
}

func endChunk(w *bytesWriter, start uint32) {
  w.patchUint32(start+4, w.pos()-start)
}
