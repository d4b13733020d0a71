package res

import (
  "fmt"

  "github.com/kwf2030/apk/conv"
  "golang.org/x/text/encoding/unicode"
)

// 字符串池标识
const (
  FlagSorted = 0x0001
  FlagUTF8   = 0x0100
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// 字符串池chunk，
// 同一个字符串只存一份，Intern返回已有索引或追加后的新索引，
// 编码（UTF-8或UTF-16）在创建时定好，池内所有字符串统一编码
type StrPool struct {
  Flags uint32

  // 字符串，按索引顺序
  Strs []string

  // 样式偏移和样式数据（原样保留，本库自己构造的池没有样式）
  StyleOffsets []uint32
  Styles       []byte

  index map[string]uint32
}

func NewStrPool(utf8 bool) *StrPool {
  p := &StrPool{index: make(map[string]uint32, 16)}
  if utf8 {
    p.Flags = FlagUTF8
  }
  return p
}

func (p *StrPool) Utf8() bool {
  return p.Flags&FlagUTF8 != 0
}

func (p *StrPool) Len() int {
  return len(p.Strs)
}

// 返回已有索引，没有则追加
func (p *StrPool) Intern(s string) uint32 {
  if i, ok := p.Find(s); ok {
    return i
  }
  i := uint32(len(p.Strs))
  p.Strs = append(p.Strs, s)
  p.index[s] = i
  return i
}

func (p *StrPool) Find(s string) (uint32, bool) {
  if p.index == nil {
    p.index = make(map[string]uint32, len(p.Strs))
    for i, str := range p.Strs {
      if _, ok := p.index[str]; !ok {
        p.index[str] = uint32(i)
      }
    }
  }
  i, ok := p.index[s]
  return i, ok
}

func (p *StrPool) Get(i uint32) (string, bool) {
  if i >= uint32(len(p.Strs)) {
    return "", false
  }
  return p.Strs[i], true
}

func (p *StrPool) TypeId() uint16 {
  return ResStrPool
}

func (p *StrPool) writeTo(w *bytesWriter) {
  start := beginChunk(w, ResStrPool)
  w.writeUint32(uint32(len(p.Strs)))
  w.writeUint32(uint32(len(p.StyleOffsets)))
  w.writeUint32(p.Flags)
  strStartAt := w.pos()
  w.writeUint32(0)
  w.writeUint32(0)
  endHeader(w, start)

  scratch := &bytesWriter{}
  offsets := make([]uint32, len(p.Strs))
  for i, s := range p.Strs {
    offsets[i] = scratch.pos()
    if p.Utf8() {
      writeStr8(scratch, s)
    } else {
      writeStr16(scratch, s)
    }
  }
  scratch.pad4()

  w.writeUint32Array(offsets)
  w.writeUint32Array(p.StyleOffsets)
  if len(p.Strs) > 0 {
    w.patchUint32(strStartAt, w.pos()-start)
  }
  w.write(scratch.bytes())
  if len(p.Styles) > 0 {
    w.patchUint32(strStartAt+4, w.pos()-start)
    w.write(p.Styles)
  }
  w.pad4()
  endChunk(w, start)
}

// UTF-8编码的字符串项：UTF-16长度+UTF-8长度（各1或2个字节）+内容+0x00
func writeStr8(w *bytesWriter, s string) {
  writeLen8(w, utf16Units(s))
  writeLen8(w, uint32(len(s)))
  w.write([]byte(s))
  w.writeUint8(0)
}

// UTF-16编码的字符串项：长度（1或2个u16）+UTF-16LE内容+0x0000
func writeStr16(w *bytesWriter, s string) {
  b, e := utf16le.NewEncoder().Bytes([]byte(s))
  if e != nil {
    b = nil
  }
  units := uint32(len(b) / 2)
  if units >= 0x8000 {
    w.writeUint16(uint16(0x8000 | units>>16))
  }
  w.writeUint16(uint16(units))
  w.write(b)
  w.writeUint16(0)
}

func writeLen8(w *bytesWriter, n uint32) {
  if n >= 0x80 {
    w.writeUint8(uint8(0x80 | n>>8))
  }
  w.writeUint8(uint8(n))
}

func utf16Units(s string) uint32 {
  b, e := utf16le.NewEncoder().Bytes([]byte(s))
  if e != nil {
    return uint32(len(s))
  }
  return uint32(len(b) / 2)
}

func (p *parser) parseStrPool(start, headerSize, end uint32) Chunk {
  r := p.r
  strCount := r.readUint32()
  styleCount := r.readUint32()
  flags := r.readUint32()
  strStart := r.readUint32()
  styleStart := r.readUint32()
  r.seek(start + headerSize)
  strOffsets := r.readUint32Array(strCount)
  styleOffsets := r.readUint32Array(styleCount)
  if r.err != nil {
    return nil
  }

  blockEnd := end
  if styleCount > 0 {
    blockEnd = start + styleStart
  }
  if strCount > 0 && (start+strStart > blockEnd || blockEnd > end) {
    r.fail(fmt.Errorf("%w: string pool bounds strStart=%d styleStart=%d", ErrInvalidHeader, strStart, styleStart))
    return nil
  }

  pool := &StrPool{Flags: flags, StyleOffsets: styleOffsets}
  if strCount > 0 {
    block := r.data[start+strStart : blockEnd]
    pool.Strs = make([]string, strCount)
    for i := uint32(0); i < strCount; i++ {
      var s string
      var e error
      if flags&FlagUTF8 != 0 {
        s, e = str8(block, strOffsets[i])
      } else {
        s, e = str16(block, strOffsets[i])
      }
      if e != nil {
        r.fail(e)
        return nil
      }
      pool.Strs[i] = s
    }
  }
  if styleCount > 0 {
    if start+styleStart > end {
      r.fail(fmt.Errorf("%w: style block beyond chunk", ErrInvalidHeader))
      return nil
    }
    pool.Styles = r.data[start+styleStart : end]
  }
  r.seek(end)
  return pool
}

func str8(block []byte, offset uint32) (string, error) {
  _, off, e := readLen8(block, offset)
  if e != nil {
    return "", e
  }
  n, off, e := readLen8(block, off)
  if e != nil {
    return "", e
  }
  if off+n > uint32(len(block)) {
    return "", fmt.Errorf("%w: utf8 string of %d bytes at %d", ErrInvalidHeader, n, offset)
  }
  return string(block[off : off+n]), nil
}

func str16(block []byte, offset uint32) (string, error) {
  if offset+2 > uint32(len(block)) {
    return "", fmt.Errorf("%w: utf16 length at %d", ErrInvalidHeader, offset)
  }
  units := uint32(conv.BytesToUint16L(block[offset:]))
  off := offset + 2
  if units&0x8000 != 0 {
    if off+2 > uint32(len(block)) {
      return "", fmt.Errorf("%w: utf16 long length at %d", ErrInvalidHeader, offset)
    }
    units = (units&0x7FFF)<<16 | uint32(conv.BytesToUint16L(block[off:]))
    off += 2
  }
  if off+units*2 > uint32(len(block)) {
    return "", fmt.Errorf("%w: utf16 string of %d units at %d", ErrInvalidHeader, units, offset)
  }
  b, e := utf16le.NewDecoder().Bytes(block[off : off+units*2])
  if e != nil {
    return "", fmt.Errorf("%w: utf16 decode at %d", ErrInvalidHeader, offset)
  }
  return string(b), nil
}

func readLen8(block []byte, offset uint32) (uint32, uint32, error) {
  if offset >= uint32(len(block)) {
    return 0, 0, fmt.Errorf("%w: utf8 length at %d", ErrInvalidHeader, offset)
  }
  n := uint32(block[offset])
  offset++
  if n&0x80 != 0 {
    if offset >= uint32(len(block)) {
      return 0, 0, fmt.Errorf("%w: utf8 long length at %d", ErrInvalidHeader, offset)
    }
    n = (n&0x7F)<<8 | uint32(block[offset])
    offset++
  }
  return n, offset, nil
}
