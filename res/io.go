package res

import (
  "bytes"
  "fmt"

  "github.com/kwf2030/apk/conv"
)

// 带边界检查的reader，
// 读越界时记录ErrTruncated并返回零值，后续读取不再生效
type bytesReader struct {
  data []byte
  off  uint32
  err  error
}

func newBytesReader(data []byte) *bytesReader {
  return &bytesReader{data: data}
}

func (r *bytesReader) pos() uint32 {
  return r.off
}

func (r *bytesReader) remaining() uint32 {
  return uint32(len(r.data)) - r.off
}

func (r *bytesReader) fail(e error) {
  if r.err == nil {
    r.err = e
  }
}

func (r *bytesReader) seek(off uint32) {
  if r.err != nil {
    return
  }
  if off > uint32(len(r.data)) {
    r.fail(fmt.Errorf("%w: seek to %d beyond %d", ErrTruncated, off, len(r.data)))
    return
  }
  r.off = off
}

func (r *bytesReader) readN(n uint32) []byte {
  if r.err != nil || n == 0 {
    return nil
  }
  if r.off+n > uint32(len(r.data)) || r.off+n < r.off {
    r.fail(fmt.Errorf("%w: need %d bytes at %d, have %d", ErrTruncated, n, r.off, len(r.data)))
    return nil
  }
  ret := r.data[r.off : r.off+n]
  r.off += n
  return ret
}

func (r *bytesReader) readUint8() uint8 {
  b := r.readN(1)
  if b == nil {
    return 0
  }
  return b[0]
}

func (r *bytesReader) readUint16() uint16 {
  b := r.readN(2)
  if b == nil {
    return 0
  }
  return conv.BytesToUint16L(b)
}

func (r *bytesReader) readUint32() uint32 {
  b := r.readN(4)
  if b == nil {
    return 0
  }
  return conv.BytesToUint32L(b)
}

func (r *bytesReader) readUint32Array(count uint32) []uint32 {
  if r.err != nil || count == 0 {
    return nil
  }
  if count > r.remaining()/4 {
    r.fail(fmt.Errorf("%w: uint32 array of %d at %d", ErrTruncated, count, r.off))
    return nil
  }
  ret := make([]uint32, count)
  for i := uint32(0); i < count; i++ {
    ret[i] = r.readUint32()
  }
  return ret
}

// writer基于内存buffer，chunk的Size/HeaderSize都是写完内容后回填的，
// 构造chunk时不需要预先算大小
type bytesWriter struct {
  buf bytes.Buffer
}

func (w *bytesWriter) pos() uint32 {
  return uint32(w.buf.Len())
}

func (w *bytesWriter) bytes() []byte {
  return w.buf.Bytes()
}

func (w *bytesWriter) write(data []byte) {
  w.buf.Write(data)
}

func (w *bytesWriter) writeUint8(n uint8) {
  w.buf.WriteByte(n)
}

func (w *bytesWriter) writeUint16(n uint16) {
  w.buf.Write(conv.Uint16ToBytesL(n))
}

func (w *bytesWriter) writeUint32(n uint32) {
  w.buf.Write(conv.Uint32ToBytesL(n))
}

func (w *bytesWriter) writeUint32Array(arr []uint32) {
  for _, n := range arr {
    w.writeUint32(n)
  }
}

func (w *bytesWriter) patchUint16(off uint32, n uint16) {
  conv.PutUint16L(w.buf.Bytes()[off:off+2], n)
}

func (w *bytesWriter) patchUint32(off uint32, n uint32) {
  conv.PutUint32L(w.buf.Bytes()[off:off+4], n)
}

// 补0对齐到4字节
func (w *bytesWriter) pad4() {
  for w.pos()%4 != 0 {
    w.buf.WriteByte(0)
  }
}
