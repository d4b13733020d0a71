package apk

import (
  "archive/zip"
  "fmt"
  "hash/crc32"
  "io"

  "github.com/klauspost/compress/flate"
  "github.com/kwf2030/apk/conv"
)

// zipalign用的extra字段Id，内容是补齐用的0
const alignExtraId = 0xd935

// 记录写入底层流的字节数，
// 未压缩条目对齐时要知道数据在文件里的绝对偏移
type countWriter struct {
  w io.Writer
  n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
  n, e := c.w.Write(p)
  c.n += int64(n)
  return n, e
}

func newZipWriter(w io.Writer) (*zip.Writer, *countWriter) {
  cw := &countWriter{w: w}
  zw := zip.NewWriter(cw)
  zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
    return flate.NewWriter(out, flate.BestCompression)
  })
  return zw, cw
}

// 写一个未压缩条目，数据起始偏移对齐到align字节，
// 对齐靠local header的extra字段填0实现，返回数据偏移
func writeStored(zw *zip.Writer, cw *countWriter, name string, data []byte, align int64) (int64, error) {
  // Flush后cw.n才是当前条目local header的准确位置
  if e := zw.Flush(); e != nil {
    return 0, e
  }
  fh := &zip.FileHeader{
    Name:               name,
    Method:             zip.Store,
    CRC32:              crc32.ChecksumIEEE(data),
    CompressedSize64:   uint64(len(data)),
    UncompressedSize64: uint64(len(data)),
  }
  if align > 1 {
    headerEnd := cw.n + 30 + int64(len(name)) + 4
    pad := (align - headerEnd%align) % align
    extra := make([]byte, 4+pad)
    conv.PutUint16L(extra, alignExtraId)
    conv.PutUint16L(extra[2:], uint16(pad))
    fh.Extra = extra
  }
  offset := cw.n + 30 + int64(len(name)) + int64(len(fh.Extra))
  w, e := zw.CreateRaw(fh)
  if e != nil {
    return 0, e
  }
  if _, e = w.Write(data); e != nil {
    return 0, e
  }
  if e := zw.Flush(); e != nil {
    return 0, e
  }
  if align > 1 && offset%align != 0 {
    return 0, fmt.Errorf("apk: %s at offset %d, not %d-aligned", name, offset, align)
  }
  return offset, nil
}

func writeDeflated(zw *zip.Writer, name string, r io.Reader) error {
  w, e := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
  if e != nil {
    return e
  }
  _, e = io.Copy(w, r)
  return e
}
