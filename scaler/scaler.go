// 图标缩放：解码一张源图，按需要的边长重采样输出png
package scaler

import (
  "fmt"
  "image"
  _ "image/jpeg"
  "image/png"
  "io"
  "os"

  "golang.org/x/image/draw"
)

type Scaler struct {
  src image.Image
}

func Open(path string) (*Scaler, error) {
  f, e := os.Open(path)
  if e != nil {
    return nil, e
  }
  defer f.Close()
  img, _, e := image.Decode(f)
  if e != nil {
    return nil, fmt.Errorf("scaler: decode %s: %w", path, e)
  }
  return &Scaler{src: img}, nil
}

func New(img image.Image) *Scaler {
  return &Scaler{src: img}
}

func (s *Scaler) Bounds() image.Rectangle {
  return s.src.Bounds()
}

// 缩放成size*size的png写入w
func (s *Scaler) Write(w io.Writer, size int) error {
  if size <= 0 {
    return fmt.Errorf("scaler: invalid size %d", size)
  }
  dst := image.NewRGBA(image.Rect(0, 0, size, size))
  draw.CatmullRom.Scale(dst, dst.Bounds(), s.src, s.src.Bounds(), draw.Over, nil)
  return png.Encode(w, dst)
}
