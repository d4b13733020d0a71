package scaler

import (
  "bytes"
  "image"
  "image/color"
  "image/png"
  "os"
  "path/filepath"
  "testing"
)

func testImage(size int) image.Image {
  img := image.NewRGBA(image.Rect(0, 0, size, size))
  for y := 0; y < size; y++ {
    for x := 0; x < size; x++ {
      img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x7F, A: 0xFF})
    }
  }
  return img
}

func TestWrite(t *testing.T) {
  s := New(testImage(512))
  for _, size := range []int{48, 72, 96, 144, 192} {
    var buf bytes.Buffer
    if e := s.Write(&buf, size); e != nil {
      t.Fatal(e)
      return
    }
    img, e := png.Decode(&buf)
    if e != nil {
      t.Fatal(e)
      return
    }
    b := img.Bounds()
    if b.Dx() != size || b.Dy() != size {
      t.Fatalf("scaled to %dx%d, expected %d", b.Dx(), b.Dy(), size)
    }
  }
}

func TestWriteBadSize(t *testing.T) {
  s := New(testImage(16))
  var buf bytes.Buffer
  if e := s.Write(&buf, 0); e == nil {
    t.Fatal("size 0 accepted")
  }
}

func TestOpen(t *testing.T) {
  path := filepath.Join(t.TempDir(), "icon.png")
  f, e := os.Create(path)
  if e != nil {
    t.Fatal(e)
    return
  }
  if e = png.Encode(f, testImage(64)); e != nil {
    t.Fatal(e)
    return
  }
  f.Close()

  s, e := Open(path)
  if e != nil {
    t.Fatal(e)
    return
  }
  if s.Bounds().Dx() != 64 {
    t.Fatalf("bounds=%v", s.Bounds())
  }

  if _, e = Open(filepath.Join(t.TempDir(), "missing.png")); e == nil {
    t.Fatal("missing file opened")
  }
}
