package apk

import (
  "bytes"
  "io"
  "testing"

  "archive/zip"
)

// 各种条目名长度下，未压缩条目的数据都要落在4字节边界上
func TestWriteStoredAlignment(t *testing.T) {
  var buf bytes.Buffer
  zw, cw := newZipWriter(&buf)

  names := []string{"a", "ab", "abc", "abcd", "resources.arsc", "assets/some/long/path.bin"}
  for i, name := range names {
    if i%2 == 1 {
      // 中间穿插压缩条目，打乱偏移
      if e := writeDeflated(zw, name+".deflated", bytes.NewReader(bytes.Repeat([]byte{0xAB}, 33))); e != nil {
        t.Fatal(e)
        return
      }
    }
    offset, e := writeStored(zw, cw, name, []byte("data-"+name), 4)
    if e != nil {
      t.Fatal(e)
      return
    }
    if offset%4 != 0 {
      t.Fatalf("%s at offset %d", name, offset)
    }
  }
  if e := zw.Close(); e != nil {
    t.Fatal(e)
    return
  }

  zr, e := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
  if e != nil {
    t.Fatal(e)
    return
  }
  for _, f := range zr.File {
    if f.Method != zip.Store {
      continue
    }
    offset, e := f.DataOffset()
    if e != nil {
      t.Fatal(e)
      return
    }
    if offset%4 != 0 {
      t.Fatalf("%s at offset %d after close", f.Name, offset)
    }
    r, e := f.Open()
    if e != nil {
      t.Fatal(e)
      return
    }
    data, e := io.ReadAll(r)
    r.Close()
    if e != nil {
      t.Fatal(e)
      return
    }
    if string(data) != "data-"+f.Name {
      t.Fatalf("%s content=%q", f.Name, data)
    }
  }
}

func TestVersionCode(t *testing.T) {
  v, e := ParseVersion("1.2.3")
  if e != nil {
    t.Fatal(e)
    return
  }
  if v.Code() != 1<<16|2<<8|3 {
    t.Fatalf("code=%d", v.Code())
  }
  if v.String() != "1.2.3" {
    t.Fatalf("string=%s", v.String())
  }
  for _, s := range []string{"", "1", "1.2", "1.2.3.4", "1.2.x", "1.2.256", "1.-2.3"} {
    if _, e = ParseVersion(s); e == nil {
      t.Fatalf("%q parsed", s)
    }
  }
}

func TestParseTarget(t *testing.T) {
  cases := map[string]Target{
    "arm":         TargetArm,
    "armeabi-v7a": TargetArm,
    "arm64":       TargetArm64,
    "arm64-v8a":   TargetArm64,
    "x86":         TargetX86,
    "x64":         TargetX64,
    "x86_64":      TargetX64,
  }
  for s, want := range cases {
    got, e := ParseTarget(s)
    if e != nil || got != want {
      t.Fatalf("ParseTarget(%q)=%v, %v", s, got, e)
    }
  }
  if _, e := ParseTarget("mips"); e == nil {
    t.Fatal("mips parsed")
  }
  if TargetArm64.Abi() != "arm64-v8a" {
    t.Fatalf("abi=%s", TargetArm64.Abi())
  }
}
