// 组装安装包：资源表、清单、dex、native库打成zip再签名
package apk

import (
  "archive/zip"
  "bytes"
  "errors"
  "fmt"
  "io"
  "os"
  "path/filepath"
  "strings"

  "github.com/kwf2030/apk/cache"
  "github.com/kwf2030/apk/manifest"
  "github.com/kwf2030/apk/mipmap"
  "github.com/kwf2030/apk/res"
  "github.com/kwf2030/apk/scaler"
)

// 图标资源名，清单没指定图标时默认引用它
const iconName = "icon"

var ErrNoBaseTable = errors.New("apk: no resources.arsc in platform jar")

type Apk struct {
  path string
  buf  bytes.Buffer
  zw   *zip.Writer
  cw   *countWriter
}

func New(path string) *Apk {
  a := &Apk{path: path}
  a.zw, a.cw = newZipWriter(&a.buf)
  return a
}

// 编译资源和清单：
// 导入androidJar里的平台资源表，合并图标的密度变体，
// 写入各密度的png、resources.arsc（未压缩且4字节对齐）和二进制清单
func (a *Apk) AddRes(m *manifest.Manifest, iconPath, androidJar string, c *cache.Cache) error {
  arsc, e := baseTable(androidJar, c)
  if e != nil {
    return e
  }
  t := res.NewTable()
  if e = t.Import(arsc); e != nil {
    return e
  }

  mm, e := mipmap.Compile(m.Package, iconName)
  if e != nil {
    return e
  }
  if _, e = t.Merge(mm.Chunk()); e != nil {
    return e
  }

  sc, e := scaler.Open(iconPath)
  if e != nil {
    return e
  }
  for _, v := range mm.Variants() {
    var img bytes.Buffer
    if e = sc.Write(&img, v.Size); e != nil {
      return e
    }
    if e = writeDeflated(a.zw, v.Path, &img); e != nil {
      return e
    }
  }

  data, e := t.Serialize()
  if e != nil {
    return e
  }
  if _, e = writeStored(a.zw, a.cw, "resources.arsc", data, 4); e != nil {
    return e
  }

  if m.Application.Icon == "" {
    m.Application.Icon = "@mipmap/" + iconName
  }
  xml, e := manifest.Compile(m, t)
  if e != nil {
    return e
  }
  return writeDeflated(a.zw, "AndroidManifest.xml", bytes.NewReader(xml))
}

func (a *Apk) AddDex(path string) error {
  return a.addFile("classes.dex", path)
}

// native库写到lib/<abi>/下
func (a *Apk) AddLib(t Target, path string) error {
  return a.addFile("lib/"+t.Abi()+"/"+filepath.Base(path), path)
}

func (a *Apk) AddFile(name, path string) error {
  return a.addFile(name, path)
}

// 递归添加目录，条目名是相对dir的路径
func (a *Apk) AddDir(dir string) error {
  return filepath.Walk(dir, func(path string, info os.FileInfo, e error) error {
    if e != nil || info.IsDir() {
      return e
    }
    rel, e := filepath.Rel(dir, path)
    if e != nil {
      return e
    }
    return a.addFile(filepath.ToSlash(rel), path)
  })
}

func (a *Apk) addFile(name, path string) error {
  f, e := os.Open(path)
  if e != nil {
    return e
  }
  defer f.Close()
  return writeDeflated(a.zw, name, f)
}

// 关闭zip，签名（s为nil则不签），写出到目标路径
func (a *Apk) Finish(s Signer) error {
  if e := a.zw.Close(); e != nil {
    return e
  }
  data := a.buf.Bytes()
  if s != nil {
    var e error
    if data, e = s.Sign(data); e != nil {
      return e
    }
  }
  return os.WriteFile(a.path, data, 0644)
}

// 从android.jar里取出平台的resources.arsc，
// 有缓存时按jar摘要读写缓存
func baseTable(jarPath string, c *cache.Cache) ([]byte, error) {
  var digest string
  if c != nil {
    var e error
    if digest, e = cache.Digest(jarPath); e == nil {
      if data, ok := c.Get(digest); ok {
        return data, nil
      }
    }
  }
  zr, e := zip.OpenReader(jarPath)
  if e != nil {
    return nil, fmt.Errorf("apk: open %s: %w", jarPath, e)
  }
  defer zr.Close()
  for _, f := range zr.File {
    if !strings.EqualFold(f.Name, "resources.arsc") {
      continue
    }
    r, e := f.Open()
    if e != nil {
      return nil, e
    }
    data, e := io.ReadAll(r)
    r.Close()
    if e != nil {
      return nil, e
    }
    if c != nil && digest != "" {
      c.Put(digest, data)
    }
    return data, nil
  }
  return nil, ErrNoBaseTable
}
