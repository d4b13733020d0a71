// 生成mipmap类型的图标资源：每个密度桶一个type chunk，
// 资源项的值是字符串（指向包内的png路径）
package mipmap

import (
  "errors"
  "fmt"

  "github.com/kwf2030/apk/res"
)

// type spec里的配置变化掩码：密度
const configDensity = 0x0100

var ErrInvalidName = errors.New("mipmap: invalid resource name")

// 密度桶，按密度从低到高
var buckets = []struct {
  qualifier string
  density   uint16
  size      int
}{
  {"mdpi", res.DensityMedium, 48},
  {"hdpi", res.DensityHigh, 72},
  {"xhdpi", res.DensityXHigh, 96},
  {"xxhdpi", res.DensityXXHigh, 144},
  {"xxxhdpi", res.DensityXXXHigh, 192},
}

// 一个密度变体：包内路径和对应的像素边长
type Variant struct {
  Path    string
  Size    int
  Density uint16
}

type Mipmap struct {
  chunk    *res.TableChunk
  variants []Variant
}

// 为资源名name生成全部密度变体的资源表chunk，
// 包名pkg只用于资源包header，合并时按名称匹配目标包
func Compile(pkg, name string) (*Mipmap, error) {
  if name == "" || !validName(name) {
    return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
  }

  pool := res.NewStrPool(true)
  typePool := res.NewStrPool(true)
  typePool.Intern("mipmap")
  keyPool := res.NewStrPool(true)
  keyPool.Intern(name)

  p := &res.PackageChunk{
    Id:          0x7F,
    Name:        pkg,
    TypeStrPool: typePool,
    KeyStrPool:  keyPool,
  }
  p.Children = append(p.Children, &res.TypeSpecChunk{Id: 1, EntryFlags: []uint32{configDensity}})

  variants := make([]Variant, 0, len(buckets))
  for _, b := range buckets {
    path := fmt.Sprintf("res/mipmap-%s/%s.png", b.qualifier, name)
    variants = append(variants, Variant{Path: path, Size: b.size, Density: b.density})
    entry := &res.Entry{
      Key:   0,
      Value: &res.Value{DataType: res.DataStr, Data: pool.Intern(path)},
    }
    p.Children = append(p.Children, &res.TypeChunk{
      Id:      1,
      Config:  res.NewDensityConfig(b.density),
      Entries: []*res.Entry{entry},
    })
  }

  c := &res.TableChunk{StrPool: pool, Children: []res.Chunk{p}}
  return &Mipmap{chunk: c, variants: variants}, nil
}

// 合并进资源表的chunk
func (m *Mipmap) Chunk() *res.TableChunk {
  return m.chunk
}

// 密度变体，按密度从低到高
func (m *Mipmap) Variants() []Variant {
  return m.variants
}

// 资源名只允许[a-z0-9_]且以字母开头
func validName(name string) bool {
  for i := 0; i < len(name); i++ {
    c := name[i]
    switch {
    case c >= 'a' && c <= 'z':
    case c >= '0' && c <= '9':
      if i == 0 {
        return false
      }
    case c == '_':
      if i == 0 {
        return false
      }
    default:
      return false
    }
  }
  return true
}
