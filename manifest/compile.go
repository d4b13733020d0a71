package manifest

import (
  "errors"
  "fmt"
  "strings"

  "github.com/kwf2030/apk/res"
)

const NamespaceAndroid = "http://schemas.android.com/apk/res/android"

var (
  ErrCompile             = errors.New("manifest: compile failed")
  ErrUnresolvedReference = errors.New("manifest: unresolved reference")
)

// 编译成二进制XML字节，
// android属性名和资源引用都通过资源表t解析成Id
func Compile(m *Manifest, t *res.Table) ([]byte, error) {
  c, e := CompileElement(m.Element(), t)
  if e != nil {
    return nil, e
  }
  return res.Encode(c), nil
}

func CompileElement(root *Element, t *res.Table) (*res.XmlChunk, error) {
  c := &compiler{table: t, pool: res.NewStrPool(true)}

  // android属性名占池的最低索引，resource map的Ids和它一一对应
  if e := c.collectAttrNames(root); e != nil {
    return nil, e
  }
  uri := c.pool.Intern(NamespaceAndroid)
  prefix := c.pool.Intern("android")

  c.line++
  c.children = append(c.children, &res.StartNamespaceChunk{
    LineNumber: c.line, Comment: res.NoEntry, Prefix: prefix, Uri: uri,
  })
  if e := c.element(root); e != nil {
    return nil, e
  }
  c.children = append(c.children, &res.EndNamespaceChunk{
    LineNumber: c.line, Comment: res.NoEntry, Prefix: prefix, Uri: uri,
  })

  children := make([]res.Chunk, 0, len(c.children)+2)
  children = append(children, c.pool, &res.ResourceMapChunk{Ids: c.ids})
  children = append(children, c.children...)
  return &res.XmlChunk{Children: children}, nil
}

type compiler struct {
  table    *res.Table
  pool     *res.StrPool
  ids      []uint32
  children []res.Chunk
  line     uint32
}

func (c *compiler) collectAttrNames(el *Element) error {
  for _, a := range el.Attrs {
    if a.Ns != NamespaceAndroid {
      continue
    }
    if _, ok := c.pool.Find(a.Name); ok {
      continue
    }
    id, e := c.table.Resolve("attr", a.Name)
    if e != nil {
      return fmt.Errorf("%w: android:%s", ErrUnresolvedReference, a.Name)
    }
    c.pool.Intern(a.Name)
    c.ids = append(c.ids, uint32(id))
  }
  for _, child := range el.Children {
    if e := c.collectAttrNames(child); e != nil {
      return e
    }
  }
  return nil
}

func (c *compiler) element(el *Element) error {
  c.line++
  start := &res.StartElementChunk{
    LineNumber: c.line,
    Comment:    res.NoEntry,
    Namespace:  res.NoEntry,
    Name:       c.pool.Intern(el.Name),
  }
  for _, a := range el.Attrs {
    attr, e := c.attr(&a)
    if e != nil {
      return e
    }
    start.Attrs = append(start.Attrs, attr)
  }
  c.children = append(c.children, start)
  for _, child := range el.Children {
    if e := c.element(child); e != nil {
      return e
    }
  }
  c.children = append(c.children, &res.EndElementChunk{
    LineNumber: c.line,
    Comment:    res.NoEntry,
    Namespace:  res.NoEntry,
    Name:       start.Name,
  })
  return nil
}

func (c *compiler) attr(a *Attr) (*res.Attr, error) {
  attr := &res.Attr{Namespace: res.NoEntry, RawValue: res.NoEntry}
  if a.Ns != "" {
    attr.Namespace = c.pool.Intern(a.Ns)
  }
  attr.Name = c.pool.Intern(a.Name)
  switch a.Value.Kind {
  case KindStr:
    i := c.pool.Intern(a.Value.Str)
    attr.RawValue = i
    attr.DataType = res.DataStr
    attr.Data = i
  case KindRef:
    id, e := c.resolveRef(a.Value.Str)
    if e != nil {
      return nil, e
    }
    attr.DataType = res.DataRef
    attr.Data = uint32(id)
  case KindInt:
    attr.DataType = res.DataIntDec
    attr.Data = uint32(a.Value.Int)
  case KindBool:
    attr.DataType = res.DataBool
    if a.Value.Bool {
      attr.Data = 0xFFFFFFFF
    }
  default:
    return nil, fmt.Errorf("%w: attr %s has unknown value kind %d", ErrCompile, a.Name, a.Value.Kind)
  }
  return attr, nil
}

// "type/name"形式的引用
func (c *compiler) resolveRef(ref string) (res.ResId, error) {
  parts := strings.SplitN(ref, "/", 2)
  if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
    return 0, fmt.Errorf("%w: bad reference @%s", ErrCompile, ref)
  }
  id, e := c.table.Resolve(parts[0], parts[1])
  if e != nil {
    return 0, fmt.Errorf("%w: @%s", ErrUnresolvedReference, ref)
  }
  return id, nil
}
