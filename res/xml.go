package res

// 二进制XML文档根chunk，
// 子chunk依次是字符串池、resource map、namespace和元素节点
type XmlChunk struct {
  Children []Chunk
}

func (c *XmlChunk) TypeId() uint16 {
  return ResXml
}

func (c *XmlChunk) StrPool() *StrPool {
  for _, child := range c.Children {
    if sp, ok := child.(*StrPool); ok {
      return sp
    }
  }
  return nil
}

func (c *XmlChunk) ResourceMap() *ResourceMapChunk {
  for _, child := range c.Children {
    if m, ok := child.(*ResourceMapChunk); ok {
      return m
    }
  }
  return nil
}

func (p *parser) parseXml(start, headerSize, end uint32) Chunk {
  p.r.seek(start + headerSize)
  return &XmlChunk{Children: p.parseChildren(end)}
}

func (c *XmlChunk) writeTo(w *bytesWriter) {
  start := beginChunk(w, ResXml)
  endHeader(w, start)
  for _, child := range c.Children {
    child.writeTo(w)
  }
  endChunk(w, start)
}

// 属性资源Id映射，Ids[i]是字符串池索引i对应的资源Id
type ResourceMapChunk struct {
  Ids []uint32
}

func (c *ResourceMapChunk) TypeId() uint16 {
  return ResXmlResourceMap
}

func (p *parser) parseResourceMap(start, headerSize, end uint32) Chunk {
  r := p.r
  r.seek(start + headerSize)
  return &ResourceMapChunk{Ids: r.readUint32Array((end - start - headerSize) / 4)}
}

func (c *ResourceMapChunk) writeTo(w *bytesWriter) {
  start := beginChunk(w, ResXmlResourceMap)
  endHeader(w, start)
  w.writeUint32Array(c.Ids)
  endChunk(w, start)
}

type StartNamespaceChunk struct {
  LineNumber uint32
  Comment    uint32

  // 前缀和URI（字符串池索引）
  Prefix uint32
  Uri    uint32
}

func (c *StartNamespaceChunk) TypeId() uint16 {
  return ResXmlStartNamespace
}

type EndNamespaceChunk struct {
  LineNumber uint32
  Comment    uint32
  Prefix     uint32
  Uri        uint32
}

func (c *EndNamespaceChunk) TypeId() uint16 {
  return ResXmlEndNamespace
}

type StartElementChunk struct {
  LineNumber uint32
  Comment    uint32

  // 元素namespace和名称（字符串池索引，没有namespace时是NoEntry）
  Namespace uint32
  Name      uint32

  IdIndex    uint16
  ClassIndex uint16
  StyleIndex uint16

  Attrs []*Attr
}

func (c *StartElementChunk) TypeId() uint16 {
  return ResXmlStartElement
}

type Attr struct {
  Namespace uint32
  Name      uint32

  // 原始字符串值（没有时是NoEntry）
  RawValue uint32

  DataType uint8
  Data     uint32
}

type EndElementChunk struct {
  LineNumber uint32
  Comment    uint32
  Namespace  uint32
  Name       uint32
}

func (c *EndElementChunk) TypeId() uint16 {
  return ResXmlEndElement
}

type CDataChunk struct {
  LineNumber uint32
  Comment    uint32

  // 文本（字符串池索引）
  Data  uint32
  Value Value
}

func (c *CDataChunk) TypeId() uint16 {
  return ResXmlCData
}

func (p *parser) parseXmlNode(typ uint16, start, headerSize, end uint32) Chunk {
  r := p.r
  line := r.readUint32()
  comment := r.readUint32()
  r.seek(start + headerSize)
  switch typ {
  case ResXmlStartNamespace:
    return &StartNamespaceChunk{LineNumber: line, Comment: comment, Prefix: r.readUint32(), Uri: r.readUint32()}
  case ResXmlEndNamespace:
    return &EndNamespaceChunk{LineNumber: line, Comment: comment, Prefix: r.readUint32(), Uri: r.readUint32()}
  case ResXmlEndElement:
    return &EndElementChunk{LineNumber: line, Comment: comment, Namespace: r.readUint32(), Name: r.readUint32()}
  case ResXmlCData:
    c := &CDataChunk{LineNumber: line, Comment: comment, Data: r.readUint32()}
    v := parseValue(r)
    if v == nil {
      return nil
    }
    c.Value = *v
    return c
  }

  c := &StartElementChunk{LineNumber: line, Comment: comment}
  c.Namespace = r.readUint32()
  c.Name = r.readUint32()
  attrStart := r.readUint16()
  attrSize := r.readUint16()
  attrCount := r.readUint16()
  c.IdIndex = r.readUint16()
  c.ClassIndex = r.readUint16()
  c.StyleIndex = r.readUint16()
  if r.err != nil {
    return nil
  }
  r.seek(start + headerSize + uint32(attrStart))
  c.Attrs = make([]*Attr, attrCount)
  for i := range c.Attrs {
    attr := &Attr{}
    attr.Namespace = r.readUint32()
    attr.Name = r.readUint32()
    attr.RawValue = r.readUint32()
    v := parseValue(r)
    if v == nil {
      return nil
    }
    attr.DataType = v.DataType
    attr.Data = v.Data
    if attrSize > 20 {
      r.readN(uint32(attrSize) - 20)
    }
    c.Attrs[i] = attr
  }
  return c
}

func writeNodeHeader(w *bytesWriter, typ uint16, line, comment uint32) uint32 {
  start := beginChunk(w, typ)
  w.writeUint32(line)
  w.writeUint32(comment)
  endHeader(w, start)
  return start
}

func (c *StartNamespaceChunk) writeTo(w *bytesWriter) {
  start := writeNodeHeader(w, ResXmlStartNamespace, c.LineNumber, c.Comment)
  w.writeUint32(c.Prefix)
  w.writeUint32(c.Uri)
  endChunk(w, start)
}

func (c *EndNamespaceChunk) writeTo(w *bytesWriter) {
  start := writeNodeHeader(w, ResXmlEndNamespace, c.LineNumber, c.Comment)
  w.writeUint32(c.Prefix)
  w.writeUint32(c.Uri)
  endChunk(w, start)
}

func (c *StartElementChunk) writeTo(w *bytesWriter) {
  start := writeNodeHeader(w, ResXmlStartElement, c.LineNumber, c.Comment)
  w.writeUint32(c.Namespace)
  w.writeUint32(c.Name)
  w.writeUint16(20)
  w.writeUint16(20)
  w.writeUint16(uint16(len(c.Attrs)))
  w.writeUint16(c.IdIndex)
  w.writeUint16(c.ClassIndex)
  w.writeUint16(c.StyleIndex)
  for _, attr := range c.Attrs {
    w.writeUint32(attr.Namespace)
    w.writeUint32(attr.Name)
    w.writeUint32(attr.RawValue)
    v := Value{DataType: attr.DataType, Data: attr.Data}
    v.writeTo(w)
  }
  endChunk(w, start)
}

func (c *EndElementChunk) writeTo(w *bytesWriter) {
  start := writeNodeHeader(w, ResXmlEndElement, c.LineNumber, c.Comment)
  w.writeUint32(c.Namespace)
  w.writeUint32(c.Name)
  endChunk(w, start)
}

func (c *CDataChunk) writeTo(w *bytesWriter) {
  start := writeNodeHeader(w, ResXmlCData, c.LineNumber, c.Comment)
  w.writeUint32(c.Data)
  c.Value.writeTo(w)
  endChunk(w, start)
}
