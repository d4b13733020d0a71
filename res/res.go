package res

import (
  "errors"
  "fmt"
)

// chunk类型
const (
  ResNull    = 0x0000
  ResStrPool = 0x0001
  ResTable   = 0x0002
  ResXml     = 0x0003
)

// ResXml子类型
const (
  ResXmlStartNamespace = 0x0100
  ResXmlEndNamespace   = 0x0101
  ResXmlStartElement   = 0x0102
  ResXmlEndElement     = 0x0103
  ResXmlCData          = 0x0104
  ResXmlResourceMap    = 0x0180
)

// ResTable子类型
const (
  ResTablePackage  = 0x0200
  ResTableType     = 0x0201
  ResTableTypeSpec = 0x0202
  ResTableLibrary  = 0x0203
)

// 属性值类型（Value.DataType）
const (
  DataRef    = 0x01
  DataStr    = 0x03
  DataIntDec = 0x10
  DataIntHex = 0x11
  DataBool   = 0x12
)

// 无效索引（字符串池索引和资源项偏移都用它表示"没有"）
const NoEntry = 0xFFFFFFFF

var (
  ErrTruncated        = errors.New("truncated chunk")
  ErrInvalidHeader    = errors.New("invalid chunk header")
  ErrUnknownChunkType = errors.New("unknown chunk type")

  ErrMalformedTable  = errors.New("malformed table")
  ErrPackageNotFound = errors.New("package not found")
  ErrAlreadyImported = errors.New("table already imported")
  ErrTableFinalized  = errors.New("table finalized")
  ErrNotFound        = errors.New("resource not found")
)

// 资源Id，package(8位)+type(8位)+entry(16位)
type ResId uint32

func MakeResId(pkg, typ uint8, entry uint16) ResId {
  return ResId(uint32(pkg)<<24 | uint32(typ)<<16 | uint32(entry))
}

func (id ResId) PackageId() uint8 {
  return uint8(id >> 24)
}

func (id ResId) TypeId() uint8 {
  return uint8(id >> 16)
}

func (id ResId) EntryId() uint16 {
  return uint16(id)
}

func (id ResId) String() string {
  return fmt.Sprintf("0x%08x", uint32(id))
}
