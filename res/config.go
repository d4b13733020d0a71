package res

import (
  "fmt"
)

// 密度值（ResTableConfig.Density）
const (
  DensityLow     = 120
  DensityMedium  = 160
  DensityHigh    = 240
  DensityXHigh   = 320
  DensityXXHigh  = 480
  DensityXXXHigh = 640
)

// 配置描述，一共Size个字节，
// 这里只解析到前36个字节，剩下的原样保留在Rest里
type Config struct {
  Mcc                   uint16
  Mnc                   uint16
  Language              uint16
  Country               uint16
  Orientation           uint8
  Touchscreen           uint8
  Density               uint16
  Keyboard              uint8
  Navigation            uint8
  InputFlags            uint8
  InputPad0             uint8
  ScreenWidth           uint16
  ScreenHeight          uint16
  SdkVersion            uint16
  MinorVersion          uint16
  ScreenLayout          uint8
  UiMode                uint8
  SmallestScreenWidthDp uint16
  ScreenWidthDp         uint16
  ScreenHeightDp        uint16

  // 未解析的剩余字节
  Rest []byte
}

// 只带密度限定符的配置，其余字段全0，总大小56字节
func NewDensityConfig(density uint16) *Config {
  return &Config{Density: density, Rest: make([]byte, 20)}
}

func (c *Config) size() uint32 {
  return 36 + uint32(len(c.Rest))
}

func parseConfig(r *bytesReader) *Config {
  start := r.pos()
  size := r.readUint32()
  if r.err != nil {
    return nil
  }
  if size < 36 || start+size > uint32(len(r.data)) {
    r.fail(fmt.Errorf("%w: config size=%d", ErrInvalidHeader, size))
    return nil
  }
  c := &Config{
    Mcc:                   r.readUint16(),
    Mnc:                   r.readUint16(),
    Language:              r.readUint16(),
    Country:               r.readUint16(),
    Orientation:           r.readUint8(),
    Touchscreen:           r.readUint8(),
    Density:               r.readUint16(),
    Keyboard:              r.readUint8(),
    Navigation:            r.readUint8(),
    InputFlags:            r.readUint8(),
    InputPad0:             r.readUint8(),
    ScreenWidth:           r.readUint16(),
    ScreenHeight:          r.readUint16(),
    SdkVersion:            r.readUint16(),
    MinorVersion:          r.readUint16(),
    ScreenLayout:          r.readUint8(),
    UiMode:                r.readUint8(),
    SmallestScreenWidthDp: r.readUint16(),
    ScreenWidthDp:         r.readUint16(),
    ScreenHeightDp:        r.readUint16(),
  }
  c.Rest = r.readN(size - 36)
  return c
}

func (c *Config) writeTo(w *bytesWriter) {
  w.writeUint32(c.size())
  w.writeUint16(c.Mcc)
  w.writeUint16(c.Mnc)
  w.writeUint16(c.Language)
  w.writeUint16(c.Country)
  w.writeUint8(c.Orientation)
  w.writeUint8(c.Touchscreen)
  w.writeUint16(c.Density)
  w.writeUint8(c.Keyboard)
  w.writeUint8(c.Navigation)
  w.writeUint8(c.InputFlags)
  w.writeUint8(c.InputPad0)
  w.writeUint16(c.ScreenWidth)
  w.writeUint16(c.ScreenHeight)
  w.writeUint16(c.SdkVersion)
  w.writeUint16(c.MinorVersion)
  w.writeUint8(c.ScreenLayout)
  w.writeUint8(c.UiMode)
  w.writeUint16(c.SmallestScreenWidthDp)
  w.writeUint16(c.ScreenWidthDp)
  w.writeUint16(c.ScreenHeightDp)
  w.write(c.Rest)
}

func (c *Config) bytes() []byte {
  w := &bytesWriter{}
  c.writeTo(w)
  return w.bytes()
}

// 同一个配置（字节级比较）
func (c *Config) equals(other *Config) bool {
  if c == nil || other == nil {
    return c == other
  }
  return string(c.bytes()) == string(other.bytes())
}
