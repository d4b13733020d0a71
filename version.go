package apk

import (
  "fmt"
  "strconv"
  "strings"
)

// 版本号，Code打包成versionCode：major<<16|minor<<8|patch
type VersionCode struct {
  Major int
  Minor int
  Patch int
}

func (v VersionCode) Code() uint32 {
  return uint32(v.Major)<<16 | uint32(v.Minor)<<8 | uint32(v.Patch)
}

func (v VersionCode) String() string {
  return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// "major.minor.patch"，minor和patch不能超过255
func ParseVersion(s string) (VersionCode, error) {
  parts := strings.Split(s, ".")
  if len(parts) != 3 {
    return VersionCode{}, fmt.Errorf("apk: bad version %q", s)
  }
  nums := make([]int, 3)
  for i, p := range parts {
    n, e := strconv.Atoi(p)
    if e != nil || n < 0 {
      return VersionCode{}, fmt.Errorf("apk: bad version %q", s)
    }
    if i > 0 && n > 255 {
      return VersionCode{}, fmt.Errorf("apk: bad version %q", s)
    }
    nums[i] = n
  }
  return VersionCode{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}
