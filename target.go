package apk

import (
  "fmt"
)

// native库的目标平台
type Target int

const (
  TargetArm Target = iota
  TargetArm64
  TargetX86
  TargetX64
)

func (t Target) Abi() string {
  switch t {
  case TargetArm:
    return "armeabi-v7a"
  case TargetArm64:
    return "arm64-v8a"
  case TargetX86:
    return "x86"
  case TargetX64:
    return "x86_64"
  }
  return ""
}

func ParseTarget(s string) (Target, error) {
  switch s {
  case "arm", "armeabi-v7a":
    return TargetArm, nil
  case "arm64", "arm64-v8a":
    return TargetArm64, nil
  case "x86":
    return TargetX86, nil
  case "x64", "x86_64":
    return TargetX64, nil
  }
  return 0, fmt.Errorf("apk: unknown target %q", s)
}
