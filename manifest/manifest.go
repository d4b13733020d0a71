// 从YAML/JSON描述生成二进制AndroidManifest.xml
package manifest

import (
  "fmt"
  "strings"

  "gopkg.in/yaml.v2"
)

// 清单描述，字段和AndroidManifest.xml的结构一一对应
type Manifest struct {
  Package     string `yaml:"package"`
  VersionCode uint32 `yaml:"version_code"`
  VersionName string `yaml:"version_name"`

  MinSdkVersion    int `yaml:"min_sdk_version"`
  TargetSdkVersion int `yaml:"target_sdk_version"`

  Permissions []string `yaml:"permissions"`
  Features    []string `yaml:"features"`

  Application Application `yaml:"application"`
}

type Application struct {
  Label string `yaml:"label"`

  // 图标引用（如"@mipmap/icon"）
  Icon string `yaml:"icon"`

  Theme      string `yaml:"theme"`
  Debuggable *bool  `yaml:"debuggable"`
  HasCode    *bool  `yaml:"has_code"`

  Activities []Activity `yaml:"activities"`
}

type Activity struct {
  Name     string `yaml:"name"`
  Label    string `yaml:"label"`
  Exported *bool  `yaml:"exported"`

  IntentFilters []IntentFilter `yaml:"intent_filters"`
  MetaData      []MetaData     `yaml:"meta_data"`
}

type IntentFilter struct {
  Actions    []string `yaml:"actions"`
  Categories []string `yaml:"categories"`
}

type MetaData struct {
  Name  string `yaml:"name"`
  Value string `yaml:"value"`
}

func FromYaml(data []byte) (*Manifest, error) {
  m := &Manifest{}
  if e := yaml.Unmarshal(data, m); e != nil {
    return nil, fmt.Errorf("%w: %v", ErrCompile, e)
  }
  if m.Package == "" {
    return nil, fmt.Errorf("%w: missing package", ErrCompile)
  }
  return m, nil
}

// 属性值类型
const (
  KindStr = iota
  KindRef
  KindInt
  KindBool
)

type Value struct {
  Kind int

  // KindStr是字面值，KindRef是去掉@的"type/name"
  Str string

  Int  int32
  Bool bool
}

type Attr struct {
  // android属性的Ns是NamespaceAndroid，普通属性是空
  Ns    string
  Name  string
  Value Value
}

type Element struct {
  Name     string
  Attrs    []Attr
  Children []*Element
}

func strVal(s string) Value {
  if strings.HasPrefix(s, "@") {
    return Value{Kind: KindRef, Str: s[1:]}
  }
  return Value{Kind: KindStr, Str: s}
}

func intVal(n int32) Value {
  return Value{Kind: KindInt, Int: n}
}

func boolVal(b bool) Value {
  return Value{Kind: KindBool, Bool: b}
}

func (el *Element) attr(ns, name string, v Value) {
  el.Attrs = append(el.Attrs, Attr{Ns: ns, Name: name, Value: v})
}

func (el *Element) child(name string) *Element {
  c := &Element{Name: name}
  el.Children = append(el.Children, c)
  return c
}

// 展开成元素树，元素和属性的顺序是固定的
func (m *Manifest) Element() *Element {
  root := &Element{Name: "manifest"}
  root.attr("", "package", Value{Kind: KindStr, Str: m.Package})
  root.attr(NamespaceAndroid, "versionCode", intVal(int32(m.VersionCode)))
  if m.VersionName != "" {
    root.attr(NamespaceAndroid, "versionName", strVal(m.VersionName))
  }

  if m.MinSdkVersion > 0 || m.TargetSdkVersion > 0 {
    sdk := root.child("uses-sdk")
    if m.MinSdkVersion > 0 {
      sdk.attr(NamespaceAndroid, "minSdkVersion", intVal(int32(m.MinSdkVersion)))
    }
    if m.TargetSdkVersion > 0 {
      sdk.attr(NamespaceAndroid, "targetSdkVersion", intVal(int32(m.TargetSdkVersion)))
    }
  }
  for _, p := range m.Permissions {
    root.child("uses-permission").attr(NamespaceAndroid, "name", strVal(p))
  }
  for _, f := range m.Features {
    root.child("uses-feature").attr(NamespaceAndroid, "name", strVal(f))
  }

  app := root.child("application")
  if m.Application.Label != "" {
    app.attr(NamespaceAndroid, "label", strVal(m.Application.Label))
  }
  if m.Application.Icon != "" {
    app.attr(NamespaceAndroid, "icon", strVal(m.Application.Icon))
  }
  if m.Application.Theme != "" {
    app.attr(NamespaceAndroid, "theme", strVal(m.Application.Theme))
  }
  if m.Application.Debuggable != nil {
    app.attr(NamespaceAndroid, "debuggable", boolVal(*m.Application.Debuggable))
  }
  if m.Application.HasCode != nil {
    app.attr(NamespaceAndroid, "hasCode", boolVal(*m.Application.HasCode))
  }

  for i := range m.Application.Activities {
    a := &m.Application.Activities[i]
    act := app.child("activity")
    act.attr(NamespaceAndroid, "name", strVal(a.Name))
    if a.Label != "" {
      act.attr(NamespaceAndroid, "label", strVal(a.Label))
    }
    if a.Exported != nil {
      act.attr(NamespaceAndroid, "exported", boolVal(*a.Exported))
    }
    for _, f := range a.IntentFilters {
      filter := act.child("intent-filter")
      for _, action := range f.Actions {
        filter.child("action").attr(NamespaceAndroid, "name", strVal(action))
      }
      for _, category := range f.Categories {
        filter.child("category").attr(NamespaceAndroid, "name", strVal(category))
      }
    }
    for _, md := range a.MetaData {
      meta := act.child("meta-data")
      meta.attr(NamespaceAndroid, "name", strVal(md.Name))
      meta.attr(NamespaceAndroid, "value", strVal(md.Value))
    }
  }
  return root
}
