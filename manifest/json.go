package manifest

import (
  "fmt"

  "github.com/buger/jsonparser"
)

// JSON描述和YAML同构
func FromJson(data []byte) (*Manifest, error) {
  m := &Manifest{}
  pkg, e := jsonparser.GetString(data, "package")
  if e != nil || pkg == "" {
    return nil, fmt.Errorf("%w: missing package", ErrCompile)
  }
  m.Package = pkg
  if n, e := jsonparser.GetInt(data, "version_code"); e == nil {
    m.VersionCode = uint32(n)
  }
  m.VersionName, _ = jsonparser.GetString(data, "version_name")
  if n, e := jsonparser.GetInt(data, "min_sdk_version"); e == nil {
    m.MinSdkVersion = int(n)
  }
  if n, e := jsonparser.GetInt(data, "target_sdk_version"); e == nil {
    m.TargetSdkVersion = int(n)
  }
  m.Permissions = strArr(data, "permissions")
  m.Features = strArr(data, "features")

  app, _, _, e := jsonparser.Get(data, "application")
  if e == nil {
    m.Application.Label, _ = jsonparser.GetString(app, "label")
    m.Application.Icon, _ = jsonparser.GetString(app, "icon")
    m.Application.Theme, _ = jsonparser.GetString(app, "theme")
    m.Application.Debuggable = boolPtr(app, "debuggable")
    m.Application.HasCode = boolPtr(app, "has_code")
    jsonparser.ArrayEach(app, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
      if t != jsonparser.Object {
        return
      }
      m.Application.Activities = append(m.Application.Activities, parseActivity(v))
    }, "activities")
  }
  return m, nil
}

func parseActivity(data []byte) Activity {
  a := Activity{}
  a.Name, _ = jsonparser.GetString(data, "name")
  a.Label, _ = jsonparser.GetString(data, "label")
  a.Exported = boolPtr(data, "exported")
  jsonparser.ArrayEach(data, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
    if t != jsonparser.Object {
      return
    }
    a.IntentFilters = append(a.IntentFilters, IntentFilter{
      Actions:    strArr(v, "actions"),
      Categories: strArr(v, "categories"),
    })
  }, "intent_filters")
  jsonparser.ArrayEach(data, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
    if t != jsonparser.Object {
      return
    }
    md := MetaData{}
    md.Name, _ = jsonparser.GetString(v, "name")
    md.Value, _ = jsonparser.GetString(v, "value")
    a.MetaData = append(a.MetaData, md)
  }, "meta_data")
  return a
}

func strArr(data []byte, keys ...string) []string {
  var ret []string
  jsonparser.ArrayEach(data, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
    if t != jsonparser.String {
      return
    }
    if s, e := jsonparser.ParseString(v); e == nil {
      ret = append(ret, s)
    }
  }, keys...)
  return ret
}

func boolPtr(data []byte, key string) *bool {
  b, e := jsonparser.GetBoolean(data, key)
  if e != nil {
    return nil
  }
  return &b
}
