package main

import (
  "flag"
  "fmt"
  "os"
  "strings"

  "github.com/kwf2030/apk"
  "github.com/kwf2030/apk/cache"
  "github.com/kwf2030/apk/manifest"
)

var (
  manifestPath = flag.String("m", "manifest.yaml", "manifest file (yaml or json)")
  iconPath     = flag.String("icon", "icon.png", "source icon image")
  androidJar   = flag.String("android", "", "platform android.jar")
  dexPath      = flag.String("dex", "", "classes.dex")
  assetsDir    = flag.String("assets", "", "directory added to the package as-is")
  outPath      = flag.String("o", "out.apk", "output apk")
  cachePath    = flag.String("cache", "", "cache db for the platform resource table")
)

func main() {
  flag.Parse()
  if *androidJar == "" {
    fmt.Fprintln(os.Stderr, "-android is required")
    os.Exit(2)
  }

  data, e := os.ReadFile(*manifestPath)
  if e != nil {
    fail(e)
  }
  var m *manifest.Manifest
  if strings.HasSuffix(*manifestPath, ".json") {
    m, e = manifest.FromJson(data)
  } else {
    m, e = manifest.FromYaml(data)
  }
  if e != nil {
    fail(e)
  }

  var c *cache.Cache
  if *cachePath != "" {
    if c, e = cache.Open(*cachePath); e != nil {
      fail(e)
    }
    defer c.Close()
  }

  a := apk.New(*outPath)
  if e = a.AddRes(m, *iconPath, *androidJar, c); e != nil {
    fail(e)
  }
  if *dexPath != "" {
    if e = a.AddDex(*dexPath); e != nil {
      fail(e)
    }
  }
  if *assetsDir != "" {
    if e = a.AddDir(*assetsDir); e != nil {
      fail(e)
    }
  }
  if e = a.Finish(nil); e != nil {
    fail(e)
  }
  fmt.Println(*outPath)
}

func fail(e error) {
  fmt.Fprintln(os.Stderr, e)
  os.Exit(1)
}
