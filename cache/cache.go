// 字节块缓存（boltdb单文件），
// 用来缓存从android.jar里解出的resources.arsc，按jar的摘要做键
package cache

import (
  "crypto/sha256"
  "encoding/hex"
  "io"
  "os"

  "go.etcd.io/bbolt"
)

var bucket = []byte("blobs")

type Cache struct {
  db *bbolt.DB
}

func Open(path string) (*Cache, error) {
  db, e := bbolt.Open(path, 0600, nil)
  if e != nil {
    return nil, e
  }
  e = db.Update(func(tx *bbolt.Tx) error {
    _, e := tx.CreateBucketIfNotExists(bucket)
    return e
  })
  if e != nil {
    db.Close()
    return nil, e
  }
  return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
  return c.db.Close()
}

func (c *Cache) Get(key string) ([]byte, bool) {
  var data []byte
  c.db.View(func(tx *bbolt.Tx) error {
    v := tx.Bucket(bucket).Get([]byte(key))
    if v != nil {
      data = make([]byte, len(v))
      copy(data, v)
    }
    return nil
  })
  return data, data != nil
}

func (c *Cache) Put(key string, data []byte) error {
  return c.db.Update(func(tx *bbolt.Tx) error {
    return tx.Bucket(bucket).Put([]byte(key), data)
  })
}

// 文件内容的sha256（十六进制）
func Digest(path string) (string, error) {
  f, e := os.Open(path)
  if e != nil {
    return "", e
  }
  defer f.Close()
  h := sha256.New()
  if _, e := io.Copy(h, f); e != nil {
    return "", e
  }
  return hex.EncodeToString(h.Sum(nil)), nil
}
