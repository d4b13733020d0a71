package apk

// 签名器，拿到完整的未签名包字节返回签名后的包字节，
// 为nil时输出未签名的包
type Signer interface {
  Sign(unsigned []byte) ([]byte, error)
}
