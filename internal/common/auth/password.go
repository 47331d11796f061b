package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	passwordSaltBytes = 16
	passwordIters     = 10_000
	passwordKeyBytes  = 32
)

// HashPassword 生成加盐哈希，格式为 "base64(hash):base64(salt)"。
// 校验方只需要这一个字符串，盐随哈希一起存储。
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}
	salt := make([]byte, passwordSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, passwordIters, passwordKeyBytes, sha256.New)
	return base64.StdEncoding.EncodeToString(key) + ":" + base64.StdEncoding.EncodeToString(salt), nil
}

// VerifyPassword 用存储串里携带的盐重新哈希待验证口令并比较。
func VerifyPassword(hashedWithSalt, password string) bool {
	parts := strings.Split(hashedWithSalt, ":")
	if len(parts) != 2 {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, passwordIters, passwordKeyBytes, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
