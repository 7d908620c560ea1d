package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// randomCode returns a 6-digit numeric code in [100000, 999999].
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprint(n.Int64() + 100000), nil
}

// randomHex returns a 2n-character hex token.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
