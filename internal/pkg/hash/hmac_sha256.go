package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSHA256 keys SHA-256 with a service secret (hash.hmac.secret) and
// returns lower-case hex.
type HMACSHA256 struct {
	secret []byte
}

func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{secret: []byte(secret)}
}

// Hash never fails; the error is part of the Hash contract.
func (s *HMACSHA256) Hash(str string) ([]byte, error) {
	return hex.AppendEncode(nil, s.sum(str)), nil
}

// Verify decodes hashed before comparing in constant time, so upper-case
// hex is accepted and anything that is not hex is rejected.
func (s *HMACSHA256) Verify(hashed, str string) bool {
	want, err := hex.DecodeString(hashed)
	if err != nil {
		return false
	}
	return hmac.Equal(want, s.sum(str))
}

func (s *HMACSHA256) sum(str string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(str))
	return mac.Sum(nil)
}
