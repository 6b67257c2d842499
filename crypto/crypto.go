package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a salted bcrypt digest of the password. Hashing the
// same password twice yields different digests; both verify.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether the password matches the stored digest.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// DummyHash is verified against when a login names an unknown account, so
// the response time stays close to a real verification.
var DummyHash = func() string {
	digest, err := bcrypt.GenerateFromPassword([]byte("sched-timing-dummy"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(digest)
}()
