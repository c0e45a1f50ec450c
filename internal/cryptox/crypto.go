// Package cryptox wraps the key derivation and authenticated encryption used
// for data at rest on the client and for password verifiers on the server.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"github.com/dmitrijs2005/mobilecore/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	KeySize  = 32
	SaltSize = 16
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// DeriveKey stretches a passphrase into a KeySize-byte key with argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// MakeVerifier returns a value that can be stored to check a derived key
// later without keeping the key itself.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// NewPasswordVerifier picks a fresh salt and returns it with the verifier for password.
func NewPasswordVerifier(password string) (salt, verifier []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return salt, MakeVerifier(DeriveKey([]byte(password), salt))
}

// CheckPassword reports whether password matches a salt/verifier pair.
func CheckPassword(password string, salt, verifier []byte) bool {
	got := MakeVerifier(DeriveKey([]byte(password), salt))
	return subtle.ConstantTimeCompare(got, verifier) == 1
}

// Seal encrypts plaintext with AES-GCM. The random nonce is prepended to the
// returned ciphertext.
func Seal(key, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aead.NonceSize())
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. It fails if the data was modified or the key is wrong.
func Open(key, sealed []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := aead.NonceSize()
	if len(sealed) < ns+aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	return aead.Open(nil, sealed[:ns], sealed[ns:], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
