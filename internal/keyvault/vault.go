// Package keyvault decrypts custodially-held wallet private keys.
package keyvault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize    = 32
	ivSize     = 12
	saltSize   = 16
	iterations = 100000
)

// Decrypt derives the AES key from the password and opens the stored
// ciphertext. For legacy rows the user id is the password, regardless of
// what the caller supplied. Every failure mode returns the same normalized
// error so the caller cannot distinguish wrong password from corrupt row.
func (r *KeyRecord) Decrypt(password string) (string, error) {
	if r.Encoding == EncodingLegacy {
		password = r.UserID
	}
	if password == "" {
		return "", errDecryption()
	}

	key := pbkdf2.Key([]byte(password), r.Salt, iterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", errDecryption()
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(r.IV))
	if err != nil {
		return "", errDecryption()
	}

	ciphertext := r.Ciphertext
	if len(r.AuthTag) > 0 {
		// Go's GCM expects the tag appended; the v2 rows store it separately
		ciphertext = append(append([]byte{}, ciphertext...), r.AuthTag...)
	}

	plaintext, err := gcm.Open(nil, r.IV, ciphertext, nil)
	if err != nil {
		return "", errDecryption()
	}
	return string(plaintext), nil
}

// Encrypt produces a v2-encoded row for wallet setup. The auth tag is split
// off and stored in its own column.
func Encrypt(userID, address, password, privateKey string) (*model.EncryptedWalletKey, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	sealed := gcm.Seal(nil, iv, []byte(privateKey), nil)
	tagAt := len(sealed) - gcm.Overhead()

	return &model.EncryptedWalletKey{
		UserID:     userID,
		Address:    address,
		Ciphertext: base64.StdEncoding.EncodeToString(sealed[:tagAt]),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		IV:         base64.StdEncoding.EncodeToString(iv),
		AuthTag:    base64.StdEncoding.EncodeToString(sealed[tagAt:]),
	}, nil
}
