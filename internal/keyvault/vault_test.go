package keyvault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestDecrypt_V2RoundTrip(t *testing.T) {
	row, err := Encrypt("user-1", "0xabc", "hunter2", testKey)
	require.NoError(t, err)
	assert.NotEmpty(t, row.AuthTag) // tag stored separately in v2 rows

	rec, err := RecordFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, EncodingV2, rec.Encoding)

	plain, err := rec.Decrypt("hunter2")
	require.NoError(t, err)
	assert.Equal(t, testKey, plain)
}

func TestDecrypt_WrongPassword(t *testing.T) {
	row, err := Encrypt("user-1", "0xabc", "hunter2", testKey)
	require.NoError(t, err)

	rec, err := RecordFromRow(row)
	require.NoError(t, err)

	_, err = rec.Decrypt("not-the-password")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrDecryptionFailed, appErr.Type)
	// normalized message, no cryptographic detail
	assert.Equal(t, "wallet decryption failed", appErr.Message)
}

func TestDecrypt_LegacyEncoding(t *testing.T) {
	row := legacyRow(t, "user-legacy", testKey)

	rec, err := RecordFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, EncodingLegacy, rec.Encoding)

	// legacy rows ignore the supplied password and use the user id
	plain, err := rec.Decrypt("whatever-the-app-sent")
	require.NoError(t, err)
	assert.Equal(t, testKey, plain)
}

func TestRecordFromRow_Malformed(t *testing.T) {
	cases := []struct {
		name string
		row  *model.EncryptedWalletKey
	}{
		{"nil row", nil},
		{"empty row", &model.EncryptedWalletKey{UserID: "u"}},
		{"bad base64", &model.EncryptedWalletKey{UserID: "u", Ciphertext: "%%%", Salt: "a", IV: "a"}},
		{"bad hex", &model.EncryptedWalletKey{UserID: "u", LegacyEncryptedKey: "zz", LegacySalt: "aa", LegacyIV: "bb"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RecordFromRow(tc.row)
			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.ErrDecryptionFailed, appErr.Type)
		})
	}
}

// legacyRow builds a first-release row: hex encoding, tag concatenated onto
// the ciphertext, the user id used as the password.
func legacyRow(t *testing.T, userID, privateKey string) *model.EncryptedWalletKey {
	t.Helper()
	salt := []byte("legacy-salt-1234")
	iv := []byte("legacy-iv-12") // 12 bytes

	key := pbkdf2.Key([]byte(userID), salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	sealed := gcm.Seal(nil, iv, []byte(privateKey), nil)

	return &model.EncryptedWalletKey{
		UserID:             userID,
		LegacyEncryptedKey: hex.EncodeToString(sealed),
		LegacySalt:         hex.EncodeToString(salt),
		LegacyIV:           hex.EncodeToString(iv),
	}
}
