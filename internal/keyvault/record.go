package keyvault

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
)

type Encoding int

const (
	// EncodingV2: base64 fields, auth tag stored separately, user-supplied password
	EncodingV2 Encoding = iota
	// EncodingLegacy: hex fields, auth tag concatenated onto the ciphertext,
	// the user id itself was used as the password
	EncodingLegacy
)

// KeyRecord is the decoded form of a stored wallet key. The encoding is
// resolved exactly once here, when the row is loaded; decryption never
// re-detects it.
type KeyRecord struct {
	UserID     string
	Address    string
	Encoding   Encoding
	Ciphertext []byte
	Salt       []byte
	IV         []byte
	AuthTag    []byte // nil for legacy rows, already part of Ciphertext there
}

// RecordFromRow resolves the stored encoding and decodes all fields. A row
// with neither encoding populated, or with undecodable fields, fails with
// the same normalized error as a wrong password.
func RecordFromRow(row *model.EncryptedWalletKey) (*KeyRecord, error) {
	if row == nil {
		return nil, errDecryption()
	}
	rec := &KeyRecord{UserID: row.UserID, Address: row.Address}

	switch {
	case row.Ciphertext != "":
		rec.Encoding = EncodingV2
		var err error
		if rec.Ciphertext, err = base64.StdEncoding.DecodeString(row.Ciphertext); err != nil {
			return nil, errDecryption()
		}
		if rec.Salt, err = base64.StdEncoding.DecodeString(row.Salt); err != nil {
			return nil, errDecryption()
		}
		if rec.IV, err = base64.StdEncoding.DecodeString(row.IV); err != nil {
			return nil, errDecryption()
		}
		if row.AuthTag != "" {
			if rec.AuthTag, err = base64.StdEncoding.DecodeString(row.AuthTag); err != nil {
				return nil, errDecryption()
			}
		}
	case row.LegacyEncryptedKey != "":
		rec.Encoding = EncodingLegacy
		var err error
		if rec.Ciphertext, err = hex.DecodeString(row.LegacyEncryptedKey); err != nil {
			return nil, errDecryption()
		}
		if rec.Salt, err = hex.DecodeString(row.LegacySalt); err != nil {
			return nil, errDecryption()
		}
		if rec.IV, err = hex.DecodeString(row.LegacyIV); err != nil {
			return nil, errDecryption()
		}
	default:
		return nil, errDecryption()
	}

	if len(rec.Salt) == 0 || len(rec.IV) == 0 || len(rec.Ciphertext) == 0 {
		return nil, errDecryption()
	}
	return rec, nil
}

func errDecryption() error {
	return apperrors.New(apperrors.ErrDecryptionFailed, "wallet decryption failed", nil)
}
