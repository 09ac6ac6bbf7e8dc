package model

import "time"

// EncryptedWalletKey holds a user's AES-GCM-encrypted private key. Two
// historical encodings coexist in this table: rows written by the current
// wallet setup populate the base64 fields with a separate auth tag, rows
// from the first release populate the legacy hex fields with the tag
// concatenated onto the ciphertext. Created once at wallet setup and
// read-only afterwards.
type EncryptedWalletKey struct {
	UserID  string `gorm:"primaryKey;column:user_id" json:"user_id"`
	Address string `gorm:"column:address" json:"address"`

	// Current encoding (base64, separate auth tag)
	Ciphertext string `gorm:"column:ciphertext" json:"-"`
	Salt       string `gorm:"column:salt" json:"-"`
	IV         string `gorm:"column:iv" json:"-"`
	AuthTag    string `gorm:"column:auth_tag" json:"-"`

	// Legacy encoding (hex, tag appended to ciphertext, user id as password)
	LegacyEncryptedKey string `gorm:"column:encrypted_key" json:"-"`
	LegacySalt         string `gorm:"column:legacy_salt" json:"-"`
	LegacyIV           string `gorm:"column:legacy_iv" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (EncryptedWalletKey) TableName() string {
	return "encrypted_wallet_keys"
}
