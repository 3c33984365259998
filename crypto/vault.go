package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/scrypt"
)

const (
	ScryptN = 32768 // 2^15
	ScryptR = 8
	ScryptP = 1
	KeyLen  = 32 // AES-256 key length

	vaultVersion = 1
)

// ErrWrongPassword is returned when a vault cannot be opened with the given password
var ErrWrongPassword = errors.New("wrong password or corrupted vault")

// Vault holds an encrypted indexer credential
type Vault struct {
	Version int    `json:"version"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Data    []byte `json:"data"`
}

// Credential is the plaintext sealed inside a vault
type Credential struct {
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}

// NewVault encrypts apiKey with a key derived from password
func NewVault(apiKey, password string) (*Vault, error) {
	if apiKey == "" {
		return nil, errors.New("api key must not be empty")
	}

	salt := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clearBytes(key)

	data, err := json.Marshal(Credential{APIKey: apiKey, CreatedAt: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize credential: %w", err)
	}
	defer clearBytes(data)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return &Vault{
		Version: vaultVersion,
		Salt:    salt,
		Nonce:   nonce,
		Data:    aesGCM.Seal(nil, nonce, data, nil),
	}, nil
}

// Decrypt opens the vault and returns the stored credential
func (v *Vault) Decrypt(password string) (*Credential, error) {
	if v.Version != vaultVersion {
		return nil, fmt.Errorf("unsupported vault version %d", v.Version)
	}

	key, err := deriveKey(password, v.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clearBytes(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, v.Nonce, v.Data, nil)
	if err != nil {
		return nil, ErrWrongPassword
	}
	defer clearBytes(plaintext)

	var cred Credential
	if err := json.Unmarshal(plaintext, &cred); err != nil {
		return nil, fmt.Errorf("failed to deserialize credential: %w", err)
	}
	return &cred, nil
}

// ValidatePassword reports whether password opens the vault
func (v *Vault) ValidatePassword(password string) bool {
	_, err := v.Decrypt(password)
	return err == nil
}

func deriveKey(password string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), salt, ScryptN, ScryptR, ScryptP, KeyLen)
	if err != nil {
		return nil, fmt.Errorf("scrypt key derivation failed: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
