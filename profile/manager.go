package profile

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chinmay1088/urchain/chains/bitcoin"
	"github.com/chinmay1088/urchain/crypto"
)

const (
	// Session duration in minutes
	SessionDuration = 30

	dirName          = ".urchain"
	sessionTokenSize = 32
)

var (
	ErrNoVault = errors.New("no stored api key. Run 'urchain login' first")
	ErrLocked  = errors.New("stored api key is locked. Run 'urchain unlock' first")
	ErrNoHost  = errors.New("no indexer host configured. Run 'urchain host <url>' or pass --host")
)

// SessionData holds an unlocked api key until it expires
type SessionData struct {
	Token      string    `json:"token"`
	APIKey     string    `json:"api_key"`
	Host       string    `json:"host"` // session is only valid for this host
	Expiration time.Time `json:"expiration"`
}

// Manager owns the on-disk profile: indexer host, network, the encrypted
// api key and the unlock session.
type Manager struct {
	dir         string
	vaultPath   string
	sessionPath string
	hostPath    string
	networkPath string
	mu          sync.RWMutex
	network     string
	now         func() time.Time
}

// NewManager creates a manager rooted at ~/.urchain
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewManagerAt(filepath.Join(homeDir, dirName)), nil
}

// NewManagerAt creates a manager rooted at dir
func NewManagerAt(dir string) *Manager {
	m := &Manager{
		dir:         dir,
		vaultPath:   filepath.Join(dir, "credentials.vault"),
		sessionPath: filepath.Join(dir, "session.json"),
		hostPath:    filepath.Join(dir, "host.txt"),
		networkPath: filepath.Join(dir, "network.txt"),
		network:     bitcoin.NetworkMainnet,
		now:         time.Now,
	}

	// Read network file if it exists
	if data, err := os.ReadFile(m.networkPath); err == nil {
		network := strings.TrimSpace(string(data))
		if network == bitcoin.NetworkMainnet || network == bitcoin.NetworkTestnet {
			m.network = network
		}
	}

	return m
}

// Dir returns the profile directory
func (m *Manager) Dir() string {
	return m.dir
}

// Network returns the current network (mainnet or testnet)
func (m *Manager) Network() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.network
}

// IsTestnet returns true if the profile is in testnet mode
func (m *Manager) IsTestnet() bool {
	return m.Network() == bitcoin.NetworkTestnet
}

// SetNetwork persists the network choice
func (m *Manager) SetNetwork(network string) error {
	network = strings.ToLower(strings.TrimSpace(network))
	if network != bitcoin.NetworkMainnet && network != bitcoin.NetworkTestnet {
		return fmt.Errorf("invalid network: %s. Use 'mainnet' or 'testnet'", network)
	}

	if err := m.writeFile(m.networkPath, []byte(network)); err != nil {
		return fmt.Errorf("failed to write network file: %w", err)
	}

	m.mu.Lock()
	m.network = network
	m.mu.Unlock()
	return nil
}

// Host returns the stored indexer host
func (m *Manager) Host() (string, error) {
	data, err := os.ReadFile(m.hostPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoHost
	}
	if err != nil {
		return "", fmt.Errorf("failed to read host file: %w", err)
	}

	host := strings.TrimSpace(string(data))
	if host == "" {
		return "", ErrNoHost
	}
	return host, nil
}

// SetHost persists the indexer host. Any unlock session for another host
// stops being valid.
func (m *Manager) SetHost(host string) error {
	host = strings.TrimSpace(host)
	if host == "" {
		return errors.New("host must not be empty")
	}
	if err := m.writeFile(m.hostPath, []byte(host)); err != nil {
		return fmt.Errorf("failed to write host file: %w", err)
	}
	return nil
}

// SaveAPIKey encrypts apiKey with password and stores it, replacing any
// previous key and session.
func (m *Manager) SaveAPIKey(apiKey, password string) error {
	vault, err := crypto.NewVault(apiKey, password)
	if err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}
	if err := m.saveVault(vault); err != nil {
		return err
	}
	m.clearSession()
	return nil
}

// VaultExists checks if a vault file exists
func (m *Manager) VaultExists() bool {
	_, err := os.Stat(m.vaultPath)
	return err == nil
}

// Unlock decrypts the stored api key and keeps it in a session for
// SessionDuration minutes.
func (m *Manager) Unlock(password, host string) (string, error) {
	apiKey, err := m.Decrypt(password)
	if err != nil {
		return "", err
	}
	if err := m.createSession(apiKey, host); err != nil {
		return "", err
	}
	return apiKey, nil
}

// Decrypt opens the vault without creating a session
func (m *Manager) Decrypt(password string) (string, error) {
	if !m.VaultExists() {
		return "", ErrNoVault
	}

	vault, err := m.loadVault()
	if err != nil {
		return "", err
	}

	cred, err := vault.Decrypt(password)
	if err != nil {
		return "", fmt.Errorf("failed to unlock api key: %w", err)
	}
	return cred.APIKey, nil
}

// Lock removes the session
func (m *Manager) Lock() {
	m.clearSession()
}

// SessionAPIKey returns the api key of a valid session for host
func (m *Manager) SessionAPIKey(host string) (string, error) {
	session, ok := m.loadSession()
	if !ok || session.Host != host {
		return "", ErrLocked
	}
	return session.APIKey, nil
}

// IsUnlocked reports whether a valid session exists for host
func (m *Manager) IsUnlocked(host string) bool {
	_, err := m.SessionAPIKey(host)
	return err == nil
}

// SessionExpiry returns when the current session ends
func (m *Manager) SessionExpiry() (time.Time, bool) {
	session, ok := m.loadSession()
	if !ok {
		return time.Time{}, false
	}
	return session.Expiration, true
}

// generateSessionToken creates a random session token
func generateSessionToken() (string, error) {
	tokenBytes := make([]byte, sessionTokenSize)
	_, err := rand.Read(tokenBytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}

func validSessionToken(token string) bool {
	if len(token) != sessionTokenSize*2 {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}

// createSession creates and saves a new session
func (m *Manager) createSession(apiKey, host string) error {
	token, err := generateSessionToken()
	if err != nil {
		return fmt.Errorf("failed to generate session token: %w", err)
	}

	session := SessionData{
		Token:      token,
		APIKey:     apiKey,
		Host:       host,
		Expiration: m.now().Add(SessionDuration * time.Minute),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := m.writeFile(m.sessionPath, data); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// loadSession loads the session if it exists and is valid
func (m *Manager) loadSession() (*SessionData, bool) {
	data, err := os.ReadFile(m.sessionPath)
	if err != nil {
		return nil, false
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		// Session file is corrupted, delete it
		os.Remove(m.sessionPath)
		return nil, false
	}

	// sessions written by Unlock always carry a token
	if !validSessionToken(session.Token) || session.APIKey == "" {
		os.Remove(m.sessionPath)
		return nil, false
	}

	if m.now().After(session.Expiration) {
		os.Remove(m.sessionPath)
		return nil, false
	}

	return &session, true
}

// clearSession removes the current session
func (m *Manager) clearSession() {
	os.Remove(m.sessionPath)
}

// saveVault saves the vault to disk
func (m *Manager) saveVault(vault *crypto.Vault) error {
	data, err := json.Marshal(vault)
	if err != nil {
		return fmt.Errorf("failed to marshal vault: %w", err)
	}

	if err := m.writeFile(m.vaultPath, data); err != nil {
		return fmt.Errorf("failed to write vault file: %w", err)
	}

	return nil
}

// loadVault loads the vault from disk
func (m *Manager) loadVault() (*crypto.Vault, error) {
	data, err := os.ReadFile(m.vaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault file: %w", err)
	}

	var vault crypto.Vault
	if err := json.Unmarshal(data, &vault); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vault: %w", err)
	}

	return &vault, nil
}

// writeFile writes a private file, creating the profile directory if needed
func (m *Manager) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
