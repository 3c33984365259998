package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/chinmay1088/urchain/api"
	"github.com/chinmay1088/urchain/profile"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const minPassphraseLen = 8

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store your indexer api key encrypted",
	Long: `Store the indexer api key in ~/.urchain, encrypted with a passphrase.

Run 'urchain unlock' afterwards to use it without typing it again.

Example:
  urchain login`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock the stored api key for a session",
	Long: fmt.Sprintf(`Decrypt the stored api key and keep it unlocked for %d minutes.
The session is bound to the current indexer host.

Example:
  urchain unlock`, profile.SessionDuration),
	Args: cobra.NoArgs,
	RunE: runUnlock,
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Forget the unlocked api key",
	Args:  cobra.NoArgs,
	RunE:  runLock,
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := profile.NewManager()
	if err != nil {
		return err
	}

	apiKey, err := readSecret("Enter your indexer api key: ")
	if err != nil {
		return fmt.Errorf("failed to read api key: %w", err)
	}
	apiKey = strings.TrimSpace(apiKey)
	// rejects empty and placeholder keys
	if _, err := api.NewClient("http://localhost", apiKey); err != nil {
		return err
	}

	passphrase, err := readSecret("Enter a passphrase to protect it: ")
	if err != nil {
		return fmt.Errorf("failed to read passphrase: %w", err)
	}
	if len(passphrase) < minPassphraseLen {
		return fmt.Errorf("passphrase must be at least %d characters long", minPassphraseLen)
	}

	confirm, err := readSecret("Confirm passphrase: ")
	if err != nil {
		return fmt.Errorf("failed to read passphrase confirmation: %w", err)
	}
	if passphrase != confirm {
		return errors.New("passphrases do not match")
	}

	if manager.VaultExists() {
		fmt.Println("Replacing the stored api key...")
	}
	if err := manager.SaveAPIKey(apiKey, passphrase); err != nil {
		return err
	}

	fmt.Println("✅ Api key stored")
	fmt.Println("💡 Run 'urchain unlock' to start a session")
	return nil
}

func runUnlock(cmd *cobra.Command, args []string) error {
	manager, err := profile.NewManager()
	if err != nil {
		return err
	}
	if !manager.VaultExists() {
		return profile.ErrNoVault
	}

	host, err := resolveHost(manager)
	if err != nil {
		return err
	}
	if manager.IsUnlocked(host) {
		fmt.Println("✅ Api key is already unlocked")
		return nil
	}

	passphrase := os.Getenv(envPassphrase)
	if passphrase == "" {
		passphrase, err = readSecret("Enter your passphrase: ")
		if err != nil {
			return fmt.Errorf("failed to read passphrase: %w", err)
		}
	}

	if _, err := manager.Unlock(passphrase, host); err != nil {
		return err
	}

	fmt.Printf("✅ Unlocked for %d minutes on %s\n", profile.SessionDuration, host)
	return nil
}

func runLock(cmd *cobra.Command, args []string) error {
	manager, err := profile.NewManager()
	if err != nil {
		return err
	}
	manager.Lock()
	fmt.Println("🔒 Api key locked")
	return nil
}

func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
