package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups your app’s secrets in the OS keychain.
	KeyringService = "jobrank"

	AccountAdzunaAppID  = "adzuna:app_id"
	AccountAdzunaAppKey = "adzuna:app_key"
)

// get reads a secret from the keychain, falling back to an environment
// variable when the keychain has no entry (headless setups).
func get(account, envVar string) string {
	pw, err := keyring.Get(KeyringService, account)
	if err == nil && strings.TrimSpace(pw) != "" {
		return strings.TrimSpace(pw)
	}
	return strings.TrimSpace(os.Getenv(envVar))
}

func AdzunaAppID() string {
	return get(AccountAdzunaAppID, "ADZUNA_APP_ID")
}

func AdzunaAppKey() string {
	return get(AccountAdzunaAppKey, "ADZUNA_APP_KEY")
}

func IMAPAccount(username, host string) string {
	return fmt.Sprintf("imap:%s@%s", username, host)
}

func IMAPPassword(username, host string) string {
	return get(IMAPAccount(username, host), "JOBRANK_IMAP_PASSWORD")
}

func Set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	return keyring.Set(KeyringService, account, value)
}

func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
