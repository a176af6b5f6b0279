package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups the app's secrets in the OS keychain.
	KeyringService = "apprenticetrack"
)

// ChannelAccount is the keychain account name for a notify channel's
// webhook URL.
func ChannelAccount(channel string) string {
	return fmt.Sprintf("apprenticetrack:webhook:%s", channel)
}

func GetChannelWebhook(channel string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("channel name is empty")
	}
	url, err := keyring.Get(KeyringService, ChannelAccount(channel))
	if err == nil && strings.TrimSpace(url) != "" {
		return url, nil
	}
	return "", fmt.Errorf("webhook URL for channel %q not found in keychain", channel)
}

func SetChannelWebhook(channel string, url string) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("channel name is empty")
	}
	if strings.TrimSpace(url) == "" {
		return errors.New("webhook URL is empty")
	}
	return keyring.Set(KeyringService, ChannelAccount(channel), url)
}

func DeleteChannelWebhook(channel string) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("channel name is empty")
	}
	return keyring.Delete(KeyringService, ChannelAccount(channel))
}
