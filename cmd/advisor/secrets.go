package main

import (
	"bytes"
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/term"

	"advisor/pkg/config"
)

// ensureAPIKey makes sure a hosted provider has its API key available:
// from the config itself, from the encrypted secrets file, or by prompting
// on first run and saving the key encrypted.
func ensureAPIKey(cfg *config.Config) error {
	if cfg.LLM.Provider == config.ProviderOllama || cfg.LLM.APIKey != "" {
		return nil
	}

	if config.SecretsFileExists(".") {
		if err := unlockSecrets(); err != nil {
			return err
		}
		return cfg.ResolveAPIKey()
	}

	if err := firstRunSecrets(cfg.LLM.Provider); err != nil {
		return err
	}
	return cfg.ResolveAPIKey()
}

// unlockSecrets prompts for the project password and decrypts the secrets
// file into the in-process store.
func unlockSecrets() error {
	fmt.Print("🔐 Enter your advisor password: ")
	password, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	secrets, err := config.DecryptSecretsFile(".", string(password))
	if err != nil {
		return fmt.Errorf("failed to decrypt secrets: %w", err)
	}
	config.SetDecryptedSecrets(secrets)
	return nil
}

// firstRunSecrets collects the provider API key and a password, then
// writes the encrypted secrets file.
func firstRunSecrets(provider string) error {
	envName := map[string]string{
		config.ProviderAnthropic: "ANTHROPIC_API_KEY",
		config.ProviderOpenAI:    "OPENAI_API_KEY",
		config.ProviderGoogle:    "GEMINI_API_KEY",
	}[provider]
	if envName == "" {
		return fmt.Errorf("unknown LLM provider: %s", provider)
	}

	fmt.Printf("First run with provider %s.\n", provider)
	fmt.Printf("Enter your %s (input hidden): ", envName)
	key, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	if strings.TrimSpace(string(key)) == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	password, err := promptForPassword()
	if err != nil {
		return err
	}

	secrets := map[string]string{envName: strings.TrimSpace(string(key))}
	if err := config.EncryptSecretsFile(".", password, secrets); err != nil {
		return fmt.Errorf("failed to save secrets: %w", err)
	}
	config.SetDecryptedSecrets(secrets)

	fmt.Println("✅ API key saved encrypted (file permissions: 0600)")
	return nil
}

// promptForPassword asks for a new password with confirmation.
func promptForPassword() (string, error) {
	const maxAttempts = 3
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		fmt.Print("Choose a password to protect your keys: ")
		first, err := term.ReadPassword(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}

		fmt.Print("Confirm password: ")
		second, err := term.ReadPassword(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}

		if !bytes.Equal(first, second) {
			if attempt < maxAttempts {
				fmt.Println("❌ Passwords do not match. Please try again.")
				continue
			}
			return "", fmt.Errorf("passwords do not match after %d attempts", maxAttempts)
		}
		if len(first) == 0 {
			return "", fmt.Errorf("password cannot be empty")
		}
		return string(first), nil
	}
	return "", fmt.Errorf("password entry failed")
}
