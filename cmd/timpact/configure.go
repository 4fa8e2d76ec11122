package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rohankatakam/testimpact/internal/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactive setup wizard (with OS keychain support)",
	Long: `Walk through TestImpact configuration step-by-step with secure
credential storage.

This will configure:
1. Oracle provider (openai, gemini, or none)
2. API key (stored in OS keychain by default, never echoed)
3. GitHub token for pull-request analysis (optional)`,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 TestImpact Configuration Wizard")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	loadedCfg, err := config.Load("")
	if err != nil {
		loadedCfg = config.Default()
	}

	km := config.NewKeyringManager()
	keychainAvailable := km.IsAvailable()
	if !keychainAvailable {
		fmt.Println("⚠️  OS keychain not available (headless system or Linux without libsecret)")
		fmt.Println("   Credentials will be stored in the config file instead.")
		fmt.Println()
	}

	// Step 1: provider
	fmt.Println("Step 1/3: Oracle provider")
	fmt.Println()
	fmt.Println("Ambiguous files can be escalated to an external classifier.")
	fmt.Printf("Current: %s\n", loadedCfg.Oracle.Provider)
	fmt.Print("Provider (openai/gemini/none): ")
	provider := readLine(reader)
	switch provider {
	case "openai", "gemini", "none":
		loadedCfg.Oracle.Provider = provider
	case "":
		// keep current
	default:
		fmt.Printf("⚠️  Unknown provider %q, keeping %q\n", provider, loadedCfg.Oracle.Provider)
	}
	fmt.Println()

	// Step 2: API key
	if loadedCfg.Oracle.Provider != "none" {
		fmt.Println("Step 2/3: API key")
		fmt.Println()

		sourceInfo := km.GetAPIKeySource(loadedCfg)
		keep := false
		if sourceInfo.Source != "none" {
			fmt.Printf("Source: %s\n", sourceInfo.Recommended)
			fmt.Print("Keep existing key? (Y/n): ")
			response := readLine(reader)
			keep = response == "" || strings.ToLower(response) == "y"
		}

		if !keep {
			fmt.Print("Enter API key (input hidden): ")
			keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read API key: %w", err)
			}
			apiKey := strings.TrimSpace(string(keyBytes))

			if apiKey == "" {
				fmt.Println("⚠️  Empty key, skipping")
			} else if keychainAvailable {
				if err := km.SaveAPIKey(apiKey); err != nil {
					fmt.Printf("⚠️  Failed to save to keychain: %v\n", err)
					fmt.Println("Saving to config file instead...")
					setProviderKey(loadedCfg, apiKey)
					loadedCfg.Oracle.UseKeychain = false
				} else {
					fmt.Println("✅ API key saved to OS keychain (secure)")
					fmt.Printf("   📍 %s\n", keychainLocation())
					loadedCfg.Oracle.UseKeychain = true
				}
			} else {
				setProviderKey(loadedCfg, apiKey)
				loadedCfg.Oracle.UseKeychain = false
				fmt.Println("✅ API key saved to config file (plaintext)")
			}
		}
		fmt.Println()
	}

	// Step 3: GitHub token
	fmt.Println("Step 3/3: GitHub token (optional, for 'analyze --pr')")
	fmt.Print("Configure a GitHub token now? (y/N): ")
	if strings.ToLower(readLine(reader)) == "y" {
		fmt.Print("Enter token (input hidden): ")
		tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token := strings.TrimSpace(string(tokenBytes))

		if token == "" {
			fmt.Println("⚠️  Empty token, skipping")
		} else if keychainAvailable {
			if err := km.SaveGitHubToken(token); err != nil {
				fmt.Printf("⚠️  Failed to save to keychain: %v\n", err)
				loadedCfg.GitHub.Token = token
			} else {
				fmt.Println("✅ GitHub token saved to OS keychain")
			}
		} else {
			loadedCfg.GitHub.Token = token
		}
	}
	fmt.Println()

	if err := config.Save(loadedCfg, ""); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println("✅ Configuration saved to ~/.timpact/config.yaml")
	fmt.Println("Run 'timpact analyze' to analyze your working tree.")
	return nil
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// setProviderKey writes the key to the field matching the provider
func setProviderKey(cfg *config.Config, apiKey string) {
	if cfg.Oracle.Provider == "gemini" {
		cfg.Oracle.GeminiKey = apiKey
		return
	}
	cfg.Oracle.OpenAIKey = apiKey
}

func keychainLocation() string {
	switch runtime.GOOS {
	case "darwin":
		return "Keychain Access (login keychain)"
	case "windows":
		return "Windows Credential Manager"
	default:
		return "Secret Service (libsecret)"
	}
}
