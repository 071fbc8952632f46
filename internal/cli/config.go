/*
Copyright © 2026 sixhats Authors
*/
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const configFileName = ".sixhats.yaml"

// Config represents the sixhats configuration
type Config struct {
	APIKey       string `yaml:"api_key,omitempty"`
	Name         string `yaml:"name,omitempty"`
	Model        string `yaml:"model,omitempty"`
	Provider     string `yaml:"provider,omitempty"`
	SearchAPIKey string `yaml:"search_api_key,omitempty"`
}

var (
	apiKey       string
	name         string
	model        string
	provider     string
	searchAPIKey string
	show         bool
	global       bool
	local        bool
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure sixhats settings",
	Long: `Configure sixhats settings like API key, model, provider and the
web search key used by the optimistic researcher.

Configuration can be stored globally or locally:
  --global    Save to ~/.sixhats.yaml (user-wide, default)
  --local     Save to ./.sixhats.yaml (project-specific)

Local config takes precedence over global config when running sixhats.

Examples:
  sixhats config --api "AIza..." --provider gemini --global
  sixhats config --model "gemini-2.5-flash" --local
  sixhats config --search-api "tvly-..."
  sixhats config --show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := getConfigPathWithScope()
		if err != nil {
			return err
		}

		if show {
			return showConfigWithScope()
		}

		if apiKey == "" && name == "" && model == "" && provider == "" && searchAPIKey == "" {
			return errors.New("no configuration option provided (see sixhats config --help)")
		}

		config := loadConfig(configPath)

		if apiKey != "" {
			config.APIKey = apiKey
			fmt.Printf("✓ API key set\n")
		}
		if name != "" {
			config.Name = name
			fmt.Printf("✓ Name set to: %s\n", name)
		}
		if model != "" {
			config.Model = model
			fmt.Printf("✓ Model set to: %s\n", model)
		}
		if provider != "" {
			config.Provider = provider
			fmt.Printf("✓ Provider set to: %s\n", provider)
		}
		if searchAPIKey != "" {
			config.SearchAPIKey = searchAPIKey
			fmt.Printf("✓ Search API key set\n")
		}

		if err := saveConfig(configPath, config); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}

		scope := "global"
		if local {
			scope = "local"
		}
		fmt.Printf("\nConfiguration saved to: %s (%s)\n", configPath, scope)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVar(&apiKey, "api", "", "API key for the AI provider")
	configCmd.Flags().StringVar(&name, "name", "", "Project name")
	configCmd.Flags().StringVar(&model, "model", "", "Default AI model to use")
	configCmd.Flags().StringVar(&provider, "provider", "", "AI provider (gemini, openai, anthropic, ollama, litellm)")
	configCmd.Flags().StringVar(&searchAPIKey, "search-api", "", "Tavily API key for web search")
	configCmd.Flags().BoolVar(&show, "show", false, "Show current configuration")
	configCmd.Flags().BoolVar(&global, "global", false, "Use global config (~/.sixhats.yaml)")
	configCmd.Flags().BoolVar(&local, "local", false, "Use local config (./.sixhats.yaml)")
	configCmd.MarkFlagsMutuallyExclusive("global", "local")
}

func getGlobalConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(home, configFileName), nil
}

func getLocalConfigPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("error getting current directory: %w", err)
	}
	return filepath.Join(cwd, configFileName), nil
}

func getConfigPathWithScope() (string, error) {
	if local {
		return getLocalConfigPath()
	}
	return getGlobalConfigPath()
}

func loadConfig(path string) *Config {
	config := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		// Config doesn't exist yet
		return config
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		logger.Warn("could not parse config", zap.String("path", path), zap.Error(err))
		return &Config{}
	}

	return config
}

// LoadEffectiveConfig loads config with local taking precedence over global
func LoadEffectiveConfig() *Config {
	var globalConfig, localConfig *Config
	if path, err := getGlobalConfigPath(); err == nil {
		globalConfig = loadConfig(path)
	}
	if path, err := getLocalConfigPath(); err == nil {
		localConfig = loadConfig(path)
	}
	return mergeConfig(globalConfig, localConfig)
}

// mergeConfig overlays the non-empty fields of local onto global.
func mergeConfig(global, local *Config) *Config {
	effective := &Config{}
	if global != nil {
		*effective = *global
	}
	if local == nil {
		return effective
	}

	if local.APIKey != "" {
		effective.APIKey = local.APIKey
	}
	if local.Name != "" {
		effective.Name = local.Name
	}
	if local.Model != "" {
		effective.Model = local.Model
	}
	if local.Provider != "" {
		effective.Provider = local.Provider
	}
	if local.SearchAPIKey != "" {
		effective.SearchAPIKey = local.SearchAPIKey
	}
	return effective
}

func saveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

func showConfigWithScope() error {
	globalPath, err := getGlobalConfigPath()
	if err != nil {
		return err
	}
	localPath, err := getLocalConfigPath()
	if err != nil {
		return err
	}

	switch {
	case local:
		fmt.Println("=== Local Configuration ===")
		fmt.Printf("Config file: %s\n\n", localPath)
		printConfig(loadConfig(localPath))
	case global:
		fmt.Println("=== Global Configuration ===")
		fmt.Printf("Config file: %s\n\n", globalPath)
		printConfig(loadConfig(globalPath))
	default:
		fmt.Println("=== Effective Configuration ===")
		fmt.Printf("Global: %s\n", globalPath)
		fmt.Printf("Local:  %s\n\n", localPath)
		printConfig(LoadEffectiveConfig())
	}
	return nil
}

func printConfig(config *Config) {
	fmt.Printf("API Key:    %s\n", orNotSet(maskKey(config.APIKey)))
	fmt.Printf("Name:       %s\n", orNotSet(config.Name))
	fmt.Printf("Model:      %s\n", orNotSet(config.Model))
	fmt.Printf("Provider:   %s\n", orNotSet(config.Provider))
	fmt.Printf("Search Key: %s\n", orNotSet(maskKey(config.SearchAPIKey)))
}

// maskKey keeps the first and last four characters of longer keys.
func maskKey(key string) string {
	if len(key) > 8 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	return key
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
