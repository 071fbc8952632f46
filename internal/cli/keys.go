/*
Copyright © 2026 sixhats Authors
*/
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"sixhats/pkg/types"

	"github.com/mattn/go-isatty"
)

const (
	envProxyKey  = "LITELLM_PROXY_API_KEY"
	envProxyBase = "LITELLM_PROXY_API_BASE"
	envSearchKey = "TAVILY_API_KEY"
)

func getEnvKeyName(m types.Model) string {
	if m.UseProxy {
		return envProxyKey
	}
	switch m.Provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "gemini", "google":
		return "GEMINI_API_KEY"
	case "litellm":
		return envProxyKey
	default:
		return strings.ToUpper(m.Provider) + "_API_KEY"
	}
}

// fillAPIKeys resolves model keys from the environment, then the CLI
// config. It returns the names of models still without a key, sorted.
func fillAPIKeys(config *types.WorkflowConfig, cliConfig *Config, getenv func(string) string) []string {
	var missing []string
	for name, m := range config.Models {
		if m.UseProxy && m.ProxyBaseURL == "" {
			m.ProxyBaseURL = getenv(envProxyBase)
		}

		switch {
		case m.Provider == "ollama" && !m.UseProxy:
		case m.APIKey != "":
		case getenv(getEnvKeyName(m)) != "":
			m.APIKey = getenv(getEnvKeyName(m))
		case cliConfig.APIKey != "" && (cliConfig.Provider == m.Provider || cliConfig.Provider == ""):
			m.APIKey = cliConfig.APIKey
		case m.UseProxy || m.Provider == "litellm":
			// proxies may run without auth
		default:
			missing = append(missing, name)
		}
		config.Models[name] = m
	}
	sort.Strings(missing)
	return missing
}

// ensureAPIKeys fills keys and, on an interactive terminal, asks for the
// ones still missing.
func ensureAPIKeys(config *types.WorkflowConfig, cliConfig *Config) error {
	missing := fillAPIKeys(config, cliConfig, os.Getenv)
	if len(missing) == 0 {
		return nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		m := config.Models[missing[0]]
		return fmt.Errorf("API key required for %s (%s): set %s", missing[0], m.Provider, getEnvKeyName(m))
	}
	return promptAPIKeys(config, cliConfig, missing, os.Stdin, os.Stdout)
}

func promptAPIKeys(config *types.WorkflowConfig, cliConfig *Config, missing []string, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	for _, name := range missing {
		m := config.Models[name]
		fmt.Fprintf(out, "API key required for %s (%s)\n", name, m.Provider)
		fmt.Fprintf(out, "Enter API key (or set %s environment variable): ", getEnvKeyName(m))

		key, err := reader.ReadString('\n')
		if err != nil && key == "" {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("API key is required for %s", name)
		}
		m.APIKey = key
		config.Models[name] = m

		fmt.Fprint(out, "Save this API key to config? (y/n): ")
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			continue
		}
		cliConfig.APIKey = key
		cliConfig.Provider = m.Provider
		path, err := getGlobalConfigPath()
		if err == nil {
			err = saveConfig(path, cliConfig)
		}
		if err != nil {
			fmt.Fprintf(out, "Warning: Could not save config: %v\n", err)
		} else {
			fmt.Fprintln(out, "✓ API key saved to config")
		}
	}
	return nil
}

// searchKey picks the web search key: workflow file, env, then CLI config.
func searchKey(search types.SearchConfig, cliConfig *Config, getenv func(string) string) string {
	if search.APIKey != "" {
		return search.APIKey
	}
	if k := getenv(envSearchKey); k != "" {
		return k
	}
	return cliConfig.SearchAPIKey
}
