// Package prompts holds the bundled hat instructions and loads them,
// optionally from an override directory.
package prompts

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

//go:embed files/*.txt
var bundled embed.FS

// ErrPromptNotFound is returned when no bundled prompt has the requested name.
var ErrPromptNotFound = errors.New("prompt not found")

// Loader resolves prompt files. When Dir is set, files there take
// precedence; a missing or empty override falls back to the bundled copy.
type Loader struct {
	Dir    string
	Logger *zap.Logger
}

// NewLoader creates a loader reading overrides from dir (may be empty).
func NewLoader(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{Dir: dir, Logger: logger.Named("prompts")}
}

// Default loads bundled prompts only and logs nothing.
var Default = NewLoader("", nil)

// LoadPromptText loads a bundled prompt by file name using Default.
func LoadPromptText(name string) (string, error) {
	return Default.Load(name)
}

// Load returns the trimmed prompt text for name.
func (l *Loader) Load(name string) (string, error) {
	log := l.logger()

	if l.Dir != "" {
		path := filepath.Join(l.Dir, name)
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			text := strings.TrimSpace(string(data))
			if text != "" {
				log.Debug("Loaded prompt from override directory", zap.String("path", path))
				return text, nil
			}
			log.Warn("Prompt override is empty; using bundled prompt", zap.String("path", path))
		case errors.Is(err, fs.ErrNotExist):
			log.Warn("Prompt override not found; using bundled prompt", zap.String("path", path))
		default:
			log.Error("Failed to read prompt override; using bundled prompt", zap.String("path", path), zap.Error(err))
		}
	}

	return l.loadBundled(name)
}

func (l *Loader) loadBundled(name string) (string, error) {
	log := l.logger()
	log.Info(fmt.Sprintf("Attempting to load prompt %q", name))

	data, err := bundled.ReadFile("files/" + name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn(fmt.Sprintf("Prompt file %q not found in bundled prompts, no default will be used.", name))
			return "", fmt.Errorf("%w: %s", ErrPromptNotFound, name)
		}
		log.Error("Unexpected error while loading prompt", zap.String("name", name), zap.Error(err))
		return "", fmt.Errorf("failed to load prompt %q: %w", name, err)
	}

	text := strings.TrimSpace(string(data))
	log.Debug("Prompt loaded", zap.String("name", name), zap.Int("length", len(text)))
	return text, nil
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// Names lists the bundled prompt files.
func Names() []string {
	entries, err := bundled.ReadDir("files")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

var placeholderRE = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Render replaces {key} placeholders with values from lookup. Keys that
// lookup does not know are left untouched.
func Render(text string, lookup func(key string) (string, bool)) string {
	return placeholderRE.ReplaceAllStringFunc(text, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := lookup(key); ok {
			return v
		}
		return m
	})
}

// Placeholders returns the distinct {key} names referenced by text, in order.
func Placeholders(text string) []string {
	seen := map[string]bool{}
	var keys []string
	for _, m := range placeholderRE.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}
