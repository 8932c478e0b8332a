package projectconfig

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/yacobolo/twsense/internal/catalog"
)

// EnvPrefix prefixes environment overrides, e.g. TWSENSE_PROJECT_PREFIX.
const EnvPrefix = "TWSENSE_PROJECT_"

// ErrInvalidVersion is returned for an unsupported project.version value.
var ErrInvalidVersion = errors.New("invalid tailwind version")

// Load reads the project configuration under root: FileName (if present),
// TWSENSE_PROJECT_* environment overrides and then the @theme of the CSS
// entry file named by project.css. Explicit settings win over theme values.
func Load(root string) (*Config, error) {
	k := koanf.New(".")

	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		// TWSENSE_PROJECT_COLORS_BRAND -> project.colors.brand
		return "project." + strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
			"_", ".",
		)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	cfg := Default(root)
	cfg.Prefix = k.String("project.prefix")
	cfg.CSSEntry = k.String("project.css")
	cfg.Allow = k.Strings("project.allow")
	cfg.Block = k.Strings("project.block")

	explicitVersion := k.String("project.version")
	if explicitVersion != "" {
		v, ok := catalog.ParseVersion(explicitVersion)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, explicitVersion)
		}
		cfg.Version = v
	}

	if cfg.CSSEntry != "" {
		entry := cfg.CSSEntry
		if !filepath.IsAbs(entry) {
			entry = filepath.Join(root, entry)
		}
		// #nosec G304 - path comes from project configuration
		content, err := os.ReadFile(entry)
		if err != nil {
			return nil, fmt.Errorf("reading css entry: %w", err)
		}
		theme := ParseTheme(string(content))
		maps.Copy(cfg.Variables, theme.Variables)
		maps.Copy(cfg.CustomColors, theme.Colors())
		if cfg.Prefix == "" {
			cfg.Prefix = theme.Prefix
		}
		if explicitVersion == "" && theme.Version != 0 {
			cfg.Version = theme.Version
		}
	}

	maps.Copy(cfg.Variables, k.StringMap("project.variables"))
	maps.Copy(cfg.CustomColors, k.StringMap("project.colors"))
	maps.Copy(cfg.Descriptions, k.StringMap("project.descriptions"))

	return cfg, nil
}
