package lexicon

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OverridesYAML is the optional on-disk shape for extending the synonym
// map and the canonical token set without a code change.
type OverridesYAML struct {
	Tokens   []string            `yaml:"tokens"`
	Synonyms map[string][]string `yaml:"synonyms"`
}

// LoadOverrides reads an additional synonym/token file and merges it into
// the in-process lexicon. Missing files are not an error: the lexicon
// functions fine with only the built-in vocabulary.
func LoadOverrides(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("op=lexicon.LoadOverrides: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil
	}

	// #nosec G304 -- configuration file path is operator-controlled.
	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("op=lexicon.LoadOverrides: %w", err)
	}

	var parsed OverridesYAML
	if err := yaml.Unmarshal(content, &parsed); err != nil {
		return fmt.Errorf("op=lexicon.LoadOverrides: %w", err)
	}

	for _, t := range parsed.Tokens {
		canonical = append(canonical, CanonicalizeToken(t))
	}
	for k, v := range parsed.Synonyms {
		synonyms[CanonicalizeToken(k)] = append(synonyms[CanonicalizeToken(k)], v...)
	}
	return nil
}
