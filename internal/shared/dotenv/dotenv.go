// Package dotenv loads local .env files before configuration is parsed.
package dotenv

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Candidates are tried in order. Values already present in the environment
// are never overwritten, so earlier files win over later ones.
var Candidates = []string{".env.local", ".env"}

// Load reads every existing candidate file and returns the ones it loaded.
func Load() ([]string, error) {
	return LoadFrom(Candidates...)
}

// LoadFrom is Load with an explicit file list. A file that exists but cannot
// be parsed is an error.
func LoadFrom(files ...string) ([]string, error) {
	var loaded []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	for _, f := range loaded {
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return loaded, nil
}
