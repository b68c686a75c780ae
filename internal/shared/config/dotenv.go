package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// loadEnvFiles applies KEY=VALUE files in order and returns the ones that
// were read. godotenv never overrides variables already in the environment,
// so earlier files and the real environment win.
func loadEnvFiles(paths ...string) []string {
	var loaded []string
	for _, path := range paths {
		err := godotenv.Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err == nil {
			loaded = append(loaded, path)
		}
	}
	return loaded
}
