package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadDotEnvFiles loads .env and .env.local from the working directory.
// godotenv never overwrites variables already present in the environment, so
// real exports always win over file values.
func loadDotEnvFiles(cwd string) error {
	files := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(cwd, ".env.local"),
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
