// Package scaffold writes a starter punchcard.yml.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/punchcard/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

// Initialize writes punchcard.yml into dir and returns its path.
// An existing file is only replaced when force is set.
func Initialize(dir string, force bool) (string, error) {
	path := filepath.Join(dir, config.DefaultPath)

	if !force {
		if err := CheckExisting(path); err != nil {
			return "", err
		}
	}

	content, err := templatesFS.ReadFile("templates/punchcard.yml.tmpl")
	if err != nil {
		return "", fmt.Errorf("failed to read punchcard.yml template: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	if _, err := config.Load(path); err != nil {
		return "", fmt.Errorf("created %s does not load: %w", path, err)
	}

	return path, nil
}

// CheckExisting returns an error if path already exists.
func CheckExisting(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists\n\nUse 'punchcard init --force' to overwrite it", path)
	}
	return nil
}

// PrintSuccess prints the created file and next steps.
func PrintSuccess(path string) {
	fmt.Println("\n✅ Created", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set your timezone and Discord prefix in", path)
	fmt.Printf("  2. export %s=<bot token>\n", config.EnvDiscordToken)
	fmt.Println("  3. Run 'punchcard serve'")
}
