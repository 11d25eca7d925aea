//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// placesFixture is the gazetteer the picker searches offline
const placesFixture = "../internal/geocode/testdata/places.json"

// CreateTestWorkspace creates an isolated directory holding the places file
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	dir, err := os.MkdirTemp("", "locsearch-e2e-*")
	if err != nil {
		return "", fmt.Errorf("failed to create workspace: %w", err)
	}
	tf.workspace = dir

	data, err := os.ReadFile(placesFixture)
	if err != nil {
		return "", fmt.Errorf("failed to read fixture: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "places.json"), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write fixture: %w", err)
	}
	return dir, nil
}

// StartPicker starts the picker against the offline gazetteer
func (tf *TUITestFramework) StartPicker(args ...string) error {
	if tf.workspace == "" {
		if _, err := tf.CreateTestWorkspace(); err != nil {
			return err
		}
	}
	base := []string{
		"--backend", "gazetteer",
		"--gazetteer", filepath.Join(tf.workspace, "places.json"),
		"--debounce", "100ms",
	}
	return tf.StartApp(append(base, args...)...)
}
