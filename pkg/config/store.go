package config

import (
	"fmt"
	"strings"
)

// FileStoreConfig points at the JSON file backing a file store.
type FileStoreConfig struct {
	Path string `koanf:"path"`
}

// String returns a string representation of the file store configuration.
func (c *FileStoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- File store ---\n")
	b.WriteString(fmt.Sprintf("  path: %s\n", c.Path))
	return b.String()
}

func (c *FileStoreConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("store file path is not configured")
	}
	return nil
}
