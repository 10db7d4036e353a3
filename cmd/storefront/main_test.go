package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ResolveBackend(t *testing.T) {
	t.Run("flag wins over configuration", func(t *testing.T) {
		t.Setenv("STOREFRONT_BACKEND_URL", "https://config.example.com/api")
		opts := options{backendURL: "https://flag.example.com/api", timeout: 10 * time.Second}

		resolveBackend(&opts, false)

		assert.Equal(t, "https://flag.example.com/api", opts.backendURL)
		assert.Equal(t, 10*time.Second, opts.timeout)
	})

	t.Run("environment configuration fills the blanks", func(t *testing.T) {
		t.Setenv("STOREFRONT_BACKEND_URL", "https://config.example.com/api")
		t.Setenv("STOREFRONT_BACKEND_TIMEOUT", "30s")
		opts := options{timeout: 10 * time.Second}

		resolveBackend(&opts, false)

		assert.Equal(t, "https://config.example.com/api", opts.backendURL)
		assert.Equal(t, 30*time.Second, opts.timeout)
	})

	t.Run("explicit timeout flag is kept", func(t *testing.T) {
		t.Setenv("STOREFRONT_BACKEND_URL", "https://config.example.com/api")
		t.Setenv("STOREFRONT_BACKEND_TIMEOUT", "30s")
		opts := options{timeout: 5 * time.Second}

		resolveBackend(&opts, true)

		assert.Equal(t, 5*time.Second, opts.timeout)
	})

	t.Run("built-in default without any configuration", func(t *testing.T) {
		opts := options{timeout: 10 * time.Second}

		resolveBackend(&opts, false)

		assert.Equal(t, defaultBackendURL, opts.backendURL)
	})
}
