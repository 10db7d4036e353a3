package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validHTTPConfig() HTTPConfig {
	cfg := HTTPConfig{Port: 8080, MaxHeaderBytes: 1 << 20}
	cfg.Timeout.Read = time.Second
	cfg.Timeout.Write = time.Second
	cfg.Timeout.Idle = time.Minute
	cfg.Timeout.ReadHeader = time.Second
	return cfg
}

func Test_HTTPConfig_Validate(t *testing.T) {
	cfg := validHTTPConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = validHTTPConfig()
	cfg.Timeout.Read = 0
	assert.Error(t, cfg.Validate())
}

func Test_BackendConfig_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		url       string
		expectErr bool
	}{
		{name: "https url", url: "https://shop.example.com/api"},
		{name: "http url", url: "http://localhost:8080/api"},
		{name: "empty", url: "", expectErr: true},
		{name: "missing scheme", url: "shop.example.com/api", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := BackendConfig{URL: tc.url, Timeout: 5 * time.Second}
			err := cfg.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_FileStoreConfig_Validate(t *testing.T) {
	cfg := FileStoreConfig{Path: "sliders.json"}
	assert.NoError(t, cfg.Validate())

	cfg.Path = ""
	assert.Error(t, cfg.Validate())
}

func Test_PProfConfig_Validate(t *testing.T) {
	cfg := PProfConfig{Enabled: true}
	assert.Error(t, cfg.Validate())

	cfg.Addr = ":6060"
	assert.NoError(t, cfg.Validate())

	cfg = PProfConfig{Enabled: false}
	assert.NoError(t, cfg.Validate())
}

func Test_ShutdownConfig_Validate(t *testing.T) {
	assert.Error(t, (&ShutdownConfig{}).Validate())
	assert.NoError(t, (&ShutdownConfig{Timeout: 5 * time.Second}).Validate())
}
