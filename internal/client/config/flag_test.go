package config

import (
	"flag"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	tests := []struct {
		expected *Config
		name     string
		args     []string
	}{
		{name: "overrides both", args: []string{"cmd", "-a", "https://api.uncovr.app/api/v1", "-d", "/tmp/u.db"},
			expected: &Config{ServerBaseURL: "https://api.uncovr.app/api/v1", DatabasePath: "/tmp/u.db"}},
		{name: "no flags keeps zero values", args: []string{"cmd"},
			expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
			os.Args = tt.args

			config := &Config{}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
