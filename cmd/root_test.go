package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/lehigh-university-libraries/homelibrary/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShowMasksSecrets(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("HOMELIBRARY_VISION_GEMINI_API_KEY", "very-secret")
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil))) })

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"config", "show"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "provider: gemini")
	assert.Contains(t, out.String(), "********")
	assert.NotContains(t, out.String(), "very-secret")
}

func TestNewLogHandler(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Log
		wantErr bool
	}{
		{"text", config.Log{Level: "info", Format: "text"}, false},
		{"json debug", config.Log{Level: "DEBUG", Format: "json"}, false},
		{"bad level", config.Log{Level: "loud", Format: "text"}, true},
		{"bad format", config.Log{Level: "info", Format: "xml"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, err := newLogHandler(io.Discard, tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Title"}, [][]string{{"1", "Il fu Mattia Pascal"}}, 1)
	assert.Contains(t, out, "Il fu Mattia Pascal")
	assert.Contains(t, out, "TITLE")
}
