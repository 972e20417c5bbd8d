package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	r := New(nil)

	t.Run("SymbolToCanonical", func(t *testing.T) {
		assert.Equal(t, "bitcoin", r.Resolve("BTC"))
		assert.Equal(t, "ethereum", r.Resolve("eth"))
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		assert.Equal(t, "bitcoin", r.Resolve("bTc"))
		assert.Equal(t, "bitcoin", r.Resolve("Bitcoin"))
	})

	t.Run("TrimsWhitespace", func(t *testing.T) {
		assert.Equal(t, "solana", r.Resolve("  SOL "))
	})

	t.Run("UnknownPassesThroughLowercased", func(t *testing.T) {
		assert.Equal(t, "somecoin", r.Resolve("SOMECOIN"))
		assert.False(t, r.Known("SOMECOIN"))
	})

	t.Run("ExtraEntriesWin", func(t *testing.T) {
		custom := New(map[string]string{"BTC": "wrapped-bitcoin", "NEWT": "newtoken"})
		assert.Equal(t, "wrapped-bitcoin", custom.Resolve("btc"))
		assert.Equal(t, "newtoken", custom.Resolve("NEWT"))
		assert.True(t, custom.Known("newt"))
	})
}

func TestNewFromFile(t *testing.T) {
	t.Run("EmptyPathUsesDefaults", func(t *testing.T) {
		r, err := NewFromFile("")
		require.NoError(t, err)
		assert.Equal(t, "bitcoin", r.Resolve("btc"))
	})

	t.Run("LoadsYAMLOverrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tokens:\n  PEPE: pepe\n  WIF: dogwifhat\n"), 0o600))

		r, err := NewFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "pepe", r.Resolve("pepe"))
		assert.Equal(t, "dogwifhat", r.Resolve("WIF"))
		assert.Equal(t, "bitcoin", r.Resolve("btc"))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := NewFromFile("/nonexistent/tokens.yaml")
		assert.Error(t, err)
	})

	t.Run("MalformedYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tokens: [not a map"), 0o600))
		_, err := NewFromFile(path)
		assert.Error(t, err)
	})
}

func TestWindowMillis(t *testing.T) {
	tests := []struct {
		name string
		want int64
	}{
		{"1d", 86_400_000},
		{"7d", 604_800_000},
		{"30d", 2_592_000_000},
		{"1y", 31_536_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WindowMillis(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("Unrecognized", func(t *testing.T) {
		_, err := WindowMillis("2w")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized window")
	})

	t.Run("WindowsCopyIsIndependent", func(t *testing.T) {
		w := Windows()
		w["1d"] = 1
		again := Windows()
		assert.Equal(t, WindowDay, again["1d"])
	})
}
