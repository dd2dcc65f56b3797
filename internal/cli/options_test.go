package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilslickpad/storeops/internal/config"
)

func TestOptionsWrites(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"default is dry run", nil, false},
		{"execute", []string{"--execute"}, true},
		{"fix", []string{"--fix"}, true},
		{"dry-run wins over execute", []string{"--execute", "--dry-run"}, false},
		{"dry-run wins over fix", []string{"--fix", "--dry-run"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts Options
			cmd := &cobra.Command{Use: "tool", RunE: func(*cobra.Command, []string) error { return nil }}
			opts.Bind(cmd)
			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.want, opts.Writes())
		})
	}
}

func TestOptionsValues(t *testing.T) {
	var opts Options
	cmd := &cobra.Command{Use: "tool", RunE: func(*cobra.Command, []string) error { return nil }}
	opts.Bind(cmd)
	cmd.SetArgs([]string{"--max=25", "--collection=quartz-bangers", "--json", "--report"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, 25, opts.Max)
	assert.Equal(t, "quartz-bangers", opts.Collection)
	assert.True(t, opts.JSON)
	assert.True(t, opts.Report)
	assert.Equal(t, "DRY RUN", opts.Mode())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&config.Config{Environment: "production", LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))

	_, err = NewLogger(&config.Config{LogLevel: "loud"})
	assert.Error(t, err)
}
