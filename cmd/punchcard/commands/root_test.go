package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/punchcard/internal/config"
	"github.com/dyluth/punchcard/internal/panel"
	"github.com/dyluth/punchcard/internal/relay"
	pkgrelay "github.com/dyluth/punchcard/pkg/relay"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCommand_ShowsHelpWhenNoSubcommand tests that the root command
// shows help instead of silently succeeding when invoked without a subcommand
func TestRootCommand_ShowsHelpWhenNoSubcommand(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Usage:")
	assert.Contains(t, buf.String(), "punchcard")
}

// TestRootCommand_RejectsUnknownFlags tests that unknown flags cause an error
func TestRootCommand_RejectsUnknownFlags(t *testing.T) {
	testRoot := &cobra.Command{
		Use: "punchcard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{},
	}
	testRoot.SetArgs([]string{"--unknown-flag", "value"})
	buf := new(bytes.Buffer)
	testRoot.SetOut(buf)
	testRoot.SetErr(buf)

	err := testRoot.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc", "today")
	assert.Equal(t, "1.2.3 (commit: abc, built: today)", rootCmd.Version)
}

func TestRegisteredCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"init", "serve", "relay", "start", "tap", "show", "watch"} {
		assert.Contains(t, names, want)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults when file is missing", func(t *testing.T) {
		configPath = filepath.Join(t.TempDir(), "punchcard.yml")
		t.Setenv(config.EnvInstance, "office")

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, "office", cfg.Instance)
		assert.Equal(t, config.DefaultTimezone, cfg.Timezone)
	})

	t.Run("invalid file", func(t *testing.T) {
		configPath = filepath.Join(t.TempDir(), "punchcard.yml")
		require.NoError(t, os.WriteFile(configPath, []byte(`version: "9"`), 0644))

		_, err := loadConfig()
		require.Error(t, err)
		assert.Equal(t, "invalid configuration", err.Error())
	})
}

func TestRelayCommands_EndToEnd(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	mr := miniredis.RunT(t)
	path := filepath.Join(t.TempDir(), "punchcard.yml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`version: "1.0"
timezone: "UTC"
instance: "e2e"
redis:
  url: "redis://%s"
`, mr.Addr())), 0644))
	configPath = path
	t.Setenv(config.EnvInstance, "")
	t.Setenv(config.EnvRedisURL, "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	ctrl, err := newController(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	client, err := connectRelay(ctx, cfg)
	require.NoError(t, err)
	done := make(chan struct{})
	go func() {
		relay.NewEngine(client, ctrl).Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		client.Close()
	})

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(pkgrelay.StartEventsChannel("e2e"))[pkgrelay.StartEventsChannel("e2e")] == 1
	}, 2*time.Second, 10*time.Millisecond)

	run := func(args ...string) error {
		rootCmd.SetArgs(append(args, "--config", path))
		return rootCmd.Execute()
	}

	require.NoError(t, run("start", "--user", "alice", "--name", "Alice"))

	panels := ctrl.Panels()
	require.Len(t, panels, 1)
	messageID := panels[0].Ref.MessageID

	require.NoError(t, run("tap", messageID, "in", "--user", "alice"))
	assert.NotEmpty(t, ctrl.Store().GetOrInit("alice").In)

	require.NoError(t, run("show", messageID))

	err = run("tap", messageID, "lunch", "--user", "mallory")
	require.Error(t, err)
	assert.Equal(t, "event failed", err.Error())
	assert.Empty(t, ctrl.Store().GetOrInit("alice").Lunch)

	err = run("tap", messageID, "nap", "--user", "alice")
	require.Error(t, err)
	assert.Equal(t, "unknown button", err.Error())

	p, ok := ctrl.Panel(panel.MessageRef{ChannelID: "cli", MessageID: messageID})
	require.True(t, ok)
	assert.Equal(t, panel.StateOpen, p.State)
}
