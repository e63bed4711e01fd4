// internal/commands/root_flags_test.go
package medivise

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/medivise/medivise/internal/logging"
	"github.com/spf13/viper"
)

func resetFlag(cmdFlag string) {
	flag := rootCmd.PersistentFlags().Lookup(cmdFlag)
	if flag == nil {
		return
	}
	_ = flag.Value.Set(flag.DefValue)
	flag.Changed = false
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestPersistentPreRunEUsesFlagValues(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "medivise.log")
	configPath := writeTempConfig(t, "{}")

	prevCfgFile := cfgFile
	cfgFile = configPath
	viper.SetConfigFile(configPath)
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
	})
	t.Cleanup(func() { _ = logging.Close() })

	for _, name := range []string{"debug", "metrics", "model", "baseUrl", "style", "logFile"} {
		resetFlag(name)
	}
	_ = rootCmd.PersistentFlags().Set("debug", "true")
	_ = rootCmd.PersistentFlags().Set("metrics", "true")
	_ = rootCmd.PersistentFlags().Set("model", "llama3.2:3b")
	_ = rootCmd.PersistentFlags().Set("style", "clinical")
	_ = rootCmd.PersistentFlags().Set("logFile", logPath)

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	if currentConfig == nil || currentConfig.ConfigPath != configPath {
		t.Fatalf("expected config loaded with path %s", configPath)
	}
	if !currentConfig.Debug || !currentConfig.Metrics {
		t.Fatalf("expected flag values to flow into config: %+v", currentConfig)
	}
	if currentConfig.Model != "llama3.2:3b" {
		t.Fatalf("expected model set, got %s", currentConfig.Model)
	}
	if currentConfig.SummaryStyle() != "clinical" {
		t.Fatalf("expected style set, got %s", currentConfig.SummaryStyle())
	}
}

func TestConfigFileValuesSurvive(t *testing.T) {
	configPath := writeTempConfig(t, `{"model":"phi4-mini","chunkMaxChars":2000,"chunkOverlap":200}`)

	prevCfgFile := cfgFile
	cfgFile = configPath
	viper.SetConfigFile(configPath)
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
	})
	t.Cleanup(func() { _ = logging.Close() })

	for _, name := range []string{"debug", "metrics", "model", "baseUrl", "style", "logFile"} {
		resetFlag(name)
	}

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	maxChars, overlap := currentConfig.Chunking()
	if maxChars != 2000 || overlap != 200 {
		t.Fatalf("expected chunking from config file, got %d/%d", maxChars, overlap)
	}
}

func TestShowConfigCommandOutput(t *testing.T) {
	configPath := writeTempConfig(t, "{}")

	prevCfgFile := cfgFile
	cfgFile = configPath
	viper.SetConfigFile(configPath)
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
	})
	t.Cleanup(func() { _ = logging.Close() })

	for _, name := range []string{"debug", "metrics", "model", "baseUrl", "style", "logFile"} {
		resetFlag(name)
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--debug", "show", "config"})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	_, err := rootCmd.ExecuteC()
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Config file: "+configPath) {
		t.Fatalf("expected config file path in output, got %s", out)
	}
	if !strings.Contains(out, "Debug:            true") {
		t.Fatalf("expected debug in output, got %s", out)
	}
}
