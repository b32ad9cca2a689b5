package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	err = os.Mkdir(tempConfigsSubDir, 0755)
	require.NoError(t, err)

	testAppName := "TestGateway"
	testPort := 9090
	testLogLevel := "debug"
	testBaseURL := "https://api.example.test/v2"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nUPSTREAM_BASE_URL=%s\nUPSTREAM_API_TOKEN=secret\n",
		testAppName, testPort, testLogLevel, testBaseURL,
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_happy.env")
	err = os.WriteFile(envFilePath, []byte(envContent), 0644)
	require.NoError(t, err)

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWD)
	}()

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testBaseURL, cfg.Upstream.BaseURL)
	assert.Equal(t, "secret", cfg.Upstream.APIToken)

	// Untouched fields keep their defaults
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 2*time.Second, cfg.Upstream.PollInterval)
	assert.Equal(t, 15, cfg.Upstream.PollMaxAttempts)
	assert.Equal(t, "payment_requests", cfg.Kafka.TransactionTopic)
	assert.Equal(t, time.Hour, cfg.Redis.PredictionTTL)
	assert.Equal(t, 10, cfg.WorkerPool.Size)
}

func TestLoadConfig_MissingFileFallsBackToDefaults(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test_defaults")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWD)
	}()
	err = os.Chdir(tempDir)
	require.NoError(t, err)

	cfg, err := LoadConfig("does_not_exist")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "momo-gateway", cfg.Application.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.sandbox.pawapay.io/v2", cfg.Upstream.BaseURL)
	assert.Equal(t, "payment_requests_dlq", cfg.Kafka.DLQTopic)
	assert.Equal(t, 24*time.Hour, cfg.Redis.StatusTTL)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg, err := LoadConfigWithName("nonexistent_config_file")
	require.NoError(t, err)

	cfg.Server.Port = 0
	cfg.Upstream.BaseURL = ""
	cfg.Upstream.PollMaxAttempts = -1

	err = cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "UPSTREAM_BASE_URL")
	assert.Contains(t, err.Error(), "UPSTREAM_POLL_MAX_ATTEMPTS")
}
