package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	req.NoError(err)

	req.Equal(5000, cfg.Server.Port)
	req.Equal("http://localhost:1337", cfg.Bridge.UpstreamURL)
	req.Equal(10*time.Second, cfg.Bridge.Timeout)
	req.Equal(uint32(5), cfg.Bridge.CBConsecutiveFailures)
	req.Empty(cfg.Redis.Addr)
	req.Equal("info", cfg.Logger.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	req := require.New(t)
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9001")
	t.Setenv("DEVIKA_MEETING_URL", "http://devika:1337/")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadConfig()
	req.NoError(err)

	req.Equal(9001, cfg.Server.Port)
	req.Equal("http://devika:1337", cfg.Bridge.UpstreamURL)
	req.Equal("redis:6379", cfg.Redis.Addr)
}

func TestNewLogger(t *testing.T) {
	req := require.New(t)

	logger, err := NewLogger(LoggerConfig{Level: "debug", Format: "console"})
	req.NoError(err)
	req.NotNil(logger)

	_, err = NewLogger(LoggerConfig{Level: "loud"})
	req.Error(err)
}
