package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/sms-api/internal/config"
)

func TestInitializeLevelAndFormat(t *testing.T) {
	require.NoError(t, Initialize(config.LogConfig{Level: "WARN", Format: "json"}))
	defer func() { _ = Initialize(config.LogConfig{Level: "info", Format: "text"}) }()

	assert.Equal(t, logrus.WarnLevel, Get().GetLevel())

	var buf bytes.Buffer
	SetOutput(&buf)
	WithField("queryType", "customers_search").Warn("slow query")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "slow query", line["msg"])
	assert.Equal(t, "customers_search", line["queryType"])
}

func TestInitializeRejectsBadOptions(t *testing.T) {
	defer func() { _ = Initialize(config.LogConfig{Level: "info", Format: "text"}) }()

	err := Initialize(config.LogConfig{Level: "chatty"})
	assert.True(t, errors.Is(err, errors.NotValid), "%v", err)
	err = Initialize(config.LogConfig{Level: "info", Format: "xml"})
	assert.True(t, errors.Is(err, errors.NotValid), "%v", err)

	err = Initialize(config.LogConfig{Level: "info", File: filepath.Join(t.TempDir(), "missing", "api.log")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening log file")
}
