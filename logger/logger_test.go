package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_WritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	l := build(Config{Level: WarnLevel, Console: &buf})

	l.Info("dropped")
	l.Warn("kept", String("music", "m1"))
	require.NoError(t, l.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "m1", entry["music"])
}

func TestParseLevel_UnknownFallsBackToInfo(t *testing.T) {
	assert.Equal(t, parseLevel(InfoLevel), parseLevel("verbose"))
}

func TestL_NopBeforeInit(t *testing.T) {
	assert.NotNil(t, L())
}

func TestStrings_EncodesList(t *testing.T) {
	var buf bytes.Buffer
	l := build(Config{Level: DebugLevel, Console: &buf})

	l.Debug("setlist reordered", Strings("order", []string{"m2", "m1"}))
	require.NoError(t, l.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, []interface{}{"m2", "m1"}, entry["order"])
}
