package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"WorshipHub/core/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	for _, path := range []string{
		"login", "logout", "whoami", "users search", "profile update",
		"groups list", "groups mine", "groups get", "groups info", "groups members",
		"groups create", "groups update", "groups delete",
		"groups add-member", "groups remove-member", "groups set-permission",
		"musics list", "musics group", "musics get", "musics create", "musics update", "musics delete",
		"setlists list", "setlists group", "setlists get", "setlists create", "setlists update",
		"setlists delete", "setlists add-music", "setlists remove-music", "setlists reorder",
		"cipher show", "cipher add-line", "cipher remove-line", "cipher set", "cipher transpose",
		"sheet export", "sheet list", "serve", "redis", "minio",
	} {
		cmd, rest, err := rootCmd.Find(strings.Fields(path))
		require.NoError(t, err, path)
		assert.Empty(t, rest, path)
		assert.Equal(t, strings.Fields(path)[len(strings.Fields(path))-1], cmd.Name(), path)
	}
}

func run(t *testing.T, backend http.Handler, args ...string) (string, error) {
	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	t.Setenv("API_BASE_URL", ts.URL)
	t.Setenv("SESSION_DIR", dir)
	t.Setenv("SHEET_DIR", dir+"/sheets")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("WORSHIPHUB_CONFIG", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

const graceJSON = `{"id":"m1","groupId":"g1","title":"Grace","tone":"C","lyrics":"Amazing\nGrace",` +
	`"cipher":"{\"key\":\"C\",\"chordLines\":[{\"id\":\"a\",\"chords\":\"C  G\",\"lyrics\":\"\",\"lyricsLineIndex\":0}]}"}`

func TestCipherShow_Transposed(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/musics/m1" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(graceJSON))
	})

	out, err := run(t, backend, "cipher", "show", "m1", "--key", "D")

	require.NoError(t, err)
	assert.Equal(t, "Grace (D)\n\nD  A\namazing\ngrace\n", out)
}

func TestSheetExport_WritesFile(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(graceJSON))
	})

	out, err := run(t, backend, "sheet", "export", "m1", "-k", "E")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "grace-in-e.txt"), out)
}

func TestUnauthorizedSurfaces(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := run(t, backend, "groups", "list")

	assert.ErrorIs(t, err, api.ErrUnauthorized)
}
