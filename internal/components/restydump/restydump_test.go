package restydump

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"hltvminer/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	require.Equal(t, "results_offset-100.html", FileName("https://www.hltv.org/results?offset=100"))
	require.Equal(t, "matches_2336135_astralis-vs-liquid.html", FileName("https://www.hltv.org/matches/2336135/astralis-vs-liquid"))
	require.Equal(t, "index.html", FileName("https://www.hltv.org/"))
}

func TestAttach(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>" + r.URL.Path + "</html>"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dump")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	client := resty.New()
	Attach(client, out, telemetry.NewRecorder())

	_, err = client.R().Get(server.URL + "/events/archive?offset=50")
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dir, "events_archive_offset-50.html"))
	require.NoError(t, err)
	require.Equal(t, "<html>/events/archive</html>", string(contents))
}
