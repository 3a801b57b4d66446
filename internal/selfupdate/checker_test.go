package selfupdate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/abhisek/yechim/releases/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"tag_name":"` + tag + `","html_url":"https://example.com/` + tag + `"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{"newer patch", "v1.2.3", "v1.2.4", true},
		{"newer minor without prefix", "1.2.3", "v1.3.0", true},
		{"same", "v1.2.3", "v1.2.3", false},
		{"older", "v2.0.0", "v1.9.9", false},
		{"prerelease is older than release", "v1.0.0", "v1.0.0-rc.1", false},
		{"dev build", "(devel)", "v1.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := releaseServer(t, tt.latest)
			res, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: tt.current})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.UpdateAvailable)
			assert.Equal(t, tt.latest, res.LatestVersion)
			assert.Equal(t, "https://example.com/"+tt.latest, res.ReleaseURL)
		})
	}
}

func TestCheck_HTTPError(t *testing.T) {
	server := releaseServer(t, "v1.0.0")
	_, err := NewChecker(WithBaseURL(server.URL), WithRepository("someone", "else")).
		Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestUpdate_InvalidTarget(t *testing.T) {
	err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "latest"}, func(UpdateProgress) {})
	assert.ErrorContains(t, err, "invalid target version")
}
