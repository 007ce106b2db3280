package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/bankocr/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgroutine"
)

func newModuleConfig(t *testing.T, marker string) pkgconfig.Config {
	t.Helper()

	cfg, err := pkgconfig.NewViper(filepath.Join(t.TempDir(), "config.yaml"),
		pkgconfig.WithOptionalFile(),
		pkgconfig.WithDefaults(map[string]any{
			"modules.ocr.marker":         marker,
			"modules.ocr.review.workers": 1,
		}),
	)
	require.NoError(t, err)
	return cfg
}

func TestNewRejectsDigitMarker(t *testing.T) {
	for _, marker := range []string{"5", "??", " "} {
		closer, err := New(Dependency{
			Config:    newModuleConfig(t, marker),
			Goroutine: pkgroutine.NewManager(1),
			Router:    pkgrouter.NewRouter(nil),
			Context:   context.Background(),
		})
		require.Error(t, err, "marker %q", marker)
		assert.Nil(t, closer)
	}
}

func TestNewDecodesWithConfiguredMarker(t *testing.T) {
	router := pkgrouter.NewRouter(nil)
	closer, err := New(Dependency{
		Config:    newModuleConfig(t, "*"),
		Goroutine: pkgroutine.NewManager(1),
		Router:    router,
		Context:   context.Background(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer(context.Background()) })

	scan := "    _  _        _  _  _  _ \n" +
		"  | _| _||_|   |_   ||_||_|\n" +
		"  ||_  _|  |   |_|  ||_| _|\n"
	req := httptest.NewRequest(http.MethodPost, "/decode", strings.NewReader(scan))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data struct {
			Report string `json:"report"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "1234*6789", body.Data.Report)
}
