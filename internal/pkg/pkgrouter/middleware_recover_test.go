package pkgrouter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestMiddlewareRecovererWritesErrorEnvelope(t *testing.T) {
	h := middlewareRecoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("decoder exploded")
	}))

	req := httptest.NewRequest(http.MethodPost, "/decode", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "Internal server error" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestMiddlewareRecovererRepanicsOnAbort(t *testing.T) {
	h := middlewareRecoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rvr := recover(); rvr != http.ErrAbortHandler { //nolint:errorlint // sentinel
			t.Fatalf("expected ErrAbortHandler, got %v", rvr)
		}
	}()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/scans/export", nil))
	t.Fatal("expected panic to propagate")
}

func TestInternalFrames(t *testing.T) {
	stack := []byte("goroutine 7 [running]:\n" +
		"runtime/debug.Stack()\n" +
		"\t/usr/local/go/src/runtime/debug/stack.go:26 +0x5e\n" +
		"github.com/shandysiswandi/bankocr/internal/ocr/inbound.(*Endpoint).Decode(...)\n" +
		"\t/src/bankocr/internal/ocr/inbound/http_endpoint.go:88 +0x1f\n" +
		"\t/src/bankocr/internal/pkg/pkgrouter/router.go:170\n")

	got := internalFrames(stack)
	want := []string{
		"internal/ocr/inbound/http_endpoint.go:88",
		"internal/pkg/pkgrouter/router.go:170",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected frames: %#v", got)
	}
}
