package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsure_ExistingFileIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o644))

	// A URL that would fail if contacted.
	err := Ensure(context.Background(), path, "http://127.0.0.1:0/model.onnx")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "existing", string(data))
}

func TestEnsure_NoURLIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, Ensure(context.Background(), path, ""))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestEnsure_Downloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-onnx-bytes"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "models", "model.onnx")
	require.NoError(t, Ensure(context.Background(), path, srv.URL))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "fake-onnx-bytes", string(data))
}

func TestEnsure_BadStatusLeavesNoArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "model.onnx")
	err := Ensure(context.Background(), path, srv.URL)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "no artifact should exist after a failed fetch")
	_, partErr := os.Stat(path + ".part")
	require.True(t, os.IsNotExist(partErr), "partial download should be cleaned up")
}

func TestEnsure_ConnectionRefused(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.onnx")
	err := Ensure(context.Background(), path, "http://127.0.0.1:1/model.onnx")
	require.Error(t, err)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}
