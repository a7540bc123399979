package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/fuel-logbook/internal/domain"
	"github.com/pkordes/fuel-logbook/internal/service"
)

func TestDirSink_WritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := service.DirSink{Dir: dir}

	err := sink.Emit(context.Background(), domain.Document{Filename: "派車單里程_2026-02-15_Lin.xlsx", Data: []byte("x")})

	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(dir, "派車單里程_2026-02-15_Lin.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}

func TestDirSink_StaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	sink := service.DirSink{Dir: dir}

	require.NoError(t, sink.Emit(context.Background(), domain.Document{Filename: "../escape.xlsx", Data: []byte("x")}))

	_, err := os.Stat(filepath.Join(dir, "escape.xlsx"))
	assert.NoError(t, err)
}

func TestZipSink_Archive(t *testing.T) {
	var buf bytes.Buffer
	sink := service.NewZipSink(&buf)

	require.NoError(t, sink.Emit(context.Background(), domain.Document{Filename: "a.xlsx", Data: []byte("first")}))
	require.NoError(t, sink.Emit(context.Background(), domain.Document{Filename: "派車單.xlsx", Data: []byte("second")}))
	require.NoError(t, sink.Close())
	assert.Equal(t, 2, sink.Count())

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "a.xlsx", zr.File[0].Name)
	assert.Equal(t, "派車單.xlsx", zr.File[1].Name)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(body))
}

func TestCollectSink_Order(t *testing.T) {
	sink := &service.CollectSink{}

	for _, name := range []string{"1", "2", "3"} {
		require.NoError(t, sink.Emit(context.Background(), domain.Document{Filename: name}))
	}

	docs := sink.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, "1", docs[0].Filename)
	assert.Equal(t, "3", docs[2].Filename)
}
