package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"WorshipHub/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetName(t *testing.T) {
	assert.Equal(t, "amazing-grace-in-d.txt", SheetName("Amazing Grace!", "D"))
	assert.Equal(t, "oceans-in-fsharp.txt", SheetName("  Oceans ", "F#"))
	assert.Equal(t, "sheet.txt", SheetName("***", ""))
}

func TestDirStore_PutAndList(t *testing.T) {
	root := t.TempDir()
	s := NewDirStore(root)
	ctx := context.Background()

	path, err := s.Put(ctx, "sunday/grace.txt", []byte("C  G\nline"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sunday", "grace.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "C  G\nline", string(data))

	_, err = s.Put(ctx, "other.txt", []byte("x"))
	require.NoError(t, err)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "other.txt", all[0].Key)
	assert.Equal(t, "sunday/grace.txt", all[1].Key)
	assert.EqualValues(t, 9, all[1].Size)

	sunday, err := s.List(ctx, "sunday/")
	require.NoError(t, err)
	assert.Len(t, sunday, 1)
}

func TestDirStore_ListMissingRoot(t *testing.T) {
	s := NewDirStore(filepath.Join(t.TempDir(), "missing"))
	objects, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestDirStore_RejectsEscapingNames(t *testing.T) {
	s := NewDirStore(t.TempDir())
	for _, name := range []string{"", "../x.txt", "/etc/passwd", ".."} {
		_, err := s.Put(context.Background(), name, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, &config.Config{SheetDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &DirStore{}, s)

	_, err = Open(ctx, &config.Config{SheetBackend: "ftp"})
	assert.Error(t, err)

	_, err = Open(ctx, &config.Config{SheetBackend: "minio"})
	assert.Error(t, err, "missing endpoint")
}
