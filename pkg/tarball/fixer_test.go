package tarball

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntry struct {
	name     string
	typeflag byte
	mode     int64
	linkname string
	body     string
	uid, gid int
	uname    string
	gname    string
	mtime    time.Time
}

func writeTestArchive(t *testing.T, path string, entries []testEntry) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gzw := gzip.NewWriter(f)
	tw := tar.NewWriter(gzw)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.name,
			Typeflag: e.typeflag,
			Mode:     e.mode,
			Linkname: e.linkname,
			Size:     int64(len(e.body)),
			Uid:      e.uid,
			Gid:      e.gid,
			Uname:    e.uname,
			Gname:    e.gname,
			ModTime:  e.mtime,
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if e.body != "" {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())
	require.NoError(t, f.Close())
}

func releaseEntries() []testEntry {
	mtime := time.Unix(1700000000, 0)
	return []testEntry{
		{name: "go/", typeflag: tar.TypeDir, mode: 0o700, uid: 1000, gid: 1000, uname: "build", gname: "build", mtime: mtime},
		{name: "go/bin/", typeflag: tar.TypeDir, mode: 0o700, mtime: mtime},
		{name: "./go/bin/tool1", typeflag: tar.TypeReg, mode: 0o600, body: "tool one", uid: 1000, gid: 1000, uname: "build", gname: "build", mtime: mtime},
		{name: "go/pkg/tool/linux_amd64/compile", typeflag: tar.TypeReg, mode: 0o600, body: "compile", mtime: mtime},
		{name: "go/src/main.go", typeflag: tar.TypeReg, mode: 0o755, body: "package main", mtime: mtime},
		{name: "go/bin/alias", typeflag: tar.TypeSymlink, mode: 0o777, linkname: "tool1", mtime: mtime},
	}
}

func TestFixNormalizesModes(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "go.tar.gz")
	writeTestArchive(t, archive, releaseEntries())

	require.NoError(t, Fix(archive, nil))

	order, entries := readArchive(t, archive)
	require.Len(t, order, 6)

	// Directories normalized regardless of recorded mode.
	assert.Equal(t, int64(0o755), entries["go/"].hdr.Mode)
	assert.Equal(t, int64(0o755), entries["go/bin/"].hdr.Mode)

	// Classification uses the normalized name, but the written name keeps
	// its "./" prefix.
	tool1, ok := entries["./go/bin/tool1"]
	require.True(t, ok, "entry name must stay as recorded")
	assert.Equal(t, int64(0o755), tool1.hdr.Mode)
	assert.Equal(t, "tool one", tool1.body)

	assert.Equal(t, int64(0o755), entries["go/pkg/tool/linux_amd64/compile"].hdr.Mode)
	assert.Equal(t, int64(0o644), entries["go/src/main.go"].hdr.Mode)

	// Other entry types keep their recorded mode and link target.
	alias := entries["go/bin/alias"]
	assert.Equal(t, byte(tar.TypeSymlink), alias.hdr.Typeflag)
	assert.Equal(t, int64(0o777), alias.hdr.Mode)
	assert.Equal(t, "tool1", alias.hdr.Linkname)
}

func TestFixPreservesOwnershipAndTime(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "go.tar.gz")
	writeTestArchive(t, archive, releaseEntries())

	require.NoError(t, Fix(archive, nil))

	_, entries := readArchive(t, archive)
	tool1 := entries["./go/bin/tool1"].hdr
	assert.Equal(t, 1000, tool1.Uid)
	assert.Equal(t, 1000, tool1.Gid)
	assert.Equal(t, "build", tool1.Uname)
	assert.Equal(t, "build", tool1.Gname)
	assert.True(t, tool1.ModTime.Equal(time.Unix(1700000000, 0)))
}

func TestFixIdempotent(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "go.tar.gz")
	writeTestArchive(t, archive, releaseEntries())

	require.NoError(t, Fix(archive, nil))
	_, first := readArchive(t, archive)

	require.NoError(t, Fix(archive, nil))
	_, second := readArchive(t, archive)

	require.Len(t, second, len(first))
	for name, e := range first {
		assert.Equal(t, e.hdr.Mode, second[name].hdr.Mode, "mode of %s", name)
		assert.Equal(t, e.body, second[name].body, "body of %s", name)
	}
}

func TestFixMissingArchive(t *testing.T) {
	dir := t.TempDir()

	err := Fix(filepath.Join(dir, "nope.tar.gz"), nil)
	require.ErrorIs(t, err, ErrArchiveNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "filesystem must be unchanged")
}

func TestFixCorruptArchiveLeavesOriginal(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "go.tar.gz")
	writeTestArchive(t, archive, releaseEntries())

	// Truncate to force a failure mid-stream.
	data, err := os.ReadFile(archive)
	require.NoError(t, err)
	truncated := data[:len(data)/2]
	require.NoError(t, os.WriteFile(archive, truncated, 0o644))

	require.Error(t, Fix(archive, nil))

	after, err := os.ReadFile(archive)
	require.NoError(t, err)
	assert.Equal(t, truncated, after, "original archive must be byte-identical")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no scratch file may remain")
}

func TestFixNotGzip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "go.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("plain text"), 0o644))

	require.Error(t, Fix(archive, nil))

	after, err := os.ReadFile(archive)
	require.NoError(t, err)
	assert.Equal(t, "plain text", string(after))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
