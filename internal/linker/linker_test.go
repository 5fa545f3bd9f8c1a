package linker_test

import (
	"os"
	"path/filepath"
	"testing"

	"omm/internal/domain"
	"omm/internal/linker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymlinkLinker_Deploy(t *testing.T) {
	dir := t.TempDir()
	srcFile := filepath.Join(dir, "src", "test.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(srcFile), 0755))
	require.NoError(t, os.WriteFile(srcFile, []byte("content"), 0644))

	l := linker.NewSymlinkLinker()
	dstFile := filepath.Join(dir, "dst", "test.txt")
	require.NoError(t, l.Deploy(srcFile, dstFile))

	info, err := os.Lstat(dstFile)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0)

	content, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), content)
}

func TestSymlinkLinker_DeployRefusesUnmanagedFile(t *testing.T) {
	dir := t.TempDir()
	srcFile := filepath.Join(dir, "src.txt")
	dstFile := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("managed"), 0644))
	require.NoError(t, os.WriteFile(dstFile, []byte("unmanaged"), 0644))

	l := linker.NewSymlinkLinker()
	err := l.Deploy(srcFile, dstFile)
	assert.ErrorIs(t, err, domain.ErrDestinationExists)

	// The unmanaged file survives untouched.
	content, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, []byte("unmanaged"), content)
}

func TestSymlinkLinker_DeployReplacesStaleLink(t *testing.T) {
	dir := t.TempDir()
	oldSrc := filepath.Join(dir, "old.txt")
	newSrc := filepath.Join(dir, "new.txt")
	dstFile := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(oldSrc, []byte("old"), 0644))
	require.NoError(t, os.WriteFile(newSrc, []byte("new"), 0644))

	l := linker.NewSymlinkLinker()
	require.NoError(t, l.Deploy(oldSrc, dstFile))
	require.NoError(t, l.Deploy(newSrc, dstFile))

	content, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), content)
}

func TestSymlinkLinker_Undeploy(t *testing.T) {
	dir := t.TempDir()
	srcFile := filepath.Join(dir, "src.txt")
	dstFile := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("content"), 0644))

	l := linker.NewSymlinkLinker()
	require.NoError(t, l.Deploy(srcFile, dstFile))
	require.NoError(t, l.Undeploy(dstFile))

	_, err := os.Stat(dstFile)
	assert.True(t, os.IsNotExist(err))

	// Source still exists.
	_, err = os.Stat(srcFile)
	assert.NoError(t, err)
}

func TestSymlinkLinker_UndeployRefusesRegularFile(t *testing.T) {
	dir := t.TempDir()
	dstFile := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(dstFile, []byte("unmanaged"), 0644))

	l := linker.NewSymlinkLinker()
	assert.ErrorIs(t, l.Undeploy(dstFile), domain.ErrNotManaged)
	assert.FileExists(t, dstFile)
}

func TestHardlinkLinker_Deploy(t *testing.T) {
	dir := t.TempDir()
	srcFile := filepath.Join(dir, "src.txt")
	dstFile := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("content"), 0644))

	l := linker.NewHardlinkLinker()
	require.NoError(t, l.Deploy(srcFile, dstFile))

	content, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), content)
}

func TestCopyLinker_DeployRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	srcFile := filepath.Join(dir, "src.txt")
	dstFile := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("src"), 0644))
	require.NoError(t, os.WriteFile(dstFile, []byte("existing"), 0644))

	l := linker.NewCopyLinker()
	assert.ErrorIs(t, l.Deploy(srcFile, dstFile), domain.ErrDestinationExists)
}

func TestNew_SelectsMethod(t *testing.T) {
	assert.Equal(t, linker.Symlink, linker.New(linker.Symlink).Method())
	assert.Equal(t, linker.Hardlink, linker.New(linker.Hardlink).Method())
	assert.Equal(t, linker.Copy, linker.New(linker.Copy).Method())
}

func TestParseMethod(t *testing.T) {
	assert.Equal(t, linker.Hardlink, linker.ParseMethod("hardlink"))
	assert.Equal(t, linker.Copy, linker.ParseMethod("copy"))
	assert.Equal(t, linker.Symlink, linker.ParseMethod("anything else"))
}

func TestCleanupEmptyDirs(t *testing.T) {
	root := t.TempDir()
	empty := filepath.Join(root, "a", "b", "c")
	occupied := filepath.Join(root, "keep")
	require.NoError(t, os.MkdirAll(empty, 0755))
	require.NoError(t, os.MkdirAll(occupied, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(occupied, "f.txt"), []byte("x"), 0644))

	linker.CleanupEmptyDirs(root)

	assert.NoDirExists(t, filepath.Join(root, "a"))
	assert.DirExists(t, occupied)
	assert.FileExists(t, filepath.Join(occupied, "f.txt"))
}
