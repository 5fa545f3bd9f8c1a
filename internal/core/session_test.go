package core_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omm/internal/core"
	"omm/internal/domain"
	"omm/internal/linker"
	"omm/internal/storage/config"
	"omm/internal/storage/db"
)

type testEnv struct {
	game *domain.Game
	cfg  *config.Config
	db   *db.DB
	root string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	gameDir := filepath.Join(root, "game")
	require.NoError(t, os.MkdirAll(filepath.Join(gameDir, "Data"), 0755))

	database, err := db.New(filepath.Join(root, "omm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return &testEnv{
		game: &domain.Game{
			ID:         "skyrim",
			Name:       "Skyrim",
			Directory:  gameDir,
			Data:       filepath.Join(gameDir, "Data"),
			PluginFile: filepath.Join(root, "Plugins.txt"),
			DLCFile:    filepath.Join(root, "DLCList.txt"),
			ModsDir:    filepath.Join(root, "mods"),
			ConfFile:   filepath.Join(root, "omm.conf"),
		},
		cfg: &config.Config{
			LinkMethod:   linker.Symlink,
			DownloadsDir: filepath.Join(root, "downloads"),
		},
		db:   database,
		root: root,
	}
}

func (e *testEnv) addMod(t *testing.T, name string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		path := filepath.Join(e.game.ModsDir, name, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
}

func (e *testEnv) session(t *testing.T) *core.Session {
	t.Helper()
	s, err := core.NewSession(e.game, e.cfg, e.db)
	require.NoError(t, err)
	return s
}

func modNames(s *core.Session) []string {
	names := make([]string, len(s.Mods))
	for i, mod := range s.Mods {
		names[i] = mod.Name
	}
	return names
}

func pluginIndex(t *testing.T, s *core.Session, name string) int {
	t.Helper()
	for i, plugin := range s.Plugins {
		if plugin.Name == name {
			return i
		}
	}
	t.Fatalf("plugin %s not in load order", name)
	return -1
}

func TestLoadMergesPersistedOrder(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"a.txt": "a"})
	env.addMod(t, "Beta", map[string]string{"b.txt": "b"})
	env.addMod(t, "Gamma", map[string]string{"g.txt": "g"})
	require.NoError(t, os.WriteFile(env.game.ConfFile, []byte("*Beta\nAlpha\n"), 0644))

	s := env.session(t)

	assert.Equal(t, []string{"Beta", "Alpha", "Gamma"}, modNames(s))
	assert.True(t, s.Mods[0].Enabled)
	assert.False(t, s.Mods[1].Enabled)
	// Undeclared mods join at the low-priority end, disabled.
	assert.False(t, s.Mods[2].Enabled)
	assert.False(t, s.Pending())
}

func TestActivateRejectsUnconfiguredWizardMod(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Wizard", map[string]string{
		"fomod/ModuleConfig.xml": "<config/>",
		"00 Core/core.esp":       "esp",
	})

	s := env.session(t)
	err := s.Activate(core.KindMod, 0)
	require.ErrorIs(t, err, domain.ErrUnconfigured)
	assert.False(t, s.Mods[0].Enabled)
}

func TestActivateAdoptsPlugins(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"core.esp": "esp"})

	s := env.session(t)
	require.NoError(t, s.Activate(core.KindMod, 0))
	assert.True(t, s.Pending())

	idx := pluginIndex(t, s, "core.esp")
	assert.Equal(t, "Alpha", s.Plugins[idx].Owner)
	assert.False(t, s.Plugins[idx].Enabled, "adopted plugins start disabled")

	require.NoError(t, s.Activate(core.KindPlugin, idx))
	assert.True(t, s.Plugins[idx].Enabled)
}

func TestPluginOfDisabledModCannotBeEnabled(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"core.esp": "esp"})

	s := env.session(t)
	require.NoError(t, s.Activate(core.KindMod, 0))
	idx := pluginIndex(t, s, "core.esp")
	require.NoError(t, s.Activate(core.KindPlugin, idx))

	require.NoError(t, s.Deactivate(core.KindMod, 0))
	idx = pluginIndex(t, s, "core.esp")
	assert.False(t, s.Plugins[idx].Enabled, "disabling the owner disables its plugins")

	err := s.Activate(core.KindPlugin, idx)
	require.ErrorIs(t, err, domain.ErrOwnerDisabled)
}

func TestDeleteDropsOrphanedPlugins(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"core.esp": "esp"})

	s := env.session(t)
	require.NoError(t, s.Activate(core.KindMod, 0))
	_, err := s.Commit()
	require.NoError(t, err)

	require.NoError(t, s.Delete(core.KindMod, 0))

	assert.Empty(t, s.Mods)
	assert.Empty(t, s.Plugins)
	assert.NoDirExists(t, filepath.Join(env.game.ModsDir, "Alpha"))
}

func TestDeleteRefusesPendingChanges(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"a.txt": "a"})

	s := env.session(t)
	require.NoError(t, s.Activate(core.KindMod, 0))
	require.ErrorIs(t, s.Delete(core.KindMod, 0), domain.ErrPendingChanges)
}

func TestDeletePluginDropsEntryOnly(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"core.esp": "esp"})

	s := env.session(t)
	require.NoError(t, s.Activate(core.KindMod, 0))
	_, err := s.Commit()
	require.NoError(t, err)

	idx := pluginIndex(t, s, "core.esp")
	require.NoError(t, s.Delete(core.KindPlugin, idx))

	assert.Empty(t, s.Plugins)
	// The mod and its files survive.
	assert.FileExists(t, filepath.Join(env.game.ModsDir, "Alpha", "core.esp"))
}

func TestDLCAppearsAsOwnerlessPlugin(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.game.DLCFile, []byte("*Dawnguard.esm\n"), 0644))

	s := env.session(t)
	idx := pluginIndex(t, s, "Dawnguard.esm")
	assert.False(t, s.Plugins[idx].Enabled, "never-ordered base content starts disabled")
	assert.False(t, s.Plugins[idx].Owned())

	require.NoError(t, s.Activate(core.KindPlugin, idx))
	assert.True(t, s.Plugins[idx].Enabled)
}

func TestMove(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"a.txt": "a"})
	env.addMod(t, "Beta", map[string]string{"b.txt": "b"})
	env.addMod(t, "Gamma", map[string]string{"g.txt": "g"})

	s := env.session(t)
	require.Equal(t, []string{"Alpha", "Beta", "Gamma"}, modNames(s))

	require.NoError(t, s.Move(core.KindMod, 0, 2))
	assert.Equal(t, []string{"Beta", "Gamma", "Alpha"}, modNames(s))

	// Targets past the end clamp to the end.
	require.NoError(t, s.Move(core.KindMod, 0, 99))
	assert.Equal(t, []string{"Gamma", "Alpha", "Beta"}, modNames(s))

	err := s.Move(core.KindMod, 7, 0)
	require.ErrorIs(t, err, domain.ErrInvalidIndex)
}

func TestMoveOntoItselfIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"a.txt": "a"})
	env.addMod(t, "Beta", map[string]string{"b.txt": "b"})

	s := env.session(t)
	require.NoError(t, s.Move(core.KindMod, 1, 1))
	assert.Equal(t, []string{"Alpha", "Beta"}, modNames(s))
}

func TestSortPlugins(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"alpha.esp": "esp"})
	env.addMod(t, "Beta", map[string]string{"beta.esm": "esm"})

	s := env.session(t)
	require.NoError(t, s.Activate(core.KindMod, 0))
	require.NoError(t, s.Activate(core.KindMod, 1))

	s.SortPlugins()

	assert.Equal(t, "beta.esm", s.Plugins[0].Name, "masters sort ahead of regular plugins")
	assert.Equal(t, "alpha.esp", s.Plugins[1].Name)
}

func TestCommitDeploysPlan(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"textures/wall.dds": "dds"})

	s := env.session(t)
	require.NoError(t, s.Activate(core.KindMod, 0))

	collisions, err := s.Commit()
	require.NoError(t, err)
	assert.Empty(t, collisions)
	assert.False(t, s.Pending())

	dest := filepath.Join(env.game.Data, "textures", "wall.dds")
	target, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.game.ModsDir, "Alpha", "textures", "wall.dds"), target)

	// Both orders were persisted.
	conf, err := os.ReadFile(env.game.ConfFile)
	require.NoError(t, err)
	assert.Equal(t, "*Alpha\n", string(conf))
	assert.FileExists(t, env.game.PluginFile)
}

func TestCommitReportsCollisionsWithoutClobbering(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"textures/wall.dds": "dds"})

	dest := filepath.Join(env.game.Data, "textures", "wall.dds")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0755))
	require.NoError(t, os.WriteFile(dest, []byte("unmanaged"), 0644))

	s := env.session(t)
	require.NoError(t, s.Activate(core.KindMod, 0))

	collisions, err := s.Commit()
	require.NoError(t, err)
	require.Len(t, collisions, 1)
	assert.Equal(t, dest, collisions[0].Dest)
	assert.Equal(t, "Alpha", collisions[0].ModName)

	body, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "unmanaged", string(body))
}

func TestCommitRemovesStaleLinks(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"textures/wall.dds": "dds"})

	s := env.session(t)
	require.NoError(t, s.Activate(core.KindMod, 0))
	_, err := s.Commit()
	require.NoError(t, err)

	dest := filepath.Join(env.game.Data, "textures", "wall.dds")
	require.FileExists(t, dest)

	require.NoError(t, s.Deactivate(core.KindMod, 0))
	_, err = s.Commit()
	require.NoError(t, err)

	assert.NoFileExists(t, dest)
	assert.NoDirExists(t, filepath.Join(env.game.Data, "textures"), "emptied directories are pruned")
	assert.DirExists(t, env.game.Directory)
}

func TestCommitSkipsForeignFileAtRecordedLink(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"textures/wall.dds": "dds"})

	s := env.session(t)
	require.NoError(t, s.Activate(core.KindMod, 0))
	_, err := s.Commit()
	require.NoError(t, err)

	// Replace our deployed link with a real file behind our back.
	dest := filepath.Join(env.game.Data, "textures", "wall.dds")
	require.NoError(t, os.Remove(dest))
	require.NoError(t, os.WriteFile(dest, []byte("hand edit"), 0644))

	collisions, err := s.Commit()
	require.NoError(t, err, "a foreign file must not abort the commit")
	require.Len(t, collisions, 1)
	assert.Equal(t, dest, collisions[0].Dest)

	body, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hand edit", string(body))
}

func TestLoadDisablesPluginsOfDisabledOwner(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"core.esp": "esp"})
	require.NoError(t, os.WriteFile(env.game.ConfFile, []byte("Alpha\n"), 0644))
	// Hand-edited plugin file marks the plugin enabled anyway.
	require.NoError(t, os.WriteFile(env.game.PluginFile, []byte("*core.esp\n"), 0644))

	s := env.session(t)

	idx := pluginIndex(t, s, "core.esp")
	assert.False(t, s.Plugins[idx].Enabled, "a disabled mod's plugin cannot load enabled")
	assert.Equal(t, "Alpha", s.Plugins[idx].Owner)
}

func TestRename(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"core.esp": "esp"})
	env.addMod(t, "Beta", map[string]string{"b.txt": "b"})

	s := env.session(t)
	require.NoError(t, s.Activate(core.KindMod, 0))
	_, err := s.Commit()
	require.NoError(t, err)

	require.NoError(t, s.Rename(0, "Alpha_Remastered"))

	assert.Equal(t, "Alpha_Remastered", s.Mods[0].Name)
	assert.DirExists(t, filepath.Join(env.game.ModsDir, "Alpha_Remastered"))
	assert.NoDirExists(t, filepath.Join(env.game.ModsDir, "Alpha"))

	idx := pluginIndex(t, s, "core.esp")
	assert.Equal(t, "Alpha_Remastered", s.Plugins[idx].Owner)
	assert.False(t, s.Pending(), "rename re-commits")
}

func TestRenameValidation(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"a.txt": "a"})
	env.addMod(t, "Beta", map[string]string{"b.txt": "b"})

	s := env.session(t)

	require.ErrorIs(t, s.Rename(0, "bad name!"), domain.ErrInvalidName)
	require.ErrorIs(t, s.Rename(0, "beta"), domain.ErrNameTaken)
	require.ErrorIs(t, s.Rename(0, "Data"), domain.ErrInvalidName)

	require.NoError(t, s.Activate(core.KindMod, 0))
	require.ErrorIs(t, s.Rename(0, "Fine"), domain.ErrPendingChanges)
}

func TestCollisionsReport(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Alpha", map[string]string{"textures/wall.dds": "a"})
	env.addMod(t, "Beta", map[string]string{"Textures/wall.dds": "b"})

	s := env.session(t)
	require.NoError(t, s.Activate(core.KindMod, 0))
	require.NoError(t, s.Activate(core.KindMod, 1))

	report, err := s.Collisions(0)
	require.NoError(t, err)
	require.Len(t, report, 1)

	dest := filepath.Join(env.game.Data, "textures", "wall.dds")
	assert.Equal(t, []string{"Alpha", "Beta"}, report[dest])
}

func TestConfigureGuards(t *testing.T) {
	env := newTestEnv(t)
	env.addMod(t, "Plain", map[string]string{"a.txt": "a"})

	s := env.session(t)
	_, err := s.Configure(0)
	require.ErrorIs(t, err, domain.ErrNotConfigurable)

	require.NoError(t, s.Activate(core.KindMod, 0))
	_, err = s.Configure(0)
	require.ErrorIs(t, err, domain.ErrPendingChanges)
}

func TestInstallArchive(t *testing.T) {
	env := newTestEnv(t)
	archive := filepath.Join(env.root, "Cool Mod-1.2.zip")
	writeTestZip(t, archive, map[string]string{"textures/wall.dds": "dds"})

	s := env.session(t)
	mod, err := s.InstallArchive(context.Background(), archive, "")
	require.NoError(t, err)

	assert.Equal(t, "Cool_Mod_1_2", mod.Name)
	assert.False(t, mod.Enabled, "installed mods start disabled")
	assert.FileExists(t, filepath.Join(mod.Location, "textures", "wall.dds"))

	_, err = s.InstallArchive(context.Background(), archive, "")
	require.ErrorIs(t, err, domain.ErrNameTaken)
}

func TestDownloads(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.cfg.DownloadsDir, 0755))
	writeTestZip(t, filepath.Join(env.cfg.DownloadsDir, "mod.zip"), map[string]string{"a.txt": "a"})
	require.NoError(t, os.WriteFile(filepath.Join(env.cfg.DownloadsDir, "readme.txt"), []byte("hi"), 0644))

	s := env.session(t)
	archives, err := s.Downloads()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(env.cfg.DownloadsDir, "mod.zip")}, archives)
}

func writeTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, body := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}
