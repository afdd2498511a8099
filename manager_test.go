package dataconfy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataconfy/dataconfy/envload"
	"github.com/dataconfy/dataconfy/serialize"
)

type sampleConfig struct {
	Name  string `yaml:"name" json:"name"`
	Value int    `yaml:"value" json:"value"`
}

func defaultSample() sampleConfig {
	return sampleConfig{Name: "test", Value: 42}
}

type databaseConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

type nestedConfig struct {
	Database databaseConfig `yaml:"database" json:"database"`
	Debug    bool           `yaml:"debug" json:"debug"`
	AppName  string         `yaml:"app_name" json:"app_name"`
}

func newTestConfigManager(t *testing.T, opts ...Option) *ConfigManager {
	t.Helper()
	opts = append([]Option{WithDir(t.TempDir())}, opts...)
	mgr, err := NewConfigManager("testapp", opts...)
	require.NoError(t, err)
	return mgr
}

func TestNewConfigManager_Defaults(t *testing.T) {
	mgr, err := NewConfigManager("testapp")

	require.NoError(t, err)
	assert.Equal(t, "testapp", filepath.Base(mgr.Dir()))
	assert.Equal(t, "TESTAPP_", mgr.EnvPrefix())
}

func TestNewManager_EmptyAppName(t *testing.T) {
	_, err := NewConfigManager("")
	require.ErrorIs(t, err, ErrEmptyAppName)

	_, err = NewDataManager("")
	require.ErrorIs(t, err, ErrEmptyAppName)
}

func TestManager_SaveAndLoadYAML(t *testing.T) {
	mgr := newTestConfigManager(t)
	original := sampleConfig{Name: "yaml_test", Value: 100}

	path, err := mgr.Save(original, "settings.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(mgr.Dir(), "settings.yaml"), path)

	var loaded sampleConfig
	require.NoError(t, mgr.Load(&loaded, "settings.yaml"))
	assert.Equal(t, original, loaded)
}

func TestManager_SaveAndLoadYML(t *testing.T) {
	mgr := newTestConfigManager(t)
	original := sampleConfig{Name: "yml_test", Value: 150}

	_, err := mgr.Save(original, "settings.yml")
	require.NoError(t, err)

	var loaded sampleConfig
	require.NoError(t, mgr.Load(&loaded, "settings.yml"))
	assert.Equal(t, original, loaded)
}

func TestManager_SaveAndLoadJSON(t *testing.T) {
	mgr := newTestConfigManager(t)
	original := sampleConfig{Name: "json_test", Value: 200}

	path, err := mgr.Save(original, "settings.json")
	require.NoError(t, err)

	// JSON output is indented
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "\"name\": \"json_test\"")

	var loaded sampleConfig
	require.NoError(t, mgr.Load(&loaded, "settings.json"))
	assert.Equal(t, original, loaded)
}

func TestManager_DefaultFilenames(t *testing.T) {
	dir := t.TempDir()

	cfgMgr, err := NewConfigManager("testapp", WithDir(dir))
	require.NoError(t, err)
	dataMgr, err := NewDataManager("testapp", WithDir(dir))
	require.NoError(t, err)

	cfgPath, err := cfgMgr.Save(sampleConfig{Name: "config"}, "")
	require.NoError(t, err)
	dataPath, err := dataMgr.Save(sampleConfig{Name: "data"}, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfgPath)
	assert.Equal(t, filepath.Join(dir, "data.yaml"), dataPath)

	var loadedCfg, loadedData sampleConfig
	require.NoError(t, cfgMgr.Load(&loadedCfg, ""))
	require.NoError(t, dataMgr.Load(&loadedData, ""))
	assert.Equal(t, "config", loadedCfg.Name)
	assert.Equal(t, "data", loadedData.Name)
}

func TestManager_ExistsAndPath(t *testing.T) {
	mgr := newTestConfigManager(t)

	assert.False(t, mgr.Exists(""))
	assert.Equal(t, filepath.Join(mgr.Dir(), "config.yaml"), mgr.Path(""))
	assert.Equal(t, filepath.Join(mgr.Dir(), "custom.yaml"), mgr.Path("custom.yaml"))

	_, err := mgr.Save(defaultSample(), "")
	require.NoError(t, err)

	assert.True(t, mgr.Exists(""))
	assert.True(t, mgr.Exists("config.yaml"))
	assert.False(t, mgr.Exists("other.yaml"))
}

func TestManager_FormatOverride(t *testing.T) {
	mgr := newTestConfigManager(t)
	original := sampleConfig{Name: "override_test", Value: 7}

	// Save as JSON even though the extension is .txt
	_, err := mgr.SaveAs(original, "test.txt", serialize.FormatJSON)
	require.NoError(t, err)

	var loaded sampleConfig
	require.NoError(t, mgr.LoadAs(&loaded, "test.txt", serialize.FormatJSON))
	assert.Equal(t, original, loaded)
}

func TestManager_UnsupportedExtension(t *testing.T) {
	mgr := newTestConfigManager(t)

	_, err := mgr.Save(defaultSample(), "config.txt")
	require.ErrorIs(t, err, serialize.ErrUnsupportedFormat)

	var target sampleConfig
	err = mgr.Load(&target, "config.txt")
	require.ErrorIs(t, err, serialize.ErrUnsupportedFormat)
}

func TestManager_SaveNonStruct(t *testing.T) {
	mgr := newTestConfigManager(t)

	_, err := mgr.Save(map[string]string{"not": "struct"}, "config.yaml")
	require.ErrorIs(t, err, serialize.ErrNotStruct)
}

func TestManager_LoadMissingFile(t *testing.T) {
	mgr := newTestConfigManager(t)

	var target sampleConfig
	err := mgr.Load(&target, "nonexistent.yaml")

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "nonexistent.yaml")
}

func TestManager_DirectoryCreatedOnSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deeply", "nested")
	mgr, err := NewConfigManager("testapp", WithDir(dir))
	require.NoError(t, err)

	_, err = mgr.Save(defaultSample(), "")
	require.NoError(t, err)

	assert.DirExists(t, dir)
}

func TestManager_EmptyFileKeepsDefaults(t *testing.T) {
	mgr := newTestConfigManager(t)
	require.NoError(t, os.MkdirAll(mgr.Dir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mgr.Dir(), "empty.yaml"), nil, 0o600))

	loaded := defaultSample()
	require.NoError(t, mgr.Load(&loaded, "empty.yaml"))

	assert.Equal(t, defaultSample(), loaded)
}

func TestManager_SeparateAppDirectories(t *testing.T) {
	base := t.TempDir()

	mgr1, err := NewConfigManager("app1", WithDir(filepath.Join(base, "app1")))
	require.NoError(t, err)
	mgr2, err := NewConfigManager("app2", WithDir(filepath.Join(base, "app2")))
	require.NoError(t, err)

	_, err = mgr1.Save(sampleConfig{Name: "app1_config"}, "settings.yaml")
	require.NoError(t, err)
	_, err = mgr2.Save(sampleConfig{Name: "app2_config"}, "settings.yaml")
	require.NoError(t, err)

	var loaded1, loaded2 sampleConfig
	require.NoError(t, mgr1.Load(&loaded1, "settings.yaml"))
	require.NoError(t, mgr2.Load(&loaded2, "settings.yaml"))

	assert.Equal(t, "app1_config", loaded1.Name)
	assert.Equal(t, "app2_config", loaded2.Name)
}

func TestManager_AtomicSaveLeavesNoTempFiles(t *testing.T) {
	mgr := newTestConfigManager(t)

	_, err := mgr.Save(defaultSample(), "")
	require.NoError(t, err)

	entries, err := os.ReadDir(mgr.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
	}
}

func TestManager_EnvVarsDisabledByDefault(t *testing.T) {
	t.Setenv("TESTAPP_NAME", "from-env")

	mgr := newTestConfigManager(t)
	_, err := mgr.Save(sampleConfig{Name: "from-file", Value: 1}, "")
	require.NoError(t, err)

	var loaded sampleConfig
	require.NoError(t, mgr.Load(&loaded, ""))

	assert.Equal(t, "from-file", loaded.Name)
}

func TestManager_EnvVarsOverrideFile(t *testing.T) {
	t.Setenv("TESTAPP_NAME", "from-env")
	t.Setenv("TESTAPP_VALUE", "99")

	mgr := newTestConfigManager(t, WithEnvVars())
	_, err := mgr.Save(sampleConfig{Name: "from-file", Value: 42}, "")
	require.NoError(t, err)

	var loaded sampleConfig
	require.NoError(t, mgr.Load(&loaded, ""))

	assert.Equal(t, "from-env", loaded.Name)
	assert.Equal(t, 99, loaded.Value)
}

func TestManager_EnvVarsPerLeafPrecedence(t *testing.T) {
	// Only one of two sibling fields is overridden: the other keeps its
	// file-sourced value.
	t.Setenv("TESTAPP_NAME", "from-env")

	mgr := newTestConfigManager(t, WithEnvVars())
	_, err := mgr.Save(sampleConfig{Name: "from-file", Value: 42}, "")
	require.NoError(t, err)

	var loaded sampleConfig
	require.NoError(t, mgr.Load(&loaded, ""))

	assert.Equal(t, "from-env", loaded.Name)
	assert.Equal(t, 42, loaded.Value)
}

func TestManager_EnvFalseOverridesFileTrue(t *testing.T) {
	type flags struct {
		Debug bool `yaml:"debug"`
	}
	t.Setenv("TESTAPP_DEBUG", "false")

	mgr := newTestConfigManager(t, WithEnvVars())
	_, err := mgr.Save(flags{Debug: true}, "")
	require.NoError(t, err)

	loaded := flags{Debug: true}
	require.NoError(t, mgr.Load(&loaded, ""))

	assert.False(t, loaded.Debug)
}

func TestManager_EnvVarsNestedMerge(t *testing.T) {
	t.Setenv("TESTAPP_DATABASE_HOST", "db.example.com")
	t.Setenv("TESTAPP_APP_NAME", "from-env")

	mgr := newTestConfigManager(t, WithEnvVars())
	saved := nestedConfig{
		Database: databaseConfig{Host: "localhost", Port: 5432},
		AppName:  "from-file",
	}
	_, err := mgr.Save(saved, "")
	require.NoError(t, err)

	var loaded nestedConfig
	require.NoError(t, mgr.Load(&loaded, ""))

	assert.Equal(t, "db.example.com", loaded.Database.Host) // env
	assert.Equal(t, 5432, loaded.Database.Port)             // file
	assert.Equal(t, "from-env", loaded.AppName)             // env
}

func TestManager_EnvVarsPartialOverlayKeepsSiblings(t *testing.T) {
	t.Setenv("TESTAPP_DEBUG", "false")
	t.Setenv("TESTAPP_DATABASE_HOST", "db.example.com")

	mgr := newTestConfigManager(t, WithEnvVars())
	saved := nestedConfig{
		Database: databaseConfig{Host: "localhost", Port: 5432},
		Debug:    true,
		AppName:  "from-file",
	}
	_, err := mgr.Save(saved, "")
	require.NoError(t, err)

	var loaded nestedConfig
	require.NoError(t, mgr.Load(&loaded, ""))

	assert.False(t, loaded.Debug)                           // explicit env false beats file true
	assert.Equal(t, "db.example.com", loaded.Database.Host) // env
	assert.Equal(t, 5432, loaded.Database.Port)             // nested file sibling survives
	assert.Equal(t, "from-file", loaded.AppName)            // root file sibling survives
}

func TestManager_EnvVarsLoadWithoutFile(t *testing.T) {
	t.Setenv("TESTAPP_NAME", "from-env")

	mgr := newTestConfigManager(t, WithEnvVars())

	loaded := defaultSample()
	require.NoError(t, mgr.Load(&loaded, "nonexistent.yaml"))

	assert.Equal(t, "from-env", loaded.Name)
	assert.Equal(t, 42, loaded.Value) // default survives
}

func TestManager_OptionalNestedAutoInstantiation(t *testing.T) {
	type optionalConfig struct {
		Database *databaseConfig `yaml:"database"`
		Debug    bool            `yaml:"debug"`
	}

	t.Setenv("TESTAPP_DATABASE_HOST", "db.example.com")
	t.Setenv("TESTAPP_DEBUG", "true")

	mgr := newTestConfigManager(t, WithEnvVars())
	_, err := mgr.Save(optionalConfig{Database: nil, Debug: false}, "")
	require.NoError(t, err)

	// Defaults prefilled in the target fill the siblings the environment
	// did not mention.
	loaded := optionalConfig{Database: &databaseConfig{Port: 5432}}
	require.NoError(t, mgr.Load(&loaded, ""))

	require.NotNil(t, loaded.Database)
	assert.Equal(t, "db.example.com", loaded.Database.Host)
	assert.Equal(t, 5432, loaded.Database.Port)
	assert.True(t, loaded.Debug)
}

func TestManager_EnvVarTypeErrorSurfaces(t *testing.T) {
	t.Setenv("TESTAPP_VALUE", "not-a-number")

	mgr := newTestConfigManager(t, WithEnvVars())
	_, err := mgr.Save(defaultSample(), "")
	require.NoError(t, err)

	var loaded sampleConfig
	err = mgr.Load(&loaded, "")

	var envErr *envload.EnvVarError
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, "TESTAPP_VALUE", envErr.Key)
}

func TestManager_CustomEnvPrefix(t *testing.T) {
	t.Setenv("CUSTOM_NAME", "prefixed")

	mgr := newTestConfigManager(t, WithEnvVars(), WithEnvPrefix("CUSTOM_"))
	_, err := mgr.Save(sampleConfig{Name: "from-file", Value: 3}, "")
	require.NoError(t, err)

	var loaded sampleConfig
	require.NoError(t, mgr.Load(&loaded, ""))

	assert.Equal(t, "CUSTOM_", mgr.EnvPrefix())
	assert.Equal(t, "prefixed", loaded.Name)
}

func TestManager_EnvVarsWithJSONFile(t *testing.T) {
	t.Setenv("TESTAPP_DATABASE_PORT", "3306")

	mgr := newTestConfigManager(t, WithEnvVars())
	saved := nestedConfig{Database: databaseConfig{Host: "localhost", Port: 5432}}
	_, err := mgr.Save(saved, "config.json")
	require.NoError(t, err)

	var loaded nestedConfig
	require.NoError(t, mgr.Load(&loaded, "config.json"))

	assert.Equal(t, "localhost", loaded.Database.Host)
	assert.Equal(t, 3306, loaded.Database.Port)
}

func TestDataManager_EnvVars(t *testing.T) {
	type userData struct {
		Username string `yaml:"username"`
		Score    int    `yaml:"score"`
	}
	t.Setenv("TESTAPP_USERNAME", "alice")
	t.Setenv("TESTAPP_SCORE", "100")

	mgr, err := NewDataManager("testapp", WithDir(t.TempDir()), WithEnvVars())
	require.NoError(t, err)

	_, err = mgr.Save(userData{Username: "bob", Score: 50}, "user.yaml")
	require.NoError(t, err)

	var loaded userData
	require.NoError(t, mgr.Load(&loaded, "user.yaml"))

	assert.Equal(t, "alice", loaded.Username)
	assert.Equal(t, 100, loaded.Score)
}

func TestManager_WithLogger(t *testing.T) {
	var buf strings.Builder
	log := zerolog.New(&buf)

	mgr := newTestConfigManager(t, WithLogger(log))
	_, err := mgr.Save(defaultSample(), "")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "saved")
}
