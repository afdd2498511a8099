// Package dataconfy persists struct-based application configuration and
// data to YAML or JSON files under platform-conventional directories, with
// optional per-field overrides from environment variables.
//
// [ConfigManager] and [DataManager] wrap the same save/load machinery and
// differ only in their default directory (user config dir vs. user data
// dir) and default filename (config.yaml vs. data.yaml):
//
//	type AppConfig struct {
//	    Theme    string `yaml:"theme"`
//	    FontSize int    `yaml:"font_size"`
//	}
//
//	mgr, err := dataconfy.NewConfigManager("myapp", dataconfy.WithEnvVars())
//	if err != nil {
//	    // ...
//	}
//
//	cfg := AppConfig{Theme: "dark", FontSize: 12} // schema defaults
//	if err := mgr.Load(&cfg, ""); err != nil {
//	    // ...
//	}
//
// With the environment overlay enabled, MYAPP_THEME=light overrides the
// theme field at load time while every other field keeps its file-loaded or
// default value. Precedence is evaluated independently per leaf field:
// environment over file over default. Key derivation, value parsing, and
// the overlay itself live in the envload package.
package dataconfy
