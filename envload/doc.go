// Package envload derives environment variable names from a struct schema
// and loads matching variables into a sparse, nested override map.
//
// The override map produced by [Load] mirrors only the branches of the
// schema for which at least one variable is actually set, so callers can
// layer it on top of file-loaded or default data without disturbing fields
// the environment did not mention. Precedence is decided per leaf field:
// environment value over file value over default value.
//
// Variable names are derived from field names in UPPER_SNAKE_CASE, with
// nested struct fields prefixed by their parent's name:
//
//	type Database struct {
//	    Host string `yaml:"host"`          // DATABASE_HOST
//	    Port int    `yaml:"port"`          // DATABASE_PORT
//	}
//	type Config struct {
//	    Database Database `yaml:"database"`
//	    Debug    bool     `yaml:"debug"`   // DEBUG
//	    APIKey   string   `env:"SECRET_KEY"`
//	}
//
// An `env` tag replaces the derived name verbatim; `env:"-"` excludes the
// field. An `envPrefix` tag on a nested struct field replaces the derived
// prefix for its children. The application-wide prefix (e.g. "MYAPP_") is
// produced by [Prefix] and applied only at lookup time by [Load].
package envload
