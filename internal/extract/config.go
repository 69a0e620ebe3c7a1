package extract

import "github.com/kelseyhightower/envconfig"

// Config controls the batch extractor. Defaults come from VBASRC_*
// environment variables and are typically overridden by CLI flags.
type Config struct {
	// Dest is the output root; extracted sources land under
	// <dest>/<source-basename>/<kind>/.
	Dest string `envconfig:"DEST" default:"vba_src"`

	// UseOrigExtension keeps the original extension (.bas, .cls, .frm)
	// instead of appending the neutral .vb suffix.
	UseOrigExtension bool `envconfig:"ORIG_EXTENSION"`

	// SrcEncoding decodes module source bytes. It overrides the project's
	// declared code page, which legacy files routinely get wrong.
	SrcEncoding string `envconfig:"SRC_ENCODING" default:"shift_jis"`

	// OutEncoding encodes the generated source files.
	OutEncoding string `envconfig:"OUT_ENCODING" default:"utf8"`

	// Recursive descends into sub directories when a directory is given
	// as a source.
	Recursive bool `envconfig:"RECURSIVE"`

	// Strict aborts a file on any dir-stream field that does not match
	// the format specification, instead of recording diagnostics.
	Strict bool `envconfig:"STRICT"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
}

// FromEnv loads the environment-derived defaults.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("vbasrc", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
