// config.go loads an optional engine-tuning file: bulk values for the
// fields `setoption` otherwise sets one at a time, plus the search and
// eval constants that have no UCI option at all (aspiration delta,
// null-move reduction, lazy-eval margin, contempt). Grounded in the rest of the
// retrieval pack's use of github.com/BurntSushi/toml for exactly this
// kind of small, flat settings file (see SPEC_FULL.md §10/§11); the
// teacher has no config file of its own since it has no third-party
// dependency surface to draw one from.
package engine

import "github.com/BurntSushi/toml"

// Config is the top-level shape of the optional TOML tuning file.
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Eval   EvalConfig   `toml:"eval"`
	Search SearchConfig `toml:"search"`
}

// EngineConfig seeds Options fields that also have a setoption path.
type EngineConfig struct {
	HashMB  int `toml:"hash_mb"`
	Threads int `toml:"threads"`
}

// EvalConfig holds tunable evaluation constants with no UCI option.
type EvalConfig struct {
	LazyMargin   int32 `toml:"lazy_margin"`
	Contempt     int32 `toml:"contempt"`
}

// SearchConfig holds tunable search constants with no UCI option.
type SearchConfig struct {
	AspirationDelta int32 `toml:"aspiration_delta"`
	NullMoveBaseR   int   `toml:"null_move_base_r"`
}

// DefaultConfig mirrors the compiled-in constants used when no TOML
// file is loaded, so LoadConfig and the zero-config path agree.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{HashMB: DefaultHashMB, Threads: DefaultThreads},
		Eval:   EvalConfig{LazyMargin: LazyMargin, Contempt: 0},
		Search: SearchConfig{AspirationDelta: initialAspirationWindow, NullMoveBaseR: nullMoveBaseReduction},
	}
}

// LoadConfig reads and decodes a TOML tuning file on top of
// DefaultConfig, so any table or key absent from the file keeps its
// default value. A missing or unreadable file is a resource-error per spec.md
// §7 and is reported to the caller rather than silently defaulted.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyTo overlays the config's engine-level fields onto opts.
func (c Config) ApplyTo(opts *Options) error {
	if c.Engine.HashMB != 0 {
		if err := opts.SetHash(c.Engine.HashMB); err != nil {
			return err
		}
	}
	if c.Engine.Threads != 0 {
		if err := opts.SetThreads(c.Engine.Threads); err != nil {
			return err
		}
	}
	if c.Eval.Contempt != 0 {
		opts.SetContempt(c.Eval.Contempt)
	}
	if c.Search.AspirationDelta != 0 {
		opts.AspirationDelta = c.Search.AspirationDelta
	}
	if c.Search.NullMoveBaseR != 0 {
		opts.NullMoveBaseR = c.Search.NullMoveBaseR
	}
	return nil
}
