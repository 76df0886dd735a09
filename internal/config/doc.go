// Package config loads histctl's settings.
//
// Settings come from three sources, later ones overriding earlier:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← HISTCTL_* (highest priority)
//	├─────────────────────────────┤
//	│  2. Config File             │  ← .toml, .yaml or .yml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Default()
//	└─────────────────────────────┘
//
// A missing config file is not an error; the defaults apply.
//
// # Live Reload
//
// Watcher observes the config file and hands a freshly loaded Config to its
// handler after writes settle:
//
//	w, err := config.NewWatcher(path, func(cfg *config.Config) {
//	    stack.SetMaxEntries(cfg.History.MaxEntries)
//	}, config.WithWatcherLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
package config
