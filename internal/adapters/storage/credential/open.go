package credential

import (
	"fmt"

	"coachdesk/internal/adapters/api/perf"
	"coachdesk/internal/adapters/storage"
)

// Options selects and configures a backend.
type Options struct {
	Kind       string // "sqlite", "redis" or "memory"
	DBPath     string
	RedisURL   string
	Passphrase string // empty disables sealing
}

// Open builds a Store for opts and returns a close function for its backend.
// PRE: opts.Kind is a known kind
// POST: Returns a ready store; close releases the backend's connections
func Open(opts Options, collector *perf.Collector) (*Store, func() error, error) {
	var sealer *Sealer
	if opts.Passphrase != "" {
		s, err := NewSealer(opts.Passphrase)
		if err != nil {
			return nil, nil, err
		}
		sealer = s
	}

	switch opts.Kind {
	case "memory":
		return NewStore(NewMemoryKV(), sealer), func() error { return nil }, nil
	case "redis":
		client, err := NewRedisClient(opts.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return NewStore(NewRedisKV(client, ""), sealer), client.Close, nil
	case "sqlite", "":
		db, err := storage.OpenSQLite(opts.DBPath)
		if err != nil {
			return nil, nil, err
		}
		tdb := storage.NewTimedDB(db, collector)
		return NewStore(NewSQLiteKV(tdb), sealer), tdb.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown credential store %q", opts.Kind)
	}
}
