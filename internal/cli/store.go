package cli

import (
	"hostelpass/internal/config"
	"hostelpass/internal/crypto"
	"hostelpass/internal/errors"
	"hostelpass/internal/files"
	"hostelpass/internal/registry"
)

// openStore builds the registry over the configured file, sealing it when
// encryption is enabled.
func openStore(cfg config.StorageConfig) (*registry.Store, error) {
	backend := &files.JSONFile{Path: cfg.Path}
	if cfg.Encrypt {
		master, err := crypto.ReadMasterKey(cfg.MasterKeyFile)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "load master key")
		}
		key, err := crypto.DeriveFileKey(master)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "derive registry key")
		}
		backend.Key = key
	}
	return registry.NewStore(backend), nil
}
