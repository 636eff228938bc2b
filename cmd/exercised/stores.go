package main

import (
	"os"
	"path/filepath"

	"exercisecatalog/pkg/catalog"
	"exercisecatalog/pkg/config"
	"exercisecatalog/pkg/log"
	"exercisecatalog/pkg/service"
	"exercisecatalog/pkg/store/fs"
)

const dbDirPerm = 0750

// openService opens both stores and builds the service over them. The
// returned close function releases the catalog handle.
func openService(cfg *config.Config) (*service.Service, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), dbDirPerm); err != nil {
		return nil, nil, err
	}

	catalogStore, err := catalog.NewStore(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	blobStore, err := fs.New(cfg.BlobDir)
	if err != nil {
		_ = catalogStore.Close()
		return nil, nil, err
	}

	log.Info().Str("db_path", cfg.DBPath).Str("blob_dir", blobStore.Root()).Msg("Stores opened")

	closeFn := func() {
		if err := catalogStore.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close catalog")
		}
	}
	return service.New(catalogStore, blobStore), closeFn, nil
}
