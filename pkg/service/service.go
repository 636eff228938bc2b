package service

import (
	"context"

	"exercisecatalog/pkg/models"
	"exercisecatalog/pkg/store"
)

// Catalog is the metadata side of the service. catalog.Store implements it.
type Catalog interface {
	Insert(ctx context.Context, exercise models.NewExercise) (*models.Exercise, error)
	FileNameInUse(ctx context.Context, fileName string) (bool, error)
	Get(ctx context.Context, exerciseID int64) (*models.Exercise, error)
	List(ctx context.Context) ([]models.Exercise, error)
	ListSummaries(ctx context.Context) ([]models.ExerciseSummary, error)
	Delete(ctx context.Context, exerciseID int64) error
}

// Service keeps the catalog and the blob store consistent. It holds no locks
// of its own; each store call is as atomic as that store makes it.
type Service struct {
	catalog Catalog
	blobs   store.Store
	token   TokenSource
}

// Option configures a Service.
type Option func(*Service)

// WithTokenSource replaces the random token used to derive colliding names.
func WithTokenSource(source TokenSource) Option {
	return func(s *Service) {
		if source != nil {
			s.token = source
		}
	}
}

// New builds a Service over the given stores. The caller owns both handles
// and closes them on shutdown.
func New(catalog Catalog, blobs store.Store, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		blobs:   blobs,
		token:   randomToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
