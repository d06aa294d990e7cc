package cli

import (
	"errors"
	"reflect"

	"github.com/roach88/quadmap/internal/entity"
	"github.com/roach88/quadmap/internal/query"
	"github.com/roach88/quadmap/internal/rdfid"
	"github.com/roach88/quadmap/internal/store"
)

// resource is the entity type the CLI binds mapping names to.
type resource struct {
	rdfid.Ref
}

var resourceType = reflect.TypeOf((*resource)(nil)).Elem()

// env is the per-command wiring of mappings, registry, session and store.
type env struct {
	store    *store.Store
	session  *query.Session
	registry *entity.Registry
	metadata entity.Metadata
}

func (e *env) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// openStore opens the configured quad store.
func openStore(opts *RootOptions) (*store.Store, error) {
	return store.Open(opts.Config.Database,
		store.WithDialect(opts.Config.QueryDialect()),
		store.WithNamedGraphs(opts.Config.SupportsNamedGraphs()),
		store.WithLogger(opts.Logger),
	)
}

// openEnv loads the mappings, binds entityName to the CLI resource type,
// and opens the store. Failures are written through f.
func openEnv(opts *RootOptions, f *OutputFormatter, entityName string) (*env, error) {
	mappings, err := LoadMappings(opts.Config.Mappings)
	if err != nil {
		return nil, failLoad(f, err)
	}
	f.VerboseLog("Loaded %d entity mapping(s) from %d file(s) in %s",
		len(mappings.Entities), mappings.FileCount, opts.Config.Mappings)

	reg := entity.NewRegistry(entity.WithLogger(opts.Logger))
	if err := mappings.Bind(reg, entityName, resourceType); err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeMappingEntity, err)
	}
	md, _ := reg.Lookup(resourceType)
	f.VerboseLog("Bound entity %q (class %s); %d type(s) registered", entityName, md.Class, reg.Types())

	st, err := openStore(opts)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStoreFailed, err)
	}

	return &env{
		store:    st,
		session:  query.New(reg, query.WithLogger(opts.Logger)),
		registry: reg,
		metadata: md,
	}, nil
}

// failLoad outputs a mapping load error and returns an ExitError.
func failLoad(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		if outErr := f.Error(loadErr.Code, loadErr.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, loadErr.Code, err)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err)
}

// failOperation classifies an operation error and outputs it.
func failOperation(f *OutputFormatter, err error) error {
	switch {
	case rdfid.IsInvalidKey(err):
		return f.Fail(ExitFailure, ErrCodeInvalidKey, err)
	case query.IsCastFailure(err):
		return f.Fail(ExitFailure, ErrCodeCastFailed, err)
	case query.IsQueryFailure(err):
		return f.Fail(ExitFailure, ErrCodeQueryFailed, err)
	default:
		return f.Fail(ExitFailure, ErrCodeGeneric, err)
	}
}

// newResource returns a resource identified by the primary key raw.
func newResource(raw string) (*resource, error) {
	id, err := rdfid.AsPrimaryKey(raw)
	if err != nil {
		return nil, err
	}
	return &resource{Ref: rdfid.NewRef(id)}, nil
}
