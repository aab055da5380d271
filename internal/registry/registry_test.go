package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	id string
}

func (f *fakeClient) Equivalent(other Client) bool {
	o, ok := other.(*fakeClient)
	return ok && o.id == f.id
}

func TestEquivalent_NilHandling(t *testing.T) {
	assert.True(t, Equivalent(nil, nil))
	assert.False(t, Equivalent(nil, &fakeClient{id: "a"}))
	assert.False(t, Equivalent(&fakeClient{id: "a"}, nil))
}

func TestEquivalent_Delegates(t *testing.T) {
	a := &fakeClient{id: "a"}
	b := &fakeClient{id: "a"}
	c := &fakeClient{id: "b"}

	assert.True(t, Equivalent(a, b))
	assert.False(t, Equivalent(a, c))
}

func TestNameRegistry_RegisterAndGet(t *testing.T) {
	r := NewNameRegistry(nil, nil)

	err := r.Register("memory", BuilderFunc(func(ctx context.Context, conf map[string]string) (Client, error) {
		return &fakeClient{id: conf["id"]}, nil
	}))
	require.NoError(t, err)

	client, err := r.Get(context.Background(), "memory", map[string]string{"id": "x"})
	require.NoError(t, err)
	assert.Equal(t, &fakeClient{id: "x"}, client)
}

func TestNameRegistry_RegisterDuplicateFails(t *testing.T) {
	r := NewNameRegistry(nil, nil)
	build := BuilderFunc(func(ctx context.Context, conf map[string]string) (Client, error) {
		return &fakeClient{}, nil
	})
	require.NoError(t, r.Register("memory", build))

	err := r.Register("memory", build)
	require.Error(t, err)

	var already *AlreadyRegisteredError
	require.True(t, errors.As(err, &already))
	assert.Equal(t, "memory", already.Name)
}

func TestNameRegistry_GetUnknownFails(t *testing.T) {
	r := NewNameRegistry(nil, nil)

	_, err := r.Get(context.Background(), "missing", nil)
	require.Error(t, err)

	var unknown *UnknownCoordinatorError
	require.True(t, errors.As(err, &unknown))
}

func TestNameRegistry_GetOpt_AbsenceIsNotAnError(t *testing.T) {
	r := NewNameRegistry(nil, nil)

	client, found, err := r.GetOpt(context.Background(), "missing", nil)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, client)
}

func TestNameRegistry_SeedAndRegisteredNames(t *testing.T) {
	seed := map[string]Builder{
		"b": BuilderFunc(func(ctx context.Context, conf map[string]string) (Client, error) { return &fakeClient{}, nil }),
		"a": BuilderFunc(func(ctx context.Context, conf map[string]string) (Client, error) { return &fakeClient{}, nil }),
	}
	r := NewNameRegistry(seed, nil)

	assert.Equal(t, []string{"a", "b"}, r.RegisteredNames())
}

func TestCatalogRegistry_CachesByNameAndCatalog(t *testing.T) {
	calls := 0
	r := NewCatalogRegistry(nil, 8, nil)
	require.NoError(t, r.Register("glue", CatalogBuilderFunc(func(ctx context.Context, catalogName string) (Client, error) {
		calls++
		return &fakeClient{id: catalogName}, nil
	})))

	c1, err := r.Get(context.Background(), "glue", "prod")
	require.NoError(t, err)
	c2, err := r.Get(context.Background(), "glue", "prod")
	require.NoError(t, err)

	assert.Same(t, c1, c2)
	assert.Equal(t, 1, calls)

	_, err = r.Get(context.Background(), "glue", "dev")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCatalogRegistry_NoCacheRebuildsEveryTime(t *testing.T) {
	calls := 0
	r := NewCatalogRegistry(nil, 0, nil)
	require.NoError(t, r.Register("glue", CatalogBuilderFunc(func(ctx context.Context, catalogName string) (Client, error) {
		calls++
		return &fakeClient{id: catalogName}, nil
	})))

	_, err := r.Get(context.Background(), "glue", "prod")
	require.NoError(t, err)
	_, err = r.Get(context.Background(), "glue", "prod")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestCatalogRegistry_RegisterDuplicateFails(t *testing.T) {
	r := NewCatalogRegistry(nil, 8, nil)
	build := CatalogBuilderFunc(func(ctx context.Context, catalogName string) (Client, error) { return &fakeClient{}, nil })
	require.NoError(t, r.Register("glue", build))

	err := r.Register("glue", build)
	require.Error(t, err)
	var already *AlreadyRegisteredError
	require.True(t, errors.As(err, &already))
}

func TestCatalogRegistry_GetUnknownFails(t *testing.T) {
	r := NewCatalogRegistry(nil, 8, nil)

	_, err := r.Get(context.Background(), "missing", "prod")
	require.Error(t, err)
	var unknown *UnknownCoordinatorError
	require.True(t, errors.As(err, &unknown))
}

func TestCatalogRegistry_RegisteredNames(t *testing.T) {
	seed := map[string]CatalogBuilder{
		"z": CatalogBuilderFunc(func(ctx context.Context, catalogName string) (Client, error) { return &fakeClient{}, nil }),
		"y": CatalogBuilderFunc(func(ctx context.Context, catalogName string) (Client, error) { return &fakeClient{}, nil }),
	}
	r := NewCatalogRegistry(seed, 8, nil)

	assert.Equal(t, []string{"y", "z"}, r.RegisteredNames())
}
