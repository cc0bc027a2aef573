package material

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderdesk/internal/core/apperror"
)

// fakeSource is an in-memory Source for registry tests.
type fakeSource struct {
	byRef  map[string]*Material
	byName map[string]*Material
	err    error
}

func (f *fakeSource) FindByRefID(ctx context.Context, refID string) (*Material, error) {
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.byRef[refID]; ok {
		return m, nil
	}
	return nil, apperror.NewNotFound("material", refID)
}

func (f *fakeSource) FindByNameFallback(ctx context.Context, name string) (*Material, error) {
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.byName[name]; ok {
		return m, nil
	}
	return nil, apperror.NewNotFound("material", name)
}

func (f *fakeSource) ListActive(ctx context.Context) ([]*Material, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*Material
	for _, m := range f.byRef {
		if m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func TestRegistry_ResolveByRefID(t *testing.T) {
	steel := New(KindRawMaterial, "RM-001", "Steel")
	reg := NewRegistry(map[Kind]Source{
		KindRawMaterial: &fakeSource{byRef: map[string]*Material{steel.RefID: steel}},
	})

	got, err := reg.Resolve(context.Background(), KindRawMaterial, steel.RefID, "")
	require.NoError(t, err)
	assert.Equal(t, steel.RefID, got.RefID)
	assert.Equal(t, KindRawMaterial, got.Kind)
}

func TestRegistry_ResolveFallsBackToName(t *testing.T) {
	cement := New(KindLocalProduct, "LP-001", "Cement")
	reg := NewRegistry(map[Kind]Source{
		KindLocalProduct: &fakeSource{
			byRef:  map[string]*Material{},
			byName: map[string]*Material{"Cement": cement},
		},
	})

	got, err := reg.Resolve(context.Background(), KindLocalProduct, "LP-missing", "Cement")
	require.NoError(t, err)
	assert.Equal(t, cement.RefID, got.RefID)
}

func TestRegistry_ResolveMissReturnsMaterialNotFound(t *testing.T) {
	reg := NewRegistry(map[Kind]Source{
		KindForeign: &fakeSource{byRef: map[string]*Material{}, byName: map[string]*Material{}},
	})

	_, err := reg.Resolve(context.Background(), KindForeign, "FP-missing", "Nothing")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMaterialNotFound, appErr.Code)
}

func TestRegistry_ResolveNoFallbackName(t *testing.T) {
	reg := NewRegistry(map[Kind]Source{
		KindRawMaterial: &fakeSource{byRef: map[string]*Material{}},
	})

	_, err := reg.Resolve(context.Background(), KindRawMaterial, "RM-missing", "")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRegistry_ResolveUnknownKind(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.Resolve(context.Background(), Kind("bogus"), "X-1", "")
	require.Error(t, err)
	assert.False(t, apperror.IsNotFound(err))
}

func TestRegistry_ResolvePropagatesStoreErrors(t *testing.T) {
	reg := NewRegistry(map[Kind]Source{
		KindRawMaterial: &fakeSource{err: apperror.NewStoreUnavailable(assert.AnError)},
	})

	_, err := reg.Resolve(context.Background(), KindRawMaterial, "RM-1", "Steel")
	require.Error(t, err)
	assert.False(t, apperror.IsNotFound(err))
}
