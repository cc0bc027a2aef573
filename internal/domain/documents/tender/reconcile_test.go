package tender

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderdesk/internal/core/apperror"
	"tenderdesk/internal/core/id"
	"tenderdesk/internal/core/types"
	"tenderdesk/internal/domain"
	"tenderdesk/internal/domain/catalogs/material"
	"tenderdesk/pkg/numerator"
)

// --- in-memory fakes ---

type passTx struct{}

func (passTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memSource struct {
	byRef  map[string]*material.Material
	failed bool
}

func newMemSource() *memSource {
	return &memSource{byRef: make(map[string]*material.Material)}
}

func (s *memSource) put(m *material.Material) { s.byRef[m.RefID] = m }

func (s *memSource) FindByRefID(ctx context.Context, refID string) (*material.Material, error) {
	if s.failed {
		return nil, apperror.NewStoreUnavailable(assert.AnError)
	}
	if m, ok := s.byRef[refID]; ok {
		return m, nil
	}
	return nil, apperror.NewNotFound("material", refID)
}

func (s *memSource) FindByNameFallback(ctx context.Context, name string) (*material.Material, error) {
	if s.failed {
		return nil, apperror.NewStoreUnavailable(assert.AnError)
	}
	keys := make([]string, 0, len(s.byRef))
	for k := range s.byRef {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s.byRef[k].Name == name {
			return s.byRef[k], nil
		}
	}
	return nil, apperror.NewNotFound("material", name)
}

func (s *memSource) ListActive(ctx context.Context) ([]*material.Material, error) {
	var out []*material.Material
	for _, m := range s.byRef {
		if m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

type memRepo struct {
	tenders map[string]*Tender // by ref
	items   map[string]*Item   // by ref
}

func newMemRepo() *memRepo {
	return &memRepo{tenders: make(map[string]*Tender), items: make(map[string]*Item)}
}

func (r *memRepo) Create(ctx context.Context, doc *Tender) error {
	r.tenders[doc.RefID] = doc
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, docID id.ID) (*Tender, error) {
	for _, t := range r.tenders {
		if t.ID == docID {
			return t, nil
		}
	}
	return nil, apperror.NewNotFound("tender", docID.String())
}

func (r *memRepo) GetByRefID(ctx context.Context, refID string) (*Tender, error) {
	if t, ok := r.tenders[refID]; ok {
		return t, nil
	}
	return nil, apperror.NewNotFound("tender", refID)
}

func (r *memRepo) GetByNumber(ctx context.Context, number string) (*Tender, error) {
	for _, t := range r.tenders {
		if t.Number == number {
			return t, nil
		}
	}
	return nil, apperror.NewNotFound("tender", number)
}

func (r *memRepo) Update(ctx context.Context, doc *Tender) error {
	r.tenders[doc.RefID] = doc
	return nil
}

func (r *memRepo) Delete(ctx context.Context, docID id.ID) error {
	for ref, t := range r.tenders {
		if t.ID == docID {
			delete(r.tenders, ref)
		}
	}
	for ref, it := range r.items {
		if it.TenderID == docID {
			delete(r.items, ref)
		}
	}
	return nil
}

func (r *memRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Tender], error) {
	var out []*Tender
	for _, t := range r.tenders {
		out = append(out, t)
	}
	return domain.ListResult[*Tender]{Items: out, TotalCount: int64(len(out))}, nil
}

func (r *memRepo) CreateItem(ctx context.Context, item *Item) error {
	r.items[item.RefID] = item
	return nil
}

func (r *memRepo) GetItem(ctx context.Context, itemID id.ID) (*Item, error) {
	for _, it := range r.items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return nil, apperror.NewNotFound("tender item", itemID.String())
}

func (r *memRepo) GetItemByRefID(ctx context.Context, refID string) (*Item, error) {
	if it, ok := r.items[refID]; ok {
		return it, nil
	}
	return nil, apperror.NewNotFound("tender item", refID)
}

func (r *memRepo) FindItem(ctx context.Context, tenderID id.ID, materialRef string, kind material.Kind) (*Item, error) {
	for _, it := range r.items {
		if it.TenderID == tenderID && it.MaterialRef == materialRef && it.MaterialKind == kind {
			return it, nil
		}
	}
	return nil, apperror.NewNotFound("tender item", materialRef)
}

func (r *memRepo) UpdateItem(ctx context.Context, item *Item) error {
	if _, ok := r.items[item.RefID]; !ok {
		return apperror.NewNotFound("tender item", item.RefID)
	}
	r.items[item.RefID] = item
	return nil
}

func (r *memRepo) DeleteItem(ctx context.Context, itemID id.ID) error {
	for ref, it := range r.items {
		if it.ID == itemID {
			delete(r.items, ref)
		}
	}
	return nil
}

func (r *memRepo) ListItems(ctx context.Context, tenderID id.ID) ([]*Item, error) {
	var out []*Item
	for _, it := range r.items {
		if it.TenderID == tenderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memRepo) NextItemPosition(ctx context.Context, tenderID id.ID) (int, error) {
	max := 0
	for _, it := range r.items {
		if it.TenderID == tenderID && it.Position > max {
			max = it.Position
		}
	}
	return max + 1, nil
}

// --- fixture ---

type fixture struct {
	repo    *memRepo
	raw     *memSource
	local   *memSource
	svc     *Service
	tender  *Tender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newMemRepo()
	raw := newMemSource()
	local := newMemSource()

	registry := material.NewRegistry(map[material.Kind]material.Source{
		material.KindRawMaterial:  raw,
		material.KindLocalProduct: local,
	})

	svc := NewService(Config{
		Repo:      repo,
		Registry:  registry,
		TxManager: passTx{},
		Numerator: &numerator.MockGenerator{},
	})

	doc := NewTender("Plant expansion", "CO-test")
	doc.Number = "TN-2026-00001"
	require.NoError(t, repo.Create(context.Background(), doc))

	return &fixture{repo: repo, raw: raw, local: local, svc: svc, tender: doc}
}

func (f *fixture) newRawMaterial(name, price string) *material.Material {
	m := material.New(material.KindRawMaterial, "", name)
	m.BasePrice = types.MustMoney(price)
	f.raw.put(m)
	return m
}

// --- tests ---

func TestAddItem_CreatesWithResolvedPrice(t *testing.T) {
	f := newFixture(t)
	m := f.newRawMaterial("Steel", "100")

	item, err := f.svc.AddItem(context.Background(), f.tender.RefID, AddItemParams{
		MaterialRef:  m.RefID,
		MaterialKind: material.KindRawMaterial,
		Quantity:     types.MustQuantity("1"),
	})
	require.NoError(t, err)

	assert.True(t, item.UnitPrice.Equal(types.MustMoney("100")))
	assert.True(t, item.TotalPrice.Equal(types.MustMoney("100")))
	assert.Equal(t, "Steel", item.MaterialName)
	assert.Equal(t, 1, item.Position)
	assert.NotNil(t, item.LastPriceUpdate)
}

func TestAddItem_DuplicateCombinesQuantities(t *testing.T) {
	f := newFixture(t)
	m := f.newRawMaterial("Steel", "10")

	_, err := f.svc.AddItem(context.Background(), f.tender.RefID, AddItemParams{
		MaterialRef: m.RefID, MaterialKind: material.KindRawMaterial, Quantity: types.MustQuantity("2"),
	})
	require.NoError(t, err)

	item, err := f.svc.AddItem(context.Background(), f.tender.RefID, AddItemParams{
		MaterialRef: m.RefID, MaterialKind: material.KindRawMaterial, Quantity: types.MustQuantity("3"),
	})
	require.NoError(t, err)

	// Exactly one item exists with the summed quantity.
	assert.Len(t, f.repo.items, 1)
	assert.True(t, item.Quantity.Equal(types.MustQuantity("5")))
	assert.True(t, item.TotalPrice.Equal(types.MustMoney("50")))
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	m := f.newRawMaterial("Steel", "10")

	for _, qty := range []string{"0", "-1"} {
		_, err := f.svc.AddItem(context.Background(), f.tender.RefID, AddItemParams{
			MaterialRef: m.RefID, MaterialKind: material.KindRawMaterial, Quantity: types.MustQuantity(qty),
		})
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
}

func TestAddItem_UnknownMaterialFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddItem(context.Background(), f.tender.RefID, AddItemParams{
		MaterialRef: "RM-missing", MaterialKind: material.KindRawMaterial, Quantity: types.MustQuantity("1"),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMaterialNotFound, appErr.Code)
}

func TestAddItem_FallbackByName(t *testing.T) {
	f := newFixture(t)
	m := f.newRawMaterial("Copper wire", "7")

	item, err := f.svc.AddItem(context.Background(), f.tender.RefID, AddItemParams{
		MaterialRef:  "RM-stale-reference",
		MaterialKind: material.KindRawMaterial,
		Quantity:     types.MustQuantity("4"),
		FallbackName: "Copper wire",
	})
	require.NoError(t, err)

	// The item now carries the material's current reference.
	assert.Equal(t, m.RefID, item.MaterialRef)
	assert.True(t, item.TotalPrice.Equal(types.MustMoney("28")))
}

func TestAddItem_ClosedTenderRejected(t *testing.T) {
	f := newFixture(t)
	m := f.newRawMaterial("Steel", "10")
	f.tender.Status = StatusClosed

	_, err := f.svc.AddItem(context.Background(), f.tender.RefID, AddItemParams{
		MaterialRef: m.RefID, MaterialKind: material.KindRawMaterial, Quantity: types.MustQuantity("1"),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeTenderClosed, appErr.Code)
}

func TestUpdateItemQuantity_RepricesFromSource(t *testing.T) {
	f := newFixture(t)
	m := f.newRawMaterial("Steel", "100")

	item, err := f.svc.AddItem(context.Background(), f.tender.RefID, AddItemParams{
		MaterialRef: m.RefID, MaterialKind: material.KindRawMaterial, Quantity: types.MustQuantity("1"),
	})
	require.NoError(t, err)

	// Catalog price changes between the add and the quantity edit.
	m.BasePrice = types.MustMoney("80")

	updated, err := f.svc.UpdateItemQuantity(context.Background(), item.RefID, types.MustQuantity("0.5"))
	require.NoError(t, err)

	assert.True(t, updated.UnitPrice.Equal(types.MustMoney("80")))
	assert.True(t, updated.TotalPrice.Equal(types.MustMoney("40")))
}

func TestUpdateItemQuantity_MissingItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateItemQuantity(context.Background(), "TI-missing", types.MustQuantity("1"))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateItemQuantity_VanishedMaterialKeepsStalePrice(t *testing.T) {
	f := newFixture(t)
	m := f.newRawMaterial("Steel", "100")

	item, err := f.svc.AddItem(context.Background(), f.tender.RefID, AddItemParams{
		MaterialRef: m.RefID, MaterialKind: material.KindRawMaterial, Quantity: types.MustQuantity("1"),
	})
	require.NoError(t, err)

	delete(f.raw.byRef, m.RefID)

	updated, err := f.svc.UpdateItemQuantity(context.Background(), item.RefID, types.MustQuantity("3"))
	require.NoError(t, err)

	assert.True(t, updated.UnitPrice.Equal(types.MustMoney("100")))
	assert.True(t, updated.TotalPrice.Equal(types.MustMoney("300")))
}

func TestDeleteItem_Idempotent(t *testing.T) {
	f := newFixture(t)
	m := f.newRawMaterial("Steel", "10")

	item, err := f.svc.AddItem(context.Background(), f.tender.RefID, AddItemParams{
		MaterialRef: m.RefID, MaterialKind: material.KindRawMaterial, Quantity: types.MustQuantity("1"),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteItem(context.Background(), item.RefID))
	// Second delete of the same item is success, not an error.
	require.NoError(t, f.svc.DeleteItem(context.Background(), item.RefID))
	assert.Empty(t, f.repo.items)
}

func TestBulkRefresh_PartitionsEveryItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m1 := f.newRawMaterial("Steel", "10")
	m2 := f.newRawMaterial("Ghost", "20")
	m3 := f.newRawMaterial("Retired", "30")
	m4 := f.newRawMaterial("Stable", "40")
	m5 := f.newRawMaterial("Lumber", "50")

	var items []*Item
	for _, m := range []*material.Material{m1, m2, m3, m4, m5} {
		it, err := f.svc.AddItem(ctx, f.tender.RefID, AddItemParams{
			MaterialRef: m.RefID, MaterialKind: material.KindRawMaterial, Quantity: types.MustQuantity("1"),
		})
		require.NoError(t, err)
		items = append(items, it)
	}

	// 1 and 5 get new prices, 2 vanishes, 3 goes inactive, 4 is unchanged.
	m1.BasePrice = types.MustMoney("11")
	delete(f.raw.byRef, m2.RefID)
	m3.Active = false
	m5.BasePrice = types.MustMoney("55")

	result, err := f.svc.BulkRefresh(ctx, f.tender.RefID)
	require.NoError(t, err)

	require.Len(t, result.Updated, 2)
	assert.Equal(t, items[0].RefID, result.Updated[0].RefID)
	assert.Equal(t, items[4].RefID, result.Updated[1].RefID)

	require.Len(t, result.Skipped, 3)
	reasons := map[string]string{}
	for _, s := range result.Skipped {
		reasons[s.ItemRef] = s.Reason
	}
	assert.Equal(t, SkipMaterialNotFound, reasons[items[1].RefID])
	assert.Equal(t, SkipMaterialInactive, reasons[items[2].RefID])
	assert.Equal(t, SkipPriceUnchanged, reasons[items[3].RefID])

	assert.Empty(t, result.Failed)
}

func TestBulkRefresh_StoreFailureIsolatedPerItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m := f.newRawMaterial("Steel", "10")
	item, err := f.svc.AddItem(ctx, f.tender.RefID, AddItemParams{
		MaterialRef: m.RefID, MaterialKind: material.KindRawMaterial, Quantity: types.MustQuantity("1"),
	})
	require.NoError(t, err)

	f.raw.failed = true

	result, err := f.svc.BulkRefresh(ctx, f.tender.RefID)
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, item.RefID, result.Failed[0].ItemRef)
	assert.Empty(t, result.Updated)
	assert.Empty(t, result.Skipped)
}

func TestBulkRefresh_ItemWithoutReferenceSkipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	legacy := &Item{
		ID:       id.New(),
		RefID:    id.NewRef(id.KindTenderItem),
		TenderID: f.tender.ID,
		Position: 1,
		Quantity: types.MustQuantity("1"),
	}
	require.NoError(t, f.repo.CreateItem(ctx, legacy))

	result, err := f.svc.BulkRefresh(ctx, f.tender.RefID)
	require.NoError(t, err)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, SkipNoMaterialRef, result.Skipped[0].Reason)
}

func TestRefreshScenario_PriceDropPropagates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m := f.newRawMaterial("Steel", "100")
	item, err := f.svc.AddItem(ctx, f.tender.RefID, AddItemParams{
		MaterialRef: m.RefID, MaterialKind: material.KindRawMaterial, Quantity: types.MustQuantity("1"),
	})
	require.NoError(t, err)
	assert.True(t, item.UnitPrice.Equal(types.MustMoney("100")))

	m.BasePrice = types.MustMoney("80")

	result, err := f.svc.BulkRefresh(ctx, f.tender.RefID)
	require.NoError(t, err)

	require.Len(t, result.Updated, 1)
	assert.True(t, result.Updated[0].UnitPrice.Equal(types.MustMoney("80")))
	assert.True(t, result.Updated[0].TotalPrice.Equal(types.MustMoney("80")))

	// Header totals follow the refreshed items.
	doc, err := f.repo.GetByRefID(ctx, f.tender.RefID)
	require.NoError(t, err)
	assert.True(t, doc.TotalAmount.Equal(types.MustMoney("80")))
}

func TestBulkRefresh_QuoteBeatsBasePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m := f.newRawMaterial("Steel", "100")
	item, err := f.svc.AddItem(ctx, f.tender.RefID, AddItemParams{
		MaterialRef: m.RefID, MaterialKind: material.KindRawMaterial, Quantity: types.MustQuantity("2"),
	})
	require.NoError(t, err)
	_ = item

	m.Quotes = material.QuoteList{
		{QuoteID: "q1", Price: types.MustMoney("90"), SupplierName: "Alpha"},
		{QuoteID: "q2", Price: types.MustMoney("60"), SupplierName: "Beta"},
	}

	result, err := f.svc.BulkRefresh(ctx, f.tender.RefID)
	require.NoError(t, err)

	require.Len(t, result.Updated, 1)
	got := result.Updated[0]
	assert.True(t, got.UnitPrice.Equal(types.MustMoney("60")))
	assert.True(t, got.TotalPrice.Equal(types.MustMoney("120")))
	assert.Equal(t, "Beta", got.SupplierName)
	assert.True(t, got.SupplierFromQuote)
}
