package service

import (
	"context"
	"sync"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/reconcile"
	"github.com/oilslickpad/storeops/internal/shopify"
	"github.com/oilslickpad/storeops/internal/woocommerce"
)

type collectionCall struct {
	ID    int64
	Patch domain.CollectionPatch
}

type productCall struct {
	ID     int64
	Update shopify.ProductUpdate
}

type priceCall struct {
	VariantID int64
	Price     string
}

// fakeStore keeps live state in memory and applies writes to it, so a second run
// observes the first run's corrections
type fakeStore struct {
	mu sync.Mutex

	collections []domain.Collection
	total       int
	menus       []domain.Menu
	products    []domain.Product

	collectionsErr error
	countErr       error
	menusErr       error
	productsErr    error
	updateErr      error

	collectionCalls []collectionCall
	tagCalls        map[int64][]string
	productCalls    []productCall
	priceCalls      []priceCall
}

func (f *fakeStore) ListCollections(_ context.Context) ([]domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.collectionsErr != nil {
		return nil, f.collectionsErr
	}
	out := make([]domain.Collection, len(f.collections))
	copy(out, f.collections)
	return out, nil
}

func (f *fakeStore) CountProducts(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total, f.countErr
}

func (f *fakeStore) ListMenus(_ context.Context) ([]domain.Menu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.menus, f.menusErr
}

func (f *fakeStore) UpdateSmartCollection(_ context.Context, id int64, patch domain.CollectionPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collectionCalls = append(f.collectionCalls, collectionCall{ID: id, Patch: patch})
	if f.updateErr != nil {
		return f.updateErr
	}
	for i, c := range f.collections {
		if c.ID == id {
			f.collections[i] = reconcile.ApplyPatch(c, patch)
		}
	}
	return nil
}

func (f *fakeStore) ListProducts(_ context.Context, opts shopify.ListOptions) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		if opts.Max > 0 && len(out) >= opts.Max {
			break
		}
		p.Tags = append([]string(nil), p.Tags...)
		p.Variants = append([]domain.Variant(nil), p.Variants...)
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) ListProductsREST(ctx context.Context, opts shopify.ListOptions) ([]domain.Product, error) {
	all, err := f.ListProducts(ctx, shopify.ListOptions{Max: opts.Max})
	if err != nil || opts.Vendor == "" {
		return all, err
	}
	var out []domain.Product
	for _, p := range all {
		if p.Vendor == opts.Vendor {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateProductTags(_ context.Context, id int64, tagList []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tagCalls == nil {
		f.tagCalls = map[int64][]string{}
	}
	f.tagCalls[id] = tagList
	if f.updateErr != nil {
		return f.updateErr
	}
	for i, p := range f.products {
		if p.ID == id {
			f.products[i].Tags = append([]string(nil), tagList...)
		}
	}
	return nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, id int64, upd shopify.ProductUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productCalls = append(f.productCalls, productCall{ID: id, Update: upd})
	if f.updateErr != nil {
		return f.updateErr
	}
	for i, p := range f.products {
		if p.ID != id {
			continue
		}
		if upd.Title != nil {
			f.products[i].Title = *upd.Title
		}
		if upd.Status != nil {
			f.products[i].Status = *upd.Status
		}
	}
	return nil
}

func (f *fakeStore) UpdateVariantPrice(_ context.Context, variantID int64, price string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceCalls = append(f.priceCalls, priceCall{VariantID: variantID, Price: price})
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.products {
		for j := range f.products[i].Variants {
			if f.products[i].Variants[j].ID == variantID {
				f.products[i].Variants[j].Price = price
			}
		}
	}
	return nil
}

type fakeSource struct {
	products []woocommerce.Product
	err      error
}

func (f *fakeSource) ListProducts(_ context.Context) ([]woocommerce.Product, error) {
	return f.products, f.err
}
