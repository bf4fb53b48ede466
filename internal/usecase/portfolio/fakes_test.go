package portfolio_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/repository"
	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

var errStore = errors.New("store unavailable")

type fakePortfolios struct {
	mu         sync.Mutex
	items      map[uuid.UUID]*entity.Portfolio
	takenSlugs map[string]bool
	createErr  error
	deleted    []uuid.UUID
}

func newFakePortfolios() *fakePortfolios {
	return &fakePortfolios{items: map[uuid.UUID]*entity.Portfolio{}, takenSlugs: map[string]bool{}}
}

func (f *fakePortfolios) Create(ctx context.Context, p *entity.Portfolio) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if f.takenSlugs[p.Slug] {
		return repository.ErrSlugTaken
	}
	f.takenSlugs[p.Slug] = true
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakePortfolios) Update(ctx context.Context, p *entity.Portfolio) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakePortfolios) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePortfolios) FindByID(ctx context.Context, id uuid.UUID) (*entity.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperror.ErrPortfolioNotFound
}

func (f *fakePortfolios) FindExisting(ctx context.Context, userID uuid.UUID, communityID *uuid.UUID) (*entity.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.UserID != userID {
			continue
		}
		if communityID == nil && p.CommunityID == nil {
			return p, nil
		}
		if communityID != nil && p.CommunityID != nil && *communityID == *p.CommunityID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePortfolios) FindAnyByUser(ctx context.Context, userID uuid.UUID) (*entity.Portfolio, error) {
	list, _ := f.FindByUser(ctx, userID)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (f *fakePortfolios) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Portfolio
	for _, p := range f.items {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePages struct {
	items     map[uuid.UUID]*entity.Page
	createErr error
	deleted   []uuid.UUID
}

func newFakePages() *fakePages {
	return &fakePages{items: map[uuid.UUID]*entity.Page{}}
}

func (f *fakePages) Create(ctx context.Context, page *entity.Page) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.items[page.ID] = page
	return nil
}

func (f *fakePages) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePages) FindMain(ctx context.Context, portfolioID uuid.UUID) (*entity.Page, error) {
	for _, p := range f.items {
		if p.PortfolioID == portfolioID && p.Key == entity.MainPageKey {
			return p, nil
		}
	}
	return nil, apperror.New(apperror.ErrCodeNotFound, "Page not found")
}

type fakeWidgets struct {
	items  map[uuid.UUID]*entity.WidgetInstance
	order  []uuid.UUID
	failOn map[uuid.UUID]bool // по widget_type_id
}

func newFakeWidgets() *fakeWidgets {
	return &fakeWidgets{items: map[uuid.UUID]*entity.WidgetInstance{}, failOn: map[uuid.UUID]bool{}}
}

func (f *fakeWidgets) Create(ctx context.Context, w *entity.WidgetInstance) error {
	if f.failOn[w.WidgetTypeID] {
		return errStore
	}
	f.items[w.ID] = w
	f.order = append(f.order, w.ID)
	return nil
}

func (f *fakeWidgets) UpsertByType(ctx context.Context, w *entity.WidgetInstance) error {
	for _, existing := range f.items {
		if existing.PageID == w.PageID && existing.WidgetTypeID == w.WidgetTypeID {
			existing.Props = w.Props
			w.ID = existing.ID
			return nil
		}
	}
	return f.Create(ctx, w)
}

func (f *fakeWidgets) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeWidgets) DeleteByPage(ctx context.Context, pageID uuid.UUID) error {
	for id, w := range f.items {
		if w.PageID == pageID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeWidgets) FindByPage(ctx context.Context, pageID uuid.UUID) ([]*entity.WidgetInstance, error) {
	var out []*entity.WidgetInstance
	for _, id := range f.order {
		if w, ok := f.items[id]; ok && w.PageID == pageID {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeLayouts struct {
	items     map[uuid.UUID]*entity.PageLayout
	upsertErr error
}

func newFakeLayouts() *fakeLayouts {
	return &fakeLayouts{items: map[uuid.UUID]*entity.PageLayout{}}
}

func (f *fakeLayouts) Upsert(ctx context.Context, l *entity.PageLayout) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.items[l.PageID] = l
	return nil
}

func (f *fakeLayouts) Delete(ctx context.Context, pageID uuid.UUID) error {
	delete(f.items, pageID)
	return nil
}

func (f *fakeLayouts) FindByPage(ctx context.Context, pageID uuid.UUID) (*entity.PageLayout, error) {
	return f.items[pageID], nil
}

type fakeTypes struct {
	index entity.WidgetTypeIndex
	err   error
	calls int
}

func newFakeTypes() *fakeTypes {
	ix := entity.WidgetTypeIndex{}
	for _, k := range valueobject.AllWidgetKinds() {
		ix[k] = uuid.New()
	}
	return &fakeTypes{index: ix}
}

func (f *fakeTypes) Resolve(ctx context.Context) (entity.WidgetTypeIndex, error) {
	f.calls++
	return f.index, f.err
}

type fakeTemplates map[string]entity.Template

func (f fakeTemplates) Resolve(id string) entity.Template {
	return f[id]
}

type fixture struct {
	portfolios *fakePortfolios
	pages      *fakePages
	widgets    *fakeWidgets
	layouts    *fakeLayouts
	types      *fakeTypes
}

func newFixture() *fixture {
	return &fixture{
		portfolios: newFakePortfolios(),
		pages:      newFakePages(),
		widgets:    newFakeWidgets(),
		layouts:    newFakeLayouts(),
		types:      newFakeTypes(),
	}
}

type fakeStored struct {
	comp         *entity.Composition
	err          error
	gotID        string
	gotCommunity *uuid.UUID
}

func (f *fakeStored) ResolveComposition(ctx context.Context, templateID string, communityID *uuid.UUID) (*entity.Composition, error) {
	f.gotID = templateID
	f.gotCommunity = communityID
	return f.comp, f.err
}
