package portfolio_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
	"github.com/pathwai/pathwai-backend/internal/usecase/portfolio"
)

func TestCreateFromResume(t *testing.T) {
	f := newFixture()
	uc := portfolio.NewCreateFromResumeUseCase(f.portfolios, f.createUseCase(nil))
	userID := uuid.New()
	resume := &entity.ParsedResume{PersonalInfo: entity.ResumePersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com"}}

	_, err := uc.Execute(context.Background(), portfolio.CreateFromResumeInput{UserID: userID})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	out, err := uc.Execute(context.Background(), portfolio.CreateFromResumeInput{UserID: userID, Resume: resume})
	require.NoError(t, err)
	assert.False(t, out.Existing)
	require.NotNil(t, out.Widgets)

	created := f.portfolios.items[out.PortfolioID]
	require.NotNil(t, created)
	assert.Equal(t, "Ada Lovelace", created.Name)
	assert.Equal(t, "Ada Lovelace's professional portfolio", *created.Description)

	again, err := uc.Execute(context.Background(), portfolio.CreateFromResumeInput{UserID: userID, Resume: resume})
	require.NoError(t, err)
	assert.True(t, again.Existing)
	assert.Equal(t, out.PortfolioID, again.PortfolioID)
	assert.Len(t, f.portfolios.items, 1)
}

func TestSaveAndLoadComposition(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	created, err := f.createUseCase(nil).Execute(context.Background(), portfolio.CreatePortfolioInput{UserID: userID, Name: "Site"})
	require.NoError(t, err)

	comp := entity.NewComposition()
	galleryID, err := comp.AddWidget(valueobject.WidgetKindGallery, valueobject.ColumnLeft)
	require.NoError(t, err)
	comp.UpdateContent(galleryID, json.RawMessage(`[{"id":"g","name":"Shots","images":["a.png"]}]`))
	require.True(t, comp.MoveWidget("projects", valueobject.ColumnLeft))
	name := "Ada"
	require.NoError(t, comp.UpdateIdentity(entity.IdentityPatch{Name: &name}))

	save := portfolio.NewSaveCompositionUseCase(f.portfolios, f.pages, f.widgets, f.layouts, f.types)
	saved, err := save.Execute(context.Background(), portfolio.SaveCompositionInput{
		UserID:      userID,
		PortfolioID: created.Portfolio.ID,
		Composition: comp,
	})
	require.NoError(t, err)
	assert.Empty(t, saved.Widgets.Failed)
	assert.Len(t, f.widgets.items, 6)

	load := portfolio.NewGetCompositionUseCase(f.portfolios, f.pages, f.widgets, f.layouts, f.types)
	loaded, err := load.Execute(context.Background(), created.Portfolio.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, "Ada", loaded.Identity.Name)
	assert.Equal(t, comp.Summary(), loaded.Summary())
	assert.Equal(t, saved.Layout, loaded.Layout())

	var galleryKey string
	for _, w := range loaded.Left {
		if w.Kind == valueobject.WidgetKindGallery {
			galleryKey = w.ContentKey()
		}
	}
	require.NotEmpty(t, galleryKey)
	assert.JSONEq(t, `[{"id":"g","name":"Shots","images":["a.png"]}]`, string(loaded.Content[galleryKey]))
}

func TestComposition_NotOwner(t *testing.T) {
	f := newFixture()
	created, err := f.createUseCase(nil).Execute(context.Background(), portfolio.CreatePortfolioInput{UserID: uuid.New(), Name: "Site"})
	require.NoError(t, err)

	load := portfolio.NewGetCompositionUseCase(f.portfolios, f.pages, f.widgets, f.layouts, f.types)
	_, err = load.Execute(context.Background(), created.Portfolio.ID, uuid.New())
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	save := portfolio.NewSaveCompositionUseCase(f.portfolios, f.pages, f.widgets, f.layouts, f.types)
	_, err = save.Execute(context.Background(), portfolio.SaveCompositionInput{
		UserID:      uuid.New(),
		PortfolioID: created.Portfolio.ID,
		Composition: entity.NewComposition(),
	})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestUpdateAndDeletePortfolio(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	created, err := f.createUseCase(nil).Execute(context.Background(), portfolio.CreatePortfolioInput{UserID: userID, Name: "Site"})
	require.NoError(t, err)

	public := true
	name := " Renamed "
	updated, err := portfolio.NewUpdatePortfolioUseCase(f.portfolios).Execute(context.Background(), portfolio.UpdatePortfolioInput{
		UserID:      userID,
		PortfolioID: created.Portfolio.ID,
		Name:        &name,
		IsPublic:    &public,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.IsPublic)
	assert.Equal(t, created.Portfolio.Slug, updated.Slug)

	del := portfolio.NewDeletePortfolioUseCase(f.portfolios)
	assert.Equal(t, http.StatusNotFound, statusOf(t, del.Execute(context.Background(), created.Portfolio.ID, uuid.New())))
	require.NoError(t, del.Execute(context.Background(), created.Portfolio.ID, userID))

	list, err := portfolio.NewListMyPortfoliosUseCase(f.portfolios).Execute(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func widgetSnapshot(f *fixture) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(f.widgets.items))
	for id, w := range f.widgets.items {
		out[id] = string(w.Props)
	}
	return out
}

func TestSaveComposition_TypeLookupFailureKeepsPage(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	created, err := f.createUseCase(nil).Execute(context.Background(), portfolio.CreatePortfolioInput{UserID: userID, Name: "Site"})
	require.NoError(t, err)
	before := widgetSnapshot(f)
	layoutBefore := f.layouts.items[created.Page.ID].Layout

	f.types.err = errStore
	save := portfolio.NewSaveCompositionUseCase(f.portfolios, f.pages, f.widgets, f.layouts, f.types)
	_, err = save.Execute(context.Background(), portfolio.SaveCompositionInput{
		UserID:      userID,
		PortfolioID: created.Portfolio.ID,
		Composition: entity.NewComposition(),
	})
	require.Error(t, err)

	assert.Equal(t, before, widgetSnapshot(f))
	assert.Equal(t, layoutBefore, f.layouts.items[created.Page.ID].Layout)

	f.types.err = nil
	loaded, err := portfolio.NewGetCompositionUseCase(f.portfolios, f.pages, f.widgets, f.layouts, f.types).
		Execute(context.Background(), created.Portfolio.ID, userID)
	require.NoError(t, err)
	assert.Len(t, loaded.AllWidgets(), len(created.Widgets.Created))
}

func TestSaveComposition_LayoutFailureRestoresWidgets(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	created, err := f.createUseCase(nil).Execute(context.Background(), portfolio.CreatePortfolioInput{UserID: userID, Name: "Site"})
	require.NoError(t, err)
	before := widgetSnapshot(f)

	comp := entity.NewComposition()
	name := "Changed"
	require.NoError(t, comp.UpdateIdentity(entity.IdentityPatch{Name: &name}))

	f.layouts.upsertErr = errStore
	save := portfolio.NewSaveCompositionUseCase(f.portfolios, f.pages, f.widgets, f.layouts, f.types)
	_, err = save.Execute(context.Background(), portfolio.SaveCompositionInput{
		UserID:      userID,
		PortfolioID: created.Portfolio.ID,
		Composition: comp,
	})
	require.Error(t, err)

	assert.Equal(t, before, widgetSnapshot(f))
}

func TestSaveComposition_ReplacesOldWidgetsAfterLayout(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	created, err := f.createUseCase(nil).Execute(context.Background(), portfolio.CreatePortfolioInput{UserID: userID, Name: "Site"})
	require.NoError(t, err)

	save := portfolio.NewSaveCompositionUseCase(f.portfolios, f.pages, f.widgets, f.layouts, f.types)
	saved, err := save.Execute(context.Background(), portfolio.SaveCompositionInput{
		UserID:      userID,
		PortfolioID: created.Portfolio.ID,
		Composition: entity.NewComposition(),
	})
	require.NoError(t, err)

	assert.Len(t, f.widgets.items, len(saved.Widgets.Created))
	for _, c := range saved.Widgets.Created {
		assert.Contains(t, f.widgets.items, c.InstanceID)
	}
}
