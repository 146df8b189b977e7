package backend_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-cms-editor/internal/backend"
	"github.com/goliatone/go-cms-editor/internal/shared"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const (
	pageID  = "aaaaaaaa-0000-0000-0000-000000000001"
	textID  = "bbbbbbbb-0000-0000-0000-000000000001"
	groupID = "cccccccc-0000-0000-0000-000000000001"
	modelA  = "dddddddd-0000-0000-0000-00000000000a"
	modelB  = "dddddddd-0000-0000-0000-00000000000b"
)

func testContainers() []shared.ContainerDefinition {
	return []shared.ContainerDefinition{
		{Name: "main", Type: "content", Width: 800},
		{Name: "aside", Type: "sidebar", Width: 200},
	}
}

func testTypes() *backend.TypeRegistry {
	return backend.NewTypeRegistry(
		backend.TypeDefinition{
			Name:     "text",
			Title:    "Text",
			Contents: map[string]string{"*": `<div class="text">New text</div>`},
		},
		backend.TypeDefinition{
			Name:     "teaser",
			Title:    "Teaser",
			Contents: map[string]string{"content": `<div class="teaser">Teaser</div>`},
			ModelResources: []shared.ModelResource{
				{StructureID: modelA, Title: "Wide"},
				{StructureID: modelB, Title: "Narrow"},
			},
		},
		backend.TypeDefinition{
			Name:     "banner",
			Title:    "Banner",
			Contents: map[string]string{"*": `<div class="banner">Banner</div>`},
			ModelResources: []shared.ModelResource{
				{StructureID: modelA, Title: "Wide"},
			},
		},
		backend.TypeDefinition{
			Name:           "group",
			Title:          "Group",
			GroupContainer: true,
			Contents:       map[string]string{"*": `<div class="group"></div>`},
		},
	)
}

func newTestBackend(t *testing.T, repos backend.Repositories, opts ...backend.Option) *backend.Backend {
	t.Helper()
	opts = append([]backend.Option{backend.WithTypes(testTypes())}, opts...)
	return backend.New(repos, opts...)
}

func seed(t *testing.T, b *backend.Backend) {
	t.Helper()
	ctx := context.Background()
	records := []*backend.ElementRecord{
		{
			ID:           uuid.MustParse(textID),
			ResourceType: "text",
			Title:        "Welcome",
			Contents: map[string]string{
				"content": `<div class="text">Welcome</div>`,
				"sidebar": `<div class="text small">Welcome</div>`,
			},
		},
		{
			ID:             uuid.MustParse(groupID),
			ResourceType:   "group",
			GroupContainer: true,
			Contents:       map[string]string{"*": `<div class="group"></div>`},
			SubItems:       []string{textID},
		},
		{
			ID:           uuid.MustParse(modelA),
			ResourceType: "teaser",
			Title:        "Wide teaser",
			Contents:     map[string]string{"content": `<div class="teaser wide">Wide</div>`},
		},
	}
	for _, record := range records {
		if err := b.SeedElement(ctx, record); err != nil {
			t.Fatalf("seed %s: %v", record.ID, err)
		}
	}
}

func TestGetElementsDataRendersPerContainer(t *testing.T) {
	b := newTestBackend(t, backend.NewMemoryRepositories())
	seed(t, b)

	data, err := b.GetElementsData(context.Background(), shared.ElementsRequest{
		PageID:     pageID,
		ClientIDs:  []shared.ClientID{textID + "#s1", "text", "eeeeeeee-0000-0000-0000-000000000001"},
		Containers: testContainers(),
	})
	if err != nil {
		t.Fatalf("get elements: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(data))
	}

	text := data[textID+"#s1"]
	if text == nil {
		t.Fatal("expected data under the requested client id")
	}
	if text.Contents["main"] != `<div class="text">Welcome</div>` || text.Contents["aside"] != `<div class="text small">Welcome</div>` {
		t.Fatalf("unexpected contents %#v", text.Contents)
	}
	if !text.Editable() {
		t.Fatal("expected element to be editable")
	}

	placeholder := data["text"]
	if placeholder == nil || !placeholder.New || placeholder.ResourceType != "text" {
		t.Fatalf("expected new element data, got %#v", placeholder)
	}
	if placeholder.Contents["main"] == "" || placeholder.Contents["aside"] == "" {
		t.Fatalf("expected wildcard contents for every container, got %#v", placeholder.Contents)
	}
}

func TestGetElementsDataIncludesGroupSubItems(t *testing.T) {
	b := newTestBackend(t, backend.NewMemoryRepositories())
	seed(t, b)

	data, err := b.GetElementsData(context.Background(), shared.ElementsRequest{
		PageID:     pageID,
		ClientIDs:  []shared.ClientID{groupID},
		Containers: testContainers(),
	})
	if err != nil {
		t.Fatalf("get elements: %v", err)
	}
	group := data[groupID]
	if group == nil || !group.GroupContainer {
		t.Fatalf("expected group data, got %#v", group)
	}
	if len(group.SubItems) != 1 || group.SubItems[0] != textID {
		t.Fatalf("unexpected sub items %#v", group.SubItems)
	}
	if data[textID] == nil {
		t.Fatal("expected sub item data to be delivered with the group")
	}
}

func TestCheckCreateNewElementCreatesDirectly(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t, backend.NewMemoryRepositories())
	seed(t, b)

	result, err := b.CheckCreateNewElement(ctx, shared.CreateElementRequest{
		PageID:       pageID,
		ClientID:     "text",
		ResourceType: "text",
	})
	if err != nil {
		t.Fatalf("check create: %v", err)
	}
	if result.Created == nil {
		t.Fatalf("expected created element, got %#v", result)
	}
	if !result.Created.ClientID.IsStructureID() {
		t.Fatalf("expected structure id, got %q", result.Created.ClientID)
	}

	record, err := b.Element(ctx, result.Created.ClientID)
	if err != nil {
		t.Fatalf("load created: %v", err)
	}
	if record.ResourceType != "text" || record.SitePath != result.Created.SitePath {
		t.Fatalf("unexpected record %#v", record)
	}

	again, err := b.CreateNewElement(ctx, shared.CreateElementRequest{PageID: pageID, ClientID: "text", ResourceType: "text"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if again.ClientID == result.Created.ClientID {
		t.Fatal("expected distinct ids for consecutive creations")
	}
}

func TestCheckCreateNewElementOffersModels(t *testing.T) {
	b := newTestBackend(t, backend.NewMemoryRepositories())
	seed(t, b)

	result, err := b.CheckCreateNewElement(context.Background(), shared.CreateElementRequest{
		PageID:       pageID,
		ClientID:     "teaser",
		ResourceType: "teaser",
	})
	if err != nil {
		t.Fatalf("check create: %v", err)
	}
	if result.Created != nil || len(result.ModelResources) != 2 {
		t.Fatalf("expected a model choice, got %#v", result)
	}
}

func TestCheckCreateNewElementUsesSingleModel(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t, backend.NewMemoryRepositories())
	seed(t, b)

	result, err := b.CheckCreateNewElement(ctx, shared.CreateElementRequest{
		PageID:       pageID,
		ClientID:     "banner",
		ResourceType: "banner",
	})
	if err != nil {
		t.Fatalf("check create: %v", err)
	}
	record, err := b.Element(ctx, result.Created.ClientID)
	if err != nil {
		t.Fatalf("load created: %v", err)
	}
	if record.Title != "Wide teaser" || record.Contents["content"] != `<div class="teaser wide">Wide</div>` {
		t.Fatalf("expected model contents to be copied, got %#v", record)
	}
}

func TestCreateNewElementUnknownType(t *testing.T) {
	b := newTestBackend(t, backend.NewMemoryRepositories())

	_, err := b.CreateNewElement(context.Background(), shared.CreateElementRequest{PageID: pageID, ResourceType: "missing"})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
	if !backend.IsNotFound(err) {
		t.Fatalf("expected IsNotFound, got %v", err)
	}
}

func TestCopyElementKeepsSettingsHash(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t, backend.NewMemoryRepositories())
	seed(t, b)

	copied, err := b.CopyElement(ctx, shared.CopyElementRequest{PageID: pageID, ClientID: textID + "#s9"})
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied.ServerID() == textID || copied.SettingsHash() != "s9" {
		t.Fatalf("unexpected copy id %q", copied)
	}
	record, err := b.Element(ctx, copied)
	if err != nil {
		t.Fatalf("load copy: %v", err)
	}
	if record.Title != "Welcome" {
		t.Fatalf("expected copied title, got %q", record.Title)
	}
}

func TestSaveContainerpageValidatesAndStores(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(5000)
	b := newTestBackend(t, backend.NewMemoryRepositories(), backend.WithClock(func() time.Time { return now }))

	_, err := b.SaveContainerpage(ctx, shared.SavePageRequest{
		PageID: pageID,
		Containers: []shared.Container{
			{Name: "main"},
			{Name: "main"},
		},
	})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for duplicate containers, got %v", err)
	}

	stamp, err := b.SaveContainerpage(ctx, shared.SavePageRequest{
		PageID: pageID,
		Locale: "en",
		Containers: []shared.Container{
			{Name: "main", Elements: []shared.ContainerElement{{ClientID: textID}}},
			{Name: "aside"},
		},
	})
	if err != nil {
		t.Fatalf("save page: %v", err)
	}
	if stamp != 5000 {
		t.Fatalf("expected save to return the new stamp, got %d", stamp)
	}

	page, err := b.Page(ctx, pageID)
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	if len(page.Containers) != 2 || page.Containers[0].Elements[0].ClientID != textID {
		t.Fatalf("unexpected stored containers %#v", page.Containers)
	}
	if page.LastModified != 5000 || page.Locale != "en" {
		t.Fatalf("unexpected page stamp %#v", page)
	}
}

func TestLockAndCheckModification(t *testing.T) {
	ctx := context.Background()
	repos := backend.NewMemoryRepositories()
	now := time.UnixMilli(1000)
	alice := newTestBackend(t, repos, backend.WithUser("alice"), backend.WithClock(func() time.Time { return now }))
	bob := newTestBackend(t, repos, backend.WithUser("bob"))

	info, err := alice.LockAndCheckModification(ctx, pageID, 0)
	if err != nil || !info.Success() {
		t.Fatalf("expected alice to lock, got %#v %v", info, err)
	}

	info, err = bob.LockAndCheckModification(ctx, pageID, 0)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if info.State != shared.LockLockedByOther || info.Owner != "alice" {
		t.Fatalf("expected locked by alice, got %#v", info)
	}

	if _, err := alice.SaveContainerpage(ctx, shared.SavePageRequest{PageID: pageID, Containers: []shared.Container{{Name: "main"}}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := alice.Unlock(ctx, pageID); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	info, err = bob.LockAndCheckModification(ctx, pageID, 999)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if info.State != shared.LockChangedSinceOpened {
		t.Fatalf("expected changed since opened, got %#v", info)
	}

	info, err = bob.LockAndCheckModification(ctx, pageID, 1000)
	if err != nil || !info.Success() {
		t.Fatalf("expected bob to lock the current version, got %#v %v", info, err)
	}
}

func TestUnlockIgnoresForeignLock(t *testing.T) {
	ctx := context.Background()
	repos := backend.NewMemoryRepositories()
	alice := newTestBackend(t, repos, backend.WithUser("alice"))
	bob := newTestBackend(t, repos, backend.WithUser("bob"))

	if _, err := alice.LockAndCheckModification(ctx, pageID, 0); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := bob.Unlock(ctx, pageID); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	page, err := alice.Page(ctx, pageID)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.LockOwner != "alice" {
		t.Fatalf("expected lock to stay with alice, got %q", page.LockOwner)
	}
}

func TestSaveGroupContainer(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t, backend.NewMemoryRepositories())
	seed(t, b)

	data, err := b.SaveGroupContainer(ctx, shared.SaveGroupContainerRequest{
		PageID: pageID,
		GroupContainer: shared.GroupContainer{
			ClientID: groupID,
			Title:    "Renamed",
			Elements: []shared.ContainerElement{{ClientID: modelA}, {ClientID: textID}},
		},
		Containers: testContainers(),
	})
	if err != nil {
		t.Fatalf("save group: %v", err)
	}
	group := data[groupID]
	if group == nil || len(group.SubItems) != 2 || group.SubItems[0] != modelA {
		t.Fatalf("unexpected group data %#v", group)
	}
	if group.Title != "Renamed" {
		t.Fatalf("expected renamed group, got %q", group.Title)
	}
	if data[modelA] == nil || data[textID] == nil {
		t.Fatal("expected sub item data in the result")
	}

	_, err = b.SaveGroupContainer(ctx, shared.SaveGroupContainerRequest{
		PageID:         pageID,
		GroupContainer: shared.GroupContainer{ClientID: textID},
	})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for a plain element, got %v", err)
	}
}

func TestFavoriteAndRecentLists(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t, backend.NewMemoryRepositories(), backend.WithMaxRecent(2))
	seed(t, b)

	if err := b.SaveFavoriteList(ctx, []shared.ClientID{textID, groupID, textID}); err != nil {
		t.Fatalf("save favorites: %v", err)
	}
	if err := b.AddToFavoriteList(ctx, modelA); err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	favorites, err := b.GetFavoriteList(ctx, shared.ListRequest{PageID: pageID, Containers: testContainers()})
	if err != nil {
		t.Fatalf("favorites: %v", err)
	}
	if got := ids(favorites); len(got) != 3 || got[0] != modelA || got[1] != textID || got[2] != groupID {
		t.Fatalf("unexpected favorites %v", got)
	}

	for _, id := range []shared.ClientID{textID, groupID, textID, modelA} {
		if err := b.AddToRecentList(ctx, id); err != nil {
			t.Fatalf("add recent: %v", err)
		}
	}
	recent, err := b.GetRecentList(ctx, shared.ListRequest{PageID: pageID, Containers: testContainers()})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if got := ids(recent); len(got) != 2 || got[0] != modelA || got[1] != textID {
		t.Fatalf("unexpected recent list %v", got)
	}
}

func TestListsAreScopedPerUser(t *testing.T) {
	ctx := context.Background()
	repos := backend.NewMemoryRepositories()
	alice := newTestBackend(t, repos, backend.WithUser("alice"))
	bob := newTestBackend(t, repos, backend.WithUser("bob"))
	seed(t, alice)

	if err := alice.AddToFavoriteList(ctx, textID); err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	favorites, err := bob.GetFavoriteList(ctx, shared.ListRequest{Containers: testContainers()})
	if err != nil {
		t.Fatalf("favorites: %v", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("expected empty list for bob, got %v", ids(favorites))
	}
}

func TestPublishLockedElements(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t, backend.NewMemoryRepositories())
	seed(t, b)

	if err := b.SetPublishLocked(ctx, textID, true); err != nil {
		t.Fatalf("lock: %v", err)
	}
	locked, err := b.GetElementsLockedForPublishing(ctx, []shared.ClientID{groupID, textID + "#s1", "text"})
	if err != nil {
		t.Fatalf("locked: %v", err)
	}
	if len(locked) != 1 || locked[0] != textID+"#s1" {
		t.Fatalf("unexpected locked ids %v", locked)
	}

	if err := b.SetPublishLocked(ctx, textID, false); err != nil {
		t.Fatalf("release: %v", err)
	}
	locked, err = b.GetElementsLockedForPublishing(ctx, []shared.ClientID{textID + "#s1"})
	if err != nil {
		t.Fatalf("locked: %v", err)
	}
	if len(locked) != 0 {
		t.Fatalf("expected no locked ids, got %v", locked)
	}
}

func TestSaveImageValue(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t, backend.NewMemoryRepositories())
	seed(t, b)

	err := b.SaveImageValue(ctx, shared.SaveValueRequest{ContentID: textID, ContentPath: "Image[1]", Locale: "en", Value: "/img/a.png"})
	if err != nil {
		t.Fatalf("save value: %v", err)
	}
	record, err := b.Element(ctx, textID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if record.FieldValues["en:Image[1]"] != "/img/a.png" {
		t.Fatalf("unexpected values %#v", record.FieldValues)
	}

	err = b.SaveImageValue(ctx, shared.SaveValueRequest{ContentID: "not-a-uuid", ContentPath: "Image[1]"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestContextMenuAndToolbar(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t, backend.NewMemoryRepositories())
	seed(t, b)

	entries, err := b.ContextMenuEntries(ctx, textID)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) == 0 || entries[0].ID != "edit" || !entries[0].Active {
		t.Fatalf("unexpected entries %#v", entries)
	}

	if err := b.SetToolbarVisible(ctx, false); err != nil {
		t.Fatalf("toolbar: %v", err)
	}
	if b.ToolbarVisible() {
		t.Fatal("expected toolbar to be hidden")
	}
}

func ids(list []*shared.ElementData) []shared.ClientID {
	out := make([]shared.ClientID, 0, len(list))
	for _, data := range list {
		out = append(out, data.ClientID)
	}
	return out
}
