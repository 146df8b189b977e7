package containerpage

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/panels"
	"github.com/goliatone/go-cms-editor/internal/shared"
)

func TestGetElementsCacheHitIsDeferred(t *testing.T) {
	f := newFixture(t, "")
	f.cache(element(idA, "A"))

	called := false
	f.controller.GetElements([]shared.ClientID{idA}, func(found map[shared.ClientID]*shared.ElementData) {
		called = true
		if found[idA] == nil {
			t.Fatalf("expected cached element, got %v", found)
		}
	})
	if called {
		t.Fatal("callback must not run before the loop")
	}
	f.run(t)
	if !called {
		t.Fatal("expected callback after the loop ran")
	}
	if len(f.service.fetchCalls()) != 0 {
		t.Fatal("cache hit must not fetch")
	}
}

func TestGetElementsFetchesOnlyMissingIDs(t *testing.T) {
	f := newFixture(t, "")
	f.cache(element(idA, "A"))
	f.service.put(element(idB, "B"))

	var found map[shared.ClientID]*shared.ElementData
	f.controller.GetElements([]shared.ClientID{idA, idB}, func(m map[shared.ClientID]*shared.ElementData) {
		found = m
	})
	f.run(t)

	calls := f.service.fetchCalls()
	if len(calls) != 1 || !slices.Equal(calls[0], []shared.ClientID{idB}) {
		t.Fatalf("expected a single fetch for the missing id, got %v", calls)
	}
	if len(found) != 2 {
		t.Fatalf("expected both elements, got %v", found)
	}
	if f.controller.CachedElement(idB) == nil {
		t.Fatal("expected fetched element to be cached")
	}
}

func TestCacheMergeIsIdempotent(t *testing.T) {
	f := newFixture(t, "")
	f.service.put(element(idB, "B"))

	f.controller.GetElement(idB, nil)
	f.controller.GetElement(idB, nil)
	f.run(t)

	if calls := f.service.fetchCalls(); len(calls) != 2 {
		t.Fatalf("expected overlapping requests not to be coalesced, got %v", calls)
	}
	cached := f.controller.CachedElement(idB)
	want := element(idB, "B")
	if cached.ClientID != want.ClientID || cached.Contents["main"] != want.Contents["main"] {
		t.Fatalf("unexpected cached entry %+v", cached)
	}
	if len(f.controller.elements) != 1 {
		t.Fatalf("expected a single cache entry, got %d", len(f.controller.elements))
	}
}

func TestGroupContainerCompleteness(t *testing.T) {
	f := newFixture(t, "")
	group := element(idG, "G")
	group.GroupContainer = true
	group.SubItems = []shared.ClientID{idA, idB}

	f.cache(group, element(idA, "A"))
	if f.controller.IsFullyCached(idG) {
		t.Fatal("group with a missing sub item must not be fully cached")
	}

	f.service.put(group)
	f.service.put(element(idA, "A"))
	f.service.put(element(idB, "B"))
	f.controller.GetElement(idG, nil)
	f.run(t)

	if calls := f.service.fetchCalls(); len(calls) != 1 || calls[0][0] != idG {
		t.Fatalf("expected a fetch for the group, got %v", calls)
	}
	if !f.controller.IsFullyCached(idG) {
		t.Fatal("expected group to be fully cached after fetch")
	}

	for _, subset := range [][]shared.ClientID{{}, {idA}, {idB}} {
		f.controller.elements = map[shared.ClientID]*shared.ElementData{idG: group}
		for _, id := range subset {
			f.controller.elements[id] = element(string(id), "x")
		}
		if f.controller.IsFullyCached(idG) {
			t.Fatalf("subset %v must not be fully cached", subset)
		}
	}
}

func TestGetElementsFailureIsLoggedOnly(t *testing.T) {
	f := newFixture(t, "")
	f.service.fetchErr = errors.New("unavailable")

	called := false
	f.controller.GetElement(idA, func(*shared.ElementData) { called = true })
	f.run(t)

	if called {
		t.Fatal("callback must not run on fetch failure")
	}
	if f.controller.CachedElement(idA) != nil {
		t.Fatal("nothing should be cached")
	}
}

func TestSetPageChangedLocksLazily(t *testing.T) {
	f := newFixture(t, "")
	if f.core.lockCalls != 0 {
		t.Fatal("page must not be locked on load")
	}

	f.controller.SetPageChanged(true, false)
	f.controller.SetPageChanged(true, false)
	f.run(t)

	if f.core.lockCalls != 1 {
		t.Fatalf("expected a single lock attempt, got %d", f.core.lockCalls)
	}
	if !f.controller.IsPageChanged() || !f.controller.SaveEnabled() {
		t.Fatal("expected changed page with save enabled")
	}
	if f.controller.LockStatus() != shared.LockStatusLocked {
		t.Fatalf("unexpected lock status %s", f.controller.LockStatus())
	}
	if !slices.Equal(f.toolbar.states, []bool{true}) {
		t.Fatalf("unexpected toolbar states %v", f.toolbar.states)
	}

	f.controller.SetPageChanged(false, true)
	f.run(t)
	if f.controller.IsPageChanged() || f.controller.SaveEnabled() || f.core.unlocks != 1 {
		t.Fatalf("expected reset and unlock, unlocks=%d", f.core.unlocks)
	}
}

func TestLockFailureIsStickyAndKeepsActionsDisabled(t *testing.T) {
	cases := map[shared.LockState]string{
		shared.LockLockedByOther:      CodeLockedByOther,
		shared.LockChangedSinceOpened: CodeChangedOnServer,
		shared.LockError:              CodeLockError,
	}
	for state, code := range cases {
		t.Run(state.String(), func(t *testing.T) {
			f := newFixture(t, "")
			f.core.info = shared.LockInfo{State: state, Owner: "editor2"}

			f.controller.SetPageChanged(true, false)
			f.run(t)

			if !f.controller.IsPageChanged() {
				t.Fatal("changed flag must stay readable after a failed lock")
			}
			if f.controller.SaveEnabled() {
				t.Fatal("save must stay disabled after a failed lock")
			}
			if f.controller.LockStatus() != shared.LockStatusFailed || f.controller.IsContainerpageEditable() {
				t.Fatal("expected failed, non-editable page")
			}
			if !slices.Equal(f.notifier.codes, []string{code}) {
				t.Fatalf("unexpected notifications %v", f.notifier.codes)
			}

			var result *bool
			f.controller.LockContainerpage(func(locked bool) { result = &locked })
			f.run(t)
			if result == nil || *result || f.core.lockCalls != 1 {
				t.Fatalf("expected sticky failure without a new attempt, calls=%d", f.core.lockCalls)
			}
		})
	}
}

func TestSaveContainerpage(t *testing.T) {
	f := newFixture(t, marker(idA)+`<div>A</div>`+endMarker)

	var saveErr error
	f.controller.SaveContainerpage(func(err error) { saveErr = err })
	f.run(t)
	if !errors.Is(saveErr, ErrNotLocked) {
		t.Fatalf("expected ErrNotLocked, got %v", saveErr)
	}

	f.controller.SetPageChanged(true, false)
	f.run(t)
	f.controller.SaveContainerpage(func(err error) { saveErr = err })
	f.run(t)

	if saveErr != nil {
		t.Fatalf("unexpected error: %v", saveErr)
	}
	if len(f.service.savedPages) != 1 {
		t.Fatalf("expected one save, got %d", len(f.service.savedPages))
	}
	saved := f.service.savedPages[0]
	if len(saved.Containers) != 2 || saved.Containers[0].Elements[0].ClientID != idA {
		t.Fatalf("unexpected save request %+v", saved)
	}
	if f.controller.IsPageChanged() || f.core.unlocks != 1 {
		t.Fatal("expected save to clear the changed flag and unlock")
	}
}

func TestEditAfterSaveLocksWithSavedStamp(t *testing.T) {
	f := newFixture(t, marker(idA)+`<div>A</div>`+endMarker)
	f.service.savedStamp = 250

	f.controller.SetPageChanged(true, false)
	f.run(t)
	var saveErr error
	f.controller.SaveContainerpage(func(err error) { saveErr = err })
	f.run(t)
	if saveErr != nil {
		t.Fatalf("unexpected error: %v", saveErr)
	}
	if f.controller.Page().LastModified != 250 {
		t.Fatalf("expected saved stamp to be recorded, got %d", f.controller.Page().LastModified)
	}

	f.controller.SetPageChanged(true, false)
	f.run(t)
	if !f.controller.SaveEnabled() || f.controller.LockStatus() != shared.LockStatusLocked {
		t.Fatalf("expected the second edit to lock again, status %v", f.controller.LockStatus())
	}
	if len(f.core.lockStamp) != 2 || f.core.lockStamp[1] != 250 {
		t.Fatalf("expected second lock with the saved stamp, got %v", f.core.lockStamp)
	}
}

func TestReloadElementsIncludesSettingsVariants(t *testing.T) {
	variant := idA + "#v1"
	f := newFixture(t, marker(variant)+`<div>old</div>`+endMarker)
	f.cache(element(idA, "A"), element(idA+"#v2", "A2"), element(idB, "B"))
	f.service.put(element(idA, "A"))
	f.service.put(element(variant, "fresh"))
	f.service.put(element(idA+"#v2", "A2"))

	f.controller.ReloadElements([]shared.ClientID{idA})
	f.run(t)

	calls := f.service.fetchCalls()
	want := []shared.ClientID{idA, shared.ClientID(idA + "#v1"), shared.ClientID(idA + "#v2")}
	if len(calls) != 1 || !slices.Equal(calls[0], want) {
		t.Fatalf("unexpected reload request %v", calls)
	}
	panel := f.controller.Container("main").ElementAt(0)
	if !strings.Contains(render(t, panel.Node()), "fresh") {
		t.Fatalf("expected content swapped in place, got %s", render(t, panel.Node()))
	}
	if panel.OptionBar() == nil {
		t.Fatal("expected option bar to survive the swap")
	}
}

func TestReloadFailureKeepsDOM(t *testing.T) {
	f := newFixture(t, marker(idA)+`<div>old</div>`+endMarker)
	f.service.fetchErr = errors.New("boom")

	f.controller.ReloadElements([]shared.ClientID{idA})
	f.run(t)

	if !strings.Contains(render(t, f.controller.Container("main").Node()), "old") {
		t.Fatal("expected prior DOM to stay in place")
	}
}

func TestCreateNewElementReplacesPlaceholder(t *testing.T) {
	f := newFixture(t, "")
	placeholder := &shared.ElementData{
		ClientID:     "my-resource-type",
		ResourceType: "my-resource-type",
		New:          true,
		Contents:     map[string]string{"main": `<div>new</div>`},
	}
	f.cache(placeholder)
	f.service.check = &shared.CreateElementData{ModelResources: []shared.ModelResource{{StructureID: "model-1"}, {StructureID: "model-2"}}}
	f.service.created = &shared.ContainerElement{ClientID: idB}
	f.service.put(element(idB, "created"))

	main := f.controller.Container("main")
	panel, err := f.controller.Adapter().CreateElement(placeholder, main)
	if err != nil {
		t.Fatalf("create panel: %v", err)
	}
	main.Insert(panel, 0)

	var created *panels.ElementPanel
	f.controller.CreateNewElement(panel, func(p *panels.ElementPanel, err error) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		created = p
	})
	f.run(t)

	if created == nil || created.ClientID() != idB || created.IsNew() {
		t.Fatalf("expected placeholder id replaced, got %+v", created)
	}
	if len(f.service.createReqs) != 2 || f.service.createReqs[1].ModelResource != "model-1" {
		t.Fatalf("expected creation with the first model, got %+v", f.service.createReqs)
	}
	if !strings.Contains(render(t, main.Node()), "created") {
		t.Fatal("expected created content to replace the placeholder markup")
	}
	if !f.controller.IsPageChanged() {
		t.Fatal("expected page changed")
	}
}

func TestRemoveElementMarksChanged(t *testing.T) {
	f := newFixture(t, marker(idA)+`<div>A</div>`+endMarker)
	main := f.controller.Container("main")

	if err := f.controller.RemoveElement(main.ElementAt(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.run(t)
	if main.Len() != 0 || !dom.HasClass(main.Node(), panels.ClassEmpty) {
		t.Fatal("expected empty main container")
	}
	if !f.controller.IsPageChanged() {
		t.Fatal("expected page changed")
	}
}

func groupMarkup() string {
	return marker(idG) + `<div class="group"><div class="cms_ade_groupcontainer_marker"></div>` +
		marker(idA) + `<div>A</div>` + endMarker + marker(idB) + `<div>B</div>` + endMarker + `</div>` + endMarker
}

func TestGroupEditIsExclusiveAndCancelRestores(t *testing.T) {
	f := newFixture(t, groupMarkup()+marker("55555555-5555-5555-5555-555555555555")+`<div class="group"><div class="cms_ade_groupcontainer_marker"></div></div>`+endMarker)
	main := f.controller.Container("main")
	first, second := main.ElementAt(0), main.ElementAt(1)

	if err := f.controller.StartEditingGroupContainer(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.controller.StartEditingGroupContainer(second); !errors.Is(err, ErrGroupEditActive) {
		t.Fatalf("expected ErrGroupEditActive, got %v", err)
	}

	group := first.Group()
	if err := f.controller.RemoveElement(group.ElementAt(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.run(t)
	if f.controller.IsPageChanged() {
		t.Fatal("group edits must not mark the page changed")
	}

	if err := f.controller.CancelGroupContainer(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := group.ClientIDs(); !slices.Equal(ids, []shared.ClientID{idA, idB}) {
		t.Fatalf("expected sub items restored, got %v", ids)
	}
	if f.controller.EditingGroupContainer() != nil {
		t.Fatal("expected edit mode to end")
	}
	if err := f.controller.StartEditingGroupContainer(second); err != nil {
		t.Fatalf("expected second group editable after cancel: %v", err)
	}
}

func TestSaveGroupContainer(t *testing.T) {
	f := newFixture(t, groupMarkup())
	group := element(idG, "G")
	group.GroupContainer = true
	group.SubItems = []shared.ClientID{idA, idB}
	f.service.put(group)
	f.cache(group, element(idA, "A"), element(idB, "B"))

	panel := f.controller.Container("main").ElementAt(0)
	if err := f.controller.StartEditingGroupContainer(panel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.controller.RemoveElement(panel.Group().ElementAt(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var saveErr error = errors.New("not called")
	f.controller.SaveGroupContainer(func(err error) { saveErr = err })
	f.run(t)

	if saveErr != nil {
		t.Fatalf("unexpected error: %v", saveErr)
	}
	saved := f.service.savedGroups[0].GroupContainer
	if len(saved.Elements) != 1 || saved.Elements[0].ClientID != idA {
		t.Fatalf("unexpected group payload %+v", saved)
	}
	if got := f.controller.CachedElement(idG).SubItems; !slices.Equal(got, []shared.ClientID{idA}) {
		t.Fatalf("expected merged group data, got %v", got)
	}
	if ids := panel.Group().ClientIDs(); !slices.Equal(ids, []shared.ClientID{idA}) {
		t.Fatalf("expected rebuilt group panel, got %v", ids)
	}
	if f.controller.EditingGroupContainer() != nil || f.controller.IsPageChanged() {
		t.Fatal("expected edit mode closed without page change")
	}
}

func TestRecentListIsCappedAndDeduplicated(t *testing.T) {
	f := newFixture(t, "")
	third := shared.ClientID("66666666-6666-6666-6666-666666666666")

	f.controller.AddToRecentList(idA)
	f.controller.AddToRecentList(idB)
	f.controller.AddToRecentList(idA)
	f.controller.AddToRecentList(third)
	f.controller.AddToRecentList("my-resource-type")
	f.run(t)

	if got := f.controller.Recent(); !slices.Equal(got, []shared.ClientID{third, idA}) {
		t.Fatalf("unexpected recent list %v", got)
	}
	if len(f.service.recentAdds) != 4 {
		t.Fatalf("expected 4 persisted additions, got %v", f.service.recentAdds)
	}
}

func TestFavorites(t *testing.T) {
	f := newFixture(t, "")
	f.service.put(element(idA, "A"))
	f.service.put(element(idB, "B"))

	f.controller.SaveFavoriteList([]shared.ClientID{idB, idA}, nil)
	f.run(t)
	var loaded []*shared.ElementData
	f.controller.LoadFavorites(func(list []*shared.ElementData) { loaded = list })
	f.run(t)

	if len(loaded) != 2 || loaded[0].ClientID != idB {
		t.Fatalf("unexpected favorites %v", loaded)
	}
	if f.controller.CachedElement(idA) == nil {
		t.Fatal("expected favorites to be cached")
	}

	f.controller.AddToFavoriteList(idA, nil)
	f.run(t)
	if got := f.controller.Favorites(); !slices.Equal(got, []shared.ClientID{idA, idB}) {
		t.Fatalf("unexpected favorites order %v", got)
	}
}

func TestToolbarAndContextMenu(t *testing.T) {
	f := newFixture(t, "")

	f.controller.SetToolbarVisible(false)
	var entries []shared.ContextMenuEntry
	f.controller.ContextMenuEntries(idA, func(e []shared.ContextMenuEntry) { entries = e })
	f.run(t)

	if !slices.Equal(f.core.toolbar, []bool{false}) || f.controller.Page().ToolbarVisible {
		t.Fatalf("unexpected toolbar calls %v", f.core.toolbar)
	}
	if len(entries) != 1 || entries[0].ID != "edit:"+idA {
		t.Fatalf("unexpected entries %v", entries)
	}
}

func TestPublishLockedElementsAreReloaded(t *testing.T) {
	f := newFixture(t, marker(idA)+`<div>old</div>`+endMarker)
	locked := element(idA, "locked")
	locked.PublishLocked = true
	f.service.put(element(idA, "released"))

	f.controller.AddElements(map[shared.ClientID]*shared.ElementData{idA: locked})
	if pending := f.controller.PublishLockChecker().Pending(); len(pending) != 1 {
		t.Fatalf("expected publish-locked id pending, got %v", pending)
	}
	f.run(t)

	if !strings.Contains(render(t, f.controller.Container("main").Node()), "released") {
		t.Fatal("expected element reloaded after lock release")
	}
}

func TestResetChangesRestoresMarkup(t *testing.T) {
	f := newFixture(t, marker(idA)+`<div>A</div>`+endMarker)
	main := f.controller.Container("main")
	f.controller.Container("aside").Insert(main.ElementAt(0), 0)
	f.controller.SetPageChanged(true, false)
	f.run(t)

	f.controller.ResetChanges()
	f.run(t)

	main = f.controller.Container("main")
	if ids := main.ClientIDs(); !slices.Equal(ids, []shared.ClientID{idA}) {
		t.Fatalf("expected original layout, got %v", ids)
	}
	if f.controller.Container("aside").Len() != 0 || f.controller.IsPageChanged() {
		t.Fatal("expected aside empty and page unchanged")
	}
}

func TestFindElementPanel(t *testing.T) {
	f := newFixture(t, groupMarkup())
	group := f.controller.Container("main").ElementAt(0)
	sub := group.Group().ElementAt(1)

	if got := f.controller.FindElementPanel(sub.Node().LastChild); got != sub {
		t.Fatalf("expected innermost panel, got %v", got)
	}
	if got := f.controller.FindElementPanel(group.OptionBar()); got != group {
		t.Fatalf("expected group panel, got %v", got)
	}
	if len(f.controller.ElementPanels()) != 3 {
		t.Fatalf("expected 3 panels, got %d", len(f.controller.ElementPanels()))
	}
}

func TestDisabledFeatures(t *testing.T) {
	f := newFixture(t, groupMarkup())
	WithGroupContainers(false)(f.controller)
	WithRecentList(false)(f.controller)

	group := f.controller.Container("main").ElementAt(0)
	if err := f.controller.StartEditingGroupContainer(group); !errors.Is(err, ErrGroupEditDisabled) {
		t.Fatalf("expected ErrGroupEditDisabled, got %v", err)
	}

	f.controller.AddToRecentList(idA)
	f.run(t)
	if len(f.controller.Recent()) != 0 || len(f.service.recentAdds) != 0 {
		t.Fatal("expected recent list to stay untouched")
	}
}
