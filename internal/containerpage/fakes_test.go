package containerpage

import (
	"context"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/eventloop"
	"github.com/goliatone/go-cms-editor/internal/pagedata"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
	"golang.org/x/net/html"
)

const (
	idA = "11111111-1111-1111-1111-111111111111"
	idB = "22222222-2222-2222-2222-222222222222"
	idG = "33333333-3333-3333-3333-333333333333"
)

type fakeService struct {
	mu sync.Mutex

	elements map[shared.ClientID]*shared.ElementData
	fetchErr error
	fetches  [][]shared.ClientID

	newElements map[string]*shared.ElementData
	copies      map[shared.ClientID]shared.ClientID

	check      *shared.CreateElementData
	created    *shared.ContainerElement
	createReqs []shared.CreateElementRequest

	savedPages  []shared.SavePageRequest
	savedStamp  int64
	savedGroups []shared.SaveGroupContainerRequest
	favorites   []shared.ClientID
	recentAdds  []shared.ClientID
	locked      []shared.ClientID
}

func newFakeService() *fakeService {
	return &fakeService{
		elements:    map[shared.ClientID]*shared.ElementData{},
		newElements: map[string]*shared.ElementData{},
		copies:      map[shared.ClientID]shared.ClientID{},
	}
}

func (f *fakeService) put(data *shared.ElementData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.elements[data.ClientID] = data
}

func (f *fakeService) fetchCalls() [][]shared.ClientID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.fetches)
}

func (f *fakeService) GetElementsData(_ context.Context, req shared.ElementsRequest) (map[shared.ClientID]*shared.ElementData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, slices.Clone(req.ClientIDs))
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := map[shared.ClientID]*shared.ElementData{}
	for _, id := range req.ClientIDs {
		if data, ok := f.elements[id]; ok {
			out[id] = data.Clone()
			for _, sub := range data.SubItems {
				if subData, ok := f.elements[sub]; ok {
					out[sub] = subData.Clone()
				}
			}
		}
	}
	return out, nil
}

func (f *fakeService) GetNewElementData(_ context.Context, req shared.NewElementRequest) (*shared.ElementData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.newElements[req.ResourceType].Clone(), nil
}

func (f *fakeService) CopyElement(_ context.Context, req shared.CopyElementRequest) (shared.ClientID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copies[req.ClientID], nil
}

func (f *fakeService) CheckCreateNewElement(_ context.Context, req shared.CreateElementRequest) (*shared.CreateElementData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createReqs = append(f.createReqs, req)
	return f.check, nil
}

func (f *fakeService) CreateNewElement(_ context.Context, req shared.CreateElementRequest) (*shared.ContainerElement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createReqs = append(f.createReqs, req)
	return f.created, nil
}

func (f *fakeService) SaveContainerpage(_ context.Context, req shared.SavePageRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedPages = append(f.savedPages, req)
	return f.savedStamp, nil
}

func (f *fakeService) SaveGroupContainer(_ context.Context, req shared.SaveGroupContainerRequest) (map[shared.ClientID]*shared.ElementData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedGroups = append(f.savedGroups, req)
	group := f.elements[req.GroupContainer.ClientID].Clone()
	group.SubItems = nil
	for _, element := range req.GroupContainer.Elements {
		group.SubItems = append(group.SubItems, element.ClientID)
	}
	f.elements[group.ClientID] = group
	return map[shared.ClientID]*shared.ElementData{group.ClientID: group.Clone()}, nil
}

func (f *fakeService) GetFavoriteList(context.Context, shared.ListRequest) ([]*shared.ElementData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*shared.ElementData
	for _, id := range f.favorites {
		if data, ok := f.elements[id]; ok {
			out = append(out, data.Clone())
		}
	}
	return out, nil
}

func (f *fakeService) GetRecentList(context.Context, shared.ListRequest) ([]*shared.ElementData, error) {
	return nil, nil
}

func (f *fakeService) SaveFavoriteList(_ context.Context, ids []shared.ClientID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites = slices.Clone(ids)
	return nil
}

func (f *fakeService) AddToFavoriteList(_ context.Context, id shared.ClientID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites = append([]shared.ClientID{id}, f.favorites...)
	return nil
}

func (f *fakeService) AddToRecentList(_ context.Context, id shared.ClientID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recentAdds = append(f.recentAdds, id)
	return nil
}

func (f *fakeService) GetElementsLockedForPublishing(_ context.Context, ids []shared.ClientID) ([]shared.ClientID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []shared.ClientID
	for _, id := range ids {
		if slices.Contains(f.locked, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeService) SaveImageValue(context.Context, shared.SaveValueRequest) error {
	return nil
}

type fakeCore struct {
	mu        sync.Mutex
	info      shared.LockInfo
	lockErr   error
	lockCalls int
	lockStamp []int64
	unlocks   int
	toolbar   []bool
}

func (f *fakeCore) LockAndCheckModification(_ context.Context, _ string, lastModified int64) (shared.LockInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lockCalls++
	f.lockStamp = append(f.lockStamp, lastModified)
	return f.info, f.lockErr
}

func (f *fakeCore) Unlock(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unlocks++
	return nil
}

func (f *fakeCore) ContextMenuEntries(_ context.Context, structureID string) ([]shared.ContextMenuEntry, error) {
	return []shared.ContextMenuEntry{{ID: "edit:" + structureID, Label: "Edit", Active: true, Visible: true}}, nil
}

func (f *fakeCore) SetToolbarVisible(_ context.Context, visible bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toolbar = append(f.toolbar, visible)
	return nil
}

type recordingNotifier struct {
	codes []string
}

func (r *recordingNotifier) Notify(_ interfaces.NotificationKind, code, _ string) {
	r.codes = append(r.codes, code)
}

type recordingToolbar struct {
	states []bool
}

func (r *recordingToolbar) SetSaveEnabled(enabled bool) {
	r.states = append(r.states, enabled)
}

type fixture struct {
	loop       *eventloop.Loop
	service    *fakeService
	core       *fakeCore
	notifier   *recordingNotifier
	toolbar    *recordingToolbar
	controller *Controller
	doc        *html.Node
}

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	out, err := dom.Render(n)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func marker(id string) string {
	return `<div class="cms_ade_element_start_marker" clientId="` + id + `" alt="/sites/` + id + `" rel="" newType="" hasprops="false" hasviewpermission="true" releasedandnotexpired="true"></div>`
}

const endMarker = `<div class="cms_ade_element_end_marker"></div>`

func element(id, body string) *shared.ElementData {
	return &shared.ElementData{
		ClientID:              shared.ClientID(id),
		ResourceType:          "article",
		Contents:              map[string]string{"main": `<div class="main">` + body + `</div>`, "aside": `<div class="aside">` + body + `</div>`},
		HasViewPermission:     true,
		HasWritePermission:    true,
		ReleasedAndNotExpired: true,
	}
}

func newFixture(t *testing.T, mainInner string) *fixture {
	t.Helper()
	doc, err := dom.ParseDocument(`<html><body><div id="main">` + mainInner + `</div><div id="aside"></div></body></html>`)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	page := &pagedata.PageData{
		PageID:       "44444444-4444-4444-4444-444444444444",
		Locale:       "en",
		LastModified: 100,
		Containers: []shared.ContainerDefinition{
			{Name: "main", Type: "center", MaxElements: 5},
			{Name: "aside", Type: "side", MaxElements: 1},
		},
	}
	f := &fixture{
		loop:     eventloop.New(),
		service:  newFakeService(),
		core:     &fakeCore{info: shared.LockInfo{State: shared.LockSuccess}},
		notifier: &recordingNotifier{},
		toolbar:  &recordingToolbar{},
		doc:      doc,
	}
	f.controller = New(f.loop, f.service, f.core,
		WithNotifier(f.notifier),
		WithToolbar(f.toolbar),
		WithMaxRecent(2),
		WithPublishLockInterval(time.Millisecond),
	)
	if issues := f.controller.Init(doc, page); len(issues) != 0 {
		t.Fatalf("unexpected markup issues %v", issues)
	}
	return f
}

func (f *fixture) run(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := f.loop.RunUntilIdle(ctx); err != nil {
		t.Fatalf("loop did not settle: %v", err)
	}
}

func (f *fixture) cache(data ...*shared.ElementData) {
	merged := map[shared.ClientID]*shared.ElementData{}
	for _, d := range data {
		merged[d.ClientID] = d
	}
	f.controller.AddElements(maps.Clone(merged))
}
