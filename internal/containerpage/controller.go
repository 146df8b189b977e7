// Package containerpage holds the authoritative client-side model of the
// page being edited: container definitions, the element cache, lock and
// change state, and the operations that move data between the page and the
// container-page service.
package containerpage

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/eventloop"
	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/pageadapter"
	"github.com/goliatone/go-cms-editor/internal/pagedata"
	"github.com/goliatone/go-cms-editor/internal/panels"
	"github.com/goliatone/go-cms-editor/internal/publishlock"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
	"golang.org/x/net/html"
)

var (
	ErrNotInitialized    = errors.New("containerpage: controller not initialized")
	ErrNotLocked         = errors.New("containerpage: page is not locked")
	ErrGroupEditActive   = errors.New("containerpage: another group container is being edited")
	ErrNotGroupContainer = errors.New("containerpage: element is not a group container")
	ErrNoGroupEdit       = errors.New("containerpage: no group container is being edited")
	ErrElementNotNew     = errors.New("containerpage: element is not new")
	ErrElementNotOnPage  = errors.New("containerpage: element is not on the page")
	ErrCreateNotAllowed  = errors.New("containerpage: element creation returned nothing")
	ErrGroupEditDisabled = errors.New("containerpage: group container editing is disabled")
)

const defaultMaxRecent = 10

// Controller is the session-scoped page model. All methods must be called on
// the loop; callbacks are always delivered through the loop.
type Controller struct {
	loop    *eventloop.Loop
	service interfaces.ContainerpageService
	core    interfaces.CoreService
	adapter *pageadapter.Adapter
	checker *publishlock.Checker

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger
	adapterLogger  interfaces.Logger
	notifier       interfaces.Notifier
	toolbar        interfaces.Toolbar

	ctx                 context.Context
	timeout             time.Duration
	maxRecent           int
	publishLockInterval time.Duration
	groupEditDisabled   bool
	recentDisabled      bool

	page       *pagedata.PageData
	root       *html.Node
	original   *html.Node
	containers map[string]*panels.ContainerPanel
	elements   map[shared.ClientID]*shared.ElementData

	pageChanged  bool
	saveEnabled  bool
	lockStatus   shared.LockStatus
	locking      bool
	lockWaiters  []func(bool)
	editingGroup *groupEdit

	favorites []shared.ClientID
	recent    []shared.ClientID
}

// New constructs a controller bound to loop and the two services.
func New(loop *eventloop.Loop, service interfaces.ContainerpageService, core interfaces.CoreService, opts ...Option) *Controller {
	c := &Controller{
		loop:                loop,
		service:             service,
		core:                core,
		notifier:            noopNotifier{},
		toolbar:             noopToolbar{},
		ctx:                 context.Background(),
		maxRecent:           defaultMaxRecent,
		publishLockInterval: publishlock.DefaultInterval,
		containers:          map[string]*panels.ContainerPanel{},
		elements:            map[shared.ClientID]*shared.ElementData{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.logger = logging.ControllerLogger(c.loggerProvider)
	c.adapterLogger = logging.AdapterLogger(c.loggerProvider)
	c.adapter = pageadapter.New(c)
	c.checker = publishlock.New(loop, service, c.ReloadElements,
		publishlock.WithInterval(c.publishLockInterval),
		publishlock.WithLogger(logging.PublishLockLogger(c.loggerProvider)),
		publishlock.WithContext(c.ctx),
	)
	return c
}

// Init adapts the rendered page below root using the container definitions of
// page. Markup problems are repaired and logged.
func (c *Controller) Init(root *html.Node, page *pagedata.PageData) []pageadapter.MarkupIssue {
	c.page = page
	c.root = root
	c.original = dom.Clone(root)
	return c.adapt()
}

func (c *Controller) adapt() []pageadapter.MarkupIssue {
	containers, issues := c.adapter.ConsumeContainers(c.root, c.page.Containers)
	for _, issue := range issues {
		logging.WithElementContext(c.adapterLogger, issue.ClientID.String(), issue.Container).
			Debug("adapter.markup.repaired", "kind", string(issue.Kind))
	}
	c.containers = containers
	return issues
}

// Loop returns the loop the controller runs on.
func (c *Controller) Loop() *eventloop.Loop { return c.loop }

// Adapter returns the DOM adapter bound to the element cache.
func (c *Controller) Adapter() *pageadapter.Adapter { return c.adapter }

// PublishLockChecker returns the poller fed by AddElements.
func (c *Controller) PublishLockChecker() *publishlock.Checker { return c.checker }

// LoggerProvider returns the provider the controller was built with.
func (c *Controller) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Root returns the document node the page was adapted from.
func (c *Controller) Root() *html.Node { return c.root }

// Page returns the page description.
func (c *Controller) Page() *pagedata.PageData { return c.page }

// Container returns the named container panel.
func (c *Controller) Container(name string) *panels.ContainerPanel {
	return c.containers[name]
}

// Containers returns the top-level container panels in definition order.
func (c *Controller) Containers() []*panels.ContainerPanel {
	if c.page == nil {
		return nil
	}
	out := make([]*panels.ContainerPanel, 0, len(c.containers))
	for _, def := range c.page.Containers {
		if container, ok := c.containers[def.Name]; ok {
			out = append(out, container)
		}
	}
	return out
}

// ContainerDefinitions returns the definitions sent along element requests.
func (c *Controller) ContainerDefinitions() []shared.ContainerDefinition {
	if c.page == nil {
		return nil
	}
	return c.page.Containers
}

// IsPageChanged reports whether there are unsaved edits.
func (c *Controller) IsPageChanged() bool { return c.pageChanged }

// SaveEnabled reports whether save and reset actions are enabled.
func (c *Controller) SaveEnabled() bool { return c.saveEnabled }

// LockStatus returns the session lock state.
func (c *Controller) LockStatus() shared.LockStatus { return c.lockStatus }

// IsContainerpageEditable reports whether container-page edits are allowed.
func (c *Controller) IsContainerpageEditable() bool {
	if c.page == nil || c.page.NoEditReason != "" {
		return false
	}
	return c.lockStatus != shared.LockStatusFailed
}

// FindElementPanel returns the element panel whose node is n or contains n.
func (c *Controller) FindElementPanel(n *html.Node) *panels.ElementPanel {
	var found *panels.ElementPanel
	c.walkPanels(func(p *panels.ElementPanel) bool {
		if dom.IsAncestor(p.Node(), n) {
			found = p
			if !p.IsGroupContainer() {
				return false
			}
		}
		return true
	})
	return found
}

// ElementPanels returns every element panel on the page, group sub-elements
// after their group.
func (c *Controller) ElementPanels() []*panels.ElementPanel {
	var out []*panels.ElementPanel
	c.walkPanels(func(p *panels.ElementPanel) bool {
		out = append(out, p)
		return true
	})
	return out
}

func (c *Controller) walkPanels(visit func(*panels.ElementPanel) bool) {
	var walk func(*panels.ContainerPanel) bool
	walk = func(container *panels.ContainerPanel) bool {
		for _, p := range container.Elements() {
			if !visit(p) {
				return false
			}
			if group := p.Group(); group != nil {
				if !walk(group) {
					return false
				}
			}
		}
		return true
	}
	for _, container := range c.Containers() {
		if !walk(container) {
			return
		}
	}
}

func (c *Controller) locale() string {
	if c.page == nil {
		return ""
	}
	return c.page.Locale
}

func (c *Controller) pageID() string {
	if c.page == nil {
		return ""
	}
	return c.page.PageID
}

func (c *Controller) notify(kind interfaces.NotificationKind, code, message string) {
	c.notifier.Notify(kind, code, message)
}

// call runs work off the loop with the controller context and timeout and
// delivers the result to done on the loop.
func call[T any](c *Controller, work func(context.Context) (T, error), done func(T, error)) {
	eventloop.Call(c.loop, c.ctx, func(ctx context.Context) (T, error) {
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		return work(ctx)
	}, done)
}
