package editor

import (
	"context"
	"errors"

	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-editor/internal/containerpage"
	"github.com/goliatone/go-cms-editor/internal/dnd"
	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/eventloop"
	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/pagedata"
	"github.com/goliatone/go-cms-editor/internal/panels"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
)

var (
	ErrContainerPageDisabled = errors.New("editor: container page editing is disabled")
	ErrFavoritesDisabled     = errors.New("editor: favorites are disabled")
	ErrSessionClosed         = errors.New("editor: session is closed")
)

// DragHandler exports the gesture driver of a session.
type DragHandler = dnd.Handler

// ContainerPanel exports the model of one container on the page.
type ContainerPanel = panels.ContainerPanel

// ElementPanel exports the model of one element on the page.
type ElementPanel = panels.ElementPanel

// Point exports a pointer position in page coordinates.
type Point = dnd.Point

// List exports a sortable list of favorites or recent items.
type List = dnd.List

// ListItem exports a single entry of a List.
type ListItem = dnd.ListItem

// Measurer exports the element height source used while dragging.
type Measurer = dom.Measurer

type sessionOptions struct {
	ctx      context.Context
	notifier interfaces.Notifier
	toolbar  interfaces.Toolbar
	measurer dom.Measurer
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

// WithSessionContext sets the parent context of every RPC the session issues.
func WithSessionContext(ctx context.Context) SessionOption {
	return func(o *sessionOptions) {
		o.ctx = ctx
	}
}

// WithNotifier routes user-facing messages to notifier.
func WithNotifier(notifier interfaces.Notifier) SessionOption {
	return func(o *sessionOptions) {
		o.notifier = notifier
	}
}

// WithToolbar receives save-button state changes.
func WithToolbar(toolbar interfaces.Toolbar) SessionOption {
	return func(o *sessionOptions) {
		o.toolbar = toolbar
	}
}

// WithMeasurer supplies element heights to the drag controllers.
func WithMeasurer(measurer Measurer) SessionOption {
	return func(o *sessionOptions) {
		o.measurer = measurer
	}
}

// Session is one editing session over a parsed page document.
type Session struct {
	cfg       Config
	loop      *eventloop.Loop
	page      *containerpage.Controller
	composite *dnd.Composite
	handler   *dnd.Handler
	issues    []MarkupIssue
	closed    bool
}

// NewSession adapts the markup under root and starts the publish-lock poller.
func (m *Module) NewSession(root *html.Node, page *PageData, opts ...SessionOption) (*Session, error) {
	cfg := m.container.Config
	if !cfg.Features.ContainerPage {
		return nil, ErrContainerPageDisabled
	}
	if root == nil || page == nil {
		return nil, errors.New("editor: session requires a document and page data")
	}
	if page.Locale == "" {
		page.Locale = cfg.Locale
	}

	options := sessionOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	provider := m.container.LoggerProvider()
	service, core := m.Services()
	loop := eventloop.New()

	cpOpts := []containerpage.Option{
		containerpage.WithLoggerProvider(provider),
		containerpage.WithRPCTimeout(m.container.RPCTimeout()),
		containerpage.WithMaxRecent(cfg.Favorites.MaxRecent),
		containerpage.WithPublishLockInterval(cfg.PublishLock.Interval),
		containerpage.WithGroupContainers(cfg.Features.GroupContainers),
		containerpage.WithRecentList(cfg.Features.Recent),
	}
	if options.ctx != nil {
		cpOpts = append(cpOpts, containerpage.WithContext(options.ctx))
	}
	if options.notifier != nil {
		cpOpts = append(cpOpts, containerpage.WithNotifier(options.notifier))
	}
	if options.toolbar != nil {
		cpOpts = append(cpOpts, containerpage.WithToolbar(options.toolbar))
	}

	controller := containerpage.New(loop, service, core, cpOpts...)
	issues := controller.Init(root, page)

	var dndOpts []dnd.ContainerpageOption
	if options.measurer != nil {
		dndOpts = append(dndOpts, dnd.WithMeasurer(options.measurer))
	}
	composite := dnd.NewComposite(dnd.NewContainerpageController(controller, dndOpts...))
	if cfg.Features.ImageDnd {
		composite.Add(dnd.NewImageController(controller))
	}

	logger := logging.DNDLogger(provider)
	for _, issue := range issues {
		logger.Warn("markup.issue", "issue", issue.String())
	}

	return &Session{
		cfg:       cfg,
		loop:      loop,
		page:      controller,
		composite: composite,
		handler:   dnd.NewHandler(composite, logger),
		issues:    issues,
	}, nil
}

// OpenSession parses markup and the page-data blob, then calls NewSession.
func (m *Module) OpenSession(markup string, pageJSON []byte, opts ...SessionOption) (*Session, error) {
	page, err := pagedata.Parse(pageJSON)
	if err != nil {
		return nil, err
	}
	doc, err := dom.ParseDocument(markup)
	if err != nil {
		return nil, err
	}
	return m.NewSession(doc, page, opts...)
}

// Loop returns the event loop every session callback runs on.
func (s *Session) Loop() *eventloop.Loop { return s.loop }

// Page returns the container-page controller.
func (s *Session) Page() *containerpage.Controller { return s.page }

// DragHandler returns the gesture driver wired to the session controllers.
func (s *Session) DragHandler() *DragHandler { return s.handler }

// Issues lists the markup problems found when the session started.
func (s *Session) Issues() []MarkupIssue { return s.issues }

// AddFavoritesList makes list sortable by drag and saves each new order.
func (s *Session) AddFavoritesList(list *List) error {
	if !s.cfg.Features.Favorites {
		return ErrFavoritesDisabled
	}
	s.composite.Add(dnd.NewFavoritesController(list, s.page, logging.DNDLogger(s.page.LoggerProvider())))
	return nil
}

// RunUntilIdle drains the event loop, including RPC completions.
func (s *Session) RunUntilIdle(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	return s.loop.RunUntilIdle(ctx)
}

// Close stops the publish-lock poller. Pending loop work is dropped.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if checker := s.page.PublishLockChecker(); checker != nil {
		checker.Stop()
	}
}
