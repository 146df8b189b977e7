package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	editor "github.com/goliatone/go-cms-editor"
	"github.com/goliatone/go-cms-editor/internal/dom"
)

var moduleBuilder = editor.New

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("containerpage: %v", err)
	}
}

type options struct {
	markupPath string
	dataPath   string
	serveAddr  string
	storage    string
	dsn        string
	user       string
	logLevel   string
	move       string
	save       bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("containerpage", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.markupPath, "page", "", "Path to the rendered page markup")
	fs.StringVar(&opts.dataPath, "data", "", "Path to the page data JSON")
	fs.StringVar(&opts.serveAddr, "serve", "", "Serve the editor RPC endpoints on this address instead of inspecting a page")
	fs.StringVar(&opts.storage, "storage", "memory", "Storage provider for the backend (memory or bun)")
	fs.StringVar(&opts.dsn, "dsn", "", "SQLite DSN used by the bun storage provider")
	fs.StringVar(&opts.user, "user", "cli", "User owning locks and lists")
	fs.StringVar(&opts.logLevel, "log-level", "", "Enable console logging at this level")
	fs.StringVar(&opts.move, "move", "", "Move an element before printing: <clientId>=<container>[:index]")
	fs.BoolVar(&opts.save, "save", false, "Save the page after a move")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.serveAddr == "" && (opts.markupPath == "" || opts.dataPath == "") {
		return opts, errors.New("--page and --data are required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}

	cfg := editor.DefaultConfig()
	cfg.Storage.Provider = opts.storage
	cfg.Storage.DSN = opts.dsn
	if opts.logLevel != "" {
		cfg.Features.Logger = true
		cfg.Logging.Level = opts.logLevel
	}

	module, err := moduleBuilder(cfg, editor.WithUser(opts.user))
	if err != nil {
		return fmt.Errorf("build module: %w", err)
	}
	defer module.Close()

	if opts.serveAddr != "" {
		return serve(ctx, module, opts.serveAddr)
	}
	return inspect(ctx, module, opts, stdout)
}

func serve(ctx context.Context, module *editor.Module, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           module.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func inspect(ctx context.Context, module *editor.Module, opts options, stdout io.Writer) error {
	markup, err := os.ReadFile(opts.markupPath)
	if err != nil {
		return fmt.Errorf("read page markup: %w", err)
	}
	data, err := os.ReadFile(opts.dataPath)
	if err != nil {
		return fmt.Errorf("read page data: %w", err)
	}

	session, err := module.OpenSession(string(markup), data)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	if err := seedFromMarkup(ctx, module, session); err != nil {
		return err
	}

	if opts.move != "" {
		if err := move(ctx, session, opts.move); err != nil {
			return err
		}
		if opts.save {
			var saveErr error
			session.Page().SaveContainerpage(func(err error) { saveErr = err })
			if err := session.RunUntilIdle(ctx); err != nil {
				return err
			}
			if saveErr != nil {
				return fmt.Errorf("save page: %w", saveErr)
			}
		}
	}

	printTree(stdout, session)
	return nil
}

// seedFromMarkup stores every element found on the page so the in-process
// backend can serve it back.
func seedFromMarkup(ctx context.Context, module *editor.Module, session *editor.Session) error {
	backend := module.Backend()
	if backend == nil {
		return nil
	}
	for _, panel := range session.Page().ElementPanels() {
		id, err := uuid.Parse(panel.ClientID().ServerID())
		if err != nil {
			continue
		}
		if _, err := backend.Element(ctx, panel.ClientID()); err == nil {
			continue
		}
		markup, err := dom.Render(panel.Node())
		if err != nil {
			return fmt.Errorf("render %s: %w", panel.ClientID(), err)
		}
		record := &editor.ElementRecord{
			ID:           id,
			ResourceType: "element",
			SitePath:     panel.Meta().SitePath,
			Contents:     map[string]string{"*": markup},
			NoEditReason: panel.Meta().NoEditReason,
		}
		if err := backend.SeedElement(ctx, record); err != nil {
			return fmt.Errorf("seed %s: %w", panel.ClientID(), err)
		}
	}
	return nil
}

func move(ctx context.Context, session *editor.Session, arg string) error {
	id, dest, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("invalid move %q", arg)
	}
	name, indexText, _ := strings.Cut(dest, ":")
	index := 0
	if indexText != "" {
		parsed, err := strconv.Atoi(indexText)
		if err != nil {
			return fmt.Errorf("invalid move index %q", indexText)
		}
		index = parsed
	}

	target := session.Page().Container(name)
	if target == nil {
		return fmt.Errorf("unknown container %q", name)
	}
	var source *editor.ContainerPanel
	var element *editor.ElementPanel
	for _, container := range session.Page().Containers() {
		if found := container.ElementByClientID(editor.ClientID(id)); found != nil {
			source, element = container, found
			break
		}
	}
	if element == nil {
		return fmt.Errorf("element %s not found on the page", id)
	}

	handler := session.DragHandler()
	gesture, err := handler.Start(element, source, editor.Point{})
	if err != nil {
		return fmt.Errorf("start drag: %w", err)
	}
	if err := session.RunUntilIdle(ctx); err != nil {
		return err
	}
	if !gesture.IsTarget(target) {
		_ = handler.Cancel()
		return fmt.Errorf("container %q does not accept %s", name, id)
	}
	handler.Move(editor.Point{}, target, index)
	if err := handler.Drop(); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	return session.RunUntilIdle(ctx)
}

func printTree(w io.Writer, session *editor.Session) {
	page := session.Page().Page()
	fmt.Fprintf(w, "page %s (locale %s)\n", page.PageID, page.Locale)
	for _, container := range session.Page().Containers() {
		def := container.Definition()
		limit := "-"
		if def.MaxElements > 0 {
			limit = strconv.Itoa(def.MaxElements)
		}
		fmt.Fprintf(w, "  %s [%s] %d/%s\n", def.Name, def.Type, container.Len(), limit)
		for _, element := range container.Elements() {
			fmt.Fprintf(w, "    - %s\n", element.ClientID())
		}
	}
	if session.Page().IsPageChanged() {
		fmt.Fprintln(w, "changed: true")
	}
	for _, issue := range session.Issues() {
		fmt.Fprintf(w, "issue: %s\n", issue.String())
	}
}
