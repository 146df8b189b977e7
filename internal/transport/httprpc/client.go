package httprpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultTimeout bounds a single call when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the per-call timeout of the default http.Client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithClientLoggerProvider sets the provider used for call logging.
func WithClientLoggerProvider(provider interfaces.LoggerProvider) ClientOption {
	return func(c *Client) {
		c.logger = logging.TransportLogger(provider)
	}
}

// Client implements the container-page and core contracts against a Server.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  interfaces.Logger
}

var (
	_ interfaces.ContainerpageService = (*Client)(nil)
	_ interfaces.CoreService          = (*Client)(nil)
)

// NewClient returns a client for the server mounted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout: DefaultTimeout,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

func invoke[Resp any](ctx context.Context, c *Client, op string, in any) (Resp, error) {
	var zero Resp
	logger := logging.WithFields(c.logger, map[string]any{"operation": op})

	payload, err := json.Marshal(in)
	if err != nil {
		return zero, badRequest(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathPrefix+"/"+op, bytes.NewReader(payload))
	if err != nil {
		return zero, badRequest(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("transport.rpc.unavailable", "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		return zero, goerrors.Wrap(err, goerrors.CategoryExternal, "rpc call failed").WithTextCode(TextCodeUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, goerrors.Wrap(err, goerrors.CategoryExternal, "read rpc response").WithTextCode(TextCodeBadResponse)
	}
	if resp.StatusCode != http.StatusOK {
		var envelope errorEnvelope
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr != nil {
			envelope.Error = errorBody{Message: strings.TrimSpace(string(body))}
		}
		rpcErr := decodeError(resp.StatusCode, envelope.Error)
		logger.Debug("transport.rpc.error", "status", resp.StatusCode, "text_code", envelope.Error.TextCode)
		return zero, rpcErr
	}

	var envelope resultEnvelope[Resp]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return zero, goerrors.Wrap(err, goerrors.CategoryExternal, fmt.Sprintf("decode %s response", op)).
			WithTextCode(TextCodeBadResponse)
	}
	logger.Trace("transport.rpc.done", "duration_ms", time.Since(started).Milliseconds())
	return envelope.Result, nil
}

func (c *Client) GetElementsData(ctx context.Context, req shared.ElementsRequest) (map[shared.ClientID]*shared.ElementData, error) {
	return invoke[map[shared.ClientID]*shared.ElementData](ctx, c, OpGetElementsData, req)
}

func (c *Client) GetNewElementData(ctx context.Context, req shared.NewElementRequest) (*shared.ElementData, error) {
	return invoke[*shared.ElementData](ctx, c, OpGetNewElementData, req)
}

func (c *Client) CopyElement(ctx context.Context, req shared.CopyElementRequest) (shared.ClientID, error) {
	return invoke[shared.ClientID](ctx, c, OpCopyElement, req)
}

func (c *Client) CheckCreateNewElement(ctx context.Context, req shared.CreateElementRequest) (*shared.CreateElementData, error) {
	return invoke[*shared.CreateElementData](ctx, c, OpCheckCreateNewElement, req)
}

func (c *Client) CreateNewElement(ctx context.Context, req shared.CreateElementRequest) (*shared.ContainerElement, error) {
	return invoke[*shared.ContainerElement](ctx, c, OpCreateNewElement, req)
}

func (c *Client) SaveContainerpage(ctx context.Context, req shared.SavePageRequest) (int64, error) {
	return invoke[int64](ctx, c, OpSaveContainerpage, req)
}

func (c *Client) SaveGroupContainer(ctx context.Context, req shared.SaveGroupContainerRequest) (map[shared.ClientID]*shared.ElementData, error) {
	return invoke[map[shared.ClientID]*shared.ElementData](ctx, c, OpSaveGroupContainer, req)
}

func (c *Client) GetFavoriteList(ctx context.Context, req shared.ListRequest) ([]*shared.ElementData, error) {
	return invoke[[]*shared.ElementData](ctx, c, OpGetFavoriteList, req)
}

func (c *Client) GetRecentList(ctx context.Context, req shared.ListRequest) ([]*shared.ElementData, error) {
	return invoke[[]*shared.ElementData](ctx, c, OpGetRecentList, req)
}

func (c *Client) SaveFavoriteList(ctx context.Context, ids []shared.ClientID) error {
	_, err := invoke[empty](ctx, c, OpSaveFavoriteList, idsPayload{IDs: ids})
	return err
}

func (c *Client) AddToFavoriteList(ctx context.Context, id shared.ClientID) error {
	_, err := invoke[empty](ctx, c, OpAddToFavoriteList, idPayload{ID: id})
	return err
}

func (c *Client) AddToRecentList(ctx context.Context, id shared.ClientID) error {
	_, err := invoke[empty](ctx, c, OpAddToRecentList, idPayload{ID: id})
	return err
}

func (c *Client) GetElementsLockedForPublishing(ctx context.Context, ids []shared.ClientID) ([]shared.ClientID, error) {
	return invoke[[]shared.ClientID](ctx, c, OpGetElementsLockedForPublishing, idsPayload{IDs: ids})
}

func (c *Client) SaveImageValue(ctx context.Context, req shared.SaveValueRequest) error {
	_, err := invoke[empty](ctx, c, OpSaveImageValue, req)
	return err
}

func (c *Client) LockAndCheckModification(ctx context.Context, structureID string, lastModified int64) (shared.LockInfo, error) {
	return invoke[shared.LockInfo](ctx, c, OpLockAndCheckModification, lockPayload{StructureID: structureID, LastModified: lastModified})
}

func (c *Client) Unlock(ctx context.Context, structureID string) error {
	_, err := invoke[empty](ctx, c, OpUnlock, structurePayload{StructureID: structureID})
	return err
}

func (c *Client) ContextMenuEntries(ctx context.Context, structureID string) ([]shared.ContextMenuEntry, error) {
	return invoke[[]shared.ContextMenuEntry](ctx, c, OpContextMenuEntries, structurePayload{StructureID: structureID})
}

func (c *Client) SetToolbarVisible(ctx context.Context, visible bool) error {
	_, err := invoke[empty](ctx, c, OpSetToolbarVisible, toolbarPayload{Visible: visible})
	return err
}
