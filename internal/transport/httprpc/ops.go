package httprpc

import "github.com/goliatone/go-cms-editor/internal/shared"

// RPC operation names, used as the last path segment.
const (
	OpGetElementsData                = "getElementsData"
	OpGetNewElementData              = "getNewElementData"
	OpCopyElement                    = "copyElement"
	OpCheckCreateNewElement          = "checkCreateNewElement"
	OpCreateNewElement               = "createNewElement"
	OpSaveContainerpage              = "saveContainerpage"
	OpSaveGroupContainer             = "saveGroupContainer"
	OpGetFavoriteList                = "getFavoriteList"
	OpGetRecentList                  = "getRecentList"
	OpSaveFavoriteList               = "saveFavoriteList"
	OpAddToFavoriteList              = "addToFavoriteList"
	OpAddToRecentList                = "addToRecentList"
	OpGetElementsLockedForPublishing = "getElementsLockedForPublishing"
	OpSaveImageValue                 = "saveImageValue"
	OpLockAndCheckModification       = "lockAndCheckModification"
	OpUnlock                         = "unlock"
	OpContextMenuEntries             = "contextMenuEntries"
	OpSetToolbarVisible              = "setToolbarVisible"
)

// Operations lists every operation the server routes.
var Operations = []string{
	OpGetElementsData,
	OpGetNewElementData,
	OpCopyElement,
	OpCheckCreateNewElement,
	OpCreateNewElement,
	OpSaveContainerpage,
	OpSaveGroupContainer,
	OpGetFavoriteList,
	OpGetRecentList,
	OpSaveFavoriteList,
	OpAddToFavoriteList,
	OpAddToRecentList,
	OpGetElementsLockedForPublishing,
	OpSaveImageValue,
	OpLockAndCheckModification,
	OpUnlock,
	OpContextMenuEntries,
	OpSetToolbarVisible,
}

// PathPrefix is where the operations are mounted.
const PathPrefix = "/rpc"

type idsPayload struct {
	IDs []shared.ClientID `json:"ids"`
}

type idPayload struct {
	ID shared.ClientID `json:"id"`
}

type structurePayload struct {
	StructureID string `json:"structureId"`
}

type lockPayload struct {
	StructureID  string `json:"structureId"`
	LastModified int64  `json:"lastModified"`
}

type toolbarPayload struct {
	Visible bool `json:"visible"`
}

type empty struct{}

type resultEnvelope[T any] struct {
	Result T `json:"result"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}
