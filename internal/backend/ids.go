package backend

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// deterministicID derives a UUID from a stable key using go-hashid.
func deterministicID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PageRecordID maps a page id to its record id. Structure ids are used as is.
func PageRecordID(pageID string) uuid.UUID {
	if id, err := uuid.Parse(strings.TrimSpace(pageID)); err == nil {
		return id
	}
	return deterministicID("editor:page:" + pageID)
}

func listID(owner string, kind ListKind) uuid.UUID {
	return deterministicID("editor:list:" + strings.ToLower(strings.TrimSpace(owner)) + ":" + string(kind))
}

func createdElementID(pageID, resourceType string, seq uint64) uuid.UUID {
	return deterministicID("editor:element:" + pageID + ":" + resourceType + ":" + strconv.FormatUint(seq, 10))
}

func copiedElementID(source uuid.UUID, seq uint64) uuid.UUID {
	return deterministicID("editor:copy:" + source.String() + ":" + strconv.FormatUint(seq, 10))
}
