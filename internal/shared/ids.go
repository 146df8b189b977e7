package shared

import (
	"strings"

	"github.com/google/uuid"
)

// SettingsSeparator separates the server id from the settings hash in a ClientID.
const SettingsSeparator = "#"

// ClientID identifies a container element on the page. It is composed of the
// structure id of the underlying resource, optionally followed by
// "#<settings hash>" for a settings variant of the same resource.
type ClientID string

// NewClientID joins a server id and a settings hash.
func NewClientID(serverID, settingsHash string) ClientID {
	if settingsHash == "" {
		return ClientID(serverID)
	}
	return ClientID(serverID + SettingsSeparator + settingsHash)
}

// ServerID returns the resource part of the id.
func (id ClientID) ServerID() string {
	server, _, _ := strings.Cut(string(id), SettingsSeparator)
	return server
}

// SettingsHash returns the part after the separator, or "".
func (id ClientID) SettingsHash() string {
	_, hash, _ := strings.Cut(string(id), SettingsSeparator)
	return hash
}

// HasSameServerID reports whether both ids point at the same resource.
func (id ClientID) HasSameServerID(other ClientID) bool {
	return id.ServerID() == other.ServerID()
}

func (id ClientID) String() string {
	return string(id)
}

// IsStructureID reports whether the server part of the id is a structure id.
// Elements dragged from the "new" menu carry a resource type name instead.
func (id ClientID) IsStructureID() bool {
	return IsValidStructureID(id.ServerID())
}

// IsValidStructureID reports whether value is a structure id in canonical
// 8-4-4-4-12 form.
func IsValidStructureID(value string) bool {
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

// ClientIDs converts raw strings to ClientIDs.
func ClientIDs(values ...string) []ClientID {
	out := make([]ClientID, 0, len(values))
	for _, value := range values {
		out = append(out, ClientID(value))
	}
	return out
}
