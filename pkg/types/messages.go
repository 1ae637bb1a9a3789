// Package types holds the relay envelope exchanged between a paired frontend
// and IDE. The server treats client-sent envelopes as opaque and only builds
// its own for the notifications listed on Action.
package types

import "encoding/json"

// Relay event names. A message received on one of them is forwarded under
// the same name to the opposite half of the session.
const (
	// VizDo is delivered to frontends.
	VizDo = "vizDo"
	// IDEDo is delivered to IDEs.
	IDEDo = "ideDo"
)

type Action string

const (
	ActionRefresh               Action = "refresh"
	ActionSingleClickOnMesh     Action = "singleClickOnMesh"
	ActionDoubleClickOnMesh     Action = "doubleClickOnMesh"
	ActionClickTimeline         Action = "clickTimeLine"
	ActionGetVizData            Action = "getVizData"
	ActionJumpToLocation        Action = "jumpToLocation"
	ActionJumpToMonitoringClass Action = "jumpToMonitoringClass"
	ActionDisconnectFrontend    Action = "disconnectFrontend"
	ActionDisconnectIDE         Action = "disconnectIDE"
)

// UnsetOccurrence marks IDEApiCall.OccurrenceID as not set.
const UnsetOccurrence = -1

type IDEApiCall struct {
	Action       Action       `json:"action"`
	Data         []OrderTuple `json:"data"`
	MeshID       string       `json:"meshId"`
	OccurrenceID int          `json:"occurrenceID"`
	FQN          string       `json:"fqn"`
	// Usually a list of CommunicationLink; for refresh it carries whatever
	// the frontend sent.
	FoundationCommunicationLinks json.RawMessage `json:"foundationCommunicationLinks"`
}

// ActionRequest is the bare {"action": ...} form, used when the server asks
// a frontend to resend its state.
type ActionRequest struct {
	Action Action `json:"action"`
}

type CommunicationLink struct {
	SourceMeshID string `json:"sourceMeshID"`
	TargetMeshID string `json:"targetMeshID"`
	MeshID       string `json:"meshID"`
}

type ParentOrder struct {
	FQN    string        `json:"fqn"`
	Childs []ParentOrder `json:"childs"`
	MeshID string        `json:"meshId"`
}

type Meshes struct {
	MeshNames []string `json:"meshNames"`
	MeshIDs   []string `json:"meshIds"`
}

type OrderTuple struct {
	HierarchyModel ParentOrder `json:"hierarchyModel"`
	Meshes         Meshes      `json:"meshes"`
}

// TextSelection is broadcast between pair-programming peers. A nil
// *TextSelection encodes as null, which clients use to clear a selection.
type TextSelection struct {
	DocumentURI  string `json:"documentUri"`
	StartLine    int    `json:"startLine"`
	StartCharPos int    `json:"startCharPos"`
	EndLine      int    `json:"endLine"`
	EndCharPos   int    `json:"endCharPos"`
}

// Notification builds a server-originated envelope with every optional field
// at its sentinel value.
func Notification(action Action, links json.RawMessage) IDEApiCall {
	return IDEApiCall{
		Action:                       action,
		Data:                         []OrderTuple{},
		OccurrenceID:                 UnsetOccurrence,
		FoundationCommunicationLinks: links,
	}
}

// DisconnectNotification tells the remaining half of a session that its peer
// went away.
func DisconnectNotification(action Action) IDEApiCall {
	return Notification(action, json.RawMessage(`""`))
}
