package bridge

import (
	"encoding/json"
	"time"
)

// Message ids of the editor's postMessage API used by the host.
const (
	MsgHostReady     = "Host_PostmessageReady"
	MsgPaste         = "Action_Paste"
	MsgLoadingStatus = "App_LoadingStatus"

	// StatusDocumentLoaded is the App_LoadingStatus value sent once the
	// document can accept actions.
	StatusDocumentLoaded = "Document_Loaded"

	// TypeGetText is the request type the editor page answers with the
	// plain text of the document.
	TypeGetText = "GET_TEXT"

	pasteMimetype = "text/plain;charset=utf-8"
)

// Message is the envelope of the editor's postMessage API.
type Message struct {
	MessageID string         `json:"MessageId"`
	SendTime  int64          `json:"SendTime"`
	Values    map[string]any `json:"Values"`
}

// HostReady tells the editor the host is listening. Values is always an
// empty object.
func HostReady(now time.Time) Message {
	return Message{MessageID: MsgHostReady, SendTime: now.UnixMilli(), Values: map[string]any{}}
}

// Paste inserts text at the editor cursor.
func Paste(now time.Time, text string) Message {
	return Message{
		MessageID: MsgPaste,
		SendTime:  now.UnixMilli(),
		Values: map[string]any{
			"Mimetype": pasteMimetype,
			"Data":     text,
		},
	}
}

// TextRequest asks the editor page for the document text.
type TextRequest struct {
	Type          string `json:"type"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// GetText builds a text request tagged with token.
func GetText(token string) TextRequest {
	return TextRequest{Type: TypeGetText, CorrelationID: token}
}

// TextResponse is the editor page's answer to a TextRequest. Pages that do
// not echo correlationId leave it empty.
type TextResponse struct {
	ResumeText    string `json:"resumeText"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// isDocumentLoaded reports whether raw is the editor's load acknowledgement.
func isDocumentLoaded(raw []byte) bool {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil || m.MessageID != MsgLoadingStatus {
		return false
	}
	status, _ := m.Values["Status"].(string)
	return status == StatusDocumentLoaded
}

// parseTextResponse returns the response in raw if it carries text.
func parseTextResponse(raw []byte) (TextResponse, bool) {
	var r TextResponse
	if err := json.Unmarshal(raw, &r); err != nil || r.ResumeText == "" {
		return TextResponse{}, false
	}
	return r, true
}
