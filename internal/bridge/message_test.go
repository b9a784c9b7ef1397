package bridge

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessages_Wire(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	raw, err := json.Marshal(HostReady(now))
	require.NoError(t, err)
	assert.JSONEq(t, `{"MessageId":"Host_PostmessageReady","SendTime":1700000000123,"Values":{}}`, string(raw))

	raw, err = json.Marshal(Paste(now, "Led a team of 5"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"MessageId":"Action_Paste","SendTime":1700000000123,"Values":{"Mimetype":"text/plain;charset=utf-8","Data":"Led a team of 5"}}`, string(raw))

	raw, err = json.Marshal(GetText("tok"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"GET_TEXT","correlationId":"tok"}`, string(raw))
}

func TestIsDocumentLoaded(t *testing.T) {
	assert.True(t, isDocumentLoaded([]byte(`{"MessageId":"App_LoadingStatus","Values":{"Status":"Document_Loaded"}}`)))
	assert.False(t, isDocumentLoaded([]byte(`{"MessageId":"App_LoadingStatus","Values":{"Status":"Frame_Ready"}}`)))
	assert.False(t, isDocumentLoaded([]byte(`{"MessageId":"Action_Paste"}`)))
	assert.False(t, isDocumentLoaded([]byte(`not json`)))
}

func TestParseTextResponse(t *testing.T) {
	r, ok := parseTextResponse([]byte(`{"resumeText":"hello","correlationId":"a"}`))
	require.True(t, ok)
	assert.Equal(t, TextResponse{ResumeText: "hello", CorrelationID: "a"}, r)

	_, ok = parseTextResponse([]byte(`{"resumeText":""}`))
	assert.False(t, ok)
	_, ok = parseTextResponse([]byte(`{"MessageId":"App_LoadingStatus"}`))
	assert.False(t, ok)
}
