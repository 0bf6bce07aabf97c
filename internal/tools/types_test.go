package tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentConstructors(t *testing.T) {
	text := TextContent("hello")
	assert.Equal(t, ContentItem{Type: "text", Text: "hello"}, text)

	img := ImageContent("base64data", "image/jpeg", map[string]string{"width": "390"})
	assert.Equal(t, "image", img.Type)
	assert.Equal(t, "base64data", img.Data)
	assert.Equal(t, "image/jpeg", img.MimeType)
	assert.Equal(t, "390", img.Metadata["width"])

	audio := AudioContent("audiodata", "audio/wav")
	assert.Equal(t, ContentItem{Type: "audio", Data: "audiodata", MimeType: "audio/wav"}, audio)
}

func TestTextResultAndErrorResult(t *testing.T) {
	ok := textResult("done")
	assert.False(t, ok.IsError)
	assert.Equal(t, "done", ok.Content[0].Text)

	bad := errorResult(errors.New("boom"))
	assert.True(t, bad.IsError)
	assert.Equal(t, "boom", bad.Content[0].Text)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `tools: missing required argument "text"`, (&MissingRequiredArgument{Name: "text"}).Error())
	assert.Equal(t, "tools: conflicting arguments: both x/y and a selector given", (&ConflictingFilters{Detail: "both x/y and a selector given"}).Error())
	assert.Equal(t, "tools: encoding failed: jpeg encode", (&EncodingFailed{Detail: "jpeg encode"}).Error())
	assert.Equal(t,
		`tools: no element matched selector{role="AXButton", name="OK", identifier=""}`,
		(&NoMatch{Role: "AXButton", Name: "OK"}).Error())
	assert.Equal(t,
		`tools: matched selector{role="AXButton", name="", identifier="login"} has no frame`,
		(&NoFrame{Role: "AXButton", Identifier: "login"}).Error())
}
