package entity

import (
	"testing"

	"github.com/driveline/driveline/pkg/constant"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePair(t *testing.T) {
	low, high := NormalizePair(7, 3)
	assert.Equal(t, int64(3), low)
	assert.Equal(t, int64(7), high)

	// both orders key the same conversation
	low2, high2 := NormalizePair(3, 7)
	assert.Equal(t, low, low2)
	assert.Equal(t, high, high2)

	low, high = NormalizePair(5, 5)
	assert.Equal(t, int64(5), low)
	assert.Equal(t, int64(5), high)
}

func TestConversation_Includes(t *testing.T) {
	conv := &Conversation{ParticipantLow: 3, ParticipantHigh: 7}
	assert.True(t, conv.Includes(3))
	assert.True(t, conv.Includes(7))
	assert.False(t, conv.Includes(5))
}

func TestMessage_DisplayText(t *testing.T) {
	text := &Message{Type: constant.MsgTypeText, Content: "hello there"}
	assert.Equal(t, "hello there", text.DisplayText())

	image := &Message{Type: constant.MsgTypeImage, Content: ""}
	assert.Equal(t, "[Image]", image.DisplayText())
}

func TestVerificationForm_OtherDocumentPaths(t *testing.T) {
	var form VerificationForm
	form.SetOtherDocumentPaths([]string{"/uploads/forms/a.png", "/uploads/forms/b.png"})
	assert.Equal(t, []string{"/uploads/forms/a.png", "/uploads/forms/b.png"}, form.OtherDocumentPaths())

	form.SetOtherDocumentPaths(nil)
	assert.Equal(t, "[]", form.OtherDocuments)
	assert.Empty(t, form.OtherDocumentPaths())

	// corrupt stored value degrades to empty rather than failing
	form.OtherDocuments = "{broken"
	assert.Nil(t, form.OtherDocumentPaths())
}
