package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
)

func TestStartEditCard_Prefills(t *testing.T) {
	m := New(80, 24)
	cmd := m.StartEditCard(model.Card{ID: "c1", Title: "Buy milk", Description: "2 litres"})
	_ = cmd

	assert.Equal(t, KindEditCard, m.Kind())
	assert.Equal(t, "Buy milk", m.fb.name)
	assert.Equal(t, "2 litres", m.fb.description)
	assert.Contains(t, m.View(), "Edit Card")
}

func TestHandleSubmit_TrimsInput(t *testing.T) {
	m := New(80, 24)
	m.StartNewBoard()
	m.fb.name = "  Work  "
	m.fb.icon = model.IconBriefcase

	msg := m.handleSubmit()()
	assert.Equal(t, SubmitMsg{Kind: KindNewBoard, Name: "Work", Icon: model.IconBriefcase}, msg)
}

func TestHandleSubmit_DeleteNeedsConfirmation(t *testing.T) {
	m := New(80, 24)
	m.StartDelete(KindDeleteList, "l1", "To Do", "Its cards are deleted too.")

	assert.Equal(t, CancelMsg{}, m.handleSubmit()())

	m.fb.confirm = true
	msg, ok := m.handleSubmit()().(SubmitMsg)
	require.True(t, ok)
	assert.Equal(t, KindDeleteList, msg.Kind)
	assert.Equal(t, "l1", msg.TargetID)
}

func TestReset_ClearsPreviousValues(t *testing.T) {
	m := New(80, 24)
	m.StartRenameList(model.List{ID: "l1", Title: "Old"})
	m.StartNewList("b1")

	assert.Empty(t, m.fb.name)
	assert.Equal(t, KindNewList, m.Kind())
	assert.Equal(t, "b1", m.targetID)
}

func TestValidateRequired(t *testing.T) {
	v := validateRequired("Title")
	assert.EqualError(t, v("   "), "Title is required")
	assert.NoError(t, v("x"))
}
