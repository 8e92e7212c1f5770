package model_test

import (
	"testing"

	"innkeep/internal/domains/task/model"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	statuses := []string{model.StatusPending, model.StatusAccepted, model.StatusCompleted, model.StatusVerified}

	allowed := map[string]string{
		model.ActionClaim:    model.StatusPending,
		model.ActionComplete: model.StatusAccepted,
		model.ActionVerify:   model.StatusCompleted,
		model.ActionReject:   model.StatusCompleted,
	}

	for action, from := range allowed {
		for _, status := range statuses {
			assert.Equal(t, status == from, model.ValidTransition(action, status), "%s from %s", action, status)
		}
	}

	assert.False(t, model.ValidTransition("reopen", model.StatusVerified))
}

func TestTargets(t *testing.T) {
	assert.Equal(t, model.StatusAccepted, model.To(model.ActionClaim))
	assert.Equal(t, model.StatusCompleted, model.To(model.ActionComplete))
	assert.Equal(t, model.StatusVerified, model.To(model.ActionVerify))
	assert.Equal(t, model.StatusPending, model.To(model.ActionReject))
	assert.Equal(t, model.StatusCompleted, model.From(model.ActionReject))
}

func TestAssignedTo(t *testing.T) {
	hk := "hk-1"

	assert.True(t, model.Task{HousekeeperID: &hk}.AssignedTo("hk-1"))
	assert.False(t, model.Task{HousekeeperID: &hk}.AssignedTo("hk-2"))
	assert.False(t, model.Task{}.AssignedTo("hk-1"))
}
