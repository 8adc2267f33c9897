package service

import (
	"testing"

	"evshare/pkg/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{model.StatusPending, model.StatusApproved, true},
		{model.StatusPending, model.StatusRejected, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusPending, model.StatusActive, false},
		{model.StatusPending, model.StatusCompleted, false},
		{model.StatusApproved, model.StatusActive, true},
		{model.StatusApproved, model.StatusCancelled, true},
		{model.StatusApproved, model.StatusCompleted, false},
		{model.StatusActive, model.StatusCompleted, true},
		{model.StatusActive, model.StatusCancelled, true},
		{model.StatusActive, model.StatusApproved, false},
		{model.StatusCompleted, model.StatusCancelled, false},
		{model.StatusCancelled, model.StatusApproved, false},
		{model.StatusRejected, model.StatusPending, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
