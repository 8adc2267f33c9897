package service

import "evshare/pkg/model"

// allowedTransitions is the booking lifecycle. Completed, cancelled and
// rejected are terminal.
var allowedTransitions = map[string][]string{
	model.StatusPending:  {model.StatusApproved, model.StatusRejected, model.StatusCancelled},
	model.StatusApproved: {model.StatusActive, model.StatusCancelled},
	model.StatusActive:   {model.StatusCompleted, model.StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
