package handlers

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"wasteworks/internal/models"
)

var errAlreadyAssigned = errors.New("request is already assigned to a collector")

// confirmTransition moves a request to Confirmed, optionally binding a
// collector in the same step. Binding is one-shot: once a collector is on
// the request no later call may replace it. A confirm without a collector
// only touches the status.
func confirmTransition(req models.Request, collectorID *primitive.ObjectID) (models.Request, error) {
	if collectorID != nil {
		if req.AssignedCollector != nil {
			return models.Request{}, errAlreadyAssigned
		}
		req.AssignedCollector = collectorID
	}
	req.Status = models.StatusConfirmed
	return req, nil
}

// transitionUpdate is the single persisted write for a confirm: status and
// collector (when bound) land in one update document.
func transitionUpdate(req models.Request) map[string]interface{} {
	set := map[string]interface{}{"status": req.Status}
	if req.AssignedCollector != nil {
		set["assignedCollector"] = *req.AssignedCollector
	}
	return set
}
