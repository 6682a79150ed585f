package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"wasteworks/internal/models"
)

func TestConfirmTransitionBindsCollectorAndStatusTogether(t *testing.T) {
	collectorID := primitive.NewObjectID()
	req := models.Request{Status: models.StatusPending}

	got, err := confirmTransition(req, &collectorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want %q", got.Status, models.StatusConfirmed)
	}
	if got.AssignedCollector == nil || *got.AssignedCollector != collectorID {
		t.Errorf("assignedCollector = %v, want %v", got.AssignedCollector, collectorID)
	}

	set := transitionUpdate(got)
	if set["status"] != models.StatusConfirmed {
		t.Errorf("update status = %v, want %v", set["status"], models.StatusConfirmed)
	}
	if set["assignedCollector"] != collectorID {
		t.Errorf("update assignedCollector = %v, want %v", set["assignedCollector"], collectorID)
	}
}

func TestConfirmTransitionRejectsReassignment(t *testing.T) {
	assigned := primitive.NewObjectID()
	other := primitive.NewObjectID()
	req := models.Request{Status: models.StatusConfirmed, AssignedCollector: &assigned}

	for _, collectorID := range []primitive.ObjectID{other, assigned} {
		if _, err := confirmTransition(req, &collectorID); err != errAlreadyAssigned {
			t.Errorf("confirmTransition with collector %v: err = %v, want errAlreadyAssigned", collectorID, err)
		}
	}
}

func TestConfirmTransitionWithoutCollector(t *testing.T) {
	req := models.Request{Status: models.StatusPending}

	got, err := confirmTransition(req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want %q", got.Status, models.StatusConfirmed)
	}
	if got.AssignedCollector != nil {
		t.Errorf("assignedCollector = %v, want nil", got.AssignedCollector)
	}

	set := transitionUpdate(got)
	if _, ok := set["assignedCollector"]; ok {
		t.Error("update must not touch assignedCollector when none is bound")
	}
}

func TestConfirmTransitionWithoutCollectorOnAssignedRequest(t *testing.T) {
	assigned := primitive.NewObjectID()
	req := models.Request{Status: models.StatusConfirmed, AssignedCollector: &assigned}

	got, err := confirmTransition(req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AssignedCollector == nil || *got.AssignedCollector != assigned {
		t.Errorf("assignedCollector = %v, want %v kept", got.AssignedCollector, assigned)
	}
}

func TestOpenStatuses(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{models.StatusPending, true},
		{models.StatusConfirmed, true},
		{models.StatusCompleted, false},
	}
	for _, tt := range tests {
		r := models.Request{Status: tt.status}
		if got := r.Open(); got != tt.want {
			t.Errorf("Open() for %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}
