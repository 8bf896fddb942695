package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
)

func TestBidRequests(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	data := InsertTestInitData(t, repo.db)

	// Insert a request for each project/specialist pair
	var requests []models.BidRequest
	for _, projectId := range data.Projects {
		for _, specialistId := range data.Specialists {
			requests = append(requests, AddTestBidRequest(t, repo, projectId, specialistId))
		}
	}

	for _, request := range requests {
		if request.Status != models.BidPending {
			t.Errorf("Expected new request '%s' in status %s, got %s", request.Id, models.BidPending, request.Status)
		}
	}

	// Listing with filters
	all, err := repo.GetBidRequests(ctx, 0, 0, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(requests) {
		t.Errorf("Expected %d requests, got %d", len(requests), len(all))
	}

	byProject, err := repo.GetBidRequests(ctx, 0, 0, data.Projects[0], "")
	if err != nil {
		t.Fatal(err)
	}
	if len(byProject) != len(data.Specialists) {
		t.Errorf("Expected %d requests for project, got %d", len(data.Specialists), len(byProject))
	}

	paged, err := repo.GetBidRequests(ctx, 2, 1, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(paged) != 2 {
		t.Errorf("Expected a page of 2 requests, got %d", len(paged))
	}

	// Fetch by id
	fetched, err := repo.GetBidRequestByUUID(ctx, requests[0].Id)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Id != requests[0].Id {
		t.Errorf("Expected request '%s', got '%s'", requests[0].Id, fetched.Id)
	}

	_, err = repo.GetBidRequestByUUID(ctx, "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows for a missing request, got %v", err)
	}

	// Delete
	err = repo.DeleteBidRequest(ctx, requests[0].Id)
	if err != nil {
		t.Fatal(err)
	}
	all, err = repo.GetBidRequests(ctx, 0, 0, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(requests)-1 {
		t.Errorf("Expected %d requests after delete, got %d", len(requests)-1, len(all))
	}
}

func TestTransitionBidRequest(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	data := InsertTestInitData(t, repo.db)
	request := AddTestBidRequest(t, repo, data.Projects[0], data.Specialists[0])

	// CAS succeeds when the expected status matches
	err := repo.TransitionBidRequest(ctx, request.Id, models.BidPending, models.BidResponded, data.Specialists[0], "")
	if err != nil {
		t.Fatal(err)
	}

	fetched, err := repo.GetBidRequestByUUID(ctx, request.Id)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Status != models.BidResponded {
		t.Errorf("Expected status %s, got %s", models.BidResponded, fetched.Status)
	}

	// CAS fails against a stale expectation, status stays put
	err = repo.TransitionBidRequest(ctx, request.Id, models.BidPending, models.BidRejected, data.Specialists[0], "stale")
	if !errors.Is(err, models.ErrStaleStatus) {
		t.Errorf("Expected ErrStaleStatus for a stale compare-and-set, got %v", err)
	}

	fetched, err = repo.GetBidRequestByUUID(ctx, request.Id)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Status != models.BidResponded {
		t.Errorf("Expected status unchanged after failed CAS, got %s", fetched.Status)
	}

	// Each successful transition leaves one audit record
	approverId := "11111111-1111-1111-1111-111111111111"
	err = repo.TransitionBidRequest(ctx, request.Id, models.BidResponded, models.BidAccepted, approverId, "approved")
	if err != nil {
		t.Fatal(err)
	}

	transitions, err := repo.GetTransitions(ctx, request.Id)
	if err != nil {
		t.Fatal(err)
	}
	if len(transitions) != 2 {
		t.Fatalf("Expected 2 transition records, got %d", len(transitions))
	}
	if transitions[0].From != models.BidPending || transitions[0].To != models.BidResponded {
		t.Errorf("Unexpected first transition: %s->%s", transitions[0].From, transitions[0].To)
	}
	if transitions[1].Note != "approved" {
		t.Errorf("Expected transition note recorded, got '%s'", transitions[1].Note)
	}

	// A failed CAS must not leave an audit record
	for _, transition := range transitions {
		if transition.Note == "stale" {
			t.Error("Failed compare-and-set left an audit record")
		}
	}
}

func TestActivePairUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	data := InsertTestInitData(t, repo.db)
	request := AddTestBidRequest(t, repo, data.Projects[0], data.Specialists[0])

	// a second live invitation for the same pair is refused by the
	// partial unique index
	_, err := repo.AddBidRequest(ctx, models.BidRequest{
		ProjectId:      request.ProjectId,
		SpecialistId:   request.SpecialistId,
		Title:          "Duplicate invitation",
		Deadline:       request.Deadline,
		ProposedBudget: request.ProposedBudget,
	})
	if err == nil {
		t.Fatal("Expected a second live invitation for the same pair to fail")
	}

	// once the first one is terminal, a new invitation is fine
	err = repo.TransitionBidRequest(ctx, request.Id, models.BidPending, models.BidWithdrawn, data.Specialists[0], "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = repo.AddBidRequest(ctx, models.BidRequest{
		ProjectId:      request.ProjectId,
		SpecialistId:   request.SpecialistId,
		Title:          "Renewed invitation",
		Deadline:       request.Deadline,
		ProposedBudget: request.ProposedBudget,
	})
	if err != nil {
		t.Fatalf("Expected a new invitation after withdrawal to succeed, got %v", err)
	}
}
