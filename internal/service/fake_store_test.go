package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
	"github.com/digitaleng1/digitalbuild-sub001/internal/notify"
	"github.com/digitaleng1/digitalbuild-sub001/internal/scoring"
)

// fakeStore keeps everything in maps guarded by one mutex and mirrors
// the repository's contract: sql.ErrNoRows for missing rows, CAS
// semantics in TransitionBidRequest, first-write-wins responses.
type fakeStore struct {
	mu sync.Mutex

	projects    map[string]models.Project
	specialists map[string]models.Specialist
	requests    map[string]*models.BidRequest
	requestIds  []string
	responses   map[string]*models.BidResponse
	messages    []models.BidMessage
	transitions []models.BidTransition
	assignments map[string]*models.Assignment
	attachments []models.ResponseAttachment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:    make(map[string]models.Project),
		specialists: make(map[string]models.Specialist),
		requests:    make(map[string]*models.BidRequest),
		responses:   make(map[string]*models.BidResponse),
		assignments: make(map[string]*models.Assignment),
	}
}

func (f *fakeStore) ProjectByUUID(_ context.Context, UUID string) (models.Project, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	project, ok := f.projects[UUID]
	return project, ok, nil
}

func (f *fakeStore) SpecialistByUUID(_ context.Context, UUID string) (models.Specialist, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	specialist, ok := f.specialists[UUID]
	return specialist, ok, nil
}

func (f *fakeStore) AddBidRequest(_ context.Context, request models.BidRequest) (models.BidRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request.Id = uuid.NewString()
	request.Status = models.BidPending
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	f.requests[request.Id] = &request
	f.requestIds = append(f.requestIds, request.Id)
	return request, nil
}

func (f *fakeStore) GetBidRequests(_ context.Context, limit, offset int, projectId, specialistId string) ([]models.BidRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.BidRequest
	for _, id := range f.requestIds {
		request := f.requests[id]
		if len(projectId) > 0 && request.ProjectId != projectId {
			continue
		}
		if len(specialistId) > 0 && request.SpecialistId != specialistId {
			continue
		}
		result = append(result, *request)
	}
	if offset < len(result) {
		result = result[offset:]
	} else {
		result = nil
	}
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeStore) GetBidRequestByUUID(_ context.Context, UUID string) (models.BidRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[UUID]
	if !ok {
		return models.BidRequest{}, sql.ErrNoRows
	}
	return *request, nil
}

func (f *fakeStore) TransitionBidRequest(_ context.Context, UUID string, from, to models.BidRequestStatus, actorId, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[UUID]
	if !ok {
		return sql.ErrNoRows
	}
	if request.Status != from {
		return models.ErrStaleStatus
	}
	request.Status = to
	request.UpdatedAt = time.Now()
	f.transitions = append(f.transitions, models.BidTransition{
		Id:           uuid.NewString(),
		BidRequestId: UUID,
		From:         from,
		To:           to,
		ActorId:      actorId,
		Note:         note,
		CreatedAt:    request.UpdatedAt,
	})
	return nil
}

func (f *fakeStore) DeleteBidRequest(_ context.Context, UUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.requests, UUID)
	delete(f.responses, UUID)
	for i := 0; i < len(f.requestIds); i++ {
		if f.requestIds[i] == UUID {
			f.requestIds = append(f.requestIds[:i], f.requestIds[i+1:]...)
			break
		}
	}
	var messages []models.BidMessage
	for _, message := range f.messages {
		if message.BidRequestId != UUID {
			messages = append(messages, message)
		}
	}
	f.messages = messages
	var attachments []models.ResponseAttachment
	for _, attachment := range f.attachments {
		if attachment.BidRequestId != UUID {
			attachments = append(attachments, attachment)
		}
	}
	f.attachments = attachments
	var transitions []models.BidTransition
	for _, transition := range f.transitions {
		if transition.BidRequestId != UUID {
			transitions = append(transitions, transition)
		}
	}
	f.transitions = transitions
	return nil
}

func (f *fakeStore) GetTransitions(_ context.Context, bidRequestId string) ([]models.BidTransition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.BidTransition
	for _, transition := range f.transitions {
		if transition.BidRequestId == bidRequestId {
			result = append(result, transition)
		}
	}
	return result, nil
}

func (f *fakeStore) AddResponse(_ context.Context, response models.BidResponse) (models.BidResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.responses[response.BidRequestId]; ok {
		return models.BidResponse{}, models.ErrDuplicateResponse
	}
	response.Id = uuid.NewString()
	response.CreatedAt = time.Now()
	response.UpdatedAt = response.CreatedAt
	f.responses[response.BidRequestId] = &response
	return response, nil
}

func (f *fakeStore) GetResponseByRequest(_ context.Context, bidRequestId string) (models.BidResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	response, ok := f.responses[bidRequestId]
	if !ok {
		return models.BidResponse{}, sql.ErrNoRows
	}
	return *response, nil
}

func (f *fakeStore) UpdateResponseProposal(_ context.Context, response models.BidResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.responses[response.BidRequestId]
	if !ok {
		return models.ErrNoResponse
	}
	stored.CoverLetter = response.CoverLetter
	stored.ProposedPrice = response.ProposedPrice
	stored.EstimatedDays = response.EstimatedDays
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) SetResponseDecision(_ context.Context, response models.BidResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.responses[response.BidRequestId]
	if !ok {
		return models.ErrNoResponse
	}
	stored.AdminMarkupPercent = response.AdminMarkupPercent
	stored.AdminComment = response.AdminComment
	stored.RejectionReason = response.RejectionReason
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) GetComparisonCandidates(_ context.Context, projectId string) ([]scoring.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []scoring.Candidate
	for _, id := range f.requestIds {
		request := f.requests[id]
		if request.ProjectId != projectId {
			continue
		}
		candidate := scoring.Candidate{
			BidRequestId: request.Id,
			SpecialistId: request.SpecialistId,
			Status:       request.Status,
		}
		if specialist, ok := f.specialists[request.SpecialistId]; ok {
			candidate.ExperienceYears = specialist.ExperienceYears
			candidate.Rating = specialist.Rating
		}
		if response, ok := f.responses[request.Id]; ok {
			candidate.ProposedPrice = response.ProposedPrice
			candidate.EstimatedDays = response.EstimatedDays
		}
		result = append(result, candidate)
	}
	return result, nil
}

func (f *fakeStore) AddMessage(_ context.Context, message models.BidMessage) (models.BidMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	message.Id = uuid.NewString()
	message.CreatedAt = time.Now()
	f.messages = append(f.messages, message)
	return message, nil
}

func (f *fakeStore) GetMessages(_ context.Context, bidRequestId string, limit, offset int) ([]models.BidMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.BidMessage
	for _, message := range f.messages {
		if message.BidRequestId == bidRequestId {
			result = append(result, message)
		}
	}
	if offset < len(result) {
		result = result[offset:]
	} else {
		result = nil
	}
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeStore) DeleteMessage(_ context.Context, UUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, message := range f.messages {
		if message.Id == UUID {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return models.ErrNoMessage
}

func (f *fakeStore) UpsertAssignment(_ context.Context, assignment models.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := assignment.ProjectId + "|" + assignment.SpecialistId + "|" + string(assignment.Role)
	if stored, ok := f.assignments[key]; ok {
		stored.Active = true
		stored.UpdatedAt = time.Now()
		return nil
	}
	assignment.Active = true
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = assignment.CreatedAt
	f.assignments[key] = &assignment
	return nil
}

func (f *fakeStore) DeactivateAssignment(_ context.Context, projectId, specialistId string, role models.AssignmentRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := projectId + "|" + specialistId + "|" + string(role)
	if stored, ok := f.assignments[key]; ok {
		stored.Active = false
		stored.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeStore) GetAssignments(_ context.Context, projectId string) ([]models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Assignment
	for _, assignment := range f.assignments {
		if assignment.ProjectId == projectId {
			result = append(result, *assignment)
		}
	}
	return result, nil
}

func (f *fakeStore) AddAttachment(_ context.Context, attachment models.ResponseAttachment) (models.ResponseAttachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	attachment.Id = uuid.NewString()
	attachment.CreatedAt = time.Now()
	f.attachments = append(f.attachments, attachment)
	return attachment, nil
}

func (f *fakeStore) GetAttachments(_ context.Context, bidRequestId string) ([]models.ResponseAttachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.ResponseAttachment
	for _, attachment := range f.attachments {
		if attachment.BidRequestId == bidRequestId {
			result = append(result, attachment)
		}
	}
	return result, nil
}

//// Collaborator fakes

type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.EventKind
	users  []string
	fail   bool
}

func (n *fakeNotifier) Notify(_ context.Context, userId string, event notify.EventKind, _ map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return fmt.Errorf("notification sink unavailable")
	}
	n.events = append(n.events, event)
	n.users = append(n.users, userId)
	return nil
}

func (n *fakeNotifier) count(event notify.EventKind) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, e := range n.events {
		if e == event {
			count++
		}
	}
	return count
}

type fakeFiles struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{blobs: make(map[string][]byte)}
}

func (f *fakeFiles) Upload(_ context.Context, r io.Reader, _, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	reference := uuid.NewString()
	f.blobs[reference] = data
	return reference, nil
}

func (f *fakeFiles) Delete(_ context.Context, reference string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, reference)
	return nil
}

//// Setup helpers

type testEnv struct {
	store    *fakeStore
	notifier *fakeNotifier
	files    *fakeFiles
	service  *Service

	projectId    string
	clientId     string
	specialistId string
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	files := newFakeFiles()

	log := logrus.New()
	log.SetOutput(io.Discard)

	env := &testEnv{
		store:    store,
		notifier: notifier,
		files:    files,
		service:  NewService(store, notifier, files, log),

		projectId:    uuid.NewString(),
		clientId:     uuid.NewString(),
		specialistId: uuid.NewString(),
	}

	store.projects[env.projectId] = models.Project{Id: env.projectId, Name: "Office retrofit", ClientId: env.clientId}
	store.specialists[env.specialistId] = models.Specialist{Id: env.specialistId, FullName: "Test Specialist", ExperienceYears: 10, Rating: 4.5}

	return env
}

func (env *testEnv) addSpecialist(experience, rating float64) string {
	id := uuid.NewString()
	env.store.specialists[id] = models.Specialist{Id: id, FullName: "Specialist " + id[:8], ExperienceYears: experience, Rating: rating}
	return id
}

func (env *testEnv) newRequest(specialistId string) models.BidRequest {
	request, err := env.service.CreateBidRequest(context.Background(), models.BidRequest{
		ProjectId:      env.projectId,
		SpecialistId:   specialistId,
		Title:          "Structural survey",
		Description:    "Full structural survey of the site",
		ProposedBudget: decimalFromInt(100000),
		Deadline:       time.Now().Add(30 * 24 * time.Hour),
	})
	if err != nil {
		panic(err)
	}
	return request
}

func (env *testEnv) respond(bidRequestId, specialistId string, price int64, days int) models.BidResponse {
	response, err := env.service.SubmitResponse(context.Background(), bidRequestId, specialistId, models.BidResponse{
		CoverLetter:   "Ready to start",
		ProposedPrice: decimalFromInt(price),
		EstimatedDays: days,
	})
	if err != nil {
		panic(err)
	}
	return response
}

func uploadBody(body string) io.Reader {
	return bytes.NewBufferString(body)
}

func decimalFromInt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
