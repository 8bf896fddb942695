package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
	"github.com/digitaleng1/digitalbuild-sub001/internal/scoring"
	"github.com/digitaleng1/digitalbuild-sub001/internal/service"
)

// Default comparison weights used when the query carries none.
var defaultWeights = scoring.Weights{Price: 40, Duration: 30, Experience: 20, Rating: 10}

type Service interface {
	CreateBidRequest(ctx context.Context, request models.BidRequest) (models.BidRequest, error)
	GetBidRequest(ctx context.Context, bidRequestId string) (models.BidRequest, *models.BidResponse, error)
	ListBidRequests(ctx context.Context, limit, offset int, projectId, specialistId string) ([]models.BidRequest, error)
	ListTransitions(ctx context.Context, bidRequestId string) ([]models.BidTransition, error)
	DeleteBidRequest(ctx context.Context, bidRequestId string) error

	SubmitResponse(ctx context.Context, bidRequestId, specialistId string, response models.BidResponse) (models.BidResponse, error)
	EditResponse(ctx context.Context, bidRequestId, specialistId string, response models.BidResponse) (models.BidResponse, error)
	Accept(ctx context.Context, bidRequestId, approverId string, markupPercent decimal.NullDecimal, comment string) (service.Outcome, error)
	Reject(ctx context.Context, bidRequestId, approverId, reason string) (service.Outcome, error)
	Withdraw(ctx context.Context, bidRequestId, specialistId string) (models.BidRequest, error)

	PostMessage(ctx context.Context, bidRequestId, senderId, body string) (models.BidMessage, error)
	ListMessages(ctx context.Context, bidRequestId string, limit, offset int) ([]models.BidMessage, error)
	DeleteMessage(ctx context.Context, messageId string) error

	AttachResponseFile(ctx context.Context, bidRequestId, specialistId, filename, contentType string, r io.Reader) (models.ResponseAttachment, error)
	ListAttachments(ctx context.Context, bidRequestId string) ([]models.ResponseAttachment, error)

	CompareProjectBids(ctx context.Context, projectId string, weights scoring.Weights) ([]scoring.Entry, error)
}

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

//// Bid requests

// GET /api/ping
func (c *Controller) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

// POST /api/bids/new
func (c *Controller) NewBidRequest(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewBidRequestReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	request, err := c.service.CreateBidRequest(r.Context(), models.BidRequest{
		ProjectId:      req.ProjectId,
		SpecialistId:   req.SpecialistId,
		Title:          req.Title,
		Description:    req.Description,
		ProposedBudget: req.ProposedBudget,
		Deadline:       req.Deadline,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, request)
}

// GET /api/bids
func (c *Controller) GetBidRequests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return
	}

	offset, err := c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return
	}

	requests, err := c.service.ListBidRequests(r.Context(), limit, offset, query.Get("projectId"), query.Get("specialistId"))
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, requests)
}

// GET /api/bids/{bidId}
func (c *Controller) GetBidRequest(w http.ResponseWriter, r *http.Request) {
	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	request, response, err := c.service.GetBidRequest(r.Context(), bidId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, struct {
		Request  models.BidRequest   `json:"request"`
		Response *models.BidResponse `json:"response,omitempty"`
	}{request, response})
}

// DELETE /api/bids/{bidId}
func (c *Controller) DeleteBidRequest(w http.ResponseWriter, r *http.Request) {
	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	err := c.service.DeleteBidRequest(r.Context(), bidId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GET /api/bids/{bidId}/history
func (c *Controller) BidHistory(w http.ResponseWriter, r *http.Request) {
	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	transitions, err := c.service.ListTransitions(r.Context(), bidId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, transitions)
}

//// Responses and decisions

// POST /api/bids/{bidId}/response
func (c *Controller) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseBidResponseReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	response, err := c.service.SubmitResponse(r.Context(), bidId, req.SpecialistId, models.BidResponse{
		CoverLetter:   req.CoverLetter,
		ProposedPrice: req.ProposedPrice,
		EstimatedDays: req.EstimatedDays,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, response)
}

// PUT /api/bids/{bidId}/response
func (c *Controller) EditResponse(w http.ResponseWriter, r *http.Request) {
	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseBidResponseReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	response, err := c.service.EditResponse(r.Context(), bidId, req.SpecialistId, models.BidResponse{
		CoverLetter:   req.CoverLetter,
		ProposedPrice: req.ProposedPrice,
		EstimatedDays: req.EstimatedDays,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, response)
}

// PUT /api/bids/{bidId}/accept
func (c *Controller) AcceptBid(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	approverId := query.Get("approverId")
	if len(approverId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty approverId supplied")
		return
	}

	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseAcceptReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := c.service.Accept(r.Context(), bidId, approverId, req.MarkupPercent, req.Comment)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, outcome)
}

// PUT /api/bids/{bidId}/reject
func (c *Controller) RejectBid(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	approverId := query.Get("approverId")
	if len(approverId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty approverId supplied")
		return
	}

	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseRejectReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := c.service.Reject(r.Context(), bidId, approverId, req.Reason)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, outcome)
}

// PUT /api/bids/{bidId}/withdraw
func (c *Controller) WithdrawBid(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	specialistId := query.Get("specialistId")
	if len(specialistId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty specialistId supplied")
		return
	}

	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	request, err := c.service.Withdraw(r.Context(), bidId, specialistId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, request)
}

//// Messages

// POST /api/bids/{bidId}/messages
func (c *Controller) PostMessage(w http.ResponseWriter, r *http.Request) {
	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewMessageReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	message, err := c.service.PostMessage(r.Context(), bidId, req.SenderId, req.Body)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, message)
}

// GET /api/bids/{bidId}/messages
func (c *Controller) GetMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return
	}

	offset, err := c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return
	}

	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	messages, err := c.service.ListMessages(r.Context(), bidId, limit, offset)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, messages)
}

// DELETE /api/messages/{messageId}
func (c *Controller) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageId := r.PathValue("messageId")
	if len(messageId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty messageId supplied")
		return
	}

	err := c.service.DeleteMessage(r.Context(), messageId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

//// Attachments

// POST /api/bids/{bidId}/attachments
func (c *Controller) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	specialistId := query.Get("specialistId")
	if len(specialistId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty specialistId supplied")
		return
	}

	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "missing or malformed 'file' form field")
		return
	}
	defer file.Close()

	attachment, err := c.service.AttachResponseFile(r.Context(), bidId, specialistId,
		header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, attachment)
}

// GET /api/bids/{bidId}/attachments
func (c *Controller) GetAttachments(w http.ResponseWriter, r *http.Request) {
	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	attachments, err := c.service.ListAttachments(r.Context(), bidId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, attachments)
}

//// Comparison

// GET /api/projects/{projectId}/compare
func (c *Controller) CompareBids(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	projectId := r.PathValue("projectId")
	if len(projectId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty projectId supplied")
		return
	}

	weights := defaultWeights
	for _, param := range []struct {
		key  string
		dest *float64
	}{
		{"price", &weights.Price},
		{"duration", &weights.Duration},
		{"experience", &weights.Experience},
		{"rating", &weights.Rating},
	} {
		val, ok, err := c.getQueryFloat(query, param.key)
		if err != nil {
			c.errorResponse(w, http.StatusBadRequest, "invalid value of '"+param.key+"' query parameter: "+query.Get(param.key))
			return
		}
		if ok {
			*param.dest = val
		}
	}

	entries, err := c.service.CompareProjectBids(r.Context(), projectId, weights)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, entries)
}

// Service

type ErrorResponse struct {
	Reason string `json:"reason"`
}

func (c *Controller) getQueryInt(query url.Values, key string) (int, error) {
	strs, ok := query[key]
	if ok && len(strs) > 0 {
		return strconv.Atoi(strs[0])
	}
	return 0, nil
}

func (c *Controller) getQueryFloat(query url.Values, key string) (float64, bool, error) {
	strs, ok := query[key]
	if !ok || len(strs) == 0 {
		return 0, false, nil
	}
	val, err := strconv.ParseFloat(strs[0], 64)
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (c *Controller) errorResponse(w http.ResponseWriter, status int, text string) {
	w.WriteHeader(status)

	data, err := json.Marshal(ErrorResponse{Reason: text})
	if err != nil {
		logrus.WithError(err).Error("controller.Controller.errorResponse")
		return
	}

	_, err = w.Write(data)
	if err != nil {
		logrus.WithError(err).Error("controller.Controller.errorResponse")
		return
	}
}

func (c *Controller) serviceErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNoProject):
		c.errorResponse(w, http.StatusNotFound, "requested project does not exist")
	case errors.Is(err, models.ErrNoSpecialist):
		c.errorResponse(w, http.StatusNotFound, "requested specialist does not exist")
	case errors.Is(err, models.ErrNoBidRequest):
		c.errorResponse(w, http.StatusNotFound, "requested bid does not exist")
	case errors.Is(err, models.ErrNoResponse):
		c.errorResponse(w, http.StatusNotFound, "requested bid has no response")
	case errors.Is(err, models.ErrNoMessage):
		c.errorResponse(w, http.StatusNotFound, "requested message does not exist")
	case errors.Is(err, models.ErrNotInvitee):
		c.errorResponse(w, http.StatusForbidden, "only the invited specialist may perform the requested action")
	case errors.Is(err, models.ErrInvalidState):
		c.errorResponse(w, http.StatusConflict, stateErrorText(err))
	case errors.Is(err, models.ErrStaleStatus):
		c.errorResponse(w, http.StatusConflict, "bid status changed concurrently, refetch and retry")
	case errors.Is(err, models.ErrDuplicateResponse):
		c.errorResponse(w, http.StatusConflict, "requested bid already has a response")
	case errors.Is(err, models.ErrEmptyReason):
		c.errorResponse(w, http.StatusBadRequest, "empty rejection reason supplied")
	case errors.Is(err, models.ErrEmptyMessage):
		c.errorResponse(w, http.StatusBadRequest, "empty message body supplied")
	case errors.Is(err, scoring.ErrNegativeWeight):
		c.errorResponse(w, http.StatusBadRequest, "comparison weights must not be negative")
	default:
		logrus.WithError(err).Error("controller")
		c.errorResponse(w, http.StatusInternalServerError, "internal server error: "+err.Error())
	}
}

// stateErrorText surfaces the current vs requested statuses when the
// wrapped chain carries a StateError.
func stateErrorText(err error) string {
	var stateErr *models.StateError
	if errors.As(err, &stateErr) {
		return stateErr.Error()
	}
	return "requested status transition is not allowed"
}

func (c *Controller) marshalResponse(w http.ResponseWriter, data any) {
	d, err := json.Marshal(data)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not marshal response data")
		return
	}

	_, err = w.Write(d)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not write response data")
		return
	}
}

func (c *Controller) readBody(src io.ReadCloser) ([]byte, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	src.Close()
	return data, nil
}
