// Package portal implements the request lifecycle engine: the state machine
// that moves a VPN request between collection, mutual review, agreement and
// the terminal states, plus the token-scoped access resolution for the two
// parties.
package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vpn-coordination-portal/internal/storage"
	"vpn-coordination-portal/internal/utils"
)

// Store is the record store the engine operates on. Implemented by
// storage.Provider; tests supply an in-memory fake.
type Store interface {
	CreateRequest(ctx context.Context, req *storage.VPNRequest) (int64, error)
	GetRequestByID(ctx context.Context, id int64) (*storage.VPNRequest, error)
	GetRequestByToken(ctx context.Context, token string) (*storage.VPNRequest, storage.Side, error)
	UpdateRequest(ctx context.Context, req *storage.VPNRequest) error
	ListRequests(ctx context.Context) ([]storage.VPNRequest, error)
}

// Notifier dispatches a notification mail. Best effort: implementations must
// not fail the caller, only report delivery problems through their own
// logging.
type Notifier interface {
	Send(to []string, subject string, html string)
}

// Engine owns the lifecycle state machine. Construct with NewEngine; all
// operations take the store and notifier through the instance, there is no
// package level state.
type Engine struct {
	store    Store
	notifier Notifier
	baseURL  string
	logger   *slog.Logger
	locks    *requestLocks
}

func NewEngine(store Store, notifier Notifier, baseURL string) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   slog.With("component", "portal"),
		locks:    newRequestLocks(),
	}
}

// CreateInput carries the initial request form. Requester identity is
// optional, everything else is required.
type CreateInput struct {
	Name     string
	ConnType string
	Reason   string

	RequesterName  string
	RequesterEmail string

	RemoteContactName  string
	RemoteContactEmail string
	LocalTeamEmail     string
}

func (in *CreateInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: VPN name is required", ErrValidation)
	case in.ConnType != storage.ConnTypePolicy && in.ConnType != storage.ConnTypeRouted:
		return fmt.Errorf("%w: VPN type must be %s or %s", ErrValidation,
			storage.ConnTypePolicy, storage.ConnTypeRouted)
	case strings.TrimSpace(in.Reason) == "":
		return fmt.Errorf("%w: reason is required", ErrValidation)
	case strings.TrimSpace(in.RemoteContactName) == "":
		return fmt.Errorf("%w: remote contact name is required", ErrValidation)
	}

	if err := utils.ValidEmail(strings.TrimSpace(in.RemoteContactEmail)); err != nil {
		return fmt.Errorf("%w: remote contact email: %v", ErrValidation, err)
	}
	if err := utils.ValidAddressList(in.LocalTeamEmail); err != nil {
		return fmt.Errorf("%w: local team email: %v", ErrValidation, err)
	}
	if in.RequesterEmail != "" {
		if err := utils.ValidEmail(strings.TrimSpace(in.RequesterEmail)); err != nil {
			return fmt.Errorf("%w: requester email: %v", ErrValidation, err)
		}
	}
	return nil
}

// Number of attempts to persist a record before giving up on token
// collisions.
const createAttempts = 3

// Create validates the initial form, assigns the two side tokens, persists
// the record in collecting state and emails both parties their form link.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*storage.VPNRequest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	req := &storage.VPNRequest{
		CreatedAt:          time.Now().UTC(),
		Name:               strings.TrimSpace(in.Name),
		ConnType:           in.ConnType,
		Reason:             strings.TrimSpace(in.Reason),
		RequesterName:      strings.TrimSpace(in.RequesterName),
		RequesterEmail:     strings.TrimSpace(in.RequesterEmail),
		RemoteContactName:  strings.TrimSpace(in.RemoteContactName),
		RemoteContactEmail: strings.TrimSpace(in.RemoteContactEmail),
		LocalTeamEmail:     strings.Join(utils.SplitAddressList(in.LocalTeamEmail), ","),
		Status:             storage.StatusCollecting,
	}

	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		if err := e.assignTokens(req); err != nil {
			return nil, err
		}
		if _, lastErr = e.store.CreateRequest(ctx, req); lastErr == nil {
			break
		}
		if !storage.IsUniqueViolation(lastErr) {
			return nil, lastErr
		}
		e.logger.Warn("Token collision on create, regenerating", "attempt", attempt+1)
	}
	if lastErr != nil {
		return nil, lastErr
	}

	e.logger.Info("Created VPN request", "id", req.ID, "name", req.Name)
	e.sendInitialInvites(req, false)

	return req, nil
}

func (e *Engine) assignTokens(req *storage.VPNRequest) error {
	for {
		remote, err := utils.GenerateToken()
		if err != nil {
			return err
		}
		local, err := utils.GenerateToken()
		if err != nil {
			return err
		}
		if remote == local {
			continue
		}
		req.RemoteToken = remote
		req.LocalToken = local
		return nil
	}
}

// storeErr maps the store's missing-record sentinel to the engine taxonomy.
// Any other store failure passes through so the transport layer reports it
// as a server error, not a 404.
func storeErr(err error) error {
	if errors.Is(err, storage.ErrNoRecord) {
		return ErrNotFound
	}
	return err
}

// ResolveToken looks up a bearer token, returning the record and the side
// the token grants. The record is a snapshot; mutating operations re-read
// under the per-request lock.
func (e *Engine) ResolveToken(ctx context.Context, token string) (*storage.VPNRequest, storage.Side, error) {
	req, side, err := e.store.GetRequestByToken(ctx, token)
	if err != nil {
		return nil, "", storeErr(err)
	}
	return req, side, nil
}

// SubmitSideData replaces one side's payload in full and evaluates the
// collecting→reviewing transition. want guards against a token being used
// on the other side's endpoint. Re-submission during review resets the
// submitting side's own agreement, since the underlying data changed; the
// other side's flag is untouched.
func (e *Engine) SubmitSideData(ctx context.Context, token string, want storage.Side, data storage.SideConfig) (*storage.VPNRequest, error) {
	if strings.TrimSpace(data.Gateway) == "" {
		return nil, fmt.Errorf("%w: gateway is required", ErrValidation)
	}

	resolved, side, err := e.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if want != "" && side != want {
		return nil, ErrNotFound
	}

	mu := e.locks.get(resolved.ID)
	mu.Lock()

	req, err := e.store.GetRequestByID(ctx, resolved.ID)
	if err != nil {
		mu.Unlock()
		return nil, storeErr(err)
	}

	switch req.Status {
	case storage.StatusCancelled:
		mu.Unlock()
		return nil, fmt.Errorf("%w: request has been cancelled", ErrState)
	case storage.StatusFinalized:
		mu.Unlock()
		return nil, fmt.Errorf("%w: request has been finalized", ErrState)
	}

	req.SetSideData(side, &data)
	if req.Agreed(side) {
		// The data under the prior agreement changed.
		req.SetAgreed(side, false)
	}

	transitioned := false
	if req.Status == storage.StatusCollecting && req.BothSubmitted() {
		req.Status = storage.StatusReviewing
		transitioned = true
	}

	if err := e.store.UpdateRequest(ctx, req); err != nil {
		mu.Unlock()
		return nil, err
	}
	mu.Unlock()

	e.logger.Info("Side data submitted", "id", req.ID, "side", side, "status", req.Status)

	if transitioned {
		e.sendReviewInvites(req, false)
	}

	return req, nil
}

// RecordAgreement marks the token's side as agreed and evaluates
// finalization. Agreeing twice is harmless. Returns the updated record and
// whether this call finalized the request.
func (e *Engine) RecordAgreement(ctx context.Context, token string) (*storage.VPNRequest, storage.Side, bool, error) {
	resolved, side, err := e.ResolveToken(ctx, token)
	if err != nil {
		return nil, "", false, err
	}

	mu := e.locks.get(resolved.ID)
	mu.Lock()

	req, err := e.store.GetRequestByID(ctx, resolved.ID)
	if err != nil {
		mu.Unlock()
		return nil, "", false, storeErr(err)
	}

	switch req.Status {
	case storage.StatusCancelled:
		mu.Unlock()
		return nil, "", false, fmt.Errorf("%w: request has been cancelled", ErrState)
	case storage.StatusCollecting:
		// Agreement flags are only meaningful once both payloads are in.
		mu.Unlock()
		return nil, "", false, fmt.Errorf("%w: request is not ready for review", ErrState)
	case storage.StatusFinalized:
		mu.Unlock()
		return req, side, false, nil
	}

	req.SetAgreed(side, true)

	finalized := false
	if req.RemoteAgreed && req.LocalAgreed {
		req.Status = storage.StatusFinalized
		finalized = true
	}

	if err := e.store.UpdateRequest(ctx, req); err != nil {
		mu.Unlock()
		return nil, "", false, err
	}
	mu.Unlock()

	e.logger.Info("Agreement recorded", "id", req.ID, "side", side, "finalized", finalized)

	if finalized {
		e.sendFinalSummary(req, false)
	}

	return req, side, finalized, nil
}

// Cancel moves a non-terminal request to cancelled. Irreversible; the guard
// rejects cancel-after-finalize and double cancel. No notification is sent.
func (e *Engine) Cancel(ctx context.Context, id int64) error {
	resolved, err := e.store.GetRequestByID(ctx, id)
	if err != nil {
		return storeErr(err)
	}

	mu := e.locks.get(resolved.ID)
	mu.Lock()
	defer mu.Unlock()

	req, err := e.store.GetRequestByID(ctx, id)
	if err != nil {
		return storeErr(err)
	}

	switch req.Status {
	case storage.StatusFinalized, storage.StatusCancelled:
		return fmt.Errorf("%w: request is already %s", ErrState, req.Status)
	}

	req.Status = storage.StatusCancelled
	if err := e.store.UpdateRequest(ctx, req); err != nil {
		return err
	}

	e.logger.Info("Request cancelled", "id", req.ID, "name", req.Name)
	return nil
}

// ResendInitial re-emits the two form invitations without mutating state.
func (e *Engine) ResendInitial(ctx context.Context, id int64) error {
	req, err := e.store.GetRequestByID(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if req.IsCancelled() {
		return fmt.Errorf("%w: request has been cancelled", ErrState)
	}

	e.sendInitialInvites(req, true)
	return nil
}

// ResendAgreement re-emits the review invitations. Requires both payloads.
func (e *Engine) ResendAgreement(ctx context.Context, id int64) error {
	req, err := e.store.GetRequestByID(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if req.IsCancelled() {
		return fmt.Errorf("%w: request has been cancelled", ErrState)
	}
	if !req.BothSubmitted() {
		return fmt.Errorf("%w: both sides have not submitted details yet", ErrState)
	}

	e.sendReviewInvites(req, true)
	return nil
}

// ResendFinal re-emits the finalized summary.
func (e *Engine) ResendFinal(ctx context.Context, id int64) error {
	req, err := e.store.GetRequestByID(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if !req.IsFinalized() {
		return fmt.Errorf("%w: request is not yet finalized", ErrState)
	}

	e.sendFinalSummary(req, true)
	return nil
}

// Get returns a request by id.
func (e *Engine) Get(ctx context.Context, id int64) (*storage.VPNRequest, error) {
	req, err := e.store.GetRequestByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return req, nil
}

// List returns all requests, newest first.
func (e *Engine) List(ctx context.Context) ([]storage.VPNRequest, error) {
	return e.store.ListRequests(ctx)
}
