package portal

import (
	"context"

	"vpn-coordination-portal/internal/storage"
)

// ReviewView is the read-only merged projection shown on the review page:
// both sides' current payload, the request status and which side the
// presenting token belongs to.
type ReviewView struct {
	Request *storage.VPNRequest
	Side    storage.Side

	Remote *storage.SideConfig
	Local  *storage.SideConfig
}

// FormPath is the relative path of the viewing side's own submission form,
// used by the "edit my info" action.
func (v *ReviewView) FormPath() string {
	return "/" + string(v.Side) + "/" + v.Request.Token(v.Side)
}

// Agreed reports whether the viewing side has already agreed.
func (v *ReviewView) Agreed() bool {
	return v.Request.Agreed(v.Side)
}

// Review resolves a token to the merged review projection.
func (e *Engine) Review(ctx context.Context, token string) (*ReviewView, error) {
	req, side, err := e.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return &ReviewView{
		Request: req,
		Side:    side,
		Remote:  req.RemoteData,
		Local:   req.LocalData,
	}, nil
}
