package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoRecord is returned when no request matches the given id or token.
var ErrNoRecord = errors.New("no matching record")

const sqlInsertRequest = `
	INSERT INTO vpn_requests (
		created_at, name, conn_type, reason,
		requester_name, requester_email,
		remote_contact_name, remote_contact_email, local_team_email,
		remote_token, local_token,
		status, remote_agreed, local_agreed,
		remote_data, local_data
	) VALUES (
		:created_at, :name, :conn_type, :reason,
		:requester_name, :requester_email,
		:remote_contact_name, :remote_contact_email, :local_team_email,
		:remote_token, :local_token,
		:status, :remote_agreed, :local_agreed,
		:remote_data, :local_data
	)`

const sqlUpdateRequest = `
	UPDATE vpn_requests SET
		name = :name,
		conn_type = :conn_type,
		reason = :reason,
		requester_name = :requester_name,
		requester_email = :requester_email,
		remote_contact_name = :remote_contact_name,
		remote_contact_email = :remote_contact_email,
		local_team_email = :local_team_email,
		status = :status,
		remote_agreed = :remote_agreed,
		local_agreed = :local_agreed,
		remote_data = :remote_data,
		local_data = :local_data
	WHERE id = :id`

func (p *SQLProvider) CreateRequest(ctx context.Context, req *VPNRequest) (int64, error) {
	res, err := p.db.NamedExecContext(ctx, sqlInsertRequest, req)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create request id: %w", err)
	}
	req.ID = id
	return id, nil
}

func (p *SQLProvider) GetRequestByID(ctx context.Context, id int64) (*VPNRequest, error) {
	var req VPNRequest
	err := p.db.GetContext(ctx, &req, `SELECT * FROM vpn_requests WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("get request %d: %w", id, err)
	}
	return &req, nil
}

// GetRequestByToken resolves a bearer token to its record and the capability
// side the token grants. A token never grants both sides.
func (p *SQLProvider) GetRequestByToken(ctx context.Context, token string) (*VPNRequest, Side, error) {
	var req VPNRequest
	err := p.db.GetContext(ctx, &req,
		`SELECT * FROM vpn_requests WHERE remote_token = ? OR local_token = ?`, token, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNoRecord
	}
	if err != nil {
		return nil, "", fmt.Errorf("get request by token: %w", err)
	}

	if req.RemoteToken == token {
		return &req, SideRemote, nil
	}
	return &req, SideLocal, nil
}

func (p *SQLProvider) UpdateRequest(ctx context.Context, req *VPNRequest) error {
	res, err := p.db.NamedExecContext(ctx, sqlUpdateRequest, req)
	if err != nil {
		return fmt.Errorf("update request %d: %w", req.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoRecord
	}
	return nil
}

func (p *SQLProvider) ListRequests(ctx context.Context) ([]VPNRequest, error) {
	var reqs []VPNRequest
	err := p.db.SelectContext(ctx, &reqs, `SELECT * FROM vpn_requests ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return reqs, nil
}

func (p *SQLProvider) PurgeRequests(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM vpn_requests`); err != nil {
		return fmt.Errorf("purge requests: %w", err)
	}
	return nil
}
