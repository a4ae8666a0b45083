package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a VPN request.
type Status string

const (
	StatusCollecting Status = "collecting"
	StatusReviewing  Status = "reviewing"
	StatusFinalized  Status = "finalized"
	StatusCancelled  Status = "cancelled"
)

// Side identifies one of the two parties of a request.
type Side string

const (
	SideRemote Side = "remote"
	SideLocal  Side = "local"
)

// Connection types offered on the request form.
const (
	ConnTypePolicy = "Policy"
	ConnTypeRouted = "Routed"
)

// SideConfig is the technical configuration one side supplies through its
// tokenized form. Persisted as a JSON text column.
type SideConfig struct {
	ContactName  string `json:"contact_name" form:"contact_name"`
	ContactEmail string `json:"contact_email" form:"contact_email"`
	Gateway      string `json:"gateway" form:"gateway"`
	IKEVersion   string `json:"ike_version" form:"ike_version"`
	Encryption   string `json:"encryption" form:"encryption"`
	Hashing      string `json:"hashing" form:"hashing"`
	DHGroup      string `json:"dh_group" form:"dh_group"`
	Subnets      string `json:"subnets" form:"subnets"`
	Notes        string `json:"notes" form:"notes"`
}

func (s *SideConfig) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("side config marshal: %w", err)
	}
	return string(b), nil
}

func (s *SideConfig) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("side config scan: unsupported type %T", value)
	}
}

// VPNRequest is the sole persisted entity of the portal.
type VPNRequest struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	Name     string `db:"name"`
	ConnType string `db:"conn_type"` // Policy | Routed
	Reason   string `db:"reason"`

	// Requester identity is informational only.
	RequesterName  string `db:"requester_name"`
	RequesterEmail string `db:"requester_email"`

	RemoteContactName  string `db:"remote_contact_name"`
	RemoteContactEmail string `db:"remote_contact_email"`
	// One or more team addresses, comma separated. All are notified identically.
	LocalTeamEmail string `db:"local_team_email"`

	RemoteToken string `db:"remote_token"`
	LocalToken  string `db:"local_token"`

	Status       Status `db:"status"`
	RemoteAgreed bool   `db:"remote_agreed"`
	LocalAgreed  bool   `db:"local_agreed"`

	RemoteData *SideConfig `db:"remote_data"`
	LocalData  *SideConfig `db:"local_data"`
}

// SideData returns the stored payload for the given side, nil when not yet
// submitted.
func (r *VPNRequest) SideData(side Side) *SideConfig {
	if side == SideRemote {
		return r.RemoteData
	}
	return r.LocalData
}

// SetSideData replaces the given side's payload in full. Partial merges are
// intentionally not supported.
func (r *VPNRequest) SetSideData(side Side, data *SideConfig) {
	if side == SideRemote {
		r.RemoteData = data
	} else {
		r.LocalData = data
	}
}

// Agreed reports whether the given side has recorded agreement.
func (r *VPNRequest) Agreed(side Side) bool {
	if side == SideRemote {
		return r.RemoteAgreed
	}
	return r.LocalAgreed
}

// SetAgreed records or clears one side's agreement flag.
func (r *VPNRequest) SetAgreed(side Side, agreed bool) {
	if side == SideRemote {
		r.RemoteAgreed = agreed
	} else {
		r.LocalAgreed = agreed
	}
}

// Token returns the bearer token scoped to the given side.
func (r *VPNRequest) Token(side Side) string {
	if side == SideRemote {
		return r.RemoteToken
	}
	return r.LocalToken
}

func (r *VPNRequest) IsCancelled() bool { return r.Status == StatusCancelled }
func (r *VPNRequest) IsFinalized() bool { return r.Status == StatusFinalized }

// BothSubmitted reports whether both parties have supplied their payload.
func (r *VPNRequest) BothSubmitted() bool {
	return r.RemoteData != nil && r.LocalData != nil
}

// StatusLabel renders the status for display, e.g. "Collecting".
func (r *VPNRequest) StatusLabel() string {
	s := string(r.Status)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Clone returns a deep copy, so callers can mutate records without aliasing
// stored state.
func (r *VPNRequest) Clone() *VPNRequest {
	out := *r
	if r.RemoteData != nil {
		d := *r.RemoteData
		out.RemoteData = &d
	}
	if r.LocalData != nil {
		d := *r.LocalData
		out.LocalData = &d
	}
	return &out
}
