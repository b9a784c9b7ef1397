// Package identity decides who is editing a file and what they may do with it.
// CheckFileInfo reads every identity and permission field through a Provider.
package identity

import (
	"context"

	"resumehost/internal/config"
)

// Permissions are the WOPI capability flags reported for a user.
type Permissions struct {
	UserCanWrite  bool
	DisablePrint  bool
	DisableExport bool
	DisableCopy   bool
}

// Identity is the user and owner attached to a WOPI request.
type Identity struct {
	OwnerID          string
	UserID           string
	UserFriendlyName string
	Permissions      Permissions
}

// Provider resolves the identity for a request on fileID.
type Provider interface {
	Identify(ctx context.Context, fileID string) (Identity, error)
}

// Static returns the same identity for every request. The host is
// single-tenant and unauthenticated, so this is the only provider.
type Static struct {
	id Identity
}

var _ Provider = (*Static)(nil)

// NewStatic builds a Static provider from config.
func NewStatic(cfg config.IdentityConfig) *Static {
	return &Static{id: Identity{
		OwnerID:          cfg.OwnerID,
		UserID:           cfg.UserID,
		UserFriendlyName: cfg.UserName,
		Permissions: Permissions{
			UserCanWrite:  cfg.UserCanWrite,
			DisablePrint:  cfg.DisablePrint,
			DisableExport: cfg.DisableExport,
			DisableCopy:   cfg.DisableCopy,
		},
	}}
}

// Identify implements Provider.
func (s *Static) Identify(ctx context.Context, _ string) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}
	return s.id, nil
}
