package auth

import (
	"context"

	"halalan/internal/model"
)

type voterKey struct{}
type adminKey struct{}

// WithVoter attaches the authenticated voter to the request context.
func WithVoter(ctx context.Context, v *model.Voter) context.Context {
	return context.WithValue(ctx, voterKey{}, v)
}

// VoterFrom returns the authenticated voter, or nil if the request carried
// no valid voter session.
func VoterFrom(ctx context.Context) *model.Voter {
	v, _ := ctx.Value(voterKey{}).(*model.Voter)
	return v
}

// WithAdmin attaches the authenticated admin to the request context.
func WithAdmin(ctx context.Context, a *model.Admin) context.Context {
	return context.WithValue(ctx, adminKey{}, a)
}

// AdminFrom returns the authenticated admin, or nil.
func AdminFrom(ctx context.Context) *model.Admin {
	a, _ := ctx.Value(adminKey{}).(*model.Admin)
	return a
}
