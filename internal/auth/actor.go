package auth

import "context"

// Actor is the authenticated identity a request acts as.
type Actor struct {
	UserID      uint
	Username    string
	Email       string
	IsSuperuser bool
}

type actorKey struct{}

func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns nil when the request is anonymous.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorKey{}).(*Actor)
	return actor
}
