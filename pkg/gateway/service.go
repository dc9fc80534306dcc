// Package gateway abstracts the remote to-do service's REST API behind
// a narrow typed interface. Credential acquisition and refresh live
// outside; the client only consumes an oauth2 token source.
package gateway

import "context"

// Service is the remote task gateway consumed by the reconciler and the
// delta cache. GetTasksDelta returns a single raw page; callers follow
// NextLink until it is absent before trusting the final DeltaLink.
type Service interface {
	ListLists(ctx context.Context, filter string) ([]List, error)
	CreateList(ctx context.Context, name string) (*List, error)

	GetTasksDelta(ctx context.Context, listID, link string) (*DeltaPage, error)

	CreateTask(ctx context.Context, listID string, payload TaskPayload) (*Task, error)
	UpdateTask(ctx context.Context, listID, taskID string, payload TaskPayload) (*Task, error)
	GetTask(ctx context.Context, listID, taskID string) (*Task, error)

	CreateLinkedResource(ctx context.Context, listID, taskID string, payload LinkedResourcePayload) (*LinkedResource, error)
	UpdateLinkedResource(ctx context.Context, listID, taskID, resourceID string, payload LinkedResourcePayload) (*LinkedResource, error)
}
