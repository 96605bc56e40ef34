package admin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"backoffice/internal/core/entity"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/catalogs/rubro"
	"backoffice/internal/domain/filter"
)

// Transport performs JSON requests against the catalog API. Non-2xx
// responses are returned as *apperror.TransportError.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values, out any) (int, error)
	Post(ctx context.Context, path string, body, out any) (int, error)
	Patch(ctx context.Context, path string, body, out any) (int, error)
	Delete(ctx context.Context, path string) (int, error)
}

// Service is the part of EntityService the Store depends on.
type Service[T entity.Entity[T]] interface {
	List(ctx context.Context, state filter.State) ([]T, error)
	Create(ctx context.Context, draft T) (T, int, error)
	Update(ctx context.Context, id string, patch entity.Patch) (T, error)
	Retire(ctx context.Context, id string) error
}

var _ Service[rubro.Rubro] = (*EntityService[rubro.Rubro])(nil)

// EntityService maps catalog operations onto REST calls for one entity type.
// It only shapes URLs and payloads; errors propagate unchanged.
type EntityService[T entity.Entity[T]] struct {
	transport Transport
	desc      Descriptor
}

// NewEntityService creates a service for the entity described by desc.
func NewEntityService[T entity.Entity[T]](t Transport, desc Descriptor) *EntityService[T] {
	return &EntityService[T]{transport: t, desc: desc}
}

// Descriptor returns the entity descriptor.
func (s *EntityService[T]) Descriptor() Descriptor {
	return s.desc
}

func (s *EntityService[T]) collection() string {
	return s.desc.Path + "/"
}

func (s *EntityService[T]) item(id string) string {
	return s.desc.Path + "/" + url.PathEscape(id)
}

// List fetches records in the given state: GET {path}/?estado=...
func (s *EntityService[T]) List(ctx context.Context, state filter.State) ([]T, error) {
	return s.ListWhere(ctx, state, nil)
}

// ListWhere is List with extra equality query parameters (e.g. rubro_id).
func (s *EntityService[T]) ListWhere(ctx context.Context, state filter.State, extra url.Values) ([]T, error) {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	q.Set("estado", string(state))

	var out []T
	if _, err := s.transport.Get(ctx, s.collection(), q, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Get fetches one record by id.
func (s *EntityService[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	_, err := s.transport.Get(ctx, s.item(id), nil, &out)
	return out, err
}

// Create posts the full draft and returns the decoded record with the
// response status; callers decide which status means "created".
func (s *EntityService[T]) Create(ctx context.Context, draft T) (T, int, error) {
	var out T
	status, err := s.transport.Post(ctx, s.collection(), draft, &out)
	return out, status, err
}

// Update sends a partial update: PATCH {path}/{id}.
func (s *EntityService[T]) Update(ctx context.Context, id string, patch entity.Patch) (T, error) {
	var out T
	_, err := s.transport.Patch(ctx, s.item(id), patch, &out)
	return out, err
}

// Retire soft-deletes a record: DELETE {path}/{id}. Success carries no body.
func (s *EntityService[T]) Retire(ctx context.Context, id string) error {
	_, err := s.transport.Delete(ctx, s.item(id))
	return err
}

// NextCodeResponse is the body of GET {path}/codigo/next.
type NextCodeResponse struct {
	Codigo int64 `json:"codigo"`
}

// NextCode asks the backend counter for the next numeric code.
func (s *EntityService[T]) NextCode(ctx context.Context) (int64, error) {
	if !s.desc.HasCounter {
		return 0, fmt.Errorf("%s: no code counter", s.desc.Label)
	}
	var out NextCodeResponse
	if _, err := s.transport.Get(ctx, s.desc.Path+"/codigo/next", nil, &out); err != nil {
		return 0, err
	}
	return out.Codigo, nil
}

// History fetches the audit journal of a record, newest first.
func (s *EntityService[T]) History(ctx context.Context, id string, limit int) ([]audit.Entry, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limite": {strconv.Itoa(limit)}}
	}
	var out []audit.Entry
	if _, err := s.transport.Get(ctx, s.item(id)+"/historial", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
