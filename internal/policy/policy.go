// Package policy holds the permission predicates guarding each resource.
//
// Every policy answers two questions: may the caller invoke this class of
// operation at all, and may the caller act on a specific object.
package policy

import (
	"net/http"

	"github.com/google/uuid"
)

// Owned is implemented by objects that have an author.
type Owned interface {
	OwnerID() uuid.UUID
}

type Policy interface {
	HasPermission(c Caller, method string) bool
	HasObjectPermission(c Caller, method string, obj Owned) bool
}

// IsSafeMethod reports read-only HTTP methods.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func isOwner(c Caller, obj Owned) bool {
	return c.Authenticated() && obj != nil && obj.OwnerID() == c.UserID
}

// AuthorOrReadOnly lets anyone read and only the author write.
type AuthorOrReadOnly struct{}

func (AuthorOrReadOnly) HasPermission(Caller, string) bool { return true }

func (AuthorOrReadOnly) HasObjectPermission(c Caller, method string, obj Owned) bool {
	return IsSafeMethod(method) || isOwner(c, obj)
}

// AuthorOrElevatedOrReadOnly guards reviews and comments.
type AuthorOrElevatedOrReadOnly struct{}

func (AuthorOrElevatedOrReadOnly) HasPermission(c Caller, method string) bool {
	return IsSafeMethod(method) || c.Authenticated()
}

func (AuthorOrElevatedOrReadOnly) HasObjectPermission(c Caller, method string, obj Owned) bool {
	return IsSafeMethod(method) || isOwner(c, obj) || c.IsModerator()
}

// ElevatedOnly guards user administration.
type ElevatedOnly struct{}

func (ElevatedOnly) HasPermission(c Caller, _ string) bool { return c.IsAdmin() }

func (p ElevatedOnly) HasObjectPermission(c Caller, method string, _ Owned) bool {
	return p.HasPermission(c, method)
}

// SafeOrElevated guards the catalog: categories, genres and titles.
type SafeOrElevated struct{}

func (SafeOrElevated) HasPermission(c Caller, method string) bool {
	return IsSafeMethod(method) || c.IsAdmin()
}

func (p SafeOrElevated) HasObjectPermission(c Caller, method string, _ Owned) bool {
	return p.HasPermission(c, method)
}

// Authenticated admits any signed-in caller.
type Authenticated struct{}

func (Authenticated) HasPermission(c Caller, _ string) bool { return c.Authenticated() }

func (Authenticated) HasObjectPermission(c Caller, _ string, _ Owned) bool {
	return c.Authenticated()
}
