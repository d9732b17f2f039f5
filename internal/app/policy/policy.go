// Package policy decides, per request and per resource, whether an actor may
// perform an action. Every service consults Evaluate instead of re-implementing
// ownership checks, so the rules cannot drift between endpoints.
package policy

// Actor is the identity a request runs as. The zero value is an anonymous
// visitor.
type Actor struct {
	ID            uint
	Authenticated bool
}

// Anonymous is the actor for requests without a verified identity.
var Anonymous = Actor{}

// Action is what the actor is trying to do to a resource.
type Action int

const (
	// ActionRead covers fetching a single store or product and listing the
	// products of a store. Public.
	ActionRead Action = iota
	// ActionCreate covers creating a resource under a parent: a store under
	// the platform, a product under a store, a review under a product.
	ActionCreate
	ActionUpdate
	ActionDelete
	// ActionReadReviews is the vendor-facing aggregate of all reviews across
	// a store's products. Owner only.
	ActionReadReviews
)

// Decision is the outcome of an evaluation. Unauthenticated and Forbidden are
// distinct so services can map them to 401 and 403.
type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

// Allowed reports whether the decision permits the action.
func (d Decision) Allowed() bool {
	return d == Allow
}

// Resource is anything with a resolvable owning vendor. Stores own themselves
// through their vendor; products resolve transitively through their store.
type Resource interface {
	OwnerID() uint
}

// public is a resource with no owner gate. Used for creations where ownership
// does not exist yet (a new store, a review by any customer).
type public struct{}

func (public) OwnerID() uint { return 0 }

// Public is the resource to evaluate against when the action has no
// pre-existing owner to check, e.g. creating a store.
var Public Resource = public{}

// Evaluate maps (actor, action, resource) to a decision. Pure; no I/O.
func Evaluate(actor Actor, action Action, resource Resource) Decision {
	switch action {
	case ActionRead:
		// Reads on stores, products and product listings are public.
		return Allow
	case ActionCreate:
		if !actor.Authenticated {
			return Unauthenticated
		}
		// Creating against Public (new store, new review) needs identity only.
		if resource == Public {
			return Allow
		}
		// Creating under an owned parent (product under a store) needs ownership.
		return requireOwner(actor, resource)
	case ActionUpdate, ActionDelete, ActionReadReviews:
		if !actor.Authenticated {
			return Unauthenticated
		}
		return requireOwner(actor, resource)
	default:
		return Forbidden
	}
}

func requireOwner(actor Actor, resource Resource) Decision {
	if resource == nil || actor.ID != resource.OwnerID() {
		return Forbidden
	}
	return Allow
}
