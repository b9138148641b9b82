package graph

import "context"

// Store is the storage boundary: durable, transactional access to the five
// relations (users, graphs, nodes, edges, techniques). Implementations must
// enforce the (from, to, polarity) and technique(node) uniqueness constraints
// at the storage level so concurrent check-then-write races cannot produce
// duplicates, and must run the multi-row cascades as single atomic units.
//
// Store methods perform no ownership checks; callers see raw rows. The
// Service layer is the only consumer and resolves ownership before every
// read or write it exposes.
type Store interface {
	// Users
	CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// Graphs
	CreateGraph(ctx context.Context, ownerID int64, title string) (*Graph, error)
	GetGraph(ctx context.Context, id int64) (*Graph, error)
	ListGraphsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*Graph, error)
	UpdateGraphTitle(ctx context.Context, id int64, title string) error
	// DeleteGraphCascade removes the graph together with all of its nodes,
	// their techniques, and all edges between them, atomically.
	DeleteGraphCascade(ctx context.Context, id int64) error

	// Nodes
	CreateNode(ctx context.Context, graphID int64, name string) (*Node, error)
	GetNode(ctx context.Context, id int64) (*Node, error)
	ListNodesByOwner(ctx context.Context, ownerID int64, graphID *int64, limit, offset int) ([]*Node, error)
	// DeleteNodeCascade removes the node's technique (if any), every edge
	// where the node is either endpoint, and the node itself, atomically.
	DeleteNodeCascade(ctx context.Context, id int64) error

	// Edges
	// CreateEdge returns ErrConflict when an edge with the same
	// (from, to, polarity) triple already exists.
	CreateEdge(ctx context.Context, e *Edge) (*Edge, error)
	GetEdge(ctx context.Context, id int64) (*Edge, error)
	// UpdateEdge applies the patch and returns ErrConflict when a polarity
	// change would collide with an existing triple.
	UpdateEdge(ctx context.Context, id int64, patch EdgePatch) (*Edge, error)
	DeleteEdge(ctx context.Context, id int64) error
	ListEdgesByOwner(ctx context.Context, ownerID int64, filter EdgeFilter, limit, offset int) ([]*Edge, error)
	ListOutgoingEdges(ctx context.Context, fromNodeID int64, polarity *Polarity) ([]*Edge, error)

	// Techniques
	// CreateTechnique returns ErrConflict when the node already has one.
	CreateTechnique(ctx context.Context, nodeID int64, videoURL, steps string) (*Technique, error)
	GetTechniqueByNode(ctx context.Context, nodeID int64) (*Technique, error)
	UpdateTechnique(ctx context.Context, nodeID int64, patch TechniquePatch) (*Technique, error)
	DeleteTechniqueByNode(ctx context.Context, nodeID int64) error
}
