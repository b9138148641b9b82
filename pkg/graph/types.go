package graph

import (
	"fmt"
	"strings"
)

// Polarity classifies the outcome of a transition between two positions.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNeutral  Polarity = "neutral"
	PolarityNegative Polarity = "negative"

	// DefaultPolarity is used when an edge is created without an explicit polarity.
	DefaultPolarity = PolarityPositive
)

// Valid reports whether p is one of the three known polarities.
func (p Polarity) Valid() bool {
	switch p {
	case PolarityPositive, PolarityNeutral, PolarityNegative:
		return true
	}
	return false
}

// String returns the stable symbolic encoding used in storage and on the wire.
func (p Polarity) String() string {
	return string(p)
}

// ParsePolarity converts a string to a Polarity, case-insensitively.
func ParsePolarity(s string) (Polarity, error) {
	p := Polarity(strings.ToLower(s))
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown polarity %q", ErrInvalidArgument, s)
	}
	return p, nil
}

// User is an account that owns graphs. The credential reference is opaque to
// the domain layer; only pkg/auth ever inspects it.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    int64  `json:"created_at"`
}

// Graph is a progression map owned by exactly one user. The owner reference
// is immutable after creation.
type Graph struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	OwnerID int64  `json:"owner_id"`
}

// Node is a position/state within a graph. Ownership is never stored on the
// node; it is always resolved through the owning graph.
type Node struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	GraphID int64  `json:"graph_id"`
}

// Edge is a directed transition between two nodes of the same graph,
// classified by polarity. At most one edge may exist per (from, to, polarity)
// triple. Color and label are presentation hints settable only via update.
type Edge struct {
	ID         int64    `json:"id"`
	FromNodeID int64    `json:"from_node_id"`
	ToNodeID   int64    `json:"to_node_id"`
	Polarity   Polarity `json:"polarity"`
	Note       string   `json:"note,omitempty"`
	Color      string   `json:"color,omitempty"`
	Label      string   `json:"label,omitempty"`
}

// Technique is the detail record attached to at most one node: an optional
// video reference and free-text steps.
type Technique struct {
	ID       int64  `json:"id"`
	NodeID   int64  `json:"node_id"`
	VideoURL string `json:"video_url,omitempty"`
	Steps    string `json:"steps,omitempty"`
}

// EdgePatch describes a partial edge update. Nil fields are left unchanged.
type EdgePatch struct {
	Polarity *Polarity
	Note     *string
	Color    *string
	Label    *string
}

// Empty reports whether the patch changes nothing.
func (p EdgePatch) Empty() bool {
	return p.Polarity == nil && p.Note == nil && p.Color == nil && p.Label == nil
}

// TechniquePatch describes a partial technique update. Nil fields are left
// unchanged.
type TechniquePatch struct {
	VideoURL *string
	Steps    *string
}

// Empty reports whether the patch changes nothing.
func (p TechniquePatch) Empty() bool {
	return p.VideoURL == nil && p.Steps == nil
}

// EdgeFilter narrows ListEdges results. Nil fields are ignored; set fields
// combine with logical AND.
type EdgeFilter struct {
	GraphID    *int64
	FromNodeID *int64
	ToNodeID   *int64
	Polarity   *Polarity
}
