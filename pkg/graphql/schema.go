package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	graphdomain "github.com/matslogic/matslogic/pkg/graph"
)

// NewSchema builds the read-only query schema over the graph service. All
// resolvers go through the service so ownership checks and pagination
// ceilings apply exactly as they do on the REST surface.
func NewSchema(svc *graphdomain.Service) (graphql.Schema, error) {
	polarityEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "Polarity",
		Values: graphql.EnumValueConfigMap{
			"POSITIVE": &graphql.EnumValueConfig{Value: graphdomain.PolarityPositive},
			"NEUTRAL":  &graphql.EnumValueConfig{Value: graphdomain.PolarityNeutral},
			"NEGATIVE": &graphql.EnumValueConfig{Value: graphdomain.PolarityNegative},
		},
	})

	techniqueType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Technique",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"nodeId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if t, ok := p.Source.(*graphdomain.Technique); ok {
						return t.NodeID, nil
					}
					return nil, nil
				},
			},
			"videoUrl": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if t, ok := p.Source.(*graphdomain.Technique); ok {
						return t.VideoURL, nil
					}
					return nil, nil
				},
			},
			"steps": &graphql.Field{Type: graphql.String},
		},
	})

	nodeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"graphId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if n, ok := p.Source.(*graphdomain.Node); ok {
						return n.GraphID, nil
					}
					return nil, nil
				},
			},
			"technique": &graphql.Field{
				Type: techniqueType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					n, ok := p.Source.(*graphdomain.Node)
					if !ok {
						return nil, nil
					}
					t, err := svc.GetTechnique(p.Context, callerID(p.Context), n.ID)
					if graphdomain.IsNotFound(err) {
						return nil, nil
					}
					return t, err
				},
			},
		},
	})

	// next has to be declared after nodeType exists, so it is attached here.
	nodeType.AddFieldConfig("next", &graphql.Field{
		Type: graphql.NewList(nodeType),
		Args: graphql.FieldConfigArgument{
			"polarity": &graphql.ArgumentConfig{Type: polarityEnum},
		},
		Resolve: func(p graphql.ResolveParams) (any, error) {
			n, ok := p.Source.(*graphdomain.Node)
			if !ok {
				return nil, nil
			}
			return svc.NextNodes(p.Context, callerID(p.Context), n.ID, polarityArg(p))
		},
	})

	edgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"fromNodeId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if e, ok := p.Source.(*graphdomain.Edge); ok {
						return e.FromNodeID, nil
					}
					return nil, nil
				},
			},
			"toNodeId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if e, ok := p.Source.(*graphdomain.Edge); ok {
						return e.ToNodeID, nil
					}
					return nil, nil
				},
			},
			"polarity": &graphql.Field{Type: graphql.NewNonNull(polarityEnum)},
			"note":     &graphql.Field{Type: graphql.String},
			"color":    &graphql.Field{Type: graphql.String},
			"label":    &graphql.Field{Type: graphql.String},
		},
	})

	graphType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Graph",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Args: pageArgs(),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, ok := p.Source.(*graphdomain.Graph)
					if !ok {
						return nil, nil
					}
					limit, offset := pageArgValues(p)
					return svc.ListNodes(p.Context, callerID(p.Context), &g.ID, limit, offset)
				},
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(edgeType),
				Args: pageArgs(),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, ok := p.Source.(*graphdomain.Graph)
					if !ok {
						return nil, nil
					}
					limit, offset := pageArgValues(p)
					filter := graphdomain.EdgeFilter{GraphID: &g.ID}
					return svc.ListEdges(p.Context, callerID(p.Context), filter, limit, offset)
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"graphs": &graphql.Field{
				Type: graphql.NewList(graphType),
				Args: pageArgs(),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					limit, offset := pageArgValues(p)
					return svc.ListGraphs(p.Context, callerID(p.Context), limit, offset)
				},
			},
			"graph": &graphql.Field{
				Type: graphType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					return svc.GetGraph(p.Context, callerID(p.Context), id)
				},
			},
			"node": &graphql.Field{
				Type: nodeType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					return svc.GetNode(p.Context, callerID(p.Context), id)
				},
			},
			"nextNodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Args: graphql.FieldConfigArgument{
					"nodeId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"polarity": &graphql.ArgumentConfig{Type: polarityEnum},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := idArg(p, "nodeId")
					if err != nil {
						return nil, err
					}
					return svc.NextNodes(p.Context, callerID(p.Context), id, polarityArg(p))
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func pageArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
		"offset": &graphql.ArgumentConfig{Type: graphql.Int},
	}
}

func pageArgValues(p graphql.ResolveParams) (limit, offset int) {
	if v, ok := p.Args["limit"].(int); ok {
		limit = v
	}
	if v, ok := p.Args["offset"].(int); ok {
		offset = v
	}
	return limit, offset
}

func idArg(p graphql.ResolveParams, name string) (int64, error) {
	raw, ok := p.Args[name]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", name)
	}
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case string:
		var id int64
		if _, err := fmt.Sscan(v, &id); err != nil {
			return 0, fmt.Errorf("invalid id %q", v)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("invalid id type %T", raw)
	}
}

func polarityArg(p graphql.ResolveParams) *graphdomain.Polarity {
	switch v := p.Args["polarity"].(type) {
	case graphdomain.Polarity:
		return &v
	case string:
		if v == "" {
			return nil
		}
		pol := graphdomain.Polarity(v)
		return &pol
	default:
		return nil
	}
}
