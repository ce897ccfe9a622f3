// Package graphql provides the GraphQL schema definition and resolvers
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/modpublish/versiondb/merge"
	"github.com/modpublish/versiondb/model"
)

// Repository supplies the merged records the resolvers read from
type Repository interface {
	Versions() ([]model.MergedRecord, error)
}

// VersionType defines the GraphQL object for a merged version record
var VersionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Version",
	Fields: graphql.Fields{
		"id": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			r, _ := p.Source.(model.MergedRecord)
			return r.ID, nil
		}},
		"type": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			r, _ := p.Source.(model.MergedRecord)
			return string(r.Kind), nil
		}},
		"catalogId": &graphql.Field{Type: graphql.Int, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			r, _ := p.Source.(model.MergedRecord)
			return r.CatalogID, nil
		}},
		"releasedAt": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			r, _ := p.Source.(model.MergedRecord)
			return r.ReleasedAt, nil
		}},
		"matched": &graphql.Field{Type: graphql.Boolean, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			r, _ := p.Source.(model.MergedRecord)
			return r.Matched(), nil
		}},
		"curseforge": &graphql.Field{Type: graphql.Boolean, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			r, _ := p.Source.(model.MergedRecord)
			return r.CanReleaseToCurseForge(), nil
		}},
		"purl": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			r, _ := p.Source.(model.MergedRecord)
			return r.PackageURL(), nil
		}},
	},
})

// StatsType defines the GraphQL object for match statistics
var StatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"total": &graphql.Field{Type: graphql.Int, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			s, _ := p.Source.(merge.Stats)
			return s.Total, nil
		}},
		"matched": &graphql.Field{Type: graphql.Int, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			s, _ := p.Source.(merge.Stats)
			return s.Matched, nil
		}},
		"unmatched": &graphql.Field{Type: graphql.Int, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			s, _ := p.Source.(merge.Stats)
			return s.Unmatched, nil
		}},
		"matchRate": &graphql.Field{Type: graphql.Float, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			s, _ := p.Source.(merge.Stats)
			return s.MatchRate, nil
		}},
	},
})

// CreateSchema builds the query schema over repo
func CreateSchema(repo Repository) (graphql.Schema, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"version": &graphql.Field{
				Type: VersionType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					records, err := repo.Versions()
					if err != nil {
						return nil, err
					}
					if r, ok := merge.Find(records, id); ok {
						return r, nil
					}
					return nil, nil
				},
			},
			"versions": &graphql.Field{
				Type: graphql.NewList(VersionType),
				Args: graphql.FieldConfigArgument{
					"type":           &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
					"matchedOnly":    &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
					"curseforgeOnly": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					records, err := repo.Versions()
					if err != nil {
						return nil, err
					}
					return filterFromArgs(p.Args).Apply(records), nil
				},
			},
			"stats": &graphql.Field{
				Type: StatsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					records, err := repo.Versions()
					if err != nil {
						return nil, err
					}
					return merge.ComputeStats(records), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: rootQuery,
	})
}

func filterFromArgs(args map[string]interface{}) merge.Filter {
	var f merge.Filter
	if kinds, ok := args["type"].([]interface{}); ok {
		for _, k := range kinds {
			if s, ok := k.(string); ok {
				f.Kinds = append(f.Kinds, model.Kind(s))
			}
		}
	}
	f.MatchedOnly, _ = args["matchedOnly"].(bool)
	f.CurseForgeOnly, _ = args["curseforgeOnly"].(bool)
	return f
}
