package mongodb

import (
	"strings"

	"demand-genius/internal/catalog/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// translatePredicate converts a predicate tree into a MongoDB filter
// document. The empty predicate becomes the match-all filter.
func translatePredicate(p model.Predicate) bson.M {
	if p.IsZero() {
		return bson.M{}
	}
	switch p.Op {
	case model.OpAnd:
		return bson.M{"$and": translateChildren(p.Children)}
	case model.OpOr:
		return bson.M{"$or": translateChildren(p.Children)}
	case model.OpNor:
		return bson.M{"$nor": translateChildren(p.Children)}
	case model.OpEq:
		return bson.M{p.Field: p.Value}
	case model.OpNe:
		return bson.M{p.Field: bson.M{"$ne": p.Value}}
	case model.OpIn:
		return bson.M{p.Field: bson.M{"$in": nonNilValues(p.Values)}}
	case model.OpNin:
		return bson.M{p.Field: bson.M{"$nin": nonNilValues(p.Values)}}
	case model.OpGte:
		return bson.M{p.Field: bson.M{"$gte": p.Value}}
	case model.OpLte:
		return bson.M{p.Field: bson.M{"$lte": p.Value}}
	case model.OpExists:
		return bson.M{p.Field: bson.M{"$exists": p.Value}}
	case model.OpRegex:
		return bson.M{p.Field: bson.M{"$regex": p.Value, "$options": "i"}}
	case model.OpInFold:
		return translateInFold(p)
	default:
		return bson.M{}
	}
}

func translateChildren(children []model.Predicate) []bson.M {
	out := make([]bson.M, 0, len(children))
	for _, c := range children {
		out = append(out, translatePredicate(c))
	}
	return out
}

// translateInFold matches a field against a value set ignoring case by
// lowering both sides inside an aggregation expression.
func translateInFold(p model.Predicate) bson.M {
	lowered := make([]string, 0, len(p.Values))
	for _, v := range p.Values {
		if s, ok := v.(string); ok {
			lowered = append(lowered, strings.ToLower(s))
		}
	}
	return bson.M{"$expr": bson.M{"$in": bson.A{
		bson.M{"$toLower": "$" + p.Field},
		lowered,
	}}}
}

// nonNilValues keeps an empty $in/$nin operand a real empty array instead of
// null, which MongoDB rejects.
func nonNilValues(values []interface{}) []interface{} {
	if values == nil {
		return []interface{}{}
	}
	return values
}

// translateStages converts compiled stages into a driver pipeline.
func translateStages(stages []model.Stage) mongo.Pipeline {
	pipeline := make(mongo.Pipeline, 0, len(stages))
	for _, s := range stages {
		pipeline = append(pipeline, translateStage(s))
	}
	return pipeline
}

func translateStage(s model.Stage) bson.D {
	switch s.Kind {
	case model.StageMatch:
		var match model.Predicate
		if s.Match != nil {
			match = *s.Match
		}
		return bson.D{{Key: "$match", Value: translatePredicate(match)}}
	case model.StageLookup:
		return bson.D{{Key: "$lookup", Value: bson.M{
			"from":         s.Lookup.From,
			"localField":   s.Lookup.LocalField,
			"foreignField": s.Lookup.ForeignField,
			"as":           s.Lookup.As,
		}}}
	case model.StageUnwind:
		return bson.D{{Key: "$unwind", Value: "$" + s.Unwind}}
	case model.StageGroup:
		return bson.D{{Key: "$group", Value: bson.M{
			"_id":              "$" + s.Group.ByField,
			s.Group.CountAlias: bson.M{"$sum": 1},
		}}}
	case model.StageSort:
		sort := bson.D{}
		for _, field := range s.Sort {
			dir := 1
			if field.Descending {
				dir = -1
			}
			sort = append(sort, bson.E{Key: field.Field, Value: dir})
		}
		return bson.D{{Key: "$sort", Value: sort}}
	case model.StageSkip:
		return bson.D{{Key: "$skip", Value: s.Skip}}
	case model.StageLimit:
		return bson.D{{Key: "$limit", Value: s.Limit}}
	case model.StageProject:
		projection := bson.M{}
		for field, keep := range s.Project {
			if keep {
				projection[field] = 1
			} else {
				projection[field] = 0
			}
		}
		return bson.D{{Key: "$project", Value: projection}}
	case model.StageCount:
		return bson.D{{Key: "$count", Value: s.Count}}
	default:
		return bson.D{{Key: "$match", Value: bson.M{}}}
	}
}
