package query

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
)

// BSONClause renders one predicate as a mongo filter document
func BSONClause(p Predicate) bson.D {
	key := string(p.Field)

	switch p.Op {
	case OpEqualFold:
		return bson.D{{Key: key, Value: bson.D{
			{Key: "$regex", Value: "^" + regexp.QuoteMeta(p.Text) + "$"},
			{Key: "$options", Value: "i"},
		}}}
	case OpContainsFold:
		// on array fields mongo matches any element
		return bson.D{{Key: key, Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(p.Text)},
			{Key: "$options", Value: "i"},
		}}}
	case OpAtLeast:
		// null never satisfies a numeric comparison
		return bson.D{{Key: key, Value: bson.D{{Key: "$gte", Value: p.Number}}}}
	case OpAtMost:
		return bson.D{{Key: key, Value: bson.D{{Key: "$lte", Value: p.Number}}}}
	case OpIsTrue:
		return bson.D{{Key: key, Value: true}}
	case OpAnyOf:
		return bson.D{{Key: key, Value: bson.D{{Key: "$in", Value: p.Values}}}}
	case OpOr:
		alts := bson.A{}
		for _, alt := range p.Any {
			alts = append(alts, BSONClause(alt))
		}
		return bson.D{{Key: "$or", Value: alts}}
	}
	return bson.D{}
}

// ToBSON AND-combines the predicates into one filter document
func ToBSON(preds []Predicate) bson.D {
	if len(preds) == 0 {
		return bson.D{}
	}
	clauses := bson.A{}
	for _, p := range preds {
		clauses = append(clauses, BSONClause(p))
	}
	return bson.D{{Key: "$and", Value: clauses}}
}

// SortBSON is the sort document for key, VIN tie-break last
func SortBSON(key SortKey) bson.D {
	ord := key.Order()
	dir := 1
	if ord.Desc {
		dir = -1
	}
	return bson.D{
		{Key: string(ord.Field), Value: dir},
		{Key: string(FieldVIN), Value: 1},
	}
}
