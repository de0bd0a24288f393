package database

import (
	"github.com/princinho/storefront/catalog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ToFilter turns a catalog query into a mongo filter. Predicates and the
// start-after condition are combined with $and.
func ToFilter(q catalog.Query) bson.M {
	clauses := bson.A{}
	for _, p := range q.Filters {
		switch p.Op {
		case catalog.OpEq:
			clauses = append(clauses, bson.M{p.Field: p.Value})
		case catalog.OpGte:
			clauses = append(clauses, bson.M{p.Field: bson.M{"$gte": p.Value}})
		case catalog.OpLte:
			clauses = append(clauses, bson.M{p.Field: bson.M{"$lte": p.Value}})
		}
	}
	if q.StartAfter != nil {
		clauses = append(clauses, startAfter(q.Sort, *q.StartAfter))
	}

	if len(clauses) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": clauses}
}

// startAfter selects documents strictly after c in (sort field, _id asc) order.
func startAfter(sort catalog.Sort, c catalog.Cursor) bson.M {
	if sort.Field == catalog.FieldID {
		op := "$gt"
		if sort.Desc {
			op = "$lt"
		}
		return bson.M{"_id": bson.M{op: c.ID}}
	}

	op := "$gt"
	if sort.Desc {
		op = "$lt"
	}
	return bson.M{"$or": bson.A{
		bson.M{sort.Field: bson.M{op: c.Value}},
		bson.M{sort.Field: c.Value, "_id": bson.M{"$gt": c.ID}},
	}}
}

func ToSort(sort catalog.Sort) bson.D {
	dir := 1
	if sort.Desc {
		dir = -1
	}
	if sort.Field == catalog.FieldID {
		return bson.D{{Key: "_id", Value: dir}}
	}
	return bson.D{{Key: sort.Field, Value: dir}, {Key: "_id", Value: 1}}
}

func ToFindOptions(q catalog.Query) *options.FindOptionsBuilder {
	opts := options.Find().SetSort(ToSort(q.Sort))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return opts
}
