// Package repositories implements the persistence layer over the document
// store, one repository per collection.
package repositories

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// withUpdatedAt returns a copy of fields with the updatedAt stamp added.
// The caller's map is never modified.
func withUpdatedAt(fields bson.M) bson.M {
	set := make(bson.M, len(fields)+1)
	for k, v := range fields {
		set[k] = v
	}
	set["updatedAt"] = time.Now()
	return set
}
