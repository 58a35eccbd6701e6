package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestWithUpdatedAtLeavesCallerMapUntouched(t *testing.T) {
	fields := bson.M{"name": "GCash", "isActive": true}

	set := withUpdatedAt(fields)

	assert.Contains(t, set, "updatedAt")
	assert.Equal(t, "GCash", set["name"])
	assert.Equal(t, true, set["isActive"])

	assert.NotContains(t, fields, "updatedAt")
	assert.Len(t, fields, 2)
}
