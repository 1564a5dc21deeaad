package sink

import (
	"testing"

	"github.com/gaurav-prasanna/rpipipe/core/tree"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestValue(t *testing.T) {
	t.Parallel()

	rec := tree.Object(
		tree.F("issue", tree.Text("2790 - 2024-06-04")),
		tree.F("holder-list", tree.Items(
			tree.Object(tree.F("name", tree.Text("Acme")), tree.F("address", tree.Text("BR"))),
		)),
		tree.F("empty", tree.Object()),
	)

	want := bson.D{
		{Key: "issue", Value: "2790 - 2024-06-04"},
		{Key: "holder-list", Value: bson.A{
			bson.D{{Key: "name", Value: "Acme"}, {Key: "address", Value: "BR"}},
		}},
		{Key: "empty", Value: bson.D{}},
	}
	assert.Equal(t, want, Value(rec))
	assert.Nil(t, Value(tree.Node{}))
}

func TestValue_MarshalsInFieldOrder(t *testing.T) {
	t.Parallel()

	rec := tree.Object(tree.F("z", tree.Text("1")), tree.F("a", tree.Text("2")))
	raw, err := bson.Marshal(Value(rec))
	assert.NoError(t, err)

	var back bson.D
	assert.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, "z", back[0].Key)
	assert.Equal(t, "a", back[1].Key)
}
