package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindUndocumentedFields(t *testing.T) {
	body := map[string]any{"name": "X", "zeta": 1, "foo": true}

	got := FindUndocumentedFields(body, []string{"name", "category"})

	assert.Equal(t, []string{"foo", "zeta"}, got)
	assert.Empty(t, FindUndocumentedFields(map[string]any{}, nil))
}

func TestFindMissingFields(t *testing.T) {
	body := map[string]any{"name": "X", "category": "", "brand": nil}

	got := FindMissingFields(body, []string{"name", "category", "brand", "lotNumber"})

	assert.Equal(t, []string{"category", "brand", "lotNumber"}, got)
}

func TestPolicyFor_Foodstore(t *testing.T) {
	p := FoodstoreProfile()

	post := PolicyFor(p.Configs[MethodPOST])
	assert.Equal(t, []string{"name", "category", "price", "description", "brand", "lotNumber"}, post.Allowed)
	assert.Equal(t, []string{"name", "category", "brand", "lotNumber"}, post.Required)

	put := PolicyFor(p.Configs[MethodPUT])
	assert.Equal(t, []string{"name", "category", "price", "description", "brand"}, put.Allowed)

	patch := PatchPolicyFor(p.Configs[MethodPUT])
	assert.Equal(t, []string{"name", "category", "price", "description"}, patch.Allowed)
	assert.Empty(t, patch.Missing(map[string]any{}))
}

func TestPolicy_ChecksInOrder(t *testing.T) {
	post := PolicyFor(FoodstoreProfile().Configs[MethodPOST])

	body := map[string]any{"name": "X", "category": "Y", "brand": "B", "lotNumber": "L", "foo": 1}
	assert.Equal(t, []string{"foo"}, post.Undocumented(body))
	assert.Empty(t, post.Missing(body))

	body = map[string]any{"name": "X", "category": "Y"}
	assert.Empty(t, post.Undocumented(body))
	assert.Equal(t, []string{"brand", "lotNumber"}, post.Missing(body))
}
