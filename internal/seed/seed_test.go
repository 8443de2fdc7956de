package seed

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "sellers": [
    {
      "user_id": "s-1",
      "business_name": "Pune Wholesale Mart",
      "seller_type": "wholesaler",
      "address": {"city": "Pune", "state": "Maharashtra"},
      "latitude": 18.5204,
      "longitude": 73.8567,
      "tags": "[\"grocery\",\"fmcg\"]"
    },
    {"user_id": "s-2", "business_name": "No Location Traders"}
  ],
  "products": [
    {"seller_id": "s-1", "name": "Basmati rice 25kg", "category": "grocery"}
  ]
}`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, f.Sellers, 2)
	require.Len(t, f.Products, 1)

	assert.Equal(t, `"[\"grocery\",\"fmcg\"]"`, string(f.Sellers[0].Tags))
	assert.Nil(t, f.Sellers[1].Latitude)
	assert.Equal(t, "grocery", *f.Products[0].Category)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown field":    `{"sellers": [{"user_id": "a", "rating": 5}]}`,
		"missing user_id":  `{"sellers": [{"business_name": "x"}]}`,
		"duplicate":        `{"sellers": [{"user_id": "a"}, {"user_id": "a"}]}`,
		"bad type":         `{"sellers": [{"user_id": "a", "seller_type": "retailer"}]}`,
		"half coordinates": `{"sellers": [{"user_id": "a", "latitude": 10}]}`,
		"out of range":     `{"sellers": [{"user_id": "a", "latitude": 91, "longitude": 10}]}`,
		"product name":     `{"products": [{"seller_id": "a"}]}`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestJSONOrNil(t *testing.T) {
	assert.Nil(t, jsonOrNil(nil))
	assert.Nil(t, jsonOrNil(json.RawMessage("null")))
	assert.Equal(t, `{"city":"Pune"}`, jsonOrNil(json.RawMessage(`{"city":"Pune"}`)))
}
