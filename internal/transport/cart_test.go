package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const base = "https://api.example.com"

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

const cartBody = `{
	"id": 7,
	"session_key": "abc-123",
	"total": "1600.00 EGP",
	"item_count": 2,
	"delivery": 0,
	"items": [
		{
			"id": 11,
			"product_id": 3,
			"name": "RAFAL Care Hair Dryer",
			"price": "1600",
			"quantity": 2,
			"image": "/media/dryer.jpg",
			"color": {"id": 1, "name": "Black", "hex_value": "#000000"}
		}
	]
}`

func TestNormalizeCartEnvelopes(t *testing.T) {
	shapes := map[string]string{
		"bare":        cartBody,
		"cart":        `{"cart": ` + cartBody + `}`,
		"data.cart":   `{"data": {"cart": ` + cartBody + `}}`,
		"array-first": `[` + cartBody + `]`,
	}

	var want []byte
	for name, raw := range shapes {
		cart := NormalizeCart(base, decode(t, raw))
		require.NotNil(t, cart, name)

		got, err := json.Marshal(cart)
		require.NoError(t, err)
		if want == nil {
			want = got
			continue
		}
		require.Equal(t, string(want), string(got), name)
	}
}

func TestNormalizeCartFields(t *testing.T) {
	cart := NormalizeCart(base, decode(t, cartBody))
	require.NotNil(t, cart)

	require.Equal(t, "7", cart.ID)
	require.Equal(t, "abc-123", cart.SessionKey)
	require.Equal(t, "1600", cart.Total.String())
	require.Equal(t, 2, cart.ItemCount)
	require.True(t, cart.DeliveryFee.IsZero())

	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	require.Equal(t, "11", item.ID)
	require.Equal(t, "3", item.ProductID)
	require.Equal(t, "RAFAL Care Hair Dryer", item.Name)
	require.Equal(t, "1600", item.Price.String())
	require.Equal(t, 2, item.Quantity)
	require.Equal(t, base+"/media/dryer.jpg", item.Image)
	require.Equal(t, 1, item.ColorID)
	require.Equal(t, "Black", item.ColorName)
	require.Equal(t, "#000000", item.ColorHex)
}

func TestNormalizeCartFieldAliases(t *testing.T) {
	raw := `{
		"cart_id": "9",
		"total_price": 250,
		"items_count": 1,
		"items": [
			{"cart_item_id": 4, "product": {"id": 8, "name": "Mixer", "price": 250, "image": "m.jpg"}, "quantity": 1}
		]
	}`
	cart := NormalizeCart(base, decode(t, raw))
	require.NotNil(t, cart)

	require.Equal(t, "9", cart.ID)
	require.Equal(t, "250", cart.Total.String())
	require.Equal(t, 1, cart.ItemCount)
	require.Equal(t, "4", cart.Items[0].ID)
	require.Equal(t, "8", cart.Items[0].ProductID)
	require.Equal(t, "Mixer", cart.Items[0].Name)
	require.Equal(t, base+"/m.jpg", cart.Items[0].Image)
}

func TestNormalizeCartDefaults(t *testing.T) {
	cart := NormalizeCart(base, decode(t, `{"items": "garbage", "total": "not a number"}`))
	require.NotNil(t, cart)
	require.Empty(t, cart.Items)
	require.True(t, cart.Total.IsZero())
	require.Zero(t, cart.ItemCount)
	require.NotEmpty(t, cart.ID)
}

func TestNormalizeCartNil(t *testing.T) {
	require.Nil(t, NormalizeCart(base, nil))
	require.Nil(t, NormalizeCart(base, decode(t, `[]`)))
	require.Nil(t, NormalizeCart(base, decode(t, `"just a string"`)))
}

func TestParsePrice(t *testing.T) {
	require.Equal(t, "1600", ParsePrice("1,600 EGP").String())
	require.Equal(t, "99.5", ParsePrice(99.5).String())
	require.Equal(t, "0", ParsePrice("free").String())
	require.Equal(t, "0", ParsePrice(nil).String())
	require.Equal(t, "-20", ParsePrice("-20").String())
}

func TestNormalizeImageURL(t *testing.T) {
	require.Equal(t, "https://cdn.example.com/a.jpg", NormalizeImageURL(base, "https://cdn.example.com/a.jpg"))
	require.Equal(t, base+"/media/a.jpg", NormalizeImageURL(base, "/media/a.jpg"))
	require.Equal(t, base+"/media/a.jpg", NormalizeImageURL(base, "media/a.jpg"))
	require.Equal(t, "", NormalizeImageURL(base, nil))
	require.Equal(t, "", NormalizeImageURL(base, 12))
}
