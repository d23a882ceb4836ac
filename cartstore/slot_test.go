package cartstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norun9/dressco-storefront/cart"
)

var wrapDress = cart.Product{
	ID:     "wrap-dress",
	Name:   "Wrap Dress",
	Price:  49.9,
	Sizes:  []string{"S", "M"},
	Colors: []cart.ColorVariant{{Name: "Olive", Hex: "#708238"}},
}

func TestEncode_WireFormat(t *testing.T) {
	data, err := Encode([]cart.Line{cart.NewLine(wrapDress, 2, "M", "Olive")})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "wrap-dress-M-Olive", raw[0]["cartItemId"])
	assert.Equal(t, "M", raw[0]["selectedSize"])
	assert.Equal(t, "Olive", raw[0]["selectedColor"])
	assert.EqualValues(t, 2, raw[0]["quantity"])

	product := raw[0]["product"].(map[string]any)
	assert.Equal(t, "wrap-dress", product["id"])
	assert.EqualValues(t, 49.9, product["price"])
}

func TestEncode_NilIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecode_Corrupt(t *testing.T) {
	_, err := Decode([]byte(`[{"product":`))
	assert.ErrorIs(t, err, cart.ErrCorruptSnapshot)
}

func TestSlot_RoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	backing := NewLocalCartStore(logger)

	s := cart.NewStore(NewSlot(backing, "sess"), cart.WithLogger(logger))
	require.NoError(t, s.Hydrate(ctx))
	require.NoError(t, s.AddLine(ctx, wrapDress, 1, "S", "Olive"))
	require.NoError(t, s.AddLine(ctx, wrapDress, 3, "M", "Olive"))
	require.NoError(t, s.AddLine(ctx, wrapDress, 1, "S", "Olive"))

	restored := cart.NewStore(NewSlot(backing, "sess"), cart.WithLogger(logger))
	require.NoError(t, restored.Hydrate(ctx))
	if diff := cmp.Diff(s.Lines(), restored.Lines()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	other := cart.NewStore(NewSlot(backing, "other"), cart.WithLogger(logger))
	require.NoError(t, other.Hydrate(ctx))
	assert.Empty(t, other.Lines())
}

func TestSlot_CorruptSlotRecovers(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	backing := NewLocalCartStore(logger)
	require.NoError(t, backing.Save(ctx, "sess", []byte("definitely not json")))

	s := cart.NewStore(NewSlot(backing, "sess"), cart.WithLogger(logger))
	require.NoError(t, s.Hydrate(ctx))
	assert.Empty(t, s.Lines())

	data, err := backing.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
