package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norun9/dressco-storefront/cart"
	"github.com/norun9/dressco-storefront/cartstore"
	"github.com/norun9/dressco-storefront/config"
)

const testSession = "2f1c0a52-6a0b-4d0c-9d0e-5b7f3b1f9a11"

func seedFileCart(t *testing.T, lines []cart.Line) string {
	t.Helper()
	dir := t.TempDir()
	log, _ := test.NewNullLogger()
	store := cartstore.NewFileCartStore(dir, log)
	require.NoError(t, store.Initialize(context.Background()))
	if lines != nil {
		require.NoError(t, cartstore.NewSlot(store, testSession).Save(context.Background(), lines))
	}

	t.Setenv("CART_STORE", config.BackendFile)
	t.Setenv("CART_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCartShow(t *testing.T) {
	dress := cart.Product{ID: "linen-wrap-dress", Name: "Linen Wrap Dress", Price: 89}
	seedFileCart(t, []cart.Line{cart.NewLine(dress, 2, "M", "Sand")})

	out, err := execute(t, "cart", "show", "--session", testSession)
	require.NoError(t, err)
	assert.Contains(t, out, "linen-wrap-dress-M-Sand")
	assert.Contains(t, out, "items: 2")
	assert.Contains(t, out, "subtotal: 178.00")
}

func TestCartShow_FoldsRepeatedLines(t *testing.T) {
	dress := cart.Product{ID: "linen-wrap-dress", Name: "Linen Wrap Dress", Price: 89}
	seedFileCart(t, []cart.Line{
		cart.NewLine(dress, 1, "M", "Sand"),
		cart.NewLine(dress, 2, "M", "Sand"),
	})

	out, err := execute(t, "cart", "show", "--session", testSession)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "linen-wrap-dress-M-Sand"))
	assert.Contains(t, out, "items: 3")
	assert.Contains(t, out, "subtotal: 267.00")
}

func TestCartShow_EmptySlot(t *testing.T) {
	seedFileCart(t, nil)

	out, err := execute(t, "cart", "show", "--session", testSession)
	require.NoError(t, err)
	assert.Contains(t, out, "subtotal: 0.00")
}

func TestCartShow_RequiresSession(t *testing.T) {
	seedFileCart(t, nil)

	_, err := execute(t, "cart", "show")
	assert.Error(t, err)
}

func TestCartClear(t *testing.T) {
	dress := cart.Product{ID: "linen-wrap-dress", Name: "Linen Wrap Dress", Price: 89}
	dir := seedFileCart(t, []cart.Line{cart.NewLine(dress, 1, "S", "Olive")})

	_, err := execute(t, "cart", "clear", "--session", testSession)
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	_, err = cartstore.NewFileCartStore(dir, log).Load(context.Background(), testSession)
	assert.ErrorIs(t, err, cartstore.ErrSlotNotFound)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("CART_STORE", config.BackendFile)

	opts := &rootOptions{port: "9000", backend: config.BackendSQLite}
	cfg, err := opts.load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, config.BackendSQLite, cfg.CartStore.Backend)
}

func TestLoad_RejectsUnknownBackendFlag(t *testing.T) {
	opts := &rootOptions{backend: "etcd"}
	_, err := opts.load()
	assert.Error(t, err)
}
