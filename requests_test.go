package uiflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/uiflow"
)

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func TestRequestRegistryTrackAndRelease(t *testing.T) {
	reg := uiflow.NewRequestRegistry()

	ctx, release := reg.Track("reader/page-3")
	assert.Equal(t, 1, reg.Len())
	assert.False(t, cancelled(ctx))

	release()
	assert.Equal(t, 0, reg.Len())
	assert.True(t, cancelled(ctx))

	// Release after deregistration is harmless.
	release()
	assert.Equal(t, 0, reg.Len())
}

func TestRequestRegistryCancelPrefix(t *testing.T) {
	reg := uiflow.NewRequestRegistry()

	a1, _ := reg.Track("reader/page-1")
	a2, _ := reg.Track("reader/page-2")
	b, _ := reg.Track("gallery/feed")

	reg.CancelPrefix("reader/")

	assert.True(t, cancelled(a1))
	assert.True(t, cancelled(a2))
	assert.False(t, cancelled(b), "other namespaces must be untouched")
	assert.Equal(t, 1, reg.Len())
}

func TestRequestRegistryReusedNameSupersedes(t *testing.T) {
	reg := uiflow.NewRequestRegistry()

	first, _ := reg.Track("reader/toc")
	second, _ := reg.Track("reader/toc")

	assert.True(t, cancelled(first), "a reused name cancels the previous holder")
	assert.False(t, cancelled(second))
	assert.Equal(t, 1, reg.Len())
}

func TestRequestRegistryEmptyNameGetsIdentity(t *testing.T) {
	reg := uiflow.NewRequestRegistry()

	first, _ := reg.Track("")
	second, _ := reg.Track("")

	assert.False(t, cancelled(first), "anonymous requests must not collide")
	assert.False(t, cancelled(second))
	assert.Equal(t, 2, reg.Len())
}

func TestRequestRegistryCancelByName(t *testing.T) {
	reg := uiflow.NewRequestRegistry()

	ctx, _ := reg.Track("reader/dict")
	reg.Cancel("reader/dict")

	assert.True(t, cancelled(ctx))
	assert.Equal(t, 0, reg.Len())

	reg.Cancel("reader/dict") // unknown name is a no-op
}

func TestScreenScopeDestroySweepsNamespace(t *testing.T) {
	reg := uiflow.NewRequestRegistry()
	reader := uiflow.NewScreenScope("reader", reg)
	gallery := uiflow.NewScreenScope("gallery", reg)

	rctx, _ := reader.TrackRequest("page-1")
	gctx, _ := gallery.TrackRequest("feed")

	blocked := make(chan struct{})
	h := reader.Run("render", func(ctx context.Context) {
		<-ctx.Done()
		close(blocked)
	})
	require.NotNil(t, h)

	reader.Destroy()
	<-blocked

	assert.True(t, cancelled(rctx))
	assert.False(t, cancelled(gctx))
	assert.True(t, reader.Destroyed())
	assert.Nil(t, reader.Run("late", func(ctx context.Context) {}))
	assert.Nil(t, reader.Child("late"))

	// Requests tracked after teardown are born cancelled.
	late, _ := reader.TrackRequest("late")
	assert.True(t, cancelled(late))

	gallery.Destroy()
	assert.Equal(t, 0, reg.Len())
}

func TestScreenScopeCancelAllRequestsKeepsScope(t *testing.T) {
	screen := uiflow.NewScreenScope("reader", nil)
	defer screen.Destroy()

	ctx, _ := screen.TrackRequest("")
	screen.CancelAllRequests()

	assert.True(t, cancelled(ctx), "anonymous requests live inside the namespace sweep")
	assert.False(t, screen.Destroyed())
	require.NotNil(t, screen.Run("still-alive", func(ctx context.Context) {}))
}
