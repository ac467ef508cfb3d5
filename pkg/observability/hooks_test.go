package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	w := NoopWalkHooks{}
	w.OnWalkStart(ctx, "app", 0)
	w.OnTolerated(ctx, "left-pad", errors.New("gone"))
	w.OnWalkComplete(ctx, "app", 3, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "packument")
	c.OnCacheMiss(ctx, "packument")
	c.OnCacheSet(ctx, "packument", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "registry.npmjs.org", "/lodash")
	h.OnResponse(ctx, "GET", "registry.npmjs.org", "/lodash", 200, time.Second)
	h.OnError(ctx, "GET", "registry.npmjs.org", "/lodash", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Walk().(NoopWalkHooks); !ok {
		t.Error("Walk() should return NoopWalkHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customWalk := &testWalkHooks{}
	SetWalkHooks(customWalk)
	if Walk() != customWalk {
		t.Error("SetWalkHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Walk().(NoopWalkHooks); !ok {
		t.Error("Reset() should restore NoopWalkHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testWalkHooks{}
	SetWalkHooks(custom)
	SetWalkHooks(nil)

	if Walk() != custom {
		t.Error("SetWalkHooks(nil) should be ignored")
	}
}

type testWalkHooks struct{ NoopWalkHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
