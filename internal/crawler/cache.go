
package crawler

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"docsite-frame-checker/internal/parser"
)

// DOMCache memoizes GetDOM by path for the lifetime of a run. Concurrent
// callers asking for the same path share one fetch. Failed fetches are not
// remembered.
type DOMCache struct {
	client *HTTPClient

	mu    sync.RWMutex
	docs  map[string]*parser.Document
	group singleflight.Group
}

func NewDOMCache(client *HTTPClient) *DOMCache {
	return &DOMCache{client: client, docs: map[string]*parser.Document{}}
}

func (c *DOMCache) GetDOM(ctx context.Context, path string) (*parser.Document, error) {
	c.mu.RLock()
	doc, ok := c.docs[path]
	c.mu.RUnlock()
	if ok {
		return doc, nil
	}

	// The shared fetch outlives any one caller; the client timeout bounds it.
	ch := c.group.DoChan(path, func() (any, error) {
		doc, err := c.client.GetDOM(context.WithoutCancel(ctx), path)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.docs[path] = doc
		c.mu.Unlock()
		return doc, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*parser.Document), nil
	}
}

func (c *DOMCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}
