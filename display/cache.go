package display

import (
	"reflect"
	"sync"

	"display-generator/schema"
)

type cacheKey struct {
	typ reflect.Type
	def *schema.TypeDef
}

type cacheEntry struct {
	get func() (*codec, error)
}

// cache holds one codec per Go type and definition, built exactly once.
var cache sync.Map // cacheKey -> *cacheEntry

func cachedCodec(typ reflect.Type, def *schema.TypeDef, opts []Option) (*codec, error) {
	key := cacheKey{typ: typ, def: def}

	if e, ok := cache.Load(key); ok {
		return e.(*cacheEntry).get()
	}

	entry := &cacheEntry{get: sync.OnceValues(func() (*codec, error) {
		return newCodec(typ, def, newConfig(opts))
	})}

	e, _ := cache.LoadOrStore(key, entry)

	return e.(*cacheEntry).get()
}

func (r *registration) codec() (*codec, error) {
	return cachedCodec(r.typ, r.def, r.opts)
}
