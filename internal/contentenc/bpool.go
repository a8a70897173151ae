package contentenc

import (
	"log"
	"sync"

	"github.com/wcrypt/wcrypt/internal/words"
)

// chunkBuf is the working memory of one stream: the byte chunk and the
// words it is packed into for the engine.
type chunkBuf struct {
	b []byte
	w []uint32
}

// chunkPool hands out chunkBufs of a fixed size. Word buffers hold
// plaintext and are wiped before they go back into the pool.
type chunkPool struct {
	sync.Pool
	byteLen int
}

func newChunkPool(byteLen int) *chunkPool {
	if byteLen%4 != 0 {
		log.Panicf("chunk length %d is not a multiple of 4", byteLen)
	}
	p := &chunkPool{byteLen: byteLen}
	p.New = func() interface{} {
		return &chunkBuf{
			b: make([]byte, byteLen),
			w: make([]uint32, byteLen/4),
		}
	}
	return p
}

// Get returns a chunkBuf from the pool.
func (p *chunkPool) Get() *chunkBuf {
	c := p.Pool.Get().(*chunkBuf)
	if len(c.b) != p.byteLen || len(c.w) != p.byteLen/4 {
		log.Panicf("wrong len=%d/%d, want=%d", len(c.b), len(c.w), p.byteLen)
	}
	return c
}

// Put wipes the word buffer and returns "c" to the pool.
func (p *chunkPool) Put(c *chunkBuf) {
	c.b = c.b[:cap(c.b)]
	c.w = c.w[:cap(c.w)]
	if len(c.b) != p.byteLen {
		log.Panicf("wrong len=%d, want=%d", len(c.b), p.byteLen)
	}
	words.Wipe(c.w)
	p.Pool.Put(c)
}
