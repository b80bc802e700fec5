package util

import "bytes"

// buffers that grew past this are left for the garbage collector
const maxPooledBufferSize = 64 * 1024

var SharedBufferPool = NewBufferPool(128)

// BufferPool is a lock-free, fixed-capacity pool of byte buffers.
type BufferPool chan *bytes.Buffer

func NewBufferPool(size int) BufferPool {
	return make(chan *bytes.Buffer, size)
}

func (b BufferPool) Get() *bytes.Buffer {
	select {
	case buf := <-b:
		return buf
	default:
		return &bytes.Buffer{}
	}
}

func (b BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledBufferSize {
		return
	}
	buf.Reset()
	select {
	case b <- buf:
	default:
	}
}
