package dsp

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// SampleBuffer is a reusable float32 scratch buffer used for waterfall
// magnitude arrays and demodulated sample slices.
type SampleBuffer struct {
	Data []float32
	Size int
	pool *SampleBufferPool
}

// Reset clears the buffer data and resets size for reuse.
func (sb *SampleBuffer) Reset() {
	for i := range sb.Data {
		sb.Data[i] = 0
	}
	sb.Size = 0
}

// Release returns the buffer to its pool for reuse.
func (sb *SampleBuffer) Release() {
	if sb.pool != nil {
		sb.pool.Put(sb)
	}
}

// SampleBufferPool manages tiered sync.Pools of float32 scratch buffers,
// sized for FT8/FT4 waterfall and sample-buffer allocation patterns.
type SampleBufferPool struct {
	smallPool  *sync.Pool // <= 4096 samples (one FT4 symbol block of magnitudes)
	mediumPool *sync.Pool // <= 65536 samples (one full FT8 waterfall column set)
	largePool  *sync.Pool // <= 262144 samples (multi-slot batch decode)

	smallHits  int64
	mediumHits int64
	largeHits  int64
	smallMiss  int64
	mediumMiss int64
	largeMiss  int64

	maxBufferSize    int
	enableStatistics bool
}

var globalSamplePool *SampleBufferPool
var samplePoolOnce sync.Once

// GetGlobalSamplePool returns the singleton scratch-buffer pool.
func GetGlobalSamplePool() *SampleBufferPool {
	samplePoolOnce.Do(func() {
		globalSamplePool = NewSampleBufferPool(262144, true)
		go globalSamplePool.statisticsReporter()
	})
	return globalSamplePool
}

// NewSampleBufferPool creates a new scratch-buffer pool with size-tiered sub-pools.
func NewSampleBufferPool(maxBufferSize int, enableStats bool) *SampleBufferPool {
	pool := &SampleBufferPool{
		maxBufferSize:    maxBufferSize,
		enableStatistics: enableStats,
	}

	pool.smallPool = &sync.Pool{
		New: func() interface{} {
			if enableStats {
				atomic.AddInt64(&pool.smallMiss, 1)
			}
			return &SampleBuffer{Data: make([]float32, 4096), pool: pool}
		},
	}
	pool.mediumPool = &sync.Pool{
		New: func() interface{} {
			if enableStats {
				atomic.AddInt64(&pool.mediumMiss, 1)
			}
			return &SampleBuffer{Data: make([]float32, 65536), pool: pool}
		},
	}
	pool.largePool = &sync.Pool{
		New: func() interface{} {
			if enableStats {
				atomic.AddInt64(&pool.largeMiss, 1)
			}
			return &SampleBuffer{Data: make([]float32, 262144), pool: pool}
		},
	}

	return pool
}

// Get retrieves a buffer of at least the requested size.
func (p *SampleBufferPool) Get(size int) *SampleBuffer {
	if size <= 0 {
		return &SampleBuffer{Data: make([]float32, 0), pool: p}
	}
	if size > p.maxBufferSize {
		return &SampleBuffer{Data: make([]float32, size), Size: size, pool: p}
	}

	var buffer *SampleBuffer
	switch {
	case size <= 4096:
		buffer = p.smallPool.Get().(*SampleBuffer)
		if p.enableStatistics {
			atomic.AddInt64(&p.smallHits, 1)
		}
	case size <= 65536:
		buffer = p.mediumPool.Get().(*SampleBuffer)
		if p.enableStatistics {
			atomic.AddInt64(&p.mediumHits, 1)
		}
	default:
		buffer = p.largePool.Get().(*SampleBuffer)
		if p.enableStatistics {
			atomic.AddInt64(&p.largeHits, 1)
		}
	}

	if cap(buffer.Data) < size {
		buffer.Data = make([]float32, size)
	}
	buffer.Data = buffer.Data[:size]
	buffer.Size = size
	return buffer
}

// Put returns a buffer to the appropriate tier for reuse.
func (p *SampleBufferPool) Put(buffer *SampleBuffer) {
	if buffer == nil || buffer.Data == nil {
		return
	}
	buffer.Reset()

	switch capacity := cap(buffer.Data); {
	case capacity <= 4096:
		p.smallPool.Put(buffer)
	case capacity <= 65536:
		p.mediumPool.Put(buffer)
	case capacity <= 262144:
		p.largePool.Put(buffer)
	default:
		// oversized, let it be collected
	}
}

// GetStatistics returns current pool utilization statistics.
func (p *SampleBufferPool) GetStatistics() map[string]int64 {
	if !p.enableStatistics {
		return map[string]int64{}
	}
	return map[string]int64{
		"small_hits":  atomic.LoadInt64(&p.smallHits),
		"medium_hits": atomic.LoadInt64(&p.mediumHits),
		"large_hits":  atomic.LoadInt64(&p.largeHits),
		"small_miss":  atomic.LoadInt64(&p.smallMiss),
		"medium_miss": atomic.LoadInt64(&p.mediumMiss),
		"large_miss":  atomic.LoadInt64(&p.largeMiss),
	}
}

func (p *SampleBufferPool) statisticsReporter() {
	if !p.enableStatistics {
		return
	}
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		stats := p.GetStatistics()
		totalHits := stats["small_hits"] + stats["medium_hits"] + stats["large_hits"]
		totalMiss := stats["small_miss"] + stats["medium_miss"] + stats["large_miss"]
		total := totalHits + totalMiss
		if total > 0 {
			hitRate := float64(totalHits) / float64(total) * 100
			log.Printf("SampleBufferPool stats: %d requests, %.1f%% hit rate (S:%d/%d M:%d/%d L:%d/%d)",
				total, hitRate,
				stats["small_hits"], stats["small_miss"],
				stats["medium_hits"], stats["medium_miss"],
				stats["large_hits"], stats["large_miss"])
		}
	}
}
