package usecase

import (
	"encoding/binary"
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
)

const lockStripes = 64

// stripedLock serialises work on the same key inside one process.
type stripedLock struct {
	stripes [lockStripes]sync.Mutex
}

func (l *stripedLock) lock(id uuid.UUID) func() {
	return l.acquire(id[:])
}

func (l *stripedLock) lockUser(userID int64) func() {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(userID))
	return l.acquire(b[:])
}

func (l *stripedLock) acquire(key []byte) func() {
	h := fnv.New32a()
	_, _ = h.Write(key)
	m := &l.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
