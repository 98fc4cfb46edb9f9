//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package transpositiontable implements a transposition table (cache)
// data structure and functionality for a chess engine search.
//
// Unlike a single-threaded engine's table, this one is read and written
// from multiple search workers concurrently, so access is guarded by a
// fixed number of striped mutexes - one per shard of the entry array
// rather than one per entry, which would dwarf the table itself in
// memory. Resize and Clear still assume no search is running
// concurrently with them.
package transpositiontable

import (
	"math"
	"sync"
	"time"
	"unsafe"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/corvidchess/corvid/internal/applog"
	. "github.com/corvidchess/corvid/internal/chess"
	"github.com/corvidchess/corvid/internal/util"
)

var out = message.NewPrinter(language.German)

const (
	// MaxSizeInMB maximal memory usage of tt
	MaxSizeInMB = 65_536

	// numShards is the number of lock stripes guarding the entry array.
	// A power of two so the shard index is a cheap mask of the hash.
	numShards = 1024
)

// TtTable is the actual transposition table object holding data and
// state. Create with NewTtTable().
type TtTable struct {
	log                *logging.Logger
	data               []TtEntry
	locks              []sync.Mutex
	shardMask          uint64
	sizeInByte         uint64
	hashKeyMask        uint64
	maxNumberOfEntries uint64
	numberOfEntries    uint64
	Stats              TtStats
}

// TtStats holds statistical data on tt usage.
type TtStats struct {
	numberOfPuts       uint64
	numberOfCollisions uint64
	numberOfOverwrites uint64
	numberOfUpdates    uint64
	numberOfProbes     uint64
	numberOfHits       uint64
	numberOfMisses     uint64
}

// NewTtTable creates a new TtTable with the given number of bytes
// as a maximum of memory usage. actual size will be determined
// by the number of elements fitting into this size which need
// to be a power of 2 for efficient hashing/addressing via bit
// masks.
func NewTtTable(sizeInMByte int) *TtTable {
	tt := TtTable{
		log:                applog.GetLog(),
		data:               nil,
		locks:              make([]sync.Mutex, numShards),
		shardMask:          numShards - 1,
		sizeInByte:         0,
		hashKeyMask:        0,
		maxNumberOfEntries: 0,
		numberOfEntries:    0,
	}
	tt.Resize(sizeInMByte)
	return &tt
}

// Resize resizes the tt table. All entries will be cleared. Must not be
// called while a search is concurrently probing or putting. The byte
// budget is divided by baseTtEntrySize, an approximation since PV
// entries additionally own a variable-length path slice.
func (tt *TtTable) Resize(sizeInMByte int) {
	if sizeInMByte > MaxSizeInMB {
		tt.log.Error(out.Sprintf("Requested size for TT of %d MB reduced to max of %d MB", sizeInMByte, MaxSizeInMB))
		sizeInMByte = MaxSizeInMB
	}

	// calculate the maximum power of 2 of entries fitting into the given size in MB
	tt.sizeInByte = uint64(sizeInMByte) * MB
	tt.maxNumberOfEntries = 1 << uint64(math.Floor(math.Log2(float64(tt.sizeInByte/baseTtEntrySize))))
	tt.hashKeyMask = tt.maxNumberOfEntries - 1 // --> 0x0001111....111

	// if TT is resized to 0 we cant have any entries.
	if tt.sizeInByte == 0 {
		tt.maxNumberOfEntries = 0
	}

	// calculate the real memory usage
	tt.sizeInByte = tt.maxNumberOfEntries * baseTtEntrySize

	// Create new slice/array - garbage collections takes care of cleanup
	tt.data = make([]TtEntry, tt.maxNumberOfEntries)

	tt.log.Info(out.Sprintf("TT Size %d MByte, Capacity %d entries (base size=%dByte) (Requested were %d MBytes)",
		tt.sizeInByte/MB, tt.maxNumberOfEntries, unsafe.Sizeof(TtEntry{}), sizeInMByte))
	tt.log.Debug(util.MemStat())
}

// shard returns the lock stripe guarding the bucket key hashes to.
func (tt *TtTable) shard(key Key) *sync.Mutex {
	return &tt.locks[uint64(key)&tt.shardMask]
}

// GetEntry returns a copy of the corresponding tt entry. Given key is
// checked against the entry's key. When equal the entry is returned,
// ok is true. Does not change statistics.
func (tt *TtTable) GetEntry(key Key) (TtEntry, bool) {
	lock := tt.shard(key)
	lock.Lock()
	defer lock.Unlock()
	e := tt.data[tt.hash(key)]
	if e.key == key {
		return e, true
	}
	return TtEntry{}, false
}

// Probe returns the corresponding tt entry, decreasing its Age by one,
// or ok=false if the bucket does not hold this position.
func (tt *TtTable) Probe(key Key) (TtEntry, bool) {
	lock := tt.shard(key)
	lock.Lock()
	defer lock.Unlock()

	tt.Stats.numberOfProbes++
	entryPtr := &tt.data[tt.hash(key)]
	if entryPtr.key == key {
		entryPtr.decreaseAge()
		tt.Stats.numberOfHits++
		return *entryPtr, true
	}
	tt.Stats.numberOfMisses++
	return TtEntry{}, false
}

// Put stores a search result into the tt. kind classifies how value
// relates to the node's true value (NodeKindAll/Cut/PV); move is the
// cutoff/best move (MoveNone for an all-node), and path is the
// remembered principal continuation - only meaningful, and only kept,
// for a NodeKindPV entry. rootIndex is the NextHalfMoveNumber() of the
// position at the root of the search run that produced this entry.
func (tt *TtTable) Put(key Key, depth int8, value Value, kind NodeKind, move Move, path MoveList, rootIndex int, mateThreat bool) {
	if tt.maxNumberOfEntries == 0 {
		return
	}

	lock := tt.shard(key)
	lock.Lock()
	defer lock.Unlock()

	entryDataPtr := &tt.data[tt.hash(key)]

	tt.Stats.numberOfPuts++

	var storedPath MoveList
	if kind == NodeKindPV && len(path) > 0 {
		storedPath = make(MoveList, len(path))
		copy(storedPath, path)
	}

	// new entry
	if entryDataPtr.key == 0 {
		tt.numberOfEntries++
		entryDataPtr.key = key
		entryDataPtr.kind = kind
		entryDataPtr.move = move
		entryDataPtr.path = storedPath
		entryDataPtr.value = int16(value)
		entryDataPtr.depth = depth
		entryDataPtr.age = 0
		entryDataPtr.rootIndex = int32(rootIndex)
		entryDataPtr.mateThreat = mateThreat
		return
	}

	// same bucket but different position
	if entryDataPtr.key != key {
		tt.Stats.numberOfCollisions++
		// overwrite if
		// - the new entry's depth is higher
		// - the new entry's depth is same and the previous entry is old (is aged)
		// - the previous entry is from an earlier search run and has aged at all
		staleRoot := entryDataPtr.rootIndex != int32(rootIndex) && entryDataPtr.Age() > 0
		if depth > entryDataPtr.Depth() ||
			(depth == entryDataPtr.Depth() && entryDataPtr.Age() > 1) ||
			staleRoot {
			tt.Stats.numberOfOverwrites++
			entryDataPtr.key = key
			entryDataPtr.kind = kind
			entryDataPtr.move = move
			entryDataPtr.path = storedPath
			entryDataPtr.value = int16(value)
			entryDataPtr.depth = depth
			entryDataPtr.age = 0
			entryDataPtr.rootIndex = int32(rootIndex)
			entryDataPtr.mateThreat = mateThreat
		}
		return
	}

	// same bucket and same position -> update entry
	tt.Stats.numberOfUpdates++
	if move != MoveNone { // preserve an existing hint if we store without one
		entryDataPtr.kind = kind
		entryDataPtr.move = move
		entryDataPtr.path = storedPath
	}
	if value != ValueNA {
		entryDataPtr.value = int16(value)
		entryDataPtr.depth = depth
		entryDataPtr.mateThreat = mateThreat
	}
	entryDataPtr.rootIndex = int32(rootIndex)
}

// Clear clears all entries of the tt. Must not be called while a
// search is concurrently probing or putting.
func (tt *TtTable) Clear() {
	tt.data = make([]TtEntry, tt.maxNumberOfEntries)
	tt.numberOfEntries = 0
	tt.Stats = TtStats{}
}

// Hashfull returns how full the transposition table is in permill as per UCI
func (tt *TtTable) Hashfull() int {
	if tt.maxNumberOfEntries == 0 {
		return 0
	}
	return int((1000 * tt.numberOfEntries) / tt.maxNumberOfEntries)
}

// String returns a string representation of this TtTable instance
func (tt *TtTable) String() string {
	return out.Sprintf("TT: size %d MB max entries %d of size %d Bytes entries %d (%d%%) puts %d "+
		"updates %d collisions %d overwrites %d probes %d hits %d (%d%%) misses %d (%d%%)",
		tt.sizeInByte/MB, tt.maxNumberOfEntries, unsafe.Sizeof(TtEntry{}), tt.numberOfEntries, tt.Hashfull()/10,
		tt.Stats.numberOfPuts, tt.Stats.numberOfUpdates, tt.Stats.numberOfCollisions, tt.Stats.numberOfOverwrites, tt.Stats.numberOfProbes,
		tt.Stats.numberOfHits, (tt.Stats.numberOfHits*100)/(1+tt.Stats.numberOfProbes),
		tt.Stats.numberOfMisses, (tt.Stats.numberOfMisses*100)/(1+tt.Stats.numberOfProbes))
}

// Len returns the number of non empty entries in the tt
func (tt *TtTable) Len() uint64 {
	return tt.numberOfEntries
}

// AgeEntries ages each entry in the tt. Creates a number of goroutines
// which each process a slice of the data. Takes none of the shard locks,
// so it must not be called while a search is concurrently probing or
// putting.
func (tt *TtTable) AgeEntries() {
	startTime := time.Now()
	if tt.numberOfEntries > 0 {
		numberOfGoroutines := uint64(32) // arbitrary - uses up to 32 threads
		var wg sync.WaitGroup
		wg.Add(int(numberOfGoroutines))
		slice := tt.maxNumberOfEntries / numberOfGoroutines
		for i := uint64(0); i < numberOfGoroutines; i++ {
			go func(i uint64) {
				defer wg.Done()
				start := i * slice
				end := start + slice
				if i == numberOfGoroutines-1 {
					end = tt.maxNumberOfEntries
				}
				for n := start; n < end; n++ {
					if tt.data[n].key != 0 {
						tt.data[n].increaseAge()
					}
				}
			}(i)
		}
		wg.Wait()
	}
	elapsed := time.Since(startTime)
	tt.log.Debug(out.Sprintf("Aged %d entries of %d in %d ms\n", tt.numberOfEntries, len(tt.data), elapsed.Milliseconds()))
}

// ///////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////

// hash generates the internal hash key for the data array
func (tt *TtTable) hash(key Key) uint64 {
	return uint64(key) & tt.hashKeyMask
}
