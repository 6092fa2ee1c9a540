package geohash

import (
	"encoding/binary"
	"fmt"

	"github.com/viant/geobench/geo"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	pointPrefix byte = 'p'
	metaPrefix  byte = 'm'
)

// keyPrecision is the geohash length stored in point keys.
const keyPrecision = geo.MaxGeohashPrecision

var countKey = []byte{metaPrefix, 'c'}

// entry is the msgpack value stored for every point.
type entry struct {
	Lat float64 `msgpack:"lat"`
	Lon float64 `msgpack:"lon"`
}

// pointKey lays out prefix | geohash | big-endian id.
func pointKey(id int, p geo.Point) []byte {
	hash := geo.Geohash(p, keyPrecision)
	key := make([]byte, 1+len(hash)+4)
	key[0] = pointPrefix
	copy(key[1:], hash)
	binary.BigEndian.PutUint32(key[1+len(hash):], uint32(id))
	return key
}

func cellPrefix(cell string) []byte {
	prefix := make([]byte, 1+len(cell))
	prefix[0] = pointPrefix
	copy(prefix[1:], cell)
	return prefix
}

func decodeID(key []byte) (int, error) {
	if len(key) != 1+keyPrecision+4 {
		return 0, fmt.Errorf("geohash: invalid key length %d", len(key))
	}
	return int(binary.BigEndian.Uint32(key[1+keyPrecision:])), nil
}

func encodeEntry(p geo.Point) ([]byte, error) {
	return msgpack.Marshal(entry{Lat: p.Lat, Lon: p.Lon})
}

func decodeEntry(data []byte) (geo.Point, error) {
	var e entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return geo.Point{}, err
	}
	return geo.Point{Lat: e.Lat, Lon: e.Lon}, nil
}

func encodeCount(n int) ([]byte, error) { return msgpack.Marshal(n) }

func decodeCount(data []byte) (int, error) {
	var n int
	err := msgpack.Unmarshal(data, &n)
	return n, err
}
