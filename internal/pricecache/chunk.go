package pricecache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
	"time"

	"PriceForecaster/internal/model"

	"github.com/prometheus/prometheus/tsdb/chunkenc"
)

var (
	ErrChecksum = errors.New("checksum mismatch: cached chunk is corrupted")
	ErrTooSmall = errors.New("blob too small to be a valid chunk")
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// EncodePoints packs points into an XOR chunk framed as
// [encoding byte][chunk bytes][crc32c big-endian]. Timestamps are unix seconds.
func EncodePoints(points []model.PricePoint) ([]byte, error) {
	if len(points) > math.MaxUint16 {
		return nil, fmt.Errorf("too many points for one chunk: %d", len(points))
	}
	c := chunkenc.NewXORChunk()
	app, err := c.Appender()
	if err != nil {
		return nil, fmt.Errorf("chunk appender: %w", err)
	}
	for _, p := range points {
		app.Append(p.Date.Unix(), p.Close)
	}
	return wrapChunk(c), nil
}

// DecodePoints validates the frame and unpacks the points in order.
func DecodePoints(data []byte) ([]model.PricePoint, error) {
	c, err := unwrapChunk(data)
	if err != nil {
		return nil, err
	}
	points := make([]model.PricePoint, 0, c.NumSamples())
	it := c.Iterator(nil)
	for it.Next() != chunkenc.ValNone {
		ts, v := it.At()
		points = append(points, model.PricePoint{Date: time.Unix(ts, 0).UTC(), Close: v})
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk: %w", err)
	}
	return points, nil
}

func wrapChunk(c chunkenc.Chunk) []byte {
	raw := c.Bytes()
	res := make([]byte, 1+len(raw)+4)
	res[0] = byte(c.Encoding())
	copy(res[1:], raw)
	binary.BigEndian.PutUint32(res[1+len(raw):], crc32.Checksum(res[:1+len(raw)], castagnoli))
	return res
}

func unwrapChunk(data []byte) (chunkenc.Chunk, error) {
	if len(data) < 5 {
		return nil, ErrTooSmall
	}
	payload := data[:len(data)-4]
	want := binary.BigEndian.Uint32(data[len(data)-4:])
	if crc32.Checksum(payload, castagnoli) != want {
		return nil, ErrChecksum
	}
	enc := chunkenc.Encoding(payload[0])
	if enc != chunkenc.EncXOR {
		return nil, fmt.Errorf("unsupported encoding type: %d", enc)
	}
	return chunkenc.FromData(enc, payload[1:])
}
