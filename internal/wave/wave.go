// Package wave converts between 16-bit mono PCM samples and WAV bytes.
package wave

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Format describes decoded PCM.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Encode wraps signed 16-bit mono samples in a PCM WAV container.
func Encode(samples []int16, sampleRate int) ([]byte, error) {
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	var ws writeSeeker
	enc := wav.NewEncoder(&ws, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finishing wav: %w", err)
	}
	return ws.buf, nil
}

// Decode returns the little-endian 16-bit PCM payload of a WAV file and its
// format. Only 16-bit input is accepted.
func Decode(data []byte) ([]byte, Format, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, Format{}, errors.New("not a valid WAV file")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, Format{}, fmt.Errorf("decoding wav: %w", err)
	}
	if pb == nil || len(pb.Data) == 0 {
		return nil, Format{}, errors.New("wav has no samples")
	}

	f := Format{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	if f.BitDepth != 16 {
		return nil, f, fmt.Errorf("unsupported bit depth %d", f.BitDepth)
	}

	pcm := make([]byte, 2*len(pb.Data))
	for i, v := range pb.Data {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(int16(v)))
	}
	return pcm, f, nil
}

// RMS is the root mean square of a frame, normalized to [0, 1].
func RMS(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var s float64
	for _, x := range frame {
		v := float64(x) / math.MaxInt16
		s += v * v
	}
	return math.Sqrt(s / float64(len(frame)))
}

// writeSeeker is an in-memory io.WriteSeeker; the WAV encoder seeks back to
// patch chunk sizes on Close.
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	n := copy(w.buf[w.pos:], p)
	w.pos += n
	return n, nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	w.pos = int(abs)
	return abs, nil
}
