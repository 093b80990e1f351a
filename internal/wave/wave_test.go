package wave

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	samples := []int16{0, 1000, -1000, math.MaxInt16, math.MinInt16, 42}

	data, err := Encode(samples, 16000)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE header: %q", data[:12])
	}

	pcm, f, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.SampleRate != 16000 || f.Channels != 1 || f.BitDepth != 16 {
		t.Fatalf("format = %+v", f)
	}
	if len(pcm) != 2*len(samples) {
		t.Fatalf("pcm length = %d, want %d", len(pcm), 2*len(samples))
	}
	for i, want := range samples {
		got := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		if got != want {
			t.Errorf("sample %d = %d, want %d", i, got, want)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, _, err := Decode([]byte("definitely not audio")); err == nil {
		t.Fatal("expected error for non-wav input")
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Errorf("RMS(nil) = %f", got)
	}
	if got := RMS([]int16{0, 0, 0}); got != 0 {
		t.Errorf("RMS(silence) = %f", got)
	}
	full := RMS([]int16{math.MaxInt16, -math.MaxInt16})
	if math.Abs(full-1) > 1e-9 {
		t.Errorf("RMS(full scale) = %f, want 1", full)
	}
	quiet := RMS([]int16{100, -100, 100, -100})
	if quiet <= 0 || quiet >= 0.01 {
		t.Errorf("RMS(quiet) = %f, want small positive", quiet)
	}
}
