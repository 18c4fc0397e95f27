package liveapi

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func sineWave(freq float64, sampleRate, n int) []int16 {
	samples := make([]int16, n)
	for i := range samples {
		v := math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
		samples[i] = int16(v * 16000)
	}
	return samples
}

func TestEncodeDecodeWAVRoundtrip(t *testing.T) {
	samples := sineWave(440, 16000, 1600)

	data, err := EncodeWAV(samples, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	if len(data) != 44+len(samples)*2 {
		t.Errorf("Expected %d bytes, got %d", 44+len(samples)*2, len(data))
	}

	decoded, rate, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if rate != 16000 {
		t.Errorf("Expected sample rate 16000, got %d", rate)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(decoded))
	}
	for i := range samples {
		if decoded[i] != samples[i] {
			t.Fatalf("Sample %d mismatch: expected %d, got %d", i, samples[i], decoded[i])
		}
	}
}

func TestEncodeWAVRejectsBadInput(t *testing.T) {
	if _, err := EncodeWAV(nil, 16000); err == nil {
		t.Error("Expected error for empty samples")
	}
	if _, err := EncodeWAV([]int16{1, 2, 3}, 0); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}

func TestDecodeWAVRejectsBadData(t *testing.T) {
	if _, _, err := DecodeWAV([]byte{1, 2, 3}); err == nil {
		t.Error("Expected error for truncated data")
	}

	data, err := EncodeWAV([]int16{1, 2, 3, 4}, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	corrupt := append([]byte(nil), data...)
	copy(corrupt[0:4], "JUNK")
	if _, _, err := DecodeWAV(corrupt); err == nil {
		t.Error("Expected error for missing RIFF header")
	}

	stereo := append([]byte(nil), data...)
	stereo[22] = 2 // channel count field
	if _, _, err := DecodeWAV(stereo); err == nil {
		t.Error("Expected error for stereo data")
	}
}

func TestDecodeWAVExtraChunks(t *testing.T) {
	samples := []int16{100, -100, 200, -200}
	pcm := PCMToBytes(samples)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // patched below
	buf.WriteString("WAVE")

	// Extended fmt chunk: 18 bytes with a zero-length extension field.
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(18))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(16000))
	binary.Write(&buf, binary.LittleEndian, uint32(32000)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))     // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))    // bits per sample
	binary.Write(&buf, binary.LittleEndian, uint16(0))     // extension size

	// LIST chunk ahead of the data chunk.
	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(10))
	buf.WriteString("INFOhello\x00")

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[4:], uint32(len(data)-8))

	decoded, rate, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV failed on non-canonical layout: %v", err)
	}
	if rate != 16000 {
		t.Errorf("Expected sample rate 16000, got %d", rate)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(decoded))
	}
	for i := range samples {
		if decoded[i] != samples[i] {
			t.Errorf("Sample %d mismatch: expected %d, got %d", i, samples[i], decoded[i])
		}
	}
}

func TestDecodeWAVMissingDataChunk(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(28))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(16000))
	binary.Write(&buf, binary.LittleEndian, uint32(32000))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	if _, _, err := DecodeWAV(buf.Bytes()); err == nil {
		t.Error("Expected error for file without a data chunk")
	}
}

func TestWriteReadWAVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.wav")
	samples := sineWave(440, 24000, 2400)

	if err := WriteWAVFile(path, samples, 24000); err != nil {
		t.Fatalf("WriteWAVFile failed: %v", err)
	}

	loaded, rate, err := ReadWAVFile(path)
	if err != nil {
		t.Fatalf("ReadWAVFile failed: %v", err)
	}
	if rate != 24000 {
		t.Errorf("Expected sample rate 24000, got %d", rate)
	}
	if len(loaded) != len(samples) {
		t.Errorf("Expected %d samples, got %d", len(samples), len(loaded))
	}
}

func TestReadWAVFileMissing(t *testing.T) {
	_, _, err := ReadWAVFile(filepath.Join(t.TempDir(), "nope.wav"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !IsErrorCode(err, ErrCodeFileNotFound) {
		t.Errorf("Expected %s, got %v", ErrCodeFileNotFound, err)
	}
}

func TestReadWAVFileBadFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("not a wav file at all, just text padding out"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, _, err := ReadWAVFile(path)
	if err == nil {
		t.Fatal("Expected error for non-WAV data")
	}
	if !IsErrorCode(err, ErrCodeAudioFormat) {
		t.Errorf("Expected %s, got %v", ErrCodeAudioFormat, err)
	}
}

func TestResample(t *testing.T) {
	samples := sineWave(440, 44100, 4410)

	down := Resample(samples, 44100, 16000)
	wantLen := int(float64(len(samples)) * 16000 / 44100)
	if len(down) != wantLen {
		t.Errorf("Expected %d samples after downsampling, got %d", wantLen, len(down))
	}

	up := Resample(down, 16000, 24000)
	if len(up) <= len(down) {
		t.Errorf("Expected upsampling to produce more samples: %d -> %d", len(down), len(up))
	}
}

func TestResampleNoop(t *testing.T) {
	samples := []int16{1, 2, 3}
	out := Resample(samples, 16000, 16000)
	if len(out) != 3 || out[0] != 1 || out[2] != 3 {
		t.Errorf("Expected identical output for equal rates, got %v", out)
	}

	if out := Resample(nil, 16000, 24000); len(out) != 0 {
		t.Errorf("Expected empty output for empty input, got %v", out)
	}
}

func TestPCMBytesRoundtrip(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 12345}

	data := PCMToBytes(samples)
	if len(data) != len(samples)*2 {
		t.Fatalf("Expected %d bytes, got %d", len(samples)*2, len(data))
	}

	back := BytesToPCM(data)
	if len(back) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(back))
	}
	for i := range samples {
		if back[i] != samples[i] {
			t.Errorf("Sample %d mismatch: expected %d, got %d", i, samples[i], back[i])
		}
	}
}

func TestBytesToPCMDropsOddByte(t *testing.T) {
	out := BytesToPCM([]byte{1, 0, 2})
	if len(out) != 1 || out[0] != 1 {
		t.Errorf("Expected single sample [1], got %v", out)
	}
}
