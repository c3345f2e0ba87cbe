package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

const (
	wavHeaderSize    = 44
	wavBitsPerSample = 16
)

// EncodeWAV writes p as a 16-bit PCM mono RIFF file.
func EncodeWAV(w io.Writer, p *PCM) error {
	dataSize := len(p.Samples) * 2
	byteRate := p.SampleRate * wavBitsPerSample / 8

	header := struct {
		ChunkID       [4]byte
		ChunkSize     uint32
		Format        [4]byte
		Subchunk1ID   [4]byte
		Subchunk1Size uint32
		AudioFormat   uint16
		NumChannels   uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Subchunk2ID   [4]byte
		Subchunk2Size uint32
	}{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(wavHeaderSize - 8 + dataSize),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(p.SampleRate),
		ByteRate:      uint32(byteRate),
		BlockAlign:    wavBitsPerSample / 8,
		BitsPerSample: wavBitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(dataSize),
	}

	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write wav header: %w", err)
	}

	buf := make([]byte, dataSize)
	for i, s := range p.Samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(toInt16(s)))
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	return nil
}

// WAV returns p encoded as an in-memory WAV file.
func (p *PCM) WAV() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + len(p.Samples)*2)
	if err := EncodeWAV(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteWAV saves p to path, creating parent directories.
func WriteWAV(path string, p *PCM) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}

	if err := EncodeWAV(file, p); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func toInt16(s float32) int16 {
	v := math.Round(float64(s) * math.MaxInt16)
	return int16(max(min(v, math.MaxInt16), math.MinInt16))
}
