package render

import (
	"encoding/binary"
	"fmt"
	"os"
)

const (
	wavHeaderSize   = 44
	wavFmtChunkSize = 16
	wavFormatPCM    = 1
	bytesPerSample  = 2
	bitsPerSample   = 16
)

// encodeWAV wraps raw little-endian 16-bit PCM in a RIFF/WAVE container.
func encodeWAV(pcm []byte, sampleRate, channels int) []byte {
	dataSize := len(pcm)
	byteRate := sampleRate * channels * bytesPerSample
	blockAlign := channels * bytesPerSample
	chunkSize := wavHeaderSize - 8 + dataSize

	out := make([]byte, wavHeaderSize+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], wavFmtChunkSize)
	binary.LittleEndian.PutUint16(out[20:], wavFormatPCM)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], bitsPerSample)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	copy(out[wavHeaderSize:], pcm)
	return out
}

// writeWAV persists a PCM buffer as a WAV file.
func writeWAV(path string, pcm []byte, sampleRate, channels int) error {
	if err := os.WriteFile(path, encodeWAV(pcm, sampleRate, channels), 0o644); err != nil {
		return fmt.Errorf("writing wav file: %w", err)
	}
	return nil
}
