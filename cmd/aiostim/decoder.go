package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// StimulusDecoder abstracts the decoding of a stimulus file so the level
// analysis can handle WAV, MP3 and Ogg Vorbis uniformly.
type StimulusDecoder interface {
	// PCMBuffer reads decoded PCM audio data into the provided buffer.
	// It returns the number of samples (not frames) read.
	PCMBuffer(buf *audio.IntBuffer) (n int, err error)
	// NumChans returns the number of audio channels.
	NumChans() uint16
	// SampleRate returns the sample rate in Hz.
	SampleRate() uint32
	// BitDepth returns the bit depth of the decoded samples.
	BitDepth() uint16
}

// openDecoder opens a stimulus file and picks a decoder by extension.
func openDecoder(path string) (StimulusDecoder, *os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var decoder StimulusDecoder

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		decoder, err = newWavDecoder(file)
	case ".mp3":
		decoder, err = newMp3Decoder(file)
	case ".ogg", ".oga":
		decoder, err = newVorbisDecoder(file)
	default:
		err = fmt.Errorf("unsupported stimulus format '%s'", filepath.Ext(path))
	}

	if err != nil {
		_ = file.Close()

		return nil, nil, err
	}

	return decoder, file, nil
}

// wavDecoderWrapper wraps the go-audio WAV decoder.
type wavDecoderWrapper struct {
	*wav.Decoder
}

func newWavDecoder(r io.ReadSeeker) (StimulusDecoder, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}

	if decoder.WavAudioFormat == 3 { // 3 == IEEE float
		return nil, errors.New("floating-point WAV stimuli are not supported")
	}

	return &wavDecoderWrapper{Decoder: decoder}, nil
}

func (w *wavDecoderWrapper) SampleRate() uint32 { return w.Decoder.SampleRate }
func (w *wavDecoderWrapper) NumChans() uint16   { return w.Decoder.NumChans }
func (w *wavDecoderWrapper) BitDepth() uint16   { return uint16(w.Decoder.BitDepth) }

// mp3DecoderWrapper wraps the go-mp3 decoder, which always produces
// 16-bit stereo PCM.
type mp3DecoderWrapper struct {
	decoder    *mp3.Decoder
	sampleRate uint32
}

func newMp3Decoder(r io.Reader) (StimulusDecoder, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	return &mp3DecoderWrapper{
		decoder:    decoder,
		sampleRate: uint32(decoder.SampleRate()),
	}, nil
}

// PCMBuffer reads decoded 16-bit little-endian PCM bytes and widens them
// to integers.
func (m *mp3DecoderWrapper) PCMBuffer(buf *audio.IntBuffer) (n int, err error) {
	byteBuf := make([]byte, len(buf.Data)*2)

	bytesRead, err := m.decoder.Read(byteBuf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}

	samplesRead := bytesRead / 2
	for i := 0; i < samplesRead; i++ {
		buf.Data[i] = int(int16(binary.LittleEndian.Uint16(byteBuf[i*2:])))
	}

	return samplesRead, err
}

func (m *mp3DecoderWrapper) SampleRate() uint32 { return m.sampleRate }
func (m *mp3DecoderWrapper) NumChans() uint16   { return 2 }
func (m *mp3DecoderWrapper) BitDepth() uint16   { return 16 }

// vorbisDecoderWrapper wraps the oggvorbis reader, scaling its float
// samples to 16-bit integer PCM.
type vorbisDecoderWrapper struct {
	reader *oggvorbis.Reader
	fbuf   []float32
}

func newVorbisDecoder(r io.Reader) (StimulusDecoder, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, err
	}

	return &vorbisDecoderWrapper{reader: reader}, nil
}

func (v *vorbisDecoderWrapper) PCMBuffer(buf *audio.IntBuffer) (n int, err error) {
	if len(v.fbuf) < len(buf.Data) {
		v.fbuf = make([]float32, len(buf.Data))
	}

	read, err := v.reader.Read(v.fbuf[:len(buf.Data)])
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}

	for i := 0; i < read; i++ {
		sample := v.fbuf[i]
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}

		buf.Data[i] = int(sample * 32767)
	}

	return read, err
}

func (v *vorbisDecoderWrapper) SampleRate() uint32 { return uint32(v.reader.SampleRate()) }
func (v *vorbisDecoderWrapper) NumChans() uint16   { return uint16(v.reader.Channels()) }
func (v *vorbisDecoderWrapper) BitDepth() uint16   { return 16 }
