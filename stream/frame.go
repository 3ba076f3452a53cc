package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/matt-g-everett/animtx/playback"
	"github.com/matt-g-everett/animtx/scene"
)

// ErrFrameFormat is returned when a binary frame cannot be decoded.
var ErrFrameFormat = errors.New("malformed frame")

const (
	headerSize = 2 + 4 + 2 + 1 + 4*4
	loopingBit = 1 << 2
)

// Frame is the wire form of a playback frame. All integers are little
// endian.
//
//	uint16  shape count
//	uint32  tick
//	uint16  tempo
//	uint8   flags: mode in bits 0-1, looping in bit 2
//	int32   window x, y, width, height
//
// followed by each shape:
//
//	uint8   name length, then the name
//	uint8   kind
//	uint8   visible
//	float32 x, y, width, height
//	uint8   r, g, b
type Frame struct {
	*playback.Frame
}

// MarshalBinary converts a Frame into binary data.
func (f Frame) MarshalBinary() (data []byte, err error) {
	if len(f.Shapes) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d shapes", ErrFrameFormat, len(f.Shapes))
	}

	data = make([]byte, 0, headerSize+len(f.Shapes)*32)
	data = binary.LittleEndian.AppendUint16(data, uint16(len(f.Shapes)))
	data = binary.LittleEndian.AppendUint32(data, uint32(f.Tick))
	data = binary.LittleEndian.AppendUint16(data, uint16(f.Tempo))
	flags := byte(f.Mode) & 0x3
	if f.Looping {
		flags |= loopingBit
	}
	data = append(data, flags)
	for _, v := range []int{f.Window.X, f.Window.Y, f.Window.Width, f.Window.Height} {
		data = binary.LittleEndian.AppendUint32(data, uint32(int32(v)))
	}

	for _, s := range f.Shapes {
		if len(s.Name) > math.MaxUint8 {
			return nil, fmt.Errorf("%w: shape name %q too long", ErrFrameFormat, s.Name)
		}
		data = append(data, byte(len(s.Name)))
		data = append(data, s.Name...)
		data = append(data, byte(s.Kind))
		if s.Visible {
			data = append(data, 1)
		} else {
			data = append(data, 0)
		}
		for _, v := range []float64{s.Position.X, s.Position.Y, s.Size.W, s.Size.H} {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(v)))
		}
		r, g, b := s.Color.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}

// UnmarshalBinary decodes data written by MarshalBinary.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("%w: %d byte header", ErrFrameFormat, len(data))
	}
	out := new(playback.Frame)
	count := int(binary.LittleEndian.Uint16(data))
	out.Tick = int(binary.LittleEndian.Uint32(data[2:]))
	out.Tempo = int(binary.LittleEndian.Uint16(data[6:]))
	out.Mode = playback.Mode(data[8] & 0x3)
	out.Looping = data[8]&loopingBit != 0
	window := make([]int, 4)
	for i := range window {
		window[i] = int(int32(binary.LittleEndian.Uint32(data[9+4*i:])))
	}
	out.Window = scene.ViewWindow{X: window[0], Y: window[1], Width: window[2], Height: window[3]}

	rest := data[headerSize:]
	for i := 0; i < count; i++ {
		if len(rest) < 1 {
			return fmt.Errorf("%w: shape %d truncated", ErrFrameFormat, i)
		}
		n := int(rest[0])
		if len(rest) < 1+n+2+16+3 {
			return fmt.Errorf("%w: shape %d truncated", ErrFrameFormat, i)
		}
		st := scene.State{Name: string(rest[1 : 1+n])}
		rest = rest[1+n:]
		st.Kind = scene.Kind(rest[0])
		st.Visible = rest[1] != 0
		geom := make([]float64, 4)
		for j := range geom {
			geom[j] = float64(math.Float32frombits(binary.LittleEndian.Uint32(rest[2+4*j:])))
		}
		st.Position = scene.Point{X: geom[0], Y: geom[1]}
		st.Size = scene.Size{W: geom[2], H: geom[3]}
		st.Color = scene.RGB255(int(rest[18]), int(rest[19]), int(rest[20]))
		rest = rest[21:]
		out.Shapes = append(out.Shapes, st)
	}

	f.Frame = out
	return nil
}
