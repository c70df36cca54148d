package capture

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gen2brain/malgo"
)

// Format names a sample encoding the backend can deliver.
type Format string

const (
	FormatF32 Format = "f32" // 32-bit float, native range
	FormatS16 Format = "s16" // 16-bit signed integer
	FormatS24 Format = "s24" // 24-bit signed integer, packed
	FormatS32 Format = "s32" // 32-bit signed integer
	FormatU8  Format = "u8"  // 8-bit unsigned integer
)

func (f Format) native() (malgo.FormatType, error) {
	switch f {
	case FormatF32:
		return malgo.FormatF32, nil
	case FormatS16:
		return malgo.FormatS16, nil
	case FormatS24:
		return malgo.FormatS24, nil
	case FormatS32:
		return malgo.FormatS32, nil
	case FormatU8:
		return malgo.FormatU8, nil
	default:
		return malgo.FormatUnknown, fmt.Errorf("unsupported sample format %q", string(f))
	}
}

func (f Format) sampleSize() int {
	switch f {
	case FormatS16:
		return 2
	case FormatS24:
		return 3
	case FormatU8:
		return 1
	default:
		return 4
	}
}

// decode converts one interleaved little-endian buffer into normalized
// samples in [-1, 1), reusing dst when it has the capacity.
func (f Format) decode(dst []float64, src []byte) []float64 {
	size := f.sampleSize()
	n := len(src) / size
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]

	switch f {
	case FormatF32:
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint32(src[i*4:])
			dst[i] = float64(math.Float32frombits(bits))
		}
	case FormatS16:
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(src[i*2:]))
			dst[i] = float64(v) / 32768
		}
	case FormatS24:
		for i := 0; i < n; i++ {
			v := int32(src[i*3]) | int32(src[i*3+1])<<8 | int32(src[i*3+2])<<16
			if v&0x800000 != 0 {
				v -= 0x1000000
			}
			dst[i] = float64(v) / 8388608
		}
	case FormatS32:
		for i := 0; i < n; i++ {
			v := int32(binary.LittleEndian.Uint32(src[i*4:]))
			dst[i] = float64(v) / 2147483648
		}
	case FormatU8:
		for i := 0; i < n; i++ {
			dst[i] = float64(int(src[i])-128) / 128
		}
	}
	return dst
}
