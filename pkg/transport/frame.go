package transport

import (
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// Frame is the unit exchanged between socket transports, one websocket
// message per frame.
type Frame struct {
	Run    string `cbor:"1,keyasint"`
	Source int    `cbor:"2,keyasint"`
	Tag    int    `cbor:"3,keyasint"`
	Data   []int  `cbor:"4,keyasint"`
}

var (
	frameEncoder cbor.EncMode
	frameDecoder cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	// partitions are far larger than the decoder's default array limit
	dm, err := cbor.DecOptions{MaxArrayElements: math.MaxInt32}.DecMode()
	if err != nil {
		panic(err)
	}

	frameEncoder = em
	frameDecoder = dm
}

func EncodeFrame(f Frame) ([]byte, error) {
	data, err := frameEncoder.Marshal(f)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

func DecodeFrame(data []byte) (Frame, error) {
	var f Frame

	if err := frameDecoder.Unmarshal(data, &f); err != nil {
		return Frame{}, errors.WithStack(err)
	}

	return f, nil
}
