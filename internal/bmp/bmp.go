// Package bmp serializes a raster.Buffer as an uncompressed 24-bit bitmap.
//
// The pixel payload is the buffer's bytes unchanged: R,G,B per pixel, top row
// first, no row padding. Consumers that expect the BGR bottom-up layout of a
// conventional DIB will display the image flipped with red and blue swapped.
package bmp

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/raster"
)

const (
	// FileHeaderSize is the size of the BITMAPFILEHEADER structure.
	FileHeaderSize = 14
	// InfoHeaderSize is the size of the BITMAPINFOHEADER structure.
	InfoHeaderSize = 40
	// HeaderSize is the offset of the pixel payload.
	HeaderSize = FileHeaderSize + InfoHeaderSize

	// XPelsPerMeter is the horizontal resolution written to every file (72 DPI).
	XPelsPerMeter = 2835
	bitsPerPixel  = 24
)

var magic = [2]byte{'B', 'M'}

// FileHeader is the 14-byte bitmap file header.
type FileHeader struct {
	Type      [2]byte // "BM"
	Size      uint32  // whole file, in bytes
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32 // offset of the pixel payload
}

// InfoHeader is the 40-byte device-independent bitmap header.
type InfoHeader struct {
	Size            uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	SizeImage       uint32
	XPelsPerMeter   int32
	YPelsPerMeter   int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// Header is the complete 54-byte prefix of a bitmap file.
type Header struct {
	File FileHeader
	Info InfoHeader
}

// CheckDimensions reports whether a width×height image can be described by
// the header: both dimensions fit the signed 32-bit fields and the whole
// file fits the unsigned 32-bit size field.
func CheckDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > math.MaxInt32 || height > math.MaxInt32 {
		return apperrors.ValidationError{Field: "dimensions", Message: fmt.Sprintf("invalid dimensions %dx%d", width, height)}
	}
	if size := HeaderSize + uint64(width)*uint64(height)*raster.BytesPerPixel; size > math.MaxUint32 {
		return apperrors.ValidationError{Field: "size", Message: fmt.Sprintf("a %dx%d image needs a %d byte file, over the %d byte limit of the format", width, height, size, uint64(math.MaxUint32))}
	}
	return nil
}

// NewHeader returns the header of a width×height 24-bit image. The
// dimensions must pass CheckDimensions.
func NewHeader(width, height int) Header {
	payload := uint32(raster.SizeOf(width, height))
	return Header{
		File: FileHeader{
			Type:    magic,
			Size:    HeaderSize + payload,
			OffBits: HeaderSize,
		},
		Info: InfoHeader{
			Size:          InfoHeaderSize,
			Width:         int32(width),
			Height:        int32(height),
			Planes:        1,
			BitCount:      bitsPerPixel,
			SizeImage:     payload,
			XPelsPerMeter: XPelsPerMeter,
		},
	}
}

// PayloadSize returns the number of pixel bytes described by the header.
func (h Header) PayloadSize() int {
	return int(h.Info.Width) * int(h.Info.Height) * raster.BytesPerPixel
}

// Encode writes the header followed by the buffer's bytes.
func Encode(w io.Writer, buf *raster.Buffer) error {
	if buf == nil || buf.Len() != raster.SizeOf(buf.Width, buf.Height) {
		return apperrors.ValidationError{Field: "buffer", Message: "buffer size does not match its dimensions"}
	}
	if err := CheckDimensions(buf.Width, buf.Height); err != nil {
		return err
	}
	h := NewHeader(buf.Width, buf.Height)
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("writing bitmap header: %w", err)
	}
	if _, err := w.Write(buf.Pix); err != nil {
		return fmt.Errorf("writing bitmap payload: %w", err)
	}
	return nil
}

// DecodeHeader reads and validates a bitmap header.
func DecodeHeader(r io.Reader) (Header, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Header{}, apperrors.ValidationError{Field: "header", Message: fmt.Sprintf("truncated bitmap header: %v", err)}
	}
	switch {
	case h.File.Type != magic:
		return Header{}, apperrors.ValidationError{Field: "type", Message: fmt.Sprintf("bad magic %q", h.File.Type[:])}
	case h.File.OffBits != HeaderSize:
		return Header{}, apperrors.ValidationError{Field: "offbits", Message: fmt.Sprintf("unexpected payload offset %d", h.File.OffBits)}
	case h.Info.Size != InfoHeaderSize:
		return Header{}, apperrors.ValidationError{Field: "info.size", Message: fmt.Sprintf("unsupported info header size %d", h.Info.Size)}
	case h.Info.BitCount != bitsPerPixel:
		return Header{}, apperrors.ValidationError{Field: "bitcount", Message: fmt.Sprintf("unsupported bit count %d", h.Info.BitCount)}
	case h.Info.Width <= 0 || h.Info.Height <= 0:
		return Header{}, apperrors.ValidationError{Field: "dimensions", Message: fmt.Sprintf("invalid dimensions %dx%d", h.Info.Width, h.Info.Height)}
	case int(h.Info.SizeImage) != h.PayloadSize():
		return Header{}, apperrors.ValidationError{Field: "sizeimage", Message: fmt.Sprintf("image size %d does not match %dx%d", h.Info.SizeImage, h.Info.Width, h.Info.Height)}
	case h.File.Size != HeaderSize+h.Info.SizeImage:
		return Header{}, apperrors.ValidationError{Field: "size", Message: fmt.Sprintf("file size %d does not match payload", h.File.Size)}
	}
	return h, nil
}

// WriteFile encodes buf to path, creating parent directories as needed.
func WriteFile(path string, buf *raster.Buffer) (err error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	w := bufio.NewWriterSize(f, 1<<20)
	if err := Encode(w, buf); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing output file: %w", err)
	}
	return nil
}

// ReadFileHeader opens path and decodes its header.
func ReadFileHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("opening bitmap: %w", err)
	}
	defer f.Close()
	return DecodeHeader(bufio.NewReader(f))
}
