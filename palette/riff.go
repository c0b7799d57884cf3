package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"

	"golang.org/x/image/riff"
)

// A RIFF PAL file holds one or more "data" chunks, each a LOGPALETTE:
// a version word (0x0300), an entry count and 4 bytes per entry (R, G, B,
// flags).

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

const palVersion = 0x0300

func ReadFrom(r io.Reader) ([]color.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	return readPalettes(rd, string(formType[:]))
}

func readPalettes(r *riff.Reader, ident string) ([]color.Palette, error) {
	var res []color.Palette

	for {
		id, size, data, err := r.Next()
		if errors.Is(err, io.EOF) {
			return res, nil
		} else if err != nil {
			return res, fmt.Errorf("could not read chunk %q#%d: %w", ident, len(res), err)
		}

		switch id {
		case riff.LIST:
			listType, list, err := riff.NewListReader(size, data)
			if err != nil {
				return res, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, len(res), err)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %q#%d unsupported type: %s", ident, len(res), string(listType[:]))
			}

			nested, err := readPalettes(list, fmt.Sprintf("%s%d.%s", ident, len(res), listType[:]))
			res = append(res, nested...)
			if err != nil {
				return res, err
			}
		case dataType:
			pal, err := readPalette(data, fmt.Sprintf("%s%d", ident, len(res)))
			if err != nil {
				return res, err
			}
			res = append(res, pal)
		default:
			return res, fmt.Errorf("unsupported chunk type in %q#%d: %s", ident, len(res), id[:])
		}
	}
}

func readPalette(r io.Reader, ident string) (color.Palette, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("could not read header of chunk %s: %w", ident, err)
	}

	if ver := binary.LittleEndian.Uint16(hdr[:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %#04x", ident, ver)
	}

	count := int(binary.LittleEndian.Uint16(hdr[2:]))
	res := make(color.Palette, count)
	var entry [4]byte
	for i := range count {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return res[:i], fmt.Errorf("could not read color %d/%d from chunk %s: %w", i, count, ident, err)
		}
		res[i] = color.RGBA{R: entry[0], G: entry[1], B: entry[2], A: 0xff}
	}

	return res, nil
}

func WriteTo(w io.Writer, pals []color.Palette) (int64, error) {
	size := 4
	for _, pal := range pals {
		size += 4 + 4 + 4 + len(pal)*4 // chunk id + chunk size + header + 4 bytes/color
	}

	var count int64
	for _, b := range [][]byte{riffType[:], binary.LittleEndian.AppendUint32(nil, uint32(size)), palType[:]} {
		n, err := w.Write(b)
		count += int64(n)
		if err != nil {
			return count, fmt.Errorf("could not write RIFF header: %w", err)
		}
	}

	for i, pal := range pals {
		n, err := writePalette(w, pal)
		count += n
		if err != nil {
			return count, fmt.Errorf("could not write chunk %d: %w", i, err)
		}
	}

	return count, nil
}

func writePalette(w io.Writer, pal color.Palette) (int64, error) {
	buf := make([]byte, 0, 12+len(pal)*4)
	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+len(pal)*4))
	buf = binary.LittleEndian.AppendUint16(buf, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(pal)))

	for _, col := range pal {
		c := color.NRGBAModel.Convert(col).(color.NRGBA)
		buf = append(buf, c.R, c.G, c.B, 0x00)
	}

	n, err := w.Write(buf)
	return int64(n), err
}
