package media

import (
	"fmt"

	"menulens/internal/apperr"
)

const MiB = 1 << 20

// ValidatePolicy is the accepted-type/size policy for one upload flow.
// The scanning flow and the simple upload flow share the same validator
// and differ only in parameterization.
type ValidatePolicy struct {
	AcceptedTypes []string
	MaxBytes      int64
}

// ScanPolicy is the policy for the menu scanning flow. Scanned images
// go through the compressor, which only re-encodes JPEG and PNG.
func ScanPolicy() ValidatePolicy {
	return ValidatePolicy{
		AcceptedTypes: []string{TypeJPEG, TypePNG},
		MaxBytes:      15 * MiB,
	}
}

// SimpleUploadPolicy is the stricter policy for plain image uploads,
// which skip compression and therefore also admit WebP.
func SimpleUploadPolicy() ValidatePolicy {
	return ValidatePolicy{
		AcceptedTypes: []string{TypeJPEG, TypePNG, TypeWebP},
		MaxBytes:      10 * MiB,
	}
}

// Validate checks the file against the policy. Rules run in order and
// the first failure wins: media type, then byte size. Pure function,
// no side effects.
func (p ValidatePolicy) Validate(f File) error {
	accepted := false
	for _, t := range p.AcceptedTypes {
		if f.ContentType == t {
			accepted = true
			break
		}
	}
	if !accepted {
		return apperr.New(
			apperr.CodeInvalidMediaType,
			fmt.Sprintf("unsupported media type %q", f.ContentType),
			"Only JPEG, PNG and WebP images are supported.",
		)
	}

	if f.Size() > p.MaxBytes {
		return apperr.New(
			apperr.CodeFileTooLarge,
			fmt.Sprintf("file is %d bytes, limit is %d", f.Size(), p.MaxBytes),
			fmt.Sprintf("The image exceeds the %d MiB limit. Please choose a smaller file.", p.MaxBytes/MiB),
		)
	}

	return nil
}
