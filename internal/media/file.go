package media

// File is an in-memory image payload with its declared media type.
// The declared type is what the client claims; the validator checks it
// against policy before any bytes are decoded.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int64 { return int64(len(f.Data)) }

const (
	TypeJPEG = "image/jpeg"
	TypePNG  = "image/png"
	TypeWebP = "image/webp"
)
