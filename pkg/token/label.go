package token

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// MaxLabelLen is the size of the PKCS#11 token label field in bytes.
const MaxLabelLen = 32

// ErrLabelTooLong indicates an encoded label does not fit the label field.
var ErrLabelTooLong = errors.New("token: label too long")

// LabelEncoding selects how a label is written to the token.
type LabelEncoding int

const (
	LabelUTF8 LabelEncoding = iota
	LabelCP1251
)

func (e LabelEncoding) String() string {
	if e == LabelCP1251 {
		return "cp1251"
	}
	return "utf-8"
}

// EncodeLabel converts label to the bytes stored on the token.
func EncodeLabel(label string, enc LabelEncoding) ([]byte, error) {
	var raw []byte
	switch enc {
	case LabelUTF8:
		raw = []byte(label)
	case LabelCP1251:
		encoded, err := charmap.Windows1251.NewEncoder().String(label)
		if err != nil {
			return nil, fmt.Errorf("token: label %q is not representable in cp1251: %w", label, err)
		}
		raw = []byte(encoded)
	default:
		return nil, fmt.Errorf("token: unknown label encoding %d", int(enc))
	}
	if len(raw) > MaxLabelLen {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrLabelTooLong, len(raw), MaxLabelLen)
	}
	return raw, nil
}
