package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

func TestEncodeLabel(t *testing.T) {
	raw, err := token.EncodeLabel("Токен", token.LabelCP1251)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xD2, 0xEE, 0xEA, 0xE5, 0xED}, raw)

	raw, err = token.EncodeLabel("Токен", token.LabelUTF8)
	require.NoError(t, err)
	assert.Equal(t, []byte("Токен"), raw)
}

func TestEncodeLabelErrors(t *testing.T) {
	_, err := token.EncodeLabel("日本", token.LabelCP1251)
	assert.Error(t, err)

	_, err = token.EncodeLabel(strings.Repeat("a", token.MaxLabelLen+1), token.LabelUTF8)
	assert.ErrorIs(t, err, token.ErrLabelTooLong)

	// 20 Cyrillic letters fit in cp1251 but not in UTF-8.
	label := strings.Repeat("Ж", 20)
	_, err = token.EncodeLabel(label, token.LabelCP1251)
	assert.NoError(t, err)
	_, err = token.EncodeLabel(label, token.LabelUTF8)
	assert.ErrorIs(t, err, token.ErrLabelTooLong)
}
