package printer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 5, DisplayWidth("Total"))
	assert.Equal(t, 4, DisplayWidth("小計"))
	assert.Equal(t, 11, DisplayWidth("カット 3000"))
	assert.Equal(t, 3, DisplayWidth("ｶｯﾄ"))
}

func TestDocument_KeyValueAlignsWideText(t *testing.T) {
	doc := NewDocument(20)
	doc.KeyValue("小計", "9000")

	line := doc.Bytes()[2:] // skip ESC @
	assert.Equal(t, "小計"+strings.Repeat(" ", 12)+"9000\n", string(line))
}

func TestJapaneseDocument_EncodesShiftJIS(t *testing.T) {
	doc := NewJapaneseDocument(32)
	doc.Text("カット")

	want, err := japanese.ShiftJIS.NewEncoder().String("カット")
	require.NoError(t, err)

	out := doc.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte{ESC, '@', FS, 'C', 1, FS, '&'}))
	assert.True(t, bytes.Contains(out, []byte(want+"\n")))
	assert.False(t, bytes.Contains(out, []byte("カット")))
}

func TestDocument_ItemLine(t *testing.T) {
	doc := NewDocument(24)
	doc.ItemLine(2, "Shampoo", "4,000")
	doc.ItemLine(1, "Brush", "800")

	assert.Equal(t, "Shampoo x2"+strings.Repeat(" ", 9)+"4,000\n"+"Brush"+strings.Repeat(" ", 16)+"800\n", string(doc.Bytes()[2:]))
}

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig("none", "", "")
	require.NoError(t, err)
	assert.False(t, p.IsConnected())

	_, err = NewPrinterFromConfig("usb", "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("network", "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("bluetooth", "", "")
	assert.Error(t, err)
}

func TestMemoryPrinter(t *testing.T) {
	p := &MemoryPrinter{}
	require.NoError(t, p.Print([]byte("job")))
	assert.Equal(t, [][]byte{[]byte("job")}, p.Jobs)

	p.Err = errors.New("paper out")
	assert.Error(t, p.Print([]byte("job2")))
	assert.False(t, p.IsConnected())
}
