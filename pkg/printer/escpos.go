package printer

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/width"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	FS  = 0x1C
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
	FontWide   = 0x10 // Double width only
	FontTall   = 0x01 // Double height only
)

// Document builds an ESC/POS byte stream for thermal printers.
type Document struct {
	buf   bytes.Buffer
	width int // print width in half-width columns (32 for 58mm, 48 for 80mm)
	enc   *encoding.Encoder
}

// NewDocument creates a new ESC/POS document with the given character width.
// Text is written as is, so it should be ASCII.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// NewJapaneseDocument creates a document that encodes text as Shift_JIS and
// switches the printer to kanji mode. Characters Shift_JIS cannot represent
// are printed as '?'.
func NewJapaneseDocument(charWidth int) *Document {
	d := NewDocument(charWidth)
	d.enc = encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder())
	// FS C 1 selects the Shift_JIS code system, FS & enters kanji mode
	d.buf.Write([]byte{FS, 'C', 1, FS, '&'})
	return d
}

// DisplayWidth returns the number of half-width columns s occupies on paper.
// East Asian wide and fullwidth characters take two columns.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func (d *Document) write(s string) {
	if d.enc == nil {
		d.buf.WriteString(s)
		return
	}
	encoded, err := d.enc.String(s)
	if err != nil {
		d.buf.WriteString(strings.Repeat("?", len([]rune(s))))
		return
	}
	d.buf.WriteString(encoded)
}

// Init sends the ESC @ (initialize printer) command.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size. Use FontNormal, FontDouble, FontWide, or FontTall.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.write(s)
	d.buf.WriteByte(LF)
	return d
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator prints a full-width separator line.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "小計                 12,100円"
func (d *Document) KeyValue(key, value string) *Document {
	spaces := d.width - DisplayWidth(key) - DisplayWidth(value)
	if spaces < 1 {
		spaces = 1
	}
	d.write(key)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.write(value)
	d.buf.WriteByte(LF)
	return d
}

// ItemLine prints a receipt item line: name, optional quantity, right-aligned total.
// Example: "シャンプー x2            4,000円"
func (d *Document) ItemLine(qty int64, name, total string) *Document {
	prefix := name
	if qty != 1 {
		prefix = fmt.Sprintf("%s x%d", name, qty)
	}
	return d.KeyValue(prefix, total)
}

// Cut sends the paper cut command (full cut).
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Width returns the print width in half-width columns.
func (d *Document) Width() int {
	return d.width
}
