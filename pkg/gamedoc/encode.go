// ABOUTME: Document serializer rendering a catalog as gamelist text
// ABOUTME: Deterministic output, values are written without escaping

package gamedoc

import (
	"bufio"
	"bytes"
	"io"

	"github.com/nainya/gamelist/pkg/gamelist"
)

// Encode writes the document for gl to w. Values are not escaped, so a value
// holding '<' or '>' will not survive a later Decode.
func Encode(w io.Writer, gl *gamelist.GameList) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(Header)
	bw.WriteString("\n")
	bw.WriteString(ListOpen)
	bw.WriteString("\n")
	for _, g := range gl.Games() {
		bw.WriteString("\t" + RecordOpen + "\n")
		for _, f := range g.Fields() {
			bw.WriteString("\t\t<")
			bw.WriteString(f.Name())
			bw.WriteString(">")
			bw.WriteString(f.Value())
			bw.WriteString("</")
			bw.WriteString(f.Name())
			bw.WriteString(">\n")
		}
		bw.WriteString("\t" + RecordClose + "\n")
	}
	bw.WriteString(ListClose)
	bw.WriteString("\n")

	return bw.Flush()
}

// Render returns the document for gl
func Render(gl *gamelist.GameList) []byte {
	var buf bytes.Buffer
	// writes to a bytes.Buffer cannot fail
	_ = Encode(&buf, gl)
	return buf.Bytes()
}
