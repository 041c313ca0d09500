package extractor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
	"github.com/insightdelivered/statement-table-extractor/internal/parser"
)

// writePDF assembles a PDF from numbered object bodies with a correct xref
// table, so the library reader opens it.
func writePDF(t *testing.T, objects ...string) string {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "statement.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestExtractDocument_ZeroPages(t *testing.T) {
	path := writePDF(t,
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [] /Count 0 >>",
	)

	tests := []struct {
		name string
		opts Options
	}{
		{"library only", Options{}},
		{"with pdftotext fallback", Options{FallbackPdftotext: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ExtractDocument(path, tt.opts)
			require.NoError(t, err)
			assert.Empty(t, doc.Pages)

			res := parser.NewSession(parser.DefaultConfig(), models.FamilyDBS, nil).Parse(doc)
			assert.False(t, res.Success)
			assert.Equal(t, parser.AbortIntegrity, res.AbortReason)
			assert.Equal(t, []string{"Empty document"}, res.Warnings)
			assert.Equal(t, 0.0, res.Confidence)
		})
	}
}

func TestExtractDocument_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := ExtractDocument(path, Options{})
	assert.ErrorContains(t, err, "PDF text extraction failed")
}
